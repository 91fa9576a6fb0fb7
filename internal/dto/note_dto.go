package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type CreateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowNoteResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	OwnerId   uuid.UUID  `json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	// SharedWith is populated only for the owner on single-note reads.
	SharedWith []uuid.UUID `json:"shared_with,omitempty"`
}

type UpdateNoteRequest struct {
	Id      uuid.UUID
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type UpdateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

// PatchNoteRequest carries partial updates; nil fields are left untouched.
type PatchNoteRequest struct {
	Id      uuid.UUID
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

type ShareNoteRequest struct {
	Id     uuid.UUID
	Emails []string `json:"emails" validate:"required,min=1,dive,email"`
}

// PublishEmbedNoteMessage is the async embed-pipeline payload published on
// note create/update.
type PublishEmbedNoteMessage struct {
	NoteId uuid.UUID `json:"note_id"`
}
