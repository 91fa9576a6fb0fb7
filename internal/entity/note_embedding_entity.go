package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteEmbedding is the cached vector for one note. At most one row exists per
// note; ContentHash is the SHA-256 fingerprint of the exact text that produced
// Vector, used to skip regeneration when content has not changed.
type NoteEmbedding struct {
	Id          uuid.UUID
	NoteId      uuid.UUID
	Vector      []float32
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
