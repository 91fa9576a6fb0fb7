package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id         uuid.UUID
	Title      string
	Content    string
	Tags       []string
	UserId     uuid.UUID
	SharedWith []uuid.UUID // user ids this note is shared with, loaded on demand
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
