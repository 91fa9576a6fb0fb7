package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type NoteEmbedding struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteId      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Vector      pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small dimension
	ContentHash string          `gorm:"type:varchar(64);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (NoteEmbedding) TableName() string {
	return "note_embeddings"
}
