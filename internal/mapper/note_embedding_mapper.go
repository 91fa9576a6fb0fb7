package mapper

import (
	"notesearch-be/internal/entity"
	"notesearch-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type NoteEmbeddingMapper struct{}

func NewNoteEmbeddingMapper() *NoteEmbeddingMapper {
	return &NoteEmbeddingMapper{}
}

func (m *NoteEmbeddingMapper) ToEntity(e *model.NoteEmbedding) *entity.NoteEmbedding {
	if e == nil {
		return nil
	}

	return &entity.NoteEmbedding{
		Id:          e.Id,
		NoteId:      e.NoteId,
		Vector:      e.Vector.Slice(),
		ContentHash: e.ContentHash,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (m *NoteEmbeddingMapper) ToModel(e *entity.NoteEmbedding) *model.NoteEmbedding {
	if e == nil {
		return nil
	}

	return &model.NoteEmbedding{
		Id:          e.Id,
		NoteId:      e.NoteId,
		Vector:      pgvector.NewVector(e.Vector),
		ContentHash: e.ContentHash,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
