package dto

import "github.com/google/uuid"

type EmbeddingStatusResponse struct {
	NoteId       uuid.UUID `json:"note_id"`
	HasEmbedding bool      `json:"has_embedding"`
	TotalCached  int64     `json:"total_cached"`
}

type RegenerateAllResponse struct {
	TotalNotes   int `json:"total_notes"`
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}
