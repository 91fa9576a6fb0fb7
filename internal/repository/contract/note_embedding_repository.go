package contract

import (
	"context"

	"notesearch-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredNote pairs a note id with its cosine similarity to a query vector,
// mapped to [0,1] where 1.0 = identical direction.
type ScoredNote struct {
	NoteId     uuid.UUID
	Similarity float64
}

type NoteEmbeddingRepository interface {
	// Save upserts on note_id: at most one row per note ever exists.
	// Concurrent saves for the same note serialize at the database and the
	// last writer wins.
	Save(ctx context.Context, embedding *entity.NoteEmbedding) error
	FindByNoteId(ctx context.Context, noteId uuid.UUID) (*entity.NoteEmbedding, error)
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
	ExistsByNoteId(ctx context.Context, noteId uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)

	// SearchSimilar returns (noteId, similarity) pairs with similarity >=
	// threshold, ordered by similarity descending with note id as a
	// deterministic tie-break.
	SearchSimilar(ctx context.Context, vector []float32, limit int, threshold float64) ([]ScoredNote, error)
	// SearchSimilarUnfiltered is the diagnostic variant without the threshold.
	SearchSimilarUnfiltered(ctx context.Context, vector []float32, limit int) ([]ScoredNote, error)
}
