package contract

import (
	"context"

	"notesearch-be/internal/entity"
	"notesearch-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// AccessibleNoteIds returns every note id the user owns or has shared
	// access to. Used to filter vector-store results, which carry no
	// access-control information of their own.
	AccessibleNoteIds(ctx context.Context, userId uuid.UUID) ([]uuid.UUID, error)

	AddShares(ctx context.Context, noteId uuid.UUID, userIds []uuid.UUID) error
	RemoveShare(ctx context.Context, noteId uuid.UUID, userId uuid.UUID) error
	FindSharedUserIds(ctx context.Context, noteId uuid.UUID) ([]uuid.UUID, error)
}
