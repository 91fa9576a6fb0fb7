package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"notesearch-be/internal/entity"
	"notesearch-be/internal/pkg/apperror"
	"notesearch-be/internal/pkg/logger"
	"notesearch-be/internal/repository/contract"
	"notesearch-be/internal/repository/unitofwork"
	"notesearch-be/pkg/embedding"

	"github.com/google/uuid"
)

// IEmbeddingService is the embedding cache store: one current vector per note,
// recomputed only when the content fingerprint changes.
//
// Upsert vs UpsertStrict reflect caller intent, not failure kind: operational
// callers (note saves) must never see an error from this subsystem, while
// diagnostic callers (maintenance endpoints) need the real one.
type IEmbeddingService interface {
	Upsert(ctx context.Context, noteId uuid.UUID, title, content string)
	UpsertStrict(ctx context.Context, noteId uuid.UUID, title, content string) error
	Delete(ctx context.Context, noteId uuid.UUID) error
	Exists(ctx context.Context, noteId uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	SimilaritySearch(ctx context.Context, vector []float32, limit int, threshold float64) ([]contract.ScoredNote, error)
	SimilaritySearchUnfiltered(ctx context.Context, vector []float32, limit int) ([]contract.ScoredNote, error)
}

type embeddingService struct {
	uowFactory unitofwork.RepositoryFactory
	client     *embedding.Client
	logger     logger.ILogger
}

func NewEmbeddingService(
	uowFactory unitofwork.RepositoryFactory,
	client *embedding.Client,
	log logger.ILogger,
) IEmbeddingService {
	return &embeddingService{
		uowFactory: uowFactory,
		client:     client,
		logger:     log,
	}
}

// ContentFingerprint hashes the exact text pair that feeds the embedding.
// Empty strings hash as empty, never as null, so hashing is total.
func ContentFingerprint(title, content string) string {
	sum := sha256.Sum256([]byte(title + content))
	return hex.EncodeToString(sum[:])
}

// Upsert refreshes the cached vector for a note. Failures are logged and
// swallowed: a missing embedding degrades search recall, but it must never
// abort the note write that triggered it.
func (s *embeddingService) Upsert(ctx context.Context, noteId uuid.UUID, title, content string) {
	if err := s.UpsertStrict(ctx, noteId, title, content); err != nil {
		s.logger.Error("embedding", "embedding upsert failed, note write unaffected", map[string]interface{}{
			"note_id":        noteId.String(),
			"title":          title,
			"content_length": len(content),
			"error":          err.Error(),
		})
	}
}

// UpsertStrict is the diagnostic variant: same logic, real error surfaced.
func (s *embeddingService) UpsertStrict(ctx context.Context, noteId uuid.UUID, title, content string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NoteEmbeddingRepository()

	fingerprint := ContentFingerprint(title, content)

	existing, err := repo.FindByNoteId(ctx, noteId)
	if err != nil {
		return apperror.VectorStore(err)
	}

	// Cost control: generation cost tracks distinct content versions, not
	// save frequency. The fingerprint check always precedes the provider call.
	if existing != nil && existing.ContentHash == fingerprint {
		s.logger.Debug("embedding", "content unchanged, skipping generation", map[string]interface{}{
			"note_id": noteId.String(),
		})
		return nil
	}

	vector, err := s.client.EmbedForNote(ctx, title, content)
	if err != nil {
		return err
	}

	now := time.Now()
	row := &entity.NoteEmbedding{
		Id:          uuid.New(),
		NoteId:      noteId,
		Vector:      vector,
		ContentHash: fingerprint,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing != nil {
		row.Id = existing.Id
		row.CreatedAt = existing.CreatedAt
	}

	if err := repo.Save(ctx, row); err != nil {
		return apperror.VectorStore(err)
	}

	s.logger.Info("embedding", "embedding upserted", map[string]interface{}{
		"note_id": noteId.String(),
		"updated": existing != nil,
	})
	return nil
}

// Delete is idempotent; deleting a note without an embedding is a no-op.
func (s *embeddingService) Delete(ctx context.Context, noteId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteEmbeddingRepository().DeleteByNoteId(ctx, noteId); err != nil {
		return apperror.VectorStore(err)
	}
	return nil
}

func (s *embeddingService) Exists(ctx context.Context, noteId uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	exists, err := uow.NoteEmbeddingRepository().ExistsByNoteId(ctx, noteId)
	if err != nil {
		return false, apperror.VectorStore(err)
	}
	return exists, nil
}

func (s *embeddingService) Count(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.NoteEmbeddingRepository().Count(ctx)
	if err != nil {
		return 0, apperror.VectorStore(err)
	}
	return count, nil
}

func (s *embeddingService) SimilaritySearch(ctx context.Context, vector []float32, limit int, threshold float64) ([]contract.ScoredNote, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.NoteEmbeddingRepository().SearchSimilar(ctx, vector, limit, threshold)
	if err != nil {
		return nil, apperror.VectorStore(err)
	}
	return scored, nil
}

func (s *embeddingService) SimilaritySearchUnfiltered(ctx context.Context, vector []float32, limit int) ([]contract.ScoredNote, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.NoteEmbeddingRepository().SearchSimilarUnfiltered(ctx, vector, limit)
	if err != nil {
		return nil, apperror.VectorStore(err)
	}
	return scored, nil
}
