package implementation

import (
	"context"
	"errors"

	"notesearch-be/internal/entity"
	"notesearch-be/internal/mapper"
	"notesearch-be/internal/model"
	"notesearch-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteEmbeddingMapper
}

func NewNoteEmbeddingRepository(db *gorm.DB) contract.NoteEmbeddingRepository {
	return &NoteEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteEmbeddingMapper(),
	}
}

func (r *NoteEmbeddingRepositoryImpl) Save(ctx context.Context, embedding *entity.NoteEmbedding) error {
	m := r.mapper.ToModel(embedding)
	// Upsert keyed on note_id: overwrite vector and fingerprint, never append.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "note_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vector", "content_hash", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteEmbeddingRepositoryImpl) FindByNoteId(ctx context.Context, noteId uuid.UUID) (*entity.NoteEmbedding, error) {
	var m model.NoteEmbedding
	err := r.db.WithContext(ctx).Where("note_id = ?", noteId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteEmbeddingRepositoryImpl) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("note_id = ?", noteId).Delete(&model.NoteEmbedding{}).Error
}

func (r *NoteEmbeddingRepositoryImpl) ExistsByNoteId(ctx context.Context, noteId uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.NoteEmbedding{}).
		Where("note_id = ?", noteId).
		Count(&count).Error
	return count > 0, err
}

func (r *NoteEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.NoteEmbedding{}).Count(&count).Error
	return count, err
}

func (r *NoteEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, vector []float32, limit int, threshold float64) ([]contract.ScoredNote, error) {
	return r.search(ctx, vector, limit, &threshold)
}

func (r *NoteEmbeddingRepositoryImpl) SearchSimilarUnfiltered(ctx context.Context, vector []float32, limit int) ([]contract.ScoredNote, error) {
	return r.search(ctx, vector, limit, nil)
}

func (r *NoteEmbeddingRepositoryImpl) search(ctx context.Context, vector []float32, limit int, threshold *float64) ([]contract.ScoredNote, error) {
	if limit <= 0 {
		limit = 20
	}

	type row struct {
		NoteId     uuid.UUID
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(vector)

	// pgvector <=> is cosine distance; similarity = 1 - distance.
	// note_id in the ORDER BY keeps equal scores in a reproducible order.
	query := r.db.WithContext(ctx).
		Table("note_embeddings").
		Select("note_id, 1 - (vector <=> ?) AS similarity", queryVector)

	if threshold != nil {
		query = query.Where("1 - (vector <=> ?) >= ?", queryVector, *threshold)
	}

	err := query.
		Order("similarity DESC, note_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]contract.ScoredNote, len(rows))
	for i, res := range rows {
		scored[i] = contract.ScoredNote{
			NoteId:     res.NoteId,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
