package implementation

import (
	"context"
	"errors"

	"notesearch-be/internal/entity"
	"notesearch-be/internal/mapper"
	"notesearch-be/internal/model"
	"notesearch-be/internal/repository/contract"
	"notesearch-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Note{}, id).Error
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *NoteRepositoryImpl) AccessibleNoteIds(ctx context.Context, userId uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Note{}).
		Joins("LEFT JOIN note_shares ON note_shares.note_id = notes.id").
		Where("notes.user_id = ? OR note_shares.user_id = ?", userId, userId).
		Distinct().
		Pluck("notes.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *NoteRepositoryImpl) AddShares(ctx context.Context, noteId uuid.UUID, userIds []uuid.UUID) error {
	if len(userIds) == 0 {
		return nil
	}
	shares := make([]*model.NoteShare, len(userIds))
	for i, uid := range userIds {
		shares[i] = &model.NoteShare{NoteId: noteId, UserId: uid}
	}
	// Sharing twice with the same user is a no-op
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(shares).Error
}

func (r *NoteRepositoryImpl) RemoveShare(ctx context.Context, noteId uuid.UUID, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", noteId, userId).
		Delete(&model.NoteShare{}).Error
}

func (r *NoteRepositoryImpl) FindSharedUserIds(ctx context.Context, noteId uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.NoteShare{}).
		Where("note_id = ?", noteId).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
