package service

import (
	"context"
	"errors"
	"testing"

	"notesearch-be/internal/entity"
	"notesearch-be/internal/pkg/apperror"
	"notesearch-be/internal/pkg/logger"
	"notesearch-be/internal/repository/contract"
	"notesearch-be/internal/repository/unitofwork"
	"notesearch-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeEmbeddingRepo is an in-memory NoteEmbeddingRepository keyed by note id.
type fakeEmbeddingRepo struct {
	rows      map[uuid.UUID]*entity.NoteEmbedding
	saveErr   error
	findErr   error
	deleteErr error
}

func newFakeEmbeddingRepo() *fakeEmbeddingRepo {
	return &fakeEmbeddingRepo{rows: make(map[uuid.UUID]*entity.NoteEmbedding)}
}

func (r *fakeEmbeddingRepo) Save(_ context.Context, e *entity.NoteEmbedding) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *e
	r.rows[e.NoteId] = &cp
	return nil
}

func (r *fakeEmbeddingRepo) FindByNoteId(_ context.Context, noteId uuid.UUID) (*entity.NoteEmbedding, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	row, ok := r.rows[noteId]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeEmbeddingRepo) DeleteByNoteId(_ context.Context, noteId uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.rows, noteId)
	return nil
}

func (r *fakeEmbeddingRepo) ExistsByNoteId(_ context.Context, noteId uuid.UUID) (bool, error) {
	_, ok := r.rows[noteId]
	return ok, nil
}

func (r *fakeEmbeddingRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *fakeEmbeddingRepo) SearchSimilar(_ context.Context, _ []float32, _ int, _ float64) ([]contract.ScoredNote, error) {
	return nil, nil
}

func (r *fakeEmbeddingRepo) SearchSimilarUnfiltered(_ context.Context, _ []float32, _ int) ([]contract.ScoredNote, error) {
	return nil, nil
}

type fakeUow struct {
	embeddingRepo *fakeEmbeddingRepo
	noteRepo      *fakeNoteRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return nil }
func (u *fakeUow) NoteRepository() contract.NoteRepository { return u.noteRepo }
func (u *fakeUow) NoteEmbeddingRepository() contract.NoteEmbeddingRepository {
	return u.embeddingRepo
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

// countingProvider records Generate calls and returns a fixed vector.
type countingProvider struct {
	calls  int
	vector []float32
	err    error
}

func (p *countingProvider) Generate(_ context.Context, _ string) ([]float32, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.vector, nil
}

func (p *countingProvider) Dimensions() int { return len(p.vector) }

func newEmbeddingServiceForTest(repo *fakeEmbeddingRepo, provider *countingProvider) IEmbeddingService {
	factory := &fakeUowFactory{uow: &fakeUow{embeddingRepo: repo}}
	client := embedding.NewClient(provider)
	return NewEmbeddingService(factory, client, logger.Noop())
}

func TestContentFingerprint(t *testing.T) {
	a := ContentFingerprint("Title", "Content")
	b := ContentFingerprint("Title", "Content")
	c := ContentFingerprint("Title", "Changed")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)

	// Hashing is total: empty input still produces a fingerprint
	assert.Len(t, ContentFingerprint("", ""), 64)
}

func TestUpsertStrictCreatesRow(t *testing.T) {
	repo := newFakeEmbeddingRepo()
	provider := &countingProvider{vector: []float32{0.1, 0.2, 0.3}}
	svc := newEmbeddingServiceForTest(repo, provider)
	noteId := uuid.New()

	err := svc.UpsertStrict(context.Background(), noteId, "Shopping", "Milk and eggs")
	assert.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	row := repo.rows[noteId]
	if assert.NotNil(t, row) {
		assert.Equal(t, ContentFingerprint("Shopping", "Milk and eggs"), row.ContentHash)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, row.Vector)
	}
}

func TestUpsertStrictSkipsUnchangedContent(t *testing.T) {
	repo := newFakeEmbeddingRepo()
	provider := &countingProvider{vector: []float32{0.1, 0.2, 0.3}}
	svc := newEmbeddingServiceForTest(repo, provider)
	noteId := uuid.New()

	for i := 0; i < 5; i++ {
		err := svc.UpsertStrict(context.Background(), noteId, "Shopping", "Milk and eggs")
		assert.NoError(t, err)
	}

	// Generation cost tracks distinct content versions, not save frequency
	assert.Equal(t, 1, provider.calls)
}

func TestUpsertStrictRegeneratesOnChange(t *testing.T) {
	repo := newFakeEmbeddingRepo()
	provider := &countingProvider{vector: []float32{0.1, 0.2, 0.3}}
	svc := newEmbeddingServiceForTest(repo, provider)
	noteId := uuid.New()

	assert.NoError(t, svc.UpsertStrict(context.Background(), noteId, "Shopping", "Milk"))
	firstId := repo.rows[noteId].Id
	firstCreatedAt := repo.rows[noteId].CreatedAt

	assert.NoError(t, svc.UpsertStrict(context.Background(), noteId, "Shopping", "Milk and eggs"))
	assert.Equal(t, 2, provider.calls)

	// The row is updated in place, not replaced
	assert.Equal(t, firstId, repo.rows[noteId].Id)
	assert.Equal(t, firstCreatedAt, repo.rows[noteId].CreatedAt)
	assert.Equal(t, ContentFingerprint("Shopping", "Milk and eggs"), repo.rows[noteId].ContentHash)
}

func TestUpsertStrictSurfacesProviderError(t *testing.T) {
	repo := newFakeEmbeddingRepo()
	provider := &countingProvider{err: &embedding.ProviderError{StatusCode: 429, Message: "rate limited"}}
	svc := newEmbeddingServiceForTest(repo, provider)
	noteId := uuid.New()

	err := svc.UpsertStrict(context.Background(), noteId, "Shopping", "Milk")
	assert.Error(t, err)

	var provErr *embedding.ProviderError
	assert.True(t, errors.As(err, &provErr))
	assert.Empty(t, repo.rows)
}

func TestUpsertSwallowsErrors(t *testing.T) {
	repo := newFakeEmbeddingRepo()
	provider := &countingProvider{err: &embedding.ProviderError{StatusCode: 500, Message: "boom"}}
	svc := newEmbeddingServiceForTest(repo, provider)

	// Must not panic or leak the error; the note write path depends on that
	svc.Upsert(context.Background(), uuid.New(), "Shopping", "Milk")
	assert.Empty(t, repo.rows)
}

func TestUpsertStrictWrapsStoreError(t *testing.T) {
	repo := newFakeEmbeddingRepo()
	repo.saveErr = errors.New("connection refused")
	provider := &countingProvider{vector: []float32{0.1}}
	svc := newEmbeddingServiceForTest(repo, provider)

	err := svc.UpsertStrict(context.Background(), uuid.New(), "Shopping", "Milk")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrVectorStore))
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newFakeEmbeddingRepo()
	provider := &countingProvider{vector: []float32{0.1}}
	svc := newEmbeddingServiceForTest(repo, provider)
	noteId := uuid.New()

	assert.NoError(t, svc.UpsertStrict(context.Background(), noteId, "a", "b"))
	assert.NoError(t, svc.Delete(context.Background(), noteId))
	assert.NoError(t, svc.Delete(context.Background(), noteId))

	exists, err := svc.Exists(context.Background(), noteId)
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestExistsAndCount(t *testing.T) {
	repo := newFakeEmbeddingRepo()
	provider := &countingProvider{vector: []float32{0.1}}
	svc := newEmbeddingServiceForTest(repo, provider)

	first, second := uuid.New(), uuid.New()
	assert.NoError(t, svc.UpsertStrict(context.Background(), first, "a", "b"))
	assert.NoError(t, svc.UpsertStrict(context.Background(), second, "c", "d"))

	exists, err := svc.Exists(context.Background(), first)
	assert.NoError(t, err)
	assert.True(t, exists)

	count, err := svc.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
