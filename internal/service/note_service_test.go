package service

import (
	"context"
	"testing"

	"notesearch-be/internal/dto"
	"notesearch-be/internal/entity"
	"notesearch-be/internal/pkg/logger"
	"notesearch-be/internal/repository/specification"
	"notesearch-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeNoteRepo ignores specifications and serves a fixed set of notes; spec
// semantics are covered by the repository integration tests.
type fakeNoteRepo struct {
	notes   map[uuid.UUID]*entity.Note
	deleted []uuid.UUID
}

func newFakeNoteRepo(notes ...*entity.Note) *fakeNoteRepo {
	m := make(map[uuid.UUID]*entity.Note, len(notes))
	for _, n := range notes {
		m[n.Id] = n
	}
	return &fakeNoteRepo{notes: m}
}

func (r *fakeNoteRepo) Create(_ context.Context, note *entity.Note) error {
	r.notes[note.Id] = note
	return nil
}

func (r *fakeNoteRepo) Update(_ context.Context, note *entity.Note) error {
	r.notes[note.Id] = note
	return nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.notes, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeNoteRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Note, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.notes[byId.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Note, error) {
	out := make([]*entity.Note, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNoteRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.notes)), nil
}

func (r *fakeNoteRepo) AccessibleNoteIds(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.notes))
	for id := range r.notes {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeNoteRepo) AddShares(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error { return nil }
func (r *fakeNoteRepo) RemoveShare(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }
func (r *fakeNoteRepo) FindSharedUserIds(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

type capturingPublisher struct {
	payloads [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

type noopEmailService struct{}

func (noopEmailService) SendOTP(_, _ string) error                  { return nil }
func (noopEmailService) SendShareNotification(_, _, _ string) error { return nil }

type noteServiceFixture struct {
	svc           INoteService
	noteRepo      *fakeNoteRepo
	embeddingRepo *fakeEmbeddingRepo
	publisher     *capturingPublisher
}

func newNoteServiceFixture(notes ...*entity.Note) *noteServiceFixture {
	noteRepo := newFakeNoteRepo(notes...)
	embeddingRepo := newFakeEmbeddingRepo()
	uow := &fakeUow{embeddingRepo: embeddingRepo, noteRepo: noteRepo}
	factory := &fakeUowFactory{uow: uow}

	provider := &countingProvider{vector: []float32{0.1}}
	embeddingSvc := NewEmbeddingService(factory, embedding.NewClient(provider), logger.Noop())

	publisher := &capturingPublisher{}
	svc := NewNoteService(factory, publisher, embeddingSvc, noopEmailService{}, nil, logger.Noop())
	return &noteServiceFixture{
		svc:           svc,
		noteRepo:      noteRepo,
		embeddingRepo: embeddingRepo,
		publisher:     publisher,
	}
}

func TestCreateQueuesEmbedMessage(t *testing.T) {
	f := newNoteServiceFixture()
	userId := uuid.New()

	res, err := f.svc.Create(context.Background(), userId, &dto.CreateNoteRequest{
		Title:   "Shopping",
		Content: "Milk and eggs",
		Tags:    []string{"errands"},
	})
	assert.NoError(t, err)
	assert.NotNil(t, f.noteRepo.notes[res.Id])
	assert.Len(t, f.publisher.payloads, 1)
}

func TestDeleteRemovesEmbeddingBeforeNote(t *testing.T) {
	userId := uuid.New()
	note := &entity.Note{Id: uuid.New(), Title: "Shopping", UserId: userId}
	f := newNoteServiceFixture(note)

	f.embeddingRepo.rows[note.Id] = &entity.NoteEmbedding{Id: uuid.New(), NoteId: note.Id}

	err := f.svc.Delete(context.Background(), userId, note.Id)
	assert.NoError(t, err)

	assert.Empty(t, f.embeddingRepo.rows)
	assert.Equal(t, []uuid.UUID{note.Id}, f.noteRepo.deleted)
}

func TestPatchSkipsEmbedQueueOnTagOnlyChange(t *testing.T) {
	userId := uuid.New()
	note := &entity.Note{Id: uuid.New(), Title: "Shopping", Content: "Milk", UserId: userId}
	f := newNoteServiceFixture(note)

	tags := []string{"errands"}
	_, err := f.svc.Patch(context.Background(), userId, &dto.PatchNoteRequest{Id: note.Id, Tags: &tags})
	assert.NoError(t, err)
	assert.Empty(t, f.publisher.payloads)

	newContent := "Milk and eggs"
	_, err = f.svc.Patch(context.Background(), userId, &dto.PatchNoteRequest{Id: note.Id, Content: &newContent})
	assert.NoError(t, err)
	assert.Len(t, f.publisher.payloads, 1)
}

func TestRegenerateAllReportsPerNoteOutcomes(t *testing.T) {
	userId := uuid.New()
	first := &entity.Note{Id: uuid.New(), Title: "a", Content: "b", UserId: userId}
	second := &entity.Note{Id: uuid.New(), Title: "c", Content: "d", UserId: userId}
	f := newNoteServiceFixture(first, second)

	res, err := f.svc.RegenerateAllEmbeddings(context.Background(), userId)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalNotes)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 0, res.FailureCount)
	assert.Len(t, f.embeddingRepo.rows, 2)
}
