package service

import (
	"context"
	"errors"
	"testing"

	"notesearch-be/internal/entity"
	"notesearch-be/internal/pkg/logger"
	"notesearch-be/pkg/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubSemantic struct {
	scores    map[uuid.UUID]float64
	panicking bool
}

func (s *stubSemantic) Search(context.Context, string, int, float64) map[uuid.UUID]float64 {
	if s.panicking {
		panic("embedding subsystem blew up")
	}
	out := make(map[uuid.UUID]float64, len(s.scores))
	for id, score := range s.scores {
		out[id] = score
	}
	return out
}

type stubKeyword struct {
	notes []*entity.Note
	err   error
}

func (s *stubKeyword) SearchByKeyword(context.Context, uuid.UUID, string) ([]*entity.Note, error) {
	return s.notes, s.err
}

type stubAccess struct {
	ids map[uuid.UUID]bool
	err error
}

func (s *stubAccess) AccessibleNoteIds(context.Context, uuid.UUID) (map[uuid.UUID]bool, error) {
	return s.ids, s.err
}

type stubFetcher struct {
	notes map[uuid.UUID]*entity.Note
}

func (s *stubFetcher) FindNotesByIds(_ context.Context, ids []uuid.UUID) ([]*entity.Note, error) {
	var out []*entity.Note
	for _, id := range ids {
		if note, ok := s.notes[id]; ok {
			out = append(out, note)
		}
	}
	return out, nil
}

func newSearchServiceForTest(semantic *stubSemantic, keyword *stubKeyword, access *stubAccess, fetcher *stubFetcher) ISearchService {
	orchestrator := search.NewOrchestrator(search.DefaultConfig(), semantic, keyword, access, fetcher, logger.Noop())
	return NewSearchService(orchestrator, logger.Noop())
}

func TestSearchHybridMode(t *testing.T) {
	keywordId := uuid.New()
	semanticId := uuid.New()

	semantic := &stubSemantic{scores: map[uuid.UUID]float64{semanticId: 0.9, uuid.New(): 0.8, uuid.New(): 0.7}}
	keyword := &stubKeyword{notes: []*entity.Note{{Id: keywordId, Title: "milk"}}}
	access := &stubAccess{ids: map[uuid.UUID]bool{keywordId: true, semanticId: true}}
	fetcher := &stubFetcher{notes: map[uuid.UUID]*entity.Note{semanticId: {Id: semanticId, Title: "groceries"}}}

	svc := newSearchServiceForTest(semantic, keyword, access, fetcher)
	res, err := svc.Search(context.Background(), uuid.New(), "milk", SearchModeHybrid)
	assert.NoError(t, err)

	if assert.Len(t, res, 2) {
		for _, r := range res {
			assert.Equal(t, SearchModeHybrid, r.SearchType)
			assert.NotNil(t, r.Score)
		}
		// Semantic 0.63 outranks keyword 0.3
		assert.Equal(t, semanticId, res[0].Id)
	}
}

func TestSearchKeywordMode(t *testing.T) {
	id := uuid.New()
	keyword := &stubKeyword{notes: []*entity.Note{{Id: id, Title: "milk"}}}

	svc := newSearchServiceForTest(&stubSemantic{}, keyword, &stubAccess{}, &stubFetcher{})
	res, err := svc.Search(context.Background(), uuid.New(), "milk", SearchModeKeyword)
	assert.NoError(t, err)

	if assert.Len(t, res, 1) {
		assert.Equal(t, SearchModeKeyword, res[0].SearchType)
		assert.Nil(t, res[0].Score)
	}
}

func TestSearchFallsBackOnHybridError(t *testing.T) {
	id := uuid.New()
	semantic := &stubSemantic{scores: map[uuid.UUID]float64{uuid.New(): 0.9, uuid.New(): 0.8, uuid.New(): 0.7}}
	keyword := &stubKeyword{notes: []*entity.Note{{Id: id, Title: "milk"}}}
	access := &stubAccess{err: errors.New("share lookup failed")}

	svc := newSearchServiceForTest(semantic, keyword, access, &stubFetcher{})
	res, err := svc.Search(context.Background(), uuid.New(), "milk", SearchModeHybrid)
	assert.NoError(t, err)

	if assert.Len(t, res, 1) {
		assert.Equal(t, id, res[0].Id)
		assert.Equal(t, SearchModeKeyword, res[0].SearchType)
	}
}

func TestSearchFallsBackOnHybridPanic(t *testing.T) {
	id := uuid.New()
	semantic := &stubSemantic{panicking: true}
	keyword := &stubKeyword{notes: []*entity.Note{{Id: id, Title: "milk"}}}

	svc := newSearchServiceForTest(semantic, keyword, &stubAccess{}, &stubFetcher{})
	res, err := svc.Search(context.Background(), uuid.New(), "milk", SearchModeHybrid)
	assert.NoError(t, err)

	if assert.Len(t, res, 1) {
		assert.Equal(t, id, res[0].Id)
		assert.Equal(t, SearchModeKeyword, res[0].SearchType)
	}
}

func TestSearchReturnsErrorWhenBothPathsFail(t *testing.T) {
	keyword := &stubKeyword{err: errors.New("database down")}

	svc := newSearchServiceForTest(&stubSemantic{}, keyword, &stubAccess{}, &stubFetcher{})
	_, err := svc.Search(context.Background(), uuid.New(), "milk", SearchModeHybrid)
	assert.Error(t, err)
}
