package search

import (
	"context"
	"errors"
	"testing"

	"notesearch-be/internal/pkg/logger"
	"notesearch-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

type fakeVectorStore struct {
	scored []contract.ScoredNote
	err    error
}

func (f *fakeVectorStore) SimilaritySearch(context.Context, []float32, int, float64) ([]contract.ScoredNote, error) {
	return f.scored, f.err
}

func TestSemanticSearchReturnsScores(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	store := &fakeVectorStore{scored: []contract.ScoredNote{
		{NoteId: a, Similarity: 0.91},
		{NoteId: b, Similarity: 0.72},
	}}
	engine := NewEngine(&fakeEmbedder{vector: []float32{0.1}}, store, logger.Noop())

	result := engine.Search(context.Background(), "groceries", 20, 0.60)
	assert.Len(t, result, 2)
	assert.InDelta(t, 0.91, result[a], 1e-9)
	assert.InDelta(t, 0.72, result[b], 1e-9)
}

func TestSemanticSearchEmptyOnEmbedderFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("provider unreachable")}
	engine := NewEngine(embedder, &fakeVectorStore{}, logger.Noop())

	result := engine.Search(context.Background(), "groceries", 20, 0.60)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestSemanticSearchEmptyOnStoreFailure(t *testing.T) {
	store := &fakeVectorStore{err: errors.New("connection refused")}
	engine := NewEngine(&fakeEmbedder{vector: []float32{0.1}}, store, logger.Noop())

	result := engine.Search(context.Background(), "groceries", 20, 0.60)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestSemanticSearchReusesCachedQueryVector(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	engine := NewEngine(embedder, &fakeVectorStore{}, logger.Noop())

	// Same text twice within the TTL: one provider call. This is exactly the
	// threshold-fallback pattern, which re-queries with the same text.
	engine.Search(context.Background(), "groceries", 20, 0.60)
	engine.Search(context.Background(), "groceries", 20, 0.35)
	assert.Equal(t, 1, embedder.calls)

	engine.Search(context.Background(), "different text", 20, 0.60)
	assert.Equal(t, 2, embedder.calls)
}

func TestSemanticSearchDoesNotCacheFailedEmbeds(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("transient")}
	engine := NewEngine(embedder, &fakeVectorStore{}, logger.Noop())

	engine.Search(context.Background(), "groceries", 20, 0.60)
	engine.Search(context.Background(), "groceries", 20, 0.60)
	assert.Equal(t, 2, embedder.calls)
}
