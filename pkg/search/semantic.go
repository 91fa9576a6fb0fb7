package search

import (
	"context"
	"time"

	"notesearch-be/internal/pkg/logger"
	"notesearch-be/internal/repository/contract"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Embedder turns query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore answers nearest-neighbor queries over cached note vectors.
type VectorStore interface {
	SimilaritySearch(ctx context.Context, vector []float32, limit int, threshold float64) ([]contract.ScoredNote, error)
}

// Engine answers "which notes are semantically closest to this query text".
// It is an enhancement layer, never a hard dependency: every failure path
// returns an empty map so search availability never hinges on the embedding
// subsystem.
type Engine struct {
	embedder   Embedder
	store      VectorStore
	queryCache *gocache.Cache
	logger     logger.ILogger
}

func NewEngine(embedder Embedder, store VectorStore, log logger.ILogger) *Engine {
	// Repeated searches for the same text within the TTL reuse the query
	// vector instead of paying for another provider call.
	queryCache := gocache.New(5*time.Minute, 10*time.Minute)
	return &Engine{
		embedder:   embedder,
		store:      store,
		queryCache: queryCache,
		logger:     log,
	}
}

// Search embeds queryText and returns noteId -> similarity for rows at or
// above threshold, capped at limit.
func (e *Engine) Search(ctx context.Context, queryText string, limit int, threshold float64) map[uuid.UUID]float64 {
	vector, err := e.queryVector(ctx, queryText)
	if err != nil {
		e.logger.Warn("search", "semantic search degraded: query embedding failed", map[string]interface{}{
			"error": err.Error(),
		})
		return map[uuid.UUID]float64{}
	}

	scored, err := e.store.SimilaritySearch(ctx, vector, limit, threshold)
	if err != nil {
		e.logger.Warn("search", "semantic search degraded: vector store query failed", map[string]interface{}{
			"error":     err.Error(),
			"threshold": threshold,
		})
		return map[uuid.UUID]float64{}
	}

	result := make(map[uuid.UUID]float64, len(scored))
	for _, s := range scored {
		result[s.NoteId] = s.Similarity
	}
	return result
}

func (e *Engine) queryVector(ctx context.Context, queryText string) ([]float32, error) {
	if cached, found := e.queryCache.Get(queryText); found {
		return cached.([]float32), nil
	}

	vector, err := e.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}

	e.queryCache.Set(queryText, vector, gocache.DefaultExpiration)
	return vector, nil
}
