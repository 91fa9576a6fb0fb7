package search

import (
	"context"
	"sort"

	"notesearch-be/internal/entity"
	"notesearch-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Config holds the fusion weights and thresholds. They are wired at
// construction rather than compiled in so weight profiles can be tuned (and
// tested) without a rebuild.
type Config struct {
	KeywordWeight  float64
	SemanticWeight float64

	// Dynamic threshold strategy: try high precision first, fall back to
	// high recall when the strict cutoff yields too little signal.
	HighPrecisionThreshold     float64
	HighRecallThreshold        float64
	MinResultsForHighPrecision int

	MaxSemanticResults int
}

func DefaultConfig() Config {
	return Config{
		KeywordWeight:              0.3,
		SemanticWeight:             0.7,
		HighPrecisionThreshold:     0.60,
		HighRecallThreshold:        0.35,
		MinResultsForHighPrecision: 3,
		MaxSemanticResults:         20,
	}
}

// SemanticSearcher is the fuzzy half of hybrid search. Implementations never
// fail; they degrade to an empty map.
type SemanticSearcher interface {
	Search(ctx context.Context, queryText string, limit int, threshold float64) map[uuid.UUID]float64
}

// KeywordSearcher is the exact half: substring match over title, content and
// tags, already restricted to notes the user may access.
type KeywordSearcher interface {
	SearchByKeyword(ctx context.Context, userId uuid.UUID, keyword string) ([]*entity.Note, error)
}

// AccessResolver reports which note ids a user may see. Semantic results are
// filtered through it because the vector store is access-blind.
type AccessResolver interface {
	AccessibleNoteIds(ctx context.Context, userId uuid.UUID) (map[uuid.UUID]bool, error)
}

// NoteFetcher hydrates ranked ids into note records.
type NoteFetcher interface {
	FindNotesByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.Note, error)
}

// RankedNote is one hybrid search hit. Score is for ordering only; it is
// deliberately uncapped when a note matches both signals.
type RankedNote struct {
	Note  *entity.Note
	Score float64
}

// Orchestrator fuses keyword and semantic results into one ranked list.
type Orchestrator struct {
	cfg      Config
	semantic SemanticSearcher
	keyword  KeywordSearcher
	access   AccessResolver
	fetcher  NoteFetcher
	logger   logger.ILogger
}

func NewOrchestrator(
	cfg Config,
	semantic SemanticSearcher,
	keyword KeywordSearcher,
	access AccessResolver,
	fetcher NoteFetcher,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		semantic: semantic,
		keyword:  keyword,
		access:   access,
		fetcher:  fetcher,
		logger:   log,
	}
}

// HybridSearch runs both halves for the query and returns accessible notes
// ranked by fused score. An error here means keyword search itself failed;
// semantic failures only reduce result quality.
func (o *Orchestrator) HybridSearch(ctx context.Context, userId uuid.UUID, query string) ([]RankedNote, error) {
	// 1. Exact matches over the user's accessible notes
	keywordNotes, err := o.keyword.SearchByKeyword(ctx, userId, query)
	if err != nil {
		return nil, err
	}

	// 2. Semantic matches with dynamic threshold fallback
	semanticScores := o.semantic.Search(ctx, query, o.cfg.MaxSemanticResults, o.cfg.HighPrecisionThreshold)
	if len(semanticScores) < o.cfg.MinResultsForHighPrecision {
		o.logger.Info("search", "insufficient high-precision results, relaxing threshold", map[string]interface{}{
			"found":     len(semanticScores),
			"min":       o.cfg.MinResultsForHighPrecision,
			"threshold": o.cfg.HighRecallThreshold,
		})
		semanticScores = o.semantic.Search(ctx, query, o.cfg.MaxSemanticResults, o.cfg.HighRecallThreshold)
	}

	// 3. Access filter after the vector query; the store is access-blind
	if len(semanticScores) > 0 {
		accessible, err := o.access.AccessibleNoteIds(ctx, userId)
		if err != nil {
			return nil, err
		}
		for id := range semanticScores {
			if !accessible[id] {
				delete(semanticScores, id)
			}
		}
	}

	// 4. Score fusion. Keyword hits enter first in their natural order,
	// semantic hits follow by descending score; the final stable sort then
	// gives a deterministic order even on score ties.
	fused := make(map[uuid.UUID]float64)
	order := make([]uuid.UUID, 0, len(keywordNotes)+len(semanticScores))
	noteById := make(map[uuid.UUID]*entity.Note, len(keywordNotes))

	for _, note := range keywordNotes {
		if _, seen := fused[note.Id]; seen {
			continue
		}
		fused[note.Id] = o.cfg.KeywordWeight
		order = append(order, note.Id)
		noteById[note.Id] = note
	}

	for _, entry := range sortedScores(semanticScores) {
		if _, inKeyword := fused[entry.id]; inKeyword {
			// Matching both signals is strictly stronger than either alone
			fused[entry.id] = o.cfg.KeywordWeight + o.cfg.SemanticWeight*entry.score
		} else {
			fused[entry.id] = o.cfg.SemanticWeight * entry.score
			order = append(order, entry.id)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return fused[order[i]] > fused[order[j]]
	})

	// 5. Hydrate semantic-only ids into full note records
	var missing []uuid.UUID
	for _, id := range order {
		if _, ok := noteById[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		notes, err := o.fetcher.FindNotesByIds(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, note := range notes {
			noteById[note.Id] = note
		}
	}

	ranked := make([]RankedNote, 0, len(order))
	for _, id := range order {
		note, ok := noteById[id]
		if !ok {
			// Embedding row outlived its note; skip rather than fail
			continue
		}
		ranked = append(ranked, RankedNote{Note: note, Score: fused[id]})
	}

	o.logger.Info("search", "hybrid search completed", map[string]interface{}{
		"keyword_hits":  len(keywordNotes),
		"semantic_hits": len(semanticScores),
		"ranked":        len(ranked),
	})
	return ranked, nil
}

// KeywordSearchFallback repeats the exact-match half alone, in the keyword
// query's natural order. Used when the hybrid path fails unexpectedly.
func (o *Orchestrator) KeywordSearchFallback(ctx context.Context, userId uuid.UUID, query string) ([]RankedNote, error) {
	notes, err := o.keyword.SearchByKeyword(ctx, userId, query)
	if err != nil {
		return nil, err
	}
	ranked := make([]RankedNote, len(notes))
	for i, note := range notes {
		ranked[i] = RankedNote{Note: note}
	}
	return ranked, nil
}

type scoreEntry struct {
	id    uuid.UUID
	score float64
}

// sortedScores flattens a score map into a slice ordered by score descending,
// note id ascending, so map iteration order never leaks into rankings.
func sortedScores(scores map[uuid.UUID]float64) []scoreEntry {
	entries := make([]scoreEntry, 0, len(scores))
	for id, score := range scores {
		entries = append(entries, scoreEntry{id: id, score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].id.String() < entries[j].id.String()
	})
	return entries
}
