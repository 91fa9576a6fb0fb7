package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notesearch-be/internal/dto"
	"notesearch-be/internal/entity"
	"notesearch-be/internal/pkg/logger"
	"notesearch-be/internal/repository/specification"
	"notesearch-be/internal/repository/unitofwork"
	"notesearch-be/pkg/search"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SearchModeHybrid  = "hybrid"
	SearchModeKeyword = "keyword"

	accessibleIdsCacheTTL = 30 * time.Second
)

type ISearchService interface {
	Search(ctx context.Context, userId uuid.UUID, query string, mode string) ([]*dto.SearchNoteResponse, error)
}

type searchService struct {
	orchestrator *search.Orchestrator
	logger       logger.ILogger
}

func NewSearchService(orchestrator *search.Orchestrator, log logger.ILogger) ISearchService {
	return &searchService{
		orchestrator: orchestrator,
		logger:       log,
	}
}

func (s *searchService) Search(ctx context.Context, userId uuid.UUID, query string, mode string) ([]*dto.SearchNoteResponse, error) {
	if mode == SearchModeKeyword {
		ranked, err := s.orchestrator.KeywordSearchFallback(ctx, userId, query)
		if err != nil {
			return nil, err
		}
		return toSearchResponses(ranked, SearchModeKeyword), nil
	}

	ranked, searchType, err := s.hybridWithFallback(ctx, userId, query)
	if err != nil {
		return nil, err
	}
	return toSearchResponses(ranked, searchType), nil
}

// hybridWithFallback runs hybrid search and degrades to keyword-only when the
// hybrid path fails or panics. Search availability tracks the relational
// store, not the embedding subsystem.
func (s *searchService) hybridWithFallback(ctx context.Context, userId uuid.UUID, query string) (ranked []search.RankedNote, searchType string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("search", "hybrid search panicked, falling back to keyword search", map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
				"query": query,
			})
			ranked, err = s.orchestrator.KeywordSearchFallback(ctx, userId, query)
			searchType = SearchModeKeyword
		}
	}()

	ranked, err = s.orchestrator.HybridSearch(ctx, userId, query)
	if err != nil {
		s.logger.Error("search", "hybrid search failed, falling back to keyword search", map[string]interface{}{
			"error": err.Error(),
			"query": query,
		})
		ranked, err = s.orchestrator.KeywordSearchFallback(ctx, userId, query)
		return ranked, SearchModeKeyword, err
	}
	return ranked, SearchModeHybrid, nil
}

func toSearchResponses(ranked []search.RankedNote, searchType string) []*dto.SearchNoteResponse {
	res := make([]*dto.SearchNoteResponse, len(ranked))
	for i, r := range ranked {
		item := &dto.SearchNoteResponse{
			Id:         r.Note.Id,
			Title:      r.Note.Title,
			Content:    r.Note.Content,
			Tags:       r.Note.Tags,
			CreatedAt:  r.Note.CreatedAt,
			UpdatedAt:  r.Note.UpdatedAt,
			SearchType: searchType,
		}
		if searchType == SearchModeHybrid {
			score := r.Score
			item.Score = &score
		}
		res[i] = item
	}
	return res
}

// noteSearchAdapter backs the orchestrator's keyword, access and hydration
// interfaces with the relational store. Accessible-id sets are memoized in
// Redis for a short window because every semantic query needs the full set.
type noteSearchAdapter struct {
	uowFactory unitofwork.RepositoryFactory
	redis      *redis.Client
	logger     logger.ILogger
}

func NewNoteSearchAdapter(uowFactory unitofwork.RepositoryFactory, redisClient *redis.Client, log logger.ILogger) *noteSearchAdapter {
	return &noteSearchAdapter{
		uowFactory: uowFactory,
		redis:      redisClient,
		logger:     log,
	}
}

func (a *noteSearchAdapter) SearchByKeyword(ctx context.Context, userId uuid.UUID, keyword string) ([]*entity.Note, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	return uow.NoteRepository().FindAll(ctx,
		specification.AccessibleBy{UserID: userId},
		specification.KeywordQuery{Keyword: keyword},
		specification.OrderBy{Field: "notes.updated_at", Desc: true},
	)
}

func (a *noteSearchAdapter) AccessibleNoteIds(ctx context.Context, userId uuid.UUID) (map[uuid.UUID]bool, error) {
	cacheKey := fmt.Sprintf("search:accessible:%s", userId)

	if a.redis != nil {
		if cached, err := a.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var ids []uuid.UUID
			if err := json.Unmarshal(cached, &ids); err == nil {
				return idSet(ids), nil
			}
		}
	}

	uow := a.uowFactory.NewUnitOfWork(ctx)
	ids, err := uow.NoteRepository().AccessibleNoteIds(ctx, userId)
	if err != nil {
		return nil, err
	}

	if a.redis != nil {
		if payload, err := json.Marshal(ids); err == nil {
			if err := a.redis.Set(ctx, cacheKey, payload, accessibleIdsCacheTTL).Err(); err != nil {
				a.logger.Warn("search", "failed to cache accessible note ids", map[string]interface{}{
					"user_id": userId.String(),
					"error":   err.Error(),
				})
			}
		}
	}

	return idSet(ids), nil
}

func (a *noteSearchAdapter) FindNotesByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	uow := a.uowFactory.NewUnitOfWork(ctx)
	return uow.NoteRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
