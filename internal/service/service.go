package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"mercari/shopper/internal/cache"
	"mercari/shopper/internal/cleaner"
	"mercari/shopper/internal/client"
	"mercari/shopper/internal/config"
	"mercari/shopper/internal/domain"
	"mercari/shopper/internal/matcher"
	"mercari/shopper/internal/prompt"
	"mercari/shopper/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Service runs one turn at a time: extraction, search and recommendation.
type Service struct {
	llm        client.LLMClient
	search     client.SearchClient
	cleaner    *cleaner.Cleaner
	matcher    *matcher.Matcher
	cache      cache.SearchCache
	repository repository.TurnRepository
	validate   *validator.Validate

	itemCount int
	topN      int
	now       func() time.Time
}

func NewService(
	llm client.LLMClient,
	search client.SearchClient,
	cleaner *cleaner.Cleaner,
	matcher *matcher.Matcher,
	cache cache.SearchCache,
	repository repository.TurnRepository,
	cfg config.RecommendationConfig,
) *Service {
	return &Service{
		llm:        llm,
		search:     search,
		cleaner:    cleaner,
		matcher:    matcher,
		cache:      cache,
		repository: repository,
		validate:   validator.New(),
		itemCount:  cfg.ItemCount,
		topN:       cfg.TopN,
		now:        time.Now,
	}
}

// HandleTurn never returns an error: every failure is recorded on the turn so
// the caller can report it and keep reading requests.
func (s *Service) HandleTurn(ctx context.Context, request string) *domain.Turn {
	turn := &domain.Turn{
		ID:        uuid.NewString(),
		Request:   request,
		CreatedAt: s.now(),
		Stage:     domain.StageExtracting,
		Search:    domain.SearchSkipped,
	}
	defer s.save(ctx, turn)

	log.Infof("🔄 Extracting parameters...")
	params, warnings, err := s.ExtractParameters(ctx, request)
	turn.Warn(warnings...)
	if err != nil {
		turn.ExtractionErr = err
		turn.FailedAt = domain.StageExtracting
		turn.Stage = domain.StageFailed
		return turn
	}
	turn.Parameters = params

	searchParams, warnings := s.BuildSearchParams(params)
	turn.Warn(warnings...)
	turn.SearchParams = &searchParams

	log.Infof("🔄 Searching for %q...", searchParams.Query)
	result, err := s.Search(ctx, searchParams)
	if err != nil {
		turn.SearchErr = err
		turn.Search = domain.SearchFailure
		turn.Stage = domain.StageDone
		return turn
	}

	turn.ItemsFound = len(result.Items)
	if len(result.Items) == 0 {
		turn.Search = domain.SearchSuccessNoItems
		turn.Stage = domain.StageDone
		return turn
	}
	turn.Search = domain.SearchSuccess

	turn.Stage = domain.StageRecommending
	log.Infof("🔄 Ranking %d items...", min(len(result.Items), s.itemCount))
	recommendations, warnings, err := s.Recommend(ctx, request, params.Query, result.Items)
	turn.Warn(warnings...)
	if err != nil {
		turn.RecommendationErr = err
		turn.FailedAt = domain.StageRecommending
		turn.Stage = domain.StageFailed
		return turn
	}

	turn.Recommendations = recommendations
	turn.Stage = domain.StageDone
	return turn
}

// ExtractParameters asks the model for search parameters, then cleans the query
// and resolves category names to catalog ids. Categories are nil when nothing matched.
func (s *Service) ExtractParameters(ctx context.Context, request string) (*domain.ExtractedParameters, []domain.Warning, error) {
	text, err := prompt.Extraction(request)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	raw, err := s.llm.Generate(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	log.Debugf("Extraction response: %s", raw)

	var params domain.ExtractedParameters
	if err := decodeModelJSON(raw, &params); err != nil {
		return nil, nil, extractionResponseError(raw, err)
	}
	if err := s.validatePrices(&params); err != nil {
		return nil, nil, extractionResponseError(raw, err)
	}

	params.Query = s.cleaner.Clean(params.Query)

	var warnings []domain.Warning
	if params.Categories != nil {
		ids, categoryWarnings := s.matcher.MatchCategories(params.Categories)
		warnings = append(warnings, categoryWarnings...)
		params.Categories = nil
		if len(ids) > 0 {
			params.Categories = ids
		}
	}

	return &params, warnings, nil
}

func extractionResponseError(raw string, err error) error {
	return fmt.Errorf("%w: %w", ErrExtractionFailed, &ResponseError{
		Stage: domain.StageExtracting,
		Raw:   raw,
		Err:   err,
	})
}

func (s *Service) validatePrices(params *domain.ExtractedParameters) error {
	if err := s.validate.Struct(params); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return fmt.Errorf("%w: %s must be %s %s", client.ErrMalformedResponse, e.Field(), e.Tag(), e.Param())
		}
		return err
	}

	if params.PriceMin != nil && params.PriceMax != nil && *params.PriceMin > *params.PriceMax {
		return fmt.Errorf("%w: price_min %.0f is above price_max %.0f", client.ErrMalformedResponse, *params.PriceMin, *params.PriceMax)
	}
	return nil
}

// BuildSearchParams resolves the remaining free-text facets into what the
// search API accepts. Brands are reported but never forwarded.
func (s *Service) BuildSearchParams(params *domain.ExtractedParameters) (domain.SearchParams, []domain.Warning) {
	var warnings []domain.Warning

	sp := domain.SearchParams{
		Query:       params.Query,
		PriceMin:    yen(params.PriceMin),
		PriceMax:    yen(params.PriceMax),
		CategoryIDs: params.Categories,
	}

	conditions, w := s.matcher.MatchItemConditions(params.ItemConditions)
	warnings = append(warnings, w...)
	if len(conditions) > 0 {
		sp.ItemConditionIDs = conditions
	}

	payers, w := s.matcher.MatchShippingPayers(params.ShippingPayer)
	warnings = append(warnings, w...)
	if len(payers) > 0 {
		sp.ShippingPayerIDs = payers
	}

	sp.Sort, sp.Order, w = s.matcher.MatchSort(params.SortBy, params.SortOrder)
	warnings = append(warnings, w...)

	if len(params.Brands) > 0 {
		msg := fmt.Sprintf("brands %v cannot be filtered on and are left to the query text", params.Brands)
		log.WithField("brands", params.Brands).Warn(msg)
		warnings = append(warnings, domain.Warning{Source: "brand", Message: msg})
	}

	return sp, warnings
}

func yen(v *float64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(math.Round(*v))
	return &n
}

// Search serves from the cache when possible. Cache errors only degrade to a live search.
func (s *Service) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	cached, ok, err := s.cache.Get(ctx, params)
	if err != nil {
		log.Warnf("Search cache unavailable: %v", err)
	}
	if ok {
		log.Debugf("Search cache hit for %q", params.Query)
		return cached, nil
	}

	result, err := s.search.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	if err := s.cache.Set(ctx, params, result); err != nil {
		log.Warnf("Failed to cache search result: %v", err)
	}

	return result, nil
}

// Recommend ranks at most itemCount items. An empty list is a valid answer;
// a response without a recommendations key is not.
func (s *Service) Recommend(ctx context.Context, request, query string, items []domain.SearchResultItem) ([]domain.RecommendationEntry, []domain.Warning, error) {
	if len(items) > s.itemCount {
		items = items[:s.itemCount]
	}

	text, err := prompt.Recommendation(request, query, items, s.topN)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRecommendationFailed, err)
	}

	raw, err := s.llm.Generate(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRecommendationFailed, err)
	}
	log.Debugf("Recommendation response: %s", raw)

	var envelope domain.Recommendations
	if err := decodeModelJSON(raw, &envelope); err != nil {
		return nil, nil, recommendationResponseError(raw, err)
	}
	if envelope.Recommendations == nil {
		return nil, nil, recommendationResponseError(raw,
			fmt.Errorf("%w: missing recommendations", client.ErrMalformedResponse))
	}

	entries := make([]domain.RecommendationEntry, 0, len(*envelope.Recommendations))
	var warnings []domain.Warning
	for _, entry := range *envelope.Recommendations {
		if err := s.validate.Struct(entry); err != nil {
			msg := fmt.Sprintf("recommendation %q skipped: %v", entry.ItemName, err)
			log.Warn(msg)
			warnings = append(warnings, domain.Warning{Source: "recommendation", Name: entry.ItemID, Message: msg})
			continue
		}
		entries = append(entries, entry)
	}

	return entries, warnings, nil
}

func recommendationResponseError(raw string, err error) error {
	return fmt.Errorf("%w: %w", ErrRecommendationFailed, &ResponseError{
		Stage: domain.StageRecommending,
		Raw:   raw,
		Err:   err,
	})
}

func (s *Service) save(ctx context.Context, turn *domain.Turn) {
	if err := s.repository.SaveTurn(ctx, turn); err != nil {
		log.Warnf("Failed to save turn %s: %v", turn.ID, err)
	}
}
