package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/macrolens/intake/internal/domain"
	"github.com/macrolens/intake/internal/infrastructure/usda"
)

// SuggestionService proposes per-100g values for foods the catalog lacks,
// using USDA FoodData Central search results.
type SuggestionService struct {
	client       domain.USDAClient
	preprocessor *QueryPreprocessor
	logger       *slog.Logger
}

// NewSuggestionService creates a suggestion service. A nil client yields a
// service whose Suggest always fails with domain.ErrSuggestionsDisabled.
func NewSuggestionService(client domain.USDAClient, enableDebugLogging bool, logger *slog.Logger) *SuggestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestionService{
		client:       client,
		preprocessor: NewQueryPreprocessor(enableDebugLogging, logger),
		logger:       logger,
	}
}

// Enabled reports whether suggestions can be requested.
func (s *SuggestionService) Enabled() bool {
	return s != nil && s.client != nil
}

// Suggest searches USDA for name and returns the result whose description
// is most similar to the search query. Results without energy data are skipped.
func (s *SuggestionService) Suggest(ctx context.Context, name string) (*domain.Suggestion, error) {
	if !s.Enabled() {
		return nil, domain.ErrSuggestionsDisabled
	}

	query := s.preprocessor.PreprocessQuery(name)
	if query == "" {
		return nil, fmt.Errorf("%w: empty food name", domain.ErrInvalidRequest)
	}

	resp, err := s.client.SearchFoods(ctx, query)
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var best *domain.Suggestion
	for i := range resp.Foods {
		food := &resp.Foods[i]
		if _, ok := usda.FindNutrientValue(food.Nutrients, usda.NutrientIDEnergy); !ok {
			continue
		}

		score := NewSequenceMatcher(strings.ToLower(food.Description), queryLower).Ratio()
		if best == nil || score > best.Score {
			best = &domain.Suggestion{
				FdcID:       food.FdcID,
				Description: food.Description,
				Record:      usda.MapToRecord(food),
				Score:       score,
			}
		}
	}

	if best == nil {
		return nil, domain.ErrProductNotFound
	}

	s.logger.Debug("usda suggestion",
		"name", name,
		"query", query,
		"fdc_id", best.FdcID,
		"description", best.Description,
		"score", best.Score)
	return best, nil
}
