package http

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/macrolens/intake/internal/domain"
	"github.com/macrolens/intake/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver  *usecase.Resolver
	suggester *usecase.SuggestionService
	logger    *slog.Logger
}

// NewHandler creates a new HTTP handler. suggester may be nil.
func NewHandler(resolver *usecase.Resolver, suggester *usecase.SuggestionService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		resolver:  resolver,
		suggester: suggester,
		logger:    logger,
	}
}

// AddFoodRequest carries the five per-100g values of a new food.
// Pointers let an explicit 0 pass the required check.
type AddFoodRequest struct {
	Name         string   `json:"name" binding:"required"`
	Calories     *float64 `json:"calories" binding:"required,gte=0"`
	TotalFat     *float64 `json:"total_fat" binding:"required,gte=0"`
	Protein      *float64 `json:"protein" binding:"required,gte=0"`
	Carbohydrate *float64 `json:"carbohydrate" binding:"required,gte=0"`
	Sugars       *float64 `json:"sugars" binding:"required,gte=0"`
}

// MealRequest is a list of raw entries; repeated names accumulate.
type MealRequest struct {
	Entries []domain.MealEntry `json:"entries" binding:"required,dive"`
}

// MealResponse is the aggregated view of a meal.
type MealResponse struct {
	Totals      domain.Totals        `json:"totals"`
	Lines       []string             `json:"lines"`
	Resolutions []usecase.Resolution `json:"resolutions"`
	Unresolved  []string             `json:"unresolved"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "intake",
		"foods":       h.resolver.Catalog().Len(),
		"suggestions": h.suggester.Enabled(),
	})
}

// ListFoods returns every catalog name, sorted.
func (h *Handler) ListFoods(c *gin.Context) {
	names := h.resolver.Catalog().Names()
	c.JSON(http.StatusOK, gin.H{
		"foods": names,
		"count": len(names),
	})
}

// GetFood returns the record stored under exactly the given name.
func (h *Handler) GetFood(c *gin.Context) {
	name := c.Param("name")
	record, ok := h.resolver.Catalog().Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found", "name": name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "record": record})
}

// AddFood stores a new food and writes it through to the store.
func (h *Handler) AddFood(c *gin.Context) {
	var req AddFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	record, err := h.resolver.AddFood(c.Request.Context(), name,
		*req.Calories, *req.TotalFat, *req.Protein, *req.Carbohydrate, *req.Sugars)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, domain.ErrStoreWrite):
		h.logger.Error("failed to persist food", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "food added but could not be saved"})
		return
	case err != nil:
		h.logger.Error("failed to add food", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": name, "record": record})
}

// Match returns the closest catalog name or unit term for q.
func (h *Handler) Match(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	catalog := h.resolver.Catalog()
	matched, found := catalog.MatchAny(c.Request.Context(), query)
	_, isUnit := catalog.ConversionFor(matched)
	c.JSON(http.StatusOK, gin.H{
		"query":      query,
		"match":      matched,
		"found":      found,
		"isUnitTerm": found && isUnit,
	})
}

// Conversions returns the unit conversion table.
func (h *Handler) Conversions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conversions": h.resolver.Catalog().Conversions()})
}

// MealSummary resolves a list of entries and returns the totals.
func (h *Handler) MealSummary(c *gin.Context) {
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	meal := domain.NewMeal()
	for _, entry := range req.Entries {
		if entry.Quantity < 0 || math.IsNaN(entry.Quantity) || math.IsInf(entry.Quantity, 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a non-negative number", "name": entry.Name})
			return
		}
		meal.Add(entry.Name, entry.Quantity)
	}

	summary := h.resolver.Summarize(c.Request.Context(), meal)
	resp := MealResponse{
		Totals:      summary.Totals,
		Lines:       usecase.FormatTotals(summary.Totals),
		Resolutions: summary.Resolutions,
		Unresolved:  summary.Unresolved,
	}
	if resp.Resolutions == nil {
		resp.Resolutions = []usecase.Resolution{}
	}
	if resp.Unresolved == nil {
		resp.Unresolved = []string{}
	}
	c.JSON(http.StatusOK, resp)
}

// Suggest returns the USDA FoodData Central values proposed for q.
func (h *Handler) Suggest(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	suggestion, err := h.suggester.Suggest(c.Request.Context(), query)
	switch {
	case errors.Is(err, domain.ErrSuggestionsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no USDA match found", "query": query})
		return
	case err != nil:
		h.logger.Error("usda suggestion failed", "query", query, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "USDA lookup failed"})
		return
	}

	c.JSON(http.StatusOK, suggestion)
}
