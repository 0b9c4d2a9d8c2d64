package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/macrolens/intake/internal/domain"
)

// CatalogConfig holds configuration for the catalog
type CatalogConfig struct {
	// Conversions is copied at construction; nil means the built-in table.
	Conversions        domain.UnitConversions
	Cache              domain.CacheRepository
	CacheTTL           time.Duration
	EnableDebugLogging bool
	Logger             *slog.Logger
}

// Catalog holds the canonical food records and the unit conversion table.
// Foods are only ever added; every addition is written through to the store.
type Catalog struct {
	// writeMu orders additions so the store sees them in the order memory does.
	writeMu     sync.Mutex
	mu          sync.RWMutex
	foods       map[string]domain.NutrientRecord
	generation  uint64
	conversions domain.UnitConversions

	store    domain.CatalogStore
	matcher  *MatchingService
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// matchOutcome is what the match cache stores per (pool, name).
type matchOutcome struct {
	Name  string
	Found bool
}

// NewCatalog loads the persisted catalog from store. A missing or
// malformed store is returned as an error; the catalog cannot run without it.
func NewCatalog(ctx context.Context, store domain.CatalogStore, config CatalogConfig) (*Catalog, error) {
	foods, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if foods == nil {
		foods = make(map[string]domain.NutrientRecord)
	}

	conversions := config.Conversions
	if conversions == nil {
		conversions = domain.DefaultUnitConversions()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("catalog loaded", "foods", len(foods), "unit_terms", len(conversions))

	return &Catalog{
		foods:       foods,
		conversions: conversions.Clone(),
		store:       store,
		matcher: NewMatchingService(MatchConfig{
			EnableDebugLogging: config.EnableDebugLogging,
			Logger:             logger,
		}),
		cache:    config.Cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}, nil
}

// Lookup returns a copy of the record stored under exactly name.
func (c *Catalog) Lookup(name string) (domain.NutrientRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.foods[name]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// ConversionFor returns the grams per unit for a unit term.
func (c *Catalog) ConversionFor(term string) (float64, bool) {
	grams, ok := c.conversions[term]
	return grams, ok
}

// FuzzyMatch returns the best candidate in pool for name.
func (c *Catalog) FuzzyMatch(name string, pool []string) (string, bool) {
	return c.matcher.FindClosestMatch(name, pool)
}

// MatchAny matches name against catalog names and unit terms together.
func (c *Catalog) MatchAny(ctx context.Context, name string) (string, bool) {
	return c.cachedMatch(ctx, "any", name, c.combinedPool)
}

// MatchFood matches name against catalog names only.
func (c *Catalog) MatchFood(ctx context.Context, name string) (string, bool) {
	return c.cachedMatch(ctx, "food", name, c.foodPool)
}

func (c *Catalog) cachedMatch(
	ctx context.Context,
	poolName, name string,
	pool func() ([]string, uint64),
) (string, bool) {
	candidates, generation := pool()
	if c.cache == nil {
		return c.FuzzyMatch(name, candidates)
	}

	// The generation keeps results computed against an older catalog from
	// being served after an addition.
	key := fmt.Sprintf("match:%s:%d:%s", poolName, generation, name)
	if value, err := c.cache.Get(ctx, key); err == nil {
		if outcome, ok := value.(matchOutcome); ok {
			return outcome.Name, outcome.Found
		}
	}

	matched, found := c.FuzzyMatch(name, candidates)
	if err := c.cache.Set(ctx, key, matchOutcome{Name: matched, Found: found}, c.cacheTTL); err != nil {
		c.logger.Warn("match cache write failed", "key", key, "error", err)
	}
	return matched, found
}

func (c *Catalog) foodPool() ([]string, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pool := make([]string, 0, len(c.foods))
	for name := range c.foods {
		pool = append(pool, name)
	}
	sort.Strings(pool)
	return pool, c.generation
}

func (c *Catalog) combinedPool() ([]string, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pool := make([]string, 0, len(c.foods)+len(c.conversions))
	for name := range c.foods {
		pool = append(pool, name)
	}
	for term := range c.conversions {
		if _, ok := c.foods[term]; !ok {
			pool = append(pool, term)
		}
	}
	sort.Strings(pool)
	return pool, c.generation
}

// AddEntry stores record under name, replacing any previous record, and
// merges it into the persisted store. The in-memory entry is kept even
// when the write fails.
func (c *Catalog) AddEntry(ctx context.Context, name string, record domain.NutrientRecord) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: food name is required", domain.ErrInvalidRequest)
	}
	for nutrient, v := range record {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidRequest, nutrient)
		}
	}

	stored := record.Clone()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.foods[name] = stored
	c.generation++
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.Clear(ctx); err != nil {
			c.logger.Warn("match cache clear failed", "error", err)
		}
	}

	if err := c.store.Merge(ctx, name, stored.Clone()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}

	c.logger.Info("food added", "name", name)
	return nil
}

// Names returns all catalog names, sorted.
func (c *Catalog) Names() []string {
	names, _ := c.foodPool()
	return names
}

// Len returns the number of foods in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.foods)
}

// Conversions returns a copy of the unit conversion table.
func (c *Catalog) Conversions() domain.UnitConversions {
	return c.conversions.Clone()
}
