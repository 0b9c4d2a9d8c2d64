package usecase

import (
	"log/slog"
)

// DefaultMatchCutoff is the minimum similarity ratio a candidate needs to
// count as a match for a typed food name.
const DefaultMatchCutoff = 0.6

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Cutoff             float64
	EnableDebugLogging bool
	Logger             *slog.Logger
}

// MatchingService finds the closest candidate for a free-text food name.
type MatchingService struct {
	cutoff             float64
	enableDebugLogging bool
	logger             *slog.Logger
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	cutoff := config.Cutoff
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultMatchCutoff
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MatchingService{
		cutoff:             cutoff,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// Cutoff returns the similarity threshold in use.
func (s *MatchingService) Cutoff() float64 {
	return s.cutoff
}

// FindClosestMatch returns the single best candidate in pool for name, or
// false when no candidate reaches the cutoff. The result depends only on
// name and the set of candidates, not on their order.
func (s *MatchingService) FindClosestMatch(name string, pool []string) (string, bool) {
	best := ScoreCloseMatches(name, pool, 1, s.cutoff)
	if len(best) == 0 {
		if s.enableDebugLogging {
			s.logger.Debug("no close match", "name", name, "candidates", len(pool))
		}
		return "", false
	}

	if s.enableDebugLogging {
		s.logger.Debug("close match",
			"name", name,
			"match", best[0].Value,
			"score", best[0].Score,
			"candidates", len(pool))
	}
	return best[0].Value, true
}

// Score returns the similarity ratio of a against b.
func (s *MatchingService) Score(a, b string) float64 {
	return NewSequenceMatcher(a, b).Ratio()
}
