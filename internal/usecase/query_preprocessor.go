package usecase

import (
	"log/slog"
	"regexp"
	"strings"
)

// maxQueryLength caps the USDA search query.
const maxQueryLength = 100

// QueryPreprocessor turns a typed food name into a USDA search query.
type QueryPreprocessor struct {
	enableDebugLogging bool
	logger             *slog.Logger
}

// Compiled regex patterns for query preprocessing
var (
	// Matches gram/size amounts like "100g", "2 cups", "1.5 kg", "12 oz"
	sizeQuantityPattern = regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(fl\s*oz|oz|ounces?|lbs?|pounds?|ml|liters?|kg|grams?|g|cups?|tbsp|tsp)\b`)

	// Matches household measure phrases like "cup of", "slice of", "tablespoon of"
	unitPhrasePattern = regexp.MustCompile(`(?i)\b(cups?|slices?|loaf|loaves|tablespoons?|teaspoons?|fillets?|pieces?|bowls?|glass(es)?|handful|pinch|can|jar)\s+of\b`)

	// Matches standalone numbers
	standaloneNumberPattern = regexp.MustCompile(`\b\d+\.?\d*\b`)

	// Anything that is not a letter, digit, space, comma or hyphen
	queryPunctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s,\-]`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// queryNoiseWords add nothing to a nutrition search
var queryNoiseWords = map[string]bool{
	"a":        true,
	"an":       true,
	"the":      true,
	"some":     true,
	"my":       true,
	"fresh":    true,
	"large":    true,
	"medium":   true,
	"small":    true,
	"big":      true,
	"serving":  true,
	"portion":  true,
	"homemade": true,
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(enableDebugLogging bool, logger *slog.Logger) *QueryPreprocessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryPreprocessor{
		enableDebugLogging: enableDebugLogging,
		logger:             logger,
	}
}

// PreprocessQuery strips measures, amounts and filler words from a food name,
// e.g. "2 slices of whole wheat bread" becomes "whole wheat bread".
func (p *QueryPreprocessor) PreprocessQuery(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	cleaned := sizeQuantityPattern.ReplaceAllString(name, " ")
	cleaned = unitPhrasePattern.ReplaceAllString(cleaned, " ")
	cleaned = standaloneNumberPattern.ReplaceAllString(cleaned, " ")
	cleaned = queryPunctuationPattern.ReplaceAllString(cleaned, " ")
	cleaned = removeNoiseWords(cleaned)
	cleaned = strings.Trim(multiSpacePattern.ReplaceAllString(cleaned, " "), " ,-")

	if len(cleaned) > maxQueryLength {
		cleaned = cleaned[:maxQueryLength]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	if p.enableDebugLogging {
		p.logger.Debug("query preprocessed", "input", name, "query", cleaned)
	}

	return cleaned
}

func removeNoiseWords(s string) string {
	var kept []string
	for _, word := range strings.Fields(s) {
		if !queryNoiseWords[strings.ToLower(strings.Trim(word, ",-"))] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
