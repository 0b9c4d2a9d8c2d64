package usecase

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"

	"github.com/macrolens/intake/internal/domain"
)

const labelWidth = 17

// FormatTotals renders one line per nutrient, e.g.
//
//	Calories:           104 kcal
//	Total Fat:            0 g
//
// Amounts are truncated toward zero, not rounded.
func FormatTotals(totals domain.Totals) []string {
	lines := make([]string, 0, len(totals))
	for _, nutrient := range totals.OrderedNutrients() {
		lines = append(lines, FormatNutrient(nutrient, totals[nutrient]))
	}
	return lines
}

// FormatNutrient renders a single nutrient line.
func FormatNutrient(nutrient string, amount float64) string {
	unit := "g"
	if nutrient == domain.NutrientCalories {
		unit = "kcal"
	}
	label := titleLabel(strings.ReplaceAll(nutrient, "_", " ")) + ":"
	return fmt.Sprintf("%-*s%6d %s", labelWidth, label, int64(math.Trunc(amount)), unit)
}

// WriteTotals writes FormatTotals to w, one line each.
func WriteTotals(w io.Writer, totals domain.Totals) error {
	for _, line := range FormatTotals(totals) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// titleLabel upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleLabel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && prevLetter:
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
