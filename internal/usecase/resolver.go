package usecase

import (
	"context"
	"log/slog"

	"github.com/macrolens/intake/internal/domain"
)

// unitCountThreshold separates unit counts from gram amounts: for a food
// with a unit conversion, quantities below it are counted in units and
// anything at or above it is already in grams.
const unitCountThreshold = 10.0

// Resolution is the outcome of resolving one raw (name, quantity) entry.
type Resolution struct {
	Input    string  `json:"input"`
	Quantity float64 `json:"quantity"`
	// Matched is the first-stage match over catalog names and unit terms.
	Matched string `json:"matched,omitempty"`
	// UnitTerm is set when Matched was a unit term.
	UnitTerm string `json:"unitTerm,omitempty"`
	ViaUnit  bool   `json:"viaUnit"`
	// Food is the catalog entry charged for the entry.
	Food   string                `json:"food,omitempty"`
	Grams  float64               `json:"grams"`
	Found  bool                  `json:"found"`
	Record domain.NutrientRecord `json:"-"`
}

// Contribution returns the nutrients this resolution adds to a meal.
// Unresolved entries contribute nothing.
func (r Resolution) Contribution() domain.Totals {
	totals := domain.Totals{}
	if !r.Found {
		return totals
	}
	for nutrient, per100g := range r.Record {
		totals[nutrient] += per100g * r.Grams / 100
	}
	return totals
}

// Summary is the aggregated view of a whole meal.
type Summary struct {
	Totals      domain.Totals `json:"totals"`
	Resolutions []Resolution  `json:"resolutions"`
	Unresolved  []string      `json:"unresolved"`
}

// Resolver turns raw entries into canonical foods and grams and sums them.
type Resolver struct {
	catalog *Catalog
	logger  *slog.Logger
}

// NewResolver creates a resolver over catalog.
func NewResolver(catalog *Catalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{catalog: catalog, logger: logger}
}

// Catalog returns the catalog the resolver reads from.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Resolve maps a raw food name and quantity to a catalog entry and grams.
//
// The name is first matched against catalog names and unit terms together.
// A unit term converts the quantity to grams (below 10 it is a unit count)
// and is then matched again against catalog names alone, which may pick
// an entry spelled differently from the unit term.
func (r *Resolver) Resolve(ctx context.Context, name string, quantity float64) Resolution {
	res := Resolution{Input: name, Quantity: quantity, Grams: quantity}

	matched, ok := r.catalog.MatchAny(ctx, name)
	if !ok {
		return res
	}
	res.Matched = matched

	if perUnit, isUnit := r.catalog.ConversionFor(matched); isUnit {
		res.ViaUnit = true
		res.UnitTerm = matched
		res.Grams = gramsFor(perUnit, quantity)

		matched, ok = r.catalog.MatchFood(ctx, matched)
		if !ok {
			r.logger.Debug("unit term has no catalog entry", "input", name, "unit", res.UnitTerm)
			return res
		}
	}

	record, ok := r.catalog.Lookup(matched)
	if !ok {
		return res
	}
	res.Food = matched
	res.Record = record
	res.Found = true
	return res
}

func gramsFor(perUnit, quantity float64) float64 {
	if quantity < unitCountThreshold {
		return perUnit * quantity
	}
	return quantity
}

// Aggregate recomputes the nutrient totals of meal from scratch.
func (r *Resolver) Aggregate(ctx context.Context, meal *domain.Meal) domain.Totals {
	return r.Summarize(ctx, meal).Totals
}

// Summarize resolves every entry of meal in entry order and sums the
// contributions. Nutrients appear in the totals only when some resolved
// entry carries them.
func (r *Resolver) Summarize(ctx context.Context, meal *domain.Meal) Summary {
	summary := Summary{Totals: domain.Totals{}}
	for _, entry := range meal.Entries() {
		res := r.Resolve(ctx, entry.Name, entry.Quantity)
		summary.Resolutions = append(summary.Resolutions, res)
		if !res.Found {
			summary.Unresolved = append(summary.Unresolved, entry.Name)
			continue
		}
		for nutrient, per100g := range res.Record {
			summary.Totals[nutrient] += per100g * res.Grams / 100
		}
	}
	return summary
}

// AddFood stores a new food from its five per-100g values.
func (r *Resolver) AddFood(
	ctx context.Context,
	name string,
	calories, totalFat, protein, carbohydrate, sugars float64,
) (domain.NutrientRecord, error) {
	record := domain.NewNutrientRecord(calories, totalFat, protein, carbohydrate, sugars)
	if err := r.catalog.AddEntry(ctx, name, record); err != nil {
		return nil, err
	}
	return record, nil
}
