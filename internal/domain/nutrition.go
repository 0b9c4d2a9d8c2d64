package domain

import "sort"

// Standard nutrient names. Every persisted record carries exactly these.
const (
	NutrientCalories     = "calories"
	NutrientTotalFat     = "total_fat"
	NutrientProtein      = "protein"
	NutrientCarbohydrate = "carbohydrate"
	NutrientSugars       = "sugars"
)

// StandardNutrients lists the standard nutrients in display order.
var StandardNutrients = []string{
	NutrientCalories,
	NutrientTotalFat,
	NutrientProtein,
	NutrientCarbohydrate,
	NutrientSugars,
}

// NutrientRecord maps a nutrient name to its amount per 100 grams of a food.
type NutrientRecord map[string]float64

// NewNutrientRecord builds a record from the five standard per-100g fields.
func NewNutrientRecord(calories, totalFat, protein, carbohydrate, sugars float64) NutrientRecord {
	return NutrientRecord{
		NutrientCalories:     calories,
		NutrientTotalFat:     totalFat,
		NutrientProtein:      protein,
		NutrientCarbohydrate: carbohydrate,
		NutrientSugars:       sugars,
	}
}

// Clone returns a copy that shares no memory with r.
func (r NutrientRecord) Clone() NutrientRecord {
	if r == nil {
		return nil
	}
	out := make(NutrientRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Totals maps a nutrient name to the cumulative amount over a meal.
type Totals map[string]float64

// OrderedNutrients returns the nutrient names of t in display order:
// standard nutrients first, then anything else alphabetically.
func (t Totals) OrderedNutrients() []string {
	names := make([]string, 0, len(t))
	seen := make(map[string]bool, len(StandardNutrients))
	for _, n := range StandardNutrients {
		seen[n] = true
		if _, ok := t[n]; ok {
			names = append(names, n)
		}
	}

	var extra []string
	for n := range t {
		if !seen[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Meal accumulates quantities per raw, unresolved food name in the order
// the names were first entered.
type Meal struct {
	order      []string
	quantities map[string]float64
}

// NewMeal creates an empty meal.
func NewMeal() *Meal {
	return &Meal{quantities: make(map[string]float64)}
}

// Add adds quantity to the running amount for name.
func (m *Meal) Add(name string, quantity float64) {
	if _, ok := m.quantities[name]; !ok {
		m.order = append(m.order, name)
	}
	m.quantities[name] += quantity
}

// Quantity returns the cumulative quantity entered for name.
func (m *Meal) Quantity(name string) float64 {
	return m.quantities[name]
}

// Len returns the number of distinct raw names in the meal.
func (m *Meal) Len() int {
	return len(m.order)
}

// Entries returns the (name, cumulative quantity) pairs in entry order.
func (m *Meal) Entries() []MealEntry {
	entries := make([]MealEntry, 0, len(m.order))
	for _, name := range m.order {
		entries = append(entries, MealEntry{Name: name, Quantity: m.quantities[name]})
	}
	return entries
}

// MealEntry is one raw food name with its quantity.
type MealEntry struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity"`
}

// UnitConversions maps a colloquial food term to the approximate weight in
// grams of one unit of it.
type UnitConversions map[string]float64

// DefaultUnitConversions returns a fresh copy of the built-in table.
func DefaultUnitConversions() UnitConversions {
	return UnitConversions{
		"egg":                         50,
		"banana":                      118,
		"apple":                       200,
		"orange":                      130,
		"kiwi":                        70,
		"slice of bread":              30,
		"loaf of bread":               500,
		"cup of rice":                 200,
		"cup of oats":                 80,
		"cup of flour":                120,
		"tablespoon of butter":        14,
		"tablespoon of peanut butter": 16,
		"tablespoon of sugar":         12,
		"teaspoon of salt":            6,
		"potato":                      150,
		"sweet potato":                130,
		"chicken breast":              180,
		"steak":                       250,
		"fillet of salmon":            200,
	}
}

// Clone returns a copy that shares no memory with u.
func (u UnitConversions) Clone() UnitConversions {
	out := make(UnitConversions, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}
