package usda

import (
	"github.com/macrolens/intake/internal/domain"
)

// USDA Nutrient IDs for the standard nutrients
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrate, by difference (g)
	NutrientIDTotalFat     = 1004 // Total lipid (fat) (g)
	NutrientIDSugars       = 2000 // Sugars, total including NLEA (g)
)

// nutrientByID maps USDA nutrient IDs to record keys
var nutrientByID = map[int]string{
	NutrientIDEnergy:       domain.NutrientCalories,
	NutrientIDTotalFat:     domain.NutrientTotalFat,
	NutrientIDProtein:      domain.NutrientProtein,
	NutrientIDCarbohydrate: domain.NutrientCarbohydrate,
	NutrientIDSugars:       domain.NutrientSugars,
}

// MapToRecord converts USDA food data to a per-100g record. Search results
// report nutrients per 100 g; nutrients USDA does not list are recorded as 0.
func MapToRecord(usdaFood *domain.USDAFood) domain.NutrientRecord {
	record := domain.NewNutrientRecord(0, 0, 0, 0, 0)
	for _, nutrient := range usdaFood.Nutrients {
		if key, ok := nutrientByID[nutrient.NutrientID]; ok && nutrient.Value >= 0 {
			record[key] = nutrient.Value
		}
	}
	return record
}

// FindNutrientValue finds a specific nutrient value by ID
func FindNutrientValue(nutrients []domain.USDANutrient, nutrientID int) (float64, bool) {
	for _, nutrient := range nutrients {
		if nutrient.NutrientID == nutrientID {
			return nutrient.Value, true
		}
	}
	return 0, false
}
