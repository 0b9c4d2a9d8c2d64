package domain

// USDAFood represents a food item from the USDA FoodData Central API
type USDAFood struct {
	FdcID       int            `json:"fdcId"`
	Description string         `json:"description"`
	DataType    string         `json:"dataType"`
	Nutrients   []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA data
type USDANutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

// Suggestion is a per-100g record proposed for a food the catalog lacks.
type Suggestion struct {
	FdcID       int            `json:"fdcId"`
	Description string         `json:"description"`
	Record      NutrientRecord `json:"record"`
	Score       float64        `json:"score"` // similarity 0-1
}
