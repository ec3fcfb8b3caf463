package models

// NutritionFacts are the four inputs to health scoring. Field names match the
// analyzer's `extracted_nutrition` object.
type NutritionFacts struct {
	SugarG           float64 `json:"sugar_g"`
	CaloriesKcal     float64 `json:"calories_kcal"`
	VitaminCMg       float64 `json:"vitamin_c_mg"`
	HasPreservatives bool    `json:"has_preservatives"`
}

// Alternative is a suggested product returned next to the scanned one.
type Alternative struct {
	Name string `json:"name"`
	NutritionFacts
}

// AnalysisResult is the analyzer envelope. ExtractedNutrition is nil when the
// analyzer could not read a nutrition panel.
type AnalysisResult struct {
	ExtractedNutrition *NutritionFacts `json:"extracted_nutrition"`
	Alternatives       []Alternative   `json:"alternatives"`
	Summary            string          `json:"summary"`
}
