package models

// Category is the coarse label derived from a health score.
type Category string

const (
	CategoryExcellent Category = "Excellent"
	CategoryGood      Category = "Good"
	CategoryPoor      Category = "Poor"
)

// ColorToken is the presentation token matching a category.
type ColorToken string

const (
	ColorExcellent ColorToken = "score-excellent"
	ColorGood      ColorToken = "score-good"
	ColorPoor      ColorToken = "score-poor"
)

// FactorRule identifies which scoring rule produced a factor.
type FactorRule string

const (
	RuleSugar           FactorRule = "sugar"
	RuleCalories        FactorRule = "calories"
	RuleVitaminCBonus   FactorRule = "vitamin_c_bonus"
	RuleVitaminCPenalty FactorRule = "vitamin_c_penalty"
	RulePreservatives   FactorRule = "preservatives"
)

// Factor is one triggered scoring rule. Delta is the unrounded, unclamped
// contribution to the raw score.
type Factor struct {
	Rule  FactorRule `json:"rule"`
	Input float64    `json:"input"`
	Delta float64    `json:"delta"`
}

type HealthScoreResult struct {
	Score      int        `json:"score"`
	Category   Category   `json:"category"`
	ColorToken ColorToken `json:"color_token"`
	Factors    []Factor   `json:"factors"`
	Rationale  []string   `json:"rationale"`
}
