package utils

import (
	"math"

	"github.com/mathacharan30/nutricompare-atme/models"
)

const (
	baselineScore = 100

	sugarThresholdG      = 15
	sugarPenaltyPerG     = 2
	calorieThresholdKcal = 100
	caloriePenaltyPerKc  = 0.5

	vitaminCBonusMg   = 50
	vitaminCPenaltyMg = 20
	vitaminCBonus     = 5
	vitaminCPenalty   = -5

	preservativePenalty = -10
)

// Evaluate scores a product from its nutrition facts. It is pure and safe for
// concurrent use. Negative inputs are not rejected; callers validate at the
// boundary.
func Evaluate(n models.NutritionFacts) models.HealthScoreResult {
	factors := ScoreFactors(n)

	raw := float64(baselineScore)
	for _, f := range factors {
		raw += f.Delta
	}
	score := clampScore(raw)
	category, color := CategorizeScore(score)

	return models.HealthScoreResult{
		Score:      score,
		Category:   category,
		ColorToken: color,
		Factors:    factors,
		Rationale:  FormatRationale(factors, nil),
	}
}

// ScoreFactors returns the triggered rules in fixed order: sugar, calories,
// vitamin C, preservatives.
func ScoreFactors(n models.NutritionFacts) []models.Factor {
	factors := make([]models.Factor, 0, 4)

	if n.SugarG > sugarThresholdG {
		factors = append(factors, models.Factor{
			Rule:  models.RuleSugar,
			Input: n.SugarG,
			Delta: -(n.SugarG - sugarThresholdG) * sugarPenaltyPerG,
		})
	}

	if n.CaloriesKcal > calorieThresholdKcal {
		factors = append(factors, models.Factor{
			Rule:  models.RuleCalories,
			Input: n.CaloriesKcal,
			Delta: -(n.CaloriesKcal - calorieThresholdKcal) * caloriePenaltyPerKc,
		})
	}

	switch {
	case n.VitaminCMg >= vitaminCBonusMg:
		factors = append(factors, models.Factor{Rule: models.RuleVitaminCBonus, Input: n.VitaminCMg, Delta: vitaminCBonus})
	case n.VitaminCMg < vitaminCPenaltyMg:
		factors = append(factors, models.Factor{Rule: models.RuleVitaminCPenalty, Input: n.VitaminCMg, Delta: vitaminCPenalty})
	}

	if n.HasPreservatives {
		factors = append(factors, models.Factor{Rule: models.RulePreservatives, Input: 1, Delta: preservativePenalty})
	}

	return factors
}

// CategorizeScore maps a final score to its category and color token.
func CategorizeScore(score int) (models.Category, models.ColorToken) {
	switch {
	case score >= 90:
		return models.CategoryExcellent, models.ColorExcellent
	case score >= 70:
		return models.CategoryGood, models.ColorGood
	default:
		return models.CategoryPoor, models.ColorPoor
	}
}

// clampScore rounds once, half up, then clamps to [0, 100].
func clampScore(raw float64) int {
	rounded := math.Floor(raw + 0.5)
	return int(math.Max(0, math.Min(baselineScore, rounded)))
}
