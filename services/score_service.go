package services

import (
	"math"

	"github.com/mathacharan30/nutricompare-atme/config"
	"github.com/mathacharan30/nutricompare-atme/models"
	"github.com/mathacharan30/nutricompare-atme/utils"
)

// Score evaluates facts and renders the rationale in locale.
func Score(facts models.NutritionFacts, locale config.Locale) models.HealthScoreResult {
	res := utils.Evaluate(facts)
	res.Rationale = utils.FormatRationale(res.Factors, locale.Rationale)
	return res
}

// ValidNutrition reports whether every numeric field is finite and
// non-negative. Values failing this never reach the evaluator.
func ValidNutrition(n models.NutritionFacts) bool {
	for _, v := range []float64{n.SugarG, n.CaloriesKcal, n.VitaminCMg} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
