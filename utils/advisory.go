package utils

import (
	"fmt"
	"math"

	"github.com/mathacharan30/nutricompare-atme/models"
)

const (
	referenceDailyKcal   = 2000
	vitaminCDailyValueMg = 90
)

// AssessNutrition returns dietary-guideline advisories for one serving.
// Advisories are informational and never change the health score.
func AssessNutrition(n models.NutritionFacts) []models.Warning {
	warnings := []models.Warning{}

	addedSugarDailyLimitG := (0.10 * referenceDailyKcal) / 4.0 // <10% kcal/day

	// ---------------------------------------------------------
	// 1) Sugars as a share of the item's own calories
	// ---------------------------------------------------------
	if n.CaloriesKcal > 0 && n.SugarG > 0 {
		pct := (n.SugarG * 4.0) / n.CaloriesKcal
		if pct >= 0.10 {
			warnings = append(warnings, models.Warning{
				Code:      "sugars_share_of_item_kcal",
				Severity:  models.Caution,
				Message:   fmt.Sprintf("High sugars for this item (%.0f%% of its calories), may include added sugars.", math.Min(pct, 1)*100),
				Metric:    "sugar_%_of_item_kcal",
				Value:     round2(pct * 100),
				Limit:     10,
				Reference: dgaRef("Added sugars ≤10% kcal"),
			})
		}
	}

	// ---------------------------------------------------------
	// 2) Per-serving share of the daily sugar limit
	// ---------------------------------------------------------
	if n.SugarG > 0 {
		share := n.SugarG / addedSugarDailyLimitG
		switch {
		case share >= 0.40:
			warnings = append(warnings, models.Warning{
				Code:           "sugars_very_high_daily_share",
				Severity:       models.High,
				Message:        fmt.Sprintf("This serving provides ~%.0f%% of the daily added-sugar limit.", share*100),
				Metric:         "sugar_%_of_daily_limit",
				Value:          round2(n.SugarG),
				Limit:          addedSugarDailyLimitG,
				PercentOfLimit: round2(share * 100),
				Reference:      dgaRef("<10% kcal/day from added sugars"),
			})
		case share >= 0.20:
			warnings = append(warnings, models.Warning{
				Code:           "sugars_high_daily_share",
				Severity:       models.Caution,
				Message:        fmt.Sprintf("High share of daily added-sugar limit from one serving (~%.0f%%).", share*100),
				Metric:         "sugar_%_of_daily_limit",
				Value:          round2(n.SugarG),
				Limit:          addedSugarDailyLimitG,
				PercentOfLimit: round2(share * 100),
				Reference:      dgaRef("<10% kcal/day from added sugars"),
			})
		}
	}

	// ---------------------------------------------------------
	// 3) Vitamin C (FDA: ≥20% DV is a "good source")
	// ---------------------------------------------------------
	if n.VitaminCMg > 0 {
		dv := n.VitaminCMg / vitaminCDailyValueMg
		if dv >= 0.20 {
			warnings = append(warnings, models.Warning{
				Code:           "vitamin_c_good_source",
				Severity:       models.Info,
				Message:        fmt.Sprintf("Good source of vitamin C (~%.0f%% of the daily value).", dv*100),
				Metric:         "vitamin_c_%_dv",
				Value:          round2(n.VitaminCMg),
				Limit:          vitaminCDailyValueMg,
				PercentOfLimit: round2(dv * 100),
			})
		}
	}

	if n.HasPreservatives {
		warnings = append(warnings, models.Warning{
			Code:     "contains_preservatives",
			Severity: models.Info,
			Message:  "Contains preservatives. Prefer fresh or minimally processed juice where possible.",
		})
	}

	return warnings
}

// -----------------------------
// Helpers
// -----------------------------

func dgaRef(where string) string {
	return "Dietary Guidelines for Americans, 2020–2025 — " + where
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
