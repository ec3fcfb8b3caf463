package utils

import (
	"strconv"
	"strings"

	"github.com/mathacharan30/nutricompare-atme/models"
)

// DefaultRationaleTemplates render factors in English. {value} is the input
// and {delta} the signed point change.
var DefaultRationaleTemplates = map[string]string{
	string(models.RuleSugar):           "Sugar ({value}g): {delta} points",
	string(models.RuleCalories):        "Calories ({value}kcal): {delta} points",
	string(models.RuleVitaminCBonus):   "Vitamin C ({value}mg): {delta} points",
	string(models.RuleVitaminCPenalty): "Vitamin C ({value}mg): {delta} points",
	string(models.RulePreservatives):   "Contains preservatives: {delta} points",
}

// FormatRationale renders one line per factor. Templates missing from the
// given set fall back to English. An empty factor list yields an empty slice.
func FormatRationale(factors []models.Factor, templates map[string]string) []string {
	lines := make([]string, 0, len(factors))
	for _, f := range factors {
		tmpl, ok := templates[string(f.Rule)]
		if !ok || tmpl == "" {
			tmpl = DefaultRationaleTemplates[string(f.Rule)]
		}
		r := strings.NewReplacer(
			"{value}", formatNumber(f.Input),
			"{delta}", formatDelta(f.Delta),
		)
		lines = append(lines, r.Replace(tmpl))
	}
	return lines
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDelta(d float64) string {
	if d >= 0 {
		return "+" + formatNumber(d)
	}
	return "-" + formatNumber(-d)
}
