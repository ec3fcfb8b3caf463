package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mathacharan30/nutricompare-atme/config"
	"github.com/mathacharan30/nutricompare-atme/models"
	"github.com/mathacharan30/nutricompare-atme/services"
)

func newScoreCmd() *cobra.Command {
	var (
		facts  models.NutritionFacts
		lang   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the health score for one product",
		Example: `  nutricompare score --sugar 22 --calories 110 --vitamin-c 78
  nutricompare score --sugar 8 --calories 36 --vitamin-c 50 --preservatives --lang es`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !services.ValidNutrition(facts) {
				return fmt.Errorf("nutrition values must be finite and non-negative")
			}
			pres, err := config.LoadPresentation()
			if err != nil {
				return err
			}
			locale := pres.Locale(lang)
			res := services.Score(facts, locale)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return writeScore(cmd.OutOrStdout(), res, locale)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&facts.SugarG, "sugar", 0, "sugar in grams")
	f.Float64Var(&facts.CaloriesKcal, "calories", 0, "energy in kcal")
	f.Float64Var(&facts.VitaminCMg, "vitamin-c", 0, "vitamin C in mg")
	f.BoolVar(&facts.HasPreservatives, "preservatives", false, "product contains preservatives")
	f.StringVar(&lang, "lang", "en", "locale for the rationale")
	f.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeScore(w io.Writer, res models.HealthScoreResult, locale config.Locale) error {
	category := locale.Text("category_" + strings.ToLower(string(res.Category)))
	if _, err := fmt.Fprintf(w, "%s: %d/100 (%s)\n", locale.Text("health_score"), res.Score, category); err != nil {
		return err
	}
	for _, line := range res.Rationale {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	return nil
}
