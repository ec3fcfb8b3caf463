package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mathacharan30/nutricompare-atme/config"
	"github.com/mathacharan30/nutricompare-atme/models"
	"github.com/mathacharan30/nutricompare-atme/services"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		analyzerURL string
		lang        string
		maxBytes    int64
	)

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Send a product photo to the analyzer and score the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			pres, err := config.LoadPresentation()
			if err != nil {
				return err
			}

			svc := services.NewScanService(services.NewAnalyzerService(analyzerURL), services.NewMemoryScanStore(), pres, maxBytes)
			scan, err := svc.Scan(cmd.Context(), services.ScanInput{
				Source:   models.SourceUpload,
				Filename: filepath.Base(args[0]),
				Data:     data,
				Locale:   lang,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(scan)
		},
	}

	cmd.Flags().StringVar(&analyzerURL, "analyzer-url", envDefault("ANALYZER_URL", config.DefaultAnalyzerURL), "image analysis endpoint")
	cmd.Flags().StringVar(&lang, "lang", "en", "locale for the rationale")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", config.DefaultMaxUploadBytes, "largest accepted image")
	return cmd
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
