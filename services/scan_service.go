package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/mathacharan30/nutricompare-atme/apperrors"
	"github.com/mathacharan30/nutricompare-atme/config"
	"github.com/mathacharan30/nutricompare-atme/models"
	"github.com/mathacharan30/nutricompare-atme/utils"
)

const (
	reasonAnalysisFailed   = "analysis_failed"
	reasonNoNutrition      = "no_nutrition_found"
	reasonInvalidNutrition = "invalid_nutrition_values"
)

var ErrBarcodeUnsupported = apperrors.ErrNotImplemented.WithMessage("Barcode scanning is not available yet")

// ImageStore archives scanned images.
type ImageStore interface {
	PutImage(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type ScanInput struct {
	Source      models.ScanSource
	Filename    string
	ContentType string
	Data        []byte
	Locale      string
}

// ScanService turns a product image into a scored scan report.
type ScanService struct {
	Analyzer     Analyzer
	Labels       LabelDetector // optional
	Images       ImageStore    // optional
	Store        ScanStore
	Hub          Broadcaster // optional
	Presentation *config.Presentation
	MaxBytes     int64
	Now          func() time.Time
}

func NewScanService(analyzer Analyzer, store ScanStore, pres *config.Presentation, maxBytes int64) *ScanService {
	return &ScanService{
		Analyzer:     analyzer,
		Store:        store,
		Presentation: pres,
		MaxBytes:     maxBytes,
		Now:          time.Now,
	}
}

// Scan analyzes an image. A failed or empty analysis is not an error: the
// report comes back with status "unavailable" and no health result.
func (s *ScanService) Scan(ctx context.Context, in ScanInput) (*models.Scan, error) {
	if in.Source == models.SourceBarcode {
		return nil, ErrBarcodeUnsupported
	}
	contentType, err := s.checkImage(in)
	if err != nil {
		return nil, err
	}

	locale := s.Presentation.Locale(in.Locale)
	scan := &models.Scan{
		ID:        utils.NewScanID(),
		Source:    in.Source,
		Locale:    locale.Code,
		CreatedAt: s.Now().UTC(),
	}

	var (
		analysis    *models.AnalysisResult
		analysisErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis, analysisErr = s.Analyzer.Analyze(gctx, in.Filename, contentType, in.Data)
		return ctx.Err()
	})
	if s.Labels != nil {
		g.Go(func() error {
			labels, err := s.Labels.DetectLabels(gctx, in.Data)
			if err != nil {
				slog.Warn("label detection failed", "scan_id", scan.ID, "error", err)
				return nil
			}
			scan.Labels = labels
			return nil
		})
	}
	if s.Images != nil {
		g.Go(func() error {
			url, err := s.Images.PutImage(gctx, scan.ID, contentType, in.Data)
			if err != nil {
				slog.Warn("image archive failed", "scan_id", scan.ID, "error", err)
				return nil
			}
			scan.ImageURL = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if analysisErr != nil {
		slog.Warn("analysis failed", "scan_id", scan.ID, "error", analysisErr)
	}
	s.fill(scan, analysis, analysisErr, locale)

	if err := s.Store.Save(ctx, scan); err != nil {
		return nil, apperrors.NewDatabaseError(fmt.Errorf("save scan: %w", err))
	}

	if s.Hub != nil {
		s.Hub.Broadcast(TopicScans, map[string]any{
			"kind": "scan.completed",
			"scan": scan,
		})
	}

	slog.Info("scan completed", "scan_id", scan.ID, "source", scan.Source, "status", scan.Status)
	return scan, nil
}

func (s *ScanService) fill(scan *models.Scan, analysis *models.AnalysisResult, analysisErr error, locale config.Locale) {
	scan.Status = models.StatusUnavailable
	scan.Advisories = []models.Warning{}
	scan.Alternatives = []models.ScoredAlternative{}

	switch {
	case analysisErr != nil || analysis == nil:
		scan.Reason = reasonAnalysisFailed
		return
	case analysis.ExtractedNutrition == nil:
		scan.Reason = reasonNoNutrition
		scan.Summary = analysis.Summary
		return
	case !ValidNutrition(*analysis.ExtractedNutrition):
		scan.Reason = reasonInvalidNutrition
		scan.Summary = analysis.Summary
		return
	}

	facts := *analysis.ExtractedNutrition
	health := Score(facts, locale)

	scan.Status = models.StatusScored
	scan.Nutrition = &facts
	scan.Health = &health
	scan.Advisories = utils.AssessNutrition(facts)
	scan.Summary = analysis.Summary

	for _, alt := range analysis.Alternatives {
		if !ValidNutrition(alt.NutritionFacts) {
			slog.Warn("skipping alternative with invalid nutrition", "scan_id", scan.ID, "name", alt.Name)
			continue
		}
		scan.Alternatives = append(scan.Alternatives, models.ScoredAlternative{
			Alternative: alt,
			Health:      Score(alt.NutritionFacts, locale),
		})
	}
}

// checkImage enforces the size limit and sniffs the content type.
func (s *ScanService) checkImage(in ScanInput) (string, error) {
	if len(in.Data) == 0 {
		return "", apperrors.NewValidationError("file", "image is empty")
	}
	if s.MaxBytes > 0 && int64(len(in.Data)) > s.MaxBytes {
		return "", apperrors.ErrPayloadTooLarge.WithMessage(fmt.Sprintf(
			"image is %s; the limit is %s",
			humanize.Bytes(uint64(len(in.Data))), humanize.Bytes(uint64(s.MaxBytes)),
		))
	}

	sniffed := http.DetectContentType(in.Data)
	if !strings.HasPrefix(sniffed, "image/") {
		return "", apperrors.ErrUnsupportedMedia.WithDetails(map[string]interface{}{
			"detected": sniffed,
		})
	}
	return sniffed, nil
}

// Get returns one stored scan.
func (s *ScanService) Get(ctx context.Context, id string) (*models.Scan, error) {
	if !utils.IsScanID(id) {
		return nil, apperrors.ErrScanNotFound
	}
	scan, err := s.Store.Get(ctx, id)
	if errors.Is(err, ErrScanNotFound) {
		return nil, apperrors.ErrScanNotFound
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return scan, nil
}

// Recent lists the newest scans first.
func (s *ScanService) Recent(ctx context.Context, limit int) ([]models.Scan, error) {
	scans, err := s.Store.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return scans, nil
}
