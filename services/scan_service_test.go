package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/mathacharan30/nutricompare-atme/apperrors"
	"github.com/mathacharan30/nutricompare-atme/models"
)

func juiceAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		ExtractedNutrition: &models.NutritionFacts{SugarG: 22, CaloriesKcal: 110, VitaminCMg: 78},
		Alternatives: []models.Alternative{
			{Name: "Fresh orange juice", NutritionFacts: models.NutritionFacts{SugarG: 8, CaloriesKcal: 36, VitaminCMg: 50, HasPreservatives: true}},
			{Name: "Broken entry", NutritionFacts: models.NutritionFacts{SugarG: -3}},
		},
		Summary: "Packaged orange drink",
	}
}

func newTestScanService(t *testing.T, analyzer Analyzer) (*ScanService, *MemoryScanStore) {
	t.Helper()
	store := NewMemoryScanStore()
	return NewScanService(analyzer, store, mustPresentation(t), 1<<20), store
}

func TestScanScoresProductAndAlternatives(t *testing.T) {
	analyzer := &fakeAnalyzer{result: juiceAnalysis()}
	svc, store := newTestScanService(t, analyzer)

	scan, err := svc.Scan(context.Background(), ScanInput{
		Source:   models.SourceUpload,
		Filename: "juice.png",
		Data:     pngImage,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scan.Status != models.StatusScored {
		t.Fatalf("expected scored, got %s (%s)", scan.Status, scan.Reason)
	}
	if scan.Health.Score != 86 || scan.Health.Category != models.CategoryGood {
		t.Errorf("unexpected health %+v", scan.Health)
	}
	if len(scan.Alternatives) != 1 {
		t.Fatalf("expected invalid alternative to be skipped, got %d", len(scan.Alternatives))
	}
	if alt := scan.Alternatives[0]; alt.Name != "Fresh orange juice" || alt.Health.Score != 95 {
		t.Errorf("unexpected alternative %+v", alt)
	}
	if len(scan.Advisories) != 3 {
		t.Errorf("expected 3 advisories, got %+v", scan.Advisories)
	}
	if scan.Summary != "Packaged orange drink" || scan.Locale != "en" {
		t.Errorf("unexpected summary/locale %q %q", scan.Summary, scan.Locale)
	}
	if analyzer.filename != "juice.png" || analyzer.contentType != "image/png" {
		t.Errorf("analyzer got %q %q", analyzer.filename, analyzer.contentType)
	}

	stored, err := store.Get(context.Background(), scan.ID)
	if err != nil {
		t.Fatalf("scan not stored: %v", err)
	}
	if stored.Health.Score != 86 {
		t.Errorf("stored score %d", stored.Health.Score)
	}
}

func TestScanLocalizesRationale(t *testing.T) {
	svc, _ := newTestScanService(t, &fakeAnalyzer{result: juiceAnalysis()})

	scan, err := svc.Scan(context.Background(), ScanInput{Source: models.SourceCamera, Data: pngImage, Locale: "es-ES"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scan.Locale != "es" {
		t.Errorf("expected es, got %s", scan.Locale)
	}
	if got := scan.Health.Rationale[0]; got != "Azúcar (22g): -14 puntos" {
		t.Errorf("unexpected rationale %q", got)
	}
}

func TestScanUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		result *models.AnalysisResult
		err    error
		reason string
	}{
		{"analyzer error", nil, errors.New("timeout"), reasonAnalysisFailed},
		{"nil result", nil, nil, reasonAnalysisFailed},
		{"no nutrition", &models.AnalysisResult{Summary: "blurry"}, nil, reasonNoNutrition},
		{"negative values", &models.AnalysisResult{ExtractedNutrition: &models.NutritionFacts{SugarG: -1}}, nil, reasonInvalidNutrition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestScanService(t, &fakeAnalyzer{result: tt.result, err: tt.err})

			scan, err := svc.Scan(context.Background(), ScanInput{Source: models.SourceUpload, Data: pngImage})
			if err != nil {
				t.Fatalf("unavailable analysis should not fail the scan: %v", err)
			}
			if scan.Status != models.StatusUnavailable || scan.Reason != tt.reason {
				t.Errorf("got %s/%s, want unavailable/%s", scan.Status, scan.Reason, tt.reason)
			}
			if scan.Health != nil || scan.Nutrition != nil {
				t.Error("unavailable scan must not carry a score")
			}
			if scan.Advisories == nil || scan.Alternatives == nil {
				t.Error("lists should be empty, not nil")
			}
			if _, err := store.Get(context.Background(), scan.ID); err != nil {
				t.Errorf("unavailable scan should still be stored: %v", err)
			}
		})
	}
}

func TestScanRejectsBadInput(t *testing.T) {
	big := append(append([]byte{}, pngImage...), make([]byte, 64)...)

	tests := []struct {
		name string
		in   ScanInput
		want error
	}{
		{"empty", ScanInput{Source: models.SourceUpload}, apperrors.ErrValidation},
		{"too large", ScanInput{Source: models.SourceUpload, Data: big}, apperrors.ErrPayloadTooLarge},
		{"not an image", ScanInput{Source: models.SourceUpload, Data: []byte("just some text")}, apperrors.ErrUnsupportedMedia},
		{"barcode", ScanInput{Source: models.SourceBarcode, Data: pngImage}, apperrors.ErrNotImplemented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{result: juiceAnalysis()}
			svc, _ := newTestScanService(t, analyzer)
			svc.MaxBytes = int64(len(pngImage) + 10)

			_, err := svc.Scan(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if analyzer.calls != 0 {
				t.Error("analyzer should not be called for rejected input")
			}
		})
	}
}

func TestScanOptionalEnrichment(t *testing.T) {
	svc, _ := newTestScanService(t, &fakeAnalyzer{result: juiceAnalysis()})
	svc.Labels = &fakeLabels{labels: []string{"Juice", "Bottle"}}
	svc.Images = &fakeImages{url: "https://cdn.example.com/scans/x.png"}

	scan, err := svc.Scan(context.Background(), ScanInput{Source: models.SourceUpload, Data: pngImage})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scan.Labels) != 2 || scan.ImageURL != "https://cdn.example.com/scans/x.png" {
		t.Errorf("unexpected enrichment %v %q", scan.Labels, scan.ImageURL)
	}

	svc.Labels = &fakeLabels{err: errors.New("access denied")}
	svc.Images = &fakeImages{err: errors.New("no bucket")}
	scan, err = svc.Scan(context.Background(), ScanInput{Source: models.SourceUpload, Data: pngImage})
	if err != nil {
		t.Fatalf("enrichment failures should not fail the scan: %v", err)
	}
	if scan.Status != models.StatusScored || scan.Labels != nil || scan.ImageURL != "" {
		t.Errorf("unexpected scan %+v", scan)
	}
}

func TestScanBroadcastsCompletion(t *testing.T) {
	svc, _ := newTestScanService(t, &fakeAnalyzer{result: juiceAnalysis()})
	hub := NewRealtimeHub()
	conn := &fakeConn{}
	hub.Register(&WSClient{Topic: TopicScans, Conn: conn})
	svc.Hub = hub

	scan, err := svc.Scan(context.Background(), ScanInput{Source: models.SourceUpload, Data: pngImage})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := conn.received()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	var event struct {
		Kind string      `json:"kind"`
		Scan models.Scan `json:"scan"`
	}
	if err := json.Unmarshal(msgs[0], &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Kind != "scan.completed" || event.Scan.ID != scan.ID {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestScanGet(t *testing.T) {
	svc, _ := newTestScanService(t, &fakeAnalyzer{result: juiceAnalysis()})
	scan, err := svc.Scan(context.Background(), ScanInput{Source: models.SourceUpload, Data: pngImage})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), scan.ID)
	if err != nil || got.ID != scan.ID {
		t.Fatalf("get: %v %+v", err, got)
	}

	for _, id := range []string{"nope", "01ARZ3NDEKTSV4RRFFQ69G5FAV"} {
		if _, err := svc.Get(context.Background(), id); !errors.Is(err, apperrors.ErrScanNotFound) {
			t.Errorf("Get(%q): expected not found, got %v", id, err)
		}
	}
}

func TestValidNutrition(t *testing.T) {
	if !ValidNutrition(models.NutritionFacts{}) {
		t.Error("zero values are valid")
	}
	for _, n := range []models.NutritionFacts{
		{SugarG: -0.1},
		{CaloriesKcal: -5},
		{VitaminCMg: math.NaN()},
		{SugarG: math.Inf(1)},
	} {
		if ValidNutrition(n) {
			t.Errorf("%+v should be invalid", n)
		}
	}
}
