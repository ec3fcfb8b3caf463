package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/mathacharan30/nutricompare-atme/models"
)

const (
	analyzerTimeout = 30 * time.Second

	// upper bound on any remote JSON response we buffer
	maxResponseBytes = 1 << 20
)

// Analyzer extracts nutrition facts and alternatives from a product image.
type Analyzer interface {
	Analyze(ctx context.Context, filename, contentType string, image []byte) (*models.AnalysisResult, error)
}

// AnalyzerService calls the external image analysis endpoint.
type AnalyzerService struct {
	url    string
	client *http.Client
}

func NewAnalyzerService(url string) *AnalyzerService {
	return &AnalyzerService{
		url:    url,
		client: &http.Client{Timeout: analyzerTimeout},
	}
}

// Analyze posts the image as multipart field "file".
func (s *AnalyzerService) Analyze(ctx context.Context, filename, contentType string, image []byte) (*models.AnalysisResult, error) {
	body, formType, err := multipartImage(filename, contentType, image)
	if err != nil {
		return nil, fmt.Errorf("failed to build analyzer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer request: %w", err)
	}
	req.Header.Set("Content-Type", formType)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call analyzer: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read analyzer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer API error %d: %s", resp.StatusCode, string(respBody))
	}

	var out models.AnalysisResult
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse analyzer JSON: %w", err)
	}
	return &out, nil
}

func multipartImage(filename, contentType string, image []byte) (io.Reader, string, error) {
	if filename == "" {
		filename = "capture"
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
