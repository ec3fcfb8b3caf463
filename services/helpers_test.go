package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mathacharan30/nutricompare-atme/config"
	"github.com/mathacharan30/nutricompare-atme/models"
)

// pngImage starts with the PNG signature so content sniffing sees image/png.
var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR-fake-image-body")

func mustPresentation(t *testing.T) *config.Presentation {
	t.Helper()
	p, err := config.LoadPresentation()
	if err != nil {
		t.Fatalf("load presentation: %v", err)
	}
	return p
}

type fakeAnalyzer struct {
	result *models.AnalysisResult
	err    error

	mu          sync.Mutex
	filename    string
	contentType string
	calls       int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, filename, contentType string, image []byte) (*models.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.filename = filename
	f.contentType = contentType
	return f.result, f.err
}

type fakeLabels struct {
	labels []string
	err    error
}

func (f *fakeLabels) DetectLabels(ctx context.Context, image []byte) ([]string, error) {
	return f.labels, f.err
}

type fakeImages struct {
	url string
	err error
}

func (f *fakeImages) PutImage(ctx context.Context, name, contentType string, data []byte) (string, error) {
	return f.url, f.err
}

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	fail     bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

type fakeChatClient struct {
	answer string
	err    error
	asked  []string
}

func (f *fakeChatClient) Ask(ctx context.Context, query string) (string, error) {
	f.asked = append(f.asked, query)
	return f.answer, f.err
}
