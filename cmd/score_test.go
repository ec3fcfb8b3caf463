package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mathacharan30/nutricompare-atme/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	out, err := run(t, "score", "--sugar", "22", "--calories", "110", "--vitamin-c", "78")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Health Score: 86/100 (Good)\n" +
		"  Sugar (22g): -14 points\n" +
		"  Calories (110kcal): -5 points\n" +
		"  Vitamin C (78mg): +5 points\n"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestScoreCommandLocalized(t *testing.T) {
	out, err := run(t, "score", "--sugar", "8", "--calories", "36", "--vitamin-c", "50", "--preservatives", "--lang", "es")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Puntuación de salud: 95/100 (Excelente)") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestScoreCommandJSON(t *testing.T) {
	out, err := run(t, "score", "--sugar", "10000", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res models.HealthScoreResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Score != 0 || res.Category != models.CategoryPoor || res.ColorToken != models.ColorPoor {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestScoreCommandRejectsNegative(t *testing.T) {
	if _, err := run(t, "score", "--sugar=-1"); err == nil {
		t.Error("expected error for negative sugar")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"extracted_nutrition": {"sugar_g": 22, "calories_kcal": 110, "vitamin_c_mg": 78, "has_preservatives": false}, "alternatives": [], "summary": "ok"}`)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "juice.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nbody"), 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}

	out, err := run(t, "analyze", path, "--analyzer-url", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var scan models.Scan
	if err := json.Unmarshal([]byte(out), &scan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scan.Status != models.StatusScored || scan.Health.Score != 86 {
		t.Errorf("unexpected scan %+v", scan)
	}
}

func TestChatCommandFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	out, err := run(t, "chat", "--chatbot-url", server.URL, "how", "much", "protein?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Protein is essential") {
		t.Errorf("unexpected answer %q", out)
	}
}
