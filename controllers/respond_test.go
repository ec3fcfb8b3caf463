package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mathacharan30/nutricompare-atme/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLocaleTag(t *testing.T) {
	tests := []struct {
		url    string
		header string
		want   string
	}{
		{"/?lang=hi", "es-ES,es;q=0.9", "hi"},
		{"/", "es-ES,es;q=0.9", "es-ES"},
		{"/", "ta;q=0.8", "ta"},
		{"/", "", ""},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)
		if tt.header != "" {
			c.Request.Header.Set("Accept-Language", tt.header)
		}
		if got := localeTag(c); got != tt.want {
			t.Errorf("%s %q: got %q, want %q", tt.url, tt.header, got, tt.want)
		}
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrSessionEnded, http.StatusGone, "SESSION_ENDED"},
		{apperrors.NewValidationError("limit", "limit must be a positive integer"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondError(c, tt.err)

		if w.Code != tt.status {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.status, w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["error"] != tt.code {
			t.Errorf("%v: expected code %s, got %v", tt.err, tt.code, body["error"])
		}
		if tt.status == http.StatusInternalServerError && body["message"] == "disk on fire" {
			t.Error("internal errors must not leak their cause")
		}
	}
}
