package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestLogger_WritesOneEvent(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/sync/pull", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/sync/pull?token=secret-value", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer secret-value")
	e.ServeHTTP(httptest.NewRecorder(), req)

	line := strings.TrimSpace(buf.String())
	if strings.Count(line, "\n") != 0 {
		t.Fatalf("expected a single log line, got %q", line)
	}
	if strings.Contains(line, "secret-value") {
		t.Fatalf("log line leaks credentials: %s", line)
	}

	var evt map[string]any
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if evt["path"] != "/sync/pull" || evt["status"] != float64(http.StatusNoContent) || evt["level"] != "info" {
		t.Fatalf("unexpected event: %v", evt)
	}
}
