package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newCORSRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(origins))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORSAllowList(t *testing.T) {
	r := newCORSRouter([]string{"http://localhost:3000"})

	t.Run("allowed origin gets CORS headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Fatalf("Allow-Origin = %q, want request origin", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Fatal("expected Allow-Credentials for allowed origin")
		}
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://evil.example")
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("Allow-Origin = %q, want empty for unknown origin", got)
		}
	})

	t.Run("preflight short-circuits with 204", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("preflight status = %d, want 204", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
			t.Fatal("expected Allow-Methods on preflight response")
		}
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		wild := newCORSRouter([]string{"*"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://anywhere.example")
		wild.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://anywhere.example" {
			t.Fatalf("Allow-Origin = %q, want request origin under wildcard", got)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	do := func(r *gin.Engine) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("burst beyond limit returns 429", func(t *testing.T) {
		r := gin.New()
		r.Use(RateLimiter(2, time.Minute))
		r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

		if code := do(r); code != http.StatusOK {
			t.Fatalf("first request status = %d, want 200", code)
		}
		if code := do(r); code != http.StatusOK {
			t.Fatalf("second request status = %d, want 200", code)
		}
		if code := do(r); code != http.StatusTooManyRequests {
			t.Fatalf("third request status = %d, want 429", code)
		}
	})

	t.Run("non-positive config falls back to defaults", func(t *testing.T) {
		r := gin.New()
		r.Use(RateLimiter(0, 0))
		r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

		if code := do(r); code != http.StatusOK {
			t.Fatalf("request status = %d, want 200 under default limits", code)
		}
	})
}
