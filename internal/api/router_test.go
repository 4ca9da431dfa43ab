package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/breadthpulse/internal/domain/dto"
	"github.com/guttosm/breadthpulse/internal/domain/errs"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mockBreadthService{resp: breadthResult()}
	r := NewRouter(NewHandler(svc), RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/breadth?universe=SPY&metrics=instant", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out dto.BreadthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Meta.Universe != "SPY" || out.Metrics["instant"].Up != 3 {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestNewRouter_ErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockBreadthService{err: errs.ErrUnknownUniverse}), RouterOptions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/breadth?universe=NOPE", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestNewRouter_RateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockBreadthService{resp: segmentResult()}), RouterOptions{
		RateRPS:        0.001,
		RateBurst:      1,
		RequestTimeout: time.Second,
	})

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/breadth/segments?universe=SPY", nil))
		codes[i] = w.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes=%v", codes)
	}
}
