package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := func() error { return nil }
	fail := func() error { return assertErr{} }

	cases := []struct {
		name      string
		dbPing    func() error
		redisPing func() error
		path      string
		want      int
		dep       string
	}{
		{name: "healthz ok", path: "/healthz", want: 200},
		{name: "healthz ignores deps", dbPing: fail, redisPing: fail, path: "/healthz", want: 200},
		{name: "readyz ok", dbPing: ok, path: "/readyz", want: 200},
		{name: "readyz ok with redis", dbPing: ok, redisPing: ok, path: "/readyz", want: 200},
		{name: "readyz postgres down", dbPing: fail, redisPing: ok, path: "/readyz", want: 503, dep: "postgres"},
		{name: "readyz redis down", dbPing: ok, redisPing: fail, path: "/readyz", want: 503, dep: "redis"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.dbPing, tc.redisPing).Register(r)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
			if tc.dep != "" {
				var body map[string]string
				_ = json.Unmarshal(w.Body.Bytes(), &body)
				if body["dependency"] != tc.dep {
					t.Fatalf("dependency=%q want %q", body["dependency"], tc.dep)
				}
			}
		})
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "err" }
