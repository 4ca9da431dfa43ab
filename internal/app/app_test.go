package app

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/breadthpulse/config"
)

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Port: "8080", RequestTimeout: time.Second},
		Postgres: config.PostgresConfig{
			Host:     "127.0.0.1",
			Port:     54329, // unlikely mapped
			User:     "x",
			Password: "y",
			DBName:   "z",
			SSLMode:  "disable",
		},
		Breadth: config.BreadthConfig{
			FetchTimeout:  time.Second,
			MaxLookback:   260,
			Granularities: []string{"daily"},
		},
	}
}

func withConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	old := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = old })
}

func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	old := postgresOpener
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { postgresOpener = old })
	return mock
}

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	db, err := InitPostgres(testConfig())
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	withConfig(t, testConfig())

	r, cleanup, err := InitializeApp()
	if err == nil || r != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with invalid DB config")
	}
}

func TestInitializeApp_UnknownGranularity(t *testing.T) {
	cfg := testConfig()
	cfg.Breadth.Granularities = []string{"monthly"}
	withConfig(t, cfg)

	if _, _, err := InitializeApp(); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestInitializeApp_RedisFailureClosesDB(t *testing.T) {
	withConfig(t, testConfig())
	mock := withMockDB(t)
	mock.ExpectClose()

	old := redisConnector
	redisConnector = func(config.Config) (*redis.Client, error) { return nil, errors.New("redis down") }
	t.Cleanup(func() { redisConnector = old })

	if _, _, err := InitializeApp(); err == nil {
		t.Fatal("expected redis error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("db not closed: %v", err)
	}
}

func TestInitializeApp_HappyPath(t *testing.T) {
	withConfig(t, testConfig())
	mock := withMockDB(t)
	mock.ExpectPing()
	mock.ExpectClose()

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/breadth", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("breadth without universe status=%d", w.Code)
	}

	cleanup()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeService_StaticUniverseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universes.yaml")
	body := "universes:\n  - key: spy\n    members: [AAPL, MSFT]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := testConfig()
	cfg.Breadth.UniverseFile = path
	withConfig(t, cfg)
	withMockDB(t)

	svc, cleanup, err := InitializeService()
	if err != nil || svc == nil {
		t.Fatalf("InitializeService: %v", err)
	}
	cleanup()
}

func TestInitializeService_MissingUniverseFile(t *testing.T) {
	cfg := testConfig()
	cfg.Breadth.UniverseFile = filepath.Join(t.TempDir(), "missing.yaml")
	withConfig(t, cfg)
	withMockDB(t)

	if _, _, err := InitializeService(); err == nil {
		t.Fatal("expected error for missing universe file")
	}
}

func TestGranularities(t *testing.T) {
	got, err := granularities([]string{"daily", "WEEKLY"})
	if err != nil || len(got) != 2 || got[1] != "weekly" {
		t.Fatalf("got=%v err=%v", got, err)
	}
	if _, err := granularities([]string{"hourly"}); err == nil {
		t.Fatal("expected error")
	}
}
