//go:build integration
// +build integration

package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/breadthpulse/config"
	"github.com/guttosm/breadthpulse/internal/app"
	"github.com/guttosm/breadthpulse/internal/calendar"
	"github.com/guttosm/breadthpulse/internal/domain/dto"
)

func startPG(t *testing.T) (dsn string, host string, port nat.Port, terminate func()) {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "breadthpulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=breadthpulse sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", h, mp.Port(), "breadthpulse")
	terminate = func() { _ = c.Terminate(context.Background()) }
	return dsn, h, mp, terminate
}

func openAndMigrate(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedForE2E(t *testing.T, db *sql.DB, now time.Time) {
	t.Helper()
	sessions := calendar.LastNSessions(2, now)
	prev, last := sessions[1], sessions[0]
	closes := map[string][2]float64{
		"AAA": {100, 110},
		"BBB": {100, 90},
		"CCC": {100, 100},
	}
	pos := 0
	for sym, c := range closes {
		for i, d := range []time.Time{prev, last} {
			_, err := db.Exec(`INSERT INTO daily_bars (symbol, trade_date, open, high, low, close, volume)
				VALUES ($1,$2,$3,$3,$3,$3,$4)`, sym, d, c[i], 1000)
			if err != nil {
				t.Fatalf("seed bars: %v", err)
			}
		}
		pos++
		if _, err := db.Exec(`INSERT INTO universe_members (universe_key, symbol, position) VALUES ('E2E', $1, $2)`, sym, pos); err != nil {
			t.Fatalf("seed universe: %v", err)
		}
	}
}

func TestAPI_E2E_Breadth(t *testing.T) {
	dsn, host, port, term := startPG(t)
	defer term()
	db := openAndMigrate(t, dsn)
	defer db.Close()

	seedForE2E(t, db, time.Now().UTC())

	// Point application config to containerized DB
	config.AppConfig.Server.Port = "0"
	config.AppConfig.Postgres.Host = host
	p, _ := nat.ParsePort(port.Port())
	config.AppConfig.Postgres.Port = int(p)
	config.AppConfig.Postgres.User = "postgres"
	config.AppConfig.Postgres.Password = "postgres"
	config.AppConfig.Postgres.DBName = "breadthpulse"
	config.AppConfig.Postgres.SSLMode = "disable"
	config.AppConfig.Breadth = config.BreadthConfig{
		FetchTimeout:  5 * time.Second,
		MaxLookback:   260,
		Granularities: []string{"daily"},
	}

	router, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/breadth?universe=e2e&metrics=instant", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var body dto.BreadthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	got := body.Metrics["instant"]
	if got.Up != 1 || got.Down != 1 || got.Unchanged != 1 || got.Evaluable != 3 || got.PctUp != 33.33 {
		t.Fatalf("unexpected instant breadth: %+v", got)
	}
	if body.Meta.Universe != "E2E" || body.Meta.SymbolCount != 3 {
		t.Fatalf("unexpected meta: %+v", body.Meta)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/breadth/segments?universe=E2E&boundaries=-5,5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("segments status: %d body=%s", w.Code, w.Body.String())
	}
	var seg dto.SegmentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &seg); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(seg.Segments) != 3 || seg.Segments[0].Count != 1 || seg.Segments[1].Count != 1 || seg.Segments[2].Count != 1 {
		t.Fatalf("unexpected segments: %+v", seg.Segments)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/breadth?universe=NOPE", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown universe status: %d", w.Code)
	}
}
