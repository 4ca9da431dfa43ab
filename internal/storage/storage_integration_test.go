//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/breadthpulse/internal/calendar"
	"github.com/guttosm/breadthpulse/internal/domain/errs"
	"github.com/guttosm/breadthpulse/internal/domain/models"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
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
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=breadthpulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "breadthpulse")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/storage → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

// seedBars writes n daily bars per symbol ending at the latest session and
// returns the session dates, oldest first.
func seedBars(t *testing.T, db *sql.DB, now time.Time, n int, symbols ...string) []time.Time {
	t.Helper()
	sessions := calendar.LastNSessions(n, now)
	dates := make([]time.Time, n)
	for i, d := range sessions {
		dates[n-1-i] = d
	}
	for _, sym := range symbols {
		for i, d := range dates {
			price := 100 + float64(i)
			_, err := db.Exec(`
				INSERT INTO daily_bars (symbol, trade_date, open, high, low, close, volume)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, sym, d, price, price+1, price-1, price, int64(1000+i))
			if err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
	}
	return dates
}

func TestRepository_Integration_TableDriven(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	now := time.Now().UTC()
	dates := seedBars(t, db, now, 30, "AAPL", "MSFT")

	repo := NewPriceRepository(db, DefaultMaxLookback)

	cases := []struct {
		name      string
		symbols   []string
		lookback  int
		wantBars  int
		wantFirst time.Time
		wantErr   error
	}{
		{name: "last 5 bars of two symbols", symbols: []string{"AAPL", "MSFT"}, lookback: 5, wantBars: 10, wantFirst: dates[25]},
		{name: "lookback longer than history", symbols: []string{"AAPL"}, lookback: 60, wantBars: 30, wantFirst: dates[0]},
		{name: "unknown symbol", symbols: []string{"ZZZZ"}, lookback: 5, wantErr: errs.ErrNoDataAvailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bars, err := repo.FetchWindow(context.Background(), tc.symbols, models.Daily, tc.lookback)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchWindow err: %v", err)
			}
			if len(bars) != tc.wantBars {
				t.Fatalf("got %d bars, want %d", len(bars), tc.wantBars)
			}
			if !bars[0].Time.Equal(tc.wantFirst) {
				t.Fatalf("first bar at %s, want %s", bars[0].Time, tc.wantFirst)
			}
			for i := 1; i < len(bars); i++ {
				if bars[i].Symbol == bars[i-1].Symbol && !bars[i].Time.After(bars[i-1].Time) {
					t.Fatalf("bars out of order at %d", i)
				}
			}
		})
	}

	t.Run("universe members in position order", func(t *testing.T) {
		_, err := db.Exec(`
			INSERT INTO universe_members (universe_key, symbol, position, weight)
			VALUES ('SPY', 'MSFT', 2, NULL), ('SPY', 'AAPL', 1, 0.07)
		`)
		if err != nil {
			t.Fatalf("seed universe: %v", err)
		}
		u, err := NewUniverseRepository(db).Lookup(context.Background(), "SPY")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if len(u.Members) != 2 || u.Members[0] != "AAPL" || u.Members[1] != "MSFT" {
			t.Fatalf("members=%v", u.Members)
		}
	})
}
