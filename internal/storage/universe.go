package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/guttosm/breadthpulse/internal/domain/models"
)

// UniverseRepository reads universe membership maintained by an external
// synchronization job.
type UniverseRepository interface {
	// Lookup returns the members of key in position order. An unknown key
	// yields a Universe without members and a nil error.
	Lookup(ctx context.Context, key string) (models.Universe, error)
}

type universeRepository struct {
	db *sql.DB
}

func NewUniverseRepository(db *sql.DB) UniverseRepository {
	return &universeRepository{db: db}
}

// Lookup keys members and weights by the trimmed, upper-cased symbol so
// weights line up with the normalized member list callers work with.
func (r *universeRepository) Lookup(ctx context.Context, key string) (models.Universe, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, weight
		FROM universe_members
		WHERE universe_key = $1
		ORDER BY position, symbol
	`, key)
	if err != nil {
		return models.Universe{}, unavailable("query universe", err)
	}
	defer rows.Close()

	u := models.Universe{Key: key}
	for rows.Next() {
		var (
			symbol string
			weight sql.NullFloat64
		)
		if err := rows.Scan(&symbol, &weight); err != nil {
			return models.Universe{}, unavailable("scan universe member", err)
		}
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		u.Members = append(u.Members, symbol)
		if weight.Valid {
			if u.Weights == nil {
				u.Weights = make(map[string]float64)
			}
			u.Weights[symbol] = weight.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return models.Universe{}, unavailable("iterate universe", err)
	}
	return u, nil
}
