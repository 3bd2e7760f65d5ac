package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Gateway hands out store sessions from the shared pool, optionally scoped
// to a caller's JWT claims so Supabase row-level-security policies evaluate
// as that user. The pool is created once at startup and reused; scoping is
// per-transaction via SET LOCAL, never a new connection.
type Gateway struct {
	pool *pgxpool.Pool
}

func NewGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{pool: pool}
}

// Pool exposes the underlying pool for plain (service-role) reads.
func (g *Gateway) Pool() *pgxpool.Pool {
	return g.pool
}

// WithClaims runs fn inside a transaction. When claims is a non-empty JSON
// object it is installed as request.jwt.claims for the duration of the
// transaction, mirroring what PostgREST does for authenticated requests.
// A failure inside fn rolls the whole transaction back.
func (g *Gateway) WithClaims(ctx context.Context, claims string, fn func(pgx.Tx) error) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if claims != "" {
		if _, err := tx.Exec(ctx, `SELECT set_config('request.jwt.claims', $1, true)`, claims); err != nil {
			return err
		}
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
