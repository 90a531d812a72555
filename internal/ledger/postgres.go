package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/auditflow/auditflow/internal/platform/db"
)

// PostgresSource reads trial balances from PostgreSQL. Each session is one
// pooled connection holding a read-only transaction.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource wraps an initialised pool. The caller owns the pool lifecycle.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// WithSession implements Source.
func (s *PostgresSource) WithSession(ctx context.Context, fn func(Reader) error) error {
	ran := false
	err := db.WithReadOnly(ctx, s.pool, func(tx pgx.Tx) error {
		ran = true
		return fn(pgReader{q: tx})
	})
	if err != nil && !ran {
		return fmt.Errorf("%w: open session: %w", ErrDataSourceUnavailable, err)
	}
	return err
}

// Ping checks connectivity for readiness probes.
func (s *PostgresSource) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrDataSourceUnavailable, err)
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgReader struct {
	q querier
}

func (r pgReader) SumColumn(ctx context.Context, p Period, c Column) (decimal.Decimal, error) {
	t, err := TableFor(p)
	if err != nil {
		return decimal.Zero, err
	}
	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0)::numeric::text FROM %s",
		pgx.Identifier{string(c)}.Sanitize(), pgx.Identifier{t.Name}.Sanitize())
	var raw string
	if err := r.q.QueryRow(ctx, query).Scan(&raw); err != nil {
		return decimal.Zero, fmt.Errorf("%w: sum %s.%s: %w", ErrDataSourceUnavailable, t.Name, c, err)
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger: parse sum %s.%s: %w", t.Name, c, err)
	}
	return total, nil
}

func (r pgReader) DistinctAccountNames(ctx context.Context, p Period) ([]string, error) {
	return r.distinct(ctx, p, "account_name")
}

func (r pgReader) DistinctAccountCodes(ctx context.Context, p Period) ([]string, error) {
	return r.distinct(ctx, p, "gl_account")
}

// distinct keeps first-seen order so repeated calls against the same snapshot agree.
func (r pgReader) distinct(ctx context.Context, p Period, column string) ([]string, error) {
	t, err := TableFor(p)
	if err != nil {
		return nil, err
	}
	col := pgx.Identifier{column}.Sanitize()
	query := fmt.Sprintf("SELECT %[1]s FROM %[2]s WHERE %[1]s IS NOT NULL GROUP BY %[1]s ORDER BY MIN(id)",
		col, pgx.Identifier{t.Name}.Sanitize())
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: distinct %s.%s: %w", ErrDataSourceUnavailable, t.Name, column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: distinct %s.%s: %w", ErrDataSourceUnavailable, t.Name, column, err)
	}
	return values, nil
}

func (r pgReader) Balances(ctx context.Context, p Period) ([]Balance, error) {
	t, err := TableFor(p)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT account_name, COALESCE(balance, 0)::numeric::text FROM %s WHERE account_name IS NOT NULL ORDER BY id",
		pgx.Identifier{t.Name}.Sanitize())
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: balances %s: %w", ErrDataSourceUnavailable, t.Name, err)
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("%w: scan balance %s: %w", ErrDataSourceUnavailable, t.Name, err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("ledger: parse balance %s/%s: %w", t.Name, name, err)
		}
		out = append(out, Balance{AccountName: name, Amount: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: balances %s: %w", ErrDataSourceUnavailable, t.Name, err)
	}
	return out, nil
}
