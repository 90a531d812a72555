package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/auditflow/auditflow/internal/ledger"
	"github.com/auditflow/auditflow/internal/platform/db"
)

// LedgerSource is a ledger source that can also be probed for readiness.
type LedgerSource interface {
	ledger.Source
	Pinger
}

// OpenLedger selects the trial balance backend. A fixture file wins over the
// database so local runs need no Postgres. The returned func releases resources.
func OpenLedger(ctx context.Context, cfg *Config, logger *slog.Logger) (LedgerSource, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LedgerFixture != "" {
		src, err := ledger.LoadFixture(cfg.LedgerFixture)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("serving ledger from fixture", slog.String("path", cfg.LedgerFixture))
		return src, func() {}, nil
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("app: open ledger: no database url configured")
	}
	pool, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return ledger.NewPostgresSource(pool), pool.Close, nil
}
