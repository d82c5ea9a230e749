package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/AFARIMINTAH/Safehaven/internal/config"
	storepkg "github.com/AFARIMINTAH/Safehaven/internal/store"
	storepg "github.com/AFARIMINTAH/Safehaven/internal/store/postgres"
	storesqlite "github.com/AFARIMINTAH/Safehaven/internal/store/sqlite"
)

// NewStore returns the store.Store selected by cfg.DBDriver.
// Opening is retried with exponential backoff until the bootstrap timeout elapses,
// so a database container that is still starting does not fail the service.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	bootstrapTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
	if bootstrapTimeout <= 0 {
		bootstrapTimeout = 5 * time.Second
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.Multiplier = 2
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = bootstrapTimeout

	var st storepkg.Store
	attempt := 0
	op := func() error {
		attempt++
		var err error
		st, err = openStore(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Str("driver", cfg.DBDriver).Int("attempt", attempt).Msg("store open failed")
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(exp, ctx)); err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}
	log.Info().Str("driver", cfg.DBDriver).Int("attempts", attempt).Msg("store ready")
	return st, nil
}

func openStore(ctx context.Context, cfg *config.Config) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return storesqlite.New(ctx, cfg.SQLitePath)
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, backoff.Permanent(fmt.Errorf("SAFEHAVEN_POSTGRES_DSN is required when DB_DRIVER=postgres"))
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := storepg.Bootstrap(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return storepg.NewWithDB(db), nil
	default:
		return nil, backoff.Permanent(fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver))
	}
}
