package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/AFARIMINTAH/Safehaven/internal/health"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
)

// lookupPinger probes drivers without HealthPing: a lookup of an unknown id must come back NotFound.
type lookupPinger struct{ store Store }

func (p lookupPinger) HealthPing(ctx context.Context) error {
	_, err := p.store.Users().GetByID(ctx, "__health_check__")
	if err != nil && !model.IsNotFoundError(err) {
		return err
	}
	return nil
}

// NewHealthChecker returns the "store" checker, preferring the driver's own HealthPing.
func NewHealthChecker(s Store, log zerolog.Logger, probeTimeout time.Duration) *health.PingChecker {
	p, ok := s.(health.HealthPinger)
	if !ok {
		p = lookupPinger{store: s}
	}
	return health.NewPingChecker("store", p, log, probeTimeout)
}
