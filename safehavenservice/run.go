package safehavenservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/AFARIMINTAH/Safehaven/internal/api"
	"github.com/AFARIMINTAH/Safehaven/internal/api/middleware"
	"github.com/AFARIMINTAH/Safehaven/internal/auth"
	"github.com/AFARIMINTAH/Safehaven/internal/chat"
	"github.com/AFARIMINTAH/Safehaven/internal/completion"
	"github.com/AFARIMINTAH/Safehaven/internal/config"
	"github.com/AFARIMINTAH/Safehaven/internal/factory"
	"github.com/AFARIMINTAH/Safehaven/internal/health"
	"github.com/AFARIMINTAH/Safehaven/internal/logger"
	"github.com/AFARIMINTAH/Safehaven/internal/persona"
	"github.com/AFARIMINTAH/Safehaven/internal/services"
	"github.com/AFARIMINTAH/Safehaven/internal/store"
)

// Run starts the SafeHaven HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("safehaven-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	logger.SetLevel(cfg.LogLevel)
	zlog.Logger = log

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("completion_base_url", cfg.CompletionBaseURL).
		Str("completion_model", cfg.CompletionModel).
		Msg("SafeHaven service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.store.Close(); err != nil {
			log.Error().Err(err).Msg("store close failed")
		}
	}()

	// Start health checkers before building the router so /api/health reports them
	svcHealth := startHealthCheckers(ctx, cfg, log, deps)
	router := buildRouter(ctx, cfg, log, deps, svcHealth)

	// Block startup until required dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

type dependencies struct {
	store      store.Store
	persona    *persona.Persona
	completion *completion.Client
}

// initDependencies constructs required components and enforces fail-fast on missing deps.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	p, err := persona.Load(cfg.PersonaPath)
	if err != nil {
		log.Error().Stack().Err(err).Str("path", cfg.PersonaPath).Msg("Persona unavailable")
		return nil, err
	}

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}

	if cfg.CompletionAPIKey == "" {
		log.Warn().Msg("SAFEHAVEN_COMPLETION_API_KEY not set; chat requests will fail upstream")
	}
	cc := completion.New(completion.Options{
		BaseURL:     cfg.CompletionBaseURL,
		APIKey:      cfg.CompletionAPIKey,
		Model:       cfg.CompletionModel,
		Temperature: cfg.CompletionTemperature,
		Timeout:     cfg.CompletionTimeout,
	})
	return &dependencies{store: st, persona: p, completion: cc}, nil
}

// buildRouter wires services into the HTTP router.
func buildRouter(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps *dependencies, reporter api.HealthReporter) http.Handler {
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	mgr := chat.NewManager(deps.persona, deps.completion, chat.Options{
		MaxMessages: cfg.SessionMaxMessages,
		Capacity:    cfg.SessionCapacity,
		TTL:         cfg.SessionTTL,
	}, log)

	limiter := middleware.NewRateLimiter(cfg.ChatRatePerSecond, cfg.ChatRateBurst, log)
	go limiter.StartCleanup(ctx, time.Minute)

	return api.NewRouter(api.Deps{
		Auth:            services.NewAuthService(deps.store, hasher, tokens),
		Moods:           services.NewMoodService(deps.store, deps.persona),
		Journal:         services.NewJournalService(deps.store, mgr),
		Referrals:       services.NewReferralService(deps.persona, mgr),
		Chat:            mgr,
		Health:          reporter,
		Limiter:         limiter,
		LegacyOpenMoods: cfg.LegacyOpenMoods,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		Log:             log,
	})
}

// startHealthCheckers starts component checkers and the service-level aggregator.
// The completion API is reported but optional so an upstream outage does not mark the service down.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps *dependencies) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewHealthChecker(deps.store, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	completionChecker := health.NewPingChecker("completion", deps.completion, log, probeTimeout)
	go completionChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker, completionChecker).WithOptional("completion")
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.CompletionTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
		// Requests outlive the signal; Shutdown drains them.
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
}

// shutdownTimeout leaves room for an in-flight completion call to finish.
func shutdownTimeout(cfg *config.Config) time.Duration {
	return cfg.CompletionTimeout + 5*time.Second
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

type healthFlag interface{ IsHealthy() bool }

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth healthFlag) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
