package safehavenservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AFARIMINTAH/Safehaven/internal/config"
)

func TestCalculateStartupHealthTimeout(t *testing.T) {
	assert.Equal(t, 60, calculateStartupHealthTimeout(1))
	assert.Equal(t, 60, calculateStartupHealthTimeout(30))
	assert.Equal(t, 90, calculateStartupHealthTimeout(45))
}

type flipFlag struct{ v atomic.Bool }

func (f *flipFlag) IsHealthy() bool { return f.v.Load() }

func TestWaitUntilHealthy(t *testing.T) {
	cfg := config.NewForTesting()

	f := &flipFlag{}
	go func() {
		time.Sleep(300 * time.Millisecond)
		f.v.Store(true)
	}()
	require.NoError(t, waitUntilHealthy(context.Background(), cfg, f))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := waitUntilHealthy(ctx, cfg, &flipFlag{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewHTTPServer(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.HTTPPort = 4321
	ctx, cancel := context.WithCancel(context.Background())
	srv := newHTTPServer(ctx, cfg, http.NewServeMux())
	assert.Equal(t, ":4321", srv.Addr)
	assert.Greater(t, srv.WriteTimeout, cfg.CompletionTimeout)
	require.NotNil(t, srv.BaseContext)

	reqCtx := srv.BaseContext(nil)
	cancel()
	assert.NoError(t, reqCtx.Err(), "in-flight requests must survive the shutdown signal")
	assert.Greater(t, shutdownTimeout(cfg), cfg.CompletionTimeout)
}

func TestWiring_ServesHealthAndRegister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.NewForTesting()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "svc.db")
	require.NoError(t, cfg.ResolveDefaults())

	deps, err := initDependencies(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.store.Close() })

	svcHealth := startHealthCheckers(ctx, cfg, zerolog.Nop(), deps)
	require.NoError(t, waitUntilHealthy(ctx, cfg, svcHealth), "store is required and local")

	srv := httptest.NewServer(buildRouter(ctx, cfg, zerolog.Nop(), deps, svcHealth))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/user/register", "application/json",
		strings.NewReader(`{"email":"wired@x.com","password":"secret1"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
