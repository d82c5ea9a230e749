package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AFARIMINTAH/Safehaven/internal/config"
)

func TestNewStore_SQLite(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "safehaven.db")

	st, err := NewStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	moods, err := st.Moods().ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, moods)
}

func TestNewStore_UnknownDriverFailsFast(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.DBDriver = "mongo"
	cfg.BootstrapTimeoutSeconds = 10

	start := time.Now()
	_, err := NewStore(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "permanent errors must not be retried")
}

func TestNewStore_PostgresUnreachableGivesUp(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.DBDriver = "postgres"
	cfg.PostgresDSN = "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1"
	cfg.BootstrapTimeoutSeconds = 1

	_, err := NewStore(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}
