package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp assembles an app in memory mode, isolated from any host
// environment or config file.
func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("CARDBINDER_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("CARDBINDER_DATABASE_DSN", "")
	t.Setenv("CARDBINDER_USER", "")
	t.Setenv("LOG_LEVEL", "info")

	a, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestUserIDReadsLiveConfig(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	_, err := a.UserID(ctx)
	require.Error(t, err, "no user configured yet")

	// The root command writes the --user flag into config after assembly;
	// the resolver must see it.
	a.Config().UserID = "ash"

	got, err := a.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ash", got)
}

func TestEnableVerbose(t *testing.T) {
	a := newTestApp(t)

	require.NotEqual(t, zerolog.DebugLevel, a.Logger().GetLevel())
	a.EnableVerbose()
	assert.Equal(t, zerolog.DebugLevel, a.Logger().GetLevel())
}
