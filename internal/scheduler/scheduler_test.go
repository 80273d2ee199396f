package scheduler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopReminder struct{}

func (noopReminder) Run(ctx context.Context) error { return nil }

func testConfig(lockFile string) *config.Configuration {
	cfg := config.GetDefaultConfig()
	cfg.Scheduler.Enabled = true
	cfg.Scheduler.CronSpec = "@hourly"
	cfg.Scheduler.LockFile = lockFile
	return cfg
}

func TestSchedulerAcquiresLock(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "scheduler.lock"))
	s := New(cfg, noopReminder{}, logger.NewNopLogger())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.acquired)

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, s.acquired)
}

func TestSecondInstanceStandsDown(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "scheduler.lock"))
	log := logger.NewNopLogger()

	first := New(cfg, noopReminder{}, log)
	require.NoError(t, first.Start(context.Background()))
	require.True(t, first.acquired)

	// Standing down is not an error, the loser keeps serving requests
	second := New(cfg, noopReminder{}, log)
	require.NoError(t, second.Start(context.Background()))
	assert.False(t, second.acquired)

	require.NoError(t, first.Stop(context.Background()))

	// With the lock released, a new instance can take over
	third := New(cfg, noopReminder{}, log)
	require.NoError(t, third.Start(context.Background()))
	assert.True(t, third.acquired)
	require.NoError(t, third.Stop(context.Background()))
	require.NoError(t, second.Stop(context.Background()))
}

func TestDisabledSchedulerNeverLocks(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "scheduler.lock"))
	cfg.Scheduler.Enabled = false

	s := New(cfg, noopReminder{}, logger.NewNopLogger())
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.acquired)
	require.NoError(t, s.Stop(context.Background()))
}
