package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planets/internal/planet/audit"
	"planets/internal/planet/models"
	"planets/internal/planet/store/memory"
	"planets/internal/platform/config"
	"planets/internal/platform/health"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStoreMemory(t *testing.T) {
	s, closeFn, err := openStore(context.Background(), config.Config{Store: config.Store{Driver: config.DriverMemory}}, discard())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memory.InMemory{}, s)
}

func TestOpenStoreSQLiteAppliesMigrations(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{Store: config.Store{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "planets.db"),
		Migrate:    true,
	}}

	s, closeFn, err := openStore(ctx, cfg, discard())
	require.NoError(t, err)
	defer closeFn()

	now := time.Now().UTC()
	created, err := s.Insert(ctx, &models.Planet{Name: "Hoth", Climate: "frozen", Terrain: "tundra", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	got, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hoth", got.Name)
	assert.NoError(t, s.Ping(ctx))
}

func TestOpenAuditPublisherWithoutBrokersLogsOnly(t *testing.T) {
	checker := health.NewChecker(discard(), time.Second)
	pub, closeFn, err := openAuditPublisher(context.Background(), config.Audit{Topic: "planets.audit"}, discard(), checker)
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &audit.LogPublisher{}, pub)
	resp, ok := checker.Check(context.Background())
	assert.True(t, ok)
	assert.Empty(t, resp.Checks)
}
