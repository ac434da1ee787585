package database

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BaSui01/agentflow-nodes/config"
)

// =============================================================================
// 🧪 PoolManager 测试
// =============================================================================

func setupTestDB(t *testing.T) (sqlmock.Sqlmock, *gorm.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return mock, gormDB
}

type fakeStats struct {
	mu    sync.Mutex
	calls int
	name  string
}

func (f *fakeStats) RecordDBConnections(database string, open, idle int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.name = database
}

func (f *fakeStats) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func noHealthCheck() PoolConfig {
	cfg := DefaultPoolConfig()
	cfg.HealthCheckInterval = 0
	return cfg
}

func TestNewPoolManager(t *testing.T) {
	_, gormDB := setupTestDB(t)

	manager, err := NewPoolManager(gormDB, "credentials", noHealthCheck(), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Same(t, gormDB, manager.DB())
	assert.Equal(t, 10, manager.Stats().MaxOpenConnections)
}

func TestNewPoolManager_NilDB(t *testing.T) {
	_, err := NewPoolManager(nil, "credentials", DefaultPoolConfig(), nil, nil)
	assert.Error(t, err)
}

func TestPoolManager_Ping(t *testing.T) {
	mock, gormDB := setupTestDB(t)
	manager, err := NewPoolManager(gormDB, "credentials", noHealthCheck(), nil, zap.NewNop())
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, manager.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)
	assert.Error(t, manager.Ping(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolManager_HealthCheckReportsStats(t *testing.T) {
	mock, gormDB := setupTestDB(t)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 20; i++ {
		mock.ExpectPing()
	}
	mock.ExpectClose()

	cfg := noHealthCheck()
	cfg.HealthCheckInterval = 10 * time.Millisecond
	rec := &fakeStats{}

	manager, err := NewPoolManager(gormDB, "credentials", cfg, rec, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return rec.count() > 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, manager.Close())
	assert.Equal(t, "credentials", rec.name)
}

func TestPoolManager_WithTransaction(t *testing.T) {
	mock, gormDB := setupTestDB(t)
	manager, err := NewPoolManager(gormDB, "credentials", noHealthCheck(), nil, zap.NewNop())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = manager.WithTransaction(context.Background(), func(tx *gorm.DB) error { return nil })
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = manager.WithTransaction(context.Background(), func(tx *gorm.DB) error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolManager_Close(t *testing.T) {
	mock, gormDB := setupTestDB(t)
	manager, err := NewPoolManager(gormDB, "credentials", noHealthCheck(), nil, zap.NewNop())
	require.NoError(t, err)

	mock.ExpectClose()
	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())

	assert.Error(t, manager.Ping(context.Background()))
	assert.Error(t, manager.WithTransaction(context.Background(), func(tx *gorm.DB) error { return nil }))
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		cfg := config.DefaultDatabaseConfig()
		cfg.Driver = driver
		d, err := Dialector(cfg)
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	cfg := config.DefaultDatabaseConfig()
	cfg.Driver = "oracle"
	_, err := Dialector(cfg)
	assert.Error(t, err)

	cfg.Driver = ""
	_, err = Dialector(cfg)
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DefaultDatabaseConfig()
	cfg.Name = ":memory:"

	db, err := Open(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	manager, err := NewPoolManager(db, "credentials", PoolConfigFrom(cfg), nil, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	assert.NoError(t, manager.Ping(context.Background()))
}

func TestPoolConfigFrom(t *testing.T) {
	cfg := config.DatabaseConfig{MaxOpenConns: 7, ConnMaxLifetime: time.Minute}
	pc := PoolConfigFrom(cfg)

	assert.Equal(t, 7, pc.MaxOpenConns)
	assert.Equal(t, DefaultPoolConfig().MaxIdleConns, pc.MaxIdleConns)
	assert.Equal(t, time.Minute, pc.ConnMaxLifetime)
}
