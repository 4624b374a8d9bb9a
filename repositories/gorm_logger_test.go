package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"

	"rentals-api/domain"
)

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := OpenDatabase("sqlite", "file:gorm_logger_not_found?mode=memory&cache=shared", zap.New(core))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	logs.TakeAll()

	_, err = NewUserRepository(db).GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())

	err = db.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	failed := logs.FilterMessage("Query failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "gorm", failed[0].LoggerName)
	assert.Contains(t, failed[0].ContextMap()["sql"], "no_such_table")
}

func TestGormLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := newGormLogger(zap.New(core))
	ctx := context.Background()
	rows := func() (string, int64) { return "SELECT 1", 1 }

	base.Info(ctx, "hidden %d", 1)
	base.Warn(ctx, "shown %d", 2)
	base.Trace(ctx, time.Now(), rows, nil)
	base.Trace(ctx, time.Now().Add(-time.Second), rows, nil)

	entries := logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, "shown 2", entries[0].Message)
	assert.Equal(t, "Slow query", entries[1].Message)

	verbose := base.LogMode(gormlogger.Info)
	verbose.Trace(ctx, time.Now(), rows, nil)
	require.Equal(t, 1, logs.FilterMessage("Query").Len())

	silent := base.LogMode(gormlogger.Silent)
	silent.Trace(ctx, time.Now(), rows, assert.AnError)
	silent.Error(ctx, "quiet")
	assert.Equal(t, 1, logs.Len())
}
