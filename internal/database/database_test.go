package database

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"stayspot/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestMigrateCreatesSchema(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	assert.NoError(t, Migrate(db))

	for _, table := range []string{"users", "spots", "bookings", "reviews", "images"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// the duplicate-review unique index exists
	assert.True(t, db.Migrator().HasIndex(&models.Review{}, "idx_reviews_user_spot"))

	// migration is idempotent
	assert.NoError(t, Migrate(db))
}

func TestSlogGormLoggerLevels(t *testing.T) {
	base := &slogGormLogger{
		logger: discardLogger(),
		Config: logger.Config{LogLevel: logger.Warn},
	}

	leveled := base.LogMode(logger.Error)
	assert.NotSame(t, base, leveled)

	// none of these should panic at any level
	ctx := context.Background()
	for _, l := range []logger.Interface{base, leveled, base.LogMode(logger.Silent)} {
		l.Info(ctx, "info %d", 1)
		l.Warn(ctx, "warn %d", 2)
		l.Error(ctx, "error %d", 3)
		l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
		l.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT slow", 1 }, nil)
		l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT x", 0 }, gorm.ErrRecordNotFound)
	}
}
