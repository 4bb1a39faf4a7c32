package app

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-core/internal/cache"
	"github.com/oggyb/swipe-core/internal/config"
)

// AppContext holds shared dependencies (config, DB, Redis, logger, clock).
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	// Now is the single time source of the service; always UTC.
	Now func() time.Time
}

// New creates a new AppContext using the wall clock.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}
