package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("MAIN_CITY", "")

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "@tcp(localhost:3306)/swipe")
	assert.Equal(t, "Томск", cfg.Matching.MainCity)
	assert.Equal(t, 25, cfg.Matching.FreeLikesPerDay)
	assert.Equal(t, 5, cfg.Matching.SuperLikesPerDay)
	assert.Equal(t, 24*time.Hour, cfg.Matching.ViewWindow)
	assert.Equal(t, int64(30), cfg.RateLimit.PerMinute)
}

func TestNew_PostgresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_HOST", "pg")

	cfg := New()

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "host=pg port=5432")
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("ADMIN_IDS", "890781454, 42,bad")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("VIEW_WINDOW", "12h")
	t.Setenv("FREE_LIKES_PER_DAY", "10")

	cfg := New()

	assert.Equal(t, []int64{890781454, 42}, cfg.Admin.IDs)
	assert.True(t, cfg.IsAdmin(42))
	assert.False(t, cfg.IsAdmin(7))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notify.KafkaBrokers)
	assert.Equal(t, 12*time.Hour, cfg.Matching.ViewWindow)
	assert.Equal(t, 10, cfg.Matching.FreeLikesPerDay)
}
