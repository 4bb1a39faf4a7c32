package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Log struct {
	Level     string
	Format    string
	Component string
	Source    bool
	// SQL enables gorm query logging.
	SQL bool
}

type Config struct {
	App struct {
		ENV string
	}

	Log Log

	DB struct {
		Driver   string
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	GRPC struct {
		Host string
		Port string
	}

	Metrics struct {
		Addr string
	}

	Matching Matching

	RateLimit struct {
		PerMinute int64
		PerHour   int64
	}

	Admin struct {
		IDs     []int64
		KeyHash string
	}

	Notify struct {
		Cooldown     time.Duration
		Workers      int
		KafkaBrokers []string
		KafkaTopic   string
	}

	Backup struct {
		Enabled        bool
		Dir            string
		MinInterval    time.Duration
		Keep           int
		MinioEndpoint  string
		MinioAccessKey string
		MinioSecretKey string
		MinioBucket    string
		MinioUseSSL    bool
	}

	Scheduler struct {
		MaintenanceInterval time.Duration
		NotifyInterval      time.Duration
		BackupInterval      time.Duration
	}
}

// Matching holds the product constants of candidate selection and quotas.
type Matching struct {
	MainCity            string
	DefaultRadiusKm     float64
	PremiumRadiusKm     float64
	CandidateLimit      int
	ViewWindow          time.Duration
	FreeLikesPerDay     int
	PremiumLikesPerDay  int
	SuperLikesPerDay    int
	PremiumSuperLikeX   int
	LikeTrustBonus      int
	MatchTrustBonus     int
	InitialTrustScore   int
	MinAge              int
	PremiumDuration     time.Duration
	ReferralCodeLength  int
	NotificationListCap int
}

// DefaultMatching returns the production defaults of the matching rules.
func DefaultMatching() Matching {
	return Matching{
		MainCity:            "Томск",
		DefaultRadiusKm:     50,
		PremiumRadiusKm:     200,
		CandidateLimit:      50,
		ViewWindow:          24 * time.Hour,
		FreeLikesPerDay:     25,
		PremiumLikesPerDay:  999999,
		SuperLikesPerDay:    5,
		PremiumSuperLikeX:   3,
		LikeTrustBonus:      1,
		MatchTrustBonus:     5,
		InitialTrustScore:   50,
		MinAge:              16,
		PremiumDuration:     7 * 24 * time.Hour,
		ReferralCodeLength:  8,
		NotificationListCap: 100,
	}
}

func New() *Config {
	// .env is optional; real environment always wins.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "production")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "matchmaking")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))
	cfg.Log.SQL = isTruthy(os.Getenv("LOG_SQL"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.DSN = os.Getenv("DB_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "swipe")

		switch cfg.DB.Driver {
		case "postgres":
			cfg.DB.Port = getEnvDefault("DB_PORT", "5432")
			cfg.DB.DSN = fmt.Sprintf(
				"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
				cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name,
			)
		case "sqlite":
			cfg.DB.DSN = getEnvDefault("SQLITE_PATH", "data/swipe.db")
		default:
			cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
			cfg.DB.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
			)
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getIntDefault("REDIS_DB", 0)

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	cfg.Metrics.Addr = getEnvDefault("METRICS_ADDR", ":9090")

	// Matching rules
	m := DefaultMatching()
	m.MainCity = getEnvDefault("MAIN_CITY", m.MainCity)
	m.DefaultRadiusKm = getFloatDefault("DEFAULT_SEARCH_RADIUS", m.DefaultRadiusKm)
	m.PremiumRadiusKm = getFloatDefault("PREMIUM_SEARCH_RADIUS", m.PremiumRadiusKm)
	m.CandidateLimit = getIntDefault("CANDIDATE_LIMIT", m.CandidateLimit)
	m.ViewWindow = getDurationDefault("VIEW_WINDOW", m.ViewWindow)
	m.FreeLikesPerDay = getIntDefault("FREE_LIKES_PER_DAY", m.FreeLikesPerDay)
	m.SuperLikesPerDay = getIntDefault("SUPER_LIKES_PER_DAY", m.SuperLikesPerDay)
	m.MinAge = getIntDefault("MIN_AGE", m.MinAge)
	m.PremiumDuration = getDurationDefault("PREMIUM_DURATION", m.PremiumDuration)
	cfg.Matching = m

	cfg.RateLimit.PerMinute = int64(getIntDefault("RATE_LIMIT_PER_MINUTE", 30))
	cfg.RateLimit.PerHour = int64(getIntDefault("RATE_LIMIT_PER_HOUR", 200))

	cfg.Admin.IDs = parseIDs(os.Getenv("ADMIN_IDS"))
	cfg.Admin.KeyHash = os.Getenv("ADMIN_KEY_HASH")

	// Notifications
	cfg.Notify.Cooldown = getDurationDefault("NOTIFICATION_COOLDOWN", 8*time.Hour)
	cfg.Notify.Workers = getIntDefault("NOTIFICATION_WORKERS", 8)
	cfg.Notify.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.Notify.KafkaTopic = getEnvDefault("KAFKA_TOPIC", "swipe.notifications")

	// Backups
	cfg.Backup.Enabled = isTruthy(getEnvDefault("BACKUP_ENABLED", "true"))
	cfg.Backup.Dir = getEnvDefault("BACKUP_DIR", "data/backups")
	cfg.Backup.MinInterval = getDurationDefault("BACKUP_MIN_INTERVAL", 23*time.Hour)
	cfg.Backup.Keep = getIntDefault("BACKUP_KEEP", 3)
	cfg.Backup.MinioEndpoint = os.Getenv("BACKUP_MINIO_ENDPOINT")
	cfg.Backup.MinioAccessKey = os.Getenv("BACKUP_MINIO_ACCESS_KEY")
	cfg.Backup.MinioSecretKey = os.Getenv("BACKUP_MINIO_SECRET_KEY")
	cfg.Backup.MinioBucket = getEnvDefault("BACKUP_MINIO_BUCKET", "swipe-backups")
	cfg.Backup.MinioUseSSL = isTruthy(os.Getenv("BACKUP_MINIO_USE_SSL"))

	// Scheduler
	cfg.Scheduler.MaintenanceInterval = getDurationDefault("MAINTENANCE_INTERVAL", 5*time.Minute)
	cfg.Scheduler.NotifyInterval = getDurationDefault("NOTIFY_INTERVAL", time.Minute)
	cfg.Scheduler.BackupInterval = getDurationDefault("BACKUP_INTERVAL", time.Hour)

	return cfg
}

// IsAdmin reports whether the telegram id belongs to the admin list.
func (c *Config) IsAdmin(id int64) bool {
	for _, a := range c.Admin.IDs {
		if a == id {
			return true
		}
	}
	return false
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getIntDefault(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloatDefault(k string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDurationDefault(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIDs(v string) []int64 {
	var ids []int64
	for _, part := range splitList(v) {
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
