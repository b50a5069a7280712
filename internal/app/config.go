package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yungbote/eduhub-backend/internal/data/repos/mongorepo"
	"github.com/yungbote/eduhub-backend/internal/data/repos/sqlrepo"
	"github.com/yungbote/eduhub-backend/internal/observability"
	"github.com/yungbote/eduhub-backend/internal/platform/redis"
	"github.com/yungbote/eduhub-backend/internal/services"
)

const (
	StoreMongo = mongorepo.Backend
	StoreSQL   = sqlrepo.Backend

	CounterStore = "store"
	CounterRedis = "redis"

	envPrefix  = "EDUHUB"
	envFileVar = "EDUHUB_ENV_FILE"
)

type Config struct {
	Store          string
	Mongo          mongorepo.Config
	SQL            sqlrepo.Config
	CounterBackend string
	Redis          redis.Config
	Seed           uint64
	Counts         services.PopulateCounts
	LogMode        string
	OTel           observability.OtelConfig
	// OpTimeout bounds one command run; zero means no deadline.
	OpTimeout   time.Duration
	MetricsFile string
}

// bindings maps config keys to extra, unprefixed variable names that are
// honoured alongside EDUHUB_<KEY>.
var bindings = map[string][]string{
	"redis.addr":     {"REDIS_ADDR"},
	"redis.password": {"REDIS_PASSWORD"},
	"log.mode":       {"LOG_MODE"},
	"otel.enabled":   {"OTEL_ENABLED"},
	"otel.service":   {"OTEL_SERVICE_NAME"},
	"otel.endpoint":  {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	"otel.headers":   {"OTEL_EXPORTER_OTLP_HEADERS"},
	"otel.insecure":  {"OTEL_EXPORTER_OTLP_INSECURE"},
	"otel.ratio":     {"OTEL_TRACES_SAMPLER_RATIO"},
	"otel.stdout":    {"OTEL_TRACES_STDOUT"},
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	defaults := services.DefaultPopulateCounts()
	v.SetDefault("store", StoreMongo)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", mongorepo.DefaultDatabase)
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("sql.driver", sqlrepo.DriverSQLite)
	v.SetDefault("sql.dsn", "eduhub.db")
	v.SetDefault("sql.slow", 500*time.Millisecond)
	v.SetDefault("counter.backend", CounterStore)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", redis.DefaultKeyPrefix)
	v.SetDefault("seed", uint64(0))
	v.SetDefault("counts.students", defaults.Students)
	v.SetDefault("counts.instructors", defaults.Instructors)
	v.SetDefault("counts.courses", defaults.Courses)
	v.SetDefault("counts.lessons", defaults.Lessons)
	v.SetDefault("counts.assignments", defaults.Assignments)
	v.SetDefault("counts.enrollments", defaults.Enrollments)
	v.SetDefault("counts.submissions", defaults.Submissions)
	v.SetDefault("log.mode", "development")
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service", "eduhub")
	v.SetDefault("otel.environment", "dev")
	v.SetDefault("otel.version", "")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.headers", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.ratio", 1.0)
	v.SetDefault("otel.stdout", false)
	v.SetDefault("timeout", 5*time.Minute)
	v.SetDefault("metrics.file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, extra := range bindings {
		names := append([]string{envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, extra...)
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return v
}

// loadEnvFile loads EDUHUB_ENV_FILE, or .env when unset. A missing file is
// fine; variables already in the environment win.
func loadEnvFile() error {
	path := strings.TrimSpace(os.Getenv(envFileVar))
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("config env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config godotenv(%s): %w", path, err)
	}
	return nil
}

func LoadConfig() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}
	v := newViper()

	cfg := Config{
		Store: strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		Mongo: mongorepo.Config{
			URI:            v.GetString("mongo.uri"),
			Database:       v.GetString("mongo.database"),
			ConnectTimeout: v.GetDuration("mongo.timeout"),
		},
		SQL: sqlrepo.Config{
			Driver:        v.GetString("sql.driver"),
			DSN:           v.GetString("sql.dsn"),
			SlowThreshold: v.GetDuration("sql.slow"),
		},
		CounterBackend: strings.ToLower(strings.TrimSpace(v.GetString("counter.backend"))),
		Redis: redis.Config{
			Addr:      v.GetString("redis.addr"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.prefix"),
		},
		Seed: v.GetUint64("seed"),
		Counts: services.PopulateCounts{
			Students:    v.GetInt("counts.students"),
			Instructors: v.GetInt("counts.instructors"),
			Courses:     v.GetInt("counts.courses"),
			Lessons:     v.GetInt("counts.lessons"),
			Assignments: v.GetInt("counts.assignments"),
			Enrollments: v.GetInt("counts.enrollments"),
			Submissions: v.GetInt("counts.submissions"),
		},
		LogMode: v.GetString("log.mode"),
		OTel: observability.OtelConfig{
			Enabled:     v.GetBool("otel.enabled"),
			ServiceName: v.GetString("otel.service"),
			Environment: v.GetString("otel.environment"),
			Version:     v.GetString("otel.version"),
			SampleRatio: v.GetFloat64("otel.ratio"),
			Endpoint:    v.GetString("otel.endpoint"),
			Headers:     observability.ParseHeaders(v.GetString("otel.headers")),
			Insecure:    v.GetBool("otel.insecure"),
			Stdout:      v.GetBool("otel.stdout"),
		},
		OpTimeout:   v.GetDuration("timeout"),
		MetricsFile: v.GetString("metrics.file"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMongo, StoreSQL:
	default:
		return fmt.Errorf("config: unknown store %q (want %s or %s)", c.Store, StoreMongo, StoreSQL)
	}
	switch c.CounterBackend {
	case CounterStore:
	case CounterRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("config: counter backend redis needs REDIS_ADDR")
		}
	default:
		return fmt.Errorf("config: unknown counter backend %q", c.CounterBackend)
	}
	for name, n := range map[string]int{
		"students": c.Counts.Students, "instructors": c.Counts.Instructors, "courses": c.Counts.Courses,
		"lessons": c.Counts.Lessons, "assignments": c.Counts.Assignments,
		"enrollments": c.Counts.Enrollments, "submissions": c.Counts.Submissions,
	} {
		if n < 0 {
			return fmt.Errorf("config: %s count must not be negative", name)
		}
	}
	return nil
}
