package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/yungbote/eduhub-backend/internal/services"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envFileVar, "")
	// empty values fall back to defaults
	for _, extra := range bindings {
		for _, name := range extra {
			t.Setenv(name, "")
		}
	}
	t.Chdir(t.TempDir())
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store != StoreMongo || cfg.Mongo.Database != "eduhub_db" || cfg.Mongo.ConnectTimeout != 10*time.Second {
		t.Fatalf("store defaults: store=%s mongo=%+v", cfg.Store, cfg.Mongo)
	}
	if cfg.CounterBackend != CounterStore {
		t.Fatalf("counter backend = %s", cfg.CounterBackend)
	}
	if cfg.Counts != services.DefaultPopulateCounts() {
		t.Fatalf("counts = %+v", cfg.Counts)
	}
	if cfg.OTel.Enabled || cfg.OTel.SampleRatio != 1 {
		t.Fatalf("otel defaults: %+v", cfg.OTel)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("EDUHUB_STORE", "SQL")
	t.Setenv("EDUHUB_SQL_DRIVER", "postgres")
	t.Setenv("EDUHUB_SQL_DSN", "postgres://localhost/eduhub")
	t.Setenv("EDUHUB_COUNTER_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("EDUHUB_SEED", "42")
	t.Setenv("EDUHUB_COUNTS_STUDENTS", "3")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "a=1,b=2")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store != StoreSQL || cfg.SQL.Driver != "postgres" || cfg.SQL.DSN != "postgres://localhost/eduhub" {
		t.Fatalf("sql store: store=%s sql=%+v", cfg.Store, cfg.SQL)
	}
	if cfg.CounterBackend != CounterRedis || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis counter: backend=%s addr=%q", cfg.CounterBackend, cfg.Redis.Addr)
	}
	if cfg.Seed != 42 || cfg.Counts.Students != 3 || cfg.Counts.Instructors != 5 {
		t.Fatalf("seed=%d counts=%+v", cfg.Seed, cfg.Counts)
	}
	if !cfg.OTel.Enabled || !reflect.DeepEqual(cfg.OTel.Headers, map[string]string{"a": "1", "b": "2"}) {
		t.Fatalf("otel: %+v", cfg.OTel)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "eduhub.env")
	if err := os.WriteFile(path, []byte("EDUHUB_MONGO_DATABASE=from_file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(envFileVar, path)
	// godotenv sets process variables; clear it once the test ends.
	t.Setenv("EDUHUB_MONGO_DATABASE", "")
	if err := os.Unsetenv("EDUHUB_MONGO_DATABASE"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil || cfg.Mongo.Database != "from_file" {
		t.Fatalf("LoadConfig: err=%v database=%q", err, cfg.Mongo.Database)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"EDUHUB_STORE": "cassandra"}},
		{"redis without addr", map[string]string{"EDUHUB_COUNTER_BACKEND": "redis"}},
		{"negative count", map[string]string{"EDUHUB_COUNTS_LESSONS": "-1"}},
		{"missing env file", map[string]string{envFileVar: "/nonexistent/eduhub.env"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatal("LoadConfig: expected error")
			}
		})
	}
}
