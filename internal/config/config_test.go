package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MYMUSIC_BACKEND", "MYMUSIC_BASE_DIR", "SQLITE_PATH", "DATABASE_URL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"DB_CONNECT_WAIT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadPostgresFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYMUSIC_BASE_DIR", "/srv/library")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "music")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "mymusic")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendPostgres {
		t.Fatalf("expected postgres backend, got %q", cfg.Backend)
	}
	want := "postgres://music:secret@db:5432/mymusic?sslmode=disable"
	if cfg.Database.URL != want {
		t.Fatalf("expected %q, got %q", want, cfg.Database.URL)
	}
	if cfg.Database.ConnectWait != 30*time.Second {
		t.Fatalf("unexpected connect wait %v", cfg.Database.ConnectWait)
	}
	if cfg.FileRoot() != filepath.Join("/srv/library", "music") {
		t.Fatalf("unexpected file root %q", cfg.FileRoot())
	}
}

func TestLoadSQLiteDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYMUSIC_BACKEND", "SQLite")
	t.Setenv("MYMUSIC_BASE_DIR", "/srv/library")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SQLitePath != filepath.Join("/srv/library", "MyMusic.sqlite") {
		t.Fatalf("unexpected sqlite path %q", cfg.SQLitePath)
	}
}

func TestLoadMemoryUsesBaseDirAsFileRoot(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYMUSIC_BACKEND", "memory")
	t.Setenv("MYMUSIC_BASE_DIR", "/tmp/library")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FileRoot() != "/tmp/library" {
		t.Fatalf("unexpected file root %q", cfg.FileRoot())
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("MYMUSIC_BACKEND")
	os.Unsetenv("LOG_LEVEL")
	dir := t.TempDir()
	file := filepath.Join(dir, "local.env")
	if err := os.WriteFile(file, []byte("MYMUSIC_BACKEND=memory\nLOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("MYMUSIC_BASE_DIR", dir)

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendMemory || cfg.Logging.Level != "debug" {
		t.Fatalf("env file not applied: %+v", cfg)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYMUSIC_BACKEND", "oracle")
	t.Setenv("MYMUSIC_BASE_DIR", "/srv/library")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"MYMUSIC_BACKEND", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %q", want, err)
		}
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYMUSIC_BASE_DIR", "/srv/library")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}
