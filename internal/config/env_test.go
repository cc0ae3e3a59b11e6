package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("ROCKS_TEST_INT", "42")
	t.Setenv("ROCKS_TEST_BAD", "forty")
	t.Setenv("ROCKS_TEST_FLOAT", "0.25")
	t.Setenv("ROCKS_TEST_BOOL", "true")
	t.Setenv("ROCKS_TEST_DUR", "150ms")
	t.Setenv("ROCKS_TEST_SEED", "9007199254740993")
	t.Setenv("ROCKS_TEST_BLANK", "  ")

	if got := GetEnvInt("ROCKS_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d, want 42", got)
	}
	if got := GetEnvInt("ROCKS_TEST_BAD", 7); got != 7 {
		t.Errorf("malformed int should fall back, got %d", got)
	}
	if got := GetEnvInt("ROCKS_TEST_BLANK", 3); got != 3 {
		t.Errorf("blank int should fall back, got %d", got)
	}
	if got := GetEnvFloat("ROCKS_TEST_FLOAT", 1); got != 0.25 {
		t.Errorf("GetEnvFloat = %v", got)
	}
	if got := GetEnvBool("ROCKS_TEST_BOOL", false); !got {
		t.Error("GetEnvBool = false")
	}
	if got := GetEnvDuration("ROCKS_TEST_DUR", time.Second); got != 150*time.Millisecond {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnvInt64("ROCKS_TEST_SEED", 0); got != 9007199254740993 {
		t.Errorf("GetEnvInt64 = %d", got)
	}
	if got := GetEnv("ROCKS_TEST_UNSET_KEY", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("ROCKS_DOTENV_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ROCKS_DOTENV_VALUE", "")
	os.Unsetenv("ROCKS_DOTENV_VALUE")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := GetEnv("ROCKS_DOTENV_VALUE", ""); got != "from-file" {
		t.Errorf("value = %q, want from-file", got)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv("ROCKS_LOG_LEVEL", "debug")
	var buf bytes.Buffer
	logger := newLogger(&buf, "test")
	logger.Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("debug line missing: %q", buf.String())
	}

	t.Setenv("ROCKS_LOG_LEVEL", "bogus")
	buf.Reset()
	logger = newLogger(&buf, "test")
	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}
