package store

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	data := "path: " + filepath.Join(dir, "data") + "\nfallback: memory\nmcp:\n  addr: 127.0.0.1:9999\n"
	if err := os.WriteFile(filepath.Join(dir, ".pomo.yaml"), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POMO_CONFIG_PATH", dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BasePath() != filepath.Join(dir, "data") {
		t.Fatalf("unexpected path %q", cfg.BasePath())
	}
	if cfg.Fallback() != FallbackMemory {
		t.Fatalf("unexpected fallback %q", cfg.Fallback())
	}
	if cfg.MCPAddr() != "127.0.0.1:9999" {
		t.Fatalf("unexpected addr %q", cfg.MCPAddr())
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("POMO_CONFIG_PATH", t.TempDir())
	t.Setenv("POMO_FALLBACK", FallbackNone)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Fallback() != FallbackNone {
		t.Fatalf("expected env override, got %q", cfg.Fallback())
	}
}

type testConfig struct {
	path     string
	fallback string
	sqlite   string
}

func (c testConfig) BasePath() string   { return c.path }
func (c testConfig) Fallback() string   { return c.fallback }
func (c testConfig) SQLitePath() string { return c.sqlite }
func (c testConfig) MCPAddr() string    { return "" }

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(testConfig{
		path:     filepath.Join(dir, "data"),
		fallback: FallbackSQLite,
		sqlite:   filepath.Join(dir, "pomo.db"),
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer p.Close()

	if err := p.SaveTasks(nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", rootDir, KeyTasks)); err != nil {
		t.Fatalf("expected tasks on disk: %v", err)
	}
}

func TestLoadFallsBackWhenDiskUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	p, err := Load(testConfig{path: filepath.Join(blocker, "data"), fallback: FallbackMemory}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := p.SaveTasks(nil); err != nil {
		t.Fatalf("save through fallback: %v", err)
	}

	if _, err := Load(testConfig{path: filepath.Join(blocker, "data"), fallback: FallbackNone}, nil); err == nil {
		t.Fatalf("expected an error without any usable backend")
	}
}
