package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Fallback backends selectable with the fallback config key.
const (
	FallbackSQLite = "sqlite"
	FallbackMemory = "memory"
	FallbackNone   = "none"
)

type Config interface {
	BasePath() string
	Fallback() string
	SQLitePath() string
	MCPAddr() string
}

// LoadConfig reads .pomo.yaml from $POMO_CONFIG_PATH, the working directory
// or $HOME. Every key can be overridden with a POMO_ environment variable.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.pomo")
	v.SetDefault("fallback", FallbackSQLite)
	v.SetDefault("sqlite", "~/.pomo.db")
	v.SetDefault("mcp.addr", "127.0.0.1:8765")
	v.SetConfigName(".pomo") // .yaml is implicit
	v.SetEnvPrefix("POMO")
	v.AutomaticEnv()

	if override := os.Getenv("POMO_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	sqlitePath, err := homedir.Expand(v.GetString("sqlite"))
	if err != nil {
		return nil, fmt.Errorf("store: expand sqlite path: %w", err)
	}
	return &fileConfig{
		Path:         path,
		FallbackKind: v.GetString("fallback"),
		SQLite:       sqlitePath,
		Addr:         v.GetString("mcp.addr"),
	}, nil
}

type fileConfig struct {
	Path         string `json:"path"`
	FallbackKind string `json:"fallback"`
	SQLite       string `json:"sqlite"`
	Addr         string `json:"mcpAddr"`
}

func (f *fileConfig) BasePath() string   { return f.Path }
func (f *fileConfig) Fallback() string   { return f.FallbackKind }
func (f *fileConfig) SQLitePath() string { return f.SQLite }
func (f *fileConfig) MCPAddr() string    { return f.Addr }

// Load opens the persistence described by cfg: diskv under BasePath, backed
// by the configured fallback. When diskv itself cannot be opened the
// fallback becomes the only backend. A nil cfg is read with LoadConfig.
func Load(cfg Config, log *zap.Logger) (Persistence, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		var err error
		if cfg, err = LoadConfig(); err != nil {
			return nil, err
		}
	}

	secondary, err := openFallback(cfg)
	if err != nil {
		log.Warn("fallback store unavailable", zap.String("fallback", cfg.Fallback()), zap.Error(err))
		secondary = nil
	}

	primary, err := Diskv(cfg.BasePath(), log)
	switch {
	case err != nil && secondary == nil:
		return nil, err
	case err != nil:
		log.Warn("disk store unavailable, using fallback only",
			zap.String("path", cfg.BasePath()), zap.Error(err))
		return New(secondary), nil
	case secondary == nil:
		return New(primary), nil
	}
	return New(Fallback(primary, secondary, log)), nil
}

func openFallback(cfg Config) (Backend, error) {
	switch cfg.Fallback() {
	case FallbackSQLite, "":
		return SQLite(cfg.SQLitePath())
	case FallbackMemory:
		return Memory(), nil
	case FallbackNone:
		return nil, nil
	}
	return nil, fmt.Errorf("store: unknown fallback %q", cfg.Fallback())
}
