package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"
)

const (
	// rootDir holds keys without a slash so every file lives in a directory.
	rootDir = "_"
	tempDir = ".tmp"
)

// Diskv returns a Backend storing one file per key under basePath. log
// receives watch failures and may be nil.
func Diskv(basePath string, log *zap.Logger) (Backend, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(filepath.Join(basePath, tempDir), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &diskvBackend{
		basePath: basePath,
		log:      log,
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			TempDir:           filepath.Join(basePath, tempDir),
			// Other processes write the same files; an in-process cache
			// would hide their changes.
			CacheSizeMax: 0,
		}),
	}, nil
}

type diskvBackend struct {
	d        *diskv.Diskv
	basePath string
	log      *zap.Logger
}

func (b *diskvBackend) Read(key string) ([]byte, error) {
	val, err := b.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return val, nil
}

func (b *diskvBackend) Write(key string, val []byte) error {
	if err := b.d.Write(key, val); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (b *diskvBackend) Erase(key string) error {
	if err := b.d.Erase(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func (b *diskvBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range b.d.Keys(ctx.Done()) {
		if strings.HasPrefix(key, tempDir) {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *diskvBackend) Close() error { return nil }

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	if len(parts) == 1 {
		return &diskv.PathKey{Path: []string{rootDir}, FileName: key}
	}
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	var parts []string
	for _, p := range pathKey.Path {
		if p == "" || p == "." {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 1 && parts[0] == rootDir {
		return pathKey.FileName
	}
	return strings.Join(append(parts, pathKey.FileName), "/")
}

// keyForPath maps a file below basePath back to its key, or "" when the path
// is not a stored value.
func keyForPath(basePath, path string) string {
	rel, err := filepath.Rel(basePath, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if parts[0] == tempDir || len(parts) < 2 {
		return ""
	}
	return pathToKeyTransform(&diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	})
}
