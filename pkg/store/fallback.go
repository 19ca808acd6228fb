package store

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
)

// Fallback returns a Backend that uses primary and switches to secondary for
// any call where primary fails with an error other than ErrNotFound. A value
// missing from primary is looked up in secondary, so writes that landed there
// read back.
func Fallback(primary, secondary Backend, log *zap.Logger) Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &fallbackBackend{primary: primary, secondary: secondary, log: log}
}

type fallbackBackend struct {
	primary   Backend
	secondary Backend
	log       *zap.Logger
}

func (f *fallbackBackend) failed(op, key string, err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	f.log.Warn("primary store failed, using fallback",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err))
	return true
}

func (f *fallbackBackend) Read(key string) ([]byte, error) {
	val, err := f.primary.Read(key)
	switch {
	case errors.Is(err, ErrNotFound):
		val, err = f.secondary.Read(key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			f.log.Warn("fallback store failed", zap.String("op", "read"), zap.String("key", key), zap.Error(err))
			return nil, ErrNotFound
		}
		return val, err
	case f.failed("read", key, err):
		return f.secondary.Read(key)
	}
	return val, err
}

func (f *fallbackBackend) Write(key string, val []byte) error {
	err := f.primary.Write(key, val)
	if f.failed("write", key, err) {
		return f.secondary.Write(key, val)
	}
	return err
}

// Erase removes key from both backends.
func (f *fallbackBackend) Erase(key string) error {
	err := f.primary.Erase(key)
	if f.failed("erase", key, err) {
		return f.secondary.Erase(key)
	}
	if serr := f.secondary.Erase(key); serr != nil && !errors.Is(serr, ErrNotFound) {
		f.log.Warn("fallback store failed", zap.String("op", "erase"), zap.String("key", key), zap.Error(serr))
	}
	return err
}

// Keys merges the keys of both backends.
func (f *fallbackBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := f.primary.Keys(ctx, prefix)
	if f.failed("keys", prefix, err) {
		return f.secondary.Keys(ctx, prefix)
	}
	if err != nil {
		return nil, err
	}
	more, serr := f.secondary.Keys(ctx, prefix)
	if serr != nil {
		f.log.Warn("fallback store failed", zap.String("op", "keys"), zap.String("key", prefix), zap.Error(serr))
		return keys, nil
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for _, k := range more {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch observes the primary backend only.
func (f *fallbackBackend) Watch(ctx context.Context) (<-chan Event, error) {
	if w, ok := f.primary.(Watcher); ok {
		return w.Watch(ctx)
	}
	return nil, ErrWatchUnsupported
}

func (f *fallbackBackend) Close() error {
	return errors.Join(f.primary.Close(), f.secondary.Close())
}
