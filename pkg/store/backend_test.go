package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"tableflip.dev/pomo/pkg/task"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	d, err := Diskv(t.TempDir(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}
	s, err := SQLite(filepath.Join(t.TempDir(), "pomo.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return map[string]Backend{
		"diskv":  d,
		"sqlite": s,
		"memory": Memory(),
	}
}

func TestBackends(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := b.Read("tasks"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			for key, val := range map[string]string{
				"tasks":                 `[]`,
				"dayPlans/2025-03-03":   `{"date":"2025-03-03"}`,
				"dayPlans/2025-03-04":   `{"date":"2025-03-04"}`,
				"statistics/2025-03-03": `{}`,
			} {
				if err := b.Write(key, []byte(val)); err != nil {
					t.Fatalf("write %s: %v", key, err)
				}
			}
			if err := b.Write("tasks", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}

			got, err := b.Read("tasks")
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != `[{"id":"a"}]` {
				t.Fatalf("unexpected value %s", got)
			}

			keys, err := b.Keys(ctx, "dayPlans/")
			if err != nil {
				t.Fatalf("keys: %v", err)
			}
			if diff := cmp.Diff([]string{"dayPlans/2025-03-03", "dayPlans/2025-03-04"}, keys); diff != "" {
				t.Fatalf("unexpected keys (-want +got):\n%s", diff)
			}
			all, _ := b.Keys(ctx, "")
			if len(all) != 4 {
				t.Fatalf("expected 4 keys, got %v", all)
			}

			if err := b.Erase("dayPlans/2025-03-03"); err != nil {
				t.Fatalf("erase: %v", err)
			}
			if err := b.Erase("dayPlans/2025-03-03"); err != nil {
				t.Fatalf("erasing a missing key should succeed: %v", err)
			}
			if _, err := b.Read("dayPlans/2025-03-03"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after erase, got %v", err)
			}
		})
	}
}

func TestKeyTransform(t *testing.T) {
	for _, key := range []string{"tasks", "dayPlans/2025-03-03"} {
		if got := pathToKeyTransform(keyToPathTransform(key)); got != key {
			t.Fatalf("round trip of %q gave %q", key, got)
		}
	}
	base := "/var/pomo"
	if got := keyForPath(base, filepath.Join(base, rootDir, "tasks")); got != "tasks" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := keyForPath(base, filepath.Join(base, tempDir, "123")); got != "" {
		t.Fatalf("temp files should map to no key, got %q", got)
	}
}

type brokenBackend struct{}

var errBroken = errors.New("disk on fire")

func (brokenBackend) Read(string) ([]byte, error)                    { return nil, errBroken }
func (brokenBackend) Write(string, []byte) error                     { return errBroken }
func (brokenBackend) Erase(string) error                             { return errBroken }
func (brokenBackend) Keys(context.Context, string) ([]string, error) { return nil, errBroken }
func (brokenBackend) Close() error                                   { return nil }

func TestFallbackUsesSecondaryOnFailure(t *testing.T) {
	secondary := Memory()
	f := Fallback(brokenBackend{}, secondary, zaptest.NewLogger(t))

	if err := f.Write("tasks", []byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := secondary.Read("tasks"); err != nil {
		t.Fatalf("expected the write to land in the secondary: %v", err)
	}
	got, err := f.Read("tasks")
	if err != nil || string(got) != `[]` {
		t.Fatalf("unexpected read %s, %v", got, err)
	}
	keys, err := f.Keys(context.Background(), "")
	if err != nil || len(keys) != 1 {
		t.Fatalf("unexpected keys %v, %v", keys, err)
	}
}

// readOnlyBackend answers reads but rejects every write.
type readOnlyBackend struct{ Backend }

func (readOnlyBackend) Write(string, []byte) error { return errBroken }

func TestFallbackReadsBackSecondaryWrites(t *testing.T) {
	primary, secondary := Memory(), Memory()
	primary.Write("dayPlans/2025-03-02", []byte(`{}`))
	f := Fallback(readOnlyBackend{primary}, secondary, zaptest.NewLogger(t))
	p := New(f)

	if err := p.SaveTaskSettings(task.Settings{CurrentTaskID: "a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := p.TaskSettings()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.CurrentTaskID != "a" {
		t.Fatalf("CurrentTaskID = %q, want the value written to the secondary", got.CurrentTaskID)
	}

	if err := f.Write("dayPlans/2025-03-03", []byte(`{}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	keys, err := f.Keys(context.Background(), "dayPlans/")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if diff := cmp.Diff([]string{"dayPlans/2025-03-02", "dayPlans/2025-03-03"}, keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}

	if _, err := f.Read("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing everywhere, got %v", err)
	}

	if err := f.Erase("taskSettings"); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if _, err := f.Read("taskSettings"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("erased value came back: %v", err)
	}
}
