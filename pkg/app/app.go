package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"tableflip.dev/pomo/pkg/clock"
	"tableflip.dev/pomo/pkg/store"
)

// Service provides high-level operations for tasks and day plans.
// It wraps persistence so the CLI, the UI, the MCP server and the
// coordinator share the same rules.
type Service struct {
	Persistence store.Persistence
	Clock       clock.Clock

	// mu serialises read-modify-write cycles on the stored blobs.
	mu sync.Mutex
}

var (
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrTaskNotFound  = errors.New("app: task not found")
	ErrAmbiguousTask = errors.New("app: task reference matches several tasks")
	ErrNoCurrentSlot = errors.New("app: no planned slot left today")
)

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) ready() error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	return nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Watch(ctx)
}
