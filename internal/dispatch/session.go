package dispatch

import (
	"context"
	"sync"

	"github.com/reglet-dev/hostcap/domain/entities"
)

// Session holds the id a backend issues for a load call (a SQL connection, a store
// handle). The load runs on first use and is retried by the next caller until it
// succeeds.
type Session struct {
	load func(context.Context) (string, error)
	id   string
	mu   sync.Mutex
}

func NewSession(load func(context.Context) (string, error)) *Session {
	return &Session{load: load}
}

// ID returns the session id, loading it if needed.
func (s *Session) ID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != "" {
		return s.id, nil
	}
	id, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	s.id = id
	return id, nil
}

// Loaded returns the id if the load has succeeded, else "".
func (s *Session) Loaded() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Open loads the session eagerly unless the binding's bridge was found unreachable,
// in which case the load (and its failure) is left to the first operation.
func (s *Session) Open(ctx context.Context, b *Binding) error {
	if b.IsRemote() && b.Probe == entities.ProbeUnreachable {
		return nil
	}
	_, err := s.ID(ctx)
	return err
}
