package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// State is the client's view of whether a user is signed in.
type State int

const (
	// StateUnknown is reported until the persisted token has been read.
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Store is the client session. Authentication is derived from token presence
// only; a token is not checked against the server until it is used.
type Store struct {
	storage Storage
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	token     string
	listeners map[int]func(State)
	nextID    int
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewStore returns a Store in StateUnknown. Call Init before consulting it.
func NewStore(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage:   storage,
		logger:    logger,
		listeners: make(map[int]func(State)),
	}
}

// Init reads the persisted token and leaves StateUnknown. A storage read
// failure leaves the session unauthenticated and is returned.
func (s *Store) Init() error {
	token, err := s.storage.Load()
	if err != nil {
		s.apply("")
		return fmt.Errorf("load session: %w", err)
	}
	s.apply(token)
	return nil
}

// Login stores token and marks the session authenticated. It returns false,
// leaving the session unchanged, when token is empty.
func (s *Store) Login(token string) bool {
	if token == "" {
		return false
	}
	if err := s.storage.Save(token); err != nil {
		s.logger.Warn("Failed to persist session token", slog.String("error", err.Error()))
	}
	s.apply(token)
	return true
}

// Logout removes the stored token. It is safe to call when not signed in.
func (s *Store) Logout() {
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("Failed to clear session token", slog.String("error", err.Error()))
	}
	s.apply("")
}

// Refresh re-reads storage, picking up changes made by other client instances.
func (s *Store) Refresh() error {
	token, err := s.storage.Load()
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	s.apply(token)
	return nil
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Subscribe registers fn to be called with the new state after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Run follows storage changes until ctx is done or Close is called.
func (s *Store) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		cancel()
		return fmt.Errorf("session store is already running")
	}
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancel = nil
		s.done = nil
		s.mu.Unlock()
		close(done)
	}()

	changes, err := s.storage.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch session storage: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := s.Refresh(); err != nil {
				s.logger.Warn("Failed to refresh session after storage change", slog.String("error", err.Error()))
			}
		}
	}
}

// Close stops a running Run loop and waits for it to return.
func (s *Store) Close() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// apply sets the token and notifies listeners when the derived state changes
// or a different token replaces the current one.
func (s *Store) apply(token string) {
	next := StateUnauthenticated
	if token != "" {
		next = StateAuthenticated
	}

	s.mu.Lock()
	changed := s.state != next || s.token != token
	s.state = next
	s.token = token
	var listeners []func(State)
	if changed {
		listeners = make([]func(State), 0, len(s.listeners))
		for _, fn := range s.listeners {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	if changed {
		s.logger.Debug("Session state changed", slog.String("state", next.String()))
	}
	for _, fn := range listeners {
		fn(next)
	}
}
