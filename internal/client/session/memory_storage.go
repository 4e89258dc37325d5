package session

import (
	"context"
	"sync"
)

// MemoryBackend is a token slot shared by several MemoryStorage views. A write
// through one view is reported to the watchers of every other view, the way a
// browser reports storage events only to the other tabs.
type MemoryBackend struct {
	mu       sync.Mutex
	token    string
	watchers map[*MemoryStorage][]chan struct{}
}

// NewMemoryBackend returns an empty shared slot.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{watchers: make(map[*MemoryStorage][]chan struct{})}
}

// View returns a new Storage over the backend.
func (b *MemoryBackend) View() *MemoryStorage {
	return &MemoryStorage{backend: b}
}

func (b *MemoryBackend) set(origin *MemoryStorage, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.token == token {
		return
	}
	b.token = token
	for view, chans := range b.watchers {
		if view == origin {
			continue
		}
		for _, ch := range chans {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// MemoryStorage is one client instance's view of a MemoryBackend.
type MemoryStorage struct {
	backend *MemoryBackend
}

func (m *MemoryStorage) Load() (string, error) {
	m.backend.mu.Lock()
	defer m.backend.mu.Unlock()
	return m.backend.token, nil
}

func (m *MemoryStorage) Save(token string) error {
	m.backend.set(m, token)
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.backend.set(m, "")
	return nil
}

func (m *MemoryStorage) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	b := m.backend

	b.mu.Lock()
	b.watchers[m] = append(b.watchers[m], ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		chans := b.watchers[m]
		for i, c := range chans {
			if c == ch {
				b.watchers[m] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
		if len(b.watchers[m]) == 0 {
			delete(b.watchers, m)
		}
		close(ch)
	}()
	return ch, nil
}

var _ Storage = (*MemoryStorage)(nil)
