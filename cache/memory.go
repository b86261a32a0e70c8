package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store: a mutex-guarded map with per-key
// expiry. Expired entries are dropped lazily on read and swept by a
// background janitor.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	janitor   *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemory() *Memory {
	m := &Memory{
		entries: map[string]memoryEntry{},
		janitor: time.NewTicker(time.Minute),
		done:    make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-m.janitor.C:
				m.sweep()
			case <-m.done:
				return
			}
		}
	}()
	return m
}

// Close stops the janitor goroutine. The store stays usable; expired
// entries are then only dropped lazily on read. Safe to call twice.
func (m *Memory) Close() {
	m.closeOnce.Do(func() {
		m.janitor.Stop()
		close(m.done)
	})
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) sweep() {
	now := time.Now()
	m.mu.Lock()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}
