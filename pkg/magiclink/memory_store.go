package magiclink

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps pending links in process memory. Suitable for a single
// instance; multi-instance deployments should use the Redis store so any
// instance can redeem a link issued by another.
type MemoryStore struct {
	mu     sync.Mutex
	links  map[string]Link
	used   map[string]time.Time
	ticker *time.Ticker
	done   chan struct{}
}

// DefaultCleanupInterval is how often the janitor evicts expired entries
// unless the caller picks its own interval.
const DefaultCleanupInterval = time.Minute

// NewMemoryStore creates an in-memory link store. When cleanupInterval is
// positive a janitor goroutine evicts expired entries; Close stops it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		links: make(map[string]Link),
		used:  make(map[string]time.Time),
		done:  make(chan struct{}),
	}

	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop()
	}

	return s
}

func (s *MemoryStore) Save(ctx context.Context, link Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links[link.Token] = link
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, token string) (Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, redeemed := s.used[token]; redeemed {
		return Link{}, ErrLinkAlreadyUsed
	}

	link, ok := s.links[token]
	if !ok {
		return Link{}, ErrLinkInvalid
	}

	delete(s.links, token)
	// The tombstone distinguishes "already used" from "never existed" until
	// the link would have expired anyway.
	s.used[token] = link.ExpiresAt

	return link, nil
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() {
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
	}
}

func (s *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, link := range s.links {
				if now.After(link.ExpiresAt) {
					delete(s.links, token)
				}
			}
			for token, expiresAt := range s.used {
				if now.After(expiresAt) {
					delete(s.used, token)
				}
			}
			s.mu.Unlock()
		}
	}
}

var _ Store = (*MemoryStore)(nil)
