// Package session loads and persists browser sessions through client storage,
// with an in-memory cache in front of it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainSession "redconnect/internal/domain/session"
)

// Storage is the per-client key-value persistence backing sessions.
type Storage interface {
	GetAll(ctx context.Context, clientID string) (map[string]string, error)
	SetMany(ctx context.Context, clientID string, vals map[string]string) error
	Remove(ctx context.Context, clientID string, keys ...string) error
}

// Cache bounds. Entries idle longer than CacheTTL are swept once the cache is full.
const (
	CacheTTL        = 30 * time.Minute
	MaxCacheEntries = 10000
)

// Service is safe for concurrent use across browsers.
// There is no coordination between two tabs of the same browser beyond last-write-wins.
//
// INVARIANT: gen changes on every Save and Clear; a Load caches what it read only
// when gen did not move during the store read, so a stale read can never outlive a write.
type Service struct {
	store Storage
	mu    sync.Mutex
	gen   uint64
	cache map[string]cachedSession
	max   int
	now   func() time.Time
}

type cachedSession struct {
	sess     domainSession.Session
	lastSeen time.Time
}

// NewService creates a session service over store.
func NewService(store Storage) *Service {
	return &Service{
		store: store,
		cache: make(map[string]cachedSession),
		max:   MaxCacheEntries,
		now:   time.Now,
	}
}

// Load returns the session for clientID. An unknown client has an empty session.
// POST: Authenticated results are cached until Save, Clear or CacheTTL of idleness
func (s *Service) Load(ctx context.Context, clientID string) (domainSession.Session, error) {
	if clientID == "" {
		return domainSession.Session{}, nil
	}
	s.mu.Lock()
	if c, ok := s.cache[clientID]; ok {
		c.lastSeen = s.now()
		s.cache[clientID] = c
		s.mu.Unlock()
		return c.sess, nil
	}
	gen := s.gen
	s.mu.Unlock()

	vals, err := s.store.GetAll(ctx, clientID)
	if err != nil {
		return domainSession.Session{}, fmt.Errorf("load session: %w", err)
	}
	sess := domainSession.FromValues(vals)

	s.mu.Lock()
	if s.gen == gen {
		s.put(clientID, sess)
	}
	s.mu.Unlock()
	return sess, nil
}

// put caches sess. Empty sessions are not cached; a full cache is swept first
// and the entry is dropped when no room is freed.
// PRE: s.mu is held
func (s *Service) put(clientID string, sess domainSession.Session) {
	if sess == (domainSession.Session{}) {
		return
	}
	if _, ok := s.cache[clientID]; !ok && len(s.cache) >= s.max {
		s.sweep()
		if len(s.cache) >= s.max {
			return
		}
	}
	s.cache[clientID] = cachedSession{sess: sess, lastSeen: s.now()}
}

// sweep forgets entries idle for longer than CacheTTL.
// PRE: s.mu is held
func (s *Service) sweep() {
	now := s.now()
	for id, c := range s.cache {
		if now.Sub(c.lastSeen) > CacheTTL {
			delete(s.cache, id)
		}
	}
}

// beginWrite invalidates clientID and every in-flight Load, returning the new generation.
func (s *Service) beginWrite(clientID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	delete(s.cache, clientID)
	return s.gen
}

// endWrite caches sess when no other write started since gen; otherwise the
// entry is dropped so the next Load reads the store.
func (s *Service) endWrite(clientID string, gen uint64, sess *domainSession.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess != nil && s.gen == gen {
		s.put(clientID, *sess)
	} else {
		delete(s.cache, clientID)
	}
	s.gen++
}

// Save persists sess, replacing any previous session for clientID.
// Keys sess leaves empty are removed so stale fields never outlive a login.
// PRE: sess was built with domainSession.New
func (s *Service) Save(ctx context.Context, clientID string, sess domainSession.Session) error {
	vals := sess.Values()
	var stale []string
	for _, k := range domainSession.Keys {
		if _, ok := vals[k]; !ok {
			stale = append(stale, k)
		}
	}

	gen := s.beginWrite(clientID)
	if err := s.store.Remove(ctx, clientID, stale...); err != nil {
		s.endWrite(clientID, gen, nil)
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.store.SetMany(ctx, clientID, vals); err != nil {
		s.endWrite(clientID, gen, nil)
		return fmt.Errorf("save session: %w", err)
	}
	s.endWrite(clientID, gen, &sess)
	slog.Debug("session_event", "event", "saved", "role", sess.Role)
	return nil
}

// Clear removes all four session keys for clientID regardless of role.
// POST: A following Load returns an unauthenticated session, even when a Load
// overlapped the removal
func (s *Service) Clear(ctx context.Context, clientID string) error {
	gen := s.beginWrite(clientID)
	defer s.endWrite(clientID, gen, nil)

	if err := s.store.Remove(ctx, clientID, domainSession.Keys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
