package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/auth/session"
)

// Session is the authenticated identity snapshot shared with subscribers.
type Session struct {
	UserID   uuid.UUID
	Email    string
	AccessID string
}

// Listener receives the new session on every change; nil means signed out.
type Listener func(*Session)

// SessionProvider owns the current-session state and a subscribe/unsubscribe
// contract. It replaces a process-global callback: consumers hold an explicit
// cancel func and are guaranteed to stop receiving events after calling it.
type SessionProvider struct {
	checker session.AccessSessionChecker

	mu          sync.RWMutex
	current     *Session
	subscribers map[int]Listener
	nextID      int
}

// NewSessionProvider builds a provider that validates sessions against Redis.
func NewSessionProvider(checker session.AccessSessionChecker) (*SessionProvider, error) {
	if checker == nil {
		return nil, fmt.Errorf("session checker required")
	}
	return &SessionProvider{
		checker:     checker,
		subscribers: make(map[int]Listener),
	}, nil
}

// Current returns the active session, or nil when signed out.
func (p *SessionProvider) Current() *Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil
	}
	copied := *p.current
	return &copied
}

// Subscribe registers a listener for session changes and returns its cancel
// func. The cancel func is idempotent.
func (p *SessionProvider) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = listener
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, id)
			p.mu.Unlock()
		})
	}
}

// SetSession installs the session and notifies subscribers.
func (p *SessionProvider) SetSession(sess Session) {
	p.mu.Lock()
	copied := sess
	p.current = &copied
	listeners := p.snapshotLocked()
	p.mu.Unlock()

	for _, listener := range listeners {
		listener(&copied)
	}
}

// ClearSession drops the session and notifies subscribers with nil.
func (p *SessionProvider) ClearSession() {
	p.mu.Lock()
	p.current = nil
	listeners := p.snapshotLocked()
	p.mu.Unlock()

	for _, listener := range listeners {
		listener(nil)
	}
}

// Validate confirms the current session still has a live refresh entry in
// Redis; a revoked session is cleared and reported as gone.
func (p *SessionProvider) Validate(ctx context.Context) (bool, error) {
	current := p.Current()
	if current == nil {
		return false, nil
	}

	ok, err := p.checker.HasSession(ctx, current.AccessID)
	if err != nil {
		return false, err
	}
	if !ok {
		p.ClearSession()
	}
	return ok, nil
}

func (p *SessionProvider) snapshotLocked() []Listener {
	listeners := make([]Listener, 0, len(p.subscribers))
	for _, listener := range p.subscribers {
		listeners = append(listeners, listener)
	}
	return listeners
}
