package services

import (
	"sync"

	"lexcase_app_go/models"
)

// SessionState is the authentication resolution state of the process.
type SessionState int

const (
	// SessionAuthenticating is the initial state, before the first
	// resolution has happened. Callers should hold rendering decisions
	// until the gate leaves this state.
	SessionAuthenticating SessionState = iota
	SessionUnauthenticated
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionAuthenticating:
		return "authenticating"
	case SessionUnauthenticated:
		return "unauthenticated"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionEvent is delivered to subscribers on every state change.
type SessionEvent struct {
	State SessionState
	User  *models.FirmUser // nil unless State is SessionAuthenticated
}

// SessionGate tracks who is signed in and fans state changes out to
// subscribers. It starts in the authenticating state; a new subscriber
// immediately receives the current state so late subscribers never miss
// the initial resolution.
type SessionGate struct {
	mu    sync.RWMutex
	state SessionState
	user  *models.FirmUser

	nextID int
	subs   map[int]chan SessionEvent
}

func NewSessionGate() *SessionGate {
	return &SessionGate{
		state: SessionAuthenticating,
		subs:  make(map[int]chan SessionEvent),
	}
}

// State returns the current state and, when authenticated, the user.
func (g *SessionGate) State() (SessionState, *models.FirmUser) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state, g.user
}

// CurrentUser returns the authenticated user, or nil.
func (g *SessionGate) CurrentUser() *models.FirmUser {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.user
}

// IsAuthenticated reports whether a user is signed in.
func (g *SessionGate) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state == SessionAuthenticated
}

// SignIn moves the gate to the authenticated state for the given user.
func (g *SessionGate) SignIn(user *models.FirmUser) {
	g.mu.Lock()
	g.state = SessionAuthenticated
	g.user = user
	g.notifyLocked()
	g.mu.Unlock()
}

// SignOut moves the gate to the unauthenticated state. Signing out while
// already unauthenticated is a no-op event-wise but still broadcasts, so
// subscribers converge on the same state.
func (g *SessionGate) SignOut() {
	g.mu.Lock()
	g.state = SessionUnauthenticated
	g.user = nil
	g.notifyLocked()
	g.mu.Unlock()
}

// Resolve records the outcome of the initial session check. A nil user
// resolves to unauthenticated.
func (g *SessionGate) Resolve(user *models.FirmUser) {
	if user != nil {
		g.SignIn(user)
	} else {
		g.SignOut()
	}
}

// Subscribe registers a listener. The current state is delivered
// immediately on the returned channel, then every subsequent change.
// Call the cancel func to unsubscribe and close the channel.
func (g *SessionGate) Subscribe() (<-chan SessionEvent, func()) {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	// Buffered so a slow consumer never blocks state changes; the
	// buffer holds the snapshot plus a burst of transitions.
	ch := make(chan SessionEvent, 8)
	g.subs[id] = ch
	ch <- SessionEvent{State: g.state, User: g.user}
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		if sub, ok := g.subs[id]; ok {
			delete(g.subs, id)
			close(sub)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

func (g *SessionGate) notifyLocked() {
	event := SessionEvent{State: g.state, User: g.user}
	for _, ch := range g.subs {
		select {
		case ch <- event:
		default:
			// Subscriber fell too far behind; drop rather than block.
		}
	}
}
