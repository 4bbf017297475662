// Package permission models the permission-grant collaborator for
// camera access. The grant flow itself (system dialog, settings
// screen) lives outside this subsystem; the composer only needs the
// current state, a way to request, and a callback on grant.
package permission

import (
	"sync"

	"github.com/google/uuid"
)

// Presenter exposes the camera permission state to the composer.
type Presenter interface {
	// Granted reports the current grant state.
	Granted() bool

	// Request asks the platform to prompt the user. The request has no
	// timeout; the presenter resolves it whenever the user decides.
	Request()

	// OnGrant registers a callback invoked when the permission becomes
	// granted. The returned function removes the registration.
	OnGrant(fn func()) (unsubscribe func())
}

// Gate is a scriptable Presenter. Tests and the demo binary grant or
// deny at will; Grant fires all registered callbacks.
type Gate struct {
	mu       sync.Mutex
	granted  bool
	requests int
	subs     map[string]func()
}

// NewGate creates a Gate in the given initial state.
func NewGate(granted bool) *Gate {
	return &Gate{granted: granted, subs: make(map[string]func())}
}

// Granted reports the current grant state.
func (g *Gate) Granted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.granted
}

// Request records that a prompt was requested.
func (g *Gate) Request() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests++
}

// Requests returns how many times Request was called.
func (g *Gate) Requests() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests
}

// OnGrant registers a grant callback.
func (g *Gate) OnGrant(fn func()) func() {
	id := uuid.New().String()
	g.mu.Lock()
	g.subs[id] = fn
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

// Grant flips the state to granted and fires the callbacks. Granting
// an already-granted gate is a no-op.
func (g *Gate) Grant() {
	g.mu.Lock()
	if g.granted {
		g.mu.Unlock()
		return
	}
	g.granted = true
	subs := make([]func(), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
