package service

import (
	"context"
	"sync"
)

// LoadState is the lifecycle of one view's data.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateEmpty
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// RequestGuard hands out one cancellable context per request a view issues.
// Starting a request cancels the previous one, and a response may only be
// applied while its token is still the latest and the view is open.
type RequestGuard struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// Begin starts a new request derived from parent.
func (g *RequestGuard) Begin(parent context.Context) (context.Context, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	if g.closed {
		cancel()
	}
	g.gen++
	g.cancel = cancel
	return ctx, g.gen
}

// Current reports whether a response for token may still be applied.
func (g *RequestGuard) Current(token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.closed && token == g.gen
}

// Apply runs fn only when token is current. It holds the guard for the
// duration of fn so a concurrent Begin or Close cannot interleave.
func (g *RequestGuard) Apply(token uint64, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || token != g.gen {
		return false
	}
	fn()
	return true
}

// Close cancels any in-flight request; later responses are dropped.
func (g *RequestGuard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
