package insights

import (
	"context"
	"sync"

	"github.com/julianstephens/trackpro/internal/models"
)

// Guard ties insight requests to the date being viewed. Changing the date
// cancels the request in flight, and a result for a date that is no longer
// viewed is dropped.
type Guard struct {
	mu     sync.Mutex
	date   string
	seq    uint64
	cancel context.CancelFunc
}

// Ticket identifies one request started by a Guard.
type Ticket struct {
	Date string
	seq  uint64
}

// View records the date on screen. A new date cancels the pending request.
func (g *Guard) View(date string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if date == g.date {
		return
	}
	g.date = date
	g.seq++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// Cancel abandons the pending request; its result will not be accepted.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// Date returns the viewed date.
func (g *Guard) Date() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.date
}

// Begin starts a request for the viewed date, superseding any earlier one.
func (g *Guard) Begin(parent context.Context) (context.Context, Ticket) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.seq++
	ctx, cancel := context.WithCancel(parent)
	g.cancel = cancel
	return ctx, Ticket{Date: g.date, seq: g.seq}
}

// Accept reports whether a result for t is still current, and releases
// the request.
func (g *Guard) Accept(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t.seq != g.seq || t.Date != g.date {
		return false
	}
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	return true
}

// Fetch runs one guarded request for the viewed date.
func (g *Guard) Fetch(parent context.Context, gen Generator, description string) (models.Insights, bool) {
	ctx, ticket := g.Begin(parent)
	ins, ok := Fetch(ctx, gen, description)
	if !g.Accept(ticket) {
		return models.Insights{}, false
	}
	return ins, ok
}
