package autosave

import (
	"context"
	"sync"
)

// flightGuard is the "save in flight" flag shared by autosave and manual
// save. A second TryLock fails instead of queueing.
type flightGuard struct {
	mu       sync.Mutex
	inFlight bool
	wg       sync.WaitGroup
}

// TryLock marks a save as in flight. It returns false if one already is.
func (g *flightGuard) TryLock() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight {
		return false
	}
	g.inFlight = true
	g.wg.Add(1)
	return true
}

// Unlock clears the flag. Must follow a successful TryLock.
func (g *flightGuard) Unlock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
	g.wg.Done()
}

func (g *flightGuard) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}

// Wait blocks until no save is in flight or ctx is done.
func (g *flightGuard) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
