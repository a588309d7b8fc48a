// Package lifecycle coordinates subsystem startup checks and ordered
// shutdown for the server process.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently and reports ready once all
// of them succeed. Shutdown runs in two phases: drain hooks finish the
// work still in flight, then shutdown hooks release resources. Shutdown
// hooks are started at registration and block on Context().Done() or
// Drained() before releasing anything.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startup  sync.WaitGroup
	drain    sync.WaitGroup
	shutdown sync.WaitGroup
	drained  chan struct{}
	once     sync.Once

	mu     sync.RWMutex
	ready  bool
	failed []error
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel, drained: make(chan struct{})}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn in the background. A non-nil error keeps the
// coordinator from becoming ready and is reported by WaitForStartup
// under name.
func (c *Coordinator) OnStartup(name string, fn func(ctx context.Context) error) {
	c.startup.Go(func() {
		if err := fn(c.ctx); err != nil {
			c.mu.Lock()
			c.failed = append(c.failed, fmt.Errorf("%s: %w", name, err))
			c.mu.Unlock()
		}
	})
}

func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// OnDrain runs fn once Shutdown begins. Drained is closed after every
// drain hook has returned.
func (c *Coordinator) OnDrain(fn func()) {
	c.drain.Go(func() {
		<-c.ctx.Done()
		fn()
	})
}

// Drained is closed once Shutdown has begun and every drain hook has
// returned. Hooks that release shared resources wait on it.
func (c *Coordinator) Drained() <-chan struct{} {
	return c.drained
}

func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until every startup hook has returned. It marks
// the coordinator ready and returns nil only when none of them failed.
func (c *Coordinator) WaitForStartup() error {
	c.startup.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.failed) > 0 {
		return errors.Join(c.failed...)
	}
	c.ready = true
	return nil
}

// Shutdown cancels the context and waits up to timeout for the drain
// hooks and then the shutdown hooks to return.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.drain.Wait()
		c.once.Do(func() { close(c.drained) })
		c.shutdown.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timed out after %v", timeout)
	}
}
