package ecs

import (
	"context"
	"time"
)

// Runner drives an EntitySystem through the frame lifecycle without a windowing
// host: InitializeComponents once, then PreUpdate, Update, PostUpdate and Draw
// per frame.
type Runner struct {
	system      *EntitySystem
	renderer    Renderer
	initialized bool
	frames      int64
}

// NewRunner creates a runner for system. renderer is forwarded to the draw pass
// and may be nil.
func NewRunner(system *EntitySystem, renderer Renderer) *Runner {
	return &Runner{
		system:   system,
		renderer: renderer,
	}
}

// Once executes a single frame with the given delta time in seconds. The first
// call also initializes every registered component.
func (r *Runner) Once(dt float64) {
	if !r.initialized {
		r.system.InitializeComponents()
		r.initialized = true
	}

	r.system.PreUpdate(dt)
	r.system.Update(dt)
	r.system.PostUpdate(dt)
	r.system.Draw(dt, r.renderer)
	r.frames++
}

// Frames returns the number of frames executed.
func (r *Runner) Frames() int64 { return r.frames }

// Run executes frames at the given interval until the context is cancelled.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			r.Once(dt)
		}
	}
}
