// Package termhost drives an EntitySystem inside a terminal using tcell.
package termhost

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/ladybug/ecs"
	"github.com/rotisserie/eris"
)

// Host runs frames on a ticker and forwards the tcell.Screen to the draw pass.
// Esc and Ctrl-C end Run.
type Host struct {
	screen   tcell.Screen
	system   *ecs.EntitySystem
	interval time.Duration
	style    tcell.Style

	initialized bool
	frames      int64
	keys        func(*tcell.EventKey)
}

// Option configures a Host.
type Option func(*Host)

// WithFPS sets the target frame rate. The default is 30.
func WithFPS(fps int) Option {
	return func(h *Host) {
		if fps > 0 {
			h.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithKeyHandler receives every key event that does not quit the host.
func WithKeyHandler(fn func(*tcell.EventKey)) Option {
	return func(h *Host) { h.keys = fn }
}

// WithBackground sets the style used to clear the screen between frames.
func WithBackground(style tcell.Style) Option {
	return func(h *Host) { h.style = style }
}

// New creates a host for an initialized screen. The caller owns the screen and
// calls Fini on it.
func New(screen tcell.Screen, system *ecs.EntitySystem, opts ...Option) *Host {
	h := &Host{
		screen:   screen,
		system:   system,
		interval: time.Second / 30,
		style:    tcell.StyleDefault,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewScreen creates and initializes the terminal screen.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, eris.Wrap(err, "create terminal screen")
	}
	if err := screen.Init(); err != nil {
		return nil, eris.Wrap(err, "init terminal screen")
	}
	return screen, nil
}

// Frame runs one frame: InitializeComponents on the first call, the update
// phases, then a full redraw.
func (h *Host) Frame(dt float64) {
	if !h.initialized {
		h.system.InitializeComponents()
		h.initialized = true
	}
	h.system.PreUpdate(dt)
	h.system.Update(dt)
	h.system.PostUpdate(dt)

	h.screen.SetStyle(h.style)
	h.screen.Clear()
	h.system.Draw(dt, h.screen)
	h.screen.Show()
	h.frames++
}

// Frames returns the number of frames run.
func (h *Host) Frames() int64 { return h.frames }

// Run ticks frames until ctx is done or a quit key is pressed.
func (h *Host) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go pumpEvents(ctx, h.screen.PollEvent, events)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !h.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			h.Frame(dt)
		}
	}
}

func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if h.keys != nil {
			h.keys(ev)
		}
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

// pumpEvents forwards polled events until poll returns nil or ctx is done.
func pumpEvents(ctx context.Context, poll func() tcell.Event, events chan<- tcell.Event) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
