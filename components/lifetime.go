package components

import "github.com/plus3/ladybug/ecs"

// Lifetime counts Remaining seconds down after each frame. When it runs out the
// entity is deactivated, or destroyed when Destroy is set.
type Lifetime struct {
	ecs.BaseComponent
	Remaining float64 `xml:"remaining"`
	Destroy   bool    `xml:"destroy,attr,omitempty"`
}

func (l *Lifetime) PostUpdate(dt float64) {
	l.Remaining -= dt
	if l.Remaining > 0 {
		return
	}
	l.Remaining = 0

	e := l.Entity()
	if e == nil {
		return
	}
	if l.Destroy {
		e.Destroy()
		return
	}
	e.SetActive(false)
}

// Expired reports whether the countdown has reached zero.
func (l *Lifetime) Expired() bool { return l.Remaining <= 0 }
