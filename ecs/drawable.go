package ecs

import (
	"cmp"
	"slices"
)

// Renderer is the opaque render target handed to drawable components.
// The EntitySystem never inspects it; hosts pass e.g. an *ebiten.Image or a tcell.Screen.
type Renderer any

// Drawable is the optional capability of components that take part in the draw pass.
type Drawable interface {
	// DrawPriority orders the draw pass. Lower values are drawn first.
	DrawPriority() int
	// Visible gates whether Draw is called.
	Visible() bool
	Draw(dt float64, renderer Renderer)
}

// DrawState can be embedded next to BaseComponent to provide the priority and
// visibility half of Drawable. Visibility defaults to true.
type DrawState struct {
	Priority int  `xml:"priority,attr,omitempty"`
	Hidden   bool `xml:"hidden,attr,omitempty"`
}

func (d *DrawState) DrawPriority() int { return d.Priority }

func (d *DrawState) Visible() bool { return !d.Hidden }

func (d *DrawState) SetVisible(visible bool) { d.Hidden = !visible }

// SetDrawPriority changes the priority. A component that is already registered
// keeps its slot until EntitySystem.SortDrawables or the next drawable registration.
func (d *DrawState) SetDrawPriority(priority int) { d.Priority = priority }

type drawEntry struct {
	component Component
	drawable  Drawable
}

// drawList keeps drawables ordered by ascending priority. Equal priorities keep
// their insertion order.
type drawList struct {
	entries []drawEntry
}

func (l *drawList) insert(c Component, d Drawable) {
	l.entries = append(l.entries, drawEntry{component: c, drawable: d})
	l.sort()
}

func (l *drawList) remove(c Component) bool {
	idx := slices.IndexFunc(l.entries, func(e drawEntry) bool { return e.component == c })
	if idx < 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, idx, idx+1)
	return true
}

func (l *drawList) sort() {
	slices.SortStableFunc(l.entries, func(a, b drawEntry) int {
		return cmp.Compare(a.drawable.DrawPriority(), b.drawable.DrawPriority())
	})
}

func (l *drawList) len() int { return len(l.entries) }
