// Package components holds stock components for ladybug entity systems.
package components

import (
	"github.com/plus3/ladybug/ecs"
)

// Transform places an entity in world space. Rotation is in radians.
type Transform struct {
	ecs.BaseComponent
	X        float64 `xml:"x"`
	Y        float64 `xml:"y"`
	Rotation float64 `xml:"rotation,omitempty"`
}

// Velocity moves the Transform of its entity by DX, DY units per second.
type Velocity struct {
	ecs.BaseComponent
	DX float64 `xml:"dx"`
	DY float64 `xml:"dy"`
}

func (v *Velocity) Update(dt float64) {
	t := transformOf(v)
	if t == nil {
		return
	}
	t.X += v.DX * dt
	t.Y += v.DY * dt
}

func transformOf(c ecs.Component) *Transform {
	e := c.Entity()
	if e == nil {
		return nil
	}
	return ecs.GetComponent[Transform](e)
}

// Register adds every stock component to r under its default tag.
func Register(r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](r)
	ecs.RegisterComponent[Velocity](r)
	ecs.RegisterComponent[Sprite](r)
	ecs.RegisterComponent[Glyph](r)
	ecs.RegisterComponent[Lifetime](r)
	ecs.RegisterComponent[SoundCue](r)
}
