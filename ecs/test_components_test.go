package ecs_test

import "github.com/plus3/ladybug/ecs"

// Common test component types
type Position struct {
	ecs.BaseComponent
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
}

// SpecialPosition embeds Position but is a distinct component type.
type SpecialPosition struct {
	Position
	Layer int `xml:"layer"`
}

type Velocity struct {
	ecs.BaseComponent
	DX float64 `xml:"dx"`
	DY float64 `xml:"dy"`
}

func (v *Velocity) Update(dt float64) {
	e := v.Entity()
	if e == nil {
		return
	}
	if p := ecs.GetComponent[Position](e); p != nil {
		p.X += v.DX * dt
		p.Y += v.DY * dt
	}
}

type Health struct {
	ecs.BaseComponent
	Current int `xml:"current"`
	Max     int `xml:"max"`
}

// Marker has no serialized state.
type Marker struct {
	ecs.BaseComponent
}

// Tracked appends "<label>:<hook>" to a shared journal for every lifecycle call.
type Tracked struct {
	ecs.BaseComponent
	Label string `xml:"label"`

	journal *[]string
}

func newTracked(journal *[]string, label string) *Tracked {
	return &Tracked{Label: label, journal: journal}
}

func (t *Tracked) record(hook string) {
	if t.journal != nil {
		*t.journal = append(*t.journal, t.Label+":"+hook)
	}
}

func (t *Tracked) Initialize()           { t.record("init") }
func (t *Tracked) PreUpdate(dt float64)  { t.record("pre") }
func (t *Tracked) Update(dt float64)     { t.record("update") }
func (t *Tracked) PostUpdate(dt float64) { t.record("post") }

// Echo is a second tracked type with its own bucket.
type Echo struct {
	Tracked
}

func newEcho(journal *[]string, label string) *Echo {
	return &Echo{Tracked: Tracked{Label: label, journal: journal}}
}

type Sprite struct {
	ecs.BaseComponent
	ecs.DrawState
	Label string `xml:"label"`

	journal *[]string
}

func newSprite(journal *[]string, label string, priority int) *Sprite {
	s := &Sprite{Label: label, journal: journal}
	s.Priority = priority
	return s
}

func (s *Sprite) Draw(dt float64, r ecs.Renderer) {
	if s.journal != nil {
		*s.journal = append(*s.journal, s.Label)
	}
}

// Hook runs OnUpdate from its Update phase.
type Hook struct {
	ecs.BaseComponent
	OnUpdate func(h *Hook) `xml:"-"`
}

func (h *Hook) Update(dt float64) {
	if h.OnUpdate != nil {
		h.OnUpdate(h)
	}
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[SpecialPosition](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Marker](registry)
	ecs.RegisterComponent[Tracked](registry)
	ecs.RegisterComponent[Sprite](registry)
	return registry
}

func newTestSystem() *ecs.EntitySystem {
	return ecs.NewEntitySystem(newTestRegistry())
}
