package ecs_test

import (
	"testing"

	"github.com/plus3/ladybug/ecs"
	"github.com/stretchr/testify/assert"
)

func TestDrawOrder(t *testing.T) {
	s := newTestSystem()
	var journal []string

	e := s.CreateEntity()
	e.AddComponent(newSprite(&journal, "a", 3))
	e.AddComponent(newSprite(&journal, "b", 1))
	other := s.CreateEntity()
	other.AddComponent(newSprite(&journal, "c", 2))
	e.AddComponent(newSprite(&journal, "d", 1))
	e.AddComponent(newSprite(&journal, "e", -5))

	s.Draw(0, nil)

	// Ascending priority; equal priorities keep insertion order.
	assert.Equal(t, []string{"e", "b", "d", "c", "a"}, journal)
}

func TestDrawSkipsHidden(t *testing.T) {
	s := newTestSystem()
	var journal []string

	e := s.CreateEntity()
	shown := newSprite(&journal, "shown", 0)
	hidden := newSprite(&journal, "hidden", 0)
	e.AddComponent(shown)
	e.AddComponent(hidden)
	hidden.SetVisible(false)

	s.Draw(0, nil)
	assert.Equal(t, []string{"shown"}, journal)
	assert.False(t, hidden.Visible())
}

func TestDrawReceivesRenderer(t *testing.T) {
	s := newTestSystem()
	target := &struct{ frames int }{}

	e := s.CreateEntity()
	e.AddComponent(&rendererProbe{})
	s.Draw(0.5, target)

	probe := ecs.GetComponent[rendererProbe](e)
	assert.Same(t, target, probe.got)
	assert.Equal(t, 0.5, probe.dt)
}

type rendererProbe struct {
	ecs.BaseComponent
	ecs.DrawState
	got any
	dt  float64
}

func (p *rendererProbe) Draw(dt float64, r ecs.Renderer) {
	p.got = r
	p.dt = dt
}

func TestDrawablesFollowRegistration(t *testing.T) {
	s := newTestSystem()
	var journal []string

	e := s.CreateEntity()
	a := newSprite(&journal, "a", 1)
	b := newSprite(&journal, "b", 2)
	e.AddComponent(a)
	e.AddComponent(b)
	assert.Equal(t, 2, s.CollectStats().DrawableCount)

	e.RemoveComponent(a)
	s.Draw(0, nil)
	assert.Equal(t, []string{"b"}, journal)
	assert.Equal(t, 1, s.CollectStats().DrawableCount)

	t.Run("non-drawables are not listed", func(t *testing.T) {
		ecs.AddComponent[Position](e)
		assert.Equal(t, 1, s.CollectStats().DrawableCount)
	})
}

func TestSortDrawables(t *testing.T) {
	s := newTestSystem()
	var journal []string

	e := s.CreateEntity()
	a := newSprite(&journal, "a", 1)
	b := newSprite(&journal, "b", 2)
	e.AddComponent(a)
	e.AddComponent(b)

	a.SetDrawPriority(10)
	s.Draw(0, nil)
	assert.Equal(t, []string{"a", "b"}, journal, "priority changes apply after a re-sort")

	journal = nil
	s.SortDrawables()
	s.Draw(0, nil)
	assert.Equal(t, []string{"b", "a"}, journal)

	var priorities []int
	for d := range s.Drawables() {
		priorities = append(priorities, d.DrawPriority())
	}
	assert.Equal(t, []int{2, 10}, priorities)
}

func TestDrawIgnoresActiveFlags(t *testing.T) {
	s := newTestSystem()
	var journal []string

	e := s.CreateEntity()
	sprite := newSprite(&journal, "sprite", 0)
	e.AddComponent(sprite)
	e.SetActive(false)
	sprite.SetActive(false)

	s.Draw(0, nil)
	assert.Equal(t, []string{"sprite"}, journal, "only visibility gates drawing")
}

// resorter runs onDraw after recording its own draw.
type resorter struct {
	Sprite
	onDraw func(r *resorter)
}

func (r *resorter) Draw(dt float64, renderer ecs.Renderer) {
	r.Sprite.Draw(dt, renderer)
	if r.onDraw != nil {
		r.onDraw(r)
	}
}

func TestSortDrawablesDuringDraw(t *testing.T) {
	s := newTestSystem()
	var journal []string

	e := s.CreateEntity()
	first := &resorter{Sprite: *newSprite(&journal, "a", 1)}
	first.onDraw = func(r *resorter) {
		if r.DrawPriority() == 1 {
			r.SetDrawPriority(10)
			s.SortDrawables()
		}
	}
	e.AddComponent(first)
	e.AddComponent(newSprite(&journal, "b", 2))
	e.AddComponent(newSprite(&journal, "c", 3))

	s.Draw(0, nil)
	assert.Equal(t, []string{"a", "b", "c"}, journal, "each drawable drawn once")

	journal = nil
	s.Draw(0, nil)
	assert.Equal(t, []string{"b", "c", "a"}, journal)
}
