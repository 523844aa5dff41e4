package ecs_test

import (
	"testing"

	"github.com/plus3/ladybug/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveDuringPhase(t *testing.T) {
	s := newTestSystem()
	var journal []string

	e := s.CreateEntity()
	victim := newTracked(&journal, "victim")
	hook := &Hook{OnUpdate: func(h *Hook) {
		if victim.Entity() != nil {
			assert.True(t, e.RemoveComponent(victim))
			assert.Equal(t, 1, s.PendingCommands())
		}
	}}
	e.AddComponent(hook)
	e.AddComponent(victim)

	s.Update(1)

	assert.Empty(t, journal, "removed component is not dispatched later in the phase")
	assert.False(t, s.Registered(victim))
	assert.Zero(t, s.PendingCommands())
	assert.Equal(t, 1, s.CollectStats().ComponentCount)
}

func TestAddDuringPhase(t *testing.T) {
	s := newTestSystem()
	var journal []string

	e := s.CreateEntity()
	var added *Tracked
	hook := &Hook{OnUpdate: func(h *Hook) {
		if added == nil {
			added = newTracked(&journal, "late")
			e.AddComponent(added)
			assert.False(t, s.Registered(added), "registration waits for the phase boundary")
			assert.Same(t, e, added.Entity())
		}
	}}
	e.AddComponent(hook)

	s.Update(1)
	assert.Empty(t, journal)
	assert.True(t, s.Registered(added))

	s.Update(1)
	assert.Equal(t, []string{"late:update"}, journal)
}

func TestAddThenRemoveDuringPhase(t *testing.T) {
	s := newTestSystem()
	e := s.CreateEntity()
	transient := &Marker{}
	e.AddComponent(&Hook{OnUpdate: func(h *Hook) {
		e.AddComponent(transient)
		e.RemoveComponent(transient)
	}})

	s.Update(1)

	assert.False(t, s.Registered(transient))
	assert.Nil(t, transient.Entity())
	assert.Equal(t, 1, s.CollectStats().ComponentCount)
}

func TestDestroyDuringPhase(t *testing.T) {
	s := newTestSystem()
	var journal []string

	doomed := s.CreateEntity("doomed")
	tracked := newTracked(&journal, "doomed")
	s.CreateEntity("killer").AddComponent(&Hook{OnUpdate: func(h *Hook) {
		doomed.Destroy()
	}})
	doomed.AddComponent(tracked)

	s.Update(1)

	assert.Empty(t, journal)
	assert.Nil(t, s.Entity(doomed.ID()))
	assert.False(t, s.Registered(tracked))
}

func TestDeregisterDuringPhase(t *testing.T) {
	s := newTestSystem()
	e := s.CreateEntity()
	p := ecs.AddComponent[Position](e)
	e.AddComponent(&Hook{OnUpdate: func(h *Hook) {
		assert.True(t, s.DeregisterComponent(p), "queued removals report success")
		assert.True(t, s.Registered(p))
	}})

	s.Update(1)

	assert.False(t, s.Registered(p))
	assert.Same(t, e, p.Entity(), "deregistering leaves the entity sequence alone")
}

func TestDefer(t *testing.T) {
	s := newTestSystem()
	var order []string

	s.CreateEntity().AddComponent(&Hook{OnUpdate: func(h *Hook) {
		s.Defer(func() { order = append(order, "deferred") })
		order = append(order, "update")
	}})

	s.Update(1)
	assert.Equal(t, []string{"update", "deferred"}, order)

	s.Defer(func() { order = append(order, "immediate") })
	assert.Equal(t, []string{"update", "deferred", "immediate"}, order)
}

func TestMoveToOtherSystemDuringPhase(t *testing.T) {
	from := newTestSystem()
	to := newTestSystem()

	source := from.CreateEntity("source")
	target := to.CreateEntity("target")
	moved := ecs.AddComponent[Marker](source)

	source.AddComponent(&Hook{OnUpdate: func(h *Hook) {
		if moved.Entity() == source {
			target.AddComponent(moved)
			assert.False(t, to.Registered(moved), "indexed once the source phase ends")
		}
	}})

	from.Update(1)

	assert.Same(t, target, moved.Entity())
	assert.False(t, from.Registered(moved))
	assert.True(t, to.Registered(moved))
	assert.Equal(t, 1, to.CollectStats().ComponentCount)
	assert.Nil(t, ecs.GetComponent[Marker](source))
}

func TestMoveBetweenEntitiesDuringPhase(t *testing.T) {
	s := newTestSystem()
	var journal []string

	a := s.CreateEntity("a")
	b := s.CreateEntity("b")
	tr := newTracked(&journal, "t")
	a.AddComponent(&Hook{OnUpdate: func(h *Hook) {
		if tr.Entity() == a {
			b.AddComponent(tr)
		}
	}})
	a.AddComponent(tr)

	s.Update(1)
	assert.Empty(t, journal)
	assert.True(t, s.Registered(tr))
	assert.Same(t, b, tr.Entity())

	s.Update(1)
	assert.Equal(t, []string{"t:update"}, journal)
}

func TestReaddDuringPhaseWaitsForNextPhase(t *testing.T) {
	s := newTestSystem()
	var journal []string

	e := s.CreateEntity()
	tr := newTracked(&journal, "x")
	readded := false
	e.AddComponent(&Hook{OnUpdate: func(h *Hook) {
		if !readded {
			readded = true
			require.True(t, e.RemoveComponent(tr))
			e.AddComponent(tr)
		}
	}})
	e.AddComponent(tr)

	s.Update(1)
	assert.Empty(t, journal, "re-added component starts with the next phase")
	assert.True(t, s.Registered(tr))
	assert.Equal(t, 2, s.CollectStats().ComponentCount)

	s.Update(1)
	assert.Equal(t, []string{"x:update"}, journal)
}

func TestDeregisterUnknownDuringPhase(t *testing.T) {
	s := newTestSystem()
	e := s.CreateEntity()
	p := ecs.AddComponent[Position](e)
	stray := &Position{}

	e.AddComponent(&Hook{OnUpdate: func(h *Hook) {
		assert.False(t, s.DeregisterComponent(stray))
		assert.True(t, s.DeregisterComponent(p))
		assert.False(t, s.DeregisterComponent(p), "already queued")
		assert.Equal(t, 1, s.PendingCommands())
	}})

	s.Update(1)
	assert.False(t, s.Registered(p))
	assert.Zero(t, s.PendingCommands())
}
