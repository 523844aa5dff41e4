package ecs

import "slices"

// EntityID identifies an entity within its EntitySystem. IDs start at 1, grow
// monotonically and are never reused. The zero value means "no entity".
type EntityID uint64

// Entity is an identity owning an ordered sequence of components.
type Entity struct {
	system     *EntitySystem
	id         EntityID
	name       string
	inactive   bool
	destroyed  bool
	components []Component
}

// NewEntity creates an entity and registers it with system, which assigns its ID.
func NewEntity(system *EntitySystem, name ...string) *Entity {
	e := &Entity{}
	if len(name) > 0 {
		e.name = name[0]
	}
	system.RegisterEntity(e)
	return e
}

// ID returns the ID assigned by the owning system.
func (e *Entity) ID() EntityID { return e.id }

// System returns the owning EntitySystem.
func (e *Entity) System() *EntitySystem { return e.system }

func (e *Entity) Name() string { return e.name }

func (e *Entity) SetName(name string) { e.name = name }

func (e *Entity) Active() bool { return !e.inactive }

func (e *Entity) SetActive(active bool) { e.inactive = !active }

// Destroyed reports whether Destroy has been called.
func (e *Entity) Destroyed() bool { return e.destroyed }

// Components returns a copy of the component sequence in insertion order.
func (e *Entity) Components() []Component {
	return slices.Clone(e.components)
}

// Len returns the number of attached components.
func (e *Entity) Len() int { return len(e.components) }

// AddComponent attaches an existing component instance to e and registers it with the
// owning system. A component bound to another entity is removed from it first; a
// component already attached to e is returned unchanged.
func (e *Entity) AddComponent(c Component, name ...string) Component {
	b := c.base()
	if len(name) > 0 {
		b.name = name[0]
	}
	if b.boundTo(e) {
		return c
	}
	if e.destroyed || e.system == nil {
		if e.system != nil {
			e.system.log.Warn().
				Uint64("entity_id", uint64(e.id)).
				Str("component", componentType(c).String()).
				Msg("component not attached to destroyed entity")
		}
		return c
	}
	if prev := b.Entity(); prev != nil {
		prev.RemoveComponent(c)
	}

	b.bind(e)
	e.components = append(e.components, c)
	e.system.RegisterComponent(c)
	return c
}

// AddComponent constructs a new T, attaches it to e and registers it with the
// owning system.
func AddComponent[T any, PT ComponentPtr[T]](e *Entity, name ...string) PT {
	c := PT(new(T))
	e.AddComponent(c, name...)
	return c
}

// RemoveComponent deregisters c from the owning system and removes it from e.
// It returns false and changes nothing when c is not attached to e.
func (e *Entity) RemoveComponent(c Component) bool {
	idx := slices.Index(e.components, c)
	if idx < 0 {
		if e.system != nil {
			e.system.log.Debug().
				Uint64("entity_id", uint64(e.id)).
				Str("component", componentType(c).String()).
				Msg("remove: component not on entity")
		}
		return false
	}

	e.detach(c)
	e.components = slices.Delete(e.components, idx, idx+1)
	return true
}

// GetComponent returns the first component of e whose dynamic type is exactly PT,
// or nil. A type embedding T does not match.
func GetComponent[T any, PT ComponentPtr[T]](e *Entity) PT {
	for _, c := range e.components {
		if pc, ok := c.(PT); ok {
			return pc
		}
	}
	return nil
}

// GetNamedComponent is GetComponent restricted to components with the given name.
func GetNamedComponent[T any, PT ComponentPtr[T]](e *Entity, name string) PT {
	for _, c := range e.components {
		if pc, ok := c.(PT); ok && c.Name() == name {
			return pc
		}
	}
	return nil
}

// Destroy deregisters every component of e from the system indexes, detaches them
// and drops e from the entity table. Its ID is never handed out again.
func (e *Entity) Destroy() {
	if e.destroyed || e.system == nil {
		return
	}
	e.destroyed = true

	for _, c := range e.components {
		e.detach(c)
	}
	e.components = nil
	e.system.dropEntity(e)
}

// detach unbinds c, dropping it from the type index it sits in. A component whose
// registration is still queued has no index entry; the queued registration is
// skipped once it is unbound.
func (e *Entity) detach(c Component) {
	b := c.base()
	if b.index != nil && !b.detaching {
		b.index.DeregisterComponent(c)
	}
	b.unbind()
}
