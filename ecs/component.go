// Package ecs is a small entity-component runtime: entities own ordered lists of
// typed components, an EntitySystem indexes those components by their exact type
// and drives the per-frame lifecycle (initialize, three update phases and a
// priority-ordered draw pass).
package ecs

import "reflect"

// Component is a unit of behavior attached to a single Entity.
// Concrete components embed BaseComponent, which supplies no-op lifecycle hooks
// and the bookkeeping used by the EntitySystem. Because of the unexported base
// method, only types embedding BaseComponent satisfy this interface.
type Component interface {
	Initialize()
	PreUpdate(dt float64)
	Update(dt float64)
	PostUpdate(dt float64)

	Name() string
	SetName(name string)
	Active() bool
	SetActive(active bool)

	// Entity resolves the owning entity, or nil when the component is detached
	// or its entity has been destroyed.
	Entity() *Entity

	base() *BaseComponent
}

// ComponentPtr constrains a type parameter to a pointer to T that implements Component.
type ComponentPtr[T any] interface {
	*T
	Component
}

// BaseComponent is embedded by every concrete component.
// The zero value is an active, unnamed, detached component.
type BaseComponent struct {
	name     string
	inactive bool

	// Non-owning handle to the entity: its ID plus the system whose table resolves it.
	owner  EntityID
	system *EntitySystem

	// Set while the component sits in a type index. typ is the bucket key.
	index *EntitySystem
	typ   reflect.Type
	// A deregistration is queued; index still holds the dispatching system.
	detaching bool
}

func (b *BaseComponent) base() *BaseComponent { return b }

// Initialize is called once by EntitySystem.InitializeComponents.
func (b *BaseComponent) Initialize() {}

// PreUpdate is the first update phase of a frame.
func (b *BaseComponent) PreUpdate(dt float64) {}

// Update is the main update phase of a frame.
func (b *BaseComponent) Update(dt float64) {}

// PostUpdate is the last update phase of a frame.
func (b *BaseComponent) PostUpdate(dt float64) {}

func (b *BaseComponent) Name() string { return b.name }

func (b *BaseComponent) SetName(name string) { b.name = name }

func (b *BaseComponent) Active() bool { return !b.inactive }

func (b *BaseComponent) SetActive(active bool) { b.inactive = !active }

func (b *BaseComponent) Entity() *Entity {
	if b.system == nil {
		return nil
	}
	return b.system.Entity(b.owner)
}

func (b *BaseComponent) bind(e *Entity) {
	b.owner = e.id
	b.system = e.system
}

func (b *BaseComponent) unbind() {
	b.owner = 0
	b.system = nil
}

func (b *BaseComponent) boundTo(e *Entity) bool {
	return b.system != nil && b.system == e.system && b.owner == e.id
}

// componentType returns the dynamic type used as the type index key.
func componentType(c Component) reflect.Type {
	return reflect.TypeOf(c)
}
