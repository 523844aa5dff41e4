package ecs

import (
	"cmp"
	"iter"
	"reflect"
	"slices"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/plus3/ladybug/resource"
	"github.com/rs/zerolog"
)

// bucket holds the registered components of exactly one dynamic type, in
// registration order.
type bucket struct {
	typ        reflect.Type
	components []Component
}

// EntitySystem owns all entities, indexes their components by exact type and
// drives the frame lifecycle.
//
// It is not safe for concurrent use. Structural changes made while a phase is
// dispatching (component registration, deregistration) are queued and applied
// when the phase returns.
type EntitySystem struct {
	nextID    EntityID
	entities  *intmap.Map[EntityID, *Entity]
	buckets   map[reflect.Type]*bucket
	order     []*bucket
	drawables drawList

	registry  *ComponentRegistry
	resources *resource.Catalog
	log       zerolog.Logger

	depth    int
	commands *Commands
	stats    *dispatchStats
}

// NewEntitySystem creates an empty system. The registry resolves component tags
// when loading entities from XML and may be nil for systems that never load.
func NewEntitySystem(registry *ComponentRegistry, opts ...Option) *EntitySystem {
	s := &EntitySystem{
		entities: intmap.New[EntityID, *Entity](256),
		buckets:  make(map[reflect.Type]*bucket),
		registry: registry,
		log:      zerolog.Nop(),
		commands: newCommands(),
		stats:    newDispatchStats(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the component registry used for XML loading.
func (s *EntitySystem) Registry() *ComponentRegistry { return s.registry }

// Resources returns the resource catalog configured with WithResources, or nil.
func (s *EntitySystem) Resources() *resource.Catalog { return s.resources }

// Logger returns the system's logger.
func (s *EntitySystem) Logger() *zerolog.Logger { return &s.log }

// CreateEntity is shorthand for NewEntity(s, name...).
func (s *EntitySystem) CreateEntity(name ...string) *Entity {
	return NewEntity(s, name...)
}

// RegisterEntity assigns the next ID to e and stores it. An entity that already
// belongs to a system keeps its ID.
func (s *EntitySystem) RegisterEntity(e *Entity) EntityID {
	if e.system != nil {
		return e.id
	}
	s.nextID++
	e.system = s
	e.id = s.nextID
	s.entities.Put(e.id, e)

	s.log.Debug().Uint64("entity_id", uint64(e.id)).Str("name", e.name).Msg("entity registered")
	return e.id
}

// Entity returns the live entity with the given ID, or nil.
func (s *EntitySystem) Entity(id EntityID) *Entity {
	e, _ := s.entities.Get(id)
	return e
}

// EntityCount returns the number of live entities.
func (s *EntitySystem) EntityCount() int { return s.entities.Len() }

// Entities iterates live entities in ID order.
func (s *EntitySystem) Entities() iter.Seq[*Entity] {
	all := make([]*Entity, 0, s.entities.Len())
	for e := range s.entities.Values() {
		all = append(all, e)
	}
	slices.SortFunc(all, func(a, b *Entity) int { return cmp.Compare(a.id, b.id) })
	return slices.Values(all)
}

// FindEntity returns the first-registered live entity with the given name, or nil.
func (s *EntitySystem) FindEntity(name string) *Entity {
	var found *Entity
	s.entities.ForEach(func(id EntityID, e *Entity) bool {
		if e.name == name && (found == nil || id < found.id) {
			found = e
		}
		return true
	})
	return found
}

// RemoveEntity destroys e. See Entity.Destroy.
func (s *EntitySystem) RemoveEntity(e *Entity) {
	if e.system != s {
		return
	}
	e.Destroy()
}

func (s *EntitySystem) dropEntity(e *Entity) {
	s.entities.Del(e.id)
	s.log.Debug().Uint64("entity_id", uint64(e.id)).Msg("entity removed")
}

// RegisterComponent adds c to the bucket of its exact dynamic type and, when it is
// Drawable, to the draw list. During a dispatch phase the registration is queued.
func (s *EntitySystem) RegisterComponent(c Component) {
	if s.dispatching() {
		s.commands.register(c)
		return
	}
	s.registerComponent(c)
}

func (s *EntitySystem) registerComponent(c Component) {
	b := c.base()
	if b.index != nil {
		return
	}

	t := componentType(c)
	bk, ok := s.buckets[t]
	if !ok {
		bk = &bucket{typ: t}
		s.buckets[t] = bk
		s.order = append(s.order, bk)
	}
	bk.components = append(bk.components, c)
	b.index = s
	b.typ = t

	if d, ok := c.(Drawable); ok {
		s.drawables.insert(c, d)
	}

	s.log.Debug().
		Uint64("entity_id", uint64(b.owner)).
		Str("component", t.String()).
		Msg("component registered")
}

// DeregisterComponent removes c from its type bucket and the draw list.
// Deregistering a component that is not registered with s is a logged no-op and
// returns false. During a dispatch phase the removal of an indexed component is
// queued and true is returned; the component is not dispatched again in that phase.
func (s *EntitySystem) DeregisterComponent(c Component) bool {
	if s.dispatching() {
		b := c.base()
		if b.index != s || b.detaching {
			s.log.Warn().
				Str("component", componentType(c).String()).
				Msg("deregister: component is not registered")
			return false
		}
		b.detaching = true
		s.commands.deregister(c)
		return true
	}
	return s.deregisterComponent(c)
}

func (s *EntitySystem) deregisterComponent(c Component) bool {
	b := c.base()
	if b.index != s || b.typ == nil {
		s.log.Warn().
			Str("component", componentType(c).String()).
			Msg("deregister: component is not registered")
		return false
	}

	bk, ok := s.buckets[b.typ]
	if !ok {
		s.log.Warn().Str("component", b.typ.String()).Msg("deregister: no bucket for type")
		return false
	}
	idx := slices.Index(bk.components, c)
	if idx < 0 {
		s.log.Warn().Str("component", b.typ.String()).Msg("deregister: component missing from bucket")
		return false
	}
	bk.components = slices.Delete(bk.components, idx, idx+1)

	if _, ok := c.(Drawable); ok {
		s.drawables.remove(c)
	}

	s.log.Debug().
		Uint64("entity_id", uint64(b.owner)).
		Str("component", b.typ.String()).
		Msg("component deregistered")

	b.index = nil
	b.typ = nil
	b.detaching = false

	// Moved to an entity of another system while s was dispatching; that system
	// could not index it while s still held it.
	if b.system != nil && b.system != s {
		b.system.RegisterComponent(c)
	}
	return true
}

// Registered reports whether c currently sits in s's type index.
func (s *EntitySystem) Registered(c Component) bool {
	return c.base().index == s
}

// Components iterates the registered components whose dynamic type is exactly PT,
// in registration order.
func Components[T any, PT ComponentPtr[T]](s *EntitySystem) iter.Seq[PT] {
	return func(yield func(PT) bool) {
		bk, ok := s.buckets[reflect.TypeFor[PT]()]
		if !ok {
			return
		}
		for _, c := range slices.Clone(bk.components) {
			if !yield(c.(PT)) {
				return
			}
		}
	}
}

// Drawables iterates the registered drawables in draw order.
func (s *EntitySystem) Drawables() iter.Seq[Drawable] {
	return func(yield func(Drawable) bool) {
		for _, entry := range slices.Clone(s.drawables.entries) {
			if !yield(entry.drawable) {
				return
			}
		}
	}
}

// SortDrawables re-sorts the draw list, keeping insertion order among equal
// priorities. Call it after changing the priority of registered drawables.
// During a phase the sort runs when the phase returns.
func (s *EntitySystem) SortDrawables() {
	if s.dispatching() {
		s.commands.Defer(s.drawables.sort)
		return
	}
	s.drawables.sort()
}

// Defer queues fn to run when the current dispatch phase returns. Outside of a
// phase fn runs immediately.
func (s *EntitySystem) Defer(fn func()) {
	if s.dispatching() {
		s.commands.Defer(fn)
		return
	}
	fn()
}

// PendingCommands returns the number of changes queued for the end of the
// current phase.
func (s *EntitySystem) PendingCommands() int { return s.commands.Len() }

// InitializeComponents calls Initialize on every registered component, bucket by
// bucket in first-registration order. Active flags are not consulted.
func (s *EntitySystem) InitializeComponents() {
	s.dispatch(PhaseInitialize, func(c Component) {
		if attached(c) {
			c.Initialize()
		}
	})
}

// PreUpdate runs the PreUpdate hook of every live component.
func (s *EntitySystem) PreUpdate(dt float64) {
	s.dispatch(PhasePreUpdate, func(c Component) {
		if live(c) {
			c.PreUpdate(dt)
		}
	})
}

// Update runs the Update hook of every live component.
func (s *EntitySystem) Update(dt float64) {
	s.dispatch(PhaseUpdate, func(c Component) {
		if live(c) {
			c.Update(dt)
		}
	})
}

// PostUpdate runs the PostUpdate hook of every live component.
func (s *EntitySystem) PostUpdate(dt float64) {
	s.dispatch(PhasePostUpdate, func(c Component) {
		if live(c) {
			c.PostUpdate(dt)
		}
	})
}

// Draw calls Draw on every visible drawable in ascending priority order.
func (s *EntitySystem) Draw(dt float64, renderer Renderer) {
	start := time.Now()
	s.enter()
	defer func() {
		s.leave()
		s.stats.record(PhaseDraw, time.Since(start))
	}()

	for _, entry := range s.drawables.entries {
		if !attached(entry.component) {
			continue
		}
		if entry.drawable.Visible() {
			entry.drawable.Draw(dt, renderer)
		}
	}
}

// attached reports whether c is bound to an entity and not waiting to leave the
// index it is being dispatched from.
func attached(c Component) bool {
	b := c.base()
	return b.system != nil && !b.detaching
}

// live reports whether both c and its owning entity are active.
func live(c Component) bool {
	if !attached(c) || !c.Active() {
		return false
	}
	e := c.Entity()
	return e != nil && e.Active()
}

func (s *EntitySystem) dispatch(phase Phase, fn func(Component)) {
	start := time.Now()
	s.enter()
	defer func() {
		s.leave()
		s.stats.record(phase, time.Since(start))
	}()

	for _, bk := range s.order {
		for _, c := range bk.components {
			fn(c)
		}
	}
}

func (s *EntitySystem) dispatching() bool { return s.depth > 0 }

func (s *EntitySystem) enter() { s.depth++ }

func (s *EntitySystem) leave() {
	s.depth--
	if s.depth == 0 {
		s.commands.Flush(s)
	}
}
