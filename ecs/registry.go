package ecs

import (
	"reflect"
	"sort"
)

// ComponentRegistry maps XML element tags to component factories.
// Each EntitySystem is handed its own registry, allowing multiple independent
// systems to coexist with different component sets.
type ComponentRegistry struct {
	factories map[string]func() Component
	tags      map[reflect.Type]string
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[string]func() Component),
		tags:      make(map[reflect.Type]string),
	}
}

// RegisterComponent registers component type T under tag, or under the default
// tag (the Go type name, e.g. "components.Transform") when no tag is given.
// Types whose default name is not a valid XML name, such as instantiated generics,
// must be given an explicit tag.
func RegisterComponent[T any, PT ComponentPtr[T]](r *ComponentRegistry, tag ...string) {
	name := reflect.TypeFor[T]().String()
	if len(tag) > 0 && tag[0] != "" {
		name = tag[0]
	}
	r.factories[name] = func() Component {
		return PT(new(T))
	}
	r.tags[reflect.TypeFor[PT]()] = name
}

// Lookup builds a default instance of the component registered under tag.
func (r *ComponentRegistry) Lookup(tag string) (Component, bool) {
	if r == nil {
		return nil, false
	}
	factory, ok := r.factories[tag]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// TagOf returns the tag c is written under. Unregistered types use their default tag.
func (r *ComponentRegistry) TagOf(c Component) string {
	t := componentType(c)
	if r != nil {
		if tag, ok := r.tags[t]; ok {
			return tag
		}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// Tags returns every registered tag, sorted.
func (r *ComponentRegistry) Tags() []string {
	if r == nil {
		return nil
	}
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
