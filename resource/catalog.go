// Package resource is a typed asset cache keyed by Go type and identifier.
// Assets are produced by loaders registered per type; loading the same
// identifier twice is a no-op and lookups of missing assets return the zero value.
package resource

import (
	"context"
	"errors"
	"reflect"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/rotisserie/eris"
)

var ErrNoLoader = eris.New("no loader registered for resource type")

// Loader produces a resource of type T from a source path.
type Loader[T any] func(source string) (T, error)

type typeKey struct {
	typ reflect.Type
}

func (k typeKey) String() string { return k.typ.String() }

type entryKey struct {
	typ reflect.Type
	id  string
}

func (k entryKey) String() string { return k.typ.String() + "#" + k.id }

// Catalog holds loaded resources. It is safe for concurrent use.
type Catalog struct {
	entries cmap.ConcurrentMap[entryKey, any]
	loaders cmap.ConcurrentMap[typeKey, any]
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: cmap.NewStringer[entryKey, any](),
		loaders: cmap.NewStringer[typeKey, any](),
	}
}

// RegisterLoader sets the loader used for resources of type T.
func RegisterLoader[T any](c *Catalog, loader Loader[T]) {
	c.loaders.Set(typeKey{typ: reflect.TypeFor[T]()}, loader)
}

// LoadResource loads the resource of type T named id from source, unless a
// resource of that type and id is already present.
func LoadResource[T any](c *Catalog, id, source string) error {
	key := entryKey{typ: reflect.TypeFor[T](), id: id}
	if c.entries.Has(key) {
		return nil
	}

	raw, ok := c.loaders.Get(typeKey{typ: key.typ})
	if !ok {
		return eris.Wrapf(ErrNoLoader, "%s", key.typ)
	}
	loader := raw.(Loader[T])

	value, err := loader(source)
	if err != nil {
		return eris.Wrapf(err, "load %s from %s", key, source)
	}
	c.entries.SetIfAbsent(key, value)
	return nil
}

// Put stores value under id, replacing any resource of the same type and id.
func Put[T any](c *Catalog, id string, value T) {
	c.entries.Set(entryKey{typ: reflect.TypeFor[T](), id: id}, value)
}

// GetResource returns the resource of type T named id, or the zero value of T
// when it has not been loaded.
func GetResource[T any](c *Catalog, id string) T {
	var zero T
	if c == nil {
		return zero
	}
	value, ok := c.entries.Get(entryKey{typ: reflect.TypeFor[T](), id: id})
	if !ok {
		return zero
	}
	typed, ok := value.(T)
	if !ok {
		return zero
	}
	return typed
}

// Has reports whether a resource of type T named id is present.
func Has[T any](c *Catalog, id string) bool {
	if c == nil {
		return false
	}
	return c.entries.Has(entryKey{typ: reflect.TypeFor[T](), id: id})
}

// Len returns the number of stored resources.
func (c *Catalog) Len() int { return c.entries.Count() }

// Request describes one resource to preload.
type Request struct {
	ID     string
	Source string
	load   func(c *Catalog) error
}

// NewRequest builds a preload request for a resource of type T.
func NewRequest[T any](id, source string) Request {
	return Request{
		ID:     id,
		Source: source,
		load: func(c *Catalog) error {
			return LoadResource[T](c, id, source)
		},
	}
}

// Preload loads every request on a pool of workers goroutines and returns the
// joined load errors. Requests not yet started when ctx is cancelled are dropped.
func (c *Catalog) Preload(ctx context.Context, workers int, requests ...Request) error {
	if len(requests) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return eris.Wrap(err, "create preload pool")
	}
	defer pool.Release()

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for _, req := range requests {
		if ctx.Err() != nil {
			fail(eris.Wrap(ctx.Err(), "preload cancelled"))
			break
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if err := req.load(c); err != nil {
				fail(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(eris.Wrapf(submitErr, "submit %s", req.ID))
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}
