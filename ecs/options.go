package ecs

import (
	"github.com/plus3/ladybug/resource"
	"github.com/rs/zerolog"
)

// Option configures an EntitySystem.
type Option func(*EntitySystem)

// WithLogger replaces the default no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *EntitySystem) {
		s.log = logger.With().Str("module", "ecs").Logger()
	}
}

// WithResources attaches a resource catalog that components can reach through
// Entity().System().Resources().
func WithResources(catalog *resource.Catalog) Option {
	return func(s *EntitySystem) {
		s.resources = catalog
	}
}
