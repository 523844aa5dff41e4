package ecs

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Logger dumps registry state as structured zerolog events.
type Logger struct {
	*zerolog.Logger
}

// NewLogger wraps logger.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{Logger: &logger}
}

func (l *Logger) loadBucketsIntoEvent(event *zerolog.Event, s *EntitySystem) *zerolog.Event {
	stats := s.CollectStats()
	event.Int("total_entities", stats.EntityCount)
	event.Int("total_components", stats.ComponentCount)
	event.Int("total_drawables", stats.DrawableCount)
	arrayLogger := zerolog.Arr()
	for _, bk := range stats.Buckets {
		arrayLogger = arrayLogger.Dict(zerolog.Dict().
			Str("component_type", bk.Type).
			Int("count", bk.Count))
	}
	return event.Array("buckets", arrayLogger)
}

func (l *Logger) loadEntityIntoEvent(event *zerolog.Event, e *Entity) *zerolog.Event {
	arrayLogger := zerolog.Arr()
	for _, c := range e.components {
		arrayLogger = arrayLogger.Dict(zerolog.Dict().
			Str("component_type", componentType(c).String()).
			Str("component_name", c.Name()).
			Bool("active", c.Active()))
	}
	return event.
		Uint64("entity_id", uint64(e.id)).
		Str("entity_name", e.name).
		Bool("active", e.Active()).
		Array("components", arrayLogger)
}

// LogSystem logs entity, component and drawable totals and the type buckets.
func (l *Logger) LogSystem(s *EntitySystem, level zerolog.Level) {
	event := l.WithLevel(level)
	event = l.loadBucketsIntoEvent(event, s)
	event.Send()
}

// LogEntity logs an entity and its components given an entity ID.
func (l *Logger) LogEntity(s *EntitySystem, level zerolog.Level, id EntityID) error {
	e := s.Entity(id)
	if e == nil {
		return eris.Wrapf(ErrEntityNotFound, "entity %d", id)
	}
	event := l.WithLevel(level)
	event = l.loadEntityIntoEvent(event, e)
	event.Send()
	return nil
}

// LogPhases logs the dispatch timing statistics of every phase.
func (l *Logger) LogPhases(s *EntitySystem, level zerolog.Level) {
	stats := s.PhaseStats()
	arrayLogger := zerolog.Arr()
	for _, phase := range stats.Phases {
		arrayLogger = arrayLogger.Dict(zerolog.Dict().
			Str("phase", phase.Phase.String()).
			Int64("executions", phase.ExecutionCount).
			Dur("avg", phase.AvgDuration).
			Dur("max", phase.MaxDuration))
	}
	l.WithLevel(level).
		Int64("total_executions", stats.TotalExecutions).
		Array("phases", arrayLogger).
		Send()
}
