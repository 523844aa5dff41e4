package ecs

import (
	"sort"
	"time"
)

// Phase identifies one step of the frame lifecycle.
type Phase int

const (
	PhaseInitialize Phase = iota
	PhasePreUpdate
	PhaseUpdate
	PhasePostUpdate
	PhaseDraw
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialize:
		return "Initialize"
	case PhasePreUpdate:
		return "PreUpdate"
	case PhaseUpdate:
		return "Update"
	case PhasePostUpdate:
		return "PostUpdate"
	case PhaseDraw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// DispatchStats provides timing statistics for every lifecycle phase.
type DispatchStats struct {
	TotalExecutions int64
	Phases          []PhaseStats
}

// PhaseStats provides execution statistics for a single phase.
type PhaseStats struct {
	Phase          Phase
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type phaseStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type dispatchStats struct {
	phases [phaseCount]phaseStatsInternal
}

func newDispatchStats() *dispatchStats {
	ds := &dispatchStats{}
	for i := range ds.phases {
		ds.phases[i].minDuration = time.Duration(1<<63 - 1)
	}
	return ds
}

func (ds *dispatchStats) record(phase Phase, duration time.Duration) {
	stats := &ds.phases[phase]
	stats.executionCount++
	stats.lastDuration = duration
	stats.totalDuration += duration

	if duration < stats.minDuration {
		stats.minDuration = duration
	}
	if duration > stats.maxDuration {
		stats.maxDuration = duration
	}
}

// PhaseStats returns timing statistics for every phase dispatched so far.
func (s *EntitySystem) PhaseStats() *DispatchStats {
	stats := &DispatchStats{
		Phases: make([]PhaseStats, phaseCount),
	}

	var totalExecs int64
	for i, internal := range s.stats.phases {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Phases[i] = PhaseStats{
			Phase:          Phase(i),
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}

// Stats is a snapshot of the registry contents.
type Stats struct {
	EntityCount    int
	ComponentCount int
	DrawableCount  int
	BucketCount    int
	Buckets        []BucketStats
}

// BucketStats describes one type bucket of the component index.
type BucketStats struct {
	Type  string
	Count int
}

// CollectStats walks the registry and reports entity, component and drawable counts.
// Buckets are listed in dispatch order.
func (s *EntitySystem) CollectStats() Stats {
	stats := Stats{
		EntityCount:   s.entities.Len(),
		DrawableCount: s.drawables.len(),
		BucketCount:   len(s.order),
		Buckets:       make([]BucketStats, 0, len(s.order)),
	}
	for _, bk := range s.order {
		stats.ComponentCount += len(bk.components)
		stats.Buckets = append(stats.Buckets, BucketStats{
			Type:  bk.typ.String(),
			Count: len(bk.components),
		})
	}
	return stats
}

// BucketTypes returns the type names of every bucket, sorted by name.
func (s *EntitySystem) BucketTypes() []string {
	names := make([]string, 0, len(s.order))
	for _, bk := range s.order {
		names = append(names, bk.typ.String())
	}
	sort.Strings(names)
	return names
}
