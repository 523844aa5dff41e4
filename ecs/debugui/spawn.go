package debugui

import "github.com/plus3/ladybug/ecs"

// Spawn creates an entity named "debugui" carrying every debug window.
func Spawn(system *ecs.EntitySystem) *ecs.Entity {
	e := system.CreateEntity("debugui")
	e.AddComponent(NewEntityBrowser(100))
	e.AddComponent(NewComponentInspector())
	e.AddComponent(NewBucketViewer())
	e.AddComponent(NewPerformanceStats(120))
	e.AddComponent(&InputState{})
	return e
}

// Register adds the debug window components to r so they survive an XML round trip.
func Register(r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[EntityBrowser](r)
	ecs.RegisterComponent[ComponentInspector](r)
	ecs.RegisterComponent[BucketViewer](r)
	ecs.RegisterComponent[PerformanceStats](r)
	ecs.RegisterComponent[InputState](r)
	ecs.RegisterComponent[Panel](r)
}
