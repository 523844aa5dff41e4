// Package debugui provides Dear ImGui debug windows for ladybug entity systems.
// Every window is a drawable component: attach them to an entity and any host that
// opens an ImGui frame around the draw pass renders them.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ladybug/ecs"
)

// OverlayPriority draws the debug windows after regular drawables.
const OverlayPriority = 1 << 20

// Panel is a drawable component that runs a Dear ImGui render function during
// the draw pass.
type Panel struct {
	ecs.BaseComponent
	ecs.DrawState
	Render func() `xml:"-"`
}

// NewPanel wraps render in an overlay-priority panel.
func NewPanel(render func()) *Panel {
	p := &Panel{Render: render}
	p.Priority = OverlayPriority
	return p
}

func (p *Panel) Draw(dt float64, r ecs.Renderer) {
	if p.Render != nil {
		p.Render()
	}
}

// InputState tracks Dear ImGui's input capture state.
// Game components check it before reacting to mouse or keyboard input.
type InputState struct {
	ecs.BaseComponent
	WantCaptureMouse    bool `xml:"-"`
	WantCaptureKeyboard bool `xml:"-"`
}

func (s *InputState) PreUpdate(dt float64) {
	io := imgui.CurrentIO()
	s.WantCaptureMouse = io.WantCaptureMouse()
	s.WantCaptureKeyboard = io.WantCaptureKeyboard()
}

func systemOf(c ecs.Component) *ecs.EntitySystem {
	e := c.Entity()
	if e == nil {
		return nil
	}
	return e.System()
}
