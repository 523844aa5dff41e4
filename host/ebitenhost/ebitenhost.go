// Package ebitenhost runs an EntitySystem as an ebiten.Game.
package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/ladybug/ecs"
	debugui_ebiten "github.com/plus3/ladybug/ecs/debugui/ebiten"
)

// Game implements ebiten.Game. Update runs the three update phases with a fixed
// delta of one tick; Draw runs the draw pass with the screen image as renderer.
type Game struct {
	system *ecs.EntitySystem
	imgui  *debugui_ebiten.ImguiBackend

	initialized bool
	quitKey     ebiten.Key
	width       int
	height      int
}

// Option configures a Game.
type Option func(*Game)

// WithImgui opens an ImGui frame around every draw pass and renders it on top.
func WithImgui(backend *debugui_ebiten.ImguiBackend) Option {
	return func(g *Game) { g.imgui = backend }
}

// WithQuitKey sets the key that terminates the game. The default is Escape.
func WithQuitKey(key ebiten.Key) Option {
	return func(g *Game) { g.quitKey = key }
}

// WithLayout fixes the logical screen size. By default the outside size is used.
func WithLayout(width, height int) Option {
	return func(g *Game) {
		g.width = width
		g.height = height
	}
}

// New creates a game driving system.
func New(system *ecs.EntitySystem, opts ...Option) *Game {
	g := &Game{
		system:  system,
		quitKey: ebiten.KeyEscape,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DeltaTime returns the fixed frame delta in seconds.
func (g *Game) DeltaTime() float64 {
	return 1.0 / float64(ebiten.TPS())
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(g.quitKey) {
		return ebiten.Termination
	}
	g.Step(g.DeltaTime())
	return nil
}

// Step runs InitializeComponents on the first call, then the update phases.
func (g *Game) Step(dt float64) {
	if !g.initialized {
		g.system.InitializeComponents()
		g.initialized = true
	}
	g.system.PreUpdate(dt)
	g.system.Update(dt)
	g.system.PostUpdate(dt)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.imgui != nil {
		g.imgui.BeginFrame()
	}
	g.system.Draw(g.DeltaTime(), screen)
	if g.imgui != nil {
		g.imgui.EndFrame()
		g.imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	if g.width > 0 && g.height > 0 {
		return g.width, g.height
	}
	return outsideWidth, outsideHeight
}

// Run opens a resizable window and blocks until the game terminates.
func (g *Game) Run(title string, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
