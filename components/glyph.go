package components

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/plus3/ladybug/ecs"
)

// CellWriter is the part of tcell.Screen a Glyph draws through.
type CellWriter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Glyph draws a single character at the entity's Transform. On a tcell.Screen one
// world unit is one cell; on an *ebiten.Image it is one pixel and the debug font
// is used.
type Glyph struct {
	ecs.BaseComponent
	ecs.DrawState
	Char  string `xml:"char,attr"`
	Color string `xml:"color,attr,omitempty"`
	Bold  bool   `xml:"bold,attr,omitempty"`
}

// Style returns the tcell style described by Color and Bold.
func (g *Glyph) Style() tcell.Style {
	style := tcell.StyleDefault
	if g.Color != "" {
		style = style.Foreground(tcell.GetColor(g.Color))
	}
	return style.Bold(g.Bold)
}

func (g *Glyph) Draw(dt float64, r ecs.Renderer) {
	t := transformOf(g)
	if t == nil {
		return
	}
	x, y := int(math.Round(t.X)), int(math.Round(t.Y))

	switch target := r.(type) {
	case *ebiten.Image:
		ebitenutil.DebugPrintAt(target, g.Char, x, y)
	case CellWriter:
		ch := ' '
		for _, c := range g.Char {
			ch = c
			break
		}
		target.SetContent(x, y, ch, nil, g.Style())
	}
}
