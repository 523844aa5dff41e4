package components

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ladybug/ecs"
	"github.com/plus3/ladybug/resource"
)

// Sprite draws the catalog image named Image at the entity's Transform when the
// renderer is an *ebiten.Image.
type Sprite struct {
	ecs.BaseComponent
	ecs.DrawState
	Image string  `xml:"image"`
	Scale float64 `xml:"scale,omitempty"`

	image *ebiten.Image
}

// Initialize resolves Image from the system's resource catalog.
func (s *Sprite) Initialize() {
	e := s.Entity()
	if e == nil {
		return
	}
	s.image = resource.GetResource[*ebiten.Image](e.System().Resources(), s.Image)
	if s.image == nil {
		e.System().Logger().Warn().Str("image", s.Image).Msg("sprite image not loaded")
	}
}

// Loaded reports whether Initialize found the image.
func (s *Sprite) Loaded() bool { return s.image != nil }

func (s *Sprite) Draw(dt float64, r ecs.Renderer) {
	screen, ok := r.(*ebiten.Image)
	if !ok || s.image == nil {
		return
	}
	t := transformOf(s)
	if t == nil {
		return
	}

	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	bounds := s.image.Bounds()
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(-float64(bounds.Dx())/2, -float64(bounds.Dy())/2)
	opts.GeoM.Scale(scale, scale)
	opts.GeoM.Rotate(t.Rotation)
	opts.GeoM.Translate(t.X, t.Y)
	screen.DrawImage(s.image, opts)
}
