package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ladybug/components"
	"github.com/plus3/ladybug/ecs"
	"github.com/plus3/ladybug/ecs/debugui"
	debugui_ebiten "github.com/plus3/ladybug/ecs/debugui/ebiten"
	"github.com/plus3/ladybug/host/ebitenhost"
	"github.com/plus3/ladybug/host/termhost"
	"github.com/plus3/ladybug/resource"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

const audioSampleRate = beep.SampleRate(44100)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [entity.xml...]",
		Short: "Load entities and run them in a window or terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args)
		},
	}
	cmd.Flags().BoolP("terminal", "t", false, "render in the terminal instead of a window")
	cmd.Flags().Int("fps", 60, "target frames per second in terminal mode")
	cmd.Flags().Bool("debug", false, "show the ImGui debug windows (window mode only)")
	cmd.Flags().Bool("audio", false, "open the audio device for sound cues")
	return cmd
}

func (a *app) run(ctx context.Context, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := a.loadAssets(ctx)
	if err != nil {
		return err
	}

	if a.cfg.Audio {
		if err := speaker.Init(audioSampleRate, audioSampleRate.N(time.Second/10)); err != nil {
			a.log.Warn().Err(err).Msg("audio disabled")
		} else {
			defer speaker.Close()
			mixer := &beep.Mixer{}
			speaker.Play(mixer)
			resource.Put(catalog, components.DefaultMixer, mixer)
		}
	}

	system := ecs.NewEntitySystem(newRegistry(), ecs.WithLogger(a.log), ecs.WithResources(catalog))
	files = append(append([]string{}, a.cfg.Entities...), files...)
	for _, path := range files {
		e, err := ecs.LoadFromXML(system, path)
		if err != nil {
			return err
		}
		a.log.Info().Uint64("entity_id", uint64(e.ID())).Str("file", path).Int("components", e.Len()).Msg("entity loaded")
	}
	if len(files) == 0 {
		spawnDemo(system, a.cfg.Terminal)
	}

	if a.cfg.Terminal {
		return a.runTerminal(ctx, system)
	}
	return a.runWindow(system)
}

func (a *app) loadAssets(ctx context.Context) (*resource.Catalog, error) {
	catalog := resource.NewCatalog()
	fsys := os.DirFS(a.cfg.AssetDir)
	resource.RegisterLoader(catalog, resource.ImageLoader(fsys))
	resource.RegisterLoader(catalog, resource.WAVLoader(fsys))

	requests := make([]resource.Request, 0, len(a.cfg.Assets))
	for _, asset := range a.cfg.Assets {
		switch asset.Kind {
		case "image":
			if a.cfg.Terminal {
				continue
			}
			requests = append(requests, resource.NewRequest[*ebiten.Image](asset.ID, asset.Path))
		case "sound":
			requests = append(requests, resource.NewRequest[*beep.Buffer](asset.ID, asset.Path))
		default:
			return nil, eris.Errorf("asset %q: unknown kind %q", asset.ID, asset.Kind)
		}
	}

	if err := catalog.Preload(ctx, a.cfg.Workers, requests...); err != nil {
		return nil, eris.Wrap(err, "preload assets")
	}
	a.log.Debug().Int("assets", catalog.Len()).Msg("assets loaded")
	return catalog, nil
}

func (a *app) runTerminal(ctx context.Context, system *ecs.EntitySystem) error {
	screen, err := termhost.NewScreen()
	if err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return termhost.New(screen, system, termhost.WithFPS(a.cfg.FPS)).Run(ctx)
}

func (a *app) runWindow(system *ecs.EntitySystem) error {
	w := a.cfg.Window
	var opts []ebitenhost.Option
	if a.cfg.Debug {
		backend := debugui_ebiten.NewImguiBackend(w.Title, w.Width, w.Height)
		debugui.Spawn(system)
		opts = append(opts, ebitenhost.WithImgui(backend))
	}
	return ebitenhost.New(system, opts...).Run(w.Title, w.Width, w.Height)
}

// spawnDemo fills an empty system with a few drifting, expiring glyphs.
func spawnDemo(system *ecs.EntitySystem, terminal bool) {
	const count = 12
	scale := 40.0
	if terminal {
		scale = 1
	}
	for i := range count {
		e := system.CreateEntity("mote")
		t := ecs.AddComponent[components.Transform](e)
		t.X = float64(5+i*3) * scale
		t.Y = float64(3+i%5) * scale
		v := ecs.AddComponent[components.Velocity](e)
		v.DX = (rand.Float64() - 0.5) * 4 * scale
		v.DY = (rand.Float64() - 0.5) * 2 * scale
		g := ecs.AddComponent[components.Glyph](e)
		g.Char = string(rune('a' + i))
		g.Color = "green"
		g.Priority = i
		l := ecs.AddComponent[components.Lifetime](e)
		l.Remaining = 5 + float64(i)
	}
}
