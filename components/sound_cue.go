package components

import (
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/ladybug/ecs"
	"github.com/plus3/ladybug/resource"
)

// DefaultMixer is the catalog id SoundCue plays through when Mixer is empty.
const DefaultMixer = "default"

// SoundCue plays the catalog *beep.Buffer named Sound once, when components are
// initialized. The buffer is queued on the catalog *beep.Mixer named Mixer.
type SoundCue struct {
	ecs.BaseComponent
	Sound string `xml:"sound"`
	Mixer string `xml:"mixer,attr,omitempty"`

	played bool
}

func (s *SoundCue) Initialize() {
	if s.played {
		return
	}
	e := s.Entity()
	if e == nil {
		return
	}
	catalog := e.System().Resources()
	mixerID := s.Mixer
	if mixerID == "" {
		mixerID = DefaultMixer
	}

	buffer := resource.GetResource[*beep.Buffer](catalog, s.Sound)
	mixer := resource.GetResource[*beep.Mixer](catalog, mixerID)
	if buffer == nil || mixer == nil {
		e.System().Logger().Warn().
			Str("sound", s.Sound).
			Str("mixer", mixerID).
			Msg("sound cue skipped: resource not loaded")
		return
	}

	speaker.Lock()
	mixer.Add(buffer.Streamer(0, buffer.Len()))
	speaker.Unlock()
	s.played = true
}

// Played reports whether the cue has been queued.
func (s *SoundCue) Played() bool { return s.played }
