package resource

import (
	"io/fs"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rotisserie/eris"
)

// ImageLoader decodes PNG, JPEG or GIF files from fsys into ebiten images.
func ImageLoader(fsys fs.FS) Loader[*ebiten.Image] {
	return func(source string) (*ebiten.Image, error) {
		img, _, err := ebitenutil.NewImageFromFileSystem(fsys, source)
		if err != nil {
			return nil, eris.Wrapf(err, "decode image %s", source)
		}
		return img, nil
	}
}

// WAVLoader decodes WAV files from fsys into in-memory beep buffers.
func WAVLoader(fsys fs.FS) Loader[*beep.Buffer] {
	return func(source string) (*beep.Buffer, error) {
		f, err := fsys.Open(source)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", source)
		}
		defer f.Close()

		streamer, format, err := wav.Decode(f)
		if err != nil {
			return nil, eris.Wrapf(err, "decode wav %s", source)
		}
		defer streamer.Close()

		buffer := beep.NewBuffer(format)
		buffer.Append(streamer)
		return buffer, nil
	}
}
