package resource_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/gopxl/beep"
	"github.com/plus3/ladybug/resource"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type palette struct {
	Colors []string
}

func upperLoader(calls *atomic.Int32) resource.Loader[string] {
	return func(source string) (string, error) {
		calls.Add(1)
		if source == "" {
			return "", errors.New("empty source")
		}
		return strings.ToUpper(source), nil
	}
}

func TestLoadResource(t *testing.T) {
	c := resource.NewCatalog()
	var calls atomic.Int32
	resource.RegisterLoader(c, upperLoader(&calls))

	require.NoError(t, resource.LoadResource[string](c, "greeting", "hello"))
	assert.Equal(t, "HELLO", resource.GetResource[string](c, "greeting"))
	assert.True(t, resource.Has[string](c, "greeting"))
	assert.Equal(t, 1, c.Len())

	t.Run("second load is a no-op", func(t *testing.T) {
		require.NoError(t, resource.LoadResource[string](c, "greeting", "other"))
		assert.Equal(t, "HELLO", resource.GetResource[string](c, "greeting"))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("loader error", func(t *testing.T) {
		err := resource.LoadResource[string](c, "blank", "")
		require.Error(t, err)
		assert.False(t, resource.Has[string](c, "blank"))
	})
}

func TestGetResourceMissing(t *testing.T) {
	c := resource.NewCatalog()

	assert.Equal(t, "", resource.GetResource[string](c, "missing"))
	assert.Nil(t, resource.GetResource[*palette](c, "missing"))
	assert.Nil(t, resource.GetResource[*palette](nil, "missing"))

	resource.Put(c, "shared", "text")
	assert.Nil(t, resource.GetResource[*palette](c, "shared"), "same id under another type is a different resource")
}

func TestLoadResourceWithoutLoader(t *testing.T) {
	c := resource.NewCatalog()

	err := resource.LoadResource[*palette](c, "warm", "warm.txt")
	require.Error(t, err)
	assert.True(t, eris.Is(err, resource.ErrNoLoader))
}

func TestPut(t *testing.T) {
	c := resource.NewCatalog()
	p := &palette{Colors: []string{"red"}}
	resource.Put(c, "warm", p)

	assert.Same(t, p, resource.GetResource[*palette](c, "warm"))

	replacement := &palette{Colors: []string{"orange"}}
	resource.Put(c, "warm", replacement)
	assert.Same(t, replacement, resource.GetResource[*palette](c, "warm"))
}

func TestPreload(t *testing.T) {
	c := resource.NewCatalog()
	var calls atomic.Int32
	resource.RegisterLoader(c, upperLoader(&calls))

	requests := []resource.Request{
		resource.NewRequest[string]("a", "alpha"),
		resource.NewRequest[string]("b", "beta"),
		resource.NewRequest[string]("c", "gamma"),
		resource.NewRequest[string]("d", "delta"),
	}
	require.NoError(t, c.Preload(context.Background(), 2, requests...))

	assert.Equal(t, "ALPHA", resource.GetResource[string](c, "a"))
	assert.Equal(t, "DELTA", resource.GetResource[string](c, "d"))
	assert.Equal(t, int32(4), calls.Load())
}

func TestPreloadJoinsErrors(t *testing.T) {
	c := resource.NewCatalog()
	var calls atomic.Int32
	resource.RegisterLoader(c, upperLoader(&calls))

	err := c.Preload(context.Background(), 4,
		resource.NewRequest[string]("ok", "fine"),
		resource.NewRequest[string]("bad", ""),
		resource.NewRequest[*palette]("nope", "nope.txt"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no loader")
	assert.Contains(t, err.Error(), "empty source")
	assert.Equal(t, "FINE", resource.GetResource[string](c, "ok"))
}

func TestPreloadCancelled(t *testing.T) {
	c := resource.NewCatalog()
	var calls atomic.Int32
	resource.RegisterLoader(c, upperLoader(&calls))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Preload(ctx, 1, resource.NewRequest[string]("a", "alpha"))
	require.Error(t, err)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, resource.Has[string](c, "a"))
}

// pcmWAV builds a 16-bit mono PCM file holding samples.
func pcmWAV(sampleRate int32, samples []int16) []byte {
	var data bytes.Buffer
	_ = binary.Write(&data, binary.LittleEndian, samples)

	var buf bytes.Buffer
	w := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }
	buf.WriteString("RIFF")
	w(int32(36 + data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	w(int32(16))
	w(int16(1))
	w(int16(1))
	w(sampleRate)
	w(sampleRate * 2)
	w(int16(2))
	w(int16(16))
	buf.WriteString("data")
	w(int32(data.Len()))
	buf.Write(data.Bytes())
	return buf.Bytes()
}

func TestWAVLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"sfx/blip.wav": &fstest.MapFile{Data: pcmWAV(8000, []int16{0, 1000, -1000, 0})},
		"sfx/bad.wav":  &fstest.MapFile{Data: []byte("not a wav file")},
	}
	c := resource.NewCatalog()
	resource.RegisterLoader(c, resource.WAVLoader(fsys))

	require.NoError(t, resource.LoadResource[*beep.Buffer](c, "blip", "sfx/blip.wav"))
	buffer := resource.GetResource[*beep.Buffer](c, "blip")
	require.NotNil(t, buffer)
	assert.Equal(t, 4, buffer.Len())
	assert.Equal(t, beep.SampleRate(8000), buffer.Format().SampleRate)

	assert.Error(t, resource.LoadResource[*beep.Buffer](c, "bad", "sfx/bad.wav"))
	assert.Error(t, resource.LoadResource[*beep.Buffer](c, "missing", "sfx/missing.wav"))
	assert.Nil(t, resource.GetResource[*beep.Buffer](c, "missing"))
}
