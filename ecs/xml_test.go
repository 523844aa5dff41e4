package ecs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/plus3/ladybug/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, s *ecs.EntitySystem, e *ecs.Entity) *ecs.Entity {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, e.WriteXML(&buf))
	loaded, err := ecs.ReadXML(s, &buf)
	require.NoError(t, err)
	return loaded
}

func componentTypes(e *ecs.Entity) []reflect.Type {
	var types []reflect.Type
	for _, c := range e.Components() {
		types = append(types, reflect.TypeOf(c))
	}
	return types
}

func TestXMLRoundTripEmpty(t *testing.T) {
	s := newTestSystem()
	e := s.CreateEntity("empty")

	loaded := roundTrip(t, s, e)

	assert.Equal(t, "empty", loaded.Name())
	assert.Zero(t, loaded.Len())
	assert.NotEqual(t, e.ID(), loaded.ID(), "loading assigns a fresh ID")
}

func TestXMLRoundTripSingle(t *testing.T) {
	s := newTestSystem()
	e := s.CreateEntity("single")
	p := ecs.AddComponent[Position](e)
	p.X, p.Y = 1.5, -3

	loaded := roundTrip(t, s, e)

	require.Equal(t, 1, loaded.Len())
	lp := ecs.GetComponent[Position](loaded)
	require.NotNil(t, lp)
	assert.Equal(t, 1.5, lp.X)
	assert.Equal(t, -3.0, lp.Y)
	assert.Same(t, loaded, lp.Entity())
	assert.True(t, s.Registered(lp))
}

func TestXMLRoundTripMany(t *testing.T) {
	s := newTestSystem()
	e := s.CreateEntity("ship")
	p := ecs.AddComponent[Position](e, "anchor")
	p.X, p.Y = 10, 20
	v := ecs.AddComponent[Velocity](e)
	v.DX = 2
	h := ecs.AddComponent[Health](e)
	h.Current, h.Max = 7, 10
	h.SetActive(false)
	ecs.AddComponent[Marker](e)
	sp := ecs.AddComponent[SpecialPosition](e)
	sp.X, sp.Layer = 5, 3
	sprite := newSprite(nil, "hull", 4)
	sprite.SetVisible(false)
	e.AddComponent(sprite)

	loaded := roundTrip(t, s, e)

	assert.Equal(t, componentTypes(e), componentTypes(loaded), "same types in the same order")

	lp := ecs.GetComponent[Position](loaded)
	assert.Equal(t, "anchor", lp.Name())
	assert.Equal(t, [2]float64{10, 20}, [2]float64{lp.X, lp.Y})

	assert.Equal(t, 2.0, ecs.GetComponent[Velocity](loaded).DX)

	lh := ecs.GetComponent[Health](loaded)
	assert.Equal(t, 7, lh.Current)
	assert.Equal(t, 10, lh.Max)
	assert.False(t, lh.Active())

	lsp := ecs.GetComponent[SpecialPosition](loaded)
	assert.Equal(t, 5.0, lsp.X)
	assert.Equal(t, 3, lsp.Layer)

	ls := ecs.GetComponent[Sprite](loaded)
	assert.Equal(t, "hull", ls.Label)
	assert.Equal(t, 4, ls.DrawPriority())
	assert.False(t, ls.Visible())

	for _, c := range loaded.Components() {
		assert.Same(t, loaded, c.Entity())
		assert.True(t, s.Registered(c))
	}
	assert.Equal(t, 2, s.CollectStats().DrawableCount)
}

func TestXMLDocumentShape(t *testing.T) {
	s := newTestSystem()
	e := s.CreateEntity("probe")
	p := ecs.AddComponent[Position](e)
	p.X = 1

	var buf bytes.Buffer
	require.NoError(t, e.WriteXML(&buf))
	doc := buf.String()

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, `<Entity id="1" name="probe">`)
	assert.Contains(t, doc, `<ecs_test.Position>`)
	assert.Contains(t, doc, `<x>1</x>`)
}

func TestSaveAndLoadFile(t *testing.T) {
	s := newTestSystem()
	e := s.CreateEntity("disk")
	h := ecs.AddComponent[Health](e)
	h.Current = 3

	path := filepath.Join(t.TempDir(), "disk.xml")
	require.NoError(t, e.SaveToXML(path))

	loaded, err := ecs.LoadFromXML(s, path)
	require.NoError(t, err)
	assert.Equal(t, 3, ecs.GetComponent[Health](loaded).Current)

	_, err = ecs.LoadFromXML(s, filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestReadXMLSkipsUnknownTags(t *testing.T) {
	s := newTestSystem()
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<Entity id="42" name="mixed">
  <Bogus><deep><deeper>1</deeper></deep></Bogus>
  <ecs_test.Position><x>1</x><y>2</y></ecs_test.Position>
  <AlsoUnknown/>
  <ecs_test.Marker></ecs_test.Marker>
</Entity>`

	e, err := ecs.ReadXML(s, strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "mixed", e.Name())
	assert.Equal(t, ecs.EntityID(1), e.ID())
	require.Equal(t, 2, e.Len())
	assert.Equal(t, 2.0, ecs.GetComponent[Position](e).Y)
	assert.NotNil(t, ecs.GetComponent[Marker](e))
}

func TestReadXMLSkipsUndecodableComponent(t *testing.T) {
	s := newTestSystem()
	doc := `<Entity name="partial">
  <ecs_test.Health><current>lots</current></ecs_test.Health>
  <ecs_test.Position><x>4</x></ecs_test.Position>
</Entity>`

	e, err := ecs.ReadXML(s, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Nil(t, ecs.GetComponent[Health](e))
	assert.Equal(t, 4.0, ecs.GetComponent[Position](e).X)
}

func TestReadXMLInvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"wrong root", `<Thing><ecs_test.Position/></Thing>`},
		{"truncated", `<Entity name="x"><ecs_test.Position><x>1</x>`},
		{"mismatched tags", `<Entity><ecs_test.Position></ecs_test.Marker></Entity>`},
		{"not xml", `entity: yaml`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem()

			e, err := ecs.ReadXML(s, strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, eris.Is(err, ecs.ErrInvalidDocument))
			assert.Nil(t, e)
			assert.Zero(t, s.EntityCount(), "no entity is created")
			assert.Zero(t, s.CollectStats().ComponentCount)
		})
	}
}

func TestLoadFromXMLInvalidFile(t *testing.T) {
	s := newTestSystem()
	path := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(path, []byte("<Entity>"), 0o600))

	_, err := ecs.LoadFromXML(s, path)
	assert.True(t, eris.Is(err, ecs.ErrInvalidDocument))
}

func TestWriteXMLUnregisteredType(t *testing.T) {
	s := ecs.NewEntitySystem(nil)
	e := s.CreateEntity()
	ecs.AddComponent[Health](e)

	var buf bytes.Buffer
	require.NoError(t, e.WriteXML(&buf))
	assert.Contains(t, buf.String(), "<ecs_test.Health>")

	_, err := ecs.ReadXML(s, &buf)
	require.NoError(t, err, "unknown tags are skipped without a registry")
}
