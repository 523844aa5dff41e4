package ecs

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
)

const (
	entityElement = "Entity"

	// Attributes written on component elements. Component types must not use
	// these names for their own attributes.
	componentNameAttr   = "name"
	componentActiveAttr = "active"
)

// SaveToXML writes e to the file at path, replacing any existing file.
func (e *Entity) SaveToXML(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "close %s", path)
		}
	}()
	return e.WriteXML(f)
}

// WriteXML writes e as an indented UTF-8 XML document.
func (e *Entity) WriteXML(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return eris.Wrap(err, "write xml header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(e); err != nil {
		return eris.Wrapf(err, "encode entity %d", e.id)
	}
	return eris.Wrap(enc.Close(), "flush entity document")
}

// MarshalXML writes the Entity element with one child element per component, in
// sequence order.
func (e *Entity) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: entityElement},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "id"}, Value: strconv.FormatUint(uint64(e.id), 10)},
			{Name: xml.Name{Local: "name"}, Value: e.name},
		},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	var registry *ComponentRegistry
	if e.system != nil {
		registry = e.system.registry
	}
	for _, c := range e.components {
		if err := encodeComponent(enc, registry, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeComponent(enc *xml.Encoder, registry *ComponentRegistry, c Component) error {
	start := xml.StartElement{Name: xml.Name{Local: registry.TagOf(c)}}
	if name := c.Name(); name != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: componentNameAttr}, Value: name})
	}
	if !c.Active() {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: componentActiveAttr}, Value: "false"})
	}
	if err := enc.EncodeElement(c, start); err != nil {
		return eris.Wrapf(err, "encode component %s", start.Name.Local)
	}
	return nil
}

// LoadFromXML reads the entity document at path into a new entity of system.
func LoadFromXML(system *EntitySystem, path string) (*Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	e, err := ReadXML(system, f)
	if err != nil {
		return nil, eris.Wrapf(err, "load %s", path)
	}
	return e, nil
}

type loadedComponent struct {
	component Component
	name      string
	inactive  bool
}

// rawElement captures a component element so it can be decoded in isolation.
type rawElement struct {
	Inner []byte `xml:",innerxml"`
}

// ReadXML reads an entity document and attaches the decoded components to a new
// entity of system through Entity.AddComponent.
//
// Elements whose tag is not in the system's registry, or whose body cannot be
// decoded into the registered type, are skipped. A document that is not well formed
// or whose root is not an Entity element fails with ErrInvalidDocument and no entity
// is created. The id attribute is ignored; system assigns a fresh ID.
func ReadXML(system *EntitySystem, r io.Reader) (*Entity, error) {
	dec := xml.NewDecoder(r)

	root, err := nextStartElement(dec)
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidDocument, "read root: %v", err)
	}
	if root.Name.Local != entityElement {
		return nil, eris.Wrapf(ErrInvalidDocument, "unexpected root element %q", root.Name.Local)
	}

	var loaded []loadedComponent
	for done := false; !done; {
		tok, err := dec.Token()
		if err != nil {
			return nil, eris.Wrapf(ErrInvalidDocument, "read components: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			lc, ok, err := decodeComponent(system, dec, t)
			if err != nil {
				return nil, err
			}
			if ok {
				loaded = append(loaded, lc)
			}
		case xml.EndElement:
			done = true
		}
	}

	e := NewEntity(system, attrValue(root, "name"))
	for _, lc := range loaded {
		if lc.name != "" {
			e.AddComponent(lc.component, lc.name)
		} else {
			e.AddComponent(lc.component)
		}
		if lc.inactive {
			lc.component.SetActive(false)
		}
	}
	return e, nil
}

// decodeComponent consumes the element started by start. It reports ok=false for
// elements that were skipped and returns an error only when the document itself
// is malformed.
func decodeComponent(system *EntitySystem, dec *xml.Decoder, start xml.StartElement) (loadedComponent, bool, error) {
	tag := start.Name.Local
	c, known := system.registry.Lookup(tag)
	if !known {
		system.log.Debug().Str("tag", tag).Msg("skipping unknown component element")
		if err := dec.Skip(); err != nil {
			return loadedComponent{}, false, eris.Wrapf(ErrInvalidDocument, "skip %s: %v", tag, err)
		}
		return loadedComponent{}, false, nil
	}

	var raw rawElement
	if err := dec.DecodeElement(&raw, &start); err != nil {
		return loadedComponent{}, false, eris.Wrapf(ErrInvalidDocument, "read %s: %v", tag, err)
	}

	body, err := rebuildElement(start, raw.Inner)
	if err != nil {
		system.log.Warn().Err(err).Str("tag", tag).Msg("skipping unreadable component element")
		return loadedComponent{}, false, nil
	}
	if err := xml.Unmarshal(body, c); err != nil {
		system.log.Warn().Err(err).Str("tag", tag).Msg("skipping undecodable component element")
		return loadedComponent{}, false, nil
	}

	return loadedComponent{
		component: c,
		name:      attrValue(start, componentNameAttr),
		inactive:  attrValue(start, componentActiveAttr) == "false",
	}, true, nil
}

// rebuildElement wraps inner in a copy of start so the element can be
// unmarshalled on its own.
func rebuildElement(start xml.StartElement, inner []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	start = start.Copy()
	start.Name.Space = ""
	if err := enc.EncodeToken(start); err != nil {
		return nil, eris.Wrapf(err, "encode %s", start.Name.Local)
	}
	if err := enc.Flush(); err != nil {
		return nil, eris.Wrap(err, "flush start element")
	}
	buf.Write(inner)
	if err := enc.EncodeToken(start.End()); err != nil {
		return nil, eris.Wrapf(err, "close %s", start.Name.Local)
	}
	if err := enc.Flush(); err != nil {
		return nil, eris.Wrap(err, "flush end element")
	}
	return buf.Bytes(), nil
}

func nextStartElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

func attrValue(start xml.StartElement, name string) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
