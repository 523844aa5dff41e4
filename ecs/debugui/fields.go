package debugui

import (
	"reflect"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// FieldInfo is one field the inspector can show. Index is the path for
// reflect.Value.FieldByIndex, so fields promoted from ecs.BaseComponent siblings
// such as ecs.DrawState appear next to the component's own fields.
type FieldInfo struct {
	Name    string
	Type    reflect.Type
	Index   []int
	Pointer bool
}

// Kind is the kind of the field after dereferencing a pointer field.
func (f FieldInfo) Kind() reflect.Kind { return f.Type.Kind() }

var inspectable = cmap.NewStringer[reflect.Type, []FieldInfo]()

// InspectableFields returns the exported data fields of a component type, in
// declaration order. t may be the struct type or a pointer to it. Function
// fields and embedded structs themselves are left out.
func InspectableFields(t reflect.Type) []FieldInfo {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if fields, ok := inspectable.Get(t); ok {
		return fields
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for _, sf := range reflect.VisibleFields(t) {
			if sf.Anonymous || !sf.IsExported() || sf.Type.Kind() == reflect.Func {
				continue
			}
			info := FieldInfo{Name: sf.Name, Type: sf.Type, Index: sf.Index}
			if sf.Type.Kind() == reflect.Pointer {
				info.Type = sf.Type.Elem()
				info.Pointer = true
			}
			fields = append(fields, info)
		}
	}

	inspectable.SetIfAbsent(t, fields)
	return fields
}
