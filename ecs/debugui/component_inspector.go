package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ladybug/ecs"
)

// ComponentInspector is a window that edits the exported fields of every
// component on the selected entity. The selection follows the EntityBrowser
// attached to the same entity, if any.
type ComponentInspector struct {
	ecs.BaseComponent
	ecs.DrawState

	selected ecs.EntityID
}

func NewComponentInspector() *ComponentInspector {
	ci := &ComponentInspector{}
	ci.Priority = OverlayPriority
	return ci
}

// Select sets the inspected entity when no EntityBrowser drives the selection.
func (ci *ComponentInspector) Select(id ecs.EntityID) { ci.selected = id }

// Selected returns the inspected entity ID.
func (ci *ComponentInspector) Selected() ecs.EntityID {
	if e := ci.Entity(); e != nil {
		if browser := ecs.GetComponent[EntityBrowser](e); browser != nil {
			return browser.Selected()
		}
	}
	return ci.selected
}

func (ci *ComponentInspector) Draw(dt float64, r ecs.Renderer) {
	if s := systemOf(ci); s != nil {
		ci.Render(s, ci.Selected())
	}
}

func (ci *ComponentInspector) Render(system *ecs.EntitySystem, selectedEntityID ecs.EntityID) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if selectedEntityID == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	entity := system.Entity(selectedEntityID)
	if entity == nil {
		imgui.Text(fmt.Sprintf("Entity %d not found", selectedEntityID))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", entity.ID()))
	imgui.Text(fmt.Sprintf("Name: %s", entity.Name()))
	active := entity.Active()
	if imgui.Checkbox("Active##entity", &active) {
		entity.SetActive(active)
	}
	imgui.Separator()

	registry := system.Registry()
	for i, component := range entity.Components() {
		label := registry.TagOf(component)
		if name := component.Name(); name != "" {
			label += " (" + name + ")"
		}
		if imgui.TreeNodeStr(fmt.Sprintf("%s##%d", label, i)) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(component ecs.Component) {
	active := component.Active()
	if imgui.Checkbox("Active", &active) {
		component.SetActive(active)
	}

	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}

	for _, field := range InspectableFields(val.Type()) {
		fieldVal := val.FieldByIndex(field.Index)
		if field.Pointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(field.Name, fieldVal, field)
	}
}

func (ci *ComponentInspector) renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.Pointer && val.Kind() == reflect.Pointer && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			SetField(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 {
			SetField(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			SetField(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			SetField(val, v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			SetField(val, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range InspectableFields(val.Type()) {
				nestedVal := val.FieldByIndex(nf.Index)
				if nf.Pointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(nf.Name, nestedVal, nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Type()))
		}
	}
}

// SetField stores value into field when the field is settable and of a matching
// kind. Numeric values are converted to the field's width. It reports whether
// the field changed.
func SetField(field reflect.Value, value any) bool {
	if !field.CanSet() {
		return false
	}

	switch v := value.(type) {
	case int64:
		switch field.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if field.OverflowInt(v) {
				return false
			}
			field.SetInt(v)
			return true
		}
	case uint64:
		switch field.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if field.OverflowUint(v) {
				return false
			}
			field.SetUint(v)
			return true
		}
	case float64:
		switch field.Kind() {
		case reflect.Float32, reflect.Float64:
			field.SetFloat(v)
			return true
		}
	case bool:
		if field.Kind() == reflect.Bool {
			field.SetBool(v)
			return true
		}
	case string:
		if field.Kind() == reflect.String {
			field.SetString(v)
			return true
		}
	}
	return false
}
