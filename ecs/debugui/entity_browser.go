package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ladybug/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityID
	Name           string
	Active         bool
	ComponentTypes []string
	ComponentCount int
}

type entityBrowserCache struct {
	entities           []EntityInfo
	lastEntityCount    int
	lastComponentCount int
	sortColumn         int
	sortAscending      bool
}

// EntityBrowser is a window listing every live entity with its component tags.
// The ComponentInspector on the same entity shows the selected row.
type EntityBrowser struct {
	ecs.BaseComponent
	ecs.DrawState
	PageSize int    `xml:"pageSize,attr,omitempty"`
	Filter   string `xml:"filter,omitempty"`

	cache       *entityBrowserCache
	selected    ecs.EntityID
	currentPage int
}

func NewEntityBrowser(pageSize int) *EntityBrowser {
	eb := &EntityBrowser{PageSize: pageSize}
	eb.Priority = OverlayPriority
	return eb
}

func (eb *EntityBrowser) Draw(dt float64, r ecs.Renderer) {
	if s := systemOf(eb); s != nil {
		eb.Render(s)
	}
}

func (eb *EntityBrowser) Render(system *ecs.EntitySystem) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Refresh(system)

	imgui.InputTextWithHint("##search", "Search...", &eb.Filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.Filter = ""
		eb.currentPage = 0
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		eb.Invalidate()
	}

	pageSize := eb.pageSize()
	filteredEntities := eb.Rows()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
			filteredEntities = eb.Rows()
		}

		startIdx := min(eb.currentPage*pageSize, len(filteredEntities))
		endIdx := min(startIdx+pageSize, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selected == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.ID
			}

			imgui.TableNextColumn()
			if entity.Active {
				imgui.Text(entity.Name)
			} else {
				imgui.Text(entity.Name + " (inactive)")
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > pageSize {
		totalPages := (len(filteredEntities) + pageSize - 1) / pageSize
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowser) pageSize() int {
	if eb.PageSize <= 0 {
		return 100
	}
	return eb.PageSize
}

func (eb *EntityBrowser) ensureCache() {
	if eb.cache == nil {
		eb.cache = &entityBrowserCache{sortAscending: true}
	}
}

// Invalidate forces the next Refresh to rebuild the entity list.
func (eb *EntityBrowser) Invalidate() {
	eb.ensureCache()
	eb.cache.entities = nil
}

// Refresh rebuilds the cached entity list when the entity or component count changed.
func (eb *EntityBrowser) Refresh(system *ecs.EntitySystem) {
	eb.ensureCache()

	stats := system.CollectStats()
	if eb.cache.lastEntityCount != stats.EntityCount || eb.cache.lastComponentCount != stats.ComponentCount {
		eb.cache.entities = nil
		eb.cache.lastEntityCount = stats.EntityCount
		eb.cache.lastComponentCount = stats.ComponentCount
	}

	if eb.cache.entities == nil {
		eb.rebuildCache(system)
	}
}

func (eb *EntityBrowser) rebuildCache(system *ecs.EntitySystem) {
	eb.cache.entities = make([]EntityInfo, 0, system.EntityCount())

	registry := system.Registry()
	for e := range system.Entities() {
		components := e.Components()
		componentTypes := make([]string, len(components))
		for i, c := range components {
			componentTypes[i] = registry.TagOf(c)
		}

		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			ID:             e.ID(),
			Name:           e.Name(),
			Active:         e.Active(),
			ComponentTypes: componentTypes,
			ComponentCount: len(componentTypes),
		})
	}

	eb.sortEntities()
}

// SortBy orders rows by column: 0 ID, 1 name, 2 component tags, 3 component count.
func (eb *EntityBrowser) SortBy(column int, ascending bool) {
	eb.ensureCache()
	eb.cache.sortColumn = column
	eb.cache.sortAscending = ascending
	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.Name < b.Name
		case 2:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			less = a.ComponentCount < b.ComponentCount
		default:
			less = a.ID < b.ID
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

// Rows returns the cached rows matching Filter. The filter matches the entity ID,
// its name or any component tag, case-insensitively.
func (eb *EntityBrowser) Rows() []EntityInfo {
	eb.ensureCache()
	if eb.Filter == "" {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.Filter)

	for _, entity := range eb.cache.entities {
		idStr := fmt.Sprintf("%d", entity.ID)
		nameStr := strings.ToLower(entity.Name)
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

		if !strings.Contains(idStr, filterLower) &&
			!strings.Contains(nameStr, filterLower) &&
			!strings.Contains(componentsStr, filterLower) {
			continue
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowser) Select(id ecs.EntityID) { eb.selected = id }

func (eb *EntityBrowser) Selected() ecs.EntityID { return eb.selected }
