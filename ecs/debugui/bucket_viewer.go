package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ladybug/ecs"
)

type bucketViewerCache struct {
	buckets       []ecs.BucketStats
	sortColumn    int
	sortAscending bool
}

// BucketViewer is a window listing the type index: one row per component type
// with its registered count. Clicking a row filters the EntityBrowser on the
// same entity by that type.
type BucketViewer struct {
	ecs.BaseComponent
	ecs.DrawState

	cache    *bucketViewerCache
	selected string
}

func NewBucketViewer() *BucketViewer {
	bv := &BucketViewer{}
	bv.Priority = OverlayPriority
	return bv
}

func (bv *BucketViewer) Draw(dt float64, r ecs.Renderer) {
	if s := systemOf(bv); s != nil {
		bv.Render(s)
	}
}

func (bv *BucketViewer) Render(system *ecs.EntitySystem) {
	if !imgui.BeginV("Type Index", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	rows := bv.Refresh(system)

	maxCount := 0
	for _, bk := range rows {
		maxCount = max(maxCount, bk.Count)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("BucketTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Component Type")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			bv.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, bk := range bv.cache.buckets {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(bk.Type, bv.selected == bk.Type, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				bv.selectBucket(bk.Type)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", bk.Count))

			if maxCount > 0 {
				barWidth := float32(bk.Count) / float32(maxCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
}

// Refresh reloads the bucket counts from system and returns them in the current
// sort order.
func (bv *BucketViewer) Refresh(system *ecs.EntitySystem) []ecs.BucketStats {
	bv.ensureCache()
	bv.cache.buckets = system.CollectStats().Buckets
	bv.sortBuckets()
	return bv.cache.buckets
}

func (bv *BucketViewer) ensureCache() {
	if bv.cache == nil {
		bv.cache = &bucketViewerCache{sortColumn: 1}
	}
}

// SortBy orders rows by column: 0 type name, 1 count.
func (bv *BucketViewer) SortBy(column int, ascending bool) {
	bv.ensureCache()
	bv.cache.sortColumn = column
	bv.cache.sortAscending = ascending
	bv.sortBuckets()
}

func (bv *BucketViewer) sortBuckets() {
	sort.SliceStable(bv.cache.buckets, func(i, j int) bool {
		a, b := bv.cache.buckets[i], bv.cache.buckets[j]
		var less bool

		switch bv.cache.sortColumn {
		case 0:
			less = a.Type < b.Type
		default:
			less = a.Count < b.Count
		}

		if !bv.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (bv *BucketViewer) selectBucket(typ string) {
	bv.selected = typ
	e := bv.Entity()
	if e == nil {
		return
	}
	if browser := ecs.GetComponent[EntityBrowser](e); browser != nil {
		browser.Filter = strings.TrimPrefix(typ, "*")
	}
}
