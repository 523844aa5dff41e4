package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ladybug/ecs"
)

// PerformanceStats is a window showing registry totals, a frame time graph and
// the per-phase dispatch timings of the system.
type PerformanceStats struct {
	ecs.BaseComponent
	ecs.DrawState
	HistoryFrames int `xml:"history,attr,omitempty"`

	timer        *FrameTimer
	frameHistory []float32
	frameIndex   int
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	ps := &PerformanceStats{HistoryFrames: historyFrames}
	ps.Priority = OverlayPriority
	return ps
}

func (ps *PerformanceStats) Draw(dt float64, r ecs.Renderer) {
	s := systemOf(ps)
	if s == nil {
		return
	}
	if ps.timer == nil {
		ps.timer = NewFrameTimer()
	}
	ps.Record(ps.timer.GetDeltaTime())
	ps.Render(s)
}

// Record appends a frame delta in seconds to the frame time history.
func (ps *PerformanceStats) Record(deltaTime float32) {
	if ps.frameHistory == nil {
		n := ps.HistoryFrames
		if n <= 0 {
			n = 120
		}
		ps.frameHistory = make([]float32, n)
	}
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % len(ps.frameHistory)
}

// AverageFrameTime returns the mean of the frame time history in milliseconds.
func (ps *PerformanceStats) AverageFrameTime() float32 {
	if len(ps.frameHistory) == 0 {
		return 0
	}
	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	return avgFrameTime / float32(len(ps.frameHistory))
}

func (ps *PerformanceStats) Render(system *ecs.EntitySystem) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := system.CollectStats()

	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Components: %d", stats.ComponentCount))
	imgui.Text(fmt.Sprintf("Drawables: %d", stats.DrawableCount))
	imgui.Text(fmt.Sprintf("Component Types: %d", stats.BucketCount))

	avgFrameTime := ps.AverageFrameTime()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	if len(ps.frameHistory) > 0 {
		imgui.Separator()
		imgui.Text("Frame Time Graph (ms)")
		imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))
	}

	if imgui.TreeNodeStr("Phase Timings") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("PhaseStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Phase")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, phase := range system.PhaseStats().Phases {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(phase.Phase.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", phase.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(phase.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(phase.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Type Index") {
		for _, bk := range stats.Buckets {
			imgui.BulletText(fmt.Sprintf("%s: %d", bk.Type, bk.Count))
		}
		imgui.TreePop()
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
