package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/orrery/ecs"
)

// frameHistory is a fixed-size ring of frame times in milliseconds.
type frameHistory struct {
	samples []float32
	next    int
	filled  int
}

func newFrameHistory(size int) frameHistory {
	return frameHistory{samples: make([]float32, size)}
}

func (h *frameHistory) push(ms float32) {
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

func (h *frameHistory) average() float32 {
	if h.filled == 0 {
		return 0
	}
	var total float32
	for _, ms := range h.samples[:h.filled] {
		total += ms
	}
	return total / float32(h.filled)
}

// PerformanceWindow shows frame times, storage totals and per-system timings.
type PerformanceWindow struct {
	scheduler *ecs.Scheduler
	history   frameHistory
}

func NewPerformanceWindow(scheduler *ecs.Scheduler, historyFrames int) *PerformanceWindow {
	return &PerformanceWindow{
		scheduler: scheduler,
		history:   newFrameHistory(historyFrames),
	}
}

func (pw *PerformanceWindow) Draw(frame *ecs.UpdateFrame) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 300), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	pw.history.push(float32(frame.DeltaTime * 1000))
	avg := pw.history.average()

	stats := frame.Storage.CollectStats()
	imgui.Text(fmt.Sprintf("Sim Time: %.2f s", frame.Time))
	imgui.Text(fmt.Sprintf("Entities: %d in %d archetypes", stats.TotalEntityCount, stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms", avg))
	imgui.PlotLinesFloatPtr("##frametime", &pw.history.samples[0], int32(len(pw.history.samples)))

	if pw.scheduler == nil {
		imgui.End()
		return
	}

	schedStats := pw.scheduler.GetStats()
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Systems: %d  Tasks: %d", schedStats.SystemCount, schedStats.TaskCount))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("SystemTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Last")
		imgui.TableSetupColumn("Avg")
		imgui.TableHeadersRow()

		for _, sys := range schedStats.Systems {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(sys.Name)
			imgui.TableNextColumn()
			imgui.Text(sys.LastDuration.String())
			imgui.TableNextColumn()
			imgui.Text(sys.AvgDuration.String())
		}
		imgui.EndTable()
	}

	imgui.End()
}
