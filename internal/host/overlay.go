package host

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/ecs/debugui"
	"github.com/plus3/orrery/orbit"
)

// TrailPanel returns an ImGui item showing the trail cadence and how many
// markers have been spawned, expired and are currently alive.
func TrailPanel(storage *ecs.Storage) debugui.ImguiItem {
	stats := ecs.NewSingleton[orbit.TrailStats](storage)
	var settings ecs.Singleton[orbit.Settings]
	settings.Init(storage)
	markers := ecs.NewQuery[struct{ *orbit.Marker }](storage)

	return debugui.ImguiItem{
		Render: func() {
			markers.Execute()
			if imgui.Begin("Trail") {
				for _, line := range trailLines(stats.Get(), settings.Get(), markers.Len()) {
					imgui.Text(line)
				}
			}
			imgui.End()
		},
	}
}

func trailLines(stats *orbit.TrailStats, settings *orbit.Settings, live int) []string {
	s := orbit.DefaultSettings()
	if settings != nil {
		s = *settings
	}
	var spawned, expired int64
	if stats != nil {
		spawned, expired = stats.Spawned, stats.Expired
	}
	return []string{
		fmt.Sprintf("period:   %.2fs", s.TrailPeriod),
		fmt.Sprintf("lifespan: %.1fs", s.MarkerLifespan),
		fmt.Sprintf("spawned:  %d", spawned),
		fmt.Sprintf("expired:  %d", expired),
		fmt.Sprintf("live:     %d", live),
	}
}
