package report

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/plus3/orrery/ecs"
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("86")).
	Border(lipgloss.NormalBorder(), false, false, true, false).
	BorderForeground(lipgloss.Color("242"))

type Report struct {
	// Configuration
	Duration  time.Duration
	DeltaTime float64
	Seed      uint64
	Planets   int

	// Results
	TotalUpdates  int64
	TotalTime     time.Duration
	SimulatedTime float64
	UpdateTime    Stats
	Markers       []float64
	Spawned       int64
	Expired       int64
	LiveRecords   int
	Archetypes    int
	Systems       []ecs.SystemStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// FinalMarkers returns the last sampled marker count.
func (r *Report) FinalMarkers() int {
	if len(r.Markers) == 0 {
		return 0
	}
	return int(r.Markers[len(r.Markers)-1])
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
## Scene
- Simulated Duration: {{.Duration}} at dt {{.DeltaTime}}
- Seed:               {{.Seed}}
- Planets:            {{.Planets}}

## Results
- Total Updates:  {{.TotalUpdates}}
- Simulated Time: {{printf "%.3f" .SimulatedTime}}s
- Wall Time:      {{.TotalTime}}
- Update Time:    avg {{.UpdateTime.Avg}} / min {{.UpdateTime.Min}} / max {{.UpdateTime.Max}}
- Markers:        {{.Spawned}} spawned, {{.Expired}} expired, {{.FinalMarkers}} live
- Records:        {{.LiveRecords}} in {{.Archetypes}} archetypes

## Systems
{{range .Systems}}- {{printf "%-22s" .Name}} runs {{.ExecutionCount}}, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Memory
- Heap Alloc: {{.MemStatsStart.HeapAlloc | mb}} MB (start) -> {{.MemStatsEnd.HeapAlloc | mb}} MB (end)
- Num GC:     {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, titleStyle.Render("orrery headless report")); err != nil {
		return err
	}
	if err := tmpl.Execute(w, r); err != nil {
		return err
	}

	if len(r.Markers) > 1 {
		graph := asciigraph.Plot(r.Markers,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("live markers"),
		)
		if _, err := fmt.Fprintf(w, "\n%s\n", strings.TrimRight(graph, "\n")); err != nil {
			return err
		}
	}
	return nil
}
