package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/orrery/ecs"
)

const (
	columnArchetypeID = iota
	columnComponents
	columnEntityCount
)

// ArchetypeWindow lists every non-empty archetype with a bar proportional to
// its population.
type ArchetypeWindow struct {
	sortColumn    int
	sortAscending bool
}

func NewArchetypeWindow() *ArchetypeWindow {
	return &ArchetypeWindow{sortColumn: columnEntityCount}
}

func (aw *ArchetypeWindow) Draw(frame *ecs.UpdateFrame) {
	if !imgui.BeginV("Archetypes", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	rows := frame.Storage.CollectStats().ArchetypeBreakdown

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ArchetypeTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			aw.sortColumn = int(spec.ColumnIndex())
			aw.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}
		sortArchetypeRows(rows, aw.sortColumn, aw.sortAscending)

		largest := 0
		for _, row := range rows {
			largest = max(largest, row.EntityCount)
		}

		for _, row := range rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", row.ID))
			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.ComponentTypes, ", "))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.EntityCount))

			if largest > 0 {
				barWidth := float32(row.EntityCount) / float32(largest) * 80.0
				imgui.SameLine()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				imgui.WindowDrawList().AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
}

func sortArchetypeRows(rows []ecs.ArchetypeStats, column int, ascending bool) {
	less := func(a, b ecs.ArchetypeStats) bool {
		switch column {
		case columnArchetypeID:
			return a.ID < b.ID
		case columnComponents:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		default:
			return a.EntityCount < b.EntityCount
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}
