package debugui

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/orrery/ecs"
)

type entityRow struct {
	ID         ecs.EntityId
	Components []string
}

// InspectorWindow lists entities, optionally filtered by component name, and
// shows the components of the selected one. Numeric and boolean fields are
// editable in place.
type InspectorWindow struct {
	selected ecs.EntityId
	filter   string
	limit    int
	fields   map[reflect.Type][]reflect.StructField
}

func NewInspectorWindow(limit int) *InspectorWindow {
	return &InspectorWindow{
		limit:  limit,
		fields: make(map[reflect.Type][]reflect.StructField),
	}
}

func (iw *InspectorWindow) Draw(frame *ecs.UpdateFrame) {
	if !imgui.BeginV("Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##filter", "Component filter...", &iw.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		iw.filter = ""
	}

	rows, total := entityRows(frame.Storage, iw.filter, iw.limit)
	imgui.Text(fmt.Sprintf("Showing %d of %d", len(rows), total))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 2, tableFlags, imgui.NewVec2(0, 200), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		for _, row := range rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			label := fmt.Sprintf("0x%X", uint64(row.ID))
			if imgui.SelectableBoolV(label, row.ID == iw.selected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				iw.selected = row.ID
			}
			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.Components, ", "))
		}
		imgui.EndTable()
	}

	imgui.Separator()
	iw.drawSelected(frame.Storage)
	imgui.End()
}

func (iw *InspectorWindow) drawSelected(storage *ecs.Storage) {
	if iw.selected == 0 || !storage.Alive(iw.selected) {
		imgui.Text("No entity selected")
		return
	}

	var archetype *ecs.Archetype
	for a := range storage.Archetypes() {
		if a.ID() == iw.selected.ArchetypeId() {
			archetype = a
			break
		}
	}
	if archetype == nil {
		return
	}

	for _, compType := range archetype.Types() {
		component := storage.GetComponent(iw.selected, compType)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(compType.String()) {
			iw.drawValue(compType.Name(), reflect.ValueOf(component).Elem())
			imgui.TreePop()
		}
	}
}

func (iw *InspectorWindow) drawValue(name string, v reflect.Value) {
	id := "##" + name
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f := float32(v.Float())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(id, &f) && v.CanSet() {
			v.SetFloat(float64(f))
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := int32(v.Int())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &n) && v.CanSet() {
			v.SetInt(int64(n))
		}

	case reflect.Bool:
		b := v.Bool()
		if imgui.Checkbox(name, &b) && v.CanSet() {
			v.SetBool(b)
		}

	case reflect.Struct:
		fields := iw.fieldsOf(v.Type())
		if len(fields) == 0 {
			imgui.Text(name)
			return
		}
		for _, field := range fields {
			iw.drawValue(field.Name, v.FieldByIndex(field.Index))
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, v.Interface()))
	}
}

// fieldsOf returns the exported fields of t, flattening embedded structs.
func (iw *InspectorWindow) fieldsOf(t reflect.Type) []reflect.StructField {
	if cached, ok := iw.fields[t]; ok {
		return cached
	}
	fields := exportedFields(t)
	iw.fields[t] = fields
	return fields
}

func exportedFields(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for _, field := range reflect.VisibleFields(t) {
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

// entityRows returns up to limit live entities, ordered by id, whose
// component names contain filter (case-insensitive), plus the total number
// of matches.
func entityRows(storage *ecs.Storage, filter string, limit int) ([]entityRow, int) {
	filter = strings.ToLower(filter)

	var rows []entityRow
	for archetype := range storage.Archetypes() {
		names := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			names[i] = t.String()
		}
		if filter != "" && !strings.Contains(strings.ToLower(strings.Join(names, ",")), filter) {
			continue
		}
		for id := range archetype.Iter() {
			rows = append(rows, entityRow{ID: id, Components: names})
		}
	}

	slices.SortFunc(rows, func(a, b entityRow) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	total := len(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, total
}
