// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/orrery/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// Window is a debug panel that needs the current frame to draw itself.
type Window interface {
	Draw(frame *ecs.UpdateFrame)
}

// DebugWindow is a component holding a Window.
type DebugWindow struct {
	Window Window
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queues every ImguiItem and DebugWindow for drawing once the
// tick's commands have been applied, and refreshes the ImguiInputState
// singleton.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	Windows    ecs.Query[struct{ *DebugWindow }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
		state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()
	}

	for item := range i.Items.Iter() {
		frame.Commands.Defer(item.Render)
	}
	for w := range i.Windows.Iter() {
		window := w.Window
		frame.Commands.Defer(func() { window.Draw(frame) })
	}
}

// RegisterComponents adds the debug UI components to registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[DebugWindow](registry)
}

// SpawnDebugUI adds the standard panels to storage and makes sure the input
// state singleton exists.
func SpawnDebugUI(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	ecs.NewSingleton[ImguiInputState](storage)

	storage.Spawn(DebugWindow{Window: NewPerformanceWindow(scheduler, 120)})
	storage.Spawn(DebugWindow{Window: NewArchetypeWindow()})
	storage.Spawn(DebugWindow{Window: NewInspectorWindow(50)})
}
