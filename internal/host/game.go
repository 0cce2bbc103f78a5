// Package host runs the orrery scene inside an ebiten window.
package host

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/ecs/debugui"
	debugui_ebiten "github.com/plus3/orrery/ecs/debugui/ebiten"
	"github.com/plus3/orrery/internal/config"
	"github.com/rs/zerolog"
)

// Game adapts a Scheduler to ebiten.Game. Update advances the simulation by
// one fixed step, Draw runs the render scheduler against the same storage.
type Game struct {
	ctx       context.Context
	scheduler *ecs.Scheduler
	renderer  *ecs.Scheduler
	render    *RenderSystem
	imgui     *debugui_ebiten.ImguiBackend
	input     ecs.Singleton[debugui.ImguiInputState]
	step      float64
	logger    zerolog.Logger
}

// NewGame builds a Game stepping scheduler by 1/tps seconds each update.
// imgui may be nil when the debug UI is disabled.
func NewGame(ctx context.Context, scheduler *ecs.Scheduler, tps int, imgui *debugui_ebiten.ImguiBackend, logger zerolog.Logger) *Game {
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}

	render := &RenderSystem{}
	renderer := ecs.NewScheduler(scheduler.Storage(), ecs.WithLogger(logger))
	renderer.Register(render)

	g := &Game{
		ctx:       ctx,
		scheduler: scheduler,
		renderer:  renderer,
		render:    render,
		imgui:     imgui,
		step:      1.0 / float64(tps),
		logger:    logger,
	}
	g.input.Init(scheduler.Storage())
	return g
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	keyDown := ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape)
	if quitRequested(keyDown, g.input.Get()) {
		g.logger.Info().Msg("quit requested")
		return ebiten.Termination
	}

	if g.imgui != nil {
		g.imgui.Frame(func() { g.scheduler.Once(g.step) })
		return nil
	}
	g.scheduler.Once(g.step)
	return nil
}

// quitRequested reports whether a pressed quit key should close the window.
// Keys typed into a focused ImGui widget belong to the widget.
func quitRequested(keyDown bool, input *debugui.ImguiInputState) bool {
	if !keyDown {
		return false
	}
	return input == nil || !input.WantCaptureKeyboard
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.screen = screen
	g.renderer.Once(0)
	g.render.screen = nil

	if g.imgui != nil {
		g.imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window described by cfg and blocks until it is closed, the
// user quits or ctx is cancelled. The scheduler is closed on return.
func Run(ctx context.Context, cfg config.Window, scheduler *ecs.Scheduler, logger zerolog.Logger) error {
	defer scheduler.Close()

	var backend *debugui_ebiten.ImguiBackend
	if cfg.DebugUI {
		backend = debugui_ebiten.NewImguiBackend(cfg.Title, cfg.Width, cfg.Height)
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	logger.Info().
		Str("title", cfg.Title).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("tps", cfg.TPS).
		Bool("debug_ui", cfg.DebugUI).
		Msg("opening window")

	if err := ebiten.RunGame(NewGame(ctx, scheduler, cfg.TPS, backend, logger)); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
