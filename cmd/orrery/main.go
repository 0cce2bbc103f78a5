package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/plus3/orrery/internal/config"
	"github.com/plus3/orrery/internal/host"
	"github.com/plus3/orrery/internal/logging"
	"github.com/plus3/orrery/internal/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := config.New()
	if err := newRootCommand(v).ExecuteContext(ctx); err != nil {
		logging.New(os.Stderr, "error").Error().Err(err).Msg("orrery failed")
		stop()
		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "orrery",
		Short:         "sun, planets and fading orbit trails on a small ECS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (yaml or json)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error, off)")
	flags.Uint64("seed", 0, "scene seed, 0 picks one at random")
	flags.Int("planets", config.DefaultPlanetCount, "number of planets")
	must(v.BindPFlag("log_level", flags.Lookup("log-level")))
	must(v.BindPFlag("scene.seed", flags.Lookup("seed")))
	must(v.BindPFlag("scene.planet_count", flags.Lookup("planets")))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open a window and animate the scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), v)
		},
	}
	runCmd.Flags().Bool("debug-ui", false, "show the ImGui debug windows")
	runCmd.Flags().Int("tps", config.DefaultTPS, "simulation ticks per second")
	must(v.BindPFlag("window.debug_ui", runCmd.Flags().Lookup("debug-ui")))
	must(v.BindPFlag("window.tps", runCmd.Flags().Lookup("tps")))

	headlessCmd := &cobra.Command{
		Use:   "headless",
		Short: "step the scene without a window and print a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd.Context(), v, cmd.OutOrStdout())
		},
	}
	headlessCmd.Flags().Duration("duration", config.DefaultHeadlessLength, "simulated time to run")
	headlessCmd.Flags().Float64("dt", config.DefaultHeadlessDt, "timestep in seconds")
	must(v.BindPFlag("headless.duration", headlessCmd.Flags().Lookup("duration")))
	must(v.BindPFlag("headless.dt", headlessCmd.Flags().Lookup("dt")))

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	rootCmd.AddCommand(runCmd, headlessCmd, configCmd)
	return rootCmd
}

func runWindow(ctx context.Context, v *viper.Viper) error {
	cfg, logger, err := load(v)
	if err != nil {
		return err
	}

	w, err := build(&cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Window.DebugUI {
		w.enableDebugUI()
	}

	return host.Run(ctx, cfg.Window, w.scheduler, logger)
}

func runHeadless(ctx context.Context, v *viper.Viper, out io.Writer) error {
	cfg, logger, err := load(v)
	if err != nil {
		return err
	}

	w, err := build(&cfg, logger)
	if err != nil {
		return err
	}
	defer w.scheduler.Close()

	logger.Info().
		Dur("duration", cfg.Headless.Duration).
		Float64("dt", cfg.Headless.DeltaTime).
		Msg("running headless")

	r := report.Run(ctx, w.scheduler, cfg.Headless.Duration, cfg.Headless.DeltaTime)
	r.Seed = cfg.Scene.Seed
	if err := r.Generate(out); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func load(v *viper.Viper) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel), nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
