package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPlanetCount    = 5
	DefaultOrbitSpacing   = 2.0
	DefaultTrailPeriod    = 0.1
	DefaultMarkerLifespan = 5.0
	DefaultCameraDistance = 15.0
	DefaultTPS            = 60
	DefaultHeadlessDt     = 0.016
	DefaultHeadlessLength = 10 * time.Second
)

// EnvPrefix is prepended to every environment override, so scene.seed is
// read from ORRERY_SCENE_SEED.
const EnvPrefix = "ORRERY"

type Config struct {
	LogLevel string   `mapstructure:"log_level" yaml:"log_level"`
	Scene    Scene    `mapstructure:"scene" yaml:"scene"`
	Window   Window   `mapstructure:"window" yaml:"window"`
	Headless Headless `mapstructure:"headless" yaml:"headless"`
}

// Scene describes the bodies spawned at startup and the trail they leave.
// A zero Seed asks the caller to pick one.
type Scene struct {
	Seed           uint64     `mapstructure:"seed" yaml:"seed"`
	PlanetCount    int        `mapstructure:"planet_count" yaml:"planet_count"`
	OrbitSpacing   float32    `mapstructure:"orbit_spacing" yaml:"orbit_spacing"`
	CameraEye      [3]float32 `mapstructure:"camera_eye" yaml:"camera_eye,flow"`
	TrailPeriod    float64    `mapstructure:"trail_period" yaml:"trail_period"`
	MarkerLifespan float32    `mapstructure:"marker_lifespan" yaml:"marker_lifespan"`
}

type Window struct {
	Title   string `mapstructure:"title" yaml:"title"`
	Width   int    `mapstructure:"width" yaml:"width"`
	Height  int    `mapstructure:"height" yaml:"height"`
	TPS     int    `mapstructure:"tps" yaml:"tps"`
	DebugUI bool   `mapstructure:"debug_ui" yaml:"debug_ui"`
}

type Headless struct {
	Duration  time.Duration `mapstructure:"duration" yaml:"duration"`
	DeltaTime float64       `mapstructure:"dt" yaml:"dt"`
}

// New returns a viper instance carrying every default and reading
// ORRERY_* environment overrides.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("log_level", "info")

	v.SetDefault("scene.seed", 0)
	v.SetDefault("scene.planet_count", DefaultPlanetCount)
	v.SetDefault("scene.orbit_spacing", DefaultOrbitSpacing)
	v.SetDefault("scene.camera_eye", []float64{DefaultCameraDistance, DefaultCameraDistance, DefaultCameraDistance})
	v.SetDefault("scene.trail_period", DefaultTrailPeriod)
	v.SetDefault("scene.marker_lifespan", DefaultMarkerLifespan)

	v.SetDefault("window.title", "orrery")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.tps", DefaultTPS)
	v.SetDefault("window.debug_ui", false)

	v.SetDefault("headless.duration", DefaultHeadlessLength)
	v.SetDefault("headless.dt", DefaultHeadlessDt)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads file (YAML or JSON, by extension) into v when file is not empty
// and decodes the merged settings.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Scene.PlanetCount < 0 {
		errs = append(errs, fmt.Errorf("scene.planet_count must not be negative, got %d", c.Scene.PlanetCount))
	}
	if c.Scene.OrbitSpacing <= 0 {
		errs = append(errs, fmt.Errorf("scene.orbit_spacing must be positive, got %g", c.Scene.OrbitSpacing))
	}
	if c.Scene.TrailPeriod <= 0 {
		errs = append(errs, fmt.Errorf("scene.trail_period must be positive, got %g", c.Scene.TrailPeriod))
	}
	if c.Scene.MarkerLifespan <= 0 {
		errs = append(errs, fmt.Errorf("scene.marker_lifespan must be positive, got %g", c.Scene.MarkerLifespan))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window.tps must be positive, got %d", c.Window.TPS))
	}
	if c.Headless.DeltaTime <= 0 {
		errs = append(errs, fmt.Errorf("headless.dt must be positive, got %g", c.Headless.DeltaTime))
	}
	if c.Headless.Duration < 0 {
		errs = append(errs, fmt.Errorf("headless.duration must not be negative, got %s", c.Headless.Duration))
	}
	return errors.Join(errs...)
}

// YAML renders cfg in the same layout Load accepts.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
