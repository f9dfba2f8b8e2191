// Package config loads autopilot settings from an optional TOML file, a
// .env file and AUTOPILOT_* environment variables, in rising priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spacehole-rogue/autopilot/internal/camera"
	"github.com/spacehole-rogue/autopilot/internal/logging"
	"github.com/spacehole-rogue/autopilot/internal/nav"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

const EnvPrefix = "AUTOPILOT"

// Planner selects the mission order.
type Planner struct {
	Reference string
	Exclude   []string
	Strategy  nav.Strategy
	Seed      uint64
}

// Scene selects the star system the ship flies through.
type Scene struct {
	// System names an embedded system file. Ignored when Generate is set.
	System   string
	Generate bool
	Seed     uint64
	// Bodies is the planet count for generated systems.
	Bodies    int
	TimeScale float64
}

type Config struct {
	Nav        nav.Params
	Trajectory nav.TrajectoryParams
	Camera     camera.Params
	Planner    Planner
	Scene      Scene
	Log        logging.Config
	// MetricsAddr serves /metrics when not empty.
	MetricsAddr string
}

// Option adjusts the viper instance before values are read.
type Option func(v *viper.Viper) error

// WithFlag lets a command-line flag override key when it was set.
func WithFlag(key string, f *pflag.Flag) Option {
	return func(v *viper.Viper) error {
		if f == nil {
			return nil
		}
		return v.BindPFlag(key, f)
	}
}

// WithEnvFile loads a .env file from path instead of the working directory.
func WithEnvFile(path string) Option {
	return func(*viper.Viper) error {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
}

// Load reads the configuration. An empty path searches the working
// directory for autopilot.toml and tolerates its absence; an explicit path
// must exist.
func Load(path string, opts ...Option) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("autopilot")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	cfg := read(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return read(v)
}

func setDefaults(v *viper.Viper) {
	n := nav.DefaultParams()
	v.SetDefault("nav.max_speed", n.MaxSpeed)
	v.SetDefault("nav.cruise_speed", n.CruiseSpeed)
	v.SetDefault("nav.orbit_speed", n.OrbitSpeed)
	v.SetDefault("nav.acceleration", n.Acceleration)
	v.SetDefault("nav.warm_up", n.WarmUp)
	v.SetDefault("nav.far_band", n.FarBand)
	v.SetDefault("nav.near_band", n.NearBand)
	v.SetDefault("nav.arrival_epsilon", n.ArrivalEpsilon)
	v.SetDefault("nav.base_turn_rate", n.BaseTurnRate)
	v.SetDefault("nav.near_turn_rate", n.NearTurnRate)
	v.SetDefault("nav.orbit_exit_angle", n.OrbitExitAngle)
	v.SetDefault("nav.look_ahead_angle", n.LookAheadAngle)
	v.SetDefault("nav.orbit_turn_rate", n.OrbitTurnRate)
	v.SetDefault("nav.radius_rate", n.RadiusRate)
	v.SetDefault("nav.radial_speed", n.RadialSpeed)
	v.SetDefault("nav.bank_angle", n.BankAngle)
	v.SetDefault("nav.bank_rate", n.BankRate)

	tr := nav.DefaultTrajectoryParams()
	v.SetDefault("trajectory.plain_factor", tr.PlainFactor)
	v.SetDefault("trajectory.ring_factor", tr.RingFactor)
	v.SetDefault("trajectory.ring_extent", tr.RingExtent)
	v.SetDefault("trajectory.margin", tr.Margin)
	v.SetDefault("trajectory.orbit_sense", tr.OrbitSense)

	c := camera.DefaultParams()
	v.SetDefault("camera.chase_distance", c.ChaseDistance)
	v.SetDefault("camera.orbit_distance", c.OrbitDistance)
	v.SetDefault("camera.near_height", c.NearHeight)
	v.SetDefault("camera.far_height", c.FarHeight)
	v.SetDefault("camera.distance_rate", c.DistanceRate)
	v.SetDefault("camera.position_rate", c.PositionRate)
	v.SetDefault("camera.look_ahead", c.LookAhead)

	v.SetDefault("planner.reference", "earth")
	v.SetDefault("planner.exclude", []string{"sun", "mercury"})
	v.SetDefault("planner.strategy", string(nav.StrategySweep))
	v.SetDefault("planner.seed", 1)

	v.SetDefault("scene.system", "sol")
	v.SetDefault("scene.generate", false)
	v.SetDefault("scene.seed", 1)
	v.SetDefault("scene.bodies", 7)
	v.SetDefault("scene.time_scale", 1.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", string(logging.FormatText))

	v.SetDefault("metrics.addr", "")
}

func read(v *viper.Viper) *Config {
	return &Config{
		Nav: nav.Params{
			MaxSpeed:       v.GetFloat64("nav.max_speed"),
			CruiseSpeed:    v.GetFloat64("nav.cruise_speed"),
			OrbitSpeed:     v.GetFloat64("nav.orbit_speed"),
			Acceleration:   v.GetFloat64("nav.acceleration"),
			WarmUp:         v.GetFloat64("nav.warm_up"),
			FarBand:        v.GetFloat64("nav.far_band"),
			NearBand:       v.GetFloat64("nav.near_band"),
			ArrivalEpsilon: v.GetFloat64("nav.arrival_epsilon"),
			BaseTurnRate:   v.GetFloat64("nav.base_turn_rate"),
			NearTurnRate:   v.GetFloat64("nav.near_turn_rate"),
			OrbitExitAngle: v.GetFloat64("nav.orbit_exit_angle"),
			LookAheadAngle: v.GetFloat64("nav.look_ahead_angle"),
			OrbitTurnRate:  v.GetFloat64("nav.orbit_turn_rate"),
			RadiusRate:     v.GetFloat64("nav.radius_rate"),
			RadialSpeed:    v.GetFloat64("nav.radial_speed"),
			BankAngle:      v.GetFloat64("nav.bank_angle"),
			BankRate:       v.GetFloat64("nav.bank_rate"),
		},
		Trajectory: nav.TrajectoryParams{
			PlainFactor: v.GetFloat64("trajectory.plain_factor"),
			RingFactor:  v.GetFloat64("trajectory.ring_factor"),
			RingExtent:  v.GetFloat64("trajectory.ring_extent"),
			Margin:      v.GetFloat64("trajectory.margin"),
			OrbitSense:  v.GetFloat64("trajectory.orbit_sense"),
		},
		Camera: camera.Params{
			ChaseDistance: v.GetFloat64("camera.chase_distance"),
			OrbitDistance: v.GetFloat64("camera.orbit_distance"),
			NearHeight:    v.GetFloat64("camera.near_height"),
			FarHeight:     v.GetFloat64("camera.far_height"),
			DistanceRate:  v.GetFloat64("camera.distance_rate"),
			PositionRate:  v.GetFloat64("camera.position_rate"),
			LookAhead:     v.GetFloat64("camera.look_ahead"),
		},
		Planner: Planner{
			Reference: v.GetString("planner.reference"),
			Exclude:   splitList(v.GetStringSlice("planner.exclude")),
			Strategy:  nav.Strategy(strings.ToLower(v.GetString("planner.strategy"))),
			Seed:      v.GetUint64("planner.seed"),
		},
		Scene: Scene{
			System:    v.GetString("scene.system"),
			Generate:  v.GetBool("scene.generate"),
			Seed:      v.GetUint64("scene.seed"),
			Bodies:    v.GetInt("scene.bodies"),
			TimeScale: v.GetFloat64("scene.time_scale"),
		},
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: logging.Format(strings.ToLower(v.GetString("log.format"))),
		},
		MetricsAddr: v.GetString("metrics.addr"),
	}
}

// splitList accepts both list values and a comma separated string from env.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// field is a named value checked by Validate. A slice keeps the reported
// errors in a stable order.
type field struct {
	name  string
	value float64
}

// Validate reports every broken constraint at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	n := c.Nav
	if n.MaxSpeed <= 0 {
		bad("nav.max_speed must be positive")
	}
	for _, f := range []field{
		{"nav.cruise_speed", n.CruiseSpeed},
		{"nav.orbit_speed", n.OrbitSpeed},
	} {
		if f.value <= 0 || f.value > n.MaxSpeed {
			bad("%s must be in (0, max_speed], got %v", f.name, f.value)
		}
	}
	for _, f := range []field{
		{"nav.acceleration", n.Acceleration},
		{"nav.base_turn_rate", n.BaseTurnRate},
		{"nav.near_turn_rate", n.NearTurnRate},
		{"nav.orbit_turn_rate", n.OrbitTurnRate},
		{"nav.radius_rate", n.RadiusRate},
		{"nav.radial_speed", n.RadialSpeed},
		{"nav.bank_rate", n.BankRate},
		{"nav.arrival_epsilon", n.ArrivalEpsilon},
		{"nav.orbit_exit_angle", n.OrbitExitAngle},
	} {
		if f.value <= 0 {
			bad("%s must be positive, got %v", f.name, f.value)
		}
	}
	if n.WarmUp < 0 {
		bad("nav.warm_up must not be negative")
	}
	if n.NearBand >= n.FarBand {
		bad("nav.near_band (%v) must be below nav.far_band (%v)", n.NearBand, n.FarBand)
	}

	t := c.Trajectory
	if t.RingFactor >= t.PlainFactor {
		bad("trajectory.ring_factor (%v) must be below plain_factor (%v)", t.RingFactor, t.PlainFactor)
	}
	if t.RingFactor <= t.RingExtent {
		bad("trajectory.ring_factor (%v) must exceed ring_extent (%v)", t.RingFactor, t.RingExtent)
	}
	if t.Margin <= 0 {
		bad("trajectory.margin must be positive")
	}
	if t.OrbitSense != 1 && t.OrbitSense != -1 {
		bad("trajectory.orbit_sense must be 1 or -1, got %v", t.OrbitSense)
	}

	cam := c.Camera
	if cam.ChaseDistance <= 0 || cam.OrbitDistance < cam.ChaseDistance {
		bad("camera distances must satisfy 0 < chase_distance <= orbit_distance")
	}
	if cam.DistanceRate <= 0 || cam.PositionRate <= 0 {
		bad("camera rates must be positive")
	}

	if c.Planner.Reference == "" {
		bad("planner.reference is required")
	}
	switch c.Planner.Strategy {
	case nav.StrategySweep, nav.StrategyShuffle:
	default:
		bad("planner.strategy must be %q or %q, got %q", nav.StrategySweep, nav.StrategyShuffle, c.Planner.Strategy)
	}

	if c.Scene.TimeScale <= 0 {
		bad("scene.time_scale must be positive")
	}
	if c.Scene.Generate && c.Scene.Bodies < 1 {
		bad("scene.bodies must be at least 1")
	}
	if !c.Scene.Generate && c.Scene.System == "" {
		bad("scene.system is required unless scene.generate is set")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		bad("log.level: %v", err)
	}
	if _, err := logging.ParseFormat(string(c.Log.Format)); err != nil {
		bad("log.format: %v", err)
	}
	return errors.Join(errs...)
}
