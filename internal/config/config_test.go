package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacehole-rogue/autopilot/internal/camera"
	"github.com/spacehole-rogue/autopilot/internal/nav"
)

// inDir runs the test from an empty directory so no stray autopilot.toml
// or .env is picked up.
func inDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	inDir(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, nav.DefaultParams(), cfg.Nav)
	assert.Equal(t, nav.DefaultTrajectoryParams(), cfg.Trajectory)
	assert.Equal(t, camera.DefaultParams(), cfg.Camera)
	assert.Equal(t, "earth", cfg.Planner.Reference)
	assert.Equal(t, []string{"sun", "mercury"}, cfg.Planner.Exclude)
	assert.Equal(t, nav.StrategySweep, cfg.Planner.Strategy)
	assert.Equal(t, "sol", cfg.Scene.System)
	assert.Equal(t, 1.0, cfg.Scene.TimeScale)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.MetricsAddr)

	assert.NoError(t, Default().Validate())
}

func TestFileOverrides(t *testing.T) {
	dir := inDir(t)
	path := writeFile(t, dir, "custom.toml", `
[nav]
max_speed = 30
cruise_speed = 25

[trajectory]
orbit_sense = 1

[planner]
reference = "mars"
exclude = ["sun"]
strategy = "shuffle"
seed = 99

[scene]
generate = true
bodies = 5

[metrics]
addr = ":9102"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.Nav.MaxSpeed)
	assert.Equal(t, 25.0, cfg.Nav.CruiseSpeed)
	assert.Equal(t, nav.DefaultParams().OrbitSpeed, cfg.Nav.OrbitSpeed)
	assert.Equal(t, 1.0, cfg.Trajectory.OrbitSense)
	assert.Equal(t, "mars", cfg.Planner.Reference)
	assert.Equal(t, []string{"sun"}, cfg.Planner.Exclude)
	assert.Equal(t, nav.StrategyShuffle, cfg.Planner.Strategy)
	assert.Equal(t, uint64(99), cfg.Planner.Seed)
	assert.True(t, cfg.Scene.Generate)
	assert.Equal(t, 5, cfg.Scene.Bodies)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
}

func TestWorkingDirectoryFile(t *testing.T) {
	dir := inDir(t)
	writeFile(t, dir, "autopilot.toml", "[planner]\nreference = \"venus\"\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "venus", cfg.Planner.Reference)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := inDir(t)
	path := writeFile(t, dir, "autopilot.toml", "[nav]\nmax_speed = 30\n")
	t.Setenv("AUTOPILOT_NAV_MAX_SPEED", "40")
	t.Setenv("AUTOPILOT_PLANNER_EXCLUDE", "sun, moon")
	t.Setenv("AUTOPILOT_LOG_FORMAT", "JSON")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.Nav.MaxSpeed)
	assert.Equal(t, []string{"sun", "moon"}, cfg.Planner.Exclude)
	assert.Equal(t, "json", string(cfg.Log.Format))
}

func TestEnvFile(t *testing.T) {
	dir := inDir(t)
	envPath := writeFile(t, dir, "ship.env", "AUTOPILOT_SCENE_SYSTEM=kepler\n")
	t.Cleanup(func() { os.Unsetenv("AUTOPILOT_SCENE_SYSTEM") })

	cfg, err := Load("", WithEnvFile(envPath))
	require.NoError(t, err)
	assert.Equal(t, "kepler", cfg.Scene.System)

	_, err = Load("", WithEnvFile(filepath.Join(dir, "missing.env")))
	assert.Error(t, err)
}

func TestFlagOverrides(t *testing.T) {
	inDir(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.String("metrics-addr", "", "")
	require.NoError(t, fs.Parse([]string{"--log-level=debug"}))

	cfg, err := Load("",
		WithFlag("log.level", fs.Lookup("log-level")),
		WithFlag("metrics.addr", fs.Lookup("metrics-addr")),
		WithFlag("scene.seed", nil))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestMissingExplicitFile(t *testing.T) {
	dir := inDir(t)
	_, err := Load(filepath.Join(dir, "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"cruise above max", func(c *Config) { c.Nav.CruiseSpeed = c.Nav.MaxSpeed + 1 }, "nav.cruise_speed"},
		{"zero max", func(c *Config) { c.Nav.MaxSpeed = 0 }, "nav.max_speed"},
		{"no radial speed", func(c *Config) { c.Nav.RadialSpeed = 0 }, "nav.radial_speed"},
		{"bands inverted", func(c *Config) { c.Nav.NearBand = 50 }, "nav.near_band"},
		{"ring factor too big", func(c *Config) { c.Trajectory.RingFactor = 3.5 }, "plain_factor"},
		{"rings not cleared", func(c *Config) { c.Trajectory.RingFactor = 2.0 }, "ring_extent"},
		{"bad sense", func(c *Config) { c.Trajectory.OrbitSense = 0 }, "orbit_sense"},
		{"no reference", func(c *Config) { c.Planner.Reference = "" }, "planner.reference"},
		{"bad strategy", func(c *Config) { c.Planner.Strategy = "random" }, "planner.strategy"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"no time", func(c *Config) { c.Scene.TimeScale = 0 }, "scene.time_scale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := Default()
	c.Nav.MaxSpeed = 0
	c.Trajectory.OrbitSense = 2
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nav.max_speed")
	assert.Contains(t, err.Error(), "orbit_sense")
}

func TestValidateOrderIsStable(t *testing.T) {
	c := Default()
	c.Nav.Acceleration = 0
	c.Nav.BaseTurnRate = 0
	c.Nav.OrbitTurnRate = 0
	c.Nav.RadialSpeed = 0
	c.Nav.BankRate = 0

	want := c.Validate().Error()
	lines := strings.Split(want, "\n")
	require.Len(t, lines, 5)
	for i, key := range []string{"nav.acceleration", "nav.base_turn_rate", "nav.orbit_turn_rate", "nav.radial_speed", "nav.bank_rate"} {
		assert.Contains(t, lines[i], key)
	}
	for i := 0; i < 20; i++ {
		require.Equal(t, want, c.Validate().Error())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	inDir(t)
	t.Setenv("AUTOPILOT_TRAJECTORY_ORBIT_SENSE", "3")
	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalid)
}
