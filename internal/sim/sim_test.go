package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacehole-rogue/autopilot/internal/config"
	"github.com/spacehole-rogue/autopilot/internal/nav"
	"github.com/spacehole-rogue/autopilot/internal/telemetry"
)

func TestSolTourCompletes(t *testing.T) {
	rec := &telemetry.Recorder{}
	s, err := New(config.Default(), nil, rec)
	require.NoError(t, err)
	assert.Equal(t, "earth", s.Home())

	plan := s.Plan()
	require.Len(t, plan, 8)
	assert.Equal(t, "earth", plan[len(plan)-1])
	assert.NotContains(t, plan, "sun")
	assert.NotContains(t, plan, "mercury")

	for i := 0; i < 60000 && !s.Nav.Done(); i++ {
		s.Tick(0.05)
	}
	require.True(t, s.Nav.Done(), "mission did not finish, phase %s", s.Nav.Phase())

	assert.Equal(t, 1, rec.Completions)
	require.Len(t, rec.Updates, 8)
	assert.Equal(t, "Earth", rec.Updates[7].TargetLabel)
	assert.True(t, s.Comms.Done())
	assert.Equal(t, rec.Updates[7], s.Comms.Current())
}

func TestOrbitStartsWithoutAJump(t *testing.T) {
	s, err := New(config.Default(), nil)
	require.NoError(t, err)

	const step = 0.05
	checked := 0
	arrived := false
	for i := 0; i < 60000 && !s.Nav.Done(); i++ {
		id := s.Nav.Leg().TargetID
		lastShip := s.Nav.Ship().Position
		lastTarget, _ := s.Orrery.WorldPosition(id)
		before := s.Nav.Phase()

		s.Tick(step)
		if arrived && s.Nav.Phase() == nav.PhaseOrbiting {
			target, _ := s.Orrery.WorldPosition(id)
			moved := r3.Norm(r3.Sub(s.Nav.Ship().Position, lastShip))
			drift := r3.Norm(r3.Sub(target, lastTarget))
			assert.LessOrEqual(t, moved, 3*s.Nav.Speed()*step+drift, "first orbit step around %s", id)
			checked++
		}
		arrived = before == nav.PhaseTraveling && s.Nav.Phase() == nav.PhaseOrbiting
	}
	require.True(t, s.Nav.Done())
	assert.Equal(t, 8, checked)
}

func TestTickDrivesCamera(t *testing.T) {
	s, err := New(config.Default(), nil)
	require.NoError(t, err)

	s.Tick(0)
	assert.Zero(t, s.Ticks)

	s.Tick(1.0 / 60)
	assert.Equal(t, uint64(1), s.Ticks)
	assert.Equal(t, nav.PhaseLeaving, s.Nav.Phase())
	assert.NotZero(t, s.View().LookAt)
	assert.InDelta(t, 1.0/60, s.Orrery.Clock(), 1e-12)
}

func TestLoseTargetAndRestart(t *testing.T) {
	s, err := New(config.Default(), nil)
	require.NoError(t, err)

	assert.Empty(t, s.LoseTarget(), "no target while planning")
	for i := 0; i < 600 && s.Nav.Phase() != nav.PhaseTraveling; i++ {
		s.Tick(1.0 / 60)
	}
	require.Equal(t, nav.PhaseTraveling, s.Nav.Phase())

	id := s.LoseTarget()
	require.NotEmpty(t, id)
	_, ok := s.Orrery.WorldPosition(id)
	assert.False(t, ok)

	s.Tick(1.0 / 60)
	assert.Equal(t, nav.PhaseLeaving, s.Nav.Phase())

	ship := s.Nav.Ship()
	s.Restart()
	assert.Equal(t, nav.PhasePlanning, s.Nav.Phase())
	assert.Equal(t, ship.Position, s.Nav.Ship().Position)
	_, ok = s.Orrery.WorldPosition(id)
	assert.True(t, ok)
	assert.Contains(t, s.Plan(), id)
}

func TestGeneratedSystemFallsBackToItsHome(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Generate = true
	cfg.Scene.Seed = 11
	cfg.Scene.Bodies = 4
	cfg.Planner.Strategy = nav.StrategyShuffle

	s, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, s.Orrery.Home(), s.Home())

	plan := s.Plan()
	assert.NotContains(t, plan, "star")
	assert.Equal(t, s.Home(), plan[len(plan)-1])
	assert.Equal(t, plan, s.Plan(), "shuffle is seeded")
}

func TestUnknownSystem(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.System = "andromeda"
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestCoastLeavesNavigatorAlone(t *testing.T) {
	s, err := New(config.Default(), nil)
	require.NoError(t, err)
	ship := s.Nav.Ship()

	s.Coast(0.5)
	assert.Equal(t, nav.PhasePlanning, s.Nav.Phase())
	assert.Equal(t, ship, s.Nav.Ship())
	assert.InDelta(t, 0.5, s.Orrery.Clock(), 1e-12)
	assert.Zero(t, s.Ticks)
}
