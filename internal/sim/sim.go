// Package sim owns one autopilot run: the star system, the navigator, the
// camera and the telemetry they feed.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacehole-rogue/autopilot/internal/camera"
	"github.com/spacehole-rogue/autopilot/internal/config"
	"github.com/spacehole-rogue/autopilot/internal/geom"
	"github.com/spacehole-rogue/autopilot/internal/logging"
	"github.com/spacehole-rogue/autopilot/internal/nav"
	"github.com/spacehole-rogue/autopilot/internal/orrery"
	"github.com/spacehole-rogue/autopilot/internal/telemetry"
)

const (
	commsSize  = 50
	commsWidth = 52

	// speedLogInterval throttles speed lines in the log.
	speedLogInterval = 2 * time.Second

	// startOffset is how far behind home the ship starts.
	startOffset = 30.0
)

// Sim is one autopilot run. It is driven from a single goroutine.
type Sim struct {
	Orrery *orrery.Orrery
	Nav    *nav.Navigator
	Camera *camera.Framer
	Comms  *telemetry.CommsLog
	Ticks  uint64

	cfg     *config.Config
	log     *slog.Logger
	sinks   []telemetry.Sink
	home    string
	exclude []string
	view    camera.Transform
}

// New loads the configured system and prepares a mission from home.
// Extra sinks receive the navigator's telemetry alongside the comms log.
func New(cfg *config.Config, log *slog.Logger, extra ...telemetry.Sink) (*Sim, error) {
	if log == nil {
		log = logging.Discard()
	}
	sys, err := loadSystem(cfg.Scene)
	if err != nil {
		return nil, err
	}
	orr, err := orrery.New(sys)
	if err != nil {
		return nil, fmt.Errorf("build orrery: %w", err)
	}

	s := &Sim{
		Orrery: orr,
		Camera: camera.New(cfg.Camera),
		Comms:  telemetry.NewCommsLog(commsSize, commsWidth),
		cfg:    cfg,
		log:    log,
		sinks:  extra,
	}
	s.home = s.pickHome()
	s.exclude = s.exclusions()

	s.Comms.Add(fmt.Sprintf("Autopilot online in the %s system.", orr.Name()), telemetry.MsgInfo)
	s.log.Info("system loaded", "system", orr.Name(), "bodies", len(orr.IDs()), "home", s.home)

	orr.Advance(0)
	s.Nav = s.newNavigator(s.startState())
	return s, nil
}

func loadSystem(sc config.Scene) (*orrery.System, error) {
	if sc.Generate {
		return orrery.Generate(sc.Seed, sc.Bodies), nil
	}
	sys, err := orrery.Builtin(sc.System)
	if err != nil {
		return nil, fmt.Errorf("load system: %w", err)
	}
	return sys, nil
}

// pickHome prefers the configured reference body, then the system's own.
func (s *Sim) pickHome() string {
	if _, ok := s.Orrery.Meta(s.cfg.Planner.Reference); ok {
		return s.cfg.Planner.Reference
	}
	if h := s.Orrery.Home(); h != "" {
		s.log.Warn("reference body not in system, using system home",
			"reference", s.cfg.Planner.Reference, "home", h)
		return h
	}
	ids := s.Orrery.IDs()
	return ids[0]
}

// exclusions adds every star to the configured list; nobody orbits a star.
func (s *Sim) exclusions() []string {
	ex := slices.Clone(s.cfg.Planner.Exclude)
	for _, id := range s.Orrery.Stars() {
		if !slices.Contains(ex, id) {
			ex = append(ex, id)
		}
	}
	return ex
}

func (s *Sim) startState() nav.ShipState {
	pos, ok := s.Orrery.WorldPosition(s.home)
	if !ok {
		return nav.ShipState{Orientation: geom.Identity}
	}
	// Trail home along its orbit, facing the direction it moves.
	tangent := geom.Polar(geom.PlaneAngle(pos)+geom.TwoPi/4, 1)
	q, ok := geom.LookRotation(tangent, geom.Up)
	if !ok {
		q = geom.Identity
	}
	return nav.ShipState{
		Position:    r3.Sub(pos, r3.Scale(startOffset, tangent)),
		Orientation: q,
	}
}

func (s *Sim) newPlanner() nav.MissionPlanner {
	p := s.cfg.Planner
	if p.Strategy == nav.StrategyShuffle {
		rng := rand.New(rand.NewPCG(p.Seed, p.Seed>>16|1))
		return nav.NewPlanner(s.exclude, nav.WithShuffle(rng))
	}
	return nav.NewPlanner(s.exclude)
}

func (s *Sim) newNavigator(start nav.ShipState) *nav.Navigator {
	sinks := append([]telemetry.Sink{s.Comms, telemetry.NewLogSink(s.log, speedLogInterval)}, s.sinks...)
	return nav.New(s.Orrery, s.home, start, s.cfg.Nav,
		nav.WithPlanner(s.newPlanner()),
		nav.WithSolver(nav.NewTrajectory(s.cfg.Trajectory)),
		nav.WithSink(telemetry.NewMulti(sinks...)),
		nav.WithLogger(logging.Component(s.log, "nav")),
	)
}

// Tick advances the system, the navigator and the camera by dt seconds of
// wall time. Bodies move at the configured time scale.
func (s *Sim) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	s.Ticks++
	s.Orrery.Advance(dt * s.cfg.Scene.TimeScale)
	s.Nav.Tick(dt)
	s.view = s.Camera.Frame(dt, s.Nav.Ship(), s.Nav.Phase())
}

// Coast moves the system and the camera but leaves the navigator alone,
// for when the autopilot is switched off.
func (s *Sim) Coast(dt float64) {
	if dt <= 0 {
		return
	}
	s.Orrery.Advance(dt * s.cfg.Scene.TimeScale)
	s.view = s.Camera.Frame(dt, s.Nav.Ship(), s.Nav.Phase())
}

// View is the camera transform from the last tick.
func (s *Sim) View() camera.Transform { return s.view }

// Home is the mission's reference body.
func (s *Sim) Home() string { return s.home }

// Plan returns the order a fresh mission would fly right now.
func (s *Sim) Plan() nav.MissionQueue {
	return s.newPlanner().Plan(s.home, s.Orrery)
}

// Restart reveals every body and starts a new mission from where the
// ship is now.
func (s *Sim) Restart() {
	for _, id := range s.Orrery.IDs() {
		s.Orrery.Reveal(id)
	}
	s.Nav = s.newNavigator(s.Nav.Ship())
	s.Comms.Add("Mission restarted.", telemetry.MsgWarning)
	s.log.Info("mission restarted", "home", s.home)
}

// LoseTarget hides the current leg's target, if any, and returns its id.
func (s *Sim) LoseTarget() string {
	id := s.Nav.Leg().TargetID
	if id == "" {
		return ""
	}
	s.Orrery.Hide(id)
	label := id
	if meta, ok := s.Orrery.Meta(id); ok {
		label = meta.Name()
	}
	s.Comms.Add(fmt.Sprintf("Lost contact with %s.", label), telemetry.MsgCritical)
	return id
}
