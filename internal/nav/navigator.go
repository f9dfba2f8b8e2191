// Package nav is the autopilot: it plans a tour over moving bodies, flies
// transfers to them, parks in orbit for a lap and moves on.
package nav

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacehole-rogue/autopilot/internal/geom"
	"github.com/spacehole-rogue/autopilot/internal/registry"
	"github.com/spacehole-rogue/autopilot/internal/telemetry"
)

// minOrbitRadius keeps the angular rate finite for a solver that returns 0.
const minOrbitRadius = 1e-3

// ShipState is the ship's transform and motion. Orientation includes the
// bank roll; its forward axis is the heading.
type ShipState struct {
	Position    r3.Vec
	Orientation quat.Number
	Speed       float64
	BankAngle   float64
}

// Forward returns the ship's heading as a world direction.
func (s ShipState) Forward() r3.Vec { return geom.ForwardOf(s.Orientation) }

// LegContext is the per-leg scratch state.
type LegContext struct {
	TargetID      string
	Entry         *r3.Vec // cached injection point, nil until computed
	OrbitRadius   float64 // solved parking radius
	Radius        float64 // radius flown now, eased toward OrbitRadius
	OrbitAngle    float64
	TraveledAngle float64
	ExitVector    r3.Vec
	PhaseTimer    float64

	// EntryComputations counts entry point solves in this leg.
	EntryComputations int
}

// Navigator owns one ship and flies it through a mission. It is not safe
// for concurrent use; run one Navigator per ship.
type Navigator struct {
	params  Params
	reg     registry.Registry
	planner MissionPlanner
	solver  Solver
	sink    telemetry.Sink
	log     *slog.Logger
	home    string

	phase    Phase
	ship     ShipState
	heading  quat.Number // orientation without bank
	queue    MissionQueue
	leg      LegContext
	progress telemetry.MissionProgress
	total    int
	visited  int
	notified bool
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithPlanner replaces the default sweep planner.
func WithPlanner(p MissionPlanner) Option {
	return func(n *Navigator) { n.planner = p }
}

// WithSolver replaces the default trajectory solver.
func WithSolver(s Solver) Option {
	return func(n *Navigator) { n.solver = s }
}

// WithSink routes telemetry to s.
func WithSink(s telemetry.Sink) Option {
	return func(n *Navigator) { n.sink = s }
}

// WithLogger sets the logger for phase transitions.
func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) { n.log = l }
}

// New creates a navigator in PLANNING. home is the reference body the
// mission starts from and returns to; start is the ship's current state.
func New(reg registry.Registry, home string, start ShipState, params Params, opts ...Option) *Navigator {
	n := &Navigator{
		params: params,
		reg:    reg,
		home:   home,
		phase:  PhasePlanning,
		ship:   start,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.planner == nil {
		n.planner = NewPlanner(nil)
	}
	if n.solver == nil {
		n.solver = NewTrajectory(DefaultTrajectoryParams())
	}
	if n.sink == nil {
		n.sink = telemetry.Nop{}
	}
	if n.log == nil {
		n.log = slog.New(slog.DiscardHandler)
	}

	n.ship.Orientation = geom.Unit(n.ship.Orientation)
	// The stored orientation may carry a bank; strip it to recover the heading.
	n.heading = geom.Unit(quat.Mul(n.ship.Orientation, geom.AxisAngle(geom.Forward, -n.ship.BankAngle)))
	n.ship.Speed = geom.Clamp(n.ship.Speed, 0, params.MaxSpeed)
	return n
}

// Phase returns the current navigation phase.
func (n *Navigator) Phase() Phase { return n.phase }

// Ship returns the ship's current state.
func (n *Navigator) Ship() ShipState { return n.ship }

// Speed returns the ship's current speed.
func (n *Navigator) Speed() float64 { return n.ship.Speed }

// Progress returns the last progress reported to the sink.
func (n *Navigator) Progress() telemetry.MissionProgress { return n.progress }

// Home returns the reference body the mission returns to.
func (n *Navigator) Home() string { return n.home }

// Leg returns a copy of the current leg context.
func (n *Navigator) Leg() LegContext {
	leg := n.leg
	if leg.Entry != nil {
		e := *leg.Entry
		leg.Entry = &e
	}
	return leg
}

// Queue returns the targets not yet started.
func (n *Navigator) Queue() MissionQueue { return n.queue.Clone() }

// Done reports whether the mission has completed.
func (n *Navigator) Done() bool { return n.phase == PhaseCompleted }

// Tick advances the navigator by dt seconds. Zero or negative dt is a no-op.
func (n *Navigator) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	switch n.phase {
	case PhasePlanning:
		n.tickPlanning()
	case PhaseLeaving:
		n.tickLeaving(dt)
	case PhaseTraveling:
		n.tickTraveling(dt)
	case PhaseOrbiting:
		n.tickOrbiting(dt)
	case PhaseCompleted:
		return
	}
	if n.phase != PhaseCompleted {
		n.sink.Speed(n.ship.Speed)
	}
}

func (n *Navigator) tickPlanning() {
	queue := n.planner.Plan(n.home, n.reg)
	if len(queue) == 0 {
		n.log.Debug("planning deferred, reference body unavailable", "home", n.home)
		return
	}
	n.queue = queue
	n.total = len(queue)
	n.visited = 0
	n.log.Info("mission planned", "home", n.home, "legs", n.total, "route", []string(queue))
	n.depart(n.ship.Forward())
}

func (n *Navigator) tickLeaving(dt float64) {
	p := &n.params
	n.approachSpeed(p.MaxSpeed, dt)
	n.ship.Position = r3.Add(n.ship.Position, r3.Scale(n.ship.Speed*dt, n.leg.ExitVector))
	n.ship.BankAngle = geom.Damp(n.ship.BankAngle, 0, p.BankRate, dt)
	n.applyOrientation()

	n.leg.PhaseTimer += dt
	if n.leg.PhaseTimer <= p.WarmUp {
		return
	}
	n.leg.PhaseTimer = 0

	if len(n.queue) == 0 {
		n.complete()
		return
	}

	id := n.queue[0]
	n.queue = n.queue[1:]
	n.leg = LegContext{TargetID: id, ExitVector: n.leg.ExitVector}
	n.visited++

	label := id
	if meta, ok := n.reg.Meta(id); ok {
		label = meta.Name()
	}
	n.progress = telemetry.MissionProgress{CurrentIndex: n.visited, Total: n.total, TargetLabel: label}
	n.sink.Progress(n.progress)
	n.transition(PhaseTraveling, "target", id)
}

func (n *Navigator) tickTraveling(dt float64) {
	p := &n.params
	target, ok := n.reg.WorldPosition(n.leg.TargetID)
	if !ok {
		n.abort("target position lost")
		return
	}
	meta, ok := n.reg.Meta(n.leg.TargetID)
	if !ok {
		n.abort("target metadata missing")
		return
	}

	if n.leg.Entry == nil {
		// Solved once per leg; the ship flies to the last known entry and the
		// residual drift is absorbed when the orbit starts.
		entry := n.solver.EntryPoint(n.ship.Position, target, n.solver.OrbitRadius(meta))
		n.leg.Entry = &entry
		n.leg.EntryComputations++
	}

	toEntry := r3.Sub(*n.leg.Entry, n.ship.Position)
	dist := r3.Norm(toEntry)

	cruise := p.MaxSpeed
	switch {
	case dist > p.FarBand:
		cruise = p.CruiseSpeed
	case dist < p.NearBand:
		cruise = p.OrbitSpeed
	}
	n.approachSpeed(cruise, dt)

	if dir, ok := geom.Normalize(toEntry); ok {
		step := math.Min(n.ship.Speed*dt, dist)
		n.ship.Position = r3.Add(n.ship.Position, r3.Scale(step, dir))
		dist -= step

		// Turn harder near the entry so the ship does not swing wide on arrival.
		closeness := geom.Clamp(1-dist/p.FarBand, 0, 1)
		rate := geom.Lerp(p.BaseTurnRate, p.NearTurnRate, closeness)
		n.steer(dir, rate, dt)
	}
	n.ship.BankAngle = geom.Damp(n.ship.BankAngle, 0, p.BankRate, dt)
	n.applyOrientation()

	if dist < p.ArrivalEpsilon {
		// The target kept moving after the entry was solved, so the ship can
		// arrive well off the parking radius. Start the orbit where the ship
		// is and let tickOrbiting close the gap.
		offset := geom.Flatten(r3.Sub(n.ship.Position, target))
		n.leg.OrbitAngle = geom.PlaneAngle(offset)
		n.leg.TraveledAngle = 0
		n.leg.OrbitRadius = n.solver.OrbitRadius(meta)
		n.leg.Radius = r3.Norm(offset)
		n.transition(PhaseOrbiting, "target", n.leg.TargetID,
			"radius", n.leg.OrbitRadius, "arrival_distance", n.leg.Radius)
	}
}

func (n *Navigator) tickOrbiting(dt float64) {
	p := &n.params
	target, ok := n.reg.WorldPosition(n.leg.TargetID)
	if !ok {
		n.abort("orbited body lost")
		return
	}

	n.approachSpeed(p.OrbitSpeed, dt)
	n.leg.Radius = n.easeRadius(n.leg.Radius, n.leg.OrbitRadius, dt)
	radius := n.leg.Radius

	sense := n.solver.OrbitSense()
	step := n.ship.Speed / math.Max(radius, minOrbitRadius) * dt
	n.leg.OrbitAngle += sense * step
	n.leg.TraveledAngle += step

	// Orbit plane stays locked to the target's current height.
	n.ship.Position = r3.Add(target, geom.Polar(n.leg.OrbitAngle, radius))

	ahead := r3.Add(target, geom.Polar(n.leg.OrbitAngle+sense*p.LookAheadAngle, radius))
	if dir, ok := geom.Normalize(r3.Sub(ahead, n.ship.Position)); ok {
		n.steer(dir, p.OrbitTurnRate, dt)
	}
	// Roll toward the orbit center: the ship's local +X points inward when
	// sense is negative.
	n.ship.BankAngle = geom.Damp(n.ship.BankAngle, sense*p.BankAngle, p.BankRate, dt)
	n.applyOrientation()

	if n.leg.TraveledAngle >= p.OrbitExitAngle {
		n.depart(n.ship.Forward())
	}
}

// depart starts a LEAVING dwell along exit.
func (n *Navigator) depart(exit r3.Vec) {
	exit, ok := geom.Normalize(exit)
	if !ok {
		exit = geom.Forward
	}
	n.leg.ExitVector = exit
	n.leg.PhaseTimer = 0
	n.leg.Entry = nil
	n.transition(PhaseLeaving)
}

// abort drops the current leg and leaves along the present heading.
func (n *Navigator) abort(reason string) {
	n.log.Warn("leg aborted", "reason", reason, "target", n.leg.TargetID, "phase", n.phase.String())
	n.leg = LegContext{}
	n.depart(n.ship.Forward())
}

func (n *Navigator) complete() {
	n.transition(PhaseCompleted)
	if n.notified {
		return
	}
	n.notified = true
	n.log.Info("mission complete", "legs", n.total)
	n.sink.MissionComplete()
}

func (n *Navigator) transition(to Phase, attrs ...any) {
	from := n.phase
	n.phase = to
	n.log.Debug("phase change", append([]any{"from", from.String(), "to", to.String()}, attrs...)...)
}

func (n *Navigator) approachSpeed(target, dt float64) {
	n.ship.Speed = geom.Clamp(geom.Damp(n.ship.Speed, target, n.params.Acceleration, dt), 0, n.params.MaxSpeed)
}

// easeRadius damps r toward goal, moving at most RadialSpeed*dt.
func (n *Navigator) easeRadius(r, goal, dt float64) float64 {
	limit := n.params.RadialSpeed * dt
	next := geom.Damp(r, goal, n.params.RadiusRate, dt)
	return r + geom.Clamp(next-r, -limit, limit)
}

func (n *Navigator) steer(dir r3.Vec, rate, dt float64) {
	want, ok := geom.LookRotation(dir, geom.Up)
	if !ok {
		return
	}
	n.heading = geom.Slerp(n.heading, want, geom.DampFactor(rate, dt))
}

func (n *Navigator) applyOrientation() {
	n.ship.Orientation = geom.Unit(quat.Mul(n.heading, geom.AxisAngle(geom.Forward, n.ship.BankAngle)))
}
