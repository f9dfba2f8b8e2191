// Package camera frames the ship for a third-person view.
package camera

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacehole-rogue/autopilot/internal/geom"
	"github.com/spacehole-rogue/autopilot/internal/nav"
)

// Params tunes the framer. Distances are world units, rates are per second.
type Params struct {
	ChaseDistance float64 // follow distance outside orbit
	OrbitDistance float64 // wide shot while orbiting

	// Height above the ship, lerped from NearHeight at ChaseDistance to
	// FarHeight at OrbitDistance.
	NearHeight float64
	FarHeight  float64

	DistanceRate float64
	PositionRate float64

	// LookAhead is how far in front of the ship the camera aims.
	LookAhead float64
}

// DefaultParams returns the framing used by the viewer.
func DefaultParams() Params {
	return Params{
		ChaseDistance: 14,
		OrbitDistance: 32,
		NearHeight:    4,
		FarHeight:     12,
		DistanceRate:  1.2,
		PositionRate:  4,
		LookAhead:     12,
	}
}

// Transform is what the render camera reads each frame.
type Transform struct {
	Position r3.Vec
	LookAt   r3.Vec
}

// Framer tracks one ship. The zero value is not usable; call New.
type Framer struct {
	p        Params
	distance float64
	current  Transform
	started  bool
}

// New returns a framer that places itself on the first Frame call.
func New(p Params) *Framer {
	return &Framer{p: p, distance: p.ChaseDistance}
}

// Distance is the current smoothed follow distance.
func (f *Framer) Distance() float64 { return f.distance }

// Current returns the last computed transform.
func (f *Framer) Current() Transform { return f.current }

// Reset makes the next frame jump straight to its computed point.
func (f *Framer) Reset() {
	f.started = false
	f.distance = f.p.ChaseDistance
}

// Frame advances the camera by dt and returns the new transform. The first
// frame places the camera directly; later frames ease toward the computed
// point. A non-positive dt returns the previous transform unchanged.
func (f *Framer) Frame(dt float64, ship nav.ShipState, phase nav.Phase) Transform {
	if f.started && dt <= 0 {
		return f.current
	}

	want := f.p.ChaseDistance
	if phase == nav.PhaseOrbiting {
		want = f.p.OrbitDistance
	}

	fwd := ship.Forward()
	if f.started {
		f.distance = geom.Damp(f.distance, want, f.p.DistanceRate, dt)
	} else {
		f.distance = want
	}

	goal := r3.Add(ship.Position, r3.Scale(-f.distance, fwd))
	goal = r3.Add(goal, r3.Scale(f.height(), geom.Up))
	lookAt := r3.Add(ship.Position, r3.Scale(f.p.LookAhead, fwd))

	if !f.started {
		f.current = Transform{Position: goal, LookAt: lookAt}
		f.started = true
		return f.current
	}
	f.current = Transform{
		Position: geom.DampVec(f.current.Position, goal, f.p.PositionRate, dt),
		LookAt:   lookAt,
	}
	return f.current
}

func (f *Framer) height() float64 {
	span := f.p.OrbitDistance - f.p.ChaseDistance
	if span == 0 {
		return f.p.NearHeight
	}
	t := geom.Clamp((f.distance-f.p.ChaseDistance)/span, 0, 1)
	return geom.Lerp(f.p.NearHeight, f.p.FarHeight, t)
}
