package nav

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacehole-rogue/autopilot/internal/geom"
	"github.com/spacehole-rogue/autopilot/internal/registry"
)

// Solver sizes orbits and picks the point where the ship joins them.
type Solver interface {
	OrbitRadius(meta registry.BodyMeta) float64
	EntryPoint(current, target r3.Vec, radius float64) r3.Vec
	// OrbitSense is +1 or -1, the direction of travel around the target.
	OrbitSense() float64
}

// Trajectory is the standard Solver.
type Trajectory struct {
	p TrajectoryParams
}

// NewTrajectory creates a solver. Any OrbitSense other than +1 means -1.
func NewTrajectory(p TrajectoryParams) *Trajectory {
	if p.OrbitSense != 1 {
		p.OrbitSense = -1
	}
	return &Trajectory{p: p}
}

// OrbitRadius sizes the parking orbit for a body. Ringed bodies use their
// own factor so the orbit clears the rings.
func (t *Trajectory) OrbitRadius(meta registry.BodyMeta) float64 {
	if meta.HasRings {
		return meta.Radius*t.p.RingFactor + t.p.Margin
	}
	return meta.Radius*t.p.PlainFactor + t.p.Margin
}

// RingClearance is how far outside the ring edge a ringed body's orbit lies.
func (t *Trajectory) RingClearance(meta registry.BodyMeta) float64 {
	return t.OrbitRadius(meta) - meta.Radius*t.p.RingExtent
}

// EntryPoint returns the point on the target's orbit shell beside the
// approach line, so that arriving there the ship is already moving along
// the orbit. The side follows the orbit sense: right of the approach for
// a decreasing orbit angle, left for an increasing one.
func (t *Trajectory) EntryPoint(current, target r3.Vec, radius float64) r3.Vec {
	dir, ok := geom.Normalize(geom.Flatten(r3.Sub(target, current)))
	if !ok {
		// Directly above or below the target: any side works.
		dir = r3.Vec{X: 1}
	}
	right := r3.Cross(dir, geom.Up)
	side := -t.p.OrbitSense
	return r3.Add(target, r3.Scale(radius*side, right))
}

// OrbitSense returns +1 or -1, the configured direction around a target.
func (t *Trajectory) OrbitSense() float64 { return t.p.OrbitSense }
