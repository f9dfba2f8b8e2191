package nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacehole-rogue/autopilot/internal/geom"
	"github.com/spacehole-rogue/autopilot/internal/registry"
)

func TestOrbitRadiusRingedVersusPlain(t *testing.T) {
	p := DefaultTrajectoryParams()
	tr := NewTrajectory(p)

	plain := registry.BodyMeta{ID: "mars", Radius: 5}
	ringed := registry.BodyMeta{ID: "saturn", Radius: 5, HasRings: true}

	assert.InDelta(t, 5*p.PlainFactor+p.Margin, tr.OrbitRadius(plain), 1e-12)
	assert.InDelta(t, 5*p.RingFactor+p.Margin, tr.OrbitRadius(ringed), 1e-12)
	assert.NotEqual(t, tr.OrbitRadius(plain), tr.OrbitRadius(ringed))

	// The ringed orbit clears the ring edge by at least the margin.
	assert.GreaterOrEqual(t, tr.RingClearance(ringed), p.Margin)
	assert.Greater(t, tr.OrbitRadius(ringed), 5*p.RingExtent+p.Margin-1e-12)
}

func TestEntryPointIsBesideApproach(t *testing.T) {
	tests := []struct {
		name    string
		sense   float64
		current r3.Vec
		want    r3.Vec
	}{
		{"right hand", -1, r3.Vec{}, r3.Vec{X: 10, Z: 4}},
		{"left hand", 1, r3.Vec{}, r3.Vec{X: 10, Z: -4}},
		{"height ignored", -1, r3.Vec{Y: 50}, r3.Vec{X: 10, Z: 4}},
		{"directly above", -1, r3.Vec{X: 10, Y: 30}, r3.Vec{X: 10, Z: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultTrajectoryParams()
			p.OrbitSense = tt.sense
			got := NewTrajectory(p).EntryPoint(tt.current, r3.Vec{X: 10}, 4)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-9)
		})
	}
}

// Arriving at the entry point, the approach direction must match the orbit
// tangent for the configured sense.
func TestEntryPointIsTangential(t *testing.T) {
	for _, sense := range []float64{-1, 1} {
		p := DefaultTrajectoryParams()
		p.OrbitSense = sense
		tr := NewTrajectory(p)

		current := r3.Vec{X: -30, Z: 55}
		target := r3.Vec{X: 40, Y: 2, Z: -10}
		entry := tr.EntryPoint(current, target, 9)

		offset := r3.Sub(entry, target)
		assert.InDelta(t, 9, r3.Norm(offset), 1e-9)
		assert.InDelta(t, 0, offset.Y, 1e-9)

		phi := geom.PlaneAngle(offset)
		tangent := r3.Scale(sense, r3.Vec{X: -math.Sin(phi), Z: math.Cos(phi)})
		approach, _ := geom.Normalize(geom.Flatten(r3.Sub(target, current)))
		assert.InDelta(t, 1, r3.Dot(tangent, approach), 1e-9, "sense %v", sense)
	}
}

func TestNewTrajectoryNormalizesSense(t *testing.T) {
	p := DefaultTrajectoryParams()
	p.OrbitSense = 0
	assert.Equal(t, -1.0, NewTrajectory(p).OrbitSense())
	p.OrbitSense = 1
	assert.Equal(t, 1.0, NewTrajectory(p).OrbitSense())
}
