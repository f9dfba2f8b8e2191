package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func assertVec(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-6, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-6, "z")
}

func TestNormalize(t *testing.T) {
	u, ok := Normalize(r3.Vec{X: 3, Z: 4})
	require.True(t, ok)
	assertVec(t, r3.Vec{X: 0.6, Z: 0.8}, u)

	_, ok = Normalize(r3.Vec{})
	assert.False(t, ok)
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{TwoPi + 0.5, 0.5},
		{-TwoPi - 0.5, TwoPi - 0.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, WrapAngle(tt.in), tol)
	}
}

func TestPolarRoundTrip(t *testing.T) {
	for _, a := range []float64{0, 0.3, math.Pi / 2, 2.5, -1} {
		v := Polar(a, 7)
		assert.InDelta(t, 7, r3.Norm(v), tol)
		assert.InDelta(t, math.Remainder(a, TwoPi), PlaneAngle(v), tol)
	}
}

func TestLookRotationForward(t *testing.T) {
	dirs := []r3.Vec{
		{Z: 1},
		{X: 1},
		{Z: -1},
		{X: -3, Z: 4},
		{X: 1, Y: 1, Z: 1},
		{Y: 1},
	}
	for _, d := range dirs {
		q, ok := LookRotation(d, Up)
		require.True(t, ok)
		want, _ := Normalize(d)
		assertVec(t, want, ForwardOf(q))
		assert.InDelta(t, 1, quat.Abs(q), 1e-9)
	}
}

func TestLookRotationKeepsUpright(t *testing.T) {
	q, ok := LookRotation(r3.Vec{X: 5, Z: -2}, Up)
	require.True(t, ok)
	assertVec(t, Up, UpOf(q))
}

func TestLookRotationDegenerate(t *testing.T) {
	q, ok := LookRotation(r3.Vec{}, Up)
	assert.False(t, ok)
	assert.Equal(t, Identity, q)
}

func TestAxisAngleRotatesForward(t *testing.T) {
	q := AxisAngle(Up, math.Pi/2)
	// +Z rotated a quarter turn about +Y lands on +X.
	assertVec(t, r3.Vec{X: 1}, ForwardOf(q))
}

func TestSlerpEndpointsAndMidpoint(t *testing.T) {
	a := Identity
	b := AxisAngle(Up, math.Pi/2)

	assert.Equal(t, a, Slerp(a, b, 0))
	assert.Equal(t, b, Slerp(a, b, 1))

	mid := Slerp(a, b, 0.5)
	assertVec(t, r3.Vec{X: math.Sqrt2 / 2, Z: math.Sqrt2 / 2}, ForwardOf(mid))
}

func TestSlerpTakesShortestArc(t *testing.T) {
	a := Identity
	b := quat.Scale(-1, AxisAngle(Up, 0.2))
	got := Slerp(a, b, 0.5)
	assertVec(t, ForwardOf(AxisAngle(Up, 0.1)), ForwardOf(got))
}

func TestDamp(t *testing.T) {
	assert.InDelta(t, 5, Damp(0, 10, 1, 0.5), tol)
	// Large steps saturate at the target instead of overshooting.
	assert.InDelta(t, 10, Damp(0, 10, 5, 1), tol)
	// Zero elapsed time changes nothing.
	assert.Equal(t, 3.0, Damp(3, 10, 5, 0))

	v := DampVec(r3.Vec{}, r3.Vec{X: 4, Y: -2}, 2, 0.25)
	assertVec(t, r3.Vec{X: 2, Y: -1}, v)
}

func TestClampAndLerp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))
	assert.InDelta(t, 7.5, Lerp(5, 10, 0.5), tol)
}
