// Package geom holds the small amount of 3D math the autopilot needs on top
// of gonum's r3 vectors and quaternions.
//
// Conventions: world up is +Y, the orbital plane is XZ and a body's local
// forward axis is +Z.
package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const epsilon = 1e-9

// TwoPi is one full revolution in radians.
const TwoPi = 2 * math.Pi

var (
	// Up is the world up axis.
	Up = r3.Vec{Y: 1}
	// Forward is the local forward axis of an unrotated body.
	Forward = r3.Vec{Z: 1}
	// Identity is the no-rotation orientation.
	Identity = quat.Number{Real: 1}
)

// Normalize returns the unit vector of v. ok is false for (near) zero vectors,
// where gonum's r3.Unit would produce NaNs.
func Normalize(v r3.Vec) (unit r3.Vec, ok bool) {
	n := r3.Norm(v)
	if n < epsilon {
		return r3.Vec{}, false
	}
	return r3.Scale(1/n, v), true
}

// Flatten projects v onto the orbital plane.
func Flatten(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Z: v.Z}
}

// PlaneAngle returns the angular coordinate of v in the orbital plane, atan2(z, x).
func PlaneAngle(v r3.Vec) float64 {
	return math.Atan2(v.Z, v.X)
}

// Polar returns the plane offset of length r at angle a (inverse of PlaneAngle).
func Polar(a, r float64) r3.Vec {
	return r3.Vec{X: math.Cos(a) * r, Z: math.Sin(a) * r}
}

// WrapAngle maps a into [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a
}

// Unit normalizes a quaternion. The zero quaternion maps to Identity.
func Unit(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n < epsilon {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// Rotate applies orientation q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// ForwardOf returns the world direction of q's forward axis.
func ForwardOf(q quat.Number) r3.Vec {
	return Rotate(q, Forward)
}

// UpOf returns the world direction of q's up axis.
func UpOf(q quat.Number) r3.Vec {
	return Rotate(q, Up)
}

// AxisAngle returns the rotation of angle radians about axis.
func AxisAngle(axis r3.Vec, angle float64) quat.Number {
	a, ok := Normalize(axis)
	if !ok {
		return Identity
	}
	s := math.Sin(angle / 2)
	return quat.Number{Real: math.Cos(angle / 2), Imag: a.X * s, Jmag: a.Y * s, Kmag: a.Z * s}
}

// LookRotation returns the orientation whose forward axis points along dir
// and whose up axis is as close to up as possible. ok is false when dir is
// degenerate, in which case Identity is returned.
func LookRotation(dir, up r3.Vec) (q quat.Number, ok bool) {
	z, ok := Normalize(dir)
	if !ok {
		return Identity, false
	}
	x, ok := Normalize(r3.Cross(up, z))
	if !ok {
		// dir is parallel to up.
		x, _ = Normalize(r3.Cross(r3.Vec{X: 1}, z))
	}
	y := r3.Cross(z, x)
	return fromBasis(x, y, z), true
}

// fromBasis converts the rotation matrix with columns x, y, z to a quaternion.
func fromBasis(x, y, z r3.Vec) quat.Number {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	var q quat.Number
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{Real: 0.25 / s, Imag: (m21 - m12) * s, Jmag: (m02 - m20) * s, Kmag: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{Real: (m21 - m12) / s, Imag: 0.25 * s, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: 0.25 * s, Kmag: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: 0.25 * s}
	}
	return Unit(q)
}

// Slerp interpolates along the shortest arc from a to b. t is clamped to [0, 1].
func Slerp(a, b quat.Number, t float64) quat.Number {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	cos := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	if cos < 0 {
		b = quat.Scale(-1, b)
		cos = -cos
	}
	if cos > 1-1e-6 {
		// Nearly parallel: nlerp is accurate and avoids dividing by sin(0).
		return Unit(quat.Add(a, quat.Scale(t, quat.Sub(b, a))))
	}
	theta := math.Acos(cos)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return Unit(quat.Add(quat.Scale(wa, a), quat.Scale(wb, b)))
}

// DampFactor is the fraction of the remaining gap closed in one step of
// exponential approach at rate over dt. Never exceeds 1, so a step can
// reach but not overshoot its target.
func DampFactor(rate, dt float64) float64 {
	f := rate * dt
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 1
	}
	return f
}

// Damp moves value toward target: value += (target - value) * rate * dt.
func Damp(value, target, rate, dt float64) float64 {
	return value + (target-value)*DampFactor(rate, dt)
}

// DampVec is Damp applied per component.
func DampVec(value, target r3.Vec, rate, dt float64) r3.Vec {
	return r3.Add(value, r3.Scale(DampFactor(rate, dt), r3.Sub(target, value)))
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
