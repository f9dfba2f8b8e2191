package nav

import "math"

// Params tunes the navigator. Speeds are world units per second, rates are
// per second and angles are radians.
type Params struct {
	MaxSpeed    float64
	CruiseSpeed float64 // far band
	OrbitSpeed  float64 // near band and while orbiting

	// Acceleration is the smoothing rate applied to speed.
	Acceleration float64

	// WarmUp is the LEAVING dwell before the next leg starts.
	WarmUp float64

	FarBand        float64
	NearBand       float64
	ArrivalEpsilon float64

	// BaseTurnRate applies far from the entry point; the rate rises
	// linearly to NearTurnRate as the ship closes in.
	BaseTurnRate float64
	NearTurnRate float64

	// OrbitExitAngle is how far the ship travels around a target before
	// peeling off. Slightly more than one revolution so it clears its
	// entry point.
	OrbitExitAngle float64
	LookAheadAngle float64
	OrbitTurnRate  float64

	// RadiusRate eases the orbit from the arrival distance to the solved
	// radius; RadialSpeed caps how fast that radius may change.
	RadiusRate  float64
	RadialSpeed float64

	BankAngle float64
	BankRate  float64
}

// DefaultParams returns the tuning used by the viewer.
func DefaultParams() Params {
	return Params{
		MaxSpeed:       20,
		CruiseSpeed:    14,
		OrbitSpeed:     6,
		Acceleration:   1.5,
		WarmUp:         1.2,
		FarBand:        40,
		NearBand:       10,
		ArrivalEpsilon: 2,
		BaseTurnRate:   1.5,
		NearTurnRate:   6,
		OrbitExitAngle: 2.2 * math.Pi,
		LookAheadAngle: 0.25,
		OrbitTurnRate:  6,
		RadiusRate:     1.5,
		RadialSpeed:    4,
		BankAngle:      0.35,
		BankRate:       2,
	}
}

// TrajectoryParams tunes orbit sizes and the injection geometry.
type TrajectoryParams struct {
	// PlainFactor and RingFactor scale a body's radius into an orbit radius.
	// RingFactor is the smaller of the two but must stay above RingExtent.
	PlainFactor float64
	RingFactor  float64
	// RingExtent is the outer edge of a ring system in body radii.
	RingExtent float64
	Margin     float64

	// OrbitSense is +1 when the orbit angle increases and -1 when it
	// decreases. The entry side follows from it so that injection is
	// always tangential; -1 gives right-hand injection.
	OrbitSense float64
}

// DefaultTrajectoryParams returns the tuning used by the viewer.
func DefaultTrajectoryParams() TrajectoryParams {
	return TrajectoryParams{
		PlainFactor: 3.0,
		RingFactor:  2.6,
		RingExtent:  2.3,
		Margin:      4,
		OrbitSense:  -1,
	}
}
