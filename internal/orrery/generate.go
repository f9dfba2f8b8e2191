package orrery

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

var romanNumerals = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

var starNames = []string{"Vega", "Tau Ceti", "Lacaille", "Gliese", "Wolf", "Ross", "Kapteyn", "Luyten"}

// Generate creates a system with the given number of planets from a seed.
// The same seed always yields the same system.
func Generate(seed uint64, planets int) *System {
	rng := rand.New(rand.NewPCG(seed, seed>>16|1))
	planets = max(1, min(planets, len(romanNumerals)))

	starName := starNames[rng.IntN(len(starNames))]
	star := BodyDef{
		ID:     "star",
		Label:  starName,
		Kind:   KindStar,
		Radius: 8 + rng.Float64()*8,
	}
	sys := &System{Name: starName, Bodies: []BodyDef{star}}

	dist := star.Radius * 2
	var moons []BodyDef
	for i := 0; i < planets; i++ {
		dist += 25 + rng.Float64()*40
		kind := []Kind{KindRocky, KindGas, KindIce, KindVolcanic}[rng.IntN(4)]
		radius := 1.5 + rng.Float64()*2.5
		if kind == KindGas {
			radius += 3
		}
		id := "p" + strings.ToLower(romanNumerals[i])
		p := BodyDef{
			ID:       id,
			Label:    starName + " " + romanNumerals[i],
			Kind:     kind,
			Parent:   star.ID,
			Radius:   radius,
			Rings:    kind == KindGas && rng.IntN(2) == 0,
			Distance: dist,
			// Period grows as distance^1.5, loosely Keplerian.
			Period: 60 * math.Pow(dist/40, 1.5),
			Phase:  rng.Float64() * 360,
			Height: rng.Float64()*6 - 3,
		}
		sys.Bodies = append(sys.Bodies, p)

		// Moons only around bigger planets, 30% chance.
		if radius > 2.5 && rng.IntN(10) < 3 {
			moons = append(moons, BodyDef{
				ID:       id + "-a",
				Label:    fmt.Sprintf("%s %sa", starName, romanNumerals[i]),
				Kind:     KindMoon,
				Parent:   id,
				Radius:   0.6 + rng.Float64()*0.6,
				Distance: radius*4 + 6,
				Period:   20 + rng.Float64()*30,
				Phase:    rng.Float64() * 360,
			})
		}
	}
	sys.Bodies = append(sys.Bodies, moons...)

	// Home is the innermost planet.
	sys.Home = sys.Bodies[1].ID
	return sys
}
