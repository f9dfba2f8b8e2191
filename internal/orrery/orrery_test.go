package orrery

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacehole-rogue/autopilot/internal/geom"
)

func testSystem() *System {
	return &System{
		Name: "Test",
		Home: "earth",
		Bodies: []BodyDef{
			{ID: "sun", Label: "Sun", Kind: KindStar, Radius: 10},
			{ID: "earth", Label: "Earth", Parent: "sun", Radius: 3, Distance: 100, Period: 40},
			{ID: "moon", Parent: "earth", Kind: KindMoon, Radius: 1, Distance: 10, Period: 10, Phase: 90},
			{ID: "saturn", Parent: "sun", Kind: KindGas, Radius: 6, Rings: true, Distance: 200, Period: 100, Phase: 180, Height: 4},
		},
	}
}

func TestPositionsWaitForFirstAdvance(t *testing.T) {
	o, err := New(testSystem())
	require.NoError(t, err)

	_, ok := o.WorldPosition("earth")
	assert.False(t, ok)
	meta, ok := o.Meta("saturn")
	require.True(t, ok)
	assert.True(t, meta.HasRings)

	o.Advance(0)
	pos, ok := o.WorldPosition("earth")
	require.True(t, ok)
	assert.InDelta(t, 100, pos.X, 1e-9)
	assert.InDelta(t, 0, pos.Z, 1e-9)
}

func TestAdvanceMovesAlongCircle(t *testing.T) {
	o, err := New(testSystem())
	require.NoError(t, err)

	o.Advance(10) // quarter of earth's period
	earth, _ := o.WorldPosition("earth")
	assert.InDelta(t, 0, earth.X, 1e-9)
	assert.InDelta(t, 100, earth.Z, 1e-9)
	assert.InDelta(t, math.Pi/2, geom.PlaneAngle(earth), 1e-9)

	// The moon completes a full lap in the same time and keeps its offset.
	moon, _ := o.WorldPosition("moon")
	off := r3.Sub(moon, earth)
	assert.InDelta(t, 10, r3.Norm(off), 1e-9)
	assert.InDelta(t, math.Pi/2, geom.PlaneAngle(off), 1e-9)

	saturn, _ := o.WorldPosition("saturn")
	assert.InDelta(t, 4, saturn.Y, 1e-9)
	assert.InDelta(t, 200, r3.Norm(geom.Flatten(saturn)), 1e-9)

	sun, _ := o.WorldPosition("sun")
	assert.Equal(t, r3.Vec{}, sun)
	assert.Equal(t, 10.0, o.Clock())

	o.Advance(-5)
	assert.Equal(t, 10.0, o.Clock())
}

func TestHideAndReveal(t *testing.T) {
	o, err := New(testSystem())
	require.NoError(t, err)
	o.Advance(1)

	o.Hide("earth")
	_, ok := o.WorldPosition("earth")
	assert.False(t, ok)
	_, ok = o.Meta("earth")
	assert.True(t, ok, "metadata stays available")
	_, ok = o.WorldPosition("moon")
	assert.True(t, ok, "hiding a parent does not hide children")

	o.Reveal("earth")
	_, ok = o.WorldPosition("earth")
	assert.True(t, ok)

	assert.NotPanics(t, func() { o.Hide("pluto") })
	_, ok = o.WorldPosition("pluto")
	assert.False(t, ok)
}

func TestIDsAndStars(t *testing.T) {
	o, err := New(testSystem())
	require.NoError(t, err)
	assert.Equal(t, []string{"earth", "moon", "saturn", "sun"}, o.IDs())
	assert.Equal(t, []string{"sun"}, o.Stars())
	assert.Equal(t, "earth", o.Home())
}

func TestSnapshot(t *testing.T) {
	o, err := New(testSystem())
	require.NoError(t, err)
	o.Advance(0)
	o.Hide("saturn")

	views := o.Snapshot()
	require.Len(t, views, 4)
	assert.Equal(t, "sun", views[0].Meta.ID)
	assert.Equal(t, "earth", views[2].Parent)
	assert.Equal(t, views[1].Position, views[2].ParentPosition)
	assert.True(t, views[1].Visible)
	assert.False(t, views[3].Visible)
}

func TestConcurrentReaders(t *testing.T) {
	o, err := New(testSystem())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				o.WorldPosition("moon")
				o.Snapshot()
			}
		}()
	}
	for j := 0; j < 200; j++ {
		o.Advance(0.01)
	}
	wg.Wait()
}

func TestLoadSystem(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"ok", `{"name":"x","bodies":[{"id":"s","kind":"star","radius":1},{"id":"p","parent":"s","radius":1,"distance":5,"period":3}]}`, ""},
		{"bad json", `{`, "parse system"},
		{"empty", `{"name":"x","bodies":[]}`, "no bodies"},
		{"dup", `{"bodies":[{"id":"s","radius":1},{"id":"s","radius":1}]}`, "duplicate"},
		{"orphan", `{"bodies":[{"id":"p","parent":"s","radius":1,"distance":5}]}`, "not declared"},
		{"zero radius", `{"bodies":[{"id":"s","radius":0}]}`, "radius"},
		{"bad kind", `{"bodies":[{"id":"s","kind":"comet","radius":1}]}`, "comet"},
		{"bad home", `{"home":"q","bodies":[{"id":"s","radius":1}]}`, "home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSystem([]byte(tt.json))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuiltinSystems(t *testing.T) {
	names := BuiltinNames()
	require.Contains(t, names, "sol")
	for _, name := range names {
		sys, err := Builtin(name)
		require.NoError(t, err, name)
		_, err = New(sys)
		require.NoError(t, err, name)
	}

	sol, err := Builtin("sol")
	require.NoError(t, err)
	assert.Equal(t, "earth", sol.Home)

	_, err = Builtin("andromeda")
	assert.Error(t, err)
}

func TestGenerateIsSeeded(t *testing.T) {
	a, b := Generate(7, 6), Generate(7, 6)
	assert.Equal(t, a, b)
	require.NoError(t, a.Validate())
	assert.Equal(t, KindStar, a.Bodies[0].Kind)

	planets := 0
	for _, body := range a.Bodies {
		if body.Parent == "star" {
			planets++
		}
	}
	assert.Equal(t, 6, planets)
	assert.Equal(t, a.Bodies[1].ID, a.Home)

	assert.NotEqual(t, Generate(7, 6), Generate(8, 6))
	assert.GreaterOrEqual(t, len(Generate(1, 0).Bodies), 2)
}
