package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestStaticLookup(t *testing.T) {
	reg := NewStatic().
		Put(BodyMeta{ID: "mars", Label: "Mars", Radius: 2}, r3.Vec{X: 10}).
		Put(BodyMeta{ID: "earth", Radius: 3}, r3.Vec{Z: 5})

	assert.Equal(t, []string{"earth", "mars"}, reg.IDs())

	pos, ok := reg.WorldPosition("mars")
	require.True(t, ok)
	assert.Equal(t, r3.Vec{X: 10}, pos)

	meta, ok := reg.Meta("earth")
	require.True(t, ok)
	assert.Equal(t, "earth", meta.Name())

	_, ok = reg.WorldPosition("pluto")
	assert.False(t, ok)
}

func TestStaticMoveAndHide(t *testing.T) {
	reg := NewStatic().Put(BodyMeta{ID: "mars"}, r3.Vec{})

	reg.Move("mars", r3.Vec{Y: 4})
	reg.Move("pluto", r3.Vec{Y: 4})
	pos, _ := reg.WorldPosition("mars")
	assert.Equal(t, r3.Vec{Y: 4}, pos)
	_, ok := reg.Meta("pluto")
	assert.False(t, ok)

	reg.Hide("mars")
	_, ok = reg.WorldPosition("mars")
	assert.False(t, ok)
	_, ok = reg.Meta("mars")
	assert.True(t, ok, "hiding only affects position lookups")

	reg.Reveal("mars")
	_, ok = reg.WorldPosition("mars")
	assert.True(t, ok)
}

func TestStaticConcurrentReads(t *testing.T) {
	reg := NewStatic().Put(BodyMeta{ID: "earth"}, r3.Vec{X: 1})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = reg.WorldPosition("earth")
				_ = reg.IDs()
			}
		}()
	}
	wg.Wait()
}
