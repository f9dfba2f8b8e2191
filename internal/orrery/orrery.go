// Package orrery moves the bodies of a star system along circular orbits
// and answers position queries for the autopilot.
package orrery

import (
	"math"
	"slices"
	"sync"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacehole-rogue/autopilot/internal/geom"
	"github.com/spacehole-rogue/autopilot/internal/registry"
)

// Body is the descriptive component of a body entity.
type Body struct {
	Meta registry.BodyMeta
	Kind Kind
}

// Orbit is the motion component. Parent is empty for fixed bodies.
type Orbit struct {
	Parent   string
	Distance float64
	Period   float64
	Phase    float64 // radians
	Height   float64
}

// Placement is the resolved world position.
type Placement struct {
	Position r3.Vec
	Ready    bool
	Hidden   bool
}

// BodyView is a read-only snapshot of one body, for drawing.
type BodyView struct {
	Meta           registry.BodyMeta
	Kind           Kind
	Position       r3.Vec
	Parent         string
	ParentPosition r3.Vec
	Distance       float64
	Visible        bool
}

// Orrery stores bodies as ECS entities. It implements registry.Registry and
// is safe for concurrent readers; Advance takes the write lock.
type Orrery struct {
	mu     sync.RWMutex
	name   string
	home   string
	clock  float64
	world  *ecs.World
	bodies *ecs.Map[Body]
	orbits *ecs.Map[Orbit]
	places *ecs.Map[Placement]

	index map[string]ecs.Entity
	order []string // parents before children
}

var _ registry.Registry = (*Orrery)(nil)

// New builds an orrery from a validated system. No position resolves until
// the first Advance.
func New(sys *System) (*Orrery, error) {
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	w := ecs.NewWorld(256)
	o := &Orrery{
		name:   sys.Name,
		home:   sys.Home,
		world:  w,
		bodies: ecs.NewMap[Body](w),
		orbits: ecs.NewMap[Orbit](w),
		places: ecs.NewMap[Placement](w),
		index:  make(map[string]ecs.Entity, len(sys.Bodies)),
	}

	mapper := ecs.NewMap3[Body, Orbit, Placement](w)
	for _, b := range sys.Bodies {
		e := mapper.NewEntity(
			&Body{
				Meta: registry.BodyMeta{ID: b.ID, Label: b.Label, Radius: b.Radius, HasRings: b.Rings},
				Kind: b.Kind,
			},
			&Orbit{
				Parent:   b.Parent,
				Distance: b.Distance,
				Period:   b.Period,
				Phase:    b.Phase * math.Pi / 180,
				Height:   b.Height,
			},
			&Placement{},
		)
		o.index[b.ID] = e
		o.order = append(o.order, b.ID)
	}
	return o, nil
}

func (o *Orrery) Name() string { return o.name }

// Home is the system's suggested mission reference body.
func (o *Orrery) Home() string { return o.home }

// Clock is the simulated time in seconds.
func (o *Orrery) Clock() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.clock
}

// Advance moves the clock by dt and places every body. A zero dt only
// resolves positions.
func (o *Orrery) Advance(dt float64) {
	if dt < 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	o.clock += dt
	for _, id := range o.order {
		e := o.index[id]
		orb := o.orbits.Get(e)
		pl := o.places.Get(e)

		pos := r3.Vec{Y: orb.Height}
		if orb.Parent != "" {
			// Parents come first in order, so theirs is already current.
			parent := o.places.Get(o.index[orb.Parent]).Position
			angle := orb.Phase
			if orb.Period > 0 {
				angle += geom.TwoPi * o.clock / orb.Period
			}
			pos = r3.Add(parent, r3.Add(geom.Polar(angle, orb.Distance), r3.Vec{Y: orb.Height}))
		}
		pl.Position = pos
		pl.Ready = true
	}
}

// WorldPosition implements registry.Registry.
func (o *Orrery) WorldPosition(id string) (r3.Vec, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	e, ok := o.index[id]
	if !ok {
		return r3.Vec{}, false
	}
	pl := o.places.Get(e)
	if !pl.Ready || pl.Hidden {
		return r3.Vec{}, false
	}
	return pl.Position, true
}

// Meta implements registry.Registry.
func (o *Orrery) Meta(id string) (registry.BodyMeta, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	e, ok := o.index[id]
	if !ok {
		return registry.BodyMeta{}, false
	}
	return o.bodies.Get(e).Meta, true
}

// IDs implements registry.Registry. Ids are sorted.
func (o *Orrery) IDs() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ids := slices.Clone(o.order)
	slices.Sort(ids)
	return ids
}

// Stars returns the ids of every star, in declaration order.
func (o *Orrery) Stars() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var ids []string
	for _, id := range o.order {
		if o.bodies.Get(o.index[id]).Kind == KindStar {
			ids = append(ids, id)
		}
	}
	return ids
}

// Hide makes a body unresolvable until Reveal. Unknown ids are ignored.
func (o *Orrery) Hide(id string) { o.setHidden(id, true) }

// Reveal undoes Hide.
func (o *Orrery) Reveal(id string) { o.setHidden(id, false) }

func (o *Orrery) setHidden(id string, hidden bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e, ok := o.index[id]; ok {
		o.places.Get(e).Hidden = hidden
	}
}

// Snapshot returns every body in declaration order.
func (o *Orrery) Snapshot() []BodyView {
	o.mu.RLock()
	defer o.mu.RUnlock()
	views := make([]BodyView, 0, len(o.order))
	for _, id := range o.order {
		e := o.index[id]
		b, orb, pl := o.bodies.Get(e), o.orbits.Get(e), o.places.Get(e)
		v := BodyView{
			Meta:     b.Meta,
			Kind:     b.Kind,
			Position: pl.Position,
			Parent:   orb.Parent,
			Distance: orb.Distance,
			Visible:  pl.Ready && !pl.Hidden,
		}
		if orb.Parent != "" {
			v.ParentPosition = o.places.Get(o.index[orb.Parent]).Position
		}
		views = append(views, v)
	}
	return views
}
