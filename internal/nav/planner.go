package nav

import (
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/spacehole-rogue/autopilot/internal/geom"
	"github.com/spacehole-rogue/autopilot/internal/registry"
)

// MissionQueue is the ordered list of body ids still to visit.
type MissionQueue []string

// Strategy selects how the planner orders candidates.
type Strategy string

const (
	// StrategySweep visits bodies in the order they lie ahead of the
	// reference body along the direction of orbital motion.
	StrategySweep Strategy = "sweep"
	// StrategyShuffle visits bodies in a seeded random order.
	StrategyShuffle Strategy = "shuffle"
)

// MissionPlanner produces a visiting order. An empty queue means the
// reference body is not available yet.
type MissionPlanner interface {
	Plan(ref string, reg registry.Registry) MissionQueue
}

// Planner is the standard MissionPlanner.
type Planner struct {
	exclude  map[string]bool
	strategy Strategy
	rng      *rand.Rand
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithShuffle switches the planner to a random visiting order drawn from rng.
func WithShuffle(rng *rand.Rand) PlannerOption {
	return func(p *Planner) {
		p.strategy = StrategyShuffle
		p.rng = rng
	}
}

// NewPlanner creates a sweep planner that never visits the excluded ids.
func NewPlanner(exclude []string, opts ...PlannerOption) *Planner {
	p := &Planner{
		exclude:  make(map[string]bool, len(exclude)),
		strategy: StrategySweep,
	}
	for _, id := range exclude {
		p.exclude[id] = true
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.strategy == StrategyShuffle && p.rng == nil {
		p.rng = rand.New(rand.NewPCG(0, 1))
	}
	return p
}

// Strategy reports the ordering in use.
func (p *Planner) Strategy() Strategy { return p.strategy }

type candidate struct {
	id    string
	delta float64
}

// Plan orders every resolvable, non-excluded body other than ref and
// appends ref so the mission ends where it started.
func (p *Planner) Plan(ref string, reg registry.Registry) MissionQueue {
	refPos, ok := reg.WorldPosition(ref)
	if !ok {
		return nil
	}
	refAngle := geom.PlaneAngle(refPos)

	var cands []candidate
	for _, id := range reg.IDs() {
		if id == ref || p.exclude[id] {
			continue
		}
		pos, ok := reg.WorldPosition(id)
		if !ok {
			continue
		}
		cands = append(cands, candidate{
			id:    id,
			delta: geom.WrapAngle(geom.PlaneAngle(pos) - refAngle),
		})
	}

	// Sort by id first so both strategies start from a deterministic order.
	sort.Slice(cands, func(i, j int) bool { return cands[i].id < cands[j].id })

	switch p.strategy {
	case StrategyShuffle:
		p.rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
	default:
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].delta < cands[j].delta })
	}

	queue := make(MissionQueue, 0, len(cands)+1)
	for _, c := range cands {
		queue = append(queue, c.id)
	}
	return append(queue, ref)
}

// Clone returns an independent copy of the queue.
func (q MissionQueue) Clone() MissionQueue {
	return slices.Clone(q)
}
