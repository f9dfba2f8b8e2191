// Package telemetry carries the autopilot's outputs to displays: ship speed,
// mission progress and the one-shot mission completion signal.
package telemetry

// MissionProgress describes the active leg of a mission.
// CurrentIndex is 1-based; Total counts every leg including the return home.
type MissionProgress struct {
	CurrentIndex int
	Total        int
	TargetLabel  string
}

// Sink receives telemetry from a navigator. Calls happen on the tick
// goroutine and must not block.
type Sink interface {
	// Speed is reported every tick while a mission is active.
	Speed(v float64)
	// Progress is reported once per target change.
	Progress(p MissionProgress)
	// MissionComplete is reported exactly once per mission.
	MissionComplete()
}

// Nop discards everything.
type Nop struct{}

func (Nop) Speed(float64)            {}
func (Nop) Progress(MissionProgress) {}
func (Nop) MissionComplete()         {}

// Multi fans telemetry out to several sinks in order.
type Multi []Sink

// NewMulti builds a fan-out, skipping nil sinks.
func NewMulti(sinks ...Sink) Multi {
	m := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m Multi) Speed(v float64) {
	for _, s := range m {
		s.Speed(v)
	}
}

func (m Multi) Progress(p MissionProgress) {
	for _, s := range m {
		s.Progress(p)
	}
}

func (m Multi) MissionComplete() {
	for _, s := range m {
		s.MissionComplete()
	}
}

// Recorder keeps everything it receives. Used by tests and the headless
// simulator's summary.
type Recorder struct {
	Speeds      []float64
	Updates     []MissionProgress
	Completions int
}

func (r *Recorder) Speed(v float64)            { r.Speeds = append(r.Speeds, v) }
func (r *Recorder) Progress(p MissionProgress) { r.Updates = append(r.Updates, p) }
func (r *Recorder) MissionComplete()           { r.Completions++ }

// LastSpeed returns the most recent speed, or 0.
func (r *Recorder) LastSpeed() float64 {
	if len(r.Speeds) == 0 {
		return 0
	}
	return r.Speeds[len(r.Speeds)-1]
}
