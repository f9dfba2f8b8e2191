package telemetry

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "autopilot"

// PromSink exports telemetry as prometheus metrics.
type PromSink struct {
	speed     prometheus.Gauge
	index     prometheus.Gauge
	total     prometheus.Gauge
	legs      prometheus.Counter
	completed prometheus.Counter
}

// NewPromSink creates the collectors and registers them with reg.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	s := &PromSink{
		speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ship_speed",
			Help:      "Current ship speed in world units per second.",
		}),
		index: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mission_index",
			Help:      "1-based index of the active mission leg.",
		}),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mission_total",
			Help:      "Number of legs in the active mission.",
		}),
		legs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "legs_started_total",
			Help:      "Mission legs started.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missions_completed_total",
			Help:      "Missions flown to completion.",
		}),
	}

	var errs []error
	for _, c := range []prometheus.Collector{s.speed, s.index, s.total, s.legs, s.completed} {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PromSink) Speed(v float64) { s.speed.Set(v) }

func (s *PromSink) Progress(p MissionProgress) {
	s.index.Set(float64(p.CurrentIndex))
	s.total.Set(float64(p.Total))
	s.legs.Inc()
}

func (s *PromSink) MissionComplete() { s.completed.Inc() }
