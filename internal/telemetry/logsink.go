package telemetry

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// LogSink writes telemetry as structured log records. Speed arrives every
// tick, so it is sampled at most once per interval.
type LogSink struct {
	log   *slog.Logger
	every *rate.Sometimes
}

// NewLogSink logs speed at most once per interval (interval <= 0 logs the
// first report only).
func NewLogSink(log *slog.Logger, interval time.Duration) *LogSink {
	s := &rate.Sometimes{Interval: interval}
	if interval <= 0 {
		s = &rate.Sometimes{First: 1}
	}
	return &LogSink{log: log, every: s}
}

func (s *LogSink) Speed(v float64) {
	s.every.Do(func() {
		s.log.Debug("ship speed", "speed", v)
	})
}

func (s *LogSink) Progress(p MissionProgress) {
	s.log.Info("target changed",
		"target", p.TargetLabel,
		"leg", p.CurrentIndex,
		"legs", p.Total,
	)
}

func (s *LogSink) MissionComplete() {
	s.log.Info("mission complete")
}
