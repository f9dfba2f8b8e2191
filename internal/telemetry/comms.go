package telemetry

import "fmt"

// MsgPriority controls the color of a message in the comms panel.
type MsgPriority uint8

const (
	MsgInfo     MsgPriority = iota // cyan
	MsgWarning                     // yellow
	MsgCritical                    // red
	MsgDiscovery                   // green
)

// Message is a single entry in the comms log.
type Message struct {
	Text     string
	Priority MsgPriority
}

// CommsLog is a bounded FIFO of HUD messages. It doubles as a Sink so the
// HUD can show course changes and the mission result.
type CommsLog struct {
	Messages []Message
	maxSize  int
	width    int

	speed    float64
	progress MissionProgress
	done     bool
}

// NewCommsLog keeps the most recent maxSize lines, wrapping text at width
// columns (width <= 0 disables wrapping).
func NewCommsLog(maxSize, width int) *CommsLog {
	return &CommsLog{
		Messages: make([]Message, 0, maxSize),
		maxSize:  maxSize,
		width:    width,
	}
}

// Add appends a message, evicting the oldest lines if full.
func (l *CommsLog) Add(text string, priority MsgPriority) {
	for _, line := range wrapText(text, l.width) {
		msg := Message{Text: line, Priority: priority}
		if len(l.Messages) >= l.maxSize {
			copy(l.Messages, l.Messages[1:])
			l.Messages[len(l.Messages)-1] = msg
		} else {
			l.Messages = append(l.Messages, msg)
		}
	}
}

// Recent returns the last n messages (or fewer if the log is shorter).
func (l *CommsLog) Recent(n int) []Message {
	if n > len(l.Messages) {
		n = len(l.Messages)
	}
	return l.Messages[len(l.Messages)-n:]
}

// LastSpeed is the most recent speed report.
func (l *CommsLog) LastSpeed() float64 { return l.speed }

// Current is the most recent progress report.
func (l *CommsLog) Current() MissionProgress { return l.progress }

// Done reports whether the mission completion signal was received.
func (l *CommsLog) Done() bool { return l.done }

func (l *CommsLog) Speed(v float64) { l.speed = v }

func (l *CommsLog) Progress(p MissionProgress) {
	l.progress = p
	if p.CurrentIndex == p.Total {
		l.Add(fmt.Sprintf("Final leg: heading home to %s.", p.TargetLabel), MsgDiscovery)
		return
	}
	l.Add(fmt.Sprintf("Course set for %s (%d/%d).", p.TargetLabel, p.CurrentIndex, p.Total), MsgInfo)
}

func (l *CommsLog) MissionComplete() {
	l.done = true
	l.Add("Tour complete. Autopilot standing by.", MsgDiscovery)
}

// wrapText splits text into lines no longer than width, breaking on spaces.
func wrapText(s string, width int) []string {
	if width <= 0 || len(s) <= width {
		return []string{s}
	}
	var lines []string
	line := ""
	for _, w := range splitWords(s) {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) > width:
			lines = append(lines, line)
			line = w
		default:
			line += " " + w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i, r := range s {
		space := r == ' ' || r == '\t' || r == '\n'
		switch {
		case space && start >= 0:
			words = append(words, s[start:i])
			start = -1
		case !space && start < 0:
			start = i
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}
