package orrery

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spacehole-rogue/autopilot/assets"
)

// Kind determines how a body is drawn.
type Kind uint8

const (
	KindStar Kind = iota
	KindRocky
	KindGas
	KindIce
	KindVolcanic
	KindMoon
)

var kindNames = [...]string{"star", "rocky", "gas", "ice", "volcanic", "moon"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a kind name to a Kind. An empty name is rocky.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindRocky, nil
	}
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// System is the JSON-serializable definition of a star system.
type System struct {
	Name string `json:"name"`
	// Home is the suggested mission reference body.
	Home   string    `json:"home"`
	Bodies []BodyDef `json:"bodies"`
}

// BodyDef defines one body. Bodies without a parent sit still at their
// height above the origin; others circle their parent.
type BodyDef struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Kind   Kind    `json:"kind"`
	Parent string  `json:"parent,omitempty"`
	Radius float64 `json:"radius"`
	Rings  bool    `json:"rings,omitempty"`
	// Distance from the parent in the orbital plane.
	Distance float64 `json:"distance,omitempty"`
	// Period is seconds per revolution. Zero means the body does not move.
	Period float64 `json:"period,omitempty"`
	// Phase is the starting angle in degrees.
	Phase  float64 `json:"phase,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// LoadSystem parses and validates a System from JSON bytes.
func LoadSystem(data []byte) (*System, error) {
	var sys System
	if err := json.Unmarshal(data, &sys); err != nil {
		return nil, fmt.Errorf("parse system: %w", err)
	}
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	return &sys, nil
}

// Builtin loads one of the embedded systems by name, e.g. "sol".
func Builtin(name string) (*System, error) {
	data, err := assets.Systems.ReadFile("systems/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("system %q: %w", name, err)
	}
	sys, err := LoadSystem(data)
	if err != nil {
		return nil, fmt.Errorf("system %q: %w", name, err)
	}
	return sys, nil
}

// BuiltinNames lists the embedded systems.
func BuiltinNames() []string {
	matches, _ := fs.Glob(assets.Systems, "systems/*.json")
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(m, "systems/"), ".json"))
	}
	return names
}

// Validate checks ids, parents and sizes. A parent must be declared before
// its children.
func (s *System) Validate() error {
	if len(s.Bodies) == 0 {
		return fmt.Errorf("system %q has no bodies", s.Name)
	}
	seen := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		switch {
		case b.ID == "":
			return fmt.Errorf("body %d: missing id", i)
		case seen[b.ID]:
			return fmt.Errorf("body %q: duplicate id", b.ID)
		case b.Radius <= 0:
			return fmt.Errorf("body %q: radius must be positive", b.ID)
		case b.Period < 0:
			return fmt.Errorf("body %q: period must not be negative", b.ID)
		case b.Parent != "" && !seen[b.Parent]:
			return fmt.Errorf("body %q: parent %q not declared before it", b.ID, b.Parent)
		case b.Parent != "" && b.Distance <= 0:
			return fmt.Errorf("body %q: distance must be positive", b.ID)
		}
		seen[b.ID] = true
	}
	if s.Home != "" && !seen[s.Home] {
		return fmt.Errorf("home body %q not in system", s.Home)
	}
	return nil
}
