// Package assets holds the data files compiled into the binary.
package assets

import "embed"

// Systems holds the star system definitions, one JSON file per system.
//
//go:embed systems/*.json
var Systems embed.FS
