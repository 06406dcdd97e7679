// Package colors assigns stable display colors to category labels.
package colors

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// PaletteSize is the number of colors in a palette.
const PaletteSize = 12

// DefaultPalette is used when no valid palette is configured.
var DefaultPalette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444",
	"#8B5CF6", "#06B6D4", "#EC4899", "#84CC16",
	"#F97316", "#14B8A6", "#6366F1", "#A855F7",
}

// Assigner maps categories to palette colors. The first request for a category fixes
// its color for the life of the Assigner. It is safe for concurrent use.
type Assigner struct {
	mu          sync.RWMutex
	palette     []string
	assignments map[string]string
}

// NewAssigner creates an Assigner. A palette that does not have exactly PaletteSize
// entries is replaced by DefaultPalette.
func NewAssigner(palette []string) *Assigner {
	if len(palette) != PaletteSize {
		palette = DefaultPalette
	}
	return &Assigner{
		palette:     append([]string(nil), palette...),
		assignments: make(map[string]string),
	}
}

// ColorFor returns the color of category, assigning one on first use.
func (a *Assigner) ColorFor(category string) string {
	a.mu.RLock()
	color, ok := a.assignments[category]
	a.mu.RUnlock()
	if ok {
		return color
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if color, ok := a.assignments[category]; ok {
		return color
	}
	color = a.palette[xxhash.Sum64String(category)%uint64(len(a.palette))]
	a.assignments[category] = color
	return color
}

// Assignments returns a copy of the current category to color map.
func (a *Assigner) Assignments() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]string, len(a.assignments))
	for k, v := range a.assignments {
		out[k] = v
	}
	return out
}

// Palette returns a copy of the palette in use.
func (a *Assigner) Palette() []string {
	return append([]string(nil), a.palette...)
}
