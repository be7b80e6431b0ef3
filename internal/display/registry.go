// Package display maintains the session's snapshot of display geometries and
// resolves pointer coordinates to a display index.
package display

import (
	"fmt"

	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// Surface is one display's immutable geometry snapshot.
type Surface struct {
	Index  int
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies in the half-open rectangle
// [X, X+Width) x [Y, Y+Height).
func (s Surface) Contains(x, y int) bool {
	return x >= s.X && x < s.X+s.Width && y >= s.Y && y < s.Y+s.Height
}

// Registry holds the current set of surfaces. It does not detect staleness;
// callers decide when to Refresh.
type Registry struct {
	source   desktop.ScreenSource
	surfaces []Surface
}

// NewRegistry creates a registry backed by the given screen source. Call
// Refresh before first use.
func NewRegistry(source desktop.ScreenSource) *Registry {
	return &Registry{source: source}
}

// Refresh re-enumerates displays and replaces the surface set. Returns the
// new ordered set. An empty result is not an error; it just means nothing
// is resolvable until the next refresh.
func (r *Registry) Refresh() ([]Surface, error) {
	geoms, err := r.source.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate displays: %w", err)
	}

	surfaces := make([]Surface, 0, len(geoms))
	for i, g := range geoms {
		surfaces = append(surfaces, Surface{
			Index:  i,
			X:      g.X,
			Y:      g.Y,
			Width:  g.Width,
			Height: g.Height,
		})
	}

	r.surfaces = surfaces
	return surfaces, nil
}

// Surfaces returns the current snapshot.
func (r *Registry) Surfaces() []Surface {
	return r.surfaces
}

// Locate resolves a point to the first surface containing it. The second
// return is false when the point is outside every surface.
func (r *Registry) Locate(x, y int) (int, bool) {
	for _, s := range r.surfaces {
		if s.Contains(x, y) {
			return s.Index, true
		}
	}
	return 0, false
}
