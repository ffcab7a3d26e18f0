package engine

import "relic-server/internal/models"

// Orientation of the client display.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Extents are the current display dimensions as reported by the client,
// width first. In landscape the width is the long side.
type Extents struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultBaseline is the canvas legacy content was authored against.
// Stories may override it; it is never hardcoded inside the transform.
var DefaultBaseline = models.Baseline{Width: 375, Height: 667}

// AdaptPosition maps an authored portrait-baseline position into the current
// display's coordinate space. Portrait passes the point through unchanged.
// Landscape rotates the coordinate frame 90 degrees: each authored axis is
// scaled by its own current/baseline ratio and the axes are swapped, so an
// authored (x, y) lands at (y*height/H0, x*width/W0).
//
// Pure function: same inputs, same output, no shared state.
func AdaptPosition(p models.Position, o Orientation, ext Extents, base models.Baseline) models.Position {
	if base.Width == 0 || base.Height == 0 {
		base = DefaultBaseline
	}
	if o != OrientationLandscape {
		return p
	}
	return models.Position{
		X: p.Y * ext.Height / base.Height,
		Y: p.X * ext.Width / base.Width,
	}
}
