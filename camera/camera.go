// Package camera provides the top-down viewpoint used to decide which spawn
// locations are visible and which are evaluated first.
package camera

import (
	"math"

	"github.com/pthm-cable/hive/components"
)

// Camera looks down on the X/Z ground plane of a bounded square world.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Z float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World half-extent; the world spans [-Extent, Extent] on both axes
	Extent float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world origin with 1:1 zoom.
func New(viewportW, viewportH, extent float32) *Camera {
	c := &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Extent:    extent,
		MaxZoom:   4.0,
	}
	c.MinZoom = c.minZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	return c
}

// minZoom keeps the visible area no larger than the world.
func (c *Camera) minZoom() float32 {
	size := 2 * c.Extent
	if size <= 0 {
		return 1
	}
	return max(c.ViewportW/size, c.ViewportH/size)
}

// LookAt returns the ground point under the camera center.
func (c *Camera) LookAt() components.Position {
	return components.Position{X: c.X, Z: c.Z}
}

// WorldToScreen converts ground coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wz float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wz-c.Z)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to ground coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wz float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wz = c.Z + (sy-c.ViewportH/2)/c.Zoom
	return wx, wz
}

// IsVisible returns true if a circle at (wx, wz) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wz, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wz-c.Z) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.minZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels.
// The view stays inside the world bounds.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Z += dy / c.Zoom
	c.clampCenter()
}

// MoveTo centers the camera on a ground point, clamped to the world.
func (c *Camera) MoveTo(wx, wz float32) {
	c.X = wx
	c.Z = wz
	c.clampCenter()
}

// Orbit places the camera on a circle of radius r around the origin,
// completing one revolution every period seconds.
func (c *Camera) Orbit(t, r, period float64) {
	if period <= 0 {
		return
	}
	a := 2 * math.Pi * t / period
	c.MoveTo(float32(r*math.Cos(a)), float32(r*math.Sin(a)))
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X, c.Z = 0, 0
	c.Zoom = max(1.0, c.MinZoom)
}

// VisibleWorldBounds returns the ground-plane bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minZ, maxX, maxZ float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Z - halfH, c.X + halfW, c.Z + halfH
}

// clampCenter keeps the visible area inside [-Extent, Extent].
func (c *Camera) clampCenter() {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clamp(c.X, -c.Extent+halfW, c.Extent-halfW)
	c.Z = clamp(c.Z, -c.Extent+halfH, c.Extent-halfH)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range. An empty range collapses to its midpoint.
func clamp(x, lo, hi float32) float32 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
