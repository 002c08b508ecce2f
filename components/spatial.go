package components

import "math"

// Position represents a world position. The ground plane is X/Z; Y is height.
type Position struct {
	X, Y, Z float32
}

// DistXZ returns the ground-plane distance between two positions.
func (p Position) DistXZ(o Position) float32 {
	return float32(math.Sqrt(float64(p.DistSqXZ(o))))
}

// DistSqXZ returns the squared ground-plane distance.
func (p Position) DistSqXZ(o Position) float32 {
	dx := o.X - p.X
	dz := o.Z - p.Z
	return dx*dx + dz*dz
}

// OffsetXZ returns p moved by dist along angle on the ground plane.
func (p Position) OffsetXZ(angle, dist float32) Position {
	s, c := math.Sincos(float64(angle))
	return Position{
		X: p.X + dist*float32(c),
		Y: p.Y,
		Z: p.Z + dist*float32(s),
	}
}

// Location is a spawn anchor (deposit). Locations are owned by the host
// simulation and handed to the scheduler each tick.
type Location struct {
	ID           LocationID
	Position     Position
	Visible      bool
	Depleted     bool
	MinerPresent bool
}
