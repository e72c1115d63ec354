package gamemath

import "math"

// Contact describes an overlap between two shapes. Normal points from the
// first shape toward the second; Depth is positive when overlapping.
type Contact struct {
	NormalX, NormalY float64
	Depth            float64
}

// CircleCircle tests two circles. Contacts within slop of touching are
// reported with a negative depth.
func CircleCircle(ax, ay, ar, bx, by, br, slop float64) (Contact, bool) {
	dx := bx - ax
	dy := by - ay
	dist := math.Sqrt(dx*dx + dy*dy)
	sum := ar + br
	if dist > sum+slop {
		return Contact{}, false
	}
	if dist == 0 {
		// Coincident centres: separate vertically.
		return Contact{NormalX: 0, NormalY: 1, Depth: sum}, true
	}
	return Contact{NormalX: dx / dist, NormalY: dy / dist, Depth: sum - dist}, true
}

// CircleHalfPlane tests a circle against the half-plane behind a face through
// (px, py) with outward unit normal (nx, ny). The returned normal points from
// the circle into the plane, so resolving always pushes along (nx, ny) no
// matter how deep the centre has sunk.
func CircleHalfPlane(cx, cy, r, px, py, nx, ny, slop float64) (Contact, bool) {
	d := (cx-px)*nx + (cy-py)*ny
	if d > r+slop {
		return Contact{}, false
	}
	return Contact{NormalX: -nx, NormalY: -ny, Depth: r - d}, true
}
