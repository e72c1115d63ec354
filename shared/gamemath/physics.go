package gamemath

import "math"

// Density returns the body density for a radius. Larger pieces are heavier
// per unit area.
func Density(radius float64) float64 {
	return 0.001 * (radius / 20)
}

// CircleMass returns the mass of a disc of the given radius and density.
func CircleMass(radius, density float64) float64 {
	return density * math.Pi * radius * radius
}

// CircleInertia returns the moment of inertia of a solid disc.
func CircleInertia(mass, radius float64) float64 {
	return 0.5 * mass * radius * radius
}

// AirDamping returns the velocity factor for a step of dt seconds, given a
// fraction lost per 1/60 s.
func AirDamping(airFriction, dt float64) float64 {
	if airFriction <= 0 {
		return 1
	}
	return math.Pow(1-airFriction, dt*60)
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ComboMultiplier returns 1 + min(bonusCap, (count-1)*step). Counts below 1
// yield 1.0.
func ComboMultiplier(count int, step, bonusCap float64) float64 {
	if count <= 1 {
		return 1.0
	}
	return 1.0 + math.Min(bonusCap, float64(count-1)*step)
}

// ApplyMultiplier floors base points times multiplier. The epsilon absorbs
// float error in multipliers such as 1.4.
func ApplyMultiplier(points int, multiplier float64) int {
	return int(math.Floor(float64(points)*multiplier + 1e-9))
}

// Attraction returns the acceleration each of a pair should receive toward the
// other. It is zero beyond rangeLimit and grows as the pair closes.
func Attraction(ax, ay, bx, by, strength, rangeLimit float64) (accX, accY float64) {
	dirX := bx - ax
	dirY := by - ay
	dist := math.Sqrt(dirX*dirX + dirY*dirY)
	if dist <= 0 || dist > rangeLimit {
		return 0, 0
	}
	mag := strength * 1e6 / dist
	return (dirX / dist) * mag, (dirY / dist) * mag
}

// Distance between two points.
func Distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}
