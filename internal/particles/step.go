package particles

import "math"

// Step advances every particle by one frame in place: move, reflect at the
// bounds, then apply pointer repulsion. Velocities are per-frame units.
func Step(ps []Particle, b Bounds, ptr Pointer, t Tuning) {
	for i := range ps {
		p := &ps[i]

		p.X, p.VX = advance(p.X, p.VX, b.Width)
		p.Y, p.VY = advance(p.Y, p.VY, b.Height)

		if ptr.Present {
			dvx, dvy := Repulsion(p.X, p.Y, p.VX, p.VY, ptr, t)
			p.VX += dvx
			p.VY += dvy
		}
	}
}

// advance moves along one axis. A move that would leave [0,limit] flips the
// velocity sign and mirrors the position back inside.
func advance(pos, vel, limit float64) (float64, float64) {
	next := pos + vel
	if next < 0 || next > limit {
		vel = -vel
		if next < 0 {
			next = -next
		} else {
			next = 2*limit - next
		}
	}
	return clamp(next, 0, limit), vel
}

// Repulsion returns the velocity change the pointer applies to a particle at
// (x, y) moving with (vx, vy). The magnitude is PushDamping scaled by
// (R-d)/R inside the pointer radius R and zero at or beyond it. A particle
// exactly under the pointer is pushed along its own heading, or +X at rest.
func Repulsion(x, y, vx, vy float64, ptr Pointer, t Tuning) (dvx, dvy float64) {
	if !ptr.Present || t.PointerRadius <= 0 {
		return 0, 0
	}

	dx := x - ptr.X
	dy := y - ptr.Y
	dist := math.Hypot(dx, dy)
	if dist >= t.PointerRadius {
		return 0, 0
	}

	var nx, ny float64
	switch speed := math.Hypot(vx, vy); {
	case dist > 0:
		nx, ny = dx/dist, dy/dist
	case speed > 0:
		nx, ny = vx/speed, vy/speed
	default:
		nx = 1
	}

	force := (t.PointerRadius - dist) / t.PointerRadius
	return nx * force * t.PushDamping, ny * force * t.PushDamping
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
