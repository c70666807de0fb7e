// Package particles implements the ambient particle field: spawning,
// per-frame stepping with boundary reflection and pointer repulsion, and
// proximity connections. Nothing in here touches a drawing surface except
// Render, so the simulation can be driven and inspected headless.
package particles

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/particle-portfolio/internal/config"
)

// Particle is one moving point. Radius is fixed at spawn time.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// Bounds is the drawable area; positions live in [0,Width]×[0,Height].
type Bounds struct {
	Width, Height float64
}

// Pointer is the last known pointer location. Present is false while the
// pointer is outside the interactive region.
type Pointer struct {
	X, Y    float64
	Present bool
}

// Absent is the cleared pointer state.
var Absent = Pointer{}

// Tuning holds the simulation constants. Per-frame connection cost is
// quadratic in the population, which MaxParticles bounds.
type Tuning struct {
	Density         float64 // surface area per particle
	MaxParticles    int
	Speed           float64 // per-frame velocity magnitude at spawn
	MinRadius       float64
	MaxRadius       float64
	ConnectDistance float64
	PointerRadius   float64
	PushDamping     float64 // max per-frame velocity change from the pointer
	MaxLineAlpha    float64 // opacity of a link between coincident particles
}

// DefaultTuning returns the reference constants.
func DefaultTuning() Tuning {
	return Tuning{
		Density:         config.ParticleDensity,
		MaxParticles:    config.MaxParticles,
		Speed:           config.ParticleSpeed,
		MinRadius:       config.MinParticleSize,
		MaxRadius:       config.MaxParticleSize,
		ConnectDistance: config.ConnectDistance,
		PointerRadius:   config.PointerRadius,
		PushDamping:     config.PushDamping,
		MaxLineAlpha:    config.MaxLineAlpha,
	}
}

// WithDefaults fills zero fields from DefaultTuning.
func (t Tuning) WithDefaults() Tuning {
	d := DefaultTuning()
	if t.Density <= 0 {
		t.Density = d.Density
	}
	if t.MaxParticles <= 0 {
		t.MaxParticles = d.MaxParticles
	}
	if t.Speed <= 0 {
		t.Speed = d.Speed
	}
	if t.MinRadius <= 0 {
		t.MinRadius = d.MinRadius
	}
	if t.MaxRadius < t.MinRadius {
		t.MaxRadius = math.Max(d.MaxRadius, t.MinRadius)
	}
	if t.ConnectDistance <= 0 {
		t.ConnectDistance = d.ConnectDistance
	}
	if t.PointerRadius <= 0 {
		t.PointerRadius = d.PointerRadius
	}
	if t.PushDamping <= 0 {
		t.PushDamping = d.PushDamping
	}
	if t.MaxLineAlpha <= 0 {
		t.MaxLineAlpha = d.MaxLineAlpha
	}
	return t
}

// Population returns min(floor(width*height/Density), MaxParticles).
func Population(width, height int, t Tuning) int {
	if width <= 0 || height <= 0 || t.Density <= 0 {
		return 0
	}
	n := int(math.Floor(float64(width) * float64(height) / t.Density))
	return min(n, t.MaxParticles)
}

// Spawn creates Population(b) particles with uniform positions, uniform
// headings at t.Speed and radii in [MinRadius, MaxRadius).
func Spawn(rng *rand.Rand, b Bounds, t Tuning) []Particle {
	n := Population(int(b.Width), int(b.Height), t)
	ps := make([]Particle, n)
	for i := range ps {
		angle := rng.Float64() * 2 * math.Pi
		ps[i] = Particle{
			X:      rng.Float64() * b.Width,
			Y:      rng.Float64() * b.Height,
			VX:     math.Cos(angle) * t.Speed,
			VY:     math.Sin(angle) * t.Speed,
			Radius: t.MinRadius + rng.Float64()*(t.MaxRadius-t.MinRadius),
		}
	}
	return ps
}
