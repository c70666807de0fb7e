package particles

import "math/rand/v2"

// Simulation owns a particle set and the bounds it lives in.
type Simulation struct {
	tuning Tuning
	rng    *rand.Rand
	bounds Bounds
	ps     []Particle
}

// NewSimulation returns an empty simulation; call Resize to populate it.
func NewSimulation(t Tuning, rng *rand.Rand) *Simulation {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Simulation{tuning: t, rng: rng}
}

// Resize sets new bounds and replaces the whole particle set. Nothing from
// the previous set carries over.
func (s *Simulation) Resize(width, height int) {
	s.bounds = Bounds{Width: float64(max(width, 0)), Height: float64(max(height, 0))}
	s.ps = Spawn(s.rng, s.bounds, s.tuning)
}

// Step advances the simulation by one frame.
func (s *Simulation) Step(ptr Pointer) {
	Step(s.ps, s.bounds, ptr, s.tuning)
}

// Render draws the current state onto surf.
func (s *Simulation) Render(surf Surface, st Style) int {
	return Render(surf, s.ps, s.tuning, st)
}

// Particles exposes the live slice. Callers must not retain it across Resize.
func (s *Simulation) Particles() []Particle { return s.ps }

func (s *Simulation) Bounds() Bounds { return s.bounds }

func (s *Simulation) Tuning() Tuning { return s.tuning }
