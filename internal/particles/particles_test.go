package particles

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestPopulation(t *testing.T) {
	tu := DefaultTuning()

	tests := []struct {
		name          string
		width, height int
		want          int
	}{
		{"reference window", 1000, 800, 26},
		{"full hd is capped", 1920, 1080, 60},
		{"tiny surface", 100, 100, 0},
		{"exact multiple", 300, 100, 1},
		{"zero width", 0, 800, 0},
		{"negative height", 800, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Population(tt.width, tt.height, tu))
		})
	}
}

func TestSpawnWithinBoundsAndRanges(t *testing.T) {
	tu := DefaultTuning()
	b := Bounds{Width: 1920, Height: 1080}

	ps := Spawn(seeded(1), b, tu)
	require.Len(t, ps, 60)

	for i, p := range ps {
		assert.GreaterOrEqual(t, p.X, 0.0, "particle %d", i)
		assert.LessOrEqual(t, p.X, b.Width, "particle %d", i)
		assert.GreaterOrEqual(t, p.Y, 0.0, "particle %d", i)
		assert.LessOrEqual(t, p.Y, b.Height, "particle %d", i)
		assert.InDelta(t, tu.Speed, math.Hypot(p.VX, p.VY), 1e-12, "particle %d speed", i)
		assert.GreaterOrEqual(t, p.Radius, tu.MinRadius)
		assert.Less(t, p.Radius, tu.MaxRadius)
	}
}

func TestStepReflectsAtLeftAndTop(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	ps := []Particle{{X: 1, Y: 50, VX: -3, VY: 0.5, Radius: 1}}

	Step(ps, b, Absent, DefaultTuning())

	assert.Equal(t, 3.0, ps[0].VX, "horizontal component flips")
	assert.Equal(t, 0.5, ps[0].VY, "vertical component untouched")
	assert.Equal(t, 2.0, ps[0].X)
	assert.Equal(t, 50.5, ps[0].Y)

	ps = []Particle{{X: 50, Y: 0.5, VX: 0.25, VY: -1}}
	Step(ps, b, Absent, DefaultTuning())
	assert.Equal(t, 0.25, ps[0].VX)
	assert.Equal(t, 1.0, ps[0].VY)
	assert.Equal(t, 0.5, ps[0].Y)
}

func TestStepReflectsAtRightAndBottom(t *testing.T) {
	b := Bounds{Width: 100, Height: 80}
	ps := []Particle{{X: 99, Y: 79, VX: 3, VY: 2}}

	Step(ps, b, Absent, DefaultTuning())

	assert.Equal(t, -3.0, ps[0].VX)
	assert.Equal(t, -2.0, ps[0].VY)
	assert.Equal(t, 98.0, ps[0].X)
	assert.Equal(t, 79.0, ps[0].Y)
}

func TestStepWithoutCrossingKeepsVelocity(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	ps := []Particle{{X: 10, Y: 10, VX: 0.15, VY: -0.1}}

	Step(ps, b, Absent, DefaultTuning())

	assert.Equal(t, 0.15, ps[0].VX)
	assert.Equal(t, -0.1, ps[0].VY)
	assert.InDelta(t, 10.15, ps[0].X, 1e-12)
	assert.InDelta(t, 9.9, ps[0].Y, 1e-12)
}

func TestStepContainsParticlesOverManyFrames(t *testing.T) {
	tu := DefaultTuning()
	b := Bounds{Width: 640, Height: 360}
	rng := seeded(7)
	ps := Spawn(rng, b, tu)
	// a few fast particles that overshoot by more than the surface size
	ps = append(ps,
		Particle{X: 5, Y: 5, VX: -900, VY: 700, Radius: 1},
		Particle{X: 630, Y: 350, VX: 1500, VY: -2000, Radius: 1},
	)

	for frame := 0; frame < 5000; frame++ {
		ptr := Absent
		if frame%3 != 0 {
			ptr = Pointer{X: rng.Float64() * b.Width, Y: rng.Float64() * b.Height, Present: true}
		}
		Step(ps, b, ptr, tu)

		for i, p := range ps {
			if p.X < 0 || p.X > b.Width || p.Y < 0 || p.Y > b.Height {
				t.Fatalf("frame %d: particle %d escaped to (%f, %f)", frame, i, p.X, p.Y)
			}
		}
	}
}

func TestRepulsionDecaysWithDistance(t *testing.T) {
	tu := DefaultTuning()
	ptr := Pointer{X: 500, Y: 500, Present: true}

	prev := math.Inf(1)
	for d := 0.0; d <= 2*tu.PointerRadius; d += 2.5 {
		dvx, dvy := Repulsion(ptr.X+d, ptr.Y, 0, 0, ptr, tu)
		mag := math.Hypot(dvx, dvy)
		assert.LessOrEqual(t, mag, prev, "distance %f", d)
		if d >= tu.PointerRadius {
			assert.Zero(t, mag, "distance %f is outside the radius", d)
		}
		prev = mag
	}
}

func TestRepulsionPushesAwayFromPointer(t *testing.T) {
	tu := DefaultTuning()
	ptr := Pointer{X: 100, Y: 100, Present: true}

	dvx, dvy := Repulsion(70, 140, 0, 0, ptr, tu) // 3-4-5 triangle, d = 50
	want := tu.PushDamping * (tu.PointerRadius - 50) / tu.PointerRadius
	assert.InDelta(t, -0.6*want, dvx, 1e-12)
	assert.InDelta(t, 0.8*want, dvy, 1e-12)
}

func TestRepulsionAtPointerCenterIsMaximal(t *testing.T) {
	tu := DefaultTuning()
	ptr := Pointer{X: 40, Y: 40, Present: true}

	dvx, dvy := Repulsion(40, 40, 0, 0, ptr, tu)
	assert.Equal(t, tu.PushDamping, dvx)
	assert.Zero(t, dvy)

	// heading decides the direction when the pointer sits on the particle
	dvx, dvy = Repulsion(40, 40, 0, -0.3, ptr, tu)
	assert.Zero(t, dvx)
	assert.InDelta(t, -tu.PushDamping, dvy, 1e-12)

	for d := 1.0; d < tu.PointerRadius; d += 10 {
		x, y := Repulsion(40+d, 40, 0, 0, ptr, tu)
		assert.Less(t, math.Hypot(x, y), tu.PushDamping)
	}
}

func TestRepulsionIgnoredWhenPointerAbsent(t *testing.T) {
	dvx, dvy := Repulsion(1, 1, 0, 0, Pointer{X: 1, Y: 1}, DefaultTuning())
	assert.Zero(t, dvx)
	assert.Zero(t, dvy)
}

func TestStepAppliesRepulsionOnlyInsideRadius(t *testing.T) {
	tu := DefaultTuning()
	b := Bounds{Width: 1000, Height: 1000}
	ptr := Pointer{X: 500, Y: 500, Present: true}
	ps := []Particle{
		{X: 520, Y: 500},
		{X: 500 + tu.PointerRadius + 10, Y: 500},
	}

	Step(ps, b, ptr, tu)

	assert.Greater(t, ps[0].VX, 0.0, "near particle is pushed to +X")
	assert.Zero(t, ps[1].VX)
	assert.Zero(t, ps[1].VY)
}

func TestConnectionsEachPairOnce(t *testing.T) {
	tu := DefaultTuning()
	ps := Spawn(seeded(3), Bounds{Width: 400, Height: 300}, Tuning{
		Density: 1000, MaxParticles: 60, Speed: tu.Speed, MinRadius: 1, MaxRadius: 2,
	})
	require.Len(t, ps, 60)

	links := Connections(ps, tu)
	require.NotEmpty(t, links)

	seen := map[[2]int]bool{}
	for _, l := range links {
		require.Less(t, l.I, l.J)
		key := [2]int{l.I, l.J}
		require.False(t, seen[key], "pair %v drawn twice", key)
		seen[key] = true
	}

	maxD2 := tu.ConnectDistance * tu.ConnectDistance
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			dx, dy := ps[i].X-ps[j].X, ps[i].Y-ps[j].Y
			assert.Equal(t, dx*dx+dy*dy < maxD2, seen[[2]int{i, j}], "pair %d-%d", i, j)
		}
	}
}

func TestConnectionAlphaMonotonic(t *testing.T) {
	tu := DefaultTuning()
	ps := []Particle{
		{X: 0, Y: 0},
		{X: 0, Y: 0},
		{X: 30, Y: 0},
		{X: 90, Y: 0},
		{X: 119.9, Y: 0},
		{X: 120, Y: 0},
	}

	links := Connections(ps, tu)

	type pair struct{ dist, alpha float64 }
	var got []pair
	for _, l := range links {
		got = append(got, pair{math.Abs(ps[l.I].X - ps[l.J].X), l.Alpha})
	}
	sort.Slice(got, func(a, b int) bool { return got[a].dist < got[b].dist })
	for k := 1; k < len(got); k++ {
		assert.LessOrEqual(t, got[k].alpha, got[k-1].alpha)
	}

	assert.Equal(t, tu.MaxLineAlpha, links[0].Alpha, "coincident particles are fully opaque")
	for _, l := range links {
		assert.False(t, l.I == 0 && l.J == 5, "pair at exactly the threshold is not connected")
	}
}

func TestGridConnectionsMatchPairScan(t *testing.T) {
	tu := DefaultTuning()
	tu.MaxParticles = 800
	tu.Density = 5000
	ps := Spawn(seeded(11), Bounds{Width: 2000, Height: 2000}, tu)
	require.Greater(t, len(ps), gridThreshold)

	want := pairConnections(ps, tu)
	got := Connections(ps, tu)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("grid connections differ (-pairs +grid):\n%s", diff)
	}
}

func TestRenderDrawsDiscsAndLinks(t *testing.T) {
	tu := DefaultTuning()
	st := DefaultStyle()
	rec := NewRecorder(200, 200)
	ps := []Particle{
		{X: 10, Y: 10, Radius: 1},
		{X: 40, Y: 10, Radius: 2},
		{X: 190, Y: 190, Radius: 1.5},
	}

	n := Render(rec, ps, tu, st)

	assert.Equal(t, 1, rec.Clears)
	assert.Equal(t, 1, n)
	require.Len(t, rec.Circles, 3)
	require.Len(t, rec.Lines, 1)
	assert.Equal(t, 2.0, rec.Circles[1].R)
	assert.Equal(t, uint8(128), rec.Circles[0].Color.A)
	assert.Equal(t, Line{X0: 10, Y0: 10, X1: 40, Y1: 10, Width: 1, Color: withAlpha(st.Color, tu.MaxLineAlpha*0.75)}, rec.Lines[0])

	// second frame replaces the first
	Render(rec, ps[:1], tu, st)
	assert.Len(t, rec.Circles, 1)
	assert.Empty(t, rec.Lines)
}

func TestSimulationResizeReplacesParticles(t *testing.T) {
	sim := NewSimulation(DefaultTuning(), seeded(5))

	sim.Resize(1000, 800)
	require.Len(t, sim.Particles(), 26)
	first := append([]Particle(nil), sim.Particles()...)

	sim.Resize(1920, 1080)
	require.Len(t, sim.Particles(), 60)
	assert.Equal(t, Bounds{Width: 1920, Height: 1080}, sim.Bounds())

	sim.Resize(1000, 800)
	require.Len(t, sim.Particles(), 26)
	assert.NotEqual(t, first, sim.Particles(), "particles are respawned, not restored")
}

func TestWithDefaultsFillsZeroFields(t *testing.T) {
	tu := Tuning{MaxParticles: 10}.WithDefaults()
	d := DefaultTuning()
	assert.Equal(t, 10, tu.MaxParticles)
	assert.Equal(t, d.Density, tu.Density)
	assert.Equal(t, d.PointerRadius, tu.PointerRadius)
	assert.Equal(t, d.MaxRadius, tu.MaxRadius)
}
