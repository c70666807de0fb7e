package particles

import (
	"cmp"
	"math"
	"slices"
)

// gridThreshold is the population above which Connections buckets
// particles into a uniform grid instead of scanning every pair.
const gridThreshold = 200

// Link connects particles I and J (I < J). Alpha falls linearly from
// MaxLineAlpha for coincident particles to 0 at ConnectDistance.
type Link struct {
	I, J  int
	Alpha float64
}

// Connections returns every unordered pair closer than t.ConnectDistance,
// exactly once, ordered by (I, J).
func Connections(ps []Particle, t Tuning) []Link {
	if t.ConnectDistance <= 0 || len(ps) < 2 {
		return nil
	}
	if len(ps) > gridThreshold {
		return gridConnections(ps, t)
	}
	return pairConnections(ps, t)
}

func pairConnections(ps []Particle, t Tuning) []Link {
	maxD2 := t.ConnectDistance * t.ConnectDistance
	var links []Link
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if l, ok := link(ps, i, j, maxD2, t); ok {
				links = append(links, l)
			}
		}
	}
	return links
}

type cell struct{ cx, cy int }

func gridConnections(ps []Particle, t Tuning) []Link {
	size := t.ConnectDistance
	maxD2 := size * size

	grid := make(map[cell][]int, len(ps))
	for i, p := range ps {
		c := cell{int(math.Floor(p.X / size)), int(math.Floor(p.Y / size))}
		grid[c] = append(grid[c], i)
	}

	var links []Link
	for i, p := range ps {
		cx := int(math.Floor(p.X / size))
		cy := int(math.Floor(p.Y / size))
		for ox := -1; ox <= 1; ox++ {
			for oy := -1; oy <= 1; oy++ {
				for _, j := range grid[cell{cx + ox, cy + oy}] {
					if j <= i {
						continue
					}
					if l, ok := link(ps, i, j, maxD2, t); ok {
						links = append(links, l)
					}
				}
			}
		}
	}

	slices.SortFunc(links, func(a, b Link) int {
		if c := cmp.Compare(a.I, b.I); c != 0 {
			return c
		}
		return cmp.Compare(a.J, b.J)
	})
	return links
}

func link(ps []Particle, i, j int, maxD2 float64, t Tuning) (Link, bool) {
	dx := ps[i].X - ps[j].X
	dy := ps[i].Y - ps[j].Y
	d2 := dx*dx + dy*dy
	if d2 >= maxD2 {
		return Link{}, false
	}
	alpha := t.MaxLineAlpha * (1 - math.Sqrt(d2)/t.ConnectDistance)
	return Link{I: i, J: j, Alpha: alpha}, true
}
