package walls

import (
	"math"

	"github.com/paulmach/orb"
)

// snapCoord rounds a coordinate to the nearest multiple of step around the
// given offset. A step of 0 disables snapping.
func snapCoord(v, step, offset float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round((v-offset)/step)*step + offset
}

// SnapToGrid quantizes every segment endpoint onto the grid described by
// cfg. With AllowHalfGrid the effective lattice is half the grid size.
// Segments whose endpoints land on the same lattice point are dropped.
// Returns the input unchanged when grid snapping is disabled.
func SnapToGrid(segs []WallSegment, cfg GridConfig) []WallSegment {
	if cfg.Size <= 0 {
		return segs
	}

	step := cfg.Size
	if cfg.AllowHalfGrid {
		step = cfg.Size / 2
	}

	snap := func(p orb.Point) orb.Point {
		return orb.Point{
			snapCoord(p[0], step, cfg.OffsetX),
			snapCoord(p[1], step, cfg.OffsetY),
		}
	}

	out := make([]WallSegment, 0, len(segs))
	for _, s := range segs {
		a := snap(s.A)
		b := snap(s.B)
		if a == b {
			continue
		}
		out = append(out, s.withEndpoints(a, b))
	}
	return out
}
