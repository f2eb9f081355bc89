package walls

import (
	"encoding/hex"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

const (
	// noiseFloor drops contour edges shorter than this many pixels; they are
	// rasterization noise, not real wall edges.
	noiseFloor = 3.0

	// Once the emitted count passes this share of the wall budget, the
	// effective simplification tolerance is multiplied by
	// toleranceEscalation for every subsequently processed contour. This is
	// a soft-degradation tunable, not a contract: it trades detail for
	// headroom instead of hard-truncating the remaining contours.
	budgetEscalationShare = 0.8
	toleranceEscalation   = 1.5
)

// generator threads the mutable segmentation state through the contour walk:
// the global wall budget counter and the escalating tolerance.
type generator struct {
	cfg       Config
	emitted   int
	tolerance float64
}

func newGenerator(cfg Config) *generator {
	return &generator{cfg: cfg, tolerance: cfg.SimplifyTolerance}
}

// generateAll simplifies and segments each contour in input order until the
// wall budget is exhausted. Contours that collapse below 3 points after
// simplification are skipped silently.
func (g *generator) generateAll(contours []Contour) []WallSegment {
	var out []WallSegment
	for _, c := range contours {
		if g.emitted >= g.cfg.MaxWalls {
			break
		}
		simplified := SimplifyContour(c, g.tolerance)
		if len(simplified) < 3 {
			continue
		}
		out = append(out, g.segmentContour(simplified)...)

		if float64(g.emitted) > budgetEscalationShare*float64(g.cfg.MaxWalls) && g.cfg.SimplifyTolerance > 0 {
			g.tolerance *= toleranceEscalation
		}
	}
	return out
}

// segmentContour walks consecutive point pairs of the implicitly closed
// contour, splitting edges longer than MaxWallLength into equal pieces. The
// budget is a hard cap: emission stops mid-contour the moment it is reached.
func (g *generator) segmentContour(c Contour) []WallSegment {
	var segs []WallSegment
	n := len(c)
	for i := 0; i < n; i++ {
		if g.emitted >= g.cfg.MaxWalls {
			break
		}
		start := c[i]
		end := c[(i+1)%n]

		d := dist(start, end)
		if d < noiseFloor {
			continue
		}

		if d <= g.cfg.MaxWallLength {
			segs = append(segs, g.emit(start, end))
			continue
		}

		pieces := int(math.Ceil(d / g.cfg.MaxWallLength))
		for j := 0; j < pieces; j++ {
			if g.emitted >= g.cfg.MaxWalls {
				break
			}
			t0 := float64(j) / float64(pieces)
			t1 := float64(j+1) / float64(pieces)
			segs = append(segs, g.emit(lerp(start, end, t0), lerp(start, end, t1)))
		}
	}
	return segs
}

// emit creates a fully blocking, non-door wall segment with a fresh ID.
func (g *generator) emit(a, b orb.Point) WallSegment {
	g.emitted++
	return WallSegment{
		ID:    NewWallID(),
		A:     a,
		B:     b,
		Light: BlockNormal,
		Sight: BlockNormal,
		Sound: BlockNormal,
		Move:  BlockNormal,
	}
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
	}
}

// NewWallID returns a 16 character uppercase hex identifier, the format
// Foundry VTT uses for wall documents. Only uniqueness matters to the
// pipeline itself.
func NewWallID() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:]))[:16]
}
