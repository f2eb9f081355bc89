package walls

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// MergeCollinear fuses chains of same-direction, closely spaced segments
// into single longer segments. Segments are first bucketed by their
// direction angle rounded to 2 decimal places; two segments in different
// buckets are never merged even when angleTolerance would allow it across
// the rounding boundary. Within a bucket, merging runs a work queue: pop a
// segment, fuse it with the first compatible peer and requeue the fusion, or
// finalize it when nothing matches.
//
// The stage is a no-op when both tolerances are 0; a maxGap of 0 alone also
// disables all merging since no pair can qualify.
func MergeCollinear(segs []WallSegment, angleTolerance, maxGap float64) []WallSegment {
	if (angleTolerance <= 0 && maxGap <= 0) || len(segs) <= 1 {
		return segs
	}

	groups := make(map[float64][]WallSegment)
	for _, s := range segs {
		q := quantizedAngle(s)
		groups[q] = append(groups[q], s)
	}

	angles := make([]float64, 0, len(groups))
	for a := range groups {
		angles = append(angles, a)
	}
	sort.Float64s(angles)

	out := make([]WallSegment, 0, len(segs))
	for _, a := range angles {
		out = append(out, mergeGroup(groups[a], angleTolerance, maxGap)...)
	}
	return out
}

// segmentAngle returns the direction of the segment in degrees, normalized
// to [0, 180) so that A->B and B->A compare equal.
func segmentAngle(s WallSegment) float64 {
	deg := math.Atan2(s.B[1]-s.A[1], s.B[0]-s.A[0]) * 180 / math.Pi
	deg = math.Mod(deg, 180)
	if deg < 0 {
		deg += 180
	}
	return deg
}

func quantizedAngle(s WallSegment) float64 {
	return math.Round(segmentAngle(s)*100) / 100
}

func mergeGroup(group []WallSegment, angleTolerance, maxGap float64) []WallSegment {
	queue := append([]WallSegment(nil), group...)
	var final []WallSegment

	for len(queue) > 0 {
		seg := queue[0]
		queue = queue[1:]

		merged := false
		for i := range queue {
			fused, ok := tryFuse(seg, queue[i], angleTolerance, maxGap)
			if !ok {
				continue
			}
			queue = append(queue[:i], queue[i+1:]...)
			queue = append(queue, fused)
			merged = true
			break
		}
		if !merged {
			final = append(final, seg)
		}
	}
	return final
}

// tryFuse merges two segments when the closest of their four endpoint
// pairings is within maxGap and their direction angles agree within
// angleTolerance (exactly, when the tolerance is 0). The fused segment spans
// the two endpoints with maximum pairwise distance, which preserves the full
// extent of both inputs and implicitly closes the gap between them. Identity
// and flags are carried over from the first input.
func tryFuse(a, b WallSegment, angleTolerance, maxGap float64) (WallSegment, bool) {
	if maxGap <= 0 {
		return a, false
	}

	gap := math.Min(
		math.Min(dist(a.A, b.A), dist(a.A, b.B)),
		math.Min(dist(a.B, b.A), dist(a.B, b.B)),
	)
	if gap > maxGap {
		return a, false
	}

	diff := math.Abs(segmentAngle(a) - segmentAngle(b))
	if diff > 90 {
		diff = 180 - diff
	}
	if angleTolerance <= 0 {
		if diff != 0 {
			return a, false
		}
	} else if diff > angleTolerance {
		return a, false
	}

	pts := [4]orb.Point{a.A, a.B, b.A, b.B}
	var p, q orb.Point
	best := -1.0
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if d := dist(pts[i], pts[j]); d > best {
				best = d
				p, q = pts[i], pts[j]
			}
		}
	}
	return a.withEndpoints(p, q), true
}
