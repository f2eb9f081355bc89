package walls

import "github.com/paulmach/orb"

// minMergedLength drops segments that became degenerate after their
// endpoints were pulled onto a shared cluster centroid.
const minMergedLength = 2.0

// MergeEndpoints clusters nearby endpoints across all segments and replaces
// each endpoint with its cluster centroid, so walls that almost touch end up
// actually sharing a point. Segments shorter than minMergedLength after
// merging are dropped, and segments that collapse onto the same unordered
// endpoint pair are deduplicated, keeping the first occurrence.
//
// A mergeDistance of 0 disables the stage entirely.
func MergeEndpoints(segs []WallSegment, mergeDistance float64) []WallSegment {
	if mergeDistance <= 0 || len(segs) <= 1 {
		return segs
	}

	// Flat endpoint list, duplicates kept: an endpoint shared by several
	// segments appears once per segment and weights the centroid accordingly.
	points := make([]orb.Point, 0, 2*len(segs))
	for _, s := range segs {
		points = append(points, s.A, s.B)
	}
	merged := clusterPoints(points, mergeDistance)

	type pairKey struct{ a, b orb.Point }
	seen := make(map[pairKey]bool, len(segs))

	out := make([]WallSegment, 0, len(segs))
	for _, s := range segs {
		a := s.A
		if m, ok := merged[a]; ok {
			a = m
		}
		b := s.B
		if m, ok := merged[b]; ok {
			b = m
		}

		if dist(a, b) < minMergedLength {
			continue
		}

		// A->B and B->A are the same wall.
		key := pairKey{a, b}
		if b[0] < a[0] || (b[0] == a[0] && b[1] < a[1]) {
			key = pairKey{b, a}
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, s.withEndpoints(a, b))
	}
	return out
}

// clusterPoints assigns every point to the centroid of its cluster. Points
// are visited in input order; each unassigned point collects all remaining
// points within radius into a cluster, so the first-seen cluster wins and
// every point is assigned exactly once.
func clusterPoints(points []orb.Point, radius float64) map[orb.Point]orb.Point {
	merged := make(map[orb.Point]orb.Point)
	alive := make([]bool, len(points))
	for i := range alive {
		alive[i] = true
	}

	for i, p := range points {
		if !alive[i] {
			continue
		}
		if _, done := merged[p]; done {
			// Same coordinates as an already clustered point.
			alive[i] = false
			continue
		}

		var members []int
		var sumX, sumY float64
		for j := range points {
			if !alive[j] {
				continue
			}
			if dist(points[j], p) <= radius {
				members = append(members, j)
				sumX += points[j][0]
				sumY += points[j][1]
			}
		}

		n := float64(len(members))
		centroid := orb.Point{sumX / n, sumY / n}
		for _, j := range members {
			merged[points[j]] = centroid
			alive[j] = false
		}
	}

	return merged
}
