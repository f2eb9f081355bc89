package walls

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// minimalTolerance is applied when the caller requests no simplification.
// It is small enough to leave every visible detail in place while still
// removing exact duplicates and float-precision zigzags that would otherwise
// open microscopic gaps between adjacent wall segments.
const minimalTolerance = 0.0005

func dist(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// SimplifyContour reduces the point count of a closed contour with
// Douglas-Peucker simplification. The error bound is tolerance times the
// closed perimeter of the contour; tolerances <= 0 fall back to
// minimalTolerance. Contours with fewer than 3 points are returned unchanged
// for the caller to discard.
func SimplifyContour(c Contour, tolerance float64) Contour {
	if len(c) < 3 {
		return c
	}
	if tolerance <= 0 {
		tolerance = minimalTolerance
	}
	epsilon := tolerance * c.Perimeter()

	simplified := simplify.DouglasPeucker(epsilon).Simplify(orb.LineString(c).Clone())
	ls, ok := simplified.(orb.LineString)
	if !ok {
		return c
	}
	return Contour(ls)
}
