package walls

// GenerateWalls runs the full synthesis pipeline over the given contours:
// simplification, length-bounded segmentation, optional grid snapping,
// endpoint cluster merging and collinear fusion, in that fixed order.
//
// The contours are defensively copied at entry; the returned segments share
// nothing with caller-owned structures. Invalid configurations are rejected
// before any work is done.
func GenerateWalls(contours []Contour, cfg Config) ([]WallSegment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	owned := make([]Contour, 0, len(contours))
	for _, c := range contours {
		owned = append(owned, c.Clone())
	}

	segs := newGenerator(cfg).generateAll(owned)
	segs = SnapToGrid(segs, cfg.Grid)
	segs = MergeEndpoints(segs, cfg.MergeDistance)
	segs = MergeCollinear(segs, cfg.AngleTolerance, cfg.MaxGap)
	return segs, nil
}
