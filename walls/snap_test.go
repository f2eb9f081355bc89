package walls

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestSnapToGridFull(t *testing.T) {
	segs := []WallSegment{{ID: "a", A: orb.Point{23.4, 23.4}, B: orb.Point{77.7, 0}}}

	got := SnapToGrid(segs, GridConfig{Size: 10})
	if len(got) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(got))
	}
	if got[0].A != (orb.Point{20, 20}) {
		t.Errorf("A snapped to %v, want (20,20)", got[0].A)
	}
	if got[0].B != (orb.Point{80, 0}) {
		t.Errorf("B snapped to %v, want (80,0)", got[0].B)
	}
	if got[0].ID != "a" {
		t.Errorf("snapping must preserve segment identity, got %q", got[0].ID)
	}
}

func TestSnapToGridHalf(t *testing.T) {
	segs := []WallSegment{{A: orb.Point{23.4, 0}, B: orb.Point{100, 100}}}

	got := SnapToGrid(segs, GridConfig{Size: 10, AllowHalfGrid: true})
	if got[0].A != (orb.Point{25, 0}) {
		t.Errorf("half-grid snap: A = %v, want (25,0)", got[0].A)
	}
}

func TestSnapToGridOffset(t *testing.T) {
	segs := []WallSegment{{A: orb.Point{23.4, 23.4}, B: orb.Point{100, 100}}}

	got := SnapToGrid(segs, GridConfig{Size: 10, OffsetX: 2, OffsetY: 2})
	if got[0].A != (orb.Point{22, 22}) {
		t.Errorf("offset snap: A = %v, want (22,22)", got[0].A)
	}
}

func TestSnapToGridDropsCollapsedSegments(t *testing.T) {
	segs := []WallSegment{
		// Both endpoints snap to (20,0).
		{A: orb.Point{21, 0}, B: orb.Point{23, 1}},
		{A: orb.Point{0, 0}, B: orb.Point{100, 0}},
	}

	got := SnapToGrid(segs, GridConfig{Size: 10})
	if len(got) != 1 {
		t.Fatalf("expected collapsed segment to be dropped, got %d segments", len(got))
	}
	if got[0].A != (orb.Point{0, 0}) || got[0].B != (orb.Point{100, 0}) {
		t.Errorf("wrong survivor: %v - %v", got[0].A, got[0].B)
	}
}

func TestSnapToGridDisabled(t *testing.T) {
	segs := []WallSegment{{A: orb.Point{23.4, 23.4}, B: orb.Point{77.7, 0}}}

	got := SnapToGrid(segs, GridConfig{})
	if got[0].A != segs[0].A || got[0].B != segs[0].B {
		t.Fatal("grid size 0 must leave segments untouched")
	}
}

func TestSnapCoord(t *testing.T) {
	cases := []struct {
		v, step, offset, want float64
	}{
		{23.4, 10, 0, 20},
		{25.1, 10, 0, 30},
		{23.4, 5, 0, 25},
		{23.4, 10, 2, 22},
		{23.4, 0, 0, 23.4},
	}
	for _, c := range cases {
		if got := snapCoord(c.v, c.step, c.offset); got != c.want {
			t.Errorf("snapCoord(%g, %g, %g) = %g, want %g", c.v, c.step, c.offset, got, c.want)
		}
	}
}
