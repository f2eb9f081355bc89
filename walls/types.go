package walls

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Contour is an ordered, implicitly closed polygon in pixel space: the last
// point connects back to the first. Contours with fewer than 3 points carry
// no area and are skipped by the pipeline.
type Contour []orb.Point

// Clone returns an independent copy of the contour. Callers may keep mutating
// their own contour slices (e.g. for interactive display), so the pipeline
// copies everything it is handed.
func (c Contour) Clone() Contour {
	if c == nil {
		return nil
	}
	out := make(Contour, len(c))
	copy(out, c)
	return out
}

// Perimeter returns the closed arc length of the contour, including the edge
// from the last point back to the first.
func (c Contour) Perimeter() float64 {
	if len(c) < 2 {
		return 0
	}
	total := 0.0
	for i := range c {
		total += dist(c[i], c[(i+1)%len(c)])
	}
	return total
}

// Area returns the absolute shoelace area of the contour in square pixels.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	sum := 0.0
	for i := range c {
		j := (i + 1) % len(c)
		sum += c[i][0]*c[j][1] - c[j][0]*c[i][1]
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// BlockLevel is a Foundry VTT sense restriction level for a wall channel.
type BlockLevel int

const (
	BlockNone    BlockLevel = 0
	BlockLimited BlockLevel = 10
	BlockNormal  BlockLevel = 20
)

// DoorState describes the state of a door segment.
type DoorState int

const (
	DoorClosed DoorState = 0
	DoorOpen   DoorState = 1
	DoorLocked DoorState = 2
)

// Threshold carries optional per-channel proximity thresholds. Nil values
// mean no threshold is set for that channel.
type Threshold struct {
	Light       *float64
	Sight       *float64
	Sound       *float64
	Attenuation bool
}

// WallSegment is one straight piece of the vector wall network. The ID is
// assigned once when the segment is generated and survives every downstream
// stage: stages that move endpoints copy the segment and overwrite only A/B.
type WallSegment struct {
	ID        string
	A, B      orb.Point
	Light     BlockLevel
	Sight     BlockLevel
	Sound     BlockLevel
	Move      BlockLevel
	IsDoor    bool
	DoorState DoorState
	Threshold Threshold
}

// Length returns the Euclidean length of the segment in pixels.
func (w WallSegment) Length() float64 {
	return dist(w.A, w.B)
}

// withEndpoints returns a copy of the segment with replaced endpoints,
// preserving identity and flags.
func (w WallSegment) withEndpoints(a, b orb.Point) WallSegment {
	out := w
	out.A = a
	out.B = b
	return out
}

// GridConfig controls endpoint quantization. A Size of 0 disables snapping.
type GridConfig struct {
	Size          float64 `yaml:"size"`
	AllowHalfGrid bool    `yaml:"allowHalfGrid"`
	OffsetX       float64 `yaml:"offsetX"`
	OffsetY       float64 `yaml:"offsetY"`
}

// Config holds every tunable of the wall synthesis pipeline. Zero values for
// the merge parameters disable the corresponding stage.
type Config struct {
	// SimplifyTolerance is the Douglas-Peucker error bound as a fraction of
	// each contour's perimeter. 0 still applies a minimal simplification
	// (minimalTolerance) to remove duplicate and collinear points.
	SimplifyTolerance float64 `yaml:"simplifyTolerance"`
	// MaxWallLength splits any longer contour edge into equal pieces.
	MaxWallLength float64 `yaml:"maxWallLength"`
	// MaxWalls caps the total number of generated segments.
	MaxWalls int `yaml:"maxWalls"`
	// MergeDistance clusters endpoints within this radius. 0 disables.
	MergeDistance float64 `yaml:"mergeDistance"`
	// AngleTolerance is the maximum angle difference, in degrees, between
	// collinear-merge candidates. 0 requires an exact angle match.
	AngleTolerance float64 `yaml:"angleTolerance"`
	// MaxGap is the largest endpoint gap bridged by the collinear merge.
	// 0 disables collinear merging.
	MaxGap float64    `yaml:"maxGap"`
	Grid   GridConfig `yaml:"grid"`
}

// DefaultConfig returns the caller-visible defaults: minimal simplification,
// 50px segments, a 5000 wall budget, 25px endpoint merging, 1 degree angle
// tolerance, 10px gap bridging, grid snapping disabled.
func DefaultConfig() Config {
	return Config{
		SimplifyTolerance: minimalTolerance,
		MaxWallLength:     50,
		MaxWalls:          5000,
		MergeDistance:     25,
		AngleTolerance:    1.0,
		MaxGap:            10,
	}
}

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid wall config")

// Validate rejects configurations the pipeline cannot run with before any
// geometry work starts.
func (c Config) Validate() error {
	if c.SimplifyTolerance < 0 {
		return fmt.Errorf("%w: simplify tolerance %g is negative", ErrInvalidConfig, c.SimplifyTolerance)
	}
	if c.SimplifyTolerance > 1 {
		return fmt.Errorf("%w: simplify tolerance %g exceeds 1 (fraction of perimeter)", ErrInvalidConfig, c.SimplifyTolerance)
	}
	if c.MaxWallLength <= 0 {
		return fmt.Errorf("%w: max wall length %g must be positive", ErrInvalidConfig, c.MaxWallLength)
	}
	if c.MaxWalls <= 0 {
		return fmt.Errorf("%w: max walls %d must be positive", ErrInvalidConfig, c.MaxWalls)
	}
	if c.MergeDistance < 0 {
		return fmt.Errorf("%w: merge distance %g is negative", ErrInvalidConfig, c.MergeDistance)
	}
	if c.AngleTolerance < 0 {
		return fmt.Errorf("%w: angle tolerance %g is negative", ErrInvalidConfig, c.AngleTolerance)
	}
	if c.MaxGap < 0 {
		return fmt.Errorf("%w: max gap %g is negative", ErrInvalidConfig, c.MaxGap)
	}
	if c.Grid.Size < 0 {
		return fmt.Errorf("%w: grid size %g is negative", ErrInvalidConfig, c.Grid.Size)
	}
	return nil
}
