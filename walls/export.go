package walls

import (
	"fmt"

	"github.com/paulmach/orb"
)

// FoundryWall is one wall document in the flat Foundry VTT import format.
// The field names and the [x1, y1, x2, y2] coordinate layout are a wire
// contract with Foundry's wall importer.
type FoundryWall struct {
	Light     int              `json:"light"`
	Sight     int              `json:"sight"`
	Sound     int              `json:"sound"`
	Move      int              `json:"move"`
	C         [4]float64       `json:"c"`
	ID        string           `json:"_id"`
	Dir       int              `json:"dir"`
	Door      int              `json:"door"`
	DS        int              `json:"ds"`
	Threshold FoundryThreshold `json:"threshold"`
	Flags     struct{}         `json:"flags"`
}

// FoundryThreshold mirrors Foundry's per-channel proximity thresholds.
// Unset channels serialize as null.
type FoundryThreshold struct {
	Light       *float64 `json:"light"`
	Sight       *float64 `json:"sight"`
	Sound       *float64 `json:"sound"`
	Attenuation bool     `json:"attenuation"`
}

// ExportFoundry projects the final segment list into Foundry wall documents.
// Each record gets a fresh unique identifier; everything else is a direct
// field mapping with no geometric logic.
func ExportFoundry(segs []WallSegment) []FoundryWall {
	out := make([]FoundryWall, 0, len(segs))
	for _, s := range segs {
		door := 0
		if s.IsDoor {
			door = 1
		}
		out = append(out, FoundryWall{
			Light: int(s.Light),
			Sight: int(s.Sight),
			Sound: int(s.Sound),
			Move:  int(s.Move),
			C:     [4]float64{s.A[0], s.A[1], s.B[0], s.B[1]},
			ID:    NewWallID(),
			Door:  door,
			DS:    int(s.DoorState),
			Threshold: FoundryThreshold{
				Light:       s.Threshold.Light,
				Sight:       s.Threshold.Sight,
				Sound:       s.Threshold.Sound,
				Attenuation: s.Threshold.Attenuation,
			},
		})
	}
	return out
}

// UVTTPoint is a 2D coordinate in the Universal VTT JSON schema.
type UVTTPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UVTTResolution describes the map's grid geometry in grid units.
type UVTTResolution struct {
	MapOrigin     UVTTPoint `json:"map_origin"`
	MapSize       UVTTPoint `json:"map_size"`
	PixelsPerGrid float64   `json:"pixels_per_grid"`
}

// UVTTLight is a light source in grid-unit coordinates. Lights are carried
// through the exporter verbatim; no transformation is applied here.
type UVTTLight struct {
	Position  UVTTPoint `json:"position"`
	Range     float64   `json:"range"`
	Intensity float64   `json:"intensity"`
	Color     string    `json:"color"`
	Shadows   bool      `json:"shadows"`
}

// UVTTPortal is a door or passage in the Universal VTT schema. The wall
// pipeline never emits portals, but the field is part of the format.
type UVTTPortal struct {
	Position     UVTTPoint   `json:"position"`
	Bounds       []UVTTPoint `json:"bounds"`
	Rotation     float64     `json:"rotation"`
	Closed       bool        `json:"closed"`
	Freestanding bool        `json:"freestanding"`
}

// UVTTEnvironment carries scene-level lighting defaults.
type UVTTEnvironment struct {
	BakedLighting bool   `json:"baked_lighting"`
	AmbientLight  string `json:"ambient_light"`
}

// UVTTMap is the Universal VTT export structure. LineOfSight is in grid
// units (pixel coordinates divided by PixelsPerGrid); PixelWalls holds the
// same wall list in untouched pixel coordinates for interactive preview
// rendering and is not part of the wire format.
type UVTTMap struct {
	Format             float64         `json:"format"`
	Resolution         UVTTResolution  `json:"resolution"`
	LineOfSight        [][]UVTTPoint   `json:"line_of_sight"`
	ObjectsLineOfSight [][]UVTTPoint   `json:"objects_line_of_sight"`
	Portals            []UVTTPortal    `json:"portals"`
	Environment        UVTTEnvironment `json:"environment"`
	Lights             []UVTTLight     `json:"lights"`
	Image              string          `json:"image"`

	PixelWalls [][]orb.Point `json:"-"`
}

const uvttFormatVersion = 0.3

// UVTTOptions supplies the scene context the exporter cannot derive from the
// segments themselves.
type UVTTOptions struct {
	// ImageWidth and ImageHeight are the map image dimensions in pixels.
	ImageWidth, ImageHeight float64
	// PixelsPerGrid is the overlay grid cell size used to convert pixel
	// coordinates into grid units. Distinct from the snapping grid.
	PixelsPerGrid float64
	// OriginX and OriginY offset the map origin, in pixels.
	OriginX, OriginY float64
	// Image is the encoded map image payload, embedded verbatim.
	Image string
	// Lights are passed through unmodified.
	Lights []UVTTLight
}

// ExportUVTT projects the final segment list into the Universal VTT format.
// Every wall becomes a two-point line-of-sight entry in grid units, with a
// parallel pixel-space copy retained for preview rendering.
func ExportUVTT(segs []WallSegment, opts UVTTOptions) (*UVTTMap, error) {
	if opts.PixelsPerGrid <= 0 {
		return nil, fmt.Errorf("%w: pixels per grid %g must be positive", ErrInvalidConfig, opts.PixelsPerGrid)
	}
	ppg := opts.PixelsPerGrid

	los := make([][]UVTTPoint, 0, len(segs))
	pixels := make([][]orb.Point, 0, len(segs))
	for _, s := range segs {
		los = append(los, []UVTTPoint{
			{X: s.A[0] / ppg, Y: s.A[1] / ppg},
			{X: s.B[0] / ppg, Y: s.B[1] / ppg},
		})
		pixels = append(pixels, []orb.Point{s.A, s.B})
	}

	lights := opts.Lights
	if lights == nil {
		lights = []UVTTLight{}
	}

	return &UVTTMap{
		Format: uvttFormatVersion,
		Resolution: UVTTResolution{
			MapOrigin:     UVTTPoint{X: opts.OriginX / ppg, Y: opts.OriginY / ppg},
			MapSize:       UVTTPoint{X: opts.ImageWidth / ppg, Y: opts.ImageHeight / ppg},
			PixelsPerGrid: ppg,
		},
		LineOfSight:        los,
		ObjectsLineOfSight: [][]UVTTPoint{},
		Portals:            []UVTTPortal{},
		Environment:        UVTTEnvironment{AmbientLight: "ffffffff"},
		Lights:             lights,
		Image:              opts.Image,
		PixelWalls:         pixels,
	}, nil
}
