package walls

import (
	"image"
	"image/color"

	"github.com/paulmach/orb"
	xdraw "golang.org/x/image/draw"
)

// TraceOptions filters the contours extracted from a mask by enclosed area,
// in square pixels. A MaxArea of 0 means no upper limit.
type TraceOptions struct {
	MinArea float64
	MaxArea float64
}

// maskThreshold separates occupied from empty mask pixels.
const maskThreshold = 128

// TraceMask extracts closed contours from a binary occupancy mask using
// Moore-neighbor boundary tracing. Both outer boundaries and inner (hole)
// boundaries are produced: any occupied pixel bordering an empty region
// starts a trace, and an edge-visit set keeps each boundary from being
// walked twice. Contours failing the area filter or with fewer than 3
// points are discarded.
func TraceMask(mask *image.Gray, opts TraceOptions) []Contour {
	if mask == nil {
		return nil
	}
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	isSet := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		return mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y >= maskThreshold
	}

	// One visit state per (pixel, facing direction) pair.
	type visit struct {
		idx int
		dir int
	}
	seen := make(map[visit]bool)

	var contours []Contour
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !isSet(x, y) {
				continue
			}

			// Direction encoding: 0=N, 1=E, 2=S, 3=W. A boundary starts at
			// any occupied pixel with an empty neighbor; the initial facing
			// is the clockwise walk direction along that boundary (empty
			// west neighbor means walking north, and so on).
			starts := [4]struct {
				dx, dy, dir int
			}{
				{-1, 0, 0},
				{1, 0, 2},
				{0, -1, 1},
				{0, 1, 3},
			}
			for _, s := range starts {
				if isSet(x+s.dx, y+s.dy) {
					continue
				}
				if seen[visit{y*width + x, s.dir}] {
					continue
				}
				c := traceBoundary(x, y, s.dir, width, height, isSet, func(px, py, dir int) bool {
					key := visit{py*width + px, dir}
					if seen[key] {
						return false
					}
					seen[key] = true
					return true
				})
				if len(c) < 3 {
					continue
				}
				area := c.Area()
				if area < opts.MinArea {
					continue
				}
				if opts.MaxArea > 0 && area > opts.MaxArea {
					continue
				}
				contours = append(contours, c)
			}
		}
	}
	return contours
}

// traceBoundary walks a boundary with the right-hand rule: from the current
// facing, scan clockwise starting one step to the right until an occupied
// pixel is found, then move there. The walk ends when it revisits a
// (pixel, facing) state, which closes the loop.
func traceBoundary(startX, startY, startFacing, width, height int, isSet func(x, y int) bool, mark func(x, y, dir int) bool) Contour {
	dirs := [4][2]int{
		{0, -1}, // N
		{1, 0},  // E
		{0, 1},  // S
		{-1, 0}, // W
	}

	var c Contour
	x, y := startX, startY
	facing := startFacing

	for {
		if !mark(x, y, facing) {
			break
		}
		c = append(c, orb.Point{float64(x), float64(y)})

		startScan := (facing + 3) % 4
		moved := false
		for i := 0; i < 4; i++ {
			d := (startScan + i) % 4
			nx, ny := x+dirs[d][0], y+dirs[d][1]
			if isSet(nx, ny) {
				x, y = nx, ny
				facing = d
				moved = true
				break
			}
		}
		if !moved {
			// Isolated pixel.
			break
		}
		if len(c) > width*height {
			break
		}
	}
	return c
}

// MaskFromImage converts an arbitrary image into a binary occupancy mask by
// thresholding its luminance. Used to load user-supplied mask images that may
// be saved in any color format.
func MaskFromImage(img image.Image) *image.Gray {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := (299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000
			if lum >= maskThreshold {
				out.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// ResizeMask rescales a mask with nearest-neighbor sampling, which keeps it
// strictly binary. Used when detection ran on a downscaled working image and
// the walls must be generated at full resolution.
func ResizeMask(mask *image.Gray, width, height int) *image.Gray {
	if mask == nil {
		return nil
	}
	if mask.Bounds().Dx() == width && mask.Bounds().Dy() == height {
		return mask
	}
	out := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)
	return out
}

// ScaleContours multiplies every contour coordinate by factor, returning new
// contours. A factor of 1 returns defensive copies.
func ScaleContours(contours []Contour, factor float64) []Contour {
	out := make([]Contour, 0, len(contours))
	for _, c := range contours {
		scaled := make(Contour, len(c))
		for i, p := range c {
			scaled[i] = orb.Point{p[0] * factor, p[1] * factor}
		}
		out = append(out, scaled)
	}
	return out
}
