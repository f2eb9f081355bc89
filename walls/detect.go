package walls

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorSpec pairs a target wall color with a match threshold. The threshold
// runs 0-100: 0 accepts only a perceptually exact match, higher values are
// more lenient.
type ColorSpec struct {
	Color     color.Color
	Threshold float64
}

// DetectOptions controls raster wall detection. When Colors is non-empty the
// detector matches those colors directly; otherwise it runs edge detection
// on the luminance image.
type DetectOptions struct {
	// BlurRadius for the pre-detection Gaussian blur; values <= 0 skip it.
	BlurRadius float64
	// CannyLow and CannyHigh are the hysteresis thresholds (0-255).
	CannyLow, CannyHigh int
	// MinArea and MaxArea filter contours by enclosed area in square
	// pixels. MaxArea 0 means no upper limit.
	MinArea, MaxArea float64
	Colors           []ColorSpec
}

// DefaultDetectOptions mirrors the interactive tool's starting parameters.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{
		BlurRadius: 2,
		CannyLow:   50,
		CannyHigh:  150,
		MinArea:    100,
	}
}

// DetectWalls extracts wall contours, including hole boundaries, from a map
// image. The result is the contour list the synthesis pipeline consumes.
func DetectWalls(img image.Image, opts DetectOptions) []Contour {
	if img == nil {
		return nil
	}
	var mask *image.Gray
	if len(opts.Colors) > 0 {
		mask = ColorMask(img, opts.Colors)
	} else {
		mask = EdgeMask(img, opts.BlurRadius, opts.CannyLow, opts.CannyHigh)
	}
	return TraceMask(mask, TraceOptions{MinArea: opts.MinArea, MaxArea: opts.MaxArea})
}

// ColorMask builds a binary mask of pixels whose perceptual (Lab) distance
// to any of the given colors is within that color's threshold. The mask is
// cleaned up with a morphological close then open, filling pinholes and
// dropping isolated speckles.
func ColorMask(img image.Image, specs []ColorSpec) *image.Gray {
	bounds := img.Bounds()
	mask := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	targets := make([]colorful.Color, len(specs))
	limits := make([]float64, len(specs))
	for i, s := range specs {
		t, _ := colorful.MakeColor(s.Color)
		targets[i] = t
		// Lab distances between in-gamut colors top out near 1.
		limits[i] = s.Threshold / 100
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			for i, t := range targets {
				if c.DistanceLab(t) <= limits[i] {
					mask.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: 255})
					break
				}
			}
		}
	}

	return openMask(closeMask(mask))
}

// EdgeMask runs Canny-style edge detection: grayscale, Gaussian blur, Sobel
// gradients, non-maximum suppression, then hysteresis thresholding. Edges
// come out white on black.
func EdgeMask(img image.Image, blurRadius float64, low, high int) *image.Gray {
	gray := effect.Grayscale(img)
	src := image.Image(gray)
	if blurRadius > 0 {
		src = blur.Gaussian(gray, blurRadius)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	lum := make([][]float64, height)
	for y := 0; y < height; y++ {
		lum[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, _, _, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			lum[y][x] = float64(r>>8) / 255
		}
	}

	clampi := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)
	sobelX := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := lum[clampi(y+ky, 0, height-1)][clampi(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Hypot(gx, gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression: keep only local maxima along the gradient.
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}
			angle := direction[y][x]
			mag := magnitude[y][x]
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y][x-1], magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[y-1][x+1], magnitude[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[y-1][x], magnitude[y+1][x]
			default:
				n1, n2 = magnitude[y-1][x-1], magnitude[y+1][x+1]
			}
			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	lowThresh := float64(low) / 255
	highThresh := float64(high) / 255

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := suppressed[y][x]
			if v >= highThresh {
				out.SetGray(x, y, color.Gray{Y: 255})
				continue
			}
			if v < lowThresh {
				continue
			}
			// Weak edge: keep only when touching a strong edge.
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					if suppressed[clampi(y+ky, 0, height-1)][clampi(x+kx, 0, width-1)] >= highThresh {
						out.SetGray(x, y, color.Gray{Y: 255})
					}
				}
			}
		}
	}
	return out
}

func dilateMask(mask *image.Gray) *image.Gray {
	b := mask.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			set := false
			for ky := -1; ky <= 1 && !set; ky++ {
				for kx := -1; kx <= 1 && !set; kx++ {
					p := image.Pt(x+kx, y+ky)
					if p.In(b) && mask.GrayAt(p.X, p.Y).Y >= maskThreshold {
						set = true
					}
				}
			}
			if set {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

func erodeMask(mask *image.Gray) *image.Gray {
	b := mask.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			set := true
			for ky := -1; ky <= 1 && set; ky++ {
				for kx := -1; kx <= 1 && set; kx++ {
					p := image.Pt(x+kx, y+ky)
					if !p.In(b) || mask.GrayAt(p.X, p.Y).Y < maskThreshold {
						set = false
					}
				}
			}
			if set {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

func closeMask(mask *image.Gray) *image.Gray { return erodeMask(dilateMask(mask)) }
func openMask(mask *image.Gray) *image.Gray  { return dilateMask(erodeMask(mask)) }
