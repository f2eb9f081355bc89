package walls

import (
	"fmt"
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// LightOptions controls light source detection on the map image.
type LightOptions struct {
	// BrightnessThreshold is the normalized luminance (0-1) above which a
	// pixel counts as lit. Ignored when Colors is non-empty.
	BrightnessThreshold float64
	// Colors, when set, detects regions matching these colors instead of
	// bright regions.
	Colors []ColorSpec
	// MinArea and MaxArea filter candidate regions by pixel count.
	// MaxArea 0 means no upper limit.
	MinArea, MaxArea int
	// MergeDistance groups nearby detections into one light, in pixels.
	// Values <= 0 disable merging.
	MergeDistance float64
	// PixelsPerGrid converts pixel positions into grid units for the
	// exported lights. Must be positive.
	PixelsPerGrid float64
}

// DefaultLightOptions matches the interactive tool's starting parameters.
func DefaultLightOptions() LightOptions {
	return LightOptions{
		BrightnessThreshold: 0.85,
		MinArea:             16,
		MaxArea:             2500,
		MergeDistance:       40,
		PixelsPerGrid:       70,
	}
}

// lightRegion is one connected component of lit pixels, in pixel space.
type lightRegion struct {
	cx, cy     float64
	area       int
	brightness float64
	color      color.Color
}

// DetectLights finds light sources in a map image: it thresholds bright (or
// color-matched) regions, filters them by area, merges nearby detections and
// returns lights positioned in grid units. Range grows with the square root
// of the lit area and intensity with the region's peak brightness.
func DetectLights(img image.Image, opts LightOptions) ([]UVTTLight, error) {
	if img == nil {
		return nil, nil
	}
	if opts.PixelsPerGrid <= 0 {
		return nil, fmt.Errorf("%w: pixels per grid %g must be positive", ErrInvalidConfig, opts.PixelsPerGrid)
	}

	var mask *image.Gray
	if len(opts.Colors) > 0 {
		mask = ColorMask(img, opts.Colors)
	} else {
		mask = brightnessMask(img, opts.BrightnessThreshold)
	}

	regions := lightComponents(img, mask, opts.MinArea, opts.MaxArea)
	regions = mergeRegions(regions, opts.MergeDistance)

	out := make([]UVTTLight, 0, len(regions))
	for _, r := range regions {
		out = append(out, UVTTLight{
			Position: UVTTPoint{
				X: r.cx / opts.PixelsPerGrid,
				Y: r.cy / opts.PixelsPerGrid,
			},
			Range:     lightRange(r.area),
			Intensity: math.Min(1, r.brightness*1.2),
			Color:     lightColorHex(r.color),
			Shadows:   true,
		})
	}
	return out, nil
}

// brightnessMask marks pixels whose normalized luminance meets the
// threshold, then closes and opens the mask to drop speckle.
func brightnessMask(img image.Image, threshold float64) *image.Gray {
	bounds := img.Bounds()
	mask := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if pixelLuminance(img.At(x, y)) >= threshold {
				mask.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: 255})
			}
		}
	}
	return openMask(closeMask(mask))
}

func pixelLuminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)) / 255
}

// lightComponents flood-fills the mask into connected regions and records
// each region's centroid, area, peak brightness and brightest pixel color.
func lightComponents(img image.Image, mask *image.Gray, minArea, maxArea int) []lightRegion {
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	visited := make([]bool, width*height)

	isSet := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		return mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y >= maskThreshold
	}

	imgBounds := img.Bounds()
	var regions []lightRegion
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !isSet(x, y) || visited[y*width+x] {
				continue
			}

			var sumX, sumY float64
			var area int
			var peak float64
			var peakColor color.Color = color.White

			stack := [][2]int{{x, y}}
			visited[y*width+x] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				px, py := p[0], p[1]

				sumX += float64(px)
				sumY += float64(py)
				area++

				c := img.At(imgBounds.Min.X+px, imgBounds.Min.Y+py)
				if l := pixelLuminance(c); l > peak {
					peak = l
					peakColor = c
				}

				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					nx, ny := px+d[0], py+d[1]
					if isSet(nx, ny) && !visited[ny*width+nx] {
						visited[ny*width+nx] = true
						stack = append(stack, [2]int{nx, ny})
					}
				}
			}

			if area < minArea {
				continue
			}
			if maxArea > 0 && area > maxArea {
				continue
			}
			regions = append(regions, lightRegion{
				cx:         sumX / float64(area),
				cy:         sumY / float64(area),
				area:       area,
				brightness: peak,
				color:      peakColor,
			})
		}
	}
	return regions
}

// mergeRegions greedily groups regions whose centroids lie within
// mergeDistance of an earlier unclaimed region, replacing each group with an
// area-weighted composite.
func mergeRegions(regions []lightRegion, mergeDistance float64) []lightRegion {
	if mergeDistance <= 0 || len(regions) <= 1 {
		return regions
	}

	used := make([]bool, len(regions))
	var out []lightRegion
	for i := range regions {
		if used[i] {
			continue
		}
		used[i] = true
		group := regions[i]
		for j := i + 1; j < len(regions); j++ {
			if used[j] {
				continue
			}
			if math.Hypot(regions[j].cx-group.cx, regions[j].cy-group.cy) > mergeDistance {
				continue
			}
			used[j] = true
			total := float64(group.area + regions[j].area)
			group.cx = (group.cx*float64(group.area) + regions[j].cx*float64(regions[j].area)) / total
			group.cy = (group.cy*float64(group.area) + regions[j].cy*float64(regions[j].area)) / total
			group.area += regions[j].area
			if regions[j].brightness > group.brightness {
				group.brightness = regions[j].brightness
				group.color = regions[j].color
			}
		}
		out = append(out, group)
	}
	return out
}

// lightRange derives a throw distance in grid units from the lit area: the
// equivalent-circle radius scaled down and clamped to a playable band.
func lightRange(area int) float64 {
	r := math.Sqrt(float64(area)/math.Pi) / 50
	return math.Min(5, math.Max(1, r))
}

// lightColorHex formats a color as Universal VTT's AARRGGBB hex string with
// full opacity.
func lightColorHex(c color.Color) string {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return "ffffffff"
	}
	r, g, b := cc.RGB255()
	return fmt.Sprintf("ff%02x%02x%02x", r, g, b)
}
