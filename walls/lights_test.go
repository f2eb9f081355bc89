package walls

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func lightImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 20, B: 20, A: 255})
		}
	}
	return img
}

func paintBlock(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.Set(x, y, c)
		}
	}
}

func TestDetectLightsSingleSource(t *testing.T) {
	img := lightImage(64, 64)
	paintBlock(img, 20, 20, 29, 29, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	opts := DefaultLightOptions()
	opts.BrightnessThreshold = 0.5
	opts.MinArea = 10
	opts.MergeDistance = 0
	opts.PixelsPerGrid = 10

	lights, err := DetectLights(img, opts)
	if err != nil {
		t.Fatalf("DetectLights: %v", err)
	}
	if len(lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(lights))
	}

	l := lights[0]
	// Centroid of the 10x10 block at (20,20), in grid units.
	if math.Abs(l.Position.X-2.45) > 0.01 || math.Abs(l.Position.Y-2.45) > 0.01 {
		t.Errorf("light position = %v, want ~(2.45, 2.45)", l.Position)
	}
	if l.Range != 1 {
		t.Errorf("small source range = %g, want clamp to 1", l.Range)
	}
	if l.Intensity != 1 {
		t.Errorf("white source intensity = %g, want 1", l.Intensity)
	}
	if l.Color != "ffffffff" {
		t.Errorf("light color = %q, want ffffffff", l.Color)
	}
	if !l.Shadows {
		t.Error("detected lights must cast shadows")
	}
}

func TestDetectLightsAreaFilter(t *testing.T) {
	img := lightImage(64, 64)
	// A 2x2 speckle and a real 10x10 light.
	paintBlock(img, 5, 5, 6, 6, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	paintBlock(img, 30, 30, 39, 39, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	opts := DefaultLightOptions()
	opts.BrightnessThreshold = 0.5
	opts.MinArea = 20
	opts.MergeDistance = 0
	opts.PixelsPerGrid = 1

	lights, err := DetectLights(img, opts)
	if err != nil {
		t.Fatalf("DetectLights: %v", err)
	}
	if len(lights) != 1 {
		t.Fatalf("speckle must be filtered, got %d lights", len(lights))
	}
	if math.Abs(lights[0].Position.X-34.5) > 0.1 {
		t.Errorf("surviving light at x=%g, want ~34.5", lights[0].Position.X)
	}
}

func TestDetectLightsMergesNearbySources(t *testing.T) {
	img := lightImage(64, 32)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	paintBlock(img, 10, 10, 15, 15, white)
	paintBlock(img, 30, 10, 35, 15, white)

	opts := DefaultLightOptions()
	opts.BrightnessThreshold = 0.5
	opts.MinArea = 10
	opts.MergeDistance = 30
	opts.PixelsPerGrid = 1

	lights, err := DetectLights(img, opts)
	if err != nil {
		t.Fatalf("DetectLights: %v", err)
	}
	if len(lights) != 1 {
		t.Fatalf("expected merged light, got %d", len(lights))
	}
	if math.Abs(lights[0].Position.X-22.5) > 0.1 {
		t.Errorf("merged position x=%g, want ~22.5 (area-weighted midpoint)", lights[0].Position.X)
	}

	// With merging disabled the sources stay separate.
	opts.MergeDistance = 0
	lights, err = DetectLights(img, opts)
	if err != nil {
		t.Fatalf("DetectLights: %v", err)
	}
	if len(lights) != 2 {
		t.Fatalf("expected 2 separate lights, got %d", len(lights))
	}
}

func TestDetectLightsRejectsBadGrid(t *testing.T) {
	opts := DefaultLightOptions()
	opts.PixelsPerGrid = 0
	if _, err := DetectLights(lightImage(8, 8), opts); err == nil {
		t.Fatal("expected an error for pixels per grid 0")
	}
}

func TestLightRangeClamping(t *testing.T) {
	if got := lightRange(10); got != 1 {
		t.Errorf("tiny area range = %g, want 1", got)
	}
	if got := lightRange(1000000); got != 5 {
		t.Errorf("huge area range = %g, want 5", got)
	}
	mid := lightRange(100000)
	if mid <= 1 || mid >= 5 {
		t.Errorf("mid area range = %g, want inside (1, 5)", mid)
	}
}

func TestLightColorHex(t *testing.T) {
	got := lightColorHex(color.RGBA{R: 255, G: 200, B: 100, A: 255})
	if got != "ffffc864" {
		t.Errorf("lightColorHex = %q, want ffffc864", got)
	}
}
