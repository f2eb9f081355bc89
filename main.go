package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/tavern-tools/wallgen/walls"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	inputFile  = flag.String("input", "", "Map image to process (png/jpg/webp)")
	maskFile   = flag.String("mask", "", "Pre-made binary mask image; skips detection")
	outputFile = flag.String("output", "walls.json", "Output file")
	format     = flag.String("format", "foundry", "Output format: foundry, uvtt, svg, or png")

	presetFile  = flag.String("presets", "", "Path to a preset YAML file")
	presetName  = flag.String("preset", "", "Named preset to start from")
	listPresets = flag.Bool("list-presets", false, "List available presets and exit")

	// Generation overrides. Negative values mean "use the preset value".
	tolerance      = flag.Float64("tolerance", -1, "Contour simplification tolerance (fraction of perimeter)")
	maxLength      = flag.Float64("max-length", -1, "Maximum wall segment length in pixels")
	maxWalls       = flag.Int("max-walls", -1, "Hard cap on the number of generated walls")
	mergeDistance  = flag.Float64("merge-distance", -1, "Endpoint clustering radius in pixels")
	angleTolerance = flag.Float64("angle-tolerance", -1, "Collinear merge angle tolerance in degrees")
	maxGap         = flag.Float64("max-gap", -1, "Collinear merge maximum gap in pixels")
	gridSize       = flag.Float64("grid-size", -1, "Snap endpoints to a grid of this size; 0 disables")
	halfGrid       = flag.Bool("half-grid", false, "Allow snapping to half-grid intersections")
	gridOffsetX    = flag.Float64("grid-offset-x", 0, "Grid origin X offset in pixels")
	gridOffsetY    = flag.Float64("grid-offset-y", 0, "Grid origin Y offset in pixels")

	// Detection parameters.
	blurRadius     = flag.Float64("blur", 2, "Gaussian blur radius before edge detection")
	cannyLow       = flag.Int("canny-low", 50, "Edge detection low threshold (0-255)")
	cannyHigh      = flag.Int("canny-high", 150, "Edge detection high threshold (0-255)")
	minArea        = flag.Float64("min-area", 100, "Minimum contour area in square pixels")
	maxArea        = flag.Float64("max-area", 0, "Maximum contour area in square pixels; 0 disables")
	wallColor      = flag.String("wall-color", "", "Detect walls by color instead of edges: #RRGGBB")
	colorThreshold = flag.Float64("color-threshold", 10, "Color match threshold (0-100)")
	workingWidth   = flag.Int("working-width", 0, "Downscale the image to this width for detection; 0 disables")

	// Universal VTT parameters.
	pixelsPerGrid = flag.Float64("ppg", 70, "Pixels per grid cell for Universal VTT output")
	embedImage    = flag.Bool("embed-image", false, "Embed the map image in the Universal VTT output")

	// Light detection.
	detectLights   = flag.Bool("detect-lights", false, "Detect light sources for Universal VTT output")
	lightThreshold = flag.Float64("light-threshold", 0.85, "Brightness threshold for light detection (0-1)")
	lightMerge     = flag.Float64("light-merge", 40, "Merge lights closer than this distance in pixels")
)

func main() {
	flag.Parse()
	fmt.Printf("wallgen version: %s\n", Version)

	presets := loadPresetFile()

	if *listPresets {
		for _, name := range presets.Names() {
			fmt.Println(name)
		}
		return
	}

	if *inputFile == "" && *maskFile == "" {
		flag.Usage()
		log.Fatal("either -input or -mask is required")
	}

	cfg := resolveConfig(presets)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	contours := extractContours()
	fmt.Printf("Extracted %d contour(s)\n", len(contours))

	segs, err := walls.GenerateWalls(contours, cfg)
	if err != nil {
		log.Fatalf("Error generating walls: %v", err)
	}
	fmt.Printf("Generated %d wall(s)\n", len(segs))

	var lights []walls.UVTTLight
	if *detectLights {
		if *inputFile == "" {
			log.Fatal("-detect-lights requires -input")
		}
		img, err := imaging.Open(*inputFile)
		if err != nil {
			log.Fatalf("Error opening image: %v", err)
		}
		opts := walls.DefaultLightOptions()
		opts.BrightnessThreshold = *lightThreshold
		opts.MergeDistance = *lightMerge
		opts.PixelsPerGrid = *pixelsPerGrid
		lights, err = walls.DetectLights(img, opts)
		if err != nil {
			log.Fatalf("Error detecting lights: %v", err)
		}
		fmt.Printf("Detected %d light(s)\n", len(lights))
	}

	switch strings.ToLower(*format) {
	case "foundry":
		writeFoundry(segs)
	case "uvtt":
		writeUVTT(segs, lights)
	case "svg", "png":
		writePreview(segs, lights)
	default:
		log.Fatalf("Invalid format: %s (must be foundry, uvtt, svg, or png)", *format)
	}
	fmt.Println("Done!")
}

func loadPresetFile() *walls.PresetFile {
	if *presetFile == "" {
		return nil
	}
	pf, err := walls.LoadPresets(*presetFile)
	if err != nil {
		log.Fatalf("Error loading presets: %v", err)
	}
	return pf
}

// resolveConfig layers CLI overrides on top of the selected preset.
func resolveConfig(presets *walls.PresetFile) walls.Config {
	cfg := walls.DefaultConfig()
	if *presetName != "" {
		p, ok := presets.Lookup(*presetName)
		if !ok {
			log.Fatalf("Unknown preset %q (use -list-presets)", *presetName)
		}
		cfg = p.Config
	}

	if *tolerance >= 0 {
		cfg.SimplifyTolerance = *tolerance
	}
	if *maxLength >= 0 {
		cfg.MaxWallLength = *maxLength
	}
	if *maxWalls >= 0 {
		cfg.MaxWalls = *maxWalls
	}
	if *mergeDistance >= 0 {
		cfg.MergeDistance = *mergeDistance
	}
	if *angleTolerance >= 0 {
		cfg.AngleTolerance = *angleTolerance
	}
	if *maxGap >= 0 {
		cfg.MaxGap = *maxGap
	}
	if *gridSize >= 0 {
		cfg.Grid.Size = *gridSize
	}
	if *halfGrid {
		cfg.Grid.AllowHalfGrid = true
	}
	cfg.Grid.OffsetX = *gridOffsetX
	cfg.Grid.OffsetY = *gridOffsetY
	return cfg
}

// extractContours produces the contour list either from a pre-made mask or by
// running detection on the input image, optionally on a downscaled working
// copy whose contours get scaled back to full resolution.
func extractContours() []walls.Contour {
	traceOpts := walls.TraceOptions{MinArea: *minArea, MaxArea: *maxArea}

	if *maskFile != "" {
		img, err := imaging.Open(*maskFile)
		if err != nil {
			log.Fatalf("Error opening mask: %v", err)
		}
		return walls.TraceMask(walls.MaskFromImage(img), traceOpts)
	}

	img, err := imaging.Open(*inputFile)
	if err != nil {
		log.Fatalf("Error opening image: %v", err)
	}

	scale := 1.0
	working := img
	fullWidth := img.Bounds().Dx()
	if *workingWidth > 0 && fullWidth > *workingWidth {
		working = imaging.Resize(img, *workingWidth, 0, imaging.Lanczos)
		scale = float64(fullWidth) / float64(*workingWidth)
	}

	opts := walls.DetectOptions{
		BlurRadius: *blurRadius,
		CannyLow:   *cannyLow,
		CannyHigh:  *cannyHigh,
		MinArea:    *minArea,
		MaxArea:    *maxArea,
	}
	if *wallColor != "" {
		c, err := parseHexColor(*wallColor)
		if err != nil {
			log.Fatalf("Invalid -wall-color: %v", err)
		}
		opts.Colors = []walls.ColorSpec{{Color: c, Threshold: *colorThreshold}}
	}

	contours := walls.DetectWalls(working, opts)
	if scale != 1 {
		contours = walls.ScaleContours(contours, scale)
	}
	return contours
}

func writeFoundry(segs []walls.WallSegment) {
	docs := walls.ExportFoundry(segs)
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding walls: %v", err)
	}
	if err := os.WriteFile(*outputFile, data, 0644); err != nil {
		log.Fatalf("Error writing %s: %v", *outputFile, err)
	}
	fmt.Printf("Created Foundry walls: %s\n", *outputFile)
}

func writeUVTT(segs []walls.WallSegment, lights []walls.UVTTLight) {
	if *inputFile == "" {
		log.Fatal("uvtt output requires -input for the map dimensions")
	}
	img, err := imaging.Open(*inputFile)
	if err != nil {
		log.Fatalf("Error opening image: %v", err)
	}

	opts := walls.UVTTOptions{
		ImageWidth:    float64(img.Bounds().Dx()),
		ImageHeight:   float64(img.Bounds().Dy()),
		PixelsPerGrid: *pixelsPerGrid,
		Lights:        lights,
	}
	if *embedImage {
		raw, err := os.ReadFile(*inputFile)
		if err != nil {
			log.Fatalf("Error reading image for embedding: %v", err)
		}
		opts.Image = base64.StdEncoding.EncodeToString(raw)
	}

	uvtt, err := walls.ExportUVTT(segs, opts)
	if err != nil {
		log.Fatalf("Error exporting UVTT: %v", err)
	}
	data, err := json.MarshalIndent(uvtt, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding UVTT: %v", err)
	}
	if err := os.WriteFile(*outputFile, data, 0644); err != nil {
		log.Fatalf("Error writing %s: %v", *outputFile, err)
	}
	fmt.Printf("Created Universal VTT map: %s\n", *outputFile)
}

func writePreview(segs []walls.WallSegment, lights []walls.UVTTLight) {
	renderer := walls.NewPreviewRenderer(segs)
	renderer.Lights = lights
	renderer.PixelsPerGrid = *pixelsPerGrid
	if *gridSize > 0 {
		renderer.GridSpacing = *gridSize
	}

	outputPath := *outputFile
	wantExt := "." + strings.ToLower(*format)
	if filepath.Ext(outputPath) != wantExt {
		outputPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + wantExt
	}

	out, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("Error creating %s: %v", outputPath, err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Printf("Warning: error closing %s: %v", outputPath, err)
		}
	}()

	if strings.ToLower(*format) == "svg" {
		err = renderer.RenderToSVG(out)
	} else {
		err = renderer.RenderToPNG(out)
	}
	if err != nil {
		log.Fatalf("Error rendering preview: %v", err)
	}
	fmt.Printf("Created preview: %s\n", outputPath)
}

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("expected #RRGGBB, got %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("expected #RRGGBB, got %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
