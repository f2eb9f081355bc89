package walls

import (
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// PreviewRenderer draws the generated wall layout as vector graphics so the
// result can be inspected before importing it into a VTT.
type PreviewRenderer struct {
	Walls  []WallSegment
	Lights []UVTTLight

	Padding       float64 // padding around the wall bounds, in pixels
	WallWidth     float64 // stroke width for wall lines
	EndpointDot   float64 // radius of the endpoint markers; 0 disables them
	GridSpacing   float64 // grid line spacing in pixels; 0 disables the grid
	PixelsPerGrid float64 // converts light positions (grid units) to pixels
	Resolution    canvas.Resolution
}

// NewPreviewRenderer creates a renderer with default styling.
func NewPreviewRenderer(walls []WallSegment) *PreviewRenderer {
	return &PreviewRenderer{
		Walls:         walls,
		Padding:       25,
		WallWidth:     3,
		EndpointDot:   4,
		PixelsPerGrid: 70,
		Resolution:    canvas.DPI(150),
	}
}

// canvasRenderer is the subset both the svg and rasterizer backends implement.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the preview as an SVG document.
func (r *PreviewRenderer) RenderToSVG(w io.Writer) error {
	minX, minY, width, height := r.bounds()
	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, minX, minY, width, height)
	return svgRenderer.Close()
}

// RenderToPNG writes the preview as a PNG image.
func (r *PreviewRenderer) RenderToPNG(w io.Writer) error {
	minX, minY, width, height := r.bounds()
	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, minX, minY, width, height)
	return png.Encode(w, rast)
}

func (r *PreviewRenderer) renderToCanvas(renderer canvasRenderer, minX, minY, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	toCanvas := func(x, y float64) (float64, float64) {
		return (x - minX) + r.Padding, (y - minY) + r.Padding
	}

	if r.GridSpacing > 0 {
		gridStyle := canvas.DefaultStyle
		gridStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		gridStyle.Stroke = canvas.Paint{Color: canvas.Gray}
		gridStyle.StrokeWidth = 1
		gridStyle.Dashes = []float64{4, 4}

		maxX := minX + width - 2*r.Padding
		maxY := minY + height - 2*r.Padding
		for x := math.Floor(minX/r.GridSpacing) * r.GridSpacing; x <= maxX; x += r.GridSpacing {
			p := &canvas.Path{}
			x1, y1 := toCanvas(x, minY)
			x2, y2 := toCanvas(x, maxY)
			p.MoveTo(x1, y1)
			p.LineTo(x2, y2)
			renderer.RenderPath(p, gridStyle, canvas.Identity)
		}
		for y := math.Floor(minY/r.GridSpacing) * r.GridSpacing; y <= maxY; y += r.GridSpacing {
			p := &canvas.Path{}
			x1, y1 := toCanvas(minX, y)
			x2, y2 := toCanvas(maxX, y)
			p.MoveTo(x1, y1)
			p.LineTo(x2, y2)
			renderer.RenderPath(p, gridStyle, canvas.Identity)
		}
	}

	wallStyle := canvas.DefaultStyle
	wallStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	wallStyle.Stroke = canvas.Paint{Color: color.RGBA{R: 220, G: 40, B: 40, A: 255}}
	wallStyle.StrokeWidth = r.WallWidth

	doorStyle := wallStyle
	doorStyle.Stroke = canvas.Paint{Color: color.RGBA{R: 40, G: 90, B: 220, A: 255}}

	for _, s := range r.Walls {
		p := &canvas.Path{}
		x1, y1 := toCanvas(s.A[0], s.A[1])
		x2, y2 := toCanvas(s.B[0], s.B[1])
		p.MoveTo(x1, y1)
		p.LineTo(x2, y2)
		style := wallStyle
		if s.IsDoor {
			style = doorStyle
		}
		renderer.RenderPath(p, style, canvas.Identity)
	}

	if r.EndpointDot > 0 {
		dotStyle := canvas.DefaultStyle
		dotStyle.Fill = canvas.Paint{Color: color.RGBA{R: 160, G: 20, B: 20, A: 255}}
		dotStyle.Stroke = canvas.Paint{Color: canvas.Transparent}

		for _, s := range r.Walls {
			for _, pt := range [2][2]float64{{s.A[0], s.A[1]}, {s.B[0], s.B[1]}} {
				cx, cy := toCanvas(pt[0], pt[1])
				dot := canvas.Circle(r.EndpointDot)
				dot = dot.Translate(cx, cy)
				renderer.RenderPath(dot, dotStyle, canvas.Identity)
			}
		}
	}

	if r.PixelsPerGrid > 0 {
		lightStyle := canvas.DefaultStyle
		lightStyle.Fill = canvas.Paint{Color: color.RGBA{R: 255, G: 200, B: 60, A: 255}}
		lightStyle.Stroke = canvas.Paint{Color: canvas.Black}
		lightStyle.StrokeWidth = 1

		for _, l := range r.Lights {
			cx, cy := toCanvas(l.Position.X*r.PixelsPerGrid, l.Position.Y*r.PixelsPerGrid)
			glow := canvas.Circle(math.Max(r.EndpointDot*2, 6))
			glow = glow.Translate(cx, cy)
			renderer.RenderPath(glow, lightStyle, canvas.Identity)
		}
	}
}

// bounds computes the drawing area covering every wall endpoint and light,
// padded on all sides. An empty layout still yields a small valid canvas.
func (r *PreviewRenderer) bounds() (minX, minY, width, height float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

	for _, s := range r.Walls {
		for _, p := range [2][2]float64{{s.A[0], s.A[1]}, {s.B[0], s.B[1]}} {
			minX = math.Min(minX, p[0])
			minY = math.Min(minY, p[1])
			maxX = math.Max(maxX, p[0])
			maxY = math.Max(maxY, p[1])
		}
	}
	if r.PixelsPerGrid > 0 {
		for _, l := range r.Lights {
			x := l.Position.X * r.PixelsPerGrid
			y := l.Position.Y * r.PixelsPerGrid
			minX = math.Min(minX, x)
			minY = math.Min(minY, y)
			maxX = math.Max(maxX, x)
			maxY = math.Max(maxY, y)
		}
	}
	if minX > maxX {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}

	width = (maxX - minX) + 2*r.Padding
	height = (maxY - minY) + 2*r.Padding
	return minX, minY, width, height
}
