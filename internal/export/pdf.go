// Package export renders recorded samples and canvas snapshots to files.
package export

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"

	"canvastream/internal/state"
)

// TraceOptions control the PDF layout.
type TraceOptions struct {
	Grid state.GridSpec
	// Width and Height are the canvas extent in pixels. When zero they are
	// taken from the samples.
	Width, Height float64
	Title         string
}

const (
	pageMargin = 10.0 // mm
	hoverDot   = 0.4  // mm
)

// TracePDF draws the grid and the recorded pointer trace on one landscape
// A4 page. Consecutive drawing samples of a session are joined by lines;
// hover samples are drawn as dots.
func TracePDF(w io.Writer, samples []state.Sample, opts TraceOptions) error {
	if err := opts.Grid.Validate(); err != nil {
		return err
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = extent(samples)
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	pageW, pageH := p.GetPageSize()
	scale := min((pageW-2*pageMargin)/width, (pageH-2*pageMargin)/height)
	tx := func(x float64) float64 { return pageMargin + x*scale }
	ty := func(y float64) float64 { return pageMargin + y*scale }

	for _, tier := range []state.GridTier{opts.Grid.Minor, opts.Grid.Major} {
		setDrawColor(p, tier.Color)
		p.SetLineWidth(tier.LineWidth * scale)
		p.SetDashPattern(scaled(tier.Dash, scale), 0)
		step := float64(tier.Spacing)
		for x := 0.0; x <= width; x += step {
			p.Line(tx(x), ty(0), tx(x), ty(height))
		}
		for y := 0.0; y <= height; y += step {
			p.Line(tx(0), ty(y), tx(width), ty(y))
		}
	}
	p.SetDashPattern(nil, 0)

	p.SetDrawColor(0, 0, 0)
	p.SetFillColor(120, 120, 120)
	p.SetLineWidth(0.3)
	for i, s := range samples {
		if !s.IsDrawing {
			p.Circle(tx(s.X), ty(s.Y), hoverDot, "F")
			continue
		}
		if i > 0 {
			prev := samples[i-1]
			if prev.IsDrawing && prev.SessionID == s.SessionID {
				p.Line(tx(prev.X), ty(prev.Y), tx(s.X), ty(s.Y))
			}
		}
	}

	if opts.Title != "" {
		p.SetFont("Helvetica", "", 9)
		p.SetTextColor(80, 80, 80)
		p.Text(pageMargin, pageH-pageMargin/2, opts.Title)
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func extent(samples []state.Sample) (float64, float64) {
	w, h := 1.0, 1.0
	for _, s := range samples {
		w = max(w, s.X)
		h = max(h, s.Y)
	}
	return w, h
}

func scaled(dash []float64, scale float64) []float64 {
	if len(dash) == 0 {
		return nil
	}
	out := make([]float64, len(dash))
	for i, d := range dash {
		out[i] = d * scale
	}
	return out
}

func setDrawColor(p *gofpdf.Fpdf, hex string) {
	c := gg.Hex(hex)
	p.SetDrawColor(int(c.R*255), int(c.G*255), int(c.B*255))
}
