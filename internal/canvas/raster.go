package canvas

import (
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"

	"canvastream/internal/logging"
)

// RasterSurface is a Surface backed by an in-memory gg pixel buffer.
type RasterSurface struct {
	ctx           *gg.Context
	width, height int
	background    gg.RGBA
	lineWidth     float64
	dash          []float64
	log           *logrus.Entry
}

var (
	_ Surface   = (*RasterSurface)(nil)
	_ Resizable = (*RasterSurface)(nil)
)

// NewRasterSurface allocates a white canvas of the given size.
func NewRasterSurface(width, height int) *RasterSurface {
	s := &RasterSurface{
		ctx:        gg.NewContext(max(width, 1), max(height, 1)),
		width:      max(width, 0),
		height:     max(height, 0),
		background: gg.White,
		lineWidth:  1,
		log:        logging.NewLogger("raster"),
	}
	s.ctx.ClearWithColor(s.background)
	return s
}

func (s *RasterSurface) BeginPath()          { s.ctx.ClearPath() }
func (s *RasterSurface) MoveTo(x, y float64) { s.ctx.MoveTo(x, y) }
func (s *RasterSurface) LineTo(x, y float64) { s.ctx.LineTo(x, y) }

// Stroke applies width and dash as one gg.Stroke. Once a dash was set, gg
// ignores SetLineWidth, so the two are never set separately.
func (s *RasterSurface) Stroke() {
	s.ctx.SetStroke(gg.DefaultStroke().WithWidth(s.lineWidth).WithDashPattern(s.dash...))
	if err := s.ctx.Stroke(); err != nil {
		s.log.WithError(err).Warn("stroke failed")
	}
}

func (s *RasterSurface) SetLineWidth(width float64)  { s.lineWidth = width }
func (s *RasterSurface) SetStrokeColor(color string) { s.ctx.SetHexColor(color) }

func (s *RasterSurface) SetLineDash(pattern []float64) {
	s.dash = append(s.dash[:0], pattern...)
}

func (s *RasterSurface) Size() (int, int) { return s.width, s.height }

// Resize reallocates the pixel buffer and clears it to the background.
// A zero dimension keeps a 1x1 buffer and reports a zero size.
func (s *RasterSurface) Resize(width, height int) error {
	s.width, s.height = max(width, 0), max(height, 0)
	if err := s.ctx.Resize(max(width, 1), max(height, 1)); err != nil {
		return err
	}
	s.ctx.ClearWithColor(s.background)
	return nil
}

// Image returns a copy of the current pixels.
func (s *RasterSurface) Image() image.Image { return s.ctx.Image() }

// EncodePNG writes the current pixels as PNG.
func (s *RasterSurface) EncodePNG(w io.Writer) error { return s.ctx.EncodePNG(w) }
