package canvas_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvastream/internal/canvas"
	"canvastream/internal/canvas/canvastest"
)

func TestRasterSurfaceDrawsStroke(t *testing.T) {
	d := canvas.NewDispatcher()
	s := canvas.NewRasterSurface(100, 100)
	_, err := canvas.NewBoard(canvas.DefaultBoardConfig(), d, s, &canvastest.Locator{}, &canvastest.Sink{})
	require.NoError(t, err)

	d.PointerDown(canvas.PointerEvent{X: 10, Y: 50})
	d.PointerMove(canvas.PointerEvent{X: 90, Y: 50})
	d.PointerUp(canvas.PointerEvent{X: 90, Y: 50})

	img := s.Image()
	r, _, _, _ := img.At(50, 49).RGBA()
	assert.Less(t, r>>8, uint32(100), "stroke pixel should be dark")

	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, [3]uint32{255, 255, 255}, [3]uint32{r >> 8, g >> 8, b >> 8}, "background should stay white")
}

func TestRasterSurfaceResize(t *testing.T) {
	s := canvas.NewRasterSurface(10, 10)
	require.NoError(t, s.Resize(30, 20))
	w, h := s.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, h)
	assert.Equal(t, 30, s.Image().Bounds().Dx())

	require.NoError(t, s.Resize(0, 0))
	w, h = s.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestRasterSurfaceEncodePNG(t *testing.T) {
	s := canvas.NewRasterSurface(16, 8)
	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func darkness(t *testing.T, s *canvas.RasterSurface, x, y int) uint32 {
	t.Helper()
	r, _, _, _ := s.Image().At(x, y).RGBA()
	return r >> 8
}

func TestRasterSurfaceWidthAfterDash(t *testing.T) {
	s := canvas.NewRasterSurface(100, 100)
	s.SetLineWidth(1)
	s.SetLineDash([]float64{2, 4})
	s.SetLineDash(nil)
	s.SetStrokeColor("#000")
	s.SetLineWidth(2)
	s.BeginPath()
	s.MoveTo(10, 50)
	s.LineTo(90, 50)
	s.Stroke()

	assert.Less(t, darkness(t, s, 50, 49), uint32(10))
	assert.Less(t, darkness(t, s, 50, 50), uint32(10))
}

func TestRasterSurfaceDashLeavesGaps(t *testing.T) {
	s := canvas.NewRasterSurface(100, 100)
	s.SetStrokeColor("#000")
	s.SetLineWidth(2)
	s.SetLineDash([]float64{2, 4})
	s.BeginPath()
	s.MoveTo(10, 50)
	s.LineTo(90, 50)
	s.Stroke()

	assert.Less(t, darkness(t, s, 10, 49), uint32(10), "inside a dash")
	assert.Equal(t, uint32(255), darkness(t, s, 13, 49), "inside a gap")
}

func TestRasterSurfaceGridIgnoresPriorPenState(t *testing.T) {
	grid, err := canvas.NewGridRenderer(canvas.DefaultBoardConfig().Grid)
	require.NoError(t, err)

	first := canvas.NewRasterSurface(200, 200)
	grid.Render(first, 200, 200)
	second := canvas.NewRasterSurface(200, 200)
	second.SetLineWidth(3)
	second.SetLineDash([]float64{5, 5})
	grid.Render(second, 200, 200)

	var a, b bytes.Buffer
	require.NoError(t, first.EncodePNG(&a))
	require.NoError(t, second.EncodePNG(&b))
	assert.Equal(t, a.Bytes(), b.Bytes())
}
