package export

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvastream/internal/canvas"
	"canvastream/internal/state"
)

func trace() []state.Sample {
	st := state.NewStamper()
	recs := []state.SampleRecord{
		{X: 5, Y: 5},
		{IsDrawing: true, X: 10, Y: 10},
		{IsDrawing: true, X: 20, Y: 20},
		{IsDrawing: true, X: 40, Y: 25},
		{X: 60, Y: 30},
	}
	out := make([]state.Sample, 0, len(recs))
	for _, r := range recs {
		out = append(out, st.Stamp(r))
	}
	return out
}

func TestTracePDF(t *testing.T) {
	var buf bytes.Buffer
	err := TracePDF(&buf, trace(), TraceOptions{Grid: state.DefaultGridSpec(), Width: 800, Height: 600, Title: "session"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestTracePDFDerivesExtent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TracePDF(&buf, trace(), TraceOptions{Grid: state.DefaultGridSpec()}))
	assert.NotZero(t, buf.Len())

	w, h := extent(trace())
	assert.Equal(t, 60.0, w)
	assert.Equal(t, 30.0, h)
	w, h = extent(nil)
	assert.Equal(t, 1.0, w)
	assert.Equal(t, 1.0, h)
}

func TestTracePDFRejectsBadGrid(t *testing.T) {
	var buf bytes.Buffer
	err := TracePDF(&buf, trace(), TraceOptions{})
	assert.ErrorIs(t, err, state.ErrConfiguration)
}

func TestSnapshotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	require.NoError(t, SnapshotPNG(path, canvas.NewRasterSurface(40, 30)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

type failingEncoder struct{}

func (failingEncoder) EncodePNG(io.Writer) error { return errors.New("no pixels") }

func TestWriteSnapshotClosesOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	f, err := os.Create(path)
	require.NoError(t, err)

	err = WriteSnapshot(f, failingEncoder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pixels")
	assert.Error(t, f.Close(), "file should already be closed")
}
