package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvastream/internal/state"
)

func TestFileTransportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ft, err := NewFileTransport(dir)
	require.NoError(t, err)

	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	stamper := state.NewStamperWithClock(func() time.Time { return at })
	first := []state.Sample{
		stamper.Stamp(state.SampleRecord{X: 1, Y: 2}),
		stamper.Stamp(state.SampleRecord{IsDrawing: true, X: 3, Y: 4}),
	}
	second := []state.Sample{stamper.Stamp(state.SampleRecord{X: 5, Y: 6})}

	require.NoError(t, ft.Send(context.Background(), second))
	require.NoError(t, ft.Send(context.Background(), first))
	require.NoError(t, ft.Send(context.Background(), nil))

	files, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Len(t, files, 2, "no temp files may be left behind")

	got, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uint64{1, 2, 3}, []uint64{got[0].Seq, got[1].Seq, got[2].Seq})
	assert.True(t, got[1].IsDrawing)
	assert.Equal(t, 5.0, got[2].X)
}

func TestFileTransportHonoursCancelledContext(t *testing.T) {
	ft, err := NewFileTransport(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ft.Send(ctx, batchOf(1)), context.Canceled)
}

func TestReadDirRejectsCorruptBatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "batch-1-1.ndjson.gz"), []byte("not gzip"), 0o644))

	_, err := ReadDir(dir)
	assert.Error(t, err)
}

func TestNewFileTransportNeedsDir(t *testing.T) {
	_, err := NewFileTransport("")
	assert.ErrorIs(t, err, state.ErrConfiguration)
}

func TestReadDirKeepsSequenceOrderAcrossClockSteps(t *testing.T) {
	dir := t.TempDir()
	ft, err := NewFileTransport(dir)
	require.NoError(t, err)

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	clock := []time.Time{base.Add(time.Minute), base, base.Add(2 * time.Minute)}
	i := 0
	later := state.NewStamperWithClock(func() time.Time { at := clock[i%len(clock)]; i++; return at })
	earlier := state.NewStamperWithClock(func() time.Time { return base.Add(-time.Hour) })

	// The clock stepped back between the first two samples of this session.
	require.NoError(t, ft.Send(context.Background(), []state.Sample{
		later.Stamp(state.SampleRecord{X: 1}),
		later.Stamp(state.SampleRecord{X: 2}),
		later.Stamp(state.SampleRecord{X: 3}),
	}))
	require.NoError(t, ft.Send(context.Background(), []state.Sample{
		earlier.Stamp(state.SampleRecord{X: 10}),
		earlier.Stamp(state.SampleRecord{X: 11}),
	}))

	got, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, got, 5)
	var xs []float64
	for _, s := range got {
		xs = append(xs, s.X)
	}
	assert.Equal(t, []float64{10, 11, 1, 2, 3}, xs)
	assert.Equal(t, earlier.Session(), got[0].SessionID)
}
