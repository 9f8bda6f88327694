package sink

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"

	"canvastream/internal/logging"
	"canvastream/internal/state"
)

const batchPattern = "batch-*.ndjson.gz"

// FileTransport archives each batch as a gzip-compressed NDJSON file.
type FileTransport struct {
	dir string
	now func() time.Time
	log *logrus.Entry
}

// NewFileTransport creates dir if needed.
func NewFileTransport(dir string) (*FileTransport, error) {
	if dir == "" {
		return nil, &state.ConfigError{Field: "sink.address", Reason: "archive directory must not be empty"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &FileTransport{dir: dir, now: time.Now, log: logging.NewLogger("archive")}, nil
}

// Dir returns the archive directory.
func (f *FileTransport) Dir() string { return f.dir }

func (f *FileTransport) Send(ctx context.Context, batch []state.Sample) error {
	if len(batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := fmt.Sprintf("batch-%020d-%d.ndjson.gz", batch[0].Seq, f.now().UnixNano())
	tmp, err := os.CreateTemp(f.dir, ".batch-*")
	if err != nil {
		return fmt.Errorf("create batch file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeBatch(tmp, batch); err != nil {
		tmp.Close()
		return fmt.Errorf("write batch: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close batch file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.dir, name)); err != nil {
		return fmt.Errorf("commit batch file: %w", err)
	}
	f.log.WithFields(logrus.Fields{"file": name, "samples": len(batch)}).Debug("batch archived")
	return nil
}

func (f *FileTransport) Close() error { return nil }

func writeBatch(w io.Writer, batch []state.Sample) error {
	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)
	for _, s := range batch {
		if err := enc.Encode(s); err != nil {
			gz.Close()
			return err
		}
	}
	return gz.Close()
}

// ReadDir loads every archived sample in dir. Samples of one session keep
// their sequence order; sessions are ordered by their earliest timestamp.
func ReadDir(dir string) ([]state.Sample, error) {
	files, err := filepath.Glob(filepath.Join(dir, batchPattern))
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	var samples []state.Sample
	for _, name := range files {
		batch, err := readBatch(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(name), err)
		}
		samples = append(samples, batch...)
	}
	started := make(map[string]time.Time)
	for _, s := range samples {
		if t, ok := started[s.SessionID]; !ok || s.Timestamp.Before(t) {
			started[s.SessionID] = s.Timestamp
		}
	}
	slices.SortStableFunc(samples, func(a, b state.Sample) int {
		if a.SessionID != b.SessionID {
			if c := started[a.SessionID].Compare(started[b.SessionID]); c != 0 {
				return c
			}
			return cmp.Compare(a.SessionID, b.SessionID)
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
	return samples, nil
}

func readBatch(name string) ([]state.Sample, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var batch []state.Sample
	dec := json.NewDecoder(gz)
	for {
		var s state.Sample
		if err := dec.Decode(&s); err != nil {
			if errors.Is(err, io.EOF) {
				return batch, nil
			}
			return nil, err
		}
		batch = append(batch, s)
	}
}
