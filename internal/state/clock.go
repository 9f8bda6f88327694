package state

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Stamper gives every emitted record an id, a session-wide sequence number
// and a wall-clock timestamp.
type Stamper struct {
	session string
	seq     atomic.Uint64
	now     func() time.Time
}

// NewStamper starts a new recording session with a random session id.
func NewStamper() *Stamper {
	return &Stamper{session: uuid.NewString(), now: time.Now}
}

// NewStamperWithClock is NewStamper with an injectable clock.
func NewStamperWithClock(now func() time.Time) *Stamper {
	return &Stamper{session: uuid.NewString(), now: now}
}

// Session returns the session id shared by every stamped sample.
func (s *Stamper) Session() string { return s.session }

// Stamp wraps rec. Sequence numbers start at 1.
func (s *Stamper) Stamp(rec SampleRecord) Sample {
	return Sample{
		ID:           uuid.NewString(),
		SessionID:    s.session,
		Seq:          s.seq.Add(1),
		Timestamp:    s.now().UTC(),
		SampleRecord: rec,
	}
}
