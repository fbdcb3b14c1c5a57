// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"sync"
	"time"

	"go.uber.org/multierr"
)

// SyncReport collects the events and errors of one pass.
// It is safe for concurrent use.
type SyncReport struct {
	mu     sync.Mutex
	start  time.Time
	end    time.Time
	counts map[EventType]int
	events []Event
	bytes  int64
	err    error
}

func (r *SyncReport) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[e.Type]++
	r.events = append(r.events, e)
	r.bytes += e.Bytes
}

func (r *SyncReport) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = multierr.Append(r.err, err)
}

func (r *SyncReport) finish(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.end = t
}

// Bytes returns the number of bytes written to the replica.
func (r *SyncReport) Bytes() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytes
}

func (r *SyncReport) Count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[t]
}

// Duration returns the time between the start and the end of the pass.
func (r *SyncReport) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.end.IsZero() {
		return 0
	}
	return r.end.Sub(r.start)
}

// Err returns the combined entry errors, or nil if every entry succeeded.
func (r *SyncReport) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *SyncReport) Errors() []error {
	return multierr.Errors(r.Err())
}

// Events returns a copy of the events in the order they were recorded.
func (r *SyncReport) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}

// Mutations returns the number of changes made to the replica.
func (r *SyncReport) Mutations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func NewSyncReport(start time.Time) *SyncReport {
	return &SyncReport{
		start:  start,
		counts: map[EventType]int{},
		events: []Event{},
	}
}
