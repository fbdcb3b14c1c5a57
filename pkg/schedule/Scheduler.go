// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package schedule

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"

	"github.com/navwar/gomirror/pkg/fs"
)

const (
	MessageStarting  = "Starting synchronization..."
	MessageCompleted = "Synchronization completed. Waiting for the next interval..."
	MessageDone      = "Synchronization completed."
)

// Pass runs one synchronization pass.
type Pass func(ctx context.Context) (*fs.SyncReport, error)

type SchedulerInput struct {
	Interval time.Duration
	Logger   fs.Logger
	Clock    clockwork.Clock
}

// Scheduler runs passes one after another, waiting a fixed interval between the end
// of one pass and the start of the next.
type Scheduler struct {
	interval time.Duration
	logger   fs.Logger
	clock    clockwork.Clock
}

// RunOnce runs a single pass, with no pass to follow, and logs its boundary messages.
func (s *Scheduler) RunOnce(ctx context.Context, pass Pass) (*fs.SyncReport, error) {
	return s.run(ctx, pass, MessageDone)
}

func (s *Scheduler) run(ctx context.Context, pass Pass, completed string) (*fs.SyncReport, error) {
	s.log(MessageStarting)

	report, err := pass(ctx)
	if err != nil {
		s.log("Error synchronizing", map[string]interface{}{
			"err": err.Error(),
		})
	}

	s.log(completed, Summary(report))

	return report, err
}

// Run runs passes until the context is cancelled and returns the context error.
// A failed pass is logged and retried after the interval.
func (s *Scheduler) Run(ctx context.Context, pass Pass) error {
	for {
		_, _ = s.run(ctx, pass, MessageCompleted)

		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(s.interval):
		}
	}
}

func (s *Scheduler) log(msg string, fields ...map[string]interface{}) {
	if s.logger != nil {
		_ = s.logger.Log(msg, fields...)
	}
}

// Summary returns the log fields describing the report.
// Event types without events are omitted.
func Summary(report *fs.SyncReport) map[string]interface{} {
	fields := map[string]interface{}{}
	if report == nil {
		return fields
	}
	for _, t := range fs.EventTypes {
		if c := report.Count(t); c > 0 {
			fields[t.Key()] = c
		}
	}
	if b := report.Bytes(); b > 0 {
		fields["bytes"] = humanize.Bytes(uint64(b))
	}
	if errs := report.Errors(); len(errs) > 0 {
		fields["errors"] = len(errs)
	}
	fields["duration"] = report.Duration().Round(time.Millisecond).String()
	return fields
}

func NewScheduler(input *SchedulerInput) *Scheduler {
	s := &Scheduler{
		interval: input.Interval,
		logger:   input.Logger,
		clock:    input.Clock,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	return s
}
