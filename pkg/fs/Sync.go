// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"fmt"
	"time"
)

// Sync runs one pass: Push followed by Prune.
// Entry errors do not stop the pass; they are logged and collected in the report.
// An error is returned only if the pass could not run to completion.
func Sync(ctx context.Context, input *SyncInput) (*SyncReport, error) {
	report := NewSyncReport(time.Now())

	sourceKind, err := input.SourceFileSystem.Kind(ctx, ".")
	if err != nil {
		return report, fmt.Errorf("error stating source %q: %w", input.SourceFileSystem.Root(), err)
	}
	// without a source tree every replica entry would be pruned
	if sourceKind != KindDirectory {
		return report, fmt.Errorf("source %q is not a directory", input.SourceFileSystem.Root())
	}

	if err := Push(ctx, input, report); err != nil {
		report.finish(time.Now())
		return report, fmt.Errorf(
			"error pushing source %q to replica %q: %w",
			input.SourceFileSystem.Root(),
			input.ReplicaFileSystem.Root(),
			err)
	}

	if err := Prune(ctx, input, report); err != nil {
		report.finish(time.Now())
		return report, fmt.Errorf(
			"error pruning replica %q: %w",
			input.ReplicaFileSystem.Root(),
			err)
	}

	report.finish(time.Now())

	return report, nil
}
