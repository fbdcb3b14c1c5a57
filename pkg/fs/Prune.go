// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"context"
)

// Prune removes the entries of the replica that do not exist in the source with the same kind.
// A directory is removed with its entire subtree in one action.  The replica root is never removed.
func Prune(ctx context.Context, input *SyncInput, report *SyncReport) error {
	source := input.SourceFileSystem
	replica := input.ReplicaFileSystem

	for entry, err := range Walk(ctx, replica, ".") {
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			input.fail(report, err)
			continue
		}
		if entry.Path == "." {
			continue
		}
		if Excluded(input.Exclude, entry.Path) {
			if input.Debug {
				input.log("Skipping excluded replica entry", map[string]interface{}{
					"path": replica.Path(entry.Path),
				})
			}
			entry.SkipDir()
			continue
		}

		sourceKind, err := source.Kind(ctx, entry.Path)
		if err != nil {
			// an entry is only removed if it is known to be missing from the source
			input.fail(report, &IOError{Op: "stating", Path: source.Path(entry.Path), Err: err})
			entry.SkipDir()
			continue
		}

		switch DecidePrune(entry.Kind, sourceKind).Action {
		case ActionRemoveDirectory:
			entry.SkipDir()
			if err := replica.RemoveAll(ctx, entry.Path); err != nil {
				input.fail(report, &IOError{Op: "removing directory", Path: replica.Path(entry.Path), Err: err})
				continue
			}
			input.emit(report, Event{Type: DirectoryRemoved, Path: entry.Path})
		case ActionRemoveFile:
			if err := replica.Remove(ctx, entry.Path); err != nil {
				input.fail(report, &FileSyncError{
					Path: entry.Path,
					Err:  &IOError{Op: "removing file", Path: replica.Path(entry.Path), Err: err},
				})
				continue
			}
			input.emit(report, Event{Type: FileRemoved, Path: entry.Path})
		}
	}

	return ctx.Err()
}
