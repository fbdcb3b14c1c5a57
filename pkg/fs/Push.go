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

	"golang.org/x/sync/errgroup"
)

// Push creates the directories and copies the files of the source that are missing or stale in the replica.
// Directories are created in pre-order by the walking goroutine, and files are compared and copied
// by up to MaxThreads goroutines.  Push returns after all file work is done.
func Push(ctx context.Context, input *SyncInput, report *SyncReport) error {
	// wait group
	var wg errgroup.Group
	if input.MaxThreads > 0 {
		wg.SetLimit(input.MaxThreads)
	}

	for entry, err := range Walk(ctx, input.SourceFileSystem, ".") {
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			input.fail(report, err)
			continue
		}
		if Excluded(input.Exclude, entry.Path) {
			if input.Debug {
				input.log("Skipping excluded source entry", map[string]interface{}{
					"path": input.SourceFileSystem.Path(entry.Path),
				})
			}
			entry.SkipDir()
			continue
		}
		switch entry.Kind {
		case KindDirectory:
			if !pushDirectory(ctx, input, report, entry.Path) {
				// children cannot be created without the directory
				entry.SkipDir()
			}
		case KindFile:
			name := entry.Path
			wg.Go(func() error {
				pushFile(ctx, input, report, name)
				return nil
			})
		default:
			if input.Debug {
				input.log("Skipping source entry that is neither a directory nor a file", map[string]interface{}{
					"path": input.SourceFileSystem.Path(entry.Path),
				})
			}
		}
	}

	// wait for all files to copy before returning
	_ = wg.Wait()

	return ctx.Err()
}

func pushDirectory(ctx context.Context, input *SyncInput, report *SyncReport, name string) bool {
	replica := input.ReplicaFileSystem

	replicaKind, err := replica.Kind(ctx, name)
	if err != nil {
		input.fail(report, &IOError{Op: "stating", Path: replica.Path(name), Err: err})
		return false
	}

	decision := DecidePush(KindDirectory, replicaKind, EqualityUnknown)

	if decision.RemoveConflict {
		if !removeConflict(ctx, input, report, name, KindDirectory, replicaKind) {
			return false
		}
	}

	if decision.Action == ActionCreateDirectory {
		if err := replica.MkdirAll(ctx, name, 0755); err != nil {
			input.fail(report, &IOError{Op: "creating directory", Path: replica.Path(name), Err: err})
			return false
		}
		input.emit(report, Event{Type: DirectoryCreated, Path: name})
	}

	return true
}

func pushFile(ctx context.Context, input *SyncInput, report *SyncReport, name string) {
	source := input.SourceFileSystem
	replica := input.ReplicaFileSystem

	replicaKind, err := replica.Kind(ctx, name)
	if err != nil {
		input.fail(report, &FileSyncError{
			Path: name,
			Err:  &IOError{Op: "stating", Path: replica.Path(name), Err: err},
		})
		return
	}

	decision := DecidePush(KindFile, replicaKind, EqualityUnknown)

	if decision.Action == ActionCompare {
		equal, err := ContentsEqual(ctx, source, name, replica, name)
		if err != nil {
			input.fail(report, &FileSyncError{Path: name, Err: err})
			return
		}
		decision = DecidePush(KindFile, replicaKind, NewEquality(equal))
	}

	if decision.RemoveConflict {
		if !removeConflict(ctx, input, report, name, KindFile, replicaKind) {
			return
		}
	}

	eventType := FileCopied
	switch decision.Action {
	case ActionCopyFile:
	case ActionUpdateFile:
		eventType = FileUpdated
	default:
		return
	}

	written, err := Copy(ctx, &CopyInput{
		SourceName:            name,
		SourceFileSystem:      source,
		DestinationName:       name,
		DestinationFileSystem: replica,
		MakeParents:           false,
	})
	if err != nil {
		input.fail(report, &FileSyncError{Path: name, Err: err})
		return
	}

	input.emit(report, Event{Type: eventType, Path: name, Bytes: written})
}

// removeConflict removes a replica entry whose kind does not match the source.
func removeConflict(ctx context.Context, input *SyncInput, report *SyncReport, name string, sourceKind Kind, replicaKind Kind) bool {
	replica := input.ReplicaFileSystem
	// the replica root is never removed
	if name == "." {
		input.fail(report, &FileSyncError{
			Path: name,
			Err:  &ConflictError{Path: name, Source: sourceKind, Replica: replicaKind},
		})
		return false
	}
	if err := replica.RemoveAll(ctx, name); err != nil {
		input.fail(report, &FileSyncError{
			Path: name,
			Err: fmt.Errorf(
				"error removing conflicting entry (%w): %w",
				&ConflictError{Path: name, Source: sourceKind, Replica: replicaKind},
				err),
		})
		return false
	}
	input.emit(report, Event{Type: ConflictRemoved, Path: name})
	return true
}
