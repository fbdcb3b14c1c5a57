// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"context"
	"iter"
)

// Entry is a directory or file found by Walk.
type Entry struct {
	// Path is relative to the root of the file system.
	Path string
	Kind Kind
	skip bool
}

// SkipDir tells Walk not to descend into the directory.
// It has no effect on other kinds of entries.
func (e *Entry) SkipDir() {
	e.skip = true
}

// Walk returns a pre-order traversal of the tree at root.
// The children of a directory are read after the directory is yielded, so the consumer can remove
// the directory or call SkipDir.  Errors reading a directory or an entry are yielded with a nil entry,
// and the walk continues with the remaining entries.  The walk stops if the context is cancelled.
// If nothing exists at root, the sequence is empty.  Every call walks the tree again.
func Walk(ctx context.Context, fileSystem FileSystem, root string) iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		kind, err := fileSystem.Kind(ctx, root)
		if err != nil {
			yield(nil, &IOError{Op: "stating", Path: fileSystem.Path(root), Err: err})
			return
		}
		if kind == KindNone {
			return
		}
		walk(ctx, fileSystem, &Entry{Path: root, Kind: kind}, yield)
	}
}

func walk(ctx context.Context, fileSystem FileSystem, entry *Entry, yield func(*Entry, error) bool) bool {
	if err := ctx.Err(); err != nil {
		yield(nil, err)
		return false
	}

	if !yield(entry, nil) {
		return false
	}

	if entry.Kind != KindDirectory || entry.skip {
		return true
	}

	directoryEntries, err := fileSystem.ReadDir(ctx, entry.Path)
	if err != nil {
		if fileSystem.IsNotExist(err) {
			// removed while walking
			return true
		}
		return yield(nil, &IOError{Op: "reading directory", Path: fileSystem.Path(entry.Path), Err: err})
	}

	for _, directoryEntry := range directoryEntries {
		name := fileSystem.Join(entry.Path, directoryEntry.Name())
		kind := KindOf(directoryEntry.Type())
		if kind == KindOther {
			// the file system decides whether symbolic links are followed
			k, err := fileSystem.Kind(ctx, name)
			if err != nil {
				if !yield(nil, &IOError{Op: "stating", Path: fileSystem.Path(name), Err: err}) {
					return false
				}
				continue
			}
			kind = k
		}
		if kind == KindNone {
			continue
		}
		if !walk(ctx, fileSystem, &Entry{Path: name, Kind: kind}, yield) {
			return false
		}
	}

	return true
}
