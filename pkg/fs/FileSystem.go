// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"context"
	"os"
	"time"
)

// FileSystem is a directory tree addressed by slash-separated names relative to its root.
// The root itself is named ".".
type FileSystem interface {
	Chmod(ctx context.Context, name string, mode os.FileMode) error
	Chtimes(ctx context.Context, name string, atime time.Time, mtime time.Time) error
	CreateTemp(ctx context.Context, dir string, pattern string) (File, error)
	IsNotExist(err error) bool
	Join(name ...string) string
	// Kind returns KindNone with a nil error if nothing exists at name.
	Kind(ctx context.Context, name string) (Kind, error)
	MkdirAll(ctx context.Context, name string, mode os.FileMode) error
	Open(ctx context.Context, name string) (File, error)
	// Path returns the location of name for display, e.g., in log messages.
	Path(name string) string
	ReadDir(ctx context.Context, name string) ([]DirectoryEntry, error)
	Remove(ctx context.Context, name string) error
	RemoveAll(ctx context.Context, name string) error
	Rename(ctx context.Context, oldname string, newname string) error
	Root() string
	Stat(ctx context.Context, name string) (FileInfo, error)
}
