// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package lfs

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/navwar/gomirror/pkg/fs"
)

// LocalFileSystem is a directory tree on an afero file system.
// Names are slash-separated and relative to the root directory.
type LocalFileSystem struct {
	root           string
	fs             afero.Fs
	iofs           afero.IOFS
	followSymlinks bool
}

func (lfs *LocalFileSystem) Chmod(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.Chmod(filepath.FromSlash(name), mode)
}

func (lfs *LocalFileSystem) Chtimes(ctx context.Context, name string, atime time.Time, mtime time.Time) error {
	return lfs.fs.Chtimes(filepath.FromSlash(name), atime, mtime)
}

func (lfs *LocalFileSystem) CreateTemp(ctx context.Context, dir string, pattern string) (fs.File, error) {
	f, err := afero.TempFile(lfs.fs, filepath.FromSlash(dir), pattern)
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f, lfs.Join(dir, filepath.Base(f.Name()))), nil
}

// IsNotExist returns true if the error reports that a file does not exist,
// including when a parent in the path is not a directory.
func (lfs *LocalFileSystem) IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func (lfs *LocalFileSystem) Join(name ...string) string {
	return path.Join(name...)
}

// Kind returns the kind of entry at name without following symbolic links,
// unless the file system was created to follow them.  A followed link is KindFile only if it
// resolves to a regular file.  The root "." is always followed, so a root that is a link to a
// directory is KindDirectory.
func (lfs *LocalFileSystem) Kind(ctx context.Context, name string) (fs.Kind, error) {
	if name == "." {
		fi, err := lfs.fs.Stat(".")
		if err != nil {
			if lfs.IsNotExist(err) {
				return fs.KindNone, nil
			}
			return fs.KindNone, err
		}
		return fs.KindOf(fi.Mode()), nil
	}
	fi, err := lfs.lstat(name)
	if err != nil {
		if lfs.IsNotExist(err) {
			return fs.KindNone, nil
		}
		return fs.KindNone, err
	}
	if fi.Mode()&os.ModeSymlink != 0 && lfs.followSymlinks {
		target, err := lfs.fs.Stat(filepath.FromSlash(name))
		if err != nil {
			if lfs.IsNotExist(err) {
				// dangling link
				return fs.KindOther, nil
			}
			return fs.KindNone, err
		}
		if target.Mode().IsRegular() {
			return fs.KindFile, nil
		}
		return fs.KindOther, nil
	}
	return fs.KindOf(fi.Mode()), nil
}

func (lfs *LocalFileSystem) MkdirAll(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.MkdirAll(filepath.FromSlash(name), mode)
}

func (lfs *LocalFileSystem) Open(ctx context.Context, name string) (fs.File, error) {
	f, err := lfs.fs.Open(filepath.FromSlash(name))
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f, name), nil
}

func (lfs *LocalFileSystem) Path(name string) string {
	return filepath.Join(lfs.root, filepath.FromSlash(name))
}

func (lfs *LocalFileSystem) ReadDir(ctx context.Context, name string) ([]fs.DirectoryEntry, error) {
	directoryEntries := []fs.DirectoryEntry{}
	readDirOutput, err := lfs.iofs.ReadDir(name)
	if err != nil {
		return nil, err
	}
	for _, directoryEntry := range readDirOutput {
		directoryEntries = append(directoryEntries, &LocalDirectoryEntry{
			de: directoryEntry,
		})
	}
	return directoryEntries, nil
}

func (lfs *LocalFileSystem) Remove(ctx context.Context, name string) error {
	return lfs.fs.Remove(filepath.FromSlash(name))
}

func (lfs *LocalFileSystem) RemoveAll(ctx context.Context, name string) error {
	return lfs.fs.RemoveAll(filepath.FromSlash(name))
}

func (lfs *LocalFileSystem) Rename(ctx context.Context, oldname string, newname string) error {
	return lfs.fs.Rename(filepath.FromSlash(oldname), filepath.FromSlash(newname))
}

func (lfs *LocalFileSystem) Root() string {
	return lfs.root
}

func (lfs *LocalFileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	fi, err := lfs.fs.Stat(filepath.FromSlash(name))
	if err != nil {
		return nil, err
	}
	return NewLocalFileInfo(fi), nil
}

func (lfs *LocalFileSystem) lstat(name string) (os.FileInfo, error) {
	if lstater, ok := lfs.fs.(afero.Lstater); ok {
		fi, _, err := lstater.LstatIfPossible(filepath.FromSlash(name))
		return fi, err
	}
	return lfs.fs.Stat(filepath.FromSlash(name))
}

// NewLocalFileSystem returns a writable file system rooted at rootPath on the operating system.
// Symbolic links are never followed.
func NewLocalFileSystem(rootPath string) *LocalFileSystem {
	return NewLocalFileSystemFromFs(afero.NewOsFs(), rootPath, false)
}

// NewReadOnlyLocalFileSystem returns a read-only file system rooted at rootPath on the operating system.
// Symbolic links to regular files are followed.
func NewReadOnlyLocalFileSystem(rootPath string) *LocalFileSystem {
	return NewLocalFileSystemFromFs(afero.NewReadOnlyFs(afero.NewOsFs()), rootPath, true)
}

// NewLocalFileSystemFromFs returns a file system rooted at rootPath on base, e.g., an afero.MemMapFs in tests.
func NewLocalFileSystemFromFs(base afero.Fs, rootPath string, followSymlinks bool) *LocalFileSystem {
	lfs := afero.NewBasePathFs(base, rootPath)
	return &LocalFileSystem{
		root:           rootPath,
		fs:             lfs,
		iofs:           afero.NewIOFS(lfs),
		followSymlinks: followSymlinks,
	}
}
