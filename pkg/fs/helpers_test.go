// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs_test

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/navwar/gomirror/pkg/fs"
	"github.com/navwar/gomirror/pkg/lfs"
)

const (
	sourceRoot  = "/source"
	replicaRoot = "/replica"
)

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) Log(msg string, fields ...map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
	return nil
}

func (l *recordingLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.messages...)
}

type trees struct {
	base    afero.Fs
	source  *lfs.LocalFileSystem
	replica *lfs.LocalFileSystem
	logger  *recordingLogger
}

func newTrees(t *testing.T) *trees {
	t.Helper()
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll(sourceRoot, 0755))
	require.NoError(t, base.MkdirAll(replicaRoot, 0755))
	return &trees{
		base:    base,
		source:  lfs.NewLocalFileSystemFromFs(base, sourceRoot, true),
		replica: lfs.NewLocalFileSystemFromFs(base, replicaRoot, false),
		logger:  &recordingLogger{},
	}
}

func (tr *trees) input() *fs.SyncInput {
	return &fs.SyncInput{
		SourceFileSystem:  tr.source,
		ReplicaFileSystem: tr.replica,
		Logger:            tr.logger,
	}
}

func (tr *trees) sync(t *testing.T) *fs.SyncReport {
	t.Helper()
	report, err := fs.Sync(context.Background(), tr.input())
	require.NoError(t, err)
	return report
}

// writeFiles writes files under root, creating parent directories.
// A name ending in "/" creates a directory.
func writeFiles(t *testing.T, base afero.Fs, root string, files map[string]string) {
	t.Helper()
	for name, contents := range files {
		if strings.HasSuffix(name, "/") {
			require.NoError(t, base.MkdirAll(path.Join(root, name), 0755))
			continue
		}
		require.NoError(t, base.MkdirAll(path.Dir(path.Join(root, name)), 0755))
		require.NoError(t, afero.WriteFile(base, path.Join(root, name), []byte(contents), 0644))
	}
}

// snapshot returns the tree at root, with directories suffixed by "/" and files mapped to their contents.
func snapshot(t *testing.T, base afero.Fs, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := afero.Walk(base, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		name := strings.TrimPrefix(p, root+"/")
		if info.IsDir() {
			files[name+"/"] = ""
			return nil
		}
		contents, err := afero.ReadFile(base, p)
		if err != nil {
			return err
		}
		files[name] = string(contents)
		return nil
	})
	require.NoError(t, err)
	return files
}

var errInjected = errors.New("injected failure")

// failingFileSystem returns errInjected for the named entries of each operation.
// Entries in kinds are reported with the given kind.
type failingFileSystem struct {
	fs.FileSystem
	open    map[string]bool
	kind    map[string]bool
	kinds   map[string]fs.Kind
	readDir map[string]bool
	remove  map[string]bool
}

func (f *failingFileSystem) Kind(ctx context.Context, name string) (fs.Kind, error) {
	if f.kind[name] {
		return fs.KindNone, errInjected
	}
	if kind, ok := f.kinds[name]; ok {
		return kind, nil
	}
	return f.FileSystem.Kind(ctx, name)
}

func (f *failingFileSystem) Open(ctx context.Context, name string) (fs.File, error) {
	if f.open[name] {
		return nil, errInjected
	}
	return f.FileSystem.Open(ctx, name)
}

func (f *failingFileSystem) ReadDir(ctx context.Context, name string) ([]fs.DirectoryEntry, error) {
	if f.readDir[name] {
		return nil, errInjected
	}
	return f.FileSystem.ReadDir(ctx, name)
}

func (f *failingFileSystem) Remove(ctx context.Context, name string) error {
	if f.remove[name] {
		return errInjected
	}
	return f.FileSystem.Remove(ctx, name)
}

func (f *failingFileSystem) RemoveAll(ctx context.Context, name string) error {
	if f.remove[name] {
		return errInjected
	}
	return f.FileSystem.RemoveAll(ctx, name)
}
