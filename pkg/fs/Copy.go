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
	"io"
	"path"
	"time"
)

// TempPattern is the name pattern of the temporary files written by Copy.
const TempPattern = ".gomirror-*.tmp"

// Copy copies the source file to the destination and returns the number of bytes written.
// The contents are written to a temporary file in the destination directory, which is renamed
// over the destination once complete, so the destination is never partially written.
// The permission bits and modification time of the source are preserved.
func Copy(ctx context.Context, input *CopyInput) (int64, error) {
	sourceFileSystem := input.SourceFileSystem
	destinationFileSystem := input.DestinationFileSystem

	sourceFileInfo, err := sourceFileSystem.Stat(ctx, input.SourceName)
	if err != nil {
		return 0, &IOError{Op: "stating source file", Path: sourceFileSystem.Path(input.SourceName), Err: err}
	}

	// check parent directory and create it if allowed
	parent := path.Dir(input.DestinationName)
	parentKind, err := destinationFileSystem.Kind(ctx, parent)
	if err != nil {
		return 0, &IOError{Op: "stating destination parent", Path: destinationFileSystem.Path(parent), Err: err}
	}
	switch parentKind {
	case KindDirectory:
	case KindNone:
		if !input.MakeParents {
			return 0, fmt.Errorf(
				"parent directory for destination %q does not exist and parents parameter is false",
				destinationFileSystem.Path(input.DestinationName),
			)
		}
		if err := destinationFileSystem.MkdirAll(ctx, parent, 0755); err != nil {
			return 0, &IOError{Op: "creating parent directories for", Path: destinationFileSystem.Path(input.DestinationName), Err: err}
		}
	default:
		return 0, fmt.Errorf("parent of destination %q is not a directory", destinationFileSystem.Path(input.DestinationName))
	}

	// open source file
	sourceFile, err := sourceFileSystem.Open(ctx, input.SourceName)
	if err != nil {
		return 0, &IOError{Op: "opening source file", Path: sourceFileSystem.Path(input.SourceName), Err: err}
	}

	// create temporary file next to the destination
	tempFile, err := destinationFileSystem.CreateTemp(ctx, parent, TempPattern)
	if err != nil {
		_ = sourceFile.Close() // silently close source file
		return 0, &IOError{Op: "creating temporary file in", Path: destinationFileSystem.Path(parent), Err: err}
	}
	tempName := tempFile.Name()

	// copy bytes from source to temporary file
	written, err := io.Copy(tempFile, sourceFile)
	if err != nil {
		_ = sourceFile.Close()                          // silently close source file
		_ = tempFile.Close()                            // silently close temporary file
		_ = destinationFileSystem.Remove(ctx, tempName) // silently remove temporary file
		return 0, fmt.Errorf(
			"error copying from %q to %q: %w",
			sourceFileSystem.Path(input.SourceName),
			destinationFileSystem.Path(input.DestinationName),
			err)
	}

	err = sourceFile.Close()
	if err != nil {
		_ = tempFile.Close()                            // silently close temporary file
		_ = destinationFileSystem.Remove(ctx, tempName) // silently remove temporary file
		return 0, fmt.Errorf("error closing source file after copying: %w", err)
	}

	err = tempFile.Sync()
	if err != nil {
		_ = tempFile.Close()                            // silently close temporary file
		_ = destinationFileSystem.Remove(ctx, tempName) // silently remove temporary file
		return 0, fmt.Errorf("error flushing temporary file %q: %w", destinationFileSystem.Path(tempName), err)
	}

	err = tempFile.Close()
	if err != nil {
		_ = destinationFileSystem.Remove(ctx, tempName) // silently remove temporary file
		return 0, fmt.Errorf("error closing temporary file after copying: %w", err)
	}

	// Preserve permissions
	err = destinationFileSystem.Chmod(ctx, tempName, sourceFileInfo.Mode().Perm())
	if err != nil {
		_ = destinationFileSystem.Remove(ctx, tempName) // silently remove temporary file
		return 0, fmt.Errorf("error changing permissions for destination after copying: %w", err)
	}

	// Preserve Modification time
	err = destinationFileSystem.Chtimes(ctx, tempName, time.Now(), sourceFileInfo.ModTime())
	if err != nil {
		_ = destinationFileSystem.Remove(ctx, tempName) // silently remove temporary file
		return 0, fmt.Errorf("error changing timestamps for destination after copying: %w", err)
	}

	err = destinationFileSystem.Rename(ctx, tempName, input.DestinationName)
	if err != nil {
		_ = destinationFileSystem.Remove(ctx, tempName) // silently remove temporary file
		return 0, &IOError{Op: "renaming temporary file to", Path: destinationFileSystem.Path(input.DestinationName), Err: err}
	}

	return written, nil
}
