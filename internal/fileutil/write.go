package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/giantswarm/dbenv/internal/sentinel"
)

// ErrEmptyPath is returned when a destination path is empty.
const ErrEmptyPath = sentinel.Error("destination path must not be empty")

// WriteFileAtomic writes data to path via a scratch file in the same
// directory followed by a rename. On POSIX systems rename is atomic, so a
// reader either sees the previous content or the full new content, never a
// partial write. The scratch file is removed on every failure path.
//
// The destination is created with the given mode via os.OpenFile on the
// scratch file, avoiding a window where the file exists with broader
// permissions than intended.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) (retErr error) {
	if path == "" {
		return ErrEmptyPath
	}
	if err := EnsureDirForFile(path); err != nil {
		return fmt.Errorf("prepare destination: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-write-*")
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod scratch file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write scratch file: %w", err)
	}

	// Sync before rename so a crash cannot leave the renamed file with
	// incomplete contents.
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close scratch file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename scratch file to destination: %w", err)
	}
	return nil
}
