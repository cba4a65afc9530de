// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
)

// AtomicWriteFile writes data to a file atomically using a temp file + rename
// pattern. The parent directory is created if it does not exist. When the
// target file already exists its permission bits are carried over to the new
// file; otherwise perm is used.
//
// Rename is the only step that makes new content visible, so a crash before
// the rename leaves the original file intact. On Windows rename-over-existing
// fails, so the original is removed first, accepting a brief window of
// absence.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}

	// Temp file must live in the same directory so the rename stays on one
	// filesystem.
	tmpName := filepath.Join(dir, fmt.Sprintf("%s.tmp.%d", filepath.Base(path), time.Now().UnixNano()))
	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	defer func() {
		// Only removes if the rename never happened.
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "flushing temp file")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	// Preserve the permission bits of an existing target.
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	}

	if runtime.GOOS == "windows" {
		if _, err := os.Stat(path); err == nil {
			_ = os.Remove(path)
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "renaming %s to %s", tmpName, path)
	}

	return nil
}

// AtomicWriteJSONWithPerm writes v as indented JSON to path atomically with
// the given permissions. Uses 2-space indentation and appends a trailing
// newline for POSIX compliance.
func AtomicWriteJSONWithPerm(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}

	data = append(data, '\n')

	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// The file is created with 0644 permissions unless it already exists.
func AtomicWriteJSON(path string, v any) error {
	return AtomicWriteJSONWithPerm(path, v, 0o644)
}

// AtomicWriteText writes a text document to path atomically.
// Used for TOML and other plain-text live files.
func AtomicWriteText(path string, text string) error {
	return AtomicWriteFile(path, []byte(text), 0o644)
}
