// Copyright 2023 Canonical Ltd.

package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/errgo.v1"
)

// ErrFileRead is the cause of every error returned by ReadFile.
var ErrFileRead = errgo.New("file read failed")

// ErrFileWrite is the cause of every error returned by WriteFile.
var ErrFileWrite = errgo.New("file write failed")

const defaultFileMode os.FileMode = 0o644

// ReadFile reads the whole file at path as text. Any failure, including a
// missing file, has ErrFileRead as its cause.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errgo.WithCausef(err, ErrFileRead, "%s does not exist", path)
		}
		return "", errgo.WithCausef(err, ErrFileRead, "cannot read %s", path)
	}

	return string(data), nil
}

// WriteFile writes data to path, replacing its previous contents. Any
// failure has ErrFileWrite as its cause.
//
// When atomic is false the file is truncated and written in place, so an
// interrupted write can leave it truncated. When atomic is true the data is
// written to a temporary file next to path and renamed over it.
func WriteFile(path string, data string, atomic bool) error {
	if !atomic {
		if err := os.WriteFile(path, []byte(data), defaultFileMode); err != nil {
			return errgo.WithCausef(err, ErrFileWrite, "cannot write %s", path)
		}
		return nil
	}

	if err := writeAtomic(path, []byte(data)); err != nil {
		return errgo.WithCausef(err, ErrFileWrite, "cannot write %s", path)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	// Removes the temp file on any failure below; a no-op after the rename.
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
