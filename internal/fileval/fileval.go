// Package fileval checks source files before they are parsed, so oversized
// or binary files fail fast instead of reaching the tree-sitter parser.
package fileval

import (
	"fmt"
	"os"
)

// defaultReadLimit bounds the UTF-8 smoke check when no size limit is set.
const defaultReadLimit = 1 << 20

// FileTooLargeError is returned when a file exceeds the configured maximum size.
type FileTooLargeError struct {
	Path    string
	Size    int64
	MaxSize int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"file too large (%d > %d bytes); increase [processing] max-file-size in .hush.toml to override",
		e.Size, e.MaxSize,
	)
}

// NotUTF8Error is returned when a file does not appear to be valid UTF-8 text.
type NotUTF8Error struct {
	Path string
}

func (e *NotUTF8Error) Error() string {
	return "file does not appear to be valid UTF-8 text"
}

// NotRegularError is returned for directories and other non-regular files.
type NotRegularError struct {
	Path string
}

func (e *NotRegularError) Error() string {
	return "not a regular file"
}

// ValidateFile runs the pre-parse checks on path: it must be a regular
// file, no larger than maxSize when maxSize > 0, and look like UTF-8.
func ValidateFile(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return &NotRegularError{Path: path}
	}
	if maxSize > 0 && info.Size() > maxSize {
		return &FileTooLargeError{Path: path, Size: info.Size(), MaxSize: maxSize}
	}

	readLimit := maxSize
	if readLimit <= 0 {
		readLimit = defaultReadLimit
	}
	ok, err := LooksUTF8(path, readLimit)
	if err != nil {
		return err
	}
	if !ok {
		return &NotUTF8Error{Path: path}
	}
	return nil
}
