package paths

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	ErrEscapesRoot = errors.New("path escapes content root")
	ErrInvalidPath = errors.New("invalid path")
)

// ValidateDir checks a directory path relative to the content root.
// The empty string is the root itself.
func ValidateDir(p string) error {
	if p == "" {
		return nil
	}
	return validateRel(strings.TrimSuffix(p, "/"))
}

// ValidateFile checks a file path relative to the content root.
// Unlike directories, a file selector can never be empty.
func ValidateFile(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty file path", ErrInvalidPath)
	}
	if strings.HasSuffix(p, "/") {
		return fmt.Errorf(
			"%w: file path ends in separator: %s", ErrInvalidPath, p,
		)
	}
	return validateRel(p)
}

func validateRel(p string) error {
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("%w: null byte", ErrEscapesRoot)
	}
	if strings.ContainsRune(p, '\\') {
		return fmt.Errorf("%w: backslash in %q", ErrEscapesRoot, p)
	}
	if path.IsAbs(p) {
		return fmt.Errorf(
			"%w: absolute path %s", ErrEscapesRoot, p,
		)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %s", ErrEscapesRoot, p)
		}
	}
	cleaned := path.Clean(p)
	if cleaned == "." {
		return fmt.Errorf(
			"%w: %q resolves to current directory", ErrInvalidPath, p,
		)
	}
	return nil
}

// ValidateName checks a single manifest entry name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid name: %q", name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf(
			"name must be a single path segment: %q", name,
		)
	}
	return nil
}

func CleanRelPath(p string) string {
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "./")
	if p == "." {
		return ""
	}
	return p
}

// Join appends name to dir; an empty dir is the root.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}

// Parent returns the parent of a relative directory path, "" for
// top-level entries.
func Parent(p string) string {
	p = strings.TrimSuffix(p, "/")
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return ""
	}
	return p[:i]
}
