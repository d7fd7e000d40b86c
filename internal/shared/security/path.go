package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathEscape indicates the resolved path would escape the trusted root directory.
	ErrPathEscape = errors.New("path escapes base directory")
	// ErrUnsafeFilename indicates a generated file name contains separators or reserved names.
	ErrUnsafeFilename = errors.New("unsafe file name")
)

// ResolveWithin joins the provided path elements under the given base directory and ensures
// the resulting path never traverses outside of that base. The returned path is absolute.
func ResolveWithin(base string, elems ...string) (string, error) {
	if base == "" {
		return "", errors.New("base directory is required")
	}

	cleanBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base path: %w", err)
	}

	target, err := filepath.Abs(filepath.Join(append([]string{cleanBase}, elems...)...))
	if err != nil {
		return "", fmt.Errorf("resolve target path: %w", err)
	}

	rel, err := filepath.Rel(cleanBase, target)
	if err != nil {
		return "", fmt.Errorf("relativize path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, target)
	}

	return target, nil
}

// ValidateFilename rejects names that could be used to write outside the output directory.
func ValidateFilename(name string) error {
	switch name {
	case "", ".", "..":
		return fmt.Errorf("%w: %q", ErrUnsafeFilename, name)
	}
	if strings.ContainsAny(name, "/\\") || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrUnsafeFilename, name)
	}
	return nil
}

// IsValidPath reports whether path is non-empty, free of traversal segments and not the filesystem root.
func IsValidPath(path string) bool {
	if path == "" || strings.Contains(path, "..") {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	cleanPath := filepath.Clean(absPath)
	return cleanPath != "" && cleanPath != string(os.PathSeparator)
}
