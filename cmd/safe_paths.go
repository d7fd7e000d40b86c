package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	consts "github.com/khanhnv2901/nis2-assess/internal/shared/constants"
	"github.com/khanhnv2901/nis2-assess/internal/shared/security"
)

const maxQuestionIDLength = 32

// validateQuestionID rejects identifiers that cannot come from a catalog.
func validateQuestionID(id string) error {
	if id == "" {
		return errors.New("question ID is required")
	}
	if len(id) > maxQuestionIDLength {
		return fmt.Errorf("question ID %q exceeds %d characters", id, maxQuestionIDLength)
	}
	if strings.IndexFunc(id, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return fmt.Errorf("question ID %q must not contain whitespace", id)
	}
	return nil
}

// resolveDir makes dir absolute and creates it.
func resolveDir(kind, dir string) (string, error) {
	if !security.IsValidPath(dir) {
		return "", fmt.Errorf("%s directory %q is not allowed", kind, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s directory: %w", kind, err)
	}
	if err := os.MkdirAll(abs, consts.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("create %s directory: %w", kind, err)
	}
	return abs, nil
}

func validateChromePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsAny(path, "\r\n") {
		return fmt.Errorf("chrome path %q contains invalid newline characters", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("chrome path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("chrome path %q is a directory", path)
	}
	return nil
}
