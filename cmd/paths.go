package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	consts "github.com/khanhnv2901/nis2-assess/internal/shared/constants"
)

const (
	appDirName    = "nis2-assess"
	dataDirEnvVar = "NIS2_DATA_DIR"
)

// getDataDir returns the appropriate data directory for the current OS
// following XDG Base Directory specification on Linux/Unix.
// NIS2_DATA_DIR overrides the platform default.
func getDataDir() (string, error) {
	var baseDir string

	switch {
	case os.Getenv(dataDirEnvVar) != "":
		baseDir = os.Getenv(dataDirEnvVar)

	case runtime.GOOS == "windows":
		// Windows: %LOCALAPPDATA%\nis2-assess
		baseDir = os.Getenv("LOCALAPPDATA")
		if baseDir == "" {
			baseDir = os.Getenv("APPDATA")
		}
		if baseDir == "" {
			return "", fmt.Errorf("could not determine Windows data directory")
		}
		baseDir = filepath.Join(baseDir, appDirName)

	case runtime.GOOS == "darwin":
		// macOS: ~/Library/Application Support/nis2-assess
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support", appDirName)

	default:
		// Priority: $XDG_DATA_HOME/nis2-assess > ~/.local/share/nis2-assess
		xdgDataHome := os.Getenv("XDG_DATA_HOME")
		if xdgDataHome != "" {
			baseDir = filepath.Join(xdgDataHome, appDirName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("could not determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".local", "share", appDirName)
		}
	}

	if err := os.MkdirAll(baseDir, consts.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return baseDir, nil
}

// getReportsDir returns the default export directory under dataDir.
func getReportsDir(dataDir string) (string, error) {
	if dataDir == "" {
		var err error
		if dataDir, err = getDataDir(); err != nil {
			return "", err
		}
	}

	reportsDir := filepath.Join(dataDir, "reports")
	if err := os.MkdirAll(reportsDir, consts.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	return reportsDir, nil
}
