package testutil

import (
	"os"
	"path/filepath"
	"testing"

	consts "github.com/khanhnv2901/nis2-assess/internal/shared/constants"
	"github.com/khanhnv2901/nis2-assess/internal/shared/security"
)

// DataDirEnvVar overrides the CLI data directory.
const DataDirEnvVar = "NIS2_DATA_DIR"

// TestEnv holds test environment configuration and cleanup functions.
type TestEnv struct {
	TmpDir       string
	DataDir      string
	OutputDir    string
	cleanupFuncs []func()
	t            *testing.T
}

// NewTestEnv creates an isolated data directory, points NIS2_DATA_DIR at it
// and moves HOME so no user config file is picked up.
// Usage:
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	env := &TestEnv{
		TmpDir:       tmpDir,
		DataDir:      filepath.Join(tmpDir, "data"),
		OutputDir:    filepath.Join(tmpDir, "reports"),
		t:            t,
		cleanupFuncs: []func(){},
	}

	for _, dir := range []string{env.DataDir, env.OutputDir, filepath.Join(tmpDir, "home")} {
		if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
			t.Fatalf("Failed to create test directory %s: %v", dir, err)
		}
	}

	t.Setenv(DataDirEnvVar, env.DataDir)
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	return env
}

// AddCleanup adds a cleanup function to be called when Cleanup() is called.
// Cleanup functions are called in reverse order (LIFO).
func (e *TestEnv) AddCleanup(fn func()) {
	e.cleanupFuncs = append([]func(){fn}, e.cleanupFuncs...)
}

// Cleanup runs all registered cleanup functions.
// Typically called with defer: defer env.Cleanup()
func (e *TestEnv) Cleanup() {
	for _, fn := range e.cleanupFuncs {
		fn()
	}
}

// DataPath returns name inside the data directory.
func (e *TestEnv) DataPath(name string) string {
	return resolveTmpPath(e.DataDir, name, e.t)
}

// OutputPath returns name inside the report output directory.
func (e *TestEnv) OutputPath(name string) string {
	return resolveTmpPath(e.OutputDir, name, e.t)
}

// CreateFile creates a file in the test environment with the given content.
// The file path is relative to the test's temporary directory.
func (e *TestEnv) CreateFile(relativePath string, content []byte) string {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, consts.DefaultFilePerm); err != nil {
		e.t.Fatalf("Failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// ReadFile reads a file from the test environment.
// The file path is relative to the test's temporary directory.
func (e *TestEnv) ReadFile(relativePath string) []byte {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}

	return content
}

// FileExists checks if a file exists in the test environment.
func (e *TestEnv) FileExists(relativePath string) bool {
	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	_, err := os.Stat(fullPath)
	return err == nil
}

// MustNotExist fails the test if the file exists.
func (e *TestEnv) MustNotExist(relativePath string) {
	e.t.Helper()
	if e.FileExists(relativePath) {
		e.t.Fatalf("File %s should not exist but does", relativePath)
	}
}

// MustExist fails the test if the file does not exist.
func (e *TestEnv) MustExist(relativePath string) {
	e.t.Helper()
	if !e.FileExists(relativePath) {
		e.t.Fatalf("File %s should exist but does not", relativePath)
	}
}

func resolveTmpPath(baseDir, relativePath string, t *testing.T) string {
	t.Helper()
	path, err := security.ResolveWithin(baseDir, relativePath)
	if err != nil {
		t.Fatalf("invalid test path %s: %v", relativePath, err)
	}
	return path
}
