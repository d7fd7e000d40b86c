package cmd

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zaptest"
)

func TestStoreAndGetAppContext(t *testing.T) {
	original := globalAppContext
	defer func() {
		globalAppContext = original
	}()

	cmd := &cobra.Command{Use: "root"}
	appCtx := &AppContext{DataDir: t.TempDir()}

	storeAppContext(cmd, appCtx)

	got := getAppContext(cmd)
	if got != appCtx {
		t.Fatalf("expected stored app context to be returned")
	}

	other := &cobra.Command{Use: "other"}
	if getAppContext(other) != appCtx {
		t.Fatalf("expected fallback to the global app context")
	}
}

func TestAppContextServicesAreBuiltOnce(t *testing.T) {
	appCtx := &AppContext{
		Logger:  zaptest.NewLogger(t).Sugar(),
		DataDir: t.TempDir(),
		Config:  newCLIConfig(),
	}
	t.Cleanup(func() { _ = appCtx.Close() })

	first, err := appCtx.Services(context.Background())
	if err != nil {
		t.Fatalf("Services failed: %v", err)
	}
	second, err := appCtx.Services(context.Background())
	if err != nil {
		t.Fatalf("Services failed: %v", err)
	}
	if first != second {
		t.Fatal("expected the container to be reused")
	}
	if first.Assessment.Catalog().QuestionCount() != 39 {
		t.Fatalf("expected the embedded catalog, got %d questions", first.Assessment.Catalog().QuestionCount())
	}

	if err := appCtx.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := appCtx.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestAppContextServicesError(t *testing.T) {
	cfg := newCLIConfig()
	cfg.Store.Backend = "unknown"
	appCtx := &AppContext{DataDir: t.TempDir(), Config: cfg}

	if _, err := appCtx.Services(context.Background()); err == nil {
		t.Fatal("expected unknown backend to fail")
	}
}

func TestCommandServicesWithoutContext(t *testing.T) {
	original := globalAppContext
	globalAppContext = nil
	defer func() { globalAppContext = original }()

	if _, err := commandServices(&cobra.Command{Use: "x"}); err == nil {
		t.Fatal("expected error without an app context")
	}
}
