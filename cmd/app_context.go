package cmd

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanhnv2901/nis2-assess/internal/application"
	assessmentapp "github.com/khanhnv2901/nis2-assess/internal/application/assessment"
)

// AppContext carries the state resolved once per invocation.
type AppContext struct {
	Logger  *zap.SugaredLogger
	Level   zap.AtomicLevel
	DataDir string
	Config  *CLIConfig

	mu       sync.Mutex
	services *application.Container
}

type appContextKey struct{}

var globalAppContext *AppContext

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
	cmd.SetContext(context.WithValue(commandContext(cmd), appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if cmd != nil {
		if ctx := cmd.Context(); ctx != nil {
			if appCtx, ok := ctx.Value(appContextKey{}).(*AppContext); ok {
				return appCtx
			}
		}
	}
	return globalAppContext
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// Services builds the service container on first use.
func (a *AppContext) Services(ctx context.Context) (*application.Container, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.services != nil {
		return a.services, nil
	}

	cfg := a.Config
	if cfg == nil {
		cfg = newCLIConfig()
	}
	var logger *zap.Logger
	if a.Logger != nil {
		logger = a.Logger.Desugar()
	}

	services, err := application.NewContainer(ctx, cfg.containerConfig(a.DataDir), logger)
	if err != nil {
		return nil, err
	}
	a.services = services
	return services, nil
}

// Close releases the container if one was built.
func (a *AppContext) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.services == nil {
		return nil
	}
	err := a.services.Close()
	a.services = nil
	return err
}

func assessmentService(cmd *cobra.Command) (*assessmentapp.Service, error) {
	services, err := commandServices(cmd)
	if err != nil {
		return nil, err
	}
	return services.Assessment, nil
}

func commandServices(cmd *cobra.Command) (*application.Container, error) {
	appCtx := getAppContext(cmd)
	if appCtx == nil {
		return nil, errors.New("application context not initialized")
	}
	return appCtx.Services(commandContext(cmd))
}

func closeAppContext() {
	if globalAppContext == nil {
		return
	}
	_ = globalAppContext.Close()
	if globalAppContext.Logger != nil {
		_ = globalAppContext.Logger.Sync()
	}
}
