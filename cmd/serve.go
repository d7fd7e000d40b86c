package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/khanhnv2901/nis2-assess/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment as a REST API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
		serveCfg := cliConfig.Serve

		services, err := commandServices(cmd)
		if err != nil {
			return err
		}

		logger := zap.NewNop()
		if appCtx.Logger != nil {
			if !appCtx.Level.Enabled(zapcore.InfoLevel) {
				appCtx.Level.SetLevel(zapcore.InfoLevel)
			}
			logger = appCtx.Logger.Desugar()
		}

		server := api.NewServer(api.Config{
			Assessment:  services.Assessment,
			Exporter:    services.Exporter,
			AuthToken:   serveCfg.AuthToken,
			Logger:      logger,
			CORSOrigins: corsOrigins,
			RateLimit:   serveCfg.RateLimit,
			RateBurst:   serveCfg.RateBurst,
		})
		defer server.Close()

		httpServer := &http.Server{
			Addr:         serveCfg.Addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		out := cmd.OutOrStdout()
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(out, "%s API server listening on %s (data dir: %s)\n", colorInfo("→"), serveCfg.Addr, appCtx.DataDir)
			if serveCfg.AuthToken == "" {
				fmt.Fprintf(out, "%s No --auth-token set; the API accepts unauthenticated requests\n", colorWarn("!"))
			}
			fmt.Fprintf(out, "%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Fprintf(out, "\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Fprintf(out, "%s Server shutdown complete\n", colorInfo("✓"))
		}

		return nil
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&cliConfig.Serve.Addr, "addr", cliConfig.Serve.Addr, "Address for the API server")
	flags.StringVar(&cliConfig.Serve.AuthToken, "auth-token", "", "Optional shared secret for API requests")
	flags.Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	flags.StringSlice("cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
	flags.IntVar(&cliConfig.Serve.RateLimit, "rate-limit", cliConfig.Serve.RateLimit, "Rate limit per IP (requests/second, 0 = disabled)")
	flags.IntVar(&cliConfig.Serve.RateBurst, "rate-burst", cliConfig.Serve.RateBurst, "Rate limit burst size")
	rootCmd.AddCommand(serveCmd)
}
