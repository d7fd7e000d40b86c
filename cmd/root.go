package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cfgFile string
var verbose bool

var rootCmd = &cobra.Command{
	Use:           "nis2",
	Short:         "NIS2 cybersecurity self-assessment, scoring and compliance reporting",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		applyConfigDefaults(cmd)

		level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
		l, err := newLogger(level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger := l.Sugar()

		dataDir := cliConfig.DataDir
		if dataDir == "" {
			if dataDir, err = getDataDir(); err != nil {
				return err
			}
		}
		if dataDir, err = resolveDir("data", dataDir); err != nil {
			return err
		}

		storeAppContext(cmd, &AppContext{
			Logger:  logger,
			Level:   level,
			DataDir: dataDir,
			Config:  cliConfig,
		})

		logger.Debugf("data_dir=%s backend=%s store_key=%s", dataDir, cliConfig.Store.Backend, cliConfig.Store.Key)
		return nil
	},
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".nis2-assess")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("NIS2")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func newLogger(level zap.AtomicLevel) (*zap.Logger, error) {
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = level
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	return cfg.Build()
}

func Execute() {
	if err := executeArgs(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorError("Error:"), err)
		os.Exit(1)
	}
}

func executeArgs(args []string) error {
	rootCmd.SetArgs(args)
	defer closeAppContext()
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.nis2-assess.yaml)")
	flags.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flags.StringVar(&cliConfig.DataDir, "data-dir", "", "directory holding the answer store (or set NIS2_DATA_DIR)")
	flags.StringVar(&cliConfig.Store.Backend, "backend", cliConfig.Store.Backend, "answer storage backend (json|sqlite)")
	flags.StringVar(&cliConfig.Store.Key, "store-key", cliConfig.Store.Key, "key the answers are stored under")
	flags.StringVar(&cliConfig.Catalog.Questions, "questions", "", "questions catalog YAML (default: embedded)")
	flags.StringVar(&cliConfig.Catalog.Requirements, "requirements", "", "requirements catalog YAML (default: embedded)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(complianceCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}
