package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/nis2-assess/internal/application"
	consts "github.com/khanhnv2901/nis2-assess/internal/shared/constants"
)

const (
	defaultServeAddr = "127.0.0.1:8080"
	defaultRateLimit = 10
	defaultRateBurst = 20
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	DataDir string
	Store   StoreConfig
	Catalog CatalogConfig
	Report  ReportConfig
	Serve   ServeConfig
}

// StoreConfig selects where answers are persisted.
type StoreConfig struct {
	Backend string
	Key     string
}

// CatalogConfig points at question and requirement files. Empty paths use
// the embedded catalogs.
type CatalogConfig struct {
	Questions    string
	Requirements string
}

// ReportConfig holds defaults for report generation.
type ReportConfig struct {
	OutputDir    string
	Organization string
	PreparedBy   string
	ApprovedBy   string
	ChromePath   string
}

// ServeConfig holds REST API settings.
type ServeConfig struct {
	Addr      string
	AuthToken string
	RateLimit int
	RateBurst int
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Store: StoreConfig{
			Backend: application.BackendJSON,
			Key:     consts.DefaultStoreKey,
		},
		Serve: ServeConfig{
			Addr:      defaultServeAddr,
			RateLimit: defaultRateLimit,
			RateBurst: defaultRateBurst,
		},
	}
}

// containerConfig maps the CLI settings onto the service container.
func (c *CLIConfig) containerConfig(dataDir string) application.Config {
	return application.Config{
		DataDir:          dataDir,
		Backend:          c.Store.Backend,
		StoreKey:         c.Store.Key,
		QuestionsPath:    c.Catalog.Questions,
		RequirementsPath: c.Catalog.Requirements,
		ChromePath:       c.Report.ChromePath,
	}
}

// configFlags pairs config keys with the string flags they default.
var configFlags = []struct {
	key  string
	flag string
}{
	{key: "data_dir", flag: "data-dir"},
	{key: "store.backend", flag: "backend"},
	{key: "store.key", flag: "store-key"},
	{key: "catalog.questions", flag: "questions"},
	{key: "catalog.requirements", flag: "requirements"},
	{key: "report.output_dir", flag: "out"},
	{key: "report.organization", flag: "org"},
	{key: "report.prepared_by", flag: "prepared-by"},
	{key: "report.approved_by", flag: "approved-by"},
	{key: "report.chrome_path", flag: "chrome"},
	{key: "serve.addr", flag: "addr"},
	{key: "serve.auth_token", flag: "auth-token"},
}

// applyConfigDefaults merges config file and environment values into the
// runtime config when the user did not explicitly set the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	flags := cmd.Flags()

	for _, b := range configFlags {
		if viper.IsSet(b.key) {
			setStringFlagIfUnset(flags, b.flag, viper.GetString(b.key))
		}
	}

	if viper.IsSet("serve.rate_limit") {
		applyIntDefault(flags, "rate-limit", viper.GetInt("serve.rate_limit"), func(v int) {
			cliConfig.Serve.RateLimit = v
		})
	}

	if viper.IsSet("serve.rate_burst") {
		applyIntDefault(flags, "rate-burst", viper.GetInt("serve.rate_burst"), func(v int) {
			cliConfig.Serve.RateBurst = v
		})
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}
