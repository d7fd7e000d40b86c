package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/nis2-assess/cmd/testutil"
)

// setupCLI isolates the data directory and disables colors for a CLI test.
func setupCLI(t *testing.T) *testutil.TestEnv {
	t.Helper()

	env := testutil.NewTestEnv(t)

	originalNoColor := color.NoColor
	originalAppCtx := globalAppContext
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = originalNoColor
		globalAppContext = originalAppCtx
		resetCommandFlags(rootCmd)
		viper.Reset()
	})

	return env
}

// runCLI executes the root command with fresh flag state and returns the
// combined output.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	resetCommandFlags(rootCmd)
	viper.Reset()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := executeArgs(args)
	return out.String(), err
}

// mustRunCLI is runCLI that fails the test on error.
func mustRunCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, stdin, args...)
	if err != nil {
		t.Fatalf("nis2 %s failed: %v\noutput:\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func resetCommandFlags(cmd *cobra.Command) {
	resetFlagSet(cmd.PersistentFlags())
	resetFlagSet(cmd.Flags())
	for _, child := range cmd.Commands() {
		resetCommandFlags(child)
	}
}

func resetFlagSet(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}
