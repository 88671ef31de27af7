package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCmd runs the root command with args and returns stdout and stderr.
// Subcommand flags are reset first so values do not leak between tests.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	for _, c := range []*cobra.Command{analyzeCmd, rulesCmd, serveCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	oldCfg := cfg
	t.Cleanup(func() { cfg = oldCfg })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// isolateEnv runs the test in an empty directory with quiet logging and no
// inherited oracle credentials.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("ROADCHECK_LOG_LEVEL", "error")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ROADCHECK_ANTHROPIC_KEY", "")
	t.Setenv("PERPLEXITY_API_KEY", "")
	t.Setenv("ROADCHECK_PERPLEXITY_KEY", "")
	t.Setenv("ROADCHECK_ORACLE_PROVIDER", "anthropic")
}
