package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/docview/internal/config"
	"github.com/marcus/docview/internal/output"
)

var (
	version string
	baseDir string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "docview",
	Short: "Terminal viewer for password protected documents",
	Long: `docview - open documents described by JSON manifests.

Protected documents ask for their password in a dialog. After three wrong
passwords the document stays locked for the rest of the session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)
	rootCmd.PersistentFlags().String("locale", "", "UI language (en, de)")
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
}

// getBaseDir returns the directory holding .docview/config.json
func getBaseDir() string {
	return baseDir
}

// loadConfig reads the config file and applies environment and flag
// overrides, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(getBaseDir())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()
	if locale, _ := cmd.Flags().GetString("locale"); locale != "" {
		cfg.Locale = locale
	}
	return cfg, nil
}
