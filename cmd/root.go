package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var (
	verbose bool
	baseURL string
	dataDir string
	cfgFile string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studyctl",
	Short: "Terminal client for the AI Study Platform",
	Long: `studyctl is a terminal client for the AI Study Platform backend.

It keeps your login and active study session in a local state database,
so commands pick up where you left off across invocations.

Features:
  • Log in, register and manage your account session
  • Run study sessions and add questions from the terminal
  • Chat with the platform's AI assistant
  • Dashboard and per-topic progress charts
  • Interactive shell with all of the above in one place

Quick Start:
  studyctl login                  # Sign in
  studyctl study start            # Start a study session
  studyctl chat "explain recursion"
  studyctl ui                     # Interactive shell

Configuration lives in ~/.studyctl/config.yaml; STUDYCTL_BASE_URL and
friends override it.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory for client state")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.studyctl/config.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
