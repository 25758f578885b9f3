package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	flagAPIKey string
	flagModel  string
	flagDebug  bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stdctl",
		Short: "Generate Testmo test cases from feature specifications",
		Long:  "A command-line interface that turns a feature specification and optional screenshots into test cases using a chat-completion model, and writes a Testmo import CSV.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "OpenAI API key (env: OPENAI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model to use (env: STD_GENERATOR_MODEL)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stdctl %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newGenerateCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err.Error())
		os.Exit(1)
	}
}
