package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hairizuan-noorazman/std-generator/internal/provider"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFileName = ".std-generator"

var cfg *viper.Viper

func initConfig() error {
	// A .env in the working directory may carry OPENAI_API_KEY
	_ = godotenv.Load()

	cfg = viper.New()
	cfg.SetConfigName(configFileName)
	cfg.SetConfigType("yaml")

	home, err := os.UserHomeDir()
	if err == nil {
		cfg.AddConfigPath(home)
	}

	cfg.SetDefault("provider", provider.OpenAI)
	cfg.SetDefault("api_key", "")
	cfg.SetDefault("base_url", "")
	cfg.SetDefault("models", []string{})
	cfg.SetDefault("model", "")
	cfg.SetDefault("out", "testmo_import.csv")
	cfg.SetDefault("caption.enabled", true)
	cfg.SetDefault("caption.model", "gpt-4o-mini")
	cfg.SetDefault("bedrock.region", "us-east-1")
	cfg.SetDefault("bedrock.access_key", "")
	cfg.SetDefault("bedrock.secret_key", "")
	cfg.SetDefault("log_level", "warn")

	cfg.SetEnvPrefix("STD_GENERATOR")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	if err := cfg.BindEnv("api_key", "STD_GENERATOR_API_KEY", "OPENAI_API_KEY"); err != nil {
		return fmt.Errorf("failed to bind environment: %w", err)
	}

	// Read config file (ignore if not found)
	if err := cfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// CLI flags take highest priority
	if flagAPIKey != "" {
		cfg.Set("api_key", flagAPIKey)
	}
	if flagModel != "" {
		cfg.Set("model", flagModel)
	}
	if flagDebug {
		cfg.Set("log_level", "debug")
	}

	return nil
}

func getConfigAPIKey() string {
	return strings.TrimSpace(cfg.GetString("api_key"))
}

func getModelCatalog() (*stdgen.ModelCatalog, error) {
	return stdgen.NewModelCatalog(cfg.GetStringSlice("models"), "")
}

func getProviderSettings() provider.Settings {
	return provider.Settings{
		Provider:      cfg.GetString("provider"),
		OpenAIBaseURL: cfg.GetString("base_url"),
		Bedrock: stdgen.BedrockConfig{
			Region:    cfg.GetString("bedrock.region"),
			AccessKey: cfg.GetString("bedrock.access_key"),
			SecretKey: cfg.GetString("bedrock.secret_key"),
		},
		CaptionEnabled: cfg.GetBool("caption.enabled"),
		CaptionModel:   cfg.GetString("caption.model"),
	}
}

func maskSecret(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) > 8:
		return secret[:4] + "..." + secret[len(secret)-4:]
	default:
		return "****"
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

const configTemplate = `# STD generator CLI configuration
provider: openai
api_key: ""
# base_url: https://api.openai.com/v1
# models: [gpt-4o-mini, gpt-4, gpt-3.5-turbo]
model: gpt-4o-mini
out: testmo_import.csv
caption:
  enabled: true
  model: gpt-4o-mini
bedrock:
  region: us-east-1
`

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a config file template at ~/" + configFileName + ".yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			return writeConfigTemplate(cmd.OutOrStdout(), filepath.Join(home, configFileName+".yaml"))
		},
	}
}

func writeConfigTemplate(out io.Writer, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		printMessage(out, "Config file already exists at "+configPath)
		return nil
	}

	if err := os.WriteFile(configPath, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printSuccess(out, "Config file created at "+configPath)
	return nil
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			printMessage(out, fmt.Sprintf("Provider: %s", cfg.GetString("provider")))
			printMessage(out, fmt.Sprintf("API key:  %s", maskSecret(getConfigAPIKey())))
			printMessage(out, fmt.Sprintf("Model:    %s", cfg.GetString("model")))
			printMessage(out, fmt.Sprintf("Output:   %s", cfg.GetString("out")))
			printMessage(out, fmt.Sprintf("Captions: %t", cfg.GetBool("caption.enabled")))

			if cfgFile := cfg.ConfigFileUsed(); cfgFile != "" {
				printMessage(out, fmt.Sprintf("Config file: %s", cfgFile))
			} else {
				printMessage(out, "Config file: (none)")
			}

			return nil
		},
	}
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the selectable models",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := getModelCatalog()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(catalog.Models()))
			for _, m := range catalog.Models() {
				marker := ""
				if m == catalog.Default() {
					marker = "default"
				}
				rows = append(rows, []string{m, marker})
			}
			printTable(cmd.OutOrStdout(), []string{"MODEL", ""}, rows)
			return nil
		},
	}
}
