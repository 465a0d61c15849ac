package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"live-quiz-service/internal/config"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load() // .env is optional

	cmd := &cobra.Command{
		Use:          "quiz-service",
		Short:        "Live quiz sessions over Gorilla WebSocket",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", config.Env("PORT", ""), "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", config.Env("CONFIG_PATH", "config/config.yaml"), "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
