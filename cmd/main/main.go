package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"log"
	"os"
	"os/signal"
	"syscall"
	"tmichat/internal/pkg/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:           "tmichat",
		Short:         "Twitch chat client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load(".env")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Run(ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "config.json", "path to the JSON config")
	flags.StringSliceVar(&opts.Join, "join", nil, "channels to join in addition to the config")
	flags.StringVar(&opts.Transport, "transport", "", "override the transport (tcp or ws)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "override the log level")

	return cmd
}
