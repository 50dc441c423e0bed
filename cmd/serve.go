package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okatu-loli/leetcode-daily/internal/bot"
	"github.com/okatu-loli/leetcode-daily/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat webhook server",
	Long: `Start the webhook endpoint the host chat process forwards messages to.

Messages matching the configured command name trigger the daily-question
pipeline; everything else gets an empty reply.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log := newLogger(cfg.LogLevel)
		handler := buildHandler(cfg, log)
		server := bot.NewServer(cfg.Command, handler, log)
		return server.Run(cfg.Listen)
	},
}
