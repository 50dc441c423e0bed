package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/okatu-loli/leetcode-daily/internal/bot"
	"github.com/okatu-loli/leetcode-daily/internal/cache"
	"github.com/okatu-loli/leetcode-daily/internal/config"
	"github.com/okatu-loli/leetcode-daily/internal/leetcode"
	"github.com/okatu-loli/leetcode-daily/internal/render"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "leetcode-daily",
	Short: "Chat-bot command for the LeetCode daily question",
	Long:  "leetcode-daily answers \"今日题目是什么?\" for a chat bot: it caches the day's scheduled question and renders the localized statement as an image.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("leetcode-daily %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// buildHandler wires the pipeline from config: the graphql client, the cache
// store, and the renderer variant the mode selects.
func buildHandler(cfg *config.Config, log *logrus.Logger) *bot.Handler {
	client := leetcode.NewClient(cfg.LeetCode.Endpoint, cfg.LeetCode.Referer, cfg.Timeout())
	store := cache.NewStore(cfg.ResolvedCachePath())

	var renderer render.Renderer
	switch cfg.Mode {
	case config.ModeText:
		renderer = render.NewTextRenderer()
	default:
		renderer = render.NewImageRenderer(cfg.Render.ScreenshotURL, cfg.Render.MarkdownURL, cfg.Timeout())
	}

	return bot.NewHandler(client, store, renderer, log)
}
