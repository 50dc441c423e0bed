package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okatu-loli/leetcode-daily/internal/config"
)

var flagAskOut string

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Run the daily-question pipeline once from the terminal",
	Long: `Invoke the command as a chat user would, printing the text reply and
writing the rendered statement to a file. Useful for checking config and the
rendering services without a chat host.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log := newLogger(cfg.LogLevel)
		handler := buildHandler(cfg, log)

		session := &terminalSession{out: flagAskOut}
		return handler.Handle(cmd.Context(), session)
	},
}

func init() {
	askCmd.Flags().StringVar(&flagAskOut, "out", "daily.png", "file to write the rendered statement to")
}

// terminalSession prints text replies and saves attachments to disk.
type terminalSession struct {
	out string
}

func (s *terminalSession) SendText(_ context.Context, text string) error {
	fmt.Println(text)
	return nil
}

func (s *terminalSession) SendAttachment(_ context.Context, mime string, data []byte) error {
	if err := os.WriteFile(s.out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.out, err)
	}
	fmt.Printf("saved %s (%s, %d bytes)\n", s.out, strings.Split(mime, ";")[0], len(data))
	return nil
}
