package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aide-studio/engine/internal/client"
	"github.com/aide-studio/engine/pkg/logger"
)

var (
	serverURL  string
	jsonOutput bool
	timeout    time.Duration
	logLevel   string
)

var rootCMD = &cobra.Command{
	Use:           "studioctl",
	Short:         "command line client for the AIDE Studio engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := logger.Init(logLevel, "console"); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	def := os.Getenv("STUDIO_URL")
	if def == "" {
		def = "http://localhost:5000"
	}
	rootCMD.PersistentFlags().StringVar(&serverURL, "server", def, "engine base url (env STUDIO_URL)")
	rootCMD.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON")
	rootCMD.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "request timeout")
	rootCMD.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")

	rootCMD.AddCommand(projectsCMD, filesCMD, chatCMD, configCMD, modelsCMD)
}

func newSyncer() *client.Syncer {
	return client.NewSyncer(client.New(serverURL, nil), client.NewMirror())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func stamp(t time.Time) string {
	return t.Local().Format(time.DateTime)
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
