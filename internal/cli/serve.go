package cli

import (
	"github.com/spf13/cobra"

	"docqa/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve question answering over HTTP",
	Long: `Start an HTTP server answering questions against the local index.

  GET /ask_question?question=...   -> {"answer": "..."}
  GET /healthz                     -> ok

Examples:
  docqa serve
  docqa serve --addr 0.0.0.0:9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	return server.New(a.answers, logger).ListenAndServe(addr)
}
