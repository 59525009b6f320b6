package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/promptgate/promptgate/pkg/scanner"
	"github.com/promptgate/promptgate/pkg/serve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming validation server",
	Long: `Run promptgate as a long-lived server that accepts validation requests
via stdin and writes results to stdout using NDJSON framing.

This mode is designed for pre-commit hooks and editor integrations: rules
are loaded once at startup and requests are processed until stdin closes or
SIGTERM is received.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	engine, err := scanner.New(scanner.Config{})
	if err != nil {
		return err
	}
	defer engine.Close()

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	srv := serve.NewServer(engine, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
