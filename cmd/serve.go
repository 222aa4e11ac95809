package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/coltype/internal/server"
)

var (
	servePort int
	serveHTTP bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools over stdin/stdout or HTTP",
	Long:  "Reads one JSON request per line from stdin and writes one JSON response per line to stdout. With --http, serves the same tools over HTTP instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		mode := "classify"
		if serveHTTP {
			mode = "serve"
		}

		svc, cleanup, err := initService(ctx, mode)
		if err != nil {
			return err
		}
		defer cleanup()

		if serveHTTP {
			return server.New(svc, cfg.Server).ListenAndServe(ctx)
		}

		zap.L().Info("serving tools on stdio", zap.Strings("tools", svc.Names()))
		if err := svc.Serve(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default from config)")
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve over HTTP instead of stdio")
	rootCmd.AddCommand(serveCmd)
}
