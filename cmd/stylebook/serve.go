package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stylebook/internal/mcp"
	"stylebook/internal/repository"

	"github.com/spf13/cobra"
)

var serveHTTPAddr string

// serveCmd runs the MCP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve standards and examples over MCP",
	Long: `Starts the MCP server on stdio, the transport assistants use when they
spawn stylebook as a subprocess. With --http (or server.http_addr in the
config) the streamable HTTP transport is served instead.

When a content repository is configured the tree is prepared first.
Preparation failures are logged and the server starts on whatever is on
disk: serving stale content beats not serving at all. A broken tree
reduces the tool surface and logs warnings, it never prevents startup.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "Serve streamable HTTP on this address (e.g. :8080) instead of stdio")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	dir, err := repository.PrepareContent(cfg.ContentDir, cfg.ContentRepo.RemoteURL, cfg.ContentRepo.Branch, appLogger)
	if err != nil {
		appLogger.Warn("Content preparation failed, serving the existing tree", "error", err)
		dir = cfg.ContentDir
	}
	cfg.ContentDir = dir

	library, err := openLibrary(cfg)
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(library, version, appLogger)
	if err != nil {
		return err
	}

	addr := serveHTTPAddr
	if addr == "" {
		addr = cfg.Server.HTTPAddr
	}
	if addr == "" {
		// Stdio runs until the client closes the stream, no signal
		// handling needed.
		return srv.ServeStdio()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ServeHTTP(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		appLogger.Info("Received shutdown signal", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
