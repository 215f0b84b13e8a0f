// Command asthra runs the documentation generation service.
//
// Configuration is environment-driven; a .env file in the working directory is
// loaded when present. Provider selection happens once here at startup and the
// result is injected into the handler.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/asthralabs/asthra/config"
	"github.com/asthralabs/asthra/core/docgen"
	"github.com/asthralabs/asthra/core/plan"
	"github.com/asthralabs/asthra/providers"
	"github.com/asthralabs/asthra/server"
)

func main() {
	// Missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	env := config.FromEnv()

	selection := providers.Select(env)
	logger.Info("provider selection",
		slog.String("provider", string(selection.Kind)),
		slog.String("model", selection.Model),
		slog.Bool("ready", selection.Ready),
		slog.String("status", selection.Status),
	)

	renderer, err := docgen.NewRenderer(env.GetDefault("ASTHRA_FILES_DIR", "generated_files"))
	if err != nil {
		logger.Error("failed to prepare output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fetcher := plan.NewFetcher(selection, plan.DefaultFetchTimeout, logger)

	srv := server.New(
		selection,
		fetcher,
		renderer,
		logger,
		env.GetDefault("ASTHRA_BASE_URL", "http://localhost:8000"),
	)

	addr := env.GetDefault("ASTHRA_ADDR", ":8000")
	logger.Info("listening", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
