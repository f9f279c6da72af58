// Command willa answers questions about an oral history collection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/willa/internal/adapters/driven/config/env"
	"github.com/custodia-labs/willa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/willa/internal/adapters/driving/cli"
	"github.com/custodia-labs/willa/internal/core/services"
	"github.com/custodia-labs/willa/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() { _ = logger.Sync() }()

	environment, err := env.Load(env.DefaultSecretsDir, ".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	configDir, err := resolveConfigDir(environment.Lookup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// A .env in the config directory fills gaps left by the working directory's.
	environment, err = env.Load(env.DefaultSecretsDir, ".env", filepath.Join(configDir, ".env"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open config: %v\n", err)
		return 1
	}
	settings := services.NewSettingsService(configStore, environment.Lookup)

	if s, err := settings.Get(); err == nil && s.LogFile != "" {
		logger.SetLogFile(resolvePath(configDir, s.LogFile))
	}

	c := newContainer(configDir, settings)
	defer c.Close()

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Settings: settings,
		Ingest:   c.Ingest,
		Chat:     c.Chat,
	})

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// resolveConfigDir returns WILLA_HOME, or ~/.willa when it is unset.
func resolveConfigDir(lookup func(string) (string, bool)) (string, error) {
	if dir, ok := lookup("WILLA_HOME"); ok && dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".willa"), nil
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
