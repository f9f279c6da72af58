// Package cli provides the willa command line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/willa/internal/core/ports/driving"
	"github.com/custodia-labs/willa/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

var verbose bool

// Services supplies the driving ports used by the commands. Ingest and Chat
// open stores and reach model providers, so they are built on first use and
// config commands keep working when a provider is down.
type Services struct {
	Settings driving.SettingsService
	Ingest   func(ctx context.Context) (driving.IngestService, error)
	Chat     func(ctx context.Context) (driving.ChatService, error)
}

var services = &Services{}

var rootCmd = &cobra.Command{
	Use:   "willa",
	Short: "Ask questions of an oral history collection",
	Long: `Willa ingests oral history records and transcripts from a TIND catalogue
into a vector index and answers questions about them with a language model,
citing the records each answer draws on.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices sets the services the commands run against.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	services = s
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func settingsService() (driving.SettingsService, error) {
	if services.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return services.Settings, nil
}

func ingestService(ctx context.Context) (driving.IngestService, error) {
	if services.Ingest == nil {
		return nil, errors.New("ingest service not configured")
	}
	return services.Ingest(ctx)
}

func chatService(ctx context.Context) (driving.ChatService, error) {
	if services.Chat == nil {
		return nil, errors.New("chat service not configured")
	}
	return services.Chat(ctx)
}
