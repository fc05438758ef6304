package cli

import (
	"context"

	"json_script_analyzer/internal/application/config"
	"json_script_analyzer/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Execute builds the root command tree and runs the CLI.
func Execute(ctx context.Context, logger *log.Logger) error {
	return newRootCmd(logger).ExecuteContext(ctx)
}

type rootOptions struct {
	ConfigPath string
	logger     *log.Logger
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	opts := &rootOptions{logger: logger}

	rootCmd := &cobra.Command{
		Use:           "json_script_analyzer",
		Short:         "Upload JSON scripts to the analysis service and render its findings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultEnvFile, "Path to the env file (optional)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newScanCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

// loadConfig reads the application config and applies its log level.
func (o *rootOptions) loadConfig() (*config.AppConfig, error) {
	cfg, err := config.NewAppConfig(o.ConfigPath)
	if err != nil {
		return nil, errors.Wrap(err, `failed to load config`)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, `failed to parse log level`)
	}
	o.logger.SetLevel(level)
	return cfg, nil
}
