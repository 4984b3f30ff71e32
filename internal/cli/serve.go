package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/specdock/specdock/internal/config"
	"github.com/specdock/specdock/internal/logging"
	"github.com/specdock/specdock/internal/mcp"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: "Start the MCP server on stdio. Documents and specs are loaded from the " +
			"configured directories; flags override config file values.",
		Example: strings.TrimSpace(`  specdock serve --specs-dir ./api-specs --docs-dir ./requirements
  specdock --config config.yaml serve`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return mcp.NewServer(cfg, logger).Start(cmd.Context())
		},
	}

	addDirFlags(cmd.Flags())
	return cmd
}

func addDirFlags(flags *pflag.FlagSet) {
	flags.String("docs-dir", "", "Directory holding requirement documents")
	flags.String("specs-dir", "", "Directory holding OpenAPI specifications")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
}

// resolveConfig merges defaults, the config file, environment variables, and
// CLI flag overrides, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, *logging.AppLogger, error) {
	logger := logging.NewAppLogger()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath == "" {
		configPath = config.DefaultPath()
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, nil, newUsageError(fmt.Sprintf("read config file %q: %v", configPath, err))
	}

	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return nil, nil, newUsageError(fmt.Sprintf("config file %q: %v", configPath, err))
	}

	flags := cmd.Flags()
	if flags.Changed("docs-dir") {
		value, _ := flags.GetString("docs-dir")
		cfg.Documents.BasePath = strings.TrimSpace(value)
	}
	if flags.Changed("specs-dir") {
		value, _ := flags.GetString("specs-dir")
		cfg.APISpecs.BasePath = strings.TrimSpace(value)
	}
	if flags.Changed("log-level") {
		value, _ := flags.GetString("log-level")
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(value))
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}

	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, nil, newUsageError(fmt.Sprintf("unsupported log level %q (allowed: debug, info, warn, error)", cfg.Logging.Level))
	}
	logger.SetLevel(cfg.Logging.Level)

	return cfg, logger, nil
}
