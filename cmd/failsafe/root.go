package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"failsafe/internal/config"
	"failsafe/internal/format"
	"failsafe/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	storePath  string
	logLevel   string
	logFormat  string
	table      string
}

// cfg is the effective configuration, resolved before every command.
var cfg = config.Default()

// tableFormat is the parsed --table flag.
var tableFormat = format.ASCII

var rootCmd = &cobra.Command{
	Use:   "failsafe",
	Short: "Classify fail-safe behaviour of PLC function-block instances",
	Long: `failsafe reads a PLCopen-style XML export, finds every block instance,
classifies its fail-safe behaviour from the EHS input variables that are
actually connected, and writes InstanceName,TypeName,FailSafeType rows to CSV.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", config.DefaultPath, "Config file (YAML or JSON)")
	pf.StringVar(&rootFlags.storePath, "store", "", "Run history database (default from config)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&rootFlags.table, "table", "ascii", "Table format: ascii, markdown or csv")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

// loadConfig resolves flag > environment > file > defaults into cfg and
// installs the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadFromPath(rootFlags.configPath)
	} else {
		cfg, err = config.LoadOptional(rootFlags.configPath)
	}
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)
	if rootFlags.storePath != "" {
		cfg.Store = rootFlags.storePath
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		cfg.LogFormat = rootFlags.logFormat
	}
	if tableFormat, err = format.ParseMode(rootFlags.table); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Init(level, cfg.LogFormat, cmd.ErrOrStderr())
	return nil
}
