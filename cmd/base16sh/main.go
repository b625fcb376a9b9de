package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsvensson/base16sh"
	"github.com/jsvensson/base16sh/internal/config"
	"github.com/jsvensson/base16sh/internal/format"
	"github.com/jsvensson/base16sh/internal/server"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	flagConfig    string
	flagVerbose   int
	flagSchemes   string
	flagTemplates string
	flagListen    string
	flagCheck     bool
	version       = "dev" // Injected at build time via ldflags
)

// cfg is loaded once by the root command before any subcommand runs.
var cfg config.Config

var log = commonlog.GetLogger("base16sh.cli")

var rootCmd = &cobra.Command{
	Use:               "base16sh",
	Short:             "Browse, preview and render base16 and base24 color schemes",
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve schemes and rendered templates over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format configuration files",
	Long:  "Format one or more HCL configuration files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "path to configuration file")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (can be repeated)")
	rootCmd.PersistentFlags().StringVar(&flagSchemes, "schemes", "", "schemes directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTemplates, "templates", "", "templates directory (overrides config)")

	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (overrides config)")
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
	addQueryCommands(rootCmd)
}

// loadConfig reads the configuration file, applies flag overrides and sets
// up logging. A missing file is only an error when --config was given.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadOrDefault(flagConfig)
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("schemes") {
		cfg.Data.Schemes = flagSchemes
	}
	if cmd.Flags().Changed("templates") {
		cfg.Data.Templates = flagTemplates
	}
	if cmd.Flags().Changed("listen") {
		cfg.Server.Listen = flagListen
	}
	cfg.Log.Verbosity += flagVerbose

	if err := cfg.Validate(); err != nil {
		return err
	}

	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logPath)
	return nil
}

func openService() (*base16sh.Service, error) {
	svc, err := base16sh.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading catalogs: %w", err)
	}
	log.Infof("loaded %d schemes and %d templates", svc.Schemes().Len(), svc.Templates().Len())
	return svc, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", cfg.Server.Listen)
	return server.New(svc).Run(ctx, cfg.Server.Listen, cfg.Server.ShutdownTimeout)
}

func runFmt(cmd *cobra.Command, args []string) error {
	hasErrors := false
	needsFormatting := false

	for _, path := range args {
		changed, err := format.File(path, !flagCheck)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			hasErrors = true
			continue
		}
		if !changed {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		needsFormatting = true
	}

	if hasErrors || (flagCheck && needsFormatting) {
		os.Exit(1)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
