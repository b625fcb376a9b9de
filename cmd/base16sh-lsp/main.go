package main

import (
	"fmt"
	"os"

	"github.com/jsvensson/base16sh/internal/catalog"
	"github.com/jsvensson/base16sh/internal/config"
	"github.com/jsvensson/base16sh/internal/lsp"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	flagConfig  string
	flagPreview string
	version     = "dev"
)

var rootCmd = &cobra.Command{
	Use:          "base16sh-lsp",
	Short:        "Language server for base16 mustache templates",
	Version:      version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", config.DefaultPath, "path to configuration file")
	rootCmd.Flags().StringVar(&flagPreview, "preview", "", "scheme whose values are shown in hovers and completions")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(flagConfig)
	if err != nil {
		return err
	}

	// stdout carries the protocol, so logs go to the configured file or stderr.
	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logPath)

	var preview *lsp.Preview
	if flagPreview != "" {
		schemes, err := catalog.BuildSchemes(cfg.Data.Schemes)
		if err != nil {
			return fmt.Errorf("loading schemes: %w", err)
		}
		preview, err = lsp.LoadPreview(schemes, flagPreview)
		if err != nil {
			return err
		}
	}

	return lsp.NewServer(version, preview).Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
