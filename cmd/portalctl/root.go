package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/rental-portal/internal/cloudinary"
	"github.com/JaimeStill/rental-portal/internal/config"
	"github.com/JaimeStill/rental-portal/pkg/logging"
	"github.com/JaimeStill/rental-portal/pkg/signing"
)

var (
	cfg    *config.Config
	logger *slog.Logger
	signer *signing.Signer

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Operate the rental portal document pipeline",
	Long: `portalctl signs provider parameters, uploads files through the same
validation and signing path as the server, deletes provider assets, and
checks backend health. Configuration is read from config.toml, the
SERVICE_ENV overlay, and the environment (a .env file is loaded first).`,
	SilenceUsage:      true,
	PersistentPreRunE: initialize,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level to stderr")

	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(deleteAssetCmd)
	rootCmd.AddCommand(healthCmd)
}

func initialize(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = logging.LevelDebug
	}
	logger = logging.NewWithWriter(os.Stderr, &logCfg)

	signer, err = signing.NewSigner(cfg.Cloudinary.Credentials(), nil)
	return err
}

func provider() *cloudinary.Client {
	return cloudinary.New(cfg.Cloudinary.BaseURL, cfg.Cloudinary.CloudName, nil, logger)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
