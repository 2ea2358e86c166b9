package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/IvanShishkin/sleuth/internal/config"
	"github.com/IvanShishkin/sleuth/internal/core"
	"github.com/IvanShishkin/sleuth/internal/signatures"
	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorOrange = "\033[38;5;208m"
	colorYellow = "\033[38;5;220m"
	colorGray   = "\033[38;5;245m"
	colorCyan   = "\033[36m"
)

var (
	version    = "0.1.0"
	logger     *zap.Logger
	verbose    bool
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sleuth",
		Short: "Sleuth - Digital Forensic Recovery & Investigation Tool",
		Long: `Forensic artifact collector: walks a directory tree, identifies files by their
magic bytes, flags disguised files, recovers evidence and builds MAC timelines.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			printMainBanner()
			cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML, JSON or TOML)")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(recoverCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(artifactsCmd())
	rootCmd.AddCommand(signaturesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initLogger initializes the logger based on the verbose flag
func initLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		// Silent logger - only errors
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return err
	}
	return nil
}

// loadConfig loads the configuration named by --config
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

// loadCatalog returns the built-in catalog extended with the configured signature files
func loadCatalog(cfg *config.Config) (*signatures.Catalog, error) {
	catalog := signatures.DefaultCatalog()
	if cfg.SignaturesPath == "" {
		return catalog, nil
	}

	n, err := signatures.NewLoader(cfg.SignaturesPath).LoadInto(catalog)
	if err != nil {
		logger.Error("Failed to load signatures", zap.String("path", cfg.SignaturesPath), zap.Error(err))
		return nil, err
	}
	logger.Info("Loaded extra signatures", zap.Int("count", n))
	return catalog, nil
}

// runScan scans path with a progress line and interrupt handling
func runScan(cfg *config.Config, path string) (*models.ScanResult, error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	scanner := core.NewScanner(cfg, logger, catalog)

	inspected := 0
	fmt.Printf("\n  %sStarting scan...%s\n\n", colorReset, colorReset)
	scanner.SetProgressCallback(func(record *models.FileRecord) {
		if inspected > 0 {
			fmt.Print("\033[1A\033[K")
		}
		inspected++
		fmt.Printf("  %sInspected:%s %s%d%s files\n", colorGray, colorReset, colorOrange, inspected, colorReset)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := scanner.ScanContext(ctx, path)
	if err != nil {
		fmt.Printf("\n  %s✗ Scan failed:%s %v\n\n", colorRed, colorReset, err)
		logger.Error("Scan failed", zap.Error(err))
		return nil, err
	}

	for _, w := range result.Warnings {
		fmt.Printf("  %s⚠ %s:%s %s\n", colorYellow, w.Message, colorReset, w.Path)
	}
	return result, nil
}

// validateFormat validates the report format flag
func validateFormat(format string) error {
	if format == "" {
		return nil
	}
	validFormats := []string{"json", "txt", "text", "md", "markdown"}
	if !contains(validFormats, format) {
		return fmt.Errorf("--report must be one of: %s (got: %s)", strings.Join(validFormats, ", "), format)
	}
	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// printMainBanner prints the main banner
func printMainBanner() {
	fmt.Println()
	fmt.Printf("%s", colorOrange)
	fmt.Println("▄████▄ ██     ██████ ██  ██ ██████ ██  ██")
	fmt.Println("▀██▄▄  ██     ██▄▄   ██  ██   ██   ██████")
	fmt.Println("▄▄▄██▀ ██████ ██████ ▀████▀   ██   ██  ██")
	fmt.Printf("%s", colorReset)
	fmt.Println()
	fmt.Printf("%sDigital Forensic Recovery & Investigation Tool v%s%s\n", colorGray, version, colorReset)
	fmt.Printf("%sAUTHORIZED USE ONLY%s\n", colorRed, colorReset)
	fmt.Println()
}

// printBanner prints the startup banner for a command working on path
func printBanner(action, path string) {
	printMainBanner()
	fmt.Printf("  %s%s:%s %s\n", colorGray, action, colorReset, path)
}
