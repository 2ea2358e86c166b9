package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/IvanShishkin/sleuth/internal/artifacts"
	"github.com/IvanShishkin/sleuth/internal/recovery"
	"github.com/IvanShishkin/sleuth/internal/report"
	"github.com/IvanShishkin/sleuth/internal/signatures"
	"github.com/IvanShishkin/sleuth/internal/timeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var (
		workers      int
		exclude      []string
		sigPath      string
		reportFormat string
		outputFile   string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory and flag disguised files",
		Long:  `Recursively inspect every file, detect its real type from magic bytes and flag double extensions and extension mismatches.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if err := validateFormat(reportFormat); err != nil {
				fmt.Printf("\n  %s✗ Invalid parameter:%s %s\n\n", colorRed, colorReset, err.Error())
				return err
			}

			printBanner("Scanning", path)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Override config with CLI flags
			if workers > 0 {
				cfg.Workers = workers
			}
			if len(exclude) > 0 {
				cfg.Exclude = exclude
			}
			if sigPath != "" {
				cfg.SignaturesPath = sigPath
			}
			if reportFormat != "" && reportFormat != cfg.ReportFormat {
				cfg.ReportFormat = reportFormat
				// Configured file name belongs to the configured format
				cfg.ReportFile = ""
			}
			if outputFile != "" {
				cfg.ReportFile = outputFile
			}
			if limit > 0 {
				cfg.TableLimit = limit
			}

			result, err := runScan(cfg, path)
			if err != nil {
				return err
			}

			report.PrintConsole(os.Stdout, result, cfg.TableLimit)

			reportPath, err := report.NewGenerator(cfg, logger).Generate(result)
			if err != nil {
				fmt.Printf("  %s✗ Report failed:%s %v\n\n", colorRed, colorReset, err)
				return err
			}
			fmt.Printf("  %sReport:%s    %s%s%s\n\n", colorGray, colorReset, colorOrange, reportPath, colorReset)

			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Number of inspection workers (default: 1, sequential)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns to exclude (comma-separated, ** supported)")
	cmd.Flags().StringVar(&sigPath, "signatures", "", "YAML file or directory with extra signatures")
	cmd.Flags().StringVarP(&reportFormat, "report", "r", "", "Report format: json, txt, md (default: json)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Report file path (default: scan_report.json)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Rows shown in the results table (default: 20)")

	return cmd
}

// recoverCmd creates the recover command
func recoverCmd() *cobra.Command {
	var (
		types     string
		outputDir string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "recover [path]",
		Short: "Copy files out of a directory, optionally filtered by type",
		Long:  `Scan a directory and copy the matching files, with their timestamps, into the recovery directory. Types are matched against the detected type, falling back to the extension.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			printBanner("Recovering", path)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if workers > 0 {
				cfg.Workers = workers
			}

			result, err := runScan(cfg, path)
			if err != nil {
				return err
			}

			engine := recovery.NewEngine(cfg.OutputDir, logger)
			count, err := engine.Recover(result.Files, recovery.ParseFilter(types))
			if err != nil {
				fmt.Printf("\n  %s✗ Recovery failed:%s %v\n\n", colorRed, colorReset, err)
				return err
			}

			fmt.Printf("\n  %s✓ Recovered %d files to %s%s\n\n", colorOrange, count, engine.OutputDir(), colorReset)
			return nil
		},
	}

	cmd.Flags().StringVar(&types, "type", "", "Comma-separated file types to recover (e.g. jpg,pdf)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Recovery directory (default: output/recovered)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of inspection workers")

	return cmd
}

// timelineCmd creates the timeline command
func timelineCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "timeline [path]",
		Short: "Build a MAC timeline of a directory",
		Long:  `Scan a directory and export the created, modified and accessed events of every file in chronological order.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			printBanner("Timeline", path)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if outputFile != "" {
				cfg.TimelineFile = outputFile
			}

			result, err := runScan(cfg, path)
			if err != nil {
				return err
			}

			builder := timeline.NewBuilder(logger)
			events := builder.Build(result.Files)
			if err := builder.ExportJSON(events, cfg.TimelineFile); err != nil {
				fmt.Printf("\n  %s⚠ Timeline export failed:%s %v\n\n", colorYellow, colorReset, err)
				return err
			}

			absPath, _ := filepath.Abs(cfg.TimelineFile)
			fmt.Printf("\n  %sEvents:%s    %d\n", colorGray, colorReset, len(events))
			fmt.Printf("  %sTimeline:%s  %s%s%s\n\n", colorGray, colorReset, colorOrange, absPath, colorReset)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Timeline file path (default: timeline.json)")

	return cmd
}

// artifactsCmd creates the artifacts command
func artifactsCmd() *cobra.Command {
	var (
		outputFile string
		days       int
		root       string
		history    string
	)

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Collect host artifacts",
		Long:  `Collect system information, recently modified files and Chrome browser history into a JSON report.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printMainBanner()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ac := cfg.Artifacts
			if outputFile != "" {
				ac.OutputFile = outputFile
			}
			if days > 0 {
				ac.RecentDays = days
			}
			if root != "" {
				ac.RecentRoot = root
			}
			if history != "" {
				ac.BrowserHistoryPath = history
			}

			collector := artifacts.NewCollector(logger)
			rep := collector.Collect(ac.RecentRoot, ac.RecentDays, ac.BrowserHistoryPath, ac.HistoryLimit)

			fmt.Printf("  %s%sSYSTEM INFORMATION%s\n\n", colorBold, colorOrange, colorReset)
			for _, key := range []string{"os", "os_release", "os_version", "machine", "processor", "hostname", "user", "cpus"} {
				fmt.Printf("  %s%-11s%s %s\n", colorGray, key+":", colorReset, rep.SystemInfo[key])
			}
			fmt.Println()
			fmt.Printf("  %sRecent files:%s    %d\n", colorGray, colorReset, len(rep.RecentFiles))
			fmt.Printf("  %sHistory entries:%s %d\n", colorGray, colorReset, len(rep.BrowserHistory))

			if err := report.NewGenerator(cfg, logger).WriteJSON(rep, ac.OutputFile); err != nil {
				logger.Error("Failed to write artifacts report", zap.Error(err))
				return fmt.Errorf("failed to write artifacts report: %w", err)
			}

			absPath, _ := filepath.Abs(ac.OutputFile)
			fmt.Printf("  %sReport:%s          %s%s%s\n\n", colorGray, colorReset, colorOrange, absPath, colorReset)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Artifacts report path (default: artifacts_report.json)")
	cmd.Flags().IntVar(&days, "days", 0, "Recent files cutoff in days (default: 3)")
	cmd.Flags().StringVar(&root, "root", "", "Directory searched for recent files (default: home)")
	cmd.Flags().StringVar(&history, "history", "", "Chrome History database path")

	return cmd
}

// signaturesCmd creates the signatures command
func signaturesCmd() *cobra.Command {
	var sigPath string

	cmd := &cobra.Command{
		Use:   "signatures",
		Short: "List magic byte signatures in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if sigPath != "" {
				cfg.SignaturesPath = sigPath
			}

			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("%s%sSIGNATURES%s %s(first match wins)%s\n\n", colorBold, colorOrange, colorReset, colorGray, colorReset)
			for i, entry := range catalog.Entries() {
				for j, pattern := range entry.Patterns {
					label := string(entry.Type)
					if j > 0 {
						label = ""
					}
					fmt.Printf("  %s%2d%s  %s%-6s%s %s\n", colorGray, i+1, colorReset, colorCyan, label, colorReset, signatures.EncodePattern(pattern))
				}
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&sigPath, "signatures", "", "YAML file or directory with extra signatures")

	return cmd
}
