package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/IvanShishkin/sleuth/internal/config"
	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorOrange = "\033[38;5;208m"
	colorGray   = "\033[38;5;245m"
)

// TimestampFormat is the layout of the report run timestamp
const TimestampFormat = "2006-01-02 15:04:05.000000"

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		// Milliseconds
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		// Seconds
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		// Minutes and seconds
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	// Hours, minutes and seconds
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// Generator writes scan reports in various formats
type Generator struct {
	config *config.Config
	logger *zap.Logger
	fs     afero.Fs
	now    func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) *Generator {
	return &Generator{
		config: cfg,
		logger: logger,
		fs:     afero.NewOsFs(),
		now:    time.Now,
	}
}

// SetFS replaces the filesystem reports are written to
func (g *Generator) SetFS(fsys afero.Fs) {
	g.fs = fsys
}

// Generate writes the report for result and returns its absolute path.
// A write failure is logged and returned; result is not modified.
func (g *Generator) Generate(result *models.ScanResult) (string, error) {
	format := g.config.ReportFormat
	if format == "" {
		format = "json"
	}

	outputFile := g.config.ReportFile
	if outputFile == "" {
		timestamp := g.now().Format("20060102-150405")
		switch format {
		case "json":
			outputFile = fmt.Sprintf("SLEUTH-REPORT-%s.json", timestamp)
		case "txt", "text":
			outputFile = fmt.Sprintf("SLEUTH-REPORT-%s.txt", timestamp)
		case "md", "markdown":
			outputFile = fmt.Sprintf("SLEUTH-REPORT-%s.md", timestamp)
		default:
			return "", fmt.Errorf("unknown report format: %s", format)
		}
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	var err error
	switch format {
	case "json":
		err = g.generateJSON(result, outputFile)
	case "txt", "text":
		err = g.generateText(result, outputFile)
	case "md", "markdown":
		err = g.generateMarkdown(result, outputFile)
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}

	if err != nil {
		g.logger.Error("Failed to write report", zap.String("output", outputFile), zap.Error(err))
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}

// PrintConsole prints the scan summary and the first limit records as a table.
// limit <= 0 prints every record.
func PrintConsole(w io.Writer, result *models.ScanResult, limit int) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%sSCAN COMPLETE%s\n", colorBold, colorOrange, colorReset)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %sPath:%s      %s\n", colorGray, colorReset, result.Root)
	fmt.Fprintf(w, "  %sFiles:%s     %d (%s)\n", colorGray, colorReset, len(result.Files), humanize.Bytes(uint64(result.TotalSize())))
	fmt.Fprintf(w, "  %sWorkers:%s   %d\n", colorGray, colorReset, result.WorkersUsed)
	fmt.Fprintf(w, "  %sDuration:%s  %s\n", colorGray, colorReset, FormatDuration(result.Duration))
	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "  %sWarnings:%s  %s%d%s\n", colorGray, colorReset, colorYellow, len(result.Warnings), colorReset)
	}
	fmt.Fprintln(w)

	if len(result.Files) > 0 {
		fmt.Fprintf(w, "%s───────────────────────────────────────────────────────────────%s\n", colorGray, colorReset)
		fmt.Fprintf(w, "  %s%-40s %-10s %-10s %s%s\n", colorBold, "File", "Size", "Type", "Status", colorReset)

		shown := result.Files
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}
		for _, record := range shown {
			status := colorGreen + "OK" + colorReset
			if record.Suspicious {
				status = colorRed + colorBold + "SUSPICIOUS" + colorReset
			}
			detected := string(record.DetectedType)
			if detected == "" {
				detected = "?"
			}
			fmt.Fprintf(w, "  %-40s %-10s %-10s %s\n",
				truncate(filepath.Base(record.Path), 40),
				humanize.Bytes(uint64(record.Size)),
				detected,
				status)
		}
		if rest := len(result.Files) - len(shown); rest > 0 {
			fmt.Fprintf(w, "  %s... and %d more files.%s\n", colorDim, rest, colorReset)
		}
		fmt.Fprintf(w, "%s───────────────────────────────────────────────────────────────%s\n", colorGray, colorReset)
		fmt.Fprintln(w)
	}

	if len(result.Suspicious) == 0 {
		fmt.Fprintf(w, "  %s%s✓ No suspicious files%s\n", colorBold, colorGreen, colorReset)
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "  %s%s⚠ SUSPICIOUS FILES: %d%s\n", colorBold, colorRed, len(result.Suspicious), colorReset)
	for i, record := range result.Suspicious {
		fmt.Fprintf(w, "\n  %s[%d]%s %s%s%s\n", colorBold, i+1, colorReset, colorOrange, record.Path, colorReset)
		fmt.Fprintf(w, "      %sReason:%s    %s\n", colorGray, colorReset, record.Reason)
		fmt.Fprintf(w, "      %sModified:%s  %s\n", colorGray, colorReset, humanize.Time(models.EpochTime(record.Modified)))
	}
	fmt.Fprintln(w)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func joinTypes(record *models.FileRecord) string {
	detected := string(record.DetectedType)
	if detected == "" {
		detected = "unknown"
	}
	return strings.Join([]string{record.ClaimedType, detected}, " -> ")
}
