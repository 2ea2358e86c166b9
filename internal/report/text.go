package report

import (
	"fmt"
	"strings"

	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// generateText generates a text report
func (g *Generator) generateText(result *models.ScanResult, outputFile string) error {
	var sb strings.Builder

	// Header
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("  SLEUTH FORENSIC SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Scan Target:      %s\n", result.Root))
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", result.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", result.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(result.Duration)))
	sb.WriteString(fmt.Sprintf("Files Found:      %d\n", len(result.Files)))
	sb.WriteString(fmt.Sprintf("Total Size:       %s\n", humanize.Bytes(uint64(result.TotalSize()))))
	sb.WriteString(fmt.Sprintf("Skipped:          %d\n", result.Skipped))
	sb.WriteString(fmt.Sprintf("Warnings:         %d\n", len(result.Warnings)))
	sb.WriteString(fmt.Sprintf("SUSPICIOUS FILES: %d\n", len(result.Suspicious)))
	sb.WriteString("\n")

	if len(result.Suspicious) > 0 {
		sb.WriteString("SUSPICIOUS FILES\n")
		sb.WriteString(strings.Repeat("=", 79) + "\n\n")

		for i, record := range result.Suspicious {
			sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, record.Path))
			sb.WriteString(strings.Repeat("-", 79) + "\n")
			sb.WriteString(fmt.Sprintf("Reason:      %s\n", record.Reason))
			sb.WriteString(fmt.Sprintf("Types:       %s\n", joinTypes(record)))
			sb.WriteString(fmt.Sprintf("Size:        %s\n", humanize.Bytes(uint64(record.Size))))
			sb.WriteString(fmt.Sprintf("Modified:    %s\n", models.EpochTime(record.Modified).Format("2006-01-02 15:04:05")))
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No suspicious files detected.\n\n")
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("WARNINGS\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, w := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", w.Path, w.Message))
		}
		sb.WriteString("\n")
	}

	// Footer
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("End of Report\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n")

	return afero.WriteFile(g.fs, outputFile, []byte(sb.String()), 0644)
}
