package report

import (
	"fmt"
	"strings"

	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// generateMarkdown generates a Markdown report
func (g *Generator) generateMarkdown(result *models.ScanResult, outputFile string) error {
	var sb strings.Builder

	// Header
	sb.WriteString("# Sleuth Forensic Scan Report\n\n")

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Scan Target | `%s` |\n", escapeCell(result.Root)))
	sb.WriteString(fmt.Sprintf("| Start Time | %s |\n", result.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| End Time | %s |\n", result.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", FormatDuration(result.Duration)))
	sb.WriteString(fmt.Sprintf("| Files Found | %d |\n", len(result.Files)))
	sb.WriteString(fmt.Sprintf("| Total Size | %s |\n", humanize.Bytes(uint64(result.TotalSize()))))
	sb.WriteString(fmt.Sprintf("| Skipped | %d |\n", result.Skipped))
	sb.WriteString(fmt.Sprintf("| Warnings | %d |\n", len(result.Warnings)))
	sb.WriteString(fmt.Sprintf("| **Suspicious Files** | **%d** |\n", len(result.Suspicious)))
	sb.WriteString("\n")

	if len(result.Suspicious) == 0 {
		sb.WriteString("> ✅ **No suspicious files detected**\n\n")
	} else {
		sb.WriteString("## Suspicious Files\n\n")

		for i, record := range result.Suspicious {
			sb.WriteString(fmt.Sprintf("### %d. ⚠️ `%s`\n\n", i+1, record.Path))

			sb.WriteString("| Field | Value |\n")
			sb.WriteString("|-------|-------|\n")
			sb.WriteString(fmt.Sprintf("| Reason | %s |\n", escapeCell(record.Reason)))
			sb.WriteString(fmt.Sprintf("| Claimed Type | %s |\n", markdownType(record.ClaimedType)))
			sb.WriteString(fmt.Sprintf("| Detected Type | %s |\n", markdownType(string(record.DetectedType))))
			sb.WriteString(fmt.Sprintf("| Size | %s |\n", humanize.Bytes(uint64(record.Size))))
			sb.WriteString(fmt.Sprintf("| Modified | %s |\n", models.EpochTime(record.Modified).Format("2006-01-02 15:04:05")))
			sb.WriteString("\n---\n\n")
		}
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		sb.WriteString("| Path | Message |\n")
		sb.WriteString("|------|---------|\n")
		for _, w := range result.Warnings {
			sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", escapeCell(w.Path), escapeCell(w.Message)))
		}
		sb.WriteString("\n")
	}

	// Footer
	sb.WriteString("---\n\n")
	sb.WriteString("*Generated by Sleuth*\n")

	return afero.WriteFile(g.fs, outputFile, []byte(sb.String()), 0644)
}

// markdownType renders a type cell, "_unknown_" when empty
func markdownType(typ string) string {
	if typ == "" {
		return "_unknown_"
	}
	return "`" + escapeCell(typ) + "`"
}

// escapeCell keeps pipes from breaking table rows
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
