package report

import (
	"encoding/json"

	"github.com/IvanShishkin/sleuth/pkg/models"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ScanReport is the JSON scan report consumed by downstream tooling
type ScanReport struct {
	RunID           string               `json:"run_id"`
	Timestamp       string               `json:"timestamp"`
	ScanTarget      string               `json:"scan_target"`
	FilesFound      int                  `json:"files_found"`
	SuspiciousFiles []*models.FileRecord `json:"suspicious_files"`
	AllFiles        []*models.FileRecord `json:"all_files"`
	Warnings        []models.Warning     `json:"warnings,omitempty"`
}

// NewScanReport builds the report structure for result
func (g *Generator) NewScanReport(result *models.ScanResult) *ScanReport {
	report := &ScanReport{
		RunID:           uuid.NewString(),
		Timestamp:       g.now().Format(TimestampFormat),
		ScanTarget:      result.Root,
		FilesFound:      len(result.Files),
		SuspiciousFiles: result.Suspicious,
		AllFiles:        result.Files,
		Warnings:        result.Warnings,
	}
	if report.SuspiciousFiles == nil {
		report.SuspiciousFiles = []*models.FileRecord{}
	}
	if report.AllFiles == nil {
		report.AllFiles = []*models.FileRecord{}
	}
	return report
}

// generateJSON generates a JSON report
func (g *Generator) generateJSON(result *models.ScanResult, outputFile string) error {
	data, err := json.MarshalIndent(g.NewScanReport(result), "", "    ")
	if err != nil {
		return err
	}

	return afero.WriteFile(g.fs, outputFile, data, 0644)
}

// WriteJSON encodes v as indented JSON into path on the generator filesystem
func (g *Generator) WriteJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return afero.WriteFile(g.fs, path, data, 0644)
}
