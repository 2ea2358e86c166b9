package heuristic

import (
	"fmt"
	"strings"
	"sync"

	"github.com/IvanShishkin/sleuth/pkg/models"
	"go.uber.org/zap"
)

// ReasonDoubleExtension is recorded for names like "photo.jpg.exe"
const ReasonDoubleExtension = "double extension detected"

var (
	// Extensions commonly used as a decoy in front of a dangerous one
	benignExtensions = map[string]bool{
		"jpg": true, "jpeg": true, "png": true, "pdf": true,
		"docx": true, "txt": true, "zip": true,
	}

	dangerousExtensions = map[string]bool{
		"exe": true, "bat": true, "ps1": true, "vbs": true,
	}

	// Formats that are ZIP containers, so a zip signature is expected
	zipContainers = map[string]bool{
		"docx": true, "xlsx": true, "pptx": true, "apk": true, "jar": true,
	}
)

// Rule is a single suspicion heuristic
type Rule interface {
	// Name returns the rule name
	Name() string

	// Check returns a reason when the record looks suspicious
	Check(record *models.FileRecord) (reason string, suspicious bool)
}

// Classifier runs the rules in order and keeps the list of flagged records.
// A record's reason comes from the first rule that fires; every rule is still
// evaluated. A record enters the suspicious list once no matter how many rules fire.
type Classifier struct {
	logger     *zap.Logger
	rules      []Rule
	suspicious []*models.FileRecord
	mu         sync.Mutex
}

// NewClassifier creates a classifier with the default rules:
// double extension first, then extension/content mismatch.
func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{
		logger: logger,
		rules:  []Rule{DoubleExtensionRule{}, MismatchRule{}},
	}
}

// Classify applies all rules to the record. It returns true when the record
// was added to the suspicious list by this call.
func (c *Classifier) Classify(record *models.FileRecord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	alreadyFlagged := record.Suspicious

	for _, rule := range c.rules {
		reason, suspicious := rule.Check(record)
		if !suspicious {
			continue
		}
		if record.Flag(reason) {
			c.logger.Warn("Suspicious file detected",
				zap.String("rule", rule.Name()),
				zap.String("path", record.Path),
				zap.String("reason", reason))
		}
	}

	if record.Suspicious && !alreadyFlagged {
		c.suspicious = append(c.suspicious, record)
		return true
	}
	return false
}

// Suspicious returns the flagged records in classification order
func (c *Classifier) Suspicious() []*models.FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*models.FileRecord, len(c.suspicious))
	copy(out, c.suspicious)
	return out
}

// DoubleExtensionRule flags a benign extension followed by a dangerous one.
// It splits the whole path, so dots in directory names take part too.
type DoubleExtensionRule struct{}

// Name returns the rule name
func (DoubleExtensionRule) Name() string { return "double_extension" }

// Check implements Rule
func (DoubleExtensionRule) Check(record *models.FileRecord) (string, bool) {
	if strings.Count(record.Path, ".") < 2 {
		return "", false
	}
	parts := strings.Split(strings.ToLower(record.Path), ".")
	if len(parts) < 3 {
		return "", false
	}
	if benignExtensions[parts[len(parts)-2]] && dangerousExtensions[parts[len(parts)-1]] {
		return ReasonDoubleExtension, true
	}
	return "", false
}

// MismatchRule flags files whose content type differs from their extension,
// except ZIP based container formats.
type MismatchRule struct{}

// Name returns the rule name
func (MismatchRule) Name() string { return "extension_mismatch" }

// Check implements Rule
func (MismatchRule) Check(record *models.FileRecord) (string, bool) {
	if !record.HasDetectedType() {
		return "", false
	}
	detected := string(record.DetectedType)
	if detected == record.ClaimedType {
		return "", false
	}
	if detected == "zip" && zipContainers[record.ClaimedType] {
		return "", false
	}
	return MismatchReason(record.ClaimedType, detected), true
}

// MismatchReason formats the reason for an extension/content mismatch
func MismatchReason(claimed, detected string) string {
	return fmt.Sprintf("Extension Mismatch (Claimed: %s, Detected: %s)", claimed, detected)
}
