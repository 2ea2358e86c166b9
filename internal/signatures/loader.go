package signatures

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/IvanShishkin/sleuth/pkg/models"
	"gopkg.in/yaml.v3"
)

// Loader loads extra magic signatures from YAML files
type Loader struct {
	signaturesPath string
}

// NewLoader creates a new signature loader
func NewLoader(signaturesPath string) *Loader {
	return &Loader{
		signaturesPath: signaturesPath,
	}
}

// LoadInto appends all signatures found under the signatures path to the
// catalog. Files are read in lexical order so precedence is stable.
// Loaded entries always rank after the ones already in the catalog.
func (l *Loader) LoadInto(c *Catalog) (int, error) {
	if l.signaturesPath == "" {
		return 0, nil
	}

	// Return without error if the path doesn't exist
	info, err := os.Stat(l.signaturesPath)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var files []string
	if info.IsDir() {
		err = filepath.Walk(l.signaturesPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !isYAML(path) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return 0, err
		}
		sort.Strings(files)
	} else {
		files = []string{l.signaturesPath}
	}

	count := 0
	for _, path := range files {
		n, err := l.loadFile(path, c)
		if err != nil {
			return count, fmt.Errorf("failed to load %s: %w", path, err)
		}
		count += n
	}
	return count, nil
}

// loadFile loads signatures from a single YAML file
func (l *Loader) loadFile(path string, c *Catalog) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var sigFile models.SignatureFile
	if err := yaml.Unmarshal(data, &sigFile); err != nil {
		return 0, err
	}

	count := 0
	for _, sig := range sigFile.Signatures {
		typ := strings.ToLower(strings.TrimSpace(sig.Type))
		if typ == "" {
			return count, fmt.Errorf("signature without type")
		}

		patterns := make([][]byte, 0, len(sig.Patterns))
		for _, p := range sig.Patterns {
			b, err := DecodePattern(p)
			if err != nil {
				return count, fmt.Errorf("signature %s: %w", typ, err)
			}
			patterns = append(patterns, b)
		}
		if len(patterns) == 0 {
			return count, fmt.Errorf("signature %s has no patterns", typ)
		}

		c.Register(models.TypeID(typ), patterns...)
		count++
	}

	return count, nil
}

// DecodePattern decodes a hex pattern. Spaces and a leading 0x are ignored.
func DecodePattern(s string) ([]byte, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	if len(s) > HeaderSize*2 {
		return nil, fmt.Errorf("pattern %q longer than header size %d", s, HeaderSize)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex pattern %q: %w", s, err)
	}
	return b, nil
}

// EncodePattern formats a pattern the way signature files store it
func EncodePattern(b []byte) string {
	return hex.EncodeToString(b)
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
