package signatures

import (
	"bytes"

	"github.com/IvanShishkin/sleuth/pkg/models"
)

// HeaderSize is the number of leading bytes read from a file for matching
const HeaderSize = 32

// Entry maps a type to one or more magic byte prefixes
type Entry struct {
	Type     models.TypeID
	Patterns [][]byte
}

// Catalog is an ordered list of signature entries.
// Match returns the first entry whose pattern prefixes the header, so the
// registration order is the precedence order.
type Catalog struct {
	entries []*Entry
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// DefaultCatalog returns the built-in catalog.
//
// Order: jpg, png, pdf, zip, gif, exe, rar, mp3, mp4, docx.
// docx starts with the zip magic and comes after zip, so Office Open XML
// files are reported as zip. The classifier allow-lists that pair.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Register("jpg", []byte{0xFF, 0xD8, 0xFF})
	c.Register("png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	c.Register("pdf", []byte{0x25, 0x50, 0x44, 0x46})
	c.Register("zip", []byte{0x50, 0x4B, 0x03, 0x04})
	c.Register("gif", []byte{0x47, 0x49, 0x46, 0x38})
	c.Register("exe", []byte{0x4D, 0x5A})
	c.Register("rar", []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00})
	c.Register("mp3", []byte{0x49, 0x44, 0x33})
	c.Register("mp4",
		[]byte{0x00, 0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70},
		[]byte{0x00, 0x00, 0x00, 0x20, 0x66, 0x74, 0x79, 0x70},
	)
	c.Register("docx", []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00})
	return c
}

// Register appends patterns for a type. A type registered again gets a new
// entry at the end of the catalog, it does not move the earlier one.
func (c *Catalog) Register(typ models.TypeID, patterns ...[]byte) {
	entry := &Entry{Type: typ}
	for _, p := range patterns {
		if len(p) == 0 {
			continue
		}
		entry.Patterns = append(entry.Patterns, bytes.Clone(p))
	}
	if len(entry.Patterns) == 0 {
		return
	}
	c.entries = append(c.entries, entry)
}

// Match returns the type of the first matching entry, or "" if none matches.
// Headers longer than HeaderSize are truncated first.
func (c *Catalog) Match(header []byte) models.TypeID {
	if len(header) > HeaderSize {
		header = header[:HeaderSize]
	}
	for _, entry := range c.entries {
		for _, pattern := range entry.Patterns {
			if bytes.HasPrefix(header, pattern) {
				return entry.Type
			}
		}
	}
	return ""
}

// Entries returns the catalog entries in precedence order
func (c *Catalog) Entries() []*Entry {
	return c.entries
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}
