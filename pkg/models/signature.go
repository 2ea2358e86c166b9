package models

// Signature is a magic byte definition as stored in YAML signature files.
// Patterns are hex encoded, e.g. "ffd8ff".
type Signature struct {
	Type        string   `yaml:"type" json:"type"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Patterns    []string `yaml:"patterns" json:"patterns"`
}

// SignatureFile represents a YAML signature file
type SignatureFile struct {
	Signatures []*Signature `yaml:"signatures"`
}
