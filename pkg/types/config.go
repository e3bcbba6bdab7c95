// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RecordFormat selects the serialization used for extracted records.
type RecordFormat string

const (
	FormatJSON RecordFormat = "json"
	FormatYAML RecordFormat = "yaml"
)

// DefaultRecordsPath is where extract writes records when no output is given.
const DefaultRecordsPath = "tools/out/atoms.json"

// ExtractConfig holds settings for the extract command.
type ExtractConfig struct {
	// OutPath is the records file to write (default tools/out/atoms.json).
	OutPath string `json:"out" yaml:"out"`

	// SchemaPath is an optional JSON Schema every record must satisfy.
	SchemaPath string `json:"schema,omitempty" yaml:"schema,omitempty"`

	// Format selects json or yaml output. Empty means infer from OutPath.
	Format RecordFormat `json:"format,omitempty" yaml:"format,omitempty"`
}

// CatalogConfig holds settings for the atom catalog.
type CatalogConfig struct {
	// CatalogDir contains atoms.db and the export files.
	CatalogDir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default warn).
	Level string `json:"level" yaml:"level"`
}

// Config groups the settings read from atomspec.yaml.
type Config struct {
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Log     LogConfig     `json:"log" yaml:"log"`
}
