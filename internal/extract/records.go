// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/atomspec/pkg/types"
)

// FormatFor infers the record format from a file extension: .yaml and
// .yml select YAML, anything else JSON.
func FormatFor(path string) types.RecordFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML
	}
	return types.FormatJSON
}

// WriteRecords encodes atoms to w. JSON output is indented by two spaces
// and does not escape HTML characters. A nil slice encodes as an empty list.
func WriteRecords(w io.Writer, atoms []types.Atom, format types.RecordFormat) error {
	if atoms == nil {
		atoms = []types.Atom{}
	}
	switch format {
	case types.FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(atoms); err != nil {
			return fmt.Errorf("encoding JSON records: %w", err)
		}
		return nil
	case types.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(atoms); err != nil {
			return fmt.Errorf("encoding YAML records: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported record format %q: use json or yaml", format)
	}
}

// WriteFile writes atoms to path, creating parent directories. An empty
// format is inferred from the extension.
func WriteFile(path string, atoms []types.Atom, format types.RecordFormat) error {
	if format == "" {
		format = FormatFor(path)
	}
	var buf bytes.Buffer
	if err := WriteRecords(&buf, atoms, format); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadFile loads records previously written by WriteFile.
func ReadFile(path string) ([]types.Atom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records %s: %w", path, err)
	}
	atoms, err := ParseRecords(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("parsing records %s: %w", path, err)
	}
	return atoms, nil
}

// ParseRecords decodes a JSON or YAML list of atom records.
func ParseRecords(data []byte, format types.RecordFormat) ([]types.Atom, error) {
	var atoms []types.Atom
	switch format {
	case types.FormatJSON, "":
		if err := json.Unmarshal(data, &atoms); err != nil {
			return nil, err
		}
	case types.FormatYAML:
		if err := yaml.Unmarshal(data, &atoms); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported record format %q: use json or yaml", format)
	}
	return atoms, nil
}
