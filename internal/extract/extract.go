// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns an atom specification document into normalized
// atom records. Extraction is fail-fast: the first structural violation
// aborts the run and no records are returned.
package extract

import (
	"github.com/pdiddy/atomspec/internal/grammar"
	"github.com/pdiddy/atomspec/pkg/types"
)

// Extract parses every atom block in text, in document order. On error
// the returned slice is nil and the error is one of the grammar package's
// violation types.
func Extract(text string) ([]types.Atom, error) {
	blocks := grammar.Blocks(text)
	atoms := make([]types.Atom, 0, len(blocks))
	for _, b := range blocks {
		atom, err := extractAtom(b)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
	}
	return atoms, nil
}

func extractAtom(b grammar.Block) (types.Atom, error) {
	fields, err := readFields(b)
	if err != nil {
		return types.Atom{}, err
	}

	deps, _ := grammar.ParseDependsOn(fields[grammar.FieldDependsOn])
	atom := types.Atom{
		ID:        fields[grammar.FieldID],
		Title:     b.Title,
		Type:      fields[grammar.FieldType],
		Scope:     fields[grammar.FieldScope],
		Status:    types.Status(fields[grammar.FieldStatus]),
		DependsOn: deps,
		Rationale: fields[grammar.FieldRationale],
	}

	for _, name := range grammar.SectionOrder {
		content, ok := b.Section(name)
		if !ok {
			return types.Atom{}, &grammar.SectionMissingError{AtomID: b.ID, Section: name}
		}
		switch name {
		case grammar.SectionSpec:
			atom.Spec = grammar.Bullets(content)
		case grammar.SectionInvariants:
			atom.Invariants = grammar.Bullets(content)
		case grammar.SectionAcceptance:
			atom.Acceptance = grammar.Bullets(content)
		case grammar.SectionMetrics:
			atom.Metrics = grammar.Bullets(content)
		case grammar.SectionTestVectors:
			vectors, err := grammar.FencedJSON(content)
			if err != nil {
				return types.Atom{}, &grammar.TestVectorError{AtomID: b.ID, Err: err}
			}
			atom.TestVectors = vectors
		case grammar.SectionPrompts:
			atom.Prompts = grammar.Prompts(content)
		}
	}

	return atom, nil
}

// readFields collects the required field values. The ID is checked
// against the header before the remaining fields are read. DependsOn may
// be empty; every other field must have a value.
func readFields(b grammar.Block) (map[string]string, error) {
	fields := make(map[string]string, len(grammar.Fields))
	for _, name := range grammar.Fields {
		value, ok := b.Field(name)
		if !ok {
			return nil, &grammar.MissingFieldError{AtomID: b.ID, Field: name}
		}
		if value == "" && name != grammar.FieldDependsOn {
			return nil, &grammar.MissingFieldError{AtomID: b.ID, Field: name, Empty: true}
		}
		if name == grammar.FieldID && value != b.ID {
			return nil, &grammar.IDMismatchError{HeaderID: b.ID, FieldID: value}
		}
		fields[name] = value
	}
	return fields, nil
}
