// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package atomdoc builds atom specification markup for tests. Start from
// Valid and mutate the pieces a test cares about.
package atomdoc

import (
	"fmt"
	"strings"
)

// Field is one "<Name>: <Value>" line.
type Field struct {
	Name  string
	Value string
}

// Section is one "**<Name>**" marker and the body that follows it.
type Section struct {
	Name string
	Body string
}

// Atom is the markup of one atom block.
type Atom struct {
	HeaderID string
	Title    string
	Fields   []Field
	Sections []Section
}

// Valid returns an atom that passes extraction, linting, and grading,
// depending on the given ids.
func Valid(id string, deps ...string) *Atom {
	return &Atom{
		HeaderID: id,
		Title:    "Atom " + id,
		Fields: []Field{
			{"ID", id},
			{"Type", "Functional"},
			{"Scope", "core.parser"},
			{"Status", "Accepted"},
			{"DependsOn", "[" + strings.Join(deps, ", ") + "]"},
			{"Rationale", "Records must be machine readable."},
		},
		Sections: []Section{
			{"Spec", "- The parser reads the document.\n- Each atom becomes one record.\n"},
			{"Invariants", "- Atom order is preserved.\n"},
			{"Acceptance", "- Given a valid doc, When extracted, Then a record is produced\n"},
			{"Metrics", "- extraction under 10ms\n"},
			{"TestVectors", "```json\n[{\"a\":1}]\n```\n"},
			{"Prompts", "- GEN-CODE: \"Write the code\"\n- GEN-TESTS: \"Write the tests\"\n"},
		},
	}
}

// SetField replaces the value of the named field, appending it if absent.
func (a *Atom) SetField(name, value string) *Atom {
	for i := range a.Fields {
		if a.Fields[i].Name == name {
			a.Fields[i].Value = value
			return a
		}
	}
	a.Fields = append(a.Fields, Field{name, value})
	return a
}

// DropField removes the named field line.
func (a *Atom) DropField(name string) *Atom {
	kept := a.Fields[:0]
	for _, f := range a.Fields {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	a.Fields = kept
	return a
}

// SetSection replaces the body of the named section, appending it if absent.
func (a *Atom) SetSection(name, body string) *Atom {
	for i := range a.Sections {
		if a.Sections[i].Name == name {
			a.Sections[i].Body = body
			return a
		}
	}
	a.Sections = append(a.Sections, Section{name, body})
	return a
}

// DropSection removes the named section marker and body.
func (a *Atom) DropSection(name string) *Atom {
	kept := a.Sections[:0]
	for _, s := range a.Sections {
		if s.Name != name {
			kept = append(kept, s)
		}
	}
	a.Sections = kept
	return a
}

// SwapSections exchanges the sections at positions i and j.
func (a *Atom) SwapSections(i, j int) *Atom {
	a.Sections[i], a.Sections[j] = a.Sections[j], a.Sections[i]
	return a
}

// String renders the atom block.
func (a *Atom) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s: %s\n", a.HeaderID, a.Title)
	for _, f := range a.Fields {
		if f.Value == "" {
			fmt.Fprintf(&b, "%s:\n", f.Name)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Value)
	}
	b.WriteString("\n")
	for _, s := range a.Sections {
		fmt.Fprintf(&b, "**%s**\n", s.Name)
		b.WriteString(s.Body)
		if s.Body != "" && !strings.HasSuffix(s.Body, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Doc renders a document with a title line followed by the atoms.
func Doc(atoms ...*Atom) string {
	var b strings.Builder
	b.WriteString("# Atoms\n\n")
	for i, a := range atoms {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(a.String())
	}
	return b.String()
}
