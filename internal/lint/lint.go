// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lint validates atom specification documents and reports every
// violation it finds. Each atom is checked independently, then the whole
// document is checked for duplicate ids and unresolved dependencies.
package lint

import (
	"errors"
	"slices"
	"strings"

	"github.com/pdiddy/atomspec/internal/grammar"
	"github.com/pdiddy/atomspec/pkg/types"
)

// Finding holds the violations of one atom block.
type Finding struct {
	// Index is the zero-based position of the block in the document.
	Index int

	AtomID string

	// Line is the 1-based line of the block's header.
	Line int

	Errors []error
}

// Report is the outcome of linting one document.
type Report struct {
	// Atoms is the number of atom blocks found.
	Atoms int

	// Findings lists blocks with at least one violation, in document order.
	Findings []Finding
}

// OK reports whether the document has no violations.
func (r Report) OK() bool {
	return len(r.Findings) == 0
}

// Errors returns every violation in document order.
func (r Report) Errors() []error {
	var errs []error
	for _, f := range r.Findings {
		errs = append(errs, f.Errors...)
	}
	return errs
}

// Err joins all violations, or returns nil for a valid document.
func (r Report) Err() error {
	return errors.Join(r.Errors()...)
}

// Lint checks every atom in text. Dependencies are resolved against the
// full set of header ids, so forward and self references are legal.
func Lint(text string) Report {
	blocks := grammar.Blocks(text)

	declared := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		declared[b.ID] = true
	}

	errs := make([][]error, len(blocks))
	deps := make([][]string, len(blocks))
	for i, b := range blocks {
		c := &checker{block: b}
		deps[i] = c.run()
		errs[i] = c.errs
	}

	firstLine := make(map[string]int, len(blocks))
	for i, b := range blocks {
		if line, seen := firstLine[b.ID]; seen {
			errs[i] = append(errs[i], &DuplicateIDError{AtomID: b.ID, Line: b.Line, FirstLine: line})
		} else {
			firstLine[b.ID] = b.Line
		}
		for _, dep := range deps[i] {
			if !declared[dep] {
				errs[i] = append(errs[i], &UnresolvedDependencyError{AtomID: b.ID, Dependency: dep})
			}
		}
	}

	report := Report{Atoms: len(blocks)}
	for i, b := range blocks {
		if len(errs[i]) == 0 {
			continue
		}
		report.Findings = append(report.Findings, Finding{
			Index:  i,
			AtomID: b.ID,
			Line:   b.Line,
			Errors: errs[i],
		})
	}
	return report
}

const (
	wantType      = "Functional or Nonfunctional (<Security|Privacy|Performance|Reliability|Cost|Operability|Compliance|Other>)"
	wantScope     = "dotted path with at least two segments"
	wantStatus    = "Proposed, Accepted, or Deprecated"
	wantDependsOn = "[<id>, ...]"
	wantAtomID    = "atom id (RQ|ALG|QAT)-<digits>"
	wantPrompts   = types.PromptGenCode + " and " + types.PromptGenTests + " keys"
)

// checker accumulates the violations of one block.
type checker struct {
	block grammar.Block
	errs  []error
}

func (c *checker) add(err error) {
	c.errs = append(c.errs, err)
}

// run performs every per-atom check and returns the well-formed
// dependency ids for the cross-atom pass.
func (c *checker) run() []string {
	c.checkID()
	c.checkFormat(grammar.FieldType, wantType, func(v string) bool {
		_, ok := grammar.ParseType(v)
		return ok
	})
	c.checkFormat(grammar.FieldScope, wantScope, grammar.IsScope)
	c.checkFormat(grammar.FieldStatus, wantStatus, grammar.IsStatus)
	deps := c.checkDependsOn()
	c.field(grammar.FieldRationale)
	c.checkSections()
	c.checkTestVectors()
	c.checkPrompts()
	return deps
}

// field returns a required field value, recording a MissingFieldError
// when it is absent or empty.
func (c *checker) field(name string) (string, bool) {
	value, ok := c.block.Field(name)
	if !ok {
		c.add(&grammar.MissingFieldError{AtomID: c.block.ID, Field: name})
		return "", false
	}
	if value == "" {
		c.add(&grammar.MissingFieldError{AtomID: c.block.ID, Field: name, Empty: true})
		return "", false
	}
	return value, true
}

func (c *checker) checkID() {
	value, ok := c.field(grammar.FieldID)
	if !ok {
		return
	}
	if !grammar.IsAtomID(value) {
		c.add(&grammar.FieldFormatError{AtomID: c.block.ID, Field: grammar.FieldID, Value: value, Want: wantAtomID})
		return
	}
	if value != c.block.ID {
		c.add(&grammar.IDMismatchError{HeaderID: c.block.ID, FieldID: value})
	}
}

func (c *checker) checkFormat(name, want string, valid func(string) bool) {
	value, ok := c.field(name)
	if ok && !valid(value) {
		c.add(&grammar.FieldFormatError{AtomID: c.block.ID, Field: name, Value: value, Want: want})
	}
}

func (c *checker) checkDependsOn() []string {
	value, ok := c.block.Field(grammar.FieldDependsOn)
	if !ok {
		c.add(&grammar.MissingFieldError{AtomID: c.block.ID, Field: grammar.FieldDependsOn})
		return nil
	}
	ids, bracketed := grammar.ParseDependsOn(value)
	if !bracketed {
		c.add(&grammar.FieldFormatError{AtomID: c.block.ID, Field: grammar.FieldDependsOn, Value: value, Want: wantDependsOn})
		return nil
	}
	var valid []string
	for _, id := range ids {
		if !grammar.IsAtomID(id) {
			c.add(&grammar.FieldFormatError{AtomID: c.block.ID, Field: grammar.FieldDependsOn, Value: id, Want: wantAtomID})
			continue
		}
		valid = append(valid, id)
	}
	return valid
}

func (c *checker) checkSections() {
	actual := c.block.MarkerNames()
	for _, name := range grammar.SectionOrder {
		if !slices.Contains(actual, name) {
			c.add(&grammar.SectionMissingError{AtomID: c.block.ID, Section: name})
		}
	}
	if !slices.Equal(actual, grammar.SectionOrder[:]) {
		c.add(&grammar.SectionOrderError{
			AtomID:   c.block.ID,
			Expected: slices.Clone(grammar.SectionOrder[:]),
			Actual:   actual,
		})
	}
}

func (c *checker) checkTestVectors() {
	content, ok := c.block.Section(grammar.SectionTestVectors)
	if !ok {
		return
	}
	if _, err := grammar.FencedJSON(content); err != nil {
		c.add(&grammar.TestVectorError{AtomID: c.block.ID, Err: err})
	}
}

func (c *checker) checkPrompts() {
	content, ok := c.block.Section(grammar.SectionPrompts)
	if !ok {
		return
	}
	prompts := grammar.Prompts(content)
	var missing []string
	for _, key := range []string{types.PromptGenCode, types.PromptGenTests} {
		if _, ok := prompts[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return
	}
	c.add(&grammar.FieldFormatError{
		AtomID: c.block.ID,
		Field:  grammar.SectionPrompts,
		Value:  strings.Join(missing, ", "),
		Want:   wantPrompts,
	})
}
