// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grammar

import (
	"fmt"
	"strings"
)

// Structural violations shared by the extractor and the linter. Every
// message starts with the atom id in brackets.

// MissingFieldError reports a required field line that is absent, or
// present with an empty value.
type MissingFieldError struct {
	AtomID string
	Field  string
	Empty  bool
}

func (e *MissingFieldError) Error() string {
	if e.Empty {
		return fmt.Sprintf("[%s] Empty field: %s", e.AtomID, e.Field)
	}
	return fmt.Sprintf("[%s] Missing field: %s", e.AtomID, e.Field)
}

// IDMismatchError reports an ID field that differs from the header id.
type IDMismatchError struct {
	HeaderID string
	FieldID  string
}

func (e *IDMismatchError) Error() string {
	return fmt.Sprintf("[%s] ID line (%s) != header ID (%s)", e.HeaderID, e.FieldID, e.HeaderID)
}

// FieldFormatError reports a field value outside its allowed form.
type FieldFormatError struct {
	AtomID string
	Field  string
	Value  string

	// Want describes the accepted form.
	Want string
}

func (e *FieldFormatError) Error() string {
	return fmt.Sprintf("[%s] Bad %s %q: want %s", e.AtomID, e.Field, e.Value, e.Want)
}

// SectionMissingError reports a required section with no marker.
type SectionMissingError struct {
	AtomID  string
	Section string
}

func (e *SectionMissingError) Error() string {
	return fmt.Sprintf("[%s] Missing section **%s**", e.AtomID, e.Section)
}

// SectionOrderError reports section markers that differ from the
// canonical order.
type SectionOrderError struct {
	AtomID   string
	Expected []string
	Actual   []string
}

func (e *SectionOrderError) Error() string {
	return fmt.Sprintf("[%s] Section order invalid. Expected [%s], got [%s]",
		e.AtomID, strings.Join(e.Expected, ", "), strings.Join(e.Actual, ", "))
}

// TestVectorError reports a TestVectors section without a usable fenced
// JSON block.
type TestVectorError struct {
	AtomID string
	Err    error
}

func (e *TestVectorError) Error() string {
	return fmt.Sprintf("[%s] TestVectors %v", e.AtomID, e.Err)
}

func (e *TestVectorError) Unwrap() error {
	return e.Err
}
