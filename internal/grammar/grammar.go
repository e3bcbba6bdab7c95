// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grammar scans atom specification documents. It locates atom
// headers, field lines, and bolded section markers, and parses section
// bodies (bullets, fenced JSON, prompt mappings). It applies no failure
// policy of its own: the extractor and the linter both consume it and
// decide what to do with what it finds.
//
// The scanner is line oriented. A document is split into lines once per
// block; every rule below matches a whole line.
package grammar

import "strings"

// Field names recognized on field lines.
const (
	FieldID        = "ID"
	FieldType      = "Type"
	FieldScope     = "Scope"
	FieldStatus    = "Status"
	FieldDependsOn = "DependsOn"
	FieldRationale = "Rationale"
)

// Fields lists the required fields in the order they are checked.
var Fields = [...]string{FieldID, FieldType, FieldScope, FieldStatus, FieldDependsOn, FieldRationale}

// Section names recognized on marker lines.
const (
	SectionSpec        = "Spec"
	SectionInvariants  = "Invariants"
	SectionAcceptance  = "Acceptance"
	SectionMetrics     = "Metrics"
	SectionTestVectors = "TestVectors"
	SectionPrompts     = "Prompts"
)

// SectionOrder is the canonical section order of every atom.
var SectionOrder = [...]string{
	SectionSpec,
	SectionInvariants,
	SectionAcceptance,
	SectionMetrics,
	SectionTestVectors,
	SectionPrompts,
}

const (
	headerPrefix = "### "
	bulletPrefix = "- "
	markerFence  = "**"
	jsonFence    = "```json"
	closeFence   = "```"
)

// line is one line of scanned text.
type line struct {
	// offset is the byte offset of the line start within the scanned text.
	offset int

	// text is the line without its terminator or a trailing \r.
	text string
}

// splitLines breaks text into lines. A trailing newline does not produce
// an empty final line.
func splitLines(text string) []line {
	var lines []line
	start := 0
	for start < len(text) {
		n := strings.IndexByte(text[start:], '\n')
		if n < 0 {
			lines = append(lines, line{offset: start, text: strings.TrimSuffix(text[start:], "\r")})
			break
		}
		lines = append(lines, line{offset: start, text: strings.TrimSuffix(text[start:start+n], "\r")})
		start += n + 1
	}
	return lines
}

func joinLines(lines []line) string {
	parts := make([]string, len(lines))
	for i, ln := range lines {
		parts[i] = ln.text
	}
	return strings.Join(parts, "\n")
}
