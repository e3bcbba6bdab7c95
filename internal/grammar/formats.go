// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grammar

import (
	"slices"
	"strings"

	"github.com/pdiddy/atomspec/pkg/types"
)

// IDPrefixes are the atom kinds: requirement, algorithm, quality attestation.
var IDPrefixes = [...]string{"RQ", "ALG", "QAT"}

// Type categories.
const (
	TypeFunctional    = "Functional"
	TypeNonfunctional = "Nonfunctional"
)

// Subcategories qualify a Nonfunctional type.
var Subcategories = [...]string{
	"Security",
	"Privacy",
	"Performance",
	"Reliability",
	"Cost",
	"Operability",
	"Compliance",
	"Other",
}

// TypeSpec is a parsed Type value.
type TypeSpec struct {
	Category    string
	Subcategory string
}

// IsAtomID reports whether s is "<RQ|ALG|QAT>-<digits>".
func IsAtomID(s string) bool {
	prefix, digits, ok := strings.Cut(s, "-")
	if !ok || digits == "" || !slices.Contains(IDPrefixes[:], prefix) {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return false
		}
	}
	return true
}

// ParseType parses "Functional" or "Nonfunctional (<Subcategory>)".
func ParseType(s string) (TypeSpec, bool) {
	if s == TypeFunctional {
		return TypeSpec{Category: TypeFunctional}, true
	}
	rest, ok := strings.CutPrefix(s, TypeNonfunctional+" (")
	if !ok {
		return TypeSpec{}, false
	}
	sub, ok := strings.CutSuffix(rest, ")")
	if !ok || !slices.Contains(Subcategories[:], sub) {
		return TypeSpec{}, false
	}
	return TypeSpec{Category: TypeNonfunctional, Subcategory: sub}, true
}

// IsScope reports whether s is two or more alphanumeric segments joined
// by '.' or '-'.
func IsScope(s string) bool {
	segments, segLen := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isDigit(c) || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
			segLen++
		case c == '.' || c == '-':
			if segLen == 0 {
				return false
			}
			segments++
			segLen = 0
		default:
			return false
		}
	}
	return segLen > 0 && segments >= 1
}

// IsStatus reports whether s is one of the lifecycle states.
func IsStatus(s string) bool {
	switch types.Status(s) {
	case types.StatusProposed, types.StatusAccepted, types.StatusDeprecated:
		return true
	}
	return false
}

// ParseDependsOn splits a DependsOn value into trimmed, non-empty items.
// Surrounding brackets are removed when present; bracketed reports
// whether they were. The result is never nil.
func ParseDependsOn(value string) (ids []string, bracketed bool) {
	inner := strings.TrimSpace(value)
	if len(inner) >= 2 && inner[0] == '[' && inner[len(inner)-1] == ']' {
		bracketed = true
		inner = inner[1 : len(inner)-1]
	}
	ids = []string{}
	for _, part := range strings.Split(inner, ",") {
		if item := strings.TrimSpace(part); item != "" {
			ids = append(ids, item)
		}
	}
	return ids, bracketed
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
