// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAtomID(t *testing.T) {
	valid := []string{"RQ-1", "ALG-20", "QAT-007"}
	invalid := []string{"", "RQ", "RQ-", "RQ1", "rq-1", "FOO-1", "RQ-1a", "RQ--1", "RQ-1 ", "RQ-1,ALG-2"}
	for _, s := range valid {
		assert.True(t, IsAtomID(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsAtomID(s), s)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		value string
		want  TypeSpec
		ok    bool
	}{
		{"Functional", TypeSpec{Category: TypeFunctional}, true},
		{"Nonfunctional (Security)", TypeSpec{Category: TypeNonfunctional, Subcategory: "Security"}, true},
		{"Nonfunctional (Other)", TypeSpec{Category: TypeNonfunctional, Subcategory: "Other"}, true},
		{"Nonfunctional", TypeSpec{}, false},
		{"Nonfunctional (Speed)", TypeSpec{}, false},
		{"Nonfunctional(Security)", TypeSpec{}, false},
		{"Nonfunctional (security)", TypeSpec{}, false},
		{"functional", TypeSpec{}, false},
		{"Functional (Security)", TypeSpec{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := ParseType(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsScope(t *testing.T) {
	valid := []string{"core.parser", "a.b.c", "api-v2", "svc.api-v2.auth", "A1.B2"}
	invalid := []string{"", "core", "core.", ".core", "core..parser", "core.pa rser", "core/parser", "core.-x"}
	for _, s := range valid {
		assert.True(t, IsScope(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsScope(s), s)
	}
}

func TestIsStatus(t *testing.T) {
	for _, s := range []string{"Proposed", "Accepted", "Deprecated"} {
		assert.True(t, IsStatus(s), s)
	}
	for _, s := range []string{"", "accepted", "Draft", "Accepted "} {
		assert.False(t, IsStatus(s), s)
	}
}

func TestParseDependsOn(t *testing.T) {
	tests := []struct {
		value     string
		ids       []string
		bracketed bool
	}{
		{"[]", []string{}, true},
		{"", []string{}, false},
		{"[RQ-1]", []string{"RQ-1"}, true},
		{"[RQ-1, ALG-2 ,QAT-3]", []string{"RQ-1", "ALG-2", "QAT-3"}, true},
		{"[RQ-1,,]", []string{"RQ-1"}, true},
		{"RQ-1, RQ-2", []string{"RQ-1", "RQ-2"}, false},
		{"[RQ-1", []string{"[RQ-1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			ids, bracketed := ParseDependsOn(tt.value)
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, tt.bracketed, bracketed)
		})
	}
}
