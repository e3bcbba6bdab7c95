// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/atomspec/internal/extract"
	"github.com/pdiddy/atomspec/internal/testutil/atomdoc"
	"github.com/pdiddy/atomspec/pkg/types"
)

func passingAtom() types.Atom {
	return types.Atom{
		ID:          "RQ-1",
		Invariants:  []string{"order is preserved"},
		Acceptance:  []string{"Given a valid doc, When extracted, Then a record is produced"},
		TestVectors: types.JSONValue(`[{"a":1}]`),
		Prompts:     map[string]string{"GEN-CODE": "x", "GEN-TESTS": "y"},
	}
}

func TestGradeExtractedScenario(t *testing.T) {
	atoms, err := extract.Extract(atomdoc.Doc(atomdoc.Valid("RQ-1")))
	require.NoError(t, err)
	require.Len(t, atoms, 1)

	v := Grade(atoms[0])
	assert.Equal(t, "RQ-1", v.ID)
	assert.True(t, v.Pass)
	assert.NotNil(t, v.Reasons)
	assert.Empty(t, v.Reasons)
}

func TestGradeEmptyInvariantsOnly(t *testing.T) {
	atoms, err := extract.Extract(atomdoc.Doc(atomdoc.Valid("RQ-1").SetSection("Invariants", "")))
	require.NoError(t, err)

	v := Grade(atoms[0])
	assert.False(t, v.Pass)
	assert.Equal(t, []string{"Missing Invariants"}, v.Reasons)
}

func TestGradeAcceptance(t *testing.T) {
	tests := []struct {
		name       string
		acceptance []string
		pass       bool
	}{
		{"canonical", []string{"Given x, When y, Then z"}, true},
		{"lowercase any order", []string{"then z when y given x"}, true},
		{"substrings count", []string{"forgiven elsewhen thenceforth"}, true},
		{"split across bullets", []string{"Given x", "When y, Then z"}, false},
		{"missing then", []string{"Given x, When y"}, false},
		{"second bullet matches", []string{"nothing", "GIVEN a WHEN b THEN c"}, true},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := passingAtom()
			a.Acceptance = tt.acceptance
			v := Grade(a)
			assert.Equal(t, tt.pass, v.Pass)
			if !tt.pass {
				assert.Equal(t, []string{ReasonAcceptance}, v.Reasons)
			}
		})
	}
}

// An empty object passes while an empty array fails; pinned as-is.
func TestGradeTestVectorsEmptyShapes(t *testing.T) {
	tests := []struct {
		name    string
		vectors types.JSONValue
		pass    bool
	}{
		{"non-empty array", types.JSONValue(`[1]`), true},
		{"empty array", types.JSONValue(`[]`), false},
		{"empty array with spaces", types.JSONValue(`[ ]`), false},
		{"empty object", types.JSONValue(`{}`), true},
		{"non-empty object", types.JSONValue(`{"k":1}`), true},
		{"absent", nil, false},
		{"null", types.JSONValue(`null`), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := passingAtom()
			a.TestVectors = tt.vectors
			v := Grade(a)
			assert.Equal(t, tt.pass, v.Pass)
			if !tt.pass {
				assert.Equal(t, []string{ReasonTestVectors}, v.Reasons)
			}
		})
	}
}

func TestGradePrompts(t *testing.T) {
	tests := []struct {
		name    string
		prompts map[string]string
		pass    bool
	}{
		{"both", map[string]string{"GEN-CODE": "", "GEN-TESTS": ""}, true},
		{"extra keys", map[string]string{"GEN-CODE": "a", "GEN-TESTS": "b", "GEN-DOCS": "c"}, true},
		{"code only", map[string]string{"GEN-CODE": "a"}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := passingAtom()
			a.Prompts = tt.prompts
			assert.Equal(t, tt.pass, Grade(a).Pass)
		})
	}
}

func TestGradeReasonOrder(t *testing.T) {
	v := Grade(types.Atom{ID: "QAT-9"})
	assert.False(t, v.Pass)
	assert.Equal(t, []string{ReasonAcceptance, ReasonTestVectors, ReasonInvariants, ReasonPrompts}, v.Reasons)
}

func TestGradeAll(t *testing.T) {
	bad := passingAtom()
	bad.ID = "RQ-2"
	bad.Invariants = nil

	s := GradeAll([]types.Atom{passingAtom(), bad})
	assert.Equal(t, 2, s.Total())
	assert.Equal(t, 1, s.Failed)
	assert.True(t, s.HasFailures())
	assert.Equal(t, "RQ-1", s.Verdicts[0].ID)
	assert.Equal(t, "RQ-2", s.Verdicts[1].ID)

	empty := GradeAll(nil)
	assert.Equal(t, 0, empty.Total())
	assert.False(t, empty.HasFailures())
}
