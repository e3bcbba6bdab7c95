// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lint

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/atomspec/internal/grammar"
	"github.com/pdiddy/atomspec/internal/testutil/atomdoc"
)

// errorsOf returns the violations in r that match target's type.
func errorsOf[T error](r Report) []T {
	var out []T
	for _, err := range r.Errors() {
		var target T
		if errors.As(err, &target) {
			out = append(out, target)
		}
	}
	return out
}

func TestLintValidDocument(t *testing.T) {
	doc := atomdoc.Doc(
		atomdoc.Valid("RQ-1", "ALG-2"),
		atomdoc.Valid("ALG-2"),
		atomdoc.Valid("QAT-3", "RQ-1").SetField("Type", "Nonfunctional (Reliability)").SetField("Status", "Proposed"),
	)
	r := Lint(doc)
	assert.True(t, r.OK(), "unexpected findings: %v", r.Err())
	assert.Equal(t, 3, r.Atoms)
	assert.NoError(t, r.Err())
}

func TestLintEmptyDocument(t *testing.T) {
	r := Lint("# Empty\n\nNo atoms.\n")
	assert.True(t, r.OK())
	assert.Equal(t, 0, r.Atoms)
}

func TestLintFieldFormats(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"bad type", "Type", "Nonfunctional (Speed)"},
		{"lowercase type", "Type", "functional"},
		{"single segment scope", "Scope", "parser"},
		{"scope with slash", "Scope", "core/parser"},
		{"unknown status", "Status", "Draft"},
		{"unbracketed depends", "DependsOn", "RQ-2"},
		{"malformed id field", "ID", "RQ-one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").SetField(tt.field, tt.value)))
			require.False(t, r.OK())

			formats := errorsOf[*grammar.FieldFormatError](r)
			require.Len(t, formats, 1, "errors: %v", r.Err())
			assert.Equal(t, tt.field, formats[0].Field)
			assert.Equal(t, tt.value, formats[0].Value)
			assert.Equal(t, "RQ-1", formats[0].AtomID)
		})
	}
}

func TestLintMissingAndEmptyFields(t *testing.T) {
	for _, field := range grammar.Fields {
		t.Run("missing "+field, func(t *testing.T) {
			r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").DropField(field)))
			missing := errorsOf[*grammar.MissingFieldError](r)
			require.Len(t, missing, 1)
			assert.Equal(t, field, missing[0].Field)
			assert.False(t, missing[0].Empty)
		})
	}

	r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").SetField("Rationale", "")))
	missing := errorsOf[*grammar.MissingFieldError](r)
	require.Len(t, missing, 1)
	assert.Equal(t, grammar.FieldRationale, missing[0].Field)
	assert.True(t, missing[0].Empty)
}

func TestLintIDMismatchNamesBothValues(t *testing.T) {
	r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").SetField("ID", "RQ-7")))
	mismatches := errorsOf[*grammar.IDMismatchError](r)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "RQ-1", mismatches[0].HeaderID)
	assert.Equal(t, "RQ-7", mismatches[0].FieldID)

	msg := mismatches[0].Error()
	assert.Contains(t, msg, "RQ-1")
	assert.Contains(t, msg, "RQ-7")
}

func TestLintCollectsAllViolationsPerAtom(t *testing.T) {
	a := atomdoc.Valid("RQ-1", "RQ-99").
		SetField("Type", "Banana").
		SetField("Scope", "flat").
		DropField("Status").
		DropSection("Metrics").
		SetSection("TestVectors", "no fence\n").
		SetSection("Prompts", "- GEN-CODE: \"x\"\n")

	r := Lint(atomdoc.Doc(a))
	require.Len(t, r.Findings, 1)

	errs := r.Findings[0].Errors
	assert.Len(t, errorsOf[*grammar.FieldFormatError](r), 3, "type, scope, prompts: %v", r.Err())
	assert.Len(t, errorsOf[*grammar.MissingFieldError](r), 1)
	assert.Len(t, errorsOf[*grammar.SectionMissingError](r), 1)
	assert.Len(t, errorsOf[*grammar.SectionOrderError](r), 1)
	assert.Len(t, errorsOf[*grammar.TestVectorError](r), 1)
	assert.Len(t, errorsOf[*UnresolvedDependencyError](r), 1)
	assert.Len(t, errs, 8)
}

func TestLintAtomsCheckedIndependently(t *testing.T) {
	doc := atomdoc.Doc(
		atomdoc.Valid("RQ-1").SetField("Status", "Draft"),
		atomdoc.Valid("RQ-2"),
		atomdoc.Valid("RQ-3").DropSection("Spec"),
		atomdoc.Valid("RQ-4"),
	)
	r := Lint(doc)
	assert.Equal(t, 4, r.Atoms)
	require.Len(t, r.Findings, 2)

	assert.Equal(t, 0, r.Findings[0].Index)
	assert.Equal(t, "RQ-1", r.Findings[0].AtomID)
	assert.Equal(t, 2, r.Findings[1].Index)
	assert.Equal(t, "RQ-3", r.Findings[1].AtomID)
	assert.Greater(t, r.Findings[1].Line, r.Findings[0].Line)
}

func TestLintSectionOrder(t *testing.T) {
	r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").SwapSections(2, 3)))

	orders := errorsOf[*grammar.SectionOrderError](r)
	require.Len(t, orders, 1, "errors: %v", r.Err())
	assert.Equal(t, grammar.SectionOrder[:], orders[0].Expected)
	assert.Equal(t, []string{"Spec", "Invariants", "Metrics", "Acceptance", "TestVectors", "Prompts"}, orders[0].Actual)
	assert.Empty(t, errorsOf[*grammar.SectionMissingError](r))
	assert.Contains(t, orders[0].Error(), "Expected [Spec, Invariants, Acceptance")
}

func TestLintUnknownSectionBreaksOrder(t *testing.T) {
	r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").SetSection("Notes", "- extra\n")))
	orders := errorsOf[*grammar.SectionOrderError](r)
	require.Len(t, orders, 1)
	assert.Equal(t, "Notes", orders[0].Actual[len(orders[0].Actual)-1])
	assert.Len(t, r.Errors(), 1)
}

func TestLintMissingSection(t *testing.T) {
	for _, section := range grammar.SectionOrder {
		t.Run(section, func(t *testing.T) {
			r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").DropSection(section)))
			missing := errorsOf[*grammar.SectionMissingError](r)
			require.Len(t, missing, 1)
			assert.Equal(t, section, missing[0].Section)
			assert.Len(t, errorsOf[*grammar.SectionOrderError](r), 1)
		})
	}
}

func TestLintTestVectors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"missing fence", "- none\n", grammar.ErrFenceMissing},
		{"number", "```json\n3\n```\n", grammar.ErrFenceShape},
		{"invalid", "```json\n{\"a\":}\n```\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").SetSection("TestVectors", tt.body)))
			tv := errorsOf[*grammar.TestVectorError](r)
			require.Len(t, tv, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, tv[0], tt.wantErr)
			}
		})
	}
}

func TestLintPromptsCompleteness(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ok      bool
		missing string
	}{
		{"both keys", "- GEN-CODE: \"a\"\n- GEN-TESTS: \"b\"\n", true, ""},
		{"reversed order", "- GEN-TESTS: \"b\"\n- GEN-CODE: \"a\"\n", true, ""},
		{"missing tests", "- GEN-CODE: \"a\"\n", false, "GEN-TESTS"},
		{"missing code", "- GEN-TESTS: \"b\"\n- GEN-DOCS: \"c\"\n", false, "GEN-CODE"},
		{"keys in prose only", "GEN-CODE: \"a\" GEN-TESTS: \"b\"\n", false, "GEN-CODE, GEN-TESTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").SetSection("Prompts", tt.body)))
			assert.Equal(t, tt.ok, r.OK(), "errors: %v", r.Err())
			if !tt.ok {
				formats := errorsOf[*grammar.FieldFormatError](r)
				require.Len(t, formats, 1)
				assert.Equal(t, grammar.SectionPrompts, formats[0].Field)
				assert.Equal(t, tt.missing, formats[0].Value)
				assert.Contains(t, formats[0].Error(), `"`+tt.missing+`"`)
			}
		})
	}
}

func TestLintDuplicateIDs(t *testing.T) {
	r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1"), atomdoc.Valid("RQ-1")))
	require.False(t, r.OK())

	dups := errorsOf[*DuplicateIDError](r)
	require.Len(t, dups, 1)
	assert.Equal(t, "RQ-1", dups[0].AtomID)
	assert.Less(t, dups[0].FirstLine, dups[0].Line)

	require.Len(t, r.Findings, 1)
	assert.Equal(t, 1, r.Findings[0].Index)
}

func TestLintDuplicateIDsAnyPosition(t *testing.T) {
	for n := 2; n <= 6; n++ {
		for first := 0; first < n; first++ {
			for second := first + 1; second < n; second++ {
				t.Run(fmt.Sprintf("n=%d/%d,%d", n, first, second), func(t *testing.T) {
					atoms := make([]*atomdoc.Atom, n)
					for i := range atoms {
						atoms[i] = atomdoc.Valid(fmt.Sprintf("RQ-%d", i+1))
					}
					atoms[second] = atomdoc.Valid(fmt.Sprintf("RQ-%d", first+1))

					r := Lint(atomdoc.Doc(atoms...))
					dups := errorsOf[*DuplicateIDError](r)
					require.Len(t, dups, 1)
					assert.Equal(t, fmt.Sprintf("RQ-%d", first+1), dups[0].AtomID)
				})
			}
		}
	}
}

func TestLintTripleDuplicate(t *testing.T) {
	r := Lint(atomdoc.Doc(atomdoc.Valid("ALG-5"), atomdoc.Valid("ALG-5"), atomdoc.Valid("ALG-5")))
	assert.Len(t, errorsOf[*DuplicateIDError](r), 2)
}

func TestLintDependencyResolution(t *testing.T) {
	tests := []struct {
		name       string
		atoms      []*atomdoc.Atom
		unresolved []string
	}{
		{
			name:  "backward reference",
			atoms: []*atomdoc.Atom{atomdoc.Valid("RQ-1"), atomdoc.Valid("RQ-2", "RQ-1")},
		},
		{
			name:  "forward reference",
			atoms: []*atomdoc.Atom{atomdoc.Valid("RQ-1", "RQ-2"), atomdoc.Valid("RQ-2")},
		},
		{
			name:  "self reference",
			atoms: []*atomdoc.Atom{atomdoc.Valid("RQ-1", "RQ-1")},
		},
		{
			name:       "unknown id",
			atoms:      []*atomdoc.Atom{atomdoc.Valid("RQ-1", "RQ-2", "QAT-9")},
			unresolved: []string{"RQ-2", "QAT-9"},
		},
		{
			name: "field id does not declare",
			atoms: []*atomdoc.Atom{
				atomdoc.Valid("RQ-1", "RQ-5"),
				atomdoc.Valid("RQ-2").SetField("ID", "RQ-5"),
			},
			unresolved: []string{"RQ-5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Lint(atomdoc.Doc(tt.atoms...))
			var got []string
			for _, e := range errorsOf[*UnresolvedDependencyError](r) {
				got = append(got, e.Dependency)
			}
			assert.Equal(t, tt.unresolved, got)
		})
	}
}

func TestLintDependencyResolutionIgnoresOrder(t *testing.T) {
	build := func() []*atomdoc.Atom {
		return []*atomdoc.Atom{
			atomdoc.Valid("RQ-1", "ALG-2", "QAT-404"),
			atomdoc.Valid("ALG-2", "QAT-3"),
			atomdoc.Valid("QAT-3", "RQ-1", "RQ-404"),
		}
	}
	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	var want []string
	for i, p := range perms {
		atoms := build()
		ordered := []*atomdoc.Atom{atoms[p[0]], atoms[p[1]], atoms[p[2]]}
		r := Lint(atomdoc.Doc(ordered...))

		var got []string
		for _, e := range errorsOf[*UnresolvedDependencyError](r) {
			got = append(got, e.AtomID+"->"+e.Dependency)
		}
		sort.Strings(got)
		if i == 0 {
			want = got
			assert.Equal(t, []string{"QAT-3->RQ-404", "RQ-1->QAT-404"}, want)
			continue
		}
		assert.Equal(t, want, got, "permutation %v", p)
	}
}

func TestLintMalformedDependencyNotResolved(t *testing.T) {
	r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1", "req-2")))
	formats := errorsOf[*grammar.FieldFormatError](r)
	require.Len(t, formats, 1)
	assert.Equal(t, "req-2", formats[0].Value)
	assert.Empty(t, errorsOf[*UnresolvedDependencyError](r))
}

func TestReportErr(t *testing.T) {
	r := Lint(atomdoc.Doc(atomdoc.Valid("RQ-1").SetField("Status", "Draft"), atomdoc.Valid("RQ-1")))
	err := r.Err()
	require.Error(t, err)
	lines := strings.Split(err.Error(), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[RQ-1] Bad Status"))
	assert.True(t, strings.HasPrefix(lines[1], "[RQ-1] Duplicate atom ID"))
}
