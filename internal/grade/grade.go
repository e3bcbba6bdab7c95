// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grade scores extracted atom records against documentation
// quality heuristics. Grading never fails: every atom gets a verdict and
// a possibly empty list of reasons.
package grade

import (
	"strings"

	"github.com/pdiddy/atomspec/pkg/types"
)

// Reasons reported for failed checks.
const (
	ReasonAcceptance  = "Acceptance lacks a concrete Given/When/Then example"
	ReasonTestVectors = "Missing or empty TestVectors"
	ReasonInvariants  = "Missing Invariants"
	ReasonPrompts     = "Prompts must include GEN-CODE and GEN-TESTS"
)

// check is one heuristic. Checks run in slice order, which is the order
// of the reasons in a verdict.
type check struct {
	reason string
	pass   func(types.Atom) bool
}

var checks = []check{
	{ReasonAcceptance, hasScenario},
	{ReasonTestVectors, hasTestVectors},
	{ReasonInvariants, func(a types.Atom) bool { return len(a.Invariants) > 0 }},
	{ReasonPrompts, func(a types.Atom) bool {
		return a.HasPrompt(types.PromptGenCode) && a.HasPrompt(types.PromptGenTests)
	}},
}

// Summary holds the verdicts of a grading run.
type Summary struct {
	Verdicts []types.Verdict
	Failed   int
}

// Total returns the number of atoms graded.
func (s Summary) Total() int {
	return len(s.Verdicts)
}

// HasFailures reports whether any atom failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Grade returns the verdict for one atom.
func Grade(a types.Atom) types.Verdict {
	reasons := []string{}
	for _, c := range checks {
		if !c.pass(a) {
			reasons = append(reasons, c.reason)
		}
	}
	return types.Verdict{ID: a.ID, Pass: len(reasons) == 0, Reasons: reasons}
}

// GradeAll grades atoms in order.
func GradeAll(atoms []types.Atom) Summary {
	s := Summary{Verdicts: make([]types.Verdict, 0, len(atoms))}
	for _, a := range atoms {
		v := Grade(a)
		if !v.Pass {
			s.Failed++
		}
		s.Verdicts = append(s.Verdicts, v)
	}
	return s
}

// hasScenario reports whether one Acceptance bullet mentions given, when,
// and then, in any case and order, not necessarily as whole words.
func hasScenario(a types.Atom) bool {
	for _, bullet := range a.Acceptance {
		lower := strings.ToLower(bullet)
		if strings.Contains(lower, "given") && strings.Contains(lower, "when") && strings.Contains(lower, "then") {
			return true
		}
	}
	return false
}

// hasTestVectors accepts any present value except an empty array. An
// empty object passes.
func hasTestVectors(a types.Atom) bool {
	switch a.TestVectors.Kind() {
	case types.JSONAbsent, types.JSONNull:
		return false
	case types.JSONArray:
		return a.TestVectors.Len() > 0
	}
	return true
}
