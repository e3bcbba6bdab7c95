// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Status is the lifecycle state declared on an atom's Status line.
type Status string

const (
	StatusProposed   Status = "Proposed"
	StatusAccepted   Status = "Accepted"
	StatusDeprecated Status = "Deprecated"
)

// Prompt keys every atom is expected to carry in its Prompts section.
const (
	PromptGenCode  = "GEN-CODE"
	PromptGenTests = "GEN-TESTS"
)

// Atom is the normalized record extracted from one atom block. Field order
// here is the key order of the JSON and YAML output.
type Atom struct {
	// ID is the atom identifier (e.g. "RQ-12", "ALG-3", "QAT-1").
	ID string `json:"id" yaml:"id"`

	// Title is the free text after the ID on the header line.
	Title string `json:"title" yaml:"title"`

	// Type is "Functional" or "Nonfunctional (<SubCategory>)", verbatim.
	Type string `json:"type" yaml:"type"`

	// Scope is a dotted path such as "core.parser".
	Scope string `json:"scope" yaml:"scope"`

	Status Status `json:"status" yaml:"status"`

	// DependsOn lists referenced atom ids in declaration order. Never nil
	// in extracted records.
	DependsOn []string `json:"depends_on" yaml:"depends_on"`

	Rationale string `json:"rationale" yaml:"rationale"`

	Spec       []string `json:"spec" yaml:"spec"`
	Invariants []string `json:"invariants" yaml:"invariants"`
	Acceptance []string `json:"acceptance" yaml:"acceptance"`
	Metrics    []string `json:"metrics" yaml:"metrics"`

	// TestVectors is the JSON array or object from the fenced block.
	TestVectors JSONValue `json:"testvectors" yaml:"testvectors"`

	// Prompts maps prompt keys (GEN-CODE, GEN-TESTS) to instructions.
	Prompts map[string]string `json:"prompts" yaml:"prompts"`
}

// HasPrompt reports whether the atom declares the given prompt key.
func (a Atom) HasPrompt(key string) bool {
	_, ok := a.Prompts[key]
	return ok
}

// Verdict is the grader's outcome for one atom.
type Verdict struct {
	ID   string `json:"id" yaml:"id"`
	Pass bool   `json:"pass" yaml:"pass"`

	// Reasons holds one message per failed check, in check order.
	// Empty (never nil) when Pass is true.
	Reasons []string `json:"reasons" yaml:"reasons"`
}
