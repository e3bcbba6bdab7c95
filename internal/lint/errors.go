// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lint

import "fmt"

// DuplicateIDError reports a header id already used by an earlier atom.
type DuplicateIDError struct {
	AtomID string

	// Line is the header line of the repeated atom; FirstLine is the
	// header line of the first atom with this id.
	Line      int
	FirstLine int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("[%s] Duplicate atom ID: %s (line %d, first declared on line %d)",
		e.AtomID, e.AtomID, e.Line, e.FirstLine)
}

// UnresolvedDependencyError reports a DependsOn entry that names no
// atom header in the document.
type UnresolvedDependencyError struct {
	AtomID     string
	Dependency string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("[%s] Unresolved DependsOn: %s", e.AtomID, e.Dependency)
}
