//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for atomspec developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/atomspec/internal/grammar"
)

// Default target when mage is run without arguments.
var Default = Build

// projectDirs lists the working directories the tools write to.
var projectDirs = []string{
	"tools/out",
	"catalog",
}

// Init creates the working directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "atomspec"
	cmdPkg  = "./cmd/atomspec"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + buildVersion()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// buildVersion returns the git description of HEAD, or "dev" outside a
// repository.
func buildVersion() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Spec groups the document pipeline targets. The document defaults to
// spec.md; set SPEC to use another file.
type Spec mg.Namespace

func specFile() string {
	if f := os.Getenv("SPEC"); f != "" {
		return f
	}
	return "spec.md"
}

func atomspec(args ...string) error {
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Lint reports every violation in the document.
func (Spec) Lint() error {
	mg.Deps(Build)
	return atomspec("lint", specFile())
}

// Extract writes the document's records to tools/out/atoms.json.
func (Spec) Extract() error {
	mg.Deps(Build)
	return atomspec("extract", specFile())
}

// Grade scores the extracted records.
func (Spec) Grade() error {
	mg.Deps(Build)
	return atomspec("grade")
}

// Check lints, extracts, and grades the document in order.
func (Spec) Check() {
	mg.SerialDeps(Spec.Lint, Spec.Extract, Spec.Grade)
}

// Catalog indexes the extracted records.
func (Spec) Catalog() error {
	mg.SerialDeps(Spec.Extract)
	return atomspec("catalog", "store")
}

// Stats prints project metrics: Go production/test lines and atom counts
// per Markdown document under docs/ and the root spec.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)

	docs, err := filepath.Glob(filepath.Join("docs", "*.md"))
	if err != nil {
		return err
	}
	if _, err := os.Stat(specFile()); err == nil {
		docs = append([]string{specFile()}, docs...)
	}
	for _, doc := range docs {
		data, err := os.ReadFile(doc)
		if err != nil {
			return fmt.Errorf("reading %s: %w", doc, err)
		}
		fmt.Printf("Atoms (%s): %d\n", doc, len(grammar.FindHeaders(string(data))))
	}
	return nil
}

// countGoLines walks the directory tree and counts non-blank lines in Go
// files, skipping directories whose names start with an underscore. If
// testOnly is true, count only _test.go files; otherwise count non-test
// .go files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
