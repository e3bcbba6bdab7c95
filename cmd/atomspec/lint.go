// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/atomspec/internal/lint"
	"github.com/pdiddy/atomspec/internal/paths"
	"github.com/pdiddy/atomspec/internal/watch"
)

var lintCmd = &cobra.Command{
	Use:   "lint <spec.md>...",
	Short: "Check specification documents and report every violation",
	Long: `Lint checks each atom's fields, section order, TestVectors block, and
prompts, then checks the document for duplicate ids and DependsOn entries
that name no atom. Every violation is listed; the command fails if there
is at least one.

Arguments may be glob patterns such as "docs/**/*.md". Each document is
linted on its own. With --watch the documents are linted again whenever
they change, until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().Bool("watch", false, "lint again whenever a document changes")
	lintCmd.Flags().Duration("debounce", watch.DefaultDebounce, "wait this long for more changes before linting again")

	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	docs, err := paths.Expand(args)
	if err != nil {
		return err
	}
	watchMode, _ := cmd.Flags().GetBool("watch")
	w := cmd.OutOrStdout()

	var failed int
	for _, doc := range docs {
		if err := lintFile(w, doc, len(docs) > 1); err != nil {
			failed++
		}
	}

	if watchMode {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		return watchLint(cmd.Context(), w, docs, debounce)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed lint", failed, len(docs))
	}
	return nil
}

// lintFile lints one document and prints the result, headed by the file
// name when several documents are linted together.
func lintFile(w io.Writer, path string, named bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "failed  %s: %v\n", path, err)
		return fmt.Errorf("reading %s: %w", path, err)
	}

	report := lint.Lint(string(data))
	logger.Debug("linted document", "path", path, "atoms", report.Atoms, "findings", len(report.Findings))

	if named {
		fmt.Fprintf(w, "==> %s\n", path)
	}
	return printReport(w, report)
}

// watchLint relints each document as it changes until interrupted.
func watchLint(ctx context.Context, w io.Writer, docs []string, debounce time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	watcher, err := watch.New(docs, debounce, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Fprintf(w, "Watching %d document(s). Press Ctrl-C to stop.\n", len(docs))
	return watcher.Run(ctx, func(path string) { relint(w, path) })
}

// relint is the watch callback. The report is already printed, so a
// failing document is only logged and watching continues.
func relint(w io.Writer, path string) {
	fmt.Fprintln(w)
	if err := lintFile(w, path, true); err != nil {
		logger.Debug("document still fails lint", "path", path, "error", err)
	}
}

// printReport writes the lint result and returns an error when the
// document has violations.
func printReport(w io.Writer, report lint.Report) error {
	if report.OK() {
		fmt.Fprintf(w, "OK - %d atom(s) validated\n", report.Atoms)
		return nil
	}

	errs := report.Errors()
	fmt.Fprintln(w, "Spec lint failed:")
	for _, e := range errs {
		fmt.Fprintf(w, " - %v\n", e)
	}
	return fmt.Errorf("%d violation(s) in %d atom(s)", len(errs), len(report.Findings))
}
