// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/atomspec/internal/extract"
	"github.com/pdiddy/atomspec/internal/grade"
	"github.com/pdiddy/atomspec/pkg/types"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Score extracted atom records for documentation quality",
	Long: `Grade reads a records file written by extract and checks each atom for a
Given/When/Then acceptance example, non-empty TestVectors, at least one
invariant, and both GEN-CODE and GEN-TESTS prompts. Every atom gets a
verdict; the command fails if any atom fails.`,
	Args: cobra.NoArgs,
	RunE: runGrade,
}

func init() {
	gradeCmd.Flags().String("atoms", types.DefaultRecordsPath, "records file to grade (JSON or YAML)")
	gradeCmd.Flags().Bool("json", false, "output verdicts as JSON")

	rootCmd.AddCommand(gradeCmd)
}

func runGrade(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("atoms")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	atoms, err := extract.ReadFile(path)
	if err != nil {
		return err
	}

	summary := grade.GradeAll(atoms)
	logger.Debug("graded atoms", "path", path, "total", summary.Total(), "failed", summary.Failed)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary.Verdicts); err != nil {
			return err
		}
	} else {
		printVerdicts(cmd.OutOrStdout(), summary)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d atom(s) failed grading", summary.Failed)
	}
	return nil
}

func printVerdicts(w io.Writer, summary grade.Summary) {
	for _, v := range summary.Verdicts {
		status := "PASS"
		if !v.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(w, "[%s] %s\n", status, v.ID)
		for _, r := range v.Reasons {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}

	if summary.HasFailures() {
		fmt.Fprintf(w, "Grader: %d atom(s) failed\n", summary.Failed)
		return
	}
	fmt.Fprintf(w, "Grader: All %d atom(s) passed\n", summary.Total())
}
