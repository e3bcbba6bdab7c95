// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/atomspec/internal/extract"
	"github.com/pdiddy/atomspec/internal/schema"
	"github.com/pdiddy/atomspec/pkg/types"
)

// builtinSchema selects the embedded record schema for --schema.
const builtinSchema = "builtin"

var extractCmd = &cobra.Command{
	Use:   "extract <spec.md>",
	Short: "Extract atom records from a specification document",
	Long: `Extract parses every atom in the document into a normalized record and
writes the records as JSON or YAML. Extraction stops at the first malformed
atom; run lint to see every problem at once.

With --schema every record is also checked against a JSON Schema (a file
path, or "builtin" for the embedded schema). If any record fails, each
failure is reported and nothing is written. Use --out - to write records
to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("out", types.DefaultRecordsPath, "records file to write, or - for stdout")
	extractCmd.Flags().String("schema", "", `JSON Schema file to validate records against, or "builtin"`)
	extractCmd.Flags().String("format", "", "record format: json or yaml (default: from --out extension)")

	viper.BindPFlag("extract.out", extractCmd.Flags().Lookup("out"))
	viper.BindPFlag("extract.schema", extractCmd.Flags().Lookup("schema"))
	viper.BindPFlag("extract.format", extractCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().Extract

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	atoms, err := extract.Extract(string(data))
	if err != nil {
		return fmt.Errorf("extracting %s: %w", args[0], err)
	}
	logger.Debug("extracted atoms", "path", args[0], "count", len(atoms))

	if cfg.SchemaPath != "" {
		if err := validateRecords(cmd.ErrOrStderr(), cfg.SchemaPath, atoms); err != nil {
			return err
		}
	}

	out := cfg.OutPath
	if out == "" {
		out = types.DefaultRecordsPath
	}
	format := cfg.Format
	if format == "" {
		format = extract.FormatFor(out)
	}

	if out == "-" {
		return extract.WriteRecords(cmd.OutOrStdout(), atoms, format)
	}
	if err := extract.WriteFile(out, atoms, format); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d atom(s) to %s\n", len(atoms), out)
	return nil
}

// validateRecords checks every record and prints one line per failure.
func validateRecords(w io.Writer, schemaPath string, atoms []types.Atom) error {
	var (
		v   *schema.Validator
		err error
	)
	if schemaPath == builtinSchema {
		v, err = schema.CompileBuiltin()
	} else {
		v, err = schema.Compile(schemaPath)
	}
	if err != nil {
		return err
	}

	errs := v.ValidateAll(atoms)
	for _, e := range errs {
		fmt.Fprintln(w, e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("schema validation failed for %d atom(s)", len(errs))
	}
	return nil
}
