// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/atomspec/internal/catalog"
	"github.com/pdiddy/atomspec/internal/paths"
	"github.com/pdiddy/atomspec/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the atom catalog (store, retrieve, export)",
	Long: `Catalog manages a local SQLite database built from extracted records.
Use subcommands to index records files, query atoms, or export them.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store [records...]",
	Short: "Ingest records files into the catalog",
	Long: `Store reads records files written by extract, grades every atom, and
stores the records with their verdicts. Files that have not changed since
the last run are skipped. Arguments may be glob patterns; with none the
default records file is used.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{types.DefaultRecordsPath}
	}
	files, err := paths.Expand(args)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(loadConfig().Catalog, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), files, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d records file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var catalogRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the catalog with text search and filters",
	Long: `Retrieve searches stored atoms by text (id, title, rationale, and
bullets), type, status, scope, or grading outcome.

Use --id to show one atom and --dependents to list the atoms that name
an id in their DependsOn.`,
	RunE: runCatalogRetrieve,
}

func runCatalogRetrieve(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	dependentsOf, _ := cmd.Flags().GetString("dependents")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	store, err := catalog.NewStore(loadConfig().Catalog, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case id != "":
		e, err := store.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return formatRetrieveOutput(w, []catalog.Entry{e}, jsonOutput)

	case dependentsOf != "":
		ids, err := store.Dependents(cmd.Context(), dependentsOf)
		if err != nil {
			return err
		}
		if jsonOutput {
			if ids == nil {
				ids = []string{}
			}
			return json.NewEncoder(w).Encode(ids)
		}
		if len(ids) == 0 {
			fmt.Fprintf(w, "No atoms depend on %s.\n", dependentsOf)
			return nil
		}
		for _, dep := range ids {
			fmt.Fprintln(w, dep)
		}
		return nil
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --type, --status, --scope, or --failing")
	}

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return formatRetrieveOutput(w, results, jsonOutput)
}

func formatRetrieveOutput(w io.Writer, results []catalog.Entry, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []catalog.Entry{}
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-4s  %-10s  %-20s  %s\n", "ID", "Pass", "Status", "Scope", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range results {
		pass := "yes"
		if !r.Pass {
			pass = "no"
		}
		scope := r.Scope
		if len(scope) > 20 {
			scope = scope[:17] + "..."
		}
		title := r.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Fprintf(w, "%-8s  %-4s  %-10s  %-20s  %s\n", r.ID, pass, r.Status, scope, title)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes every stored atom (or a filtered subset) with its verdict
to export.yaml or export.json in the catalog directory. Supports the same
filter flags as retrieve.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := catalog.NewStore(loadConfig().Catalog, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch types.RecordFormat(format) {
	case types.FormatYAML, "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case types.FormatJSON:
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	atomType, _ := cmd.Flags().GetString("type")
	status, _ := cmd.Flags().GetString("status")
	scope, _ := cmd.Flags().GetString("scope")
	failing, _ := cmd.Flags().GetBool("failing")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Type:       atomType,
		Status:     types.Status(status),
		Scope:      scope,
		Failing:    failing,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "text search (every word must match)")
	cmd.Flags().String("type", "", `filter by type, e.g. "Functional"`)
	cmd.Flags().String("status", "", "filter by status: Proposed, Accepted, Deprecated")
	cmd.Flags().String("scope", "", "filter by scope and its sub-scopes")
	cmd.Flags().Bool("failing", false, "only atoms that fail grading")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "catalog directory (contains atoms.db and exports)")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")
	viper.BindPFlag("catalog.dir", catalogCmd.PersistentFlags().Lookup("catalog-dir"))
	viper.BindPFlag("catalog.max_results", catalogCmd.PersistentFlags().Lookup("max-results"))

	addFilterFlags(catalogRetrieveCmd)
	catalogRetrieveCmd.Flags().String("id", "", "show the atom with this id")
	catalogRetrieveCmd.Flags().String("dependents", "", "list atoms whose DependsOn names this id")
	catalogRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(catalogExportCmd)
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogRetrieveCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
