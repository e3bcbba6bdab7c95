// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps extracted atom records in a SQLite database so they
// can be searched, filtered by verdict, and traced through DependsOn.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/atomspec/internal/extract"
	"github.com/pdiddy/atomspec/internal/grade"
	"github.com/pdiddy/atomspec/pkg/types"
)

const (
	dbFile            = "atoms.db"
	defaultMaxResults = 20
)

// Store manages the catalog database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	logger     *slog.Logger
}

// NewStore opens or creates the catalog at cfg.CatalogDir/atoms.db and
// creates the schema if it does not exist. A nil logger uses slog.Default.
func NewStore(cfg types.CatalogConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CatalogDir == "" {
		return nil, fmt.Errorf("catalog directory not configured")
	}
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.CatalogDir,
		maxResults: maxResults,
		logger:     logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("catalog opened", "path", dbPath)
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS atoms (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			scope TEXT NOT NULL,
			status TEXT NOT NULL,
			depends_on TEXT NOT NULL,
			record TEXT NOT NULL,
			pass INTEGER NOT NULL,
			reasons TEXT NOT NULL,
			source TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			search_text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_atoms_source ON atoms(source, ordinal)`,
		`CREATE INDEX IF NOT EXISTS idx_atoms_status ON atoms(status)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			source TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from a catalog ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of records files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// IngestFile loads one records file. See Ingest.
func (s *Store) IngestFile(ctx context.Context, path string, w io.Writer) (IngestSummary, error) {
	return s.Ingest(ctx, []string{path}, w)
}

// Ingest loads records files (JSON or YAML, as written by extract) into the
// catalog. A file whose modification time is unchanged since its last ingest
// is skipped; otherwise every atom from that file is replaced and graded
// again. On any change it rewrites export.yaml.
func (s *Store) Ingest(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		source, err := filepath.Abs(path)
		if err != nil {
			source = filepath.Clean(path)
		}

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE source = ?`, source,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", path)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		atoms, err := extract.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		if err := s.ingestSource(ctx, source, atoms, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d atoms)\n", path, len(atoms))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d atoms)\n", path, len(atoms))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestSource(ctx context.Context, source string, atoms []types.Atom, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM atoms WHERE source = ?`, source); err != nil {
		return fmt.Errorf("deleting old atoms: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO atoms (id, title, type, scope, status, depends_on, record, pass, reasons, source, ordinal, search_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, type=excluded.type, scope=excluded.scope,
			status=excluded.status, depends_on=excluded.depends_on, record=excluded.record,
			pass=excluded.pass, reasons=excluded.reasons, source=excluded.source,
			ordinal=excluded.ordinal, search_text=excluded.search_text`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range atoms {
		record, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encoding atom %s: %w", a.ID, err)
		}
		deps := a.DependsOn
		if deps == nil {
			deps = []string{}
		}
		depsJSON, _ := json.Marshal(deps)

		v := grade.Grade(a)
		reasonsJSON, _ := json.Marshal(v.Reasons)

		_, err = stmt.ExecContext(ctx,
			a.ID, a.Title, a.Type, a.Scope, string(a.Status),
			string(depsJSON), string(record), v.Pass, string(reasonsJSON),
			source, i, searchText(a),
		)
		if err != nil {
			return fmt.Errorf("inserting atom %s: %w", a.ID, err)
		}
		s.logger.Debug("catalog atom stored", "id", a.ID, "pass", v.Pass, "source", source)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (source, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		source, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}

// searchText is the lowercased text a substring query matches against.
func searchText(a types.Atom) string {
	parts := []string{a.ID, a.Title, a.Rationale}
	for _, bullets := range [][]string{a.Spec, a.Invariants, a.Acceptance, a.Metrics} {
		parts = append(parts, bullets...)
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}
