// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/atomspec/pkg/types"
)

// ErrNotFound is returned when an atom id is not in the catalog.
var ErrNotFound = errors.New("atom not found")

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is matched case-insensitively against id, title, rationale,
	// and bullet text. Every whitespace-separated word must appear.
	Query string

	// Type filters by the exact Type value.
	Type string

	// Status filters by lifecycle state.
	Status types.Status

	// Scope matches the scope itself and every scope nested under it, so
	// "core" matches "core.parser".
	Scope string

	// Failing keeps only atoms the grader rejected.
	Failing bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Type == "" && q.Status == "" && q.Scope == "" && !q.Failing
}

// Entry is a stored atom with its grader verdict.
type Entry struct {
	types.Atom `yaml:",inline"`

	Pass    bool     `json:"pass" yaml:"pass"`
	Reasons []string `json:"reasons" yaml:"reasons"`
	Source  string   `json:"source" yaml:"source"`
}

const entryColumns = `record, pass, reasons, source`

// Retrieve returns atoms matching opts, ordered by source file and then by
// position within that file.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT ` + entryColumns + ` FROM atoms WHERE 1=1`)

	for _, word := range strings.Fields(strings.ToLower(opts.Query)) {
		qb.WriteString(` AND search_text LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(word)+"%")
	}

	if opts.Type != "" {
		qb.WriteString(` AND type = ?`)
		args = append(args, opts.Type)
	}

	if opts.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(opts.Status))
	}

	if opts.Scope != "" {
		qb.WriteString(` AND (scope = ? OR scope LIKE ? ESCAPE '\')`)
		args = append(args, opts.Scope, escapeLike(opts.Scope)+".%")
	}

	if opts.Failing {
		qb.WriteString(` AND pass = 0`)
	}

	qb.WriteString(` ORDER BY source, ordinal LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Get returns the stored atom with the given id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM atoms WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return e, err
}

// Dependents returns the ids of atoms whose DependsOn lists id, sorted.
func (s *Store) Dependents(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id FROM atoms a
		 WHERE EXISTS (SELECT 1 FROM json_each(a.depends_on) WHERE value = ?)
		 ORDER BY a.id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying dependents of %s: %w", id, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var dep string
		if err := rows.Scan(&dep); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		ids = append(ids, dep)
	}
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e           Entry
		record      string
		reasonsJSON string
	)
	if err := row.Scan(&record, &e.Pass, &reasonsJSON, &e.Source); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scanning row: %w", err)
	}
	if err := json.Unmarshal([]byte(record), &e.Atom); err != nil {
		return Entry{}, fmt.Errorf("decoding stored record: %w", err)
	}
	if err := json.Unmarshal([]byte(reasonsJSON), &e.Reasons); err != nil {
		return Entry{}, fmt.Errorf("decoding stored reasons: %w", err)
	}
	if e.Reasons == nil {
		e.Reasons = []string{}
	}
	return e, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
