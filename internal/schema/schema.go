// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema checks extracted atom records against a JSON Schema.
// It is a pass/fail oracle: each record is validated independently and
// every failure is reported.
package schema

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/atomspec/internal/httputil"
	"github.com/pdiddy/atomspec/pkg/types"
)

// Builtin is the default record schema. It mirrors the rules the linter
// enforces on the markup.
//
//go:embed atom.schema.json
var Builtin []byte

const builtinURL = "https://atomspec.invalid/schema/atom.schema.json"

// SchemaValidationError reports a record rejected by the schema.
type SchemaValidationError struct {
	AtomID string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("Schema validation failed for %s: %v", e.AtomID, e.Err)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// Validator validates atom records against one compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// httpClient fetches schemas named by http(s) URL.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// loadURL resolves schema documents: http(s) through httputil.Fetch,
// everything else through the library's file loader.
func loadURL(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return httputil.Fetch(context.Background(), httpClient, s)
	}
	return jsonschema.LoadURL(s)
}

// Compile loads and compiles the JSON Schema at path, a file path or an
// http(s) URL. Remote $ref targets are fetched the same way.
func Compile(path string) (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.LoadURL = loadURL
	s, err := c.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", path, err)
	}
	return &Validator{schema: s}, nil
}

// CompileBuiltin compiles the embedded default schema.
func CompileBuiltin() (*Validator, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(builtinURL, bytes.NewReader(Builtin)); err != nil {
		return nil, fmt.Errorf("loading builtin schema: %w", err)
	}
	s, err := c.Compile(builtinURL)
	if err != nil {
		return nil, fmt.Errorf("compiling builtin schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate checks one record. A failure is a *SchemaValidationError.
func (v *Validator) Validate(a types.Atom) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", a.ID, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding %s: %w", a.ID, err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return &SchemaValidationError{AtomID: a.ID, Err: err}
	}
	return nil
}

// ValidateAll checks every record and returns one error per failure, in
// record order. A nil result means every record passed.
func (v *Validator) ValidateAll(atoms []types.Atom) []error {
	var errs []error
	for _, a := range atoms {
		if err := v.Validate(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
