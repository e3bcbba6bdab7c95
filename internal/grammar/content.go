// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grammar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/atomspec/pkg/types"
)

// Fenced block errors returned by FencedJSON.
var (
	ErrFenceMissing      = errors.New("must contain a fenced ```json block")
	ErrFenceUnterminated = errors.New("fenced ```json block is not closed")
	ErrFenceShape        = errors.New("fenced JSON must be an array or an object")
)

// Bullets returns the items of every "- " line in content, trailing
// whitespace stripped. Other lines are ignored.
func Bullets(content string) []string {
	items := []string{}
	for _, ln := range splitLines(content) {
		if rest, ok := strings.CutPrefix(ln.text, bulletPrefix); ok {
			items = append(items, strings.TrimRight(rest, " \t"))
		}
	}
	return items
}

// FencedJSON returns the body of the first ```json fenced block in
// content, compacted. The fences need not sit on lines of their own: the
// body runs from the opening ```json to the next ``` wherever it appears,
// so "```json [1] ```" is as good as the multi-line form. The body must be
// a JSON array or object; key order is kept as written.
func FencedJSON(content string) (types.JSONValue, error) {
	_, rest, ok := strings.Cut(content, jsonFence)
	if !ok {
		return nil, ErrFenceMissing
	}
	body, _, ok := strings.Cut(rest, closeFence)
	if !ok {
		return nil, ErrFenceUnterminated
	}
	return parseFenced(body)
}

func parseFenced(body string) (types.JSONValue, error) {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	value := types.JSONValue(buf.Bytes())
	if k := value.Kind(); k != types.JSONArray && k != types.JSONObject {
		return nil, ErrFenceShape
	}
	return value, nil
}

// Prompts maps each `- <Key>: "<value>"` bullet to its unquoted value.
// Bullets without a colon are skipped. Keys are not checked here.
func Prompts(content string) map[string]string {
	prompts := map[string]string{}
	for _, item := range Bullets(content) {
		key, value, ok := strings.Cut(item, ":")
		if !ok {
			continue
		}
		prompts[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return prompts
}
