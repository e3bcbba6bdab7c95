// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// JSONKind classifies the top-level value held in a JSONValue.
type JSONKind int

const (
	JSONAbsent JSONKind = iota
	JSONNull
	JSONArray
	JSONObject
	JSONScalar
)

// JSONValue holds a raw JSON document verbatim. Unlike a decoded value it
// keeps object key order, so records re-encode byte-for-byte.
type JSONValue []byte

// Kind reports the type of the top-level value.
func (v JSONValue) Kind() JSONKind {
	b := bytes.TrimSpace(v)
	if len(b) == 0 {
		return JSONAbsent
	}
	switch b[0] {
	case '[':
		return JSONArray
	case '{':
		return JSONObject
	case 'n':
		return JSONNull
	default:
		return JSONScalar
	}
}

// Len returns the number of elements of an array or members of an object.
// It returns 0 for every other kind and for malformed content.
func (v JSONValue) Len() int {
	switch v.Kind() {
	case JSONArray:
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			return 0
		}
		return len(items)
	case JSONObject:
		var members map[string]json.RawMessage
		if err := json.Unmarshal(v, &members); err != nil {
			return 0
		}
		return len(members)
	}
	return 0
}

// MarshalJSON emits the stored bytes; an empty value encodes as null.
func (v JSONValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

// UnmarshalJSON stores a compacted copy of data. A JSON null leaves the
// value absent.
func (v *JSONValue) UnmarshalJSON(data []byte) error {
	if v == nil {
		return fmt.Errorf("types.JSONValue: UnmarshalJSON on nil pointer")
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = nil
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*v = buf.Bytes()
	return nil
}

// MarshalYAML renders the JSON as native YAML. Object keys keep their
// order and numbers keep their literal text, so integers beyond float64
// precision survive a YAML round trip.
func (v JSONValue) MarshalYAML() (any, error) {
	if len(bytes.TrimSpace(v)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	node, err := yamlNode(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding JSON value: %w", err)
	}
	return node, nil
}

func yamlNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if t == '{' {
			node = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		for dec.More() {
			if node.Kind == yaml.MappingNode {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, scalar("!!str", key.(string)))
			}
			child, err := yamlNode(dec)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return node, nil
	case json.Number:
		if strings.ContainsAny(t.String(), ".eE") {
			return scalar("!!float", t.String()), nil
		}
		return scalar("!!int", t.String()), nil
	case string:
		return scalar("!!str", t), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(t)), nil
	default:
		return scalar("!!null", "null"), nil
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// UnmarshalYAML re-encodes a YAML node as JSON, keeping mapping key order
// and the literal text of numbers that are already valid JSON.
func (v *JSONValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		*v = nil
		return nil
	}
	var buf bytes.Buffer
	if err := appendJSON(&buf, node); err != nil {
		return fmt.Errorf("encoding YAML value as JSON: %w", err)
	}
	*v = buf.Bytes()
	return nil
}

func appendJSON(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return appendJSON(buf, node.Content[0])
	case yaml.AliasNode:
		return appendJSON(buf, node.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendString(buf, node.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := appendJSON(buf, node.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, child := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	switch node.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool", "!!int", "!!float":
		if node.ShortTag() != "!!bool" && isJSONNumber(node.Value) {
			buf.WriteString(node.Value)
			return nil
		}
		// YAML spellings such as 0x1F, +1 or True need decoding first.
		var raw any
		if err := node.Decode(&raw); err != nil {
			return err
		}
		data, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	default:
		return appendString(buf, node.Value)
	}
}

// appendString writes s as a JSON string without HTML escaping, matching
// what json.Compact leaves in place.
func appendString(buf *bytes.Buffer, s string) error {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(out.Bytes(), "\n"))
	return nil
}

func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	return json.Valid([]byte(s))
}
