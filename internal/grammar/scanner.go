// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grammar

import "strings"

// Header is one "### <ID>: <Title>" line.
type Header struct {
	ID    string
	Title string

	// Offset is the byte offset of the header line within the document.
	Offset int

	// Line is the 1-based line number of the header.
	Line int
}

// Block is the text of one atom, from its header up to the next header
// or the end of the document.
type Block struct {
	Header

	// Text is the raw block, header line included.
	Text string

	lines []line
}

// Marker is a "**<Name>**" section marker line.
type Marker struct {
	Name string

	// Line is the 1-based document line number of the marker.
	Line int
}

// FindHeaders returns every atom header in document order.
func FindHeaders(text string) []Header {
	var headers []Header
	for i, ln := range splitLines(text) {
		id, title, ok := parseHeader(ln.text)
		if !ok {
			continue
		}
		headers = append(headers, Header{ID: id, Title: title, Offset: ln.offset, Line: i + 1})
	}
	return headers
}

// Blocks splits text into atom blocks. Text before the first header
// belongs to no block.
func Blocks(text string) []Block {
	headers := FindHeaders(text)
	blocks := make([]Block, len(headers))
	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1].Offset
		}
		body := text[h.Offset:end]
		blocks[i] = Block{Header: h, Text: body, lines: splitLines(body)}
	}
	return blocks
}

// parseHeader matches "### <ID>: <Title>" where ID is an atom id and the
// title is non-empty.
func parseHeader(s string) (id, title string, ok bool) {
	rest, ok := strings.CutPrefix(s, headerPrefix)
	if !ok {
		return "", "", false
	}
	id, title, ok = strings.Cut(rest, ": ")
	if !ok || !IsAtomID(id) {
		return "", "", false
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", false
	}
	return id, title, true
}

// Field returns the value of the first "<name>: <value>" line in the
// block. The second result is false when no such line exists; a line
// with nothing after the colon yields ("", true).
func (b Block) Field(name string) (string, bool) {
	prefix := name + ":"
	for _, ln := range b.lines {
		rest, ok := strings.CutPrefix(ln.text, prefix)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return strings.TrimSpace(rest), true
	}
	return "", false
}

// Markers returns every section marker in the block in the order
// encountered, unknown names and repeats included.
func (b Block) Markers() []Marker {
	var markers []Marker
	for i, ln := range b.lines {
		if name, ok := parseMarker(ln.text); ok {
			markers = append(markers, Marker{Name: name, Line: b.Line + i})
		}
	}
	return markers
}

// MarkerNames returns the names of Markers.
func (b Block) MarkerNames() []string {
	markers := b.Markers()
	names := make([]string, len(markers))
	for i, m := range markers {
		names[i] = m.Name
	}
	return names
}

// Section returns the raw content of the first section with the given
// name: every line after its marker up to the next marker of any name or
// the end of the block.
func (b Block) Section(name string) (string, bool) {
	start := -1
	for i, ln := range b.lines {
		marker, ok := parseMarker(ln.text)
		if !ok {
			continue
		}
		if start >= 0 {
			return joinLines(b.lines[start:i]), true
		}
		if marker == name {
			start = i + 1
		}
	}
	if start < 0 {
		return "", false
	}
	return joinLines(b.lines[start:]), true
}

// parseMarker matches a line consisting solely of "**<Letters>**",
// allowing trailing whitespace.
func parseMarker(s string) (string, bool) {
	s = strings.TrimRight(s, " \t")
	inner, ok := strings.CutPrefix(s, markerFence)
	if !ok {
		return "", false
	}
	inner, ok = strings.CutSuffix(inner, markerFence)
	if !ok || inner == "" {
		return "", false
	}
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return "", false
		}
	}
	return inner, true
}
