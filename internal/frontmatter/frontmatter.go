// Package frontmatter implements the document encoding used for blip files:
// a `---` delimited key/value metadata block followed by a free-text body.
//
// Parsing is fail-soft: a missing or malformed delimiter yields an empty
// metadata block and the entire input as body. Serialization is the exact
// inverse of parsing; keys that were never set are omitted entirely, and
// unknown keys survive a parse/serialize round trip untouched and in order.
package frontmatter

import (
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Doc is a parsed document: ordered metadata plus the raw body.
type Doc struct {
	Meta *Meta
	Body string
}

// Parse splits a raw document into metadata and body.
// Never returns an error: anything that does not look like a well-formed
// metadata block is treated as body.
func Parse(raw string) Doc {
	doc := Doc{Meta: NewMeta(), Body: raw}

	rest, ok := strings.CutPrefix(raw, delimiter+"\n")
	if !ok {
		return doc
	}

	var block, body string
	if after, ok := strings.CutPrefix(rest, delimiter+"\n"); ok {
		// Empty metadata block.
		block, body = "", after
	} else if i := strings.Index(rest, "\n"+delimiter+"\n"); i >= 0 {
		block, body = rest[:i+1], rest[i+len(delimiter)+2:]
	} else if s, ok := strings.CutSuffix(rest, "\n"+delimiter); ok {
		block, body = s+"\n", ""
	} else {
		// Unterminated block: fail soft, whole document is body.
		return doc
	}

	doc.Meta = ParseBlock(block)
	doc.Body = body
	return doc
}

// ParseBlock parses the inside of a metadata block (without delimiters).
// Lines that do not contain a colon are skipped. A repeated key keeps its
// first position but takes the last value.
func ParseBlock(block string) *Meta {
	m := NewMeta()
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		m.Set(key, strings.TrimPrefix(strings.TrimRight(value, " \t"), " "))
	}
	return m
}

// Serialize renders the document back to its on-disk form.
func (d Doc) Serialize() string {
	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')
	for _, key := range d.Meta.keys {
		b.WriteString(key)
		b.WriteByte(':')
		if v := d.Meta.values[key]; v != "" {
			b.WriteByte(' ')
			b.WriteString(v)
		}
		b.WriteByte('\n')
	}
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.WriteString(d.Body)
	return b.String()
}

// Meta is an ordered set of string-valued metadata fields.
// Values are kept raw; typed accessors interpret them on demand so unknown
// keys pass through serialization byte for byte.
type Meta struct {
	keys   []string
	values map[string]string
}

// NewMeta returns an empty metadata set.
func NewMeta() *Meta {
	return &Meta{values: make(map[string]string)}
}

// Len returns the number of fields.
func (m *Meta) Len() int { return len(m.keys) }

// Keys returns the field names in insertion order.
func (m *Meta) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Has reports whether the key is present.
func (m *Meta) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get returns the raw value for key, or "" if absent.
func (m *Meta) Get(key string) string { return m.values[key] }

// Lookup returns the raw value and whether the key is present.
func (m *Meta) Lookup(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores a raw value, preserving the key's original position.
func (m *Meta) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes a key if present.
func (m *Meta) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// GetInt parses the value as a base-10 integer, returning 0 on failure.
func (m *Meta) GetInt(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(m.values[key]))
	if err != nil {
		return 0
	}
	return n
}

// SetInt stores an integer value.
func (m *Meta) SetInt(key string, n int) {
	m.Set(key, strconv.Itoa(n))
}

// GetTime parses the value as RFC 3339, reporting ok=false on failure.
func (m *Meta) GetTime(key string) (time.Time, bool) {
	v, ok := m.values[key]
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SetTime stores a timestamp in RFC 3339 form.
func (m *Meta) SetTime(key string, t time.Time) {
	m.Set(key, t.Format(time.RFC3339))
}

// GetList parses the value as a flow-style YAML sequence ("[a, b]").
// A bare scalar is treated as a single-element list; an unparseable value
// yields nil.
func (m *Meta) GetList(key string) []string {
	v, ok := m.values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	var items []string
	if err := yaml.Unmarshal([]byte(v), &items); err == nil {
		return items
	}
	var single string
	if err := yaml.Unmarshal([]byte(v), &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

// SetList stores a list as a one-line flow-style YAML sequence so the value
// remains stable and re-parseable. An empty list removes the key.
func (m *Meta) SetList(key string, items []string) {
	if len(items) == 0 {
		m.Delete(key)
		return
	}
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, item := range items {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: item,
		})
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		// Scalar marshalling of strings cannot fail; keep the key stable anyway.
		m.Set(key, "["+strings.Join(items, ", ")+"]")
		return
	}
	m.Set(key, strings.TrimRight(string(out), "\n"))
}
