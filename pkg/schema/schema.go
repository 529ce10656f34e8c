// Package schema converts between the two representations of a node's
// output shape: a flat field-name → primitive-type-name mapping and a
// JSON-Schema-like structured document.
package schema

import (
	"encoding/json"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/nodecanvas/nodecanvas/log"
)

// Mapping is the simple schema: field name → primitive type name, in
// declaration order. Order survives JSON round trips.
type Mapping = orderedmap.OrderedMap[string, string]

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return orderedmap.New[string, string]()
}

// Property is a single field entry in a structured schema document.
// Unknown validation keywords on the field are ignored on parse.
type Property struct {
	Type string `json:"type"`
}

// Document is the structured schema wire shape:
// {type:"object", required:[...], properties:{field:{type:...}}}.
type Document struct {
	Type       string                                   `json:"type"`
	Required   []string                                 `json:"required"`
	Properties *orderedmap.OrderedMap[string, Property] `json:"properties"`
}

// Expand builds the structured document text for a mapping. Every field
// is marked required; output uses stable 2-space indentation. Returns
// false for a nil or empty mapping, or when any field name or type name
// is empty.
func Expand(m *Mapping) (string, bool) {
	if m == nil || m.Len() == 0 {
		return "", false
	}
	doc := Document{
		Type:       "object",
		Properties: orderedmap.New[string, Property](),
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == "" || pair.Value == "" {
			return "", false
		}
		doc.Required = append(doc.Required, pair.Key)
		doc.Properties.Set(pair.Key, Property{Type: pair.Value})
	}
	text, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Warnf("schema: expand failed to serialize: %v", err)
		return "", false
	}
	return string(text), true
}

// Simplify parses structured schema text back into a mapping. Malformed
// input gets one cleanup pass (un-escaping and control-character
// stripping) before a second parse attempt. Returns false when both
// attempts fail or when no property carries a type. Never panics and
// never returns an error: parse failures collapse to a logged
// diagnostic.
func Simplify(text string) (*Mapping, bool) {
	doc, err := parse(text)
	if err != nil {
		cleaned := cleanup(text)
		doc, err = parse(cleaned)
		if err != nil {
			log.Debugf("schema: simplify gave up after cleanup: %v", err)
			return nil, false
		}
	}
	if doc.Properties == nil || doc.Properties.Len() == 0 {
		return nil, false
	}
	m := NewMapping()
	for pair := doc.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Type == "" {
			continue
		}
		m.Set(pair.Key, pair.Value.Type)
	}
	if m.Len() == 0 {
		return nil, false
	}
	return m, true
}

func parse(text string) (Document, error) {
	var doc Document
	err := json.Unmarshal([]byte(text), &doc)
	return doc, err
}

// cleanup is a bounded, ordered list of textual repairs applied exactly
// once. It recovers schema text that was string-escaped along the way.
// Known failure mode: the final backslash strip corrupts legitimate
// backslash content inside string values.
func cleanup(text string) string {
	replacements := []struct{ from, to string }{
		{`\"`, `"`},
		{`\[`, `[`},
		{`\]`, `]`},
		{`\n`, ""},
		{`\t`, ""},
		{"\n", ""},
		{"\t", ""},
		{"\r", ""},
		{`\`, ""},
	}
	out := strings.TrimSpace(text)
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r.from, r.to)
	}
	// A fully string-encoded document ends up wrapped in one quote pair.
	if len(out) >= 2 && strings.HasPrefix(out, `"`) && strings.HasSuffix(out, `"`) {
		out = out[1 : len(out)-1]
	}
	return out
}

// MappingOf normalizes a configuration value into a mapping. Ordered
// mappings pass through; plain maps (e.g. decoded from YAML defaults)
// are converted with sorted keys since their declaration order is gone.
func MappingOf(v any) *Mapping {
	switch val := v.(type) {
	case *Mapping:
		return val
	case map[string]string:
		return fromPlain(val)
	case map[string]any:
		plain := make(map[string]string, len(val))
		for k, item := range val {
			if s, ok := item.(string); ok {
				plain[k] = s
			}
		}
		return fromPlain(plain)
	default:
		return nil
	}
}

func fromPlain(plain map[string]string) *Mapping {
	if len(plain) == 0 {
		return nil
	}
	keys := make([]string, 0, len(plain))
	for k := range plain {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := NewMapping()
	for _, k := range keys {
		m.Set(k, plain[k])
	}
	return m
}
