package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pairsOf(m *Mapping) [][2]string {
	var out [][2]string
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, [2]string{pair.Key, pair.Value})
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []map[string]string{
		{"output": "string"},
		{"name": "string", "age": "number", "active": "boolean"},
		{"a": "string", "b": "string", "c": "object"},
	}
	for _, fields := range cases {
		m := NewMapping()
		for k, v := range fields {
			m.Set(k, v)
		}

		text, ok := Expand(m)
		require.True(t, ok)

		back, ok := Simplify(text)
		require.True(t, ok)
		require.Equal(t, pairsOf(m), pairsOf(back))
	}
}

func TestExpandFormat(t *testing.T) {
	t.Parallel()
	m := NewMapping()
	m.Set("question", "string")
	m.Set("score", "number")

	text, ok := Expand(m)
	require.True(t, ok)

	// Stable 2-space indentation, object type, all fields required in
	// declaration order.
	require.True(t, strings.HasPrefix(text, "{\n  \"type\": \"object\""), text)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(text), &doc))
	require.Equal(t, "object", doc.Type)
	require.Equal(t, []string{"question", "score"}, doc.Required)
	require.Equal(t, 2, doc.Properties.Len())
	require.Equal(t, "question", doc.Properties.Oldest().Key)
}

func TestExpandRejectsEmpty(t *testing.T) {
	t.Parallel()
	_, ok := Expand(nil)
	require.False(t, ok)

	_, ok = Expand(NewMapping())
	require.False(t, ok)

	m := NewMapping()
	m.Set("", "string")
	_, ok = Expand(m)
	require.False(t, ok)

	m = NewMapping()
	m.Set("field", "")
	_, ok = Expand(m)
	require.False(t, ok)
}

func TestSimplifyGarbage(t *testing.T) {
	t.Parallel()
	for _, text := range []string{
		"",
		"not json at all",
		"{{{",
		`{"type":"object"}`,
		`{"properties":{}}`,
		`{"properties":{"foo":{"description":"untyped"}}}`,
		"[1,2,3]",
	} {
		m, ok := Simplify(text)
		require.False(t, ok, "input %q", text)
		require.Nil(t, m)
	}
}

func TestSimplifyPlainDocument(t *testing.T) {
	t.Parallel()
	m, ok := Simplify(`{"properties":{"foo":{"type":"string"}}}`)
	require.True(t, ok)
	require.Equal(t, [][2]string{{"foo", "string"}}, pairsOf(m))
}

func TestSimplifyRecoversEscapedText(t *testing.T) {
	t.Parallel()
	// Schema text that was string-escaped somewhere along the way.
	escaped := "{\\\"type\\\": \\\"object\\\",\\n\\t\\\"properties\\\": {\\\"foo\\\": {\\\"type\\\": \\\"string\\\"}}}"
	m, ok := Simplify(escaped)
	require.True(t, ok)
	require.Equal(t, [][2]string{{"foo", "string"}}, pairsOf(m))
}

func TestSimplifyRecoversQuotedDocument(t *testing.T) {
	t.Parallel()
	quoted := `"{\"properties\": {\"bar\": {\"type\": \"number\"}}}"`
	m, ok := Simplify(quoted)
	require.True(t, ok)
	require.Equal(t, [][2]string{{"bar", "number"}}, pairsOf(m))
}

func TestSimplifyPreservesDeclarationOrder(t *testing.T) {
	t.Parallel()
	m, ok := Simplify(`{"properties":{"zeta":{"type":"string"},"alpha":{"type":"number"}}}`)
	require.True(t, ok)
	require.Equal(t, [][2]string{{"zeta", "string"}, {"alpha", "number"}}, pairsOf(m))
}

func TestMappingOf(t *testing.T) {
	t.Parallel()
	direct := NewMapping()
	direct.Set("x", "string")
	require.Same(t, direct, MappingOf(direct))

	m := MappingOf(map[string]string{"b": "number", "a": "string"})
	require.Equal(t, [][2]string{{"a", "string"}, {"b", "number"}}, pairsOf(m))

	m = MappingOf(map[string]any{"x": "string", "skip": 7})
	require.Equal(t, [][2]string{{"x", "string"}}, pairsOf(m))

	require.Nil(t, MappingOf(nil))
	require.Nil(t, MappingOf("text"))
	require.Nil(t, MappingOf(map[string]string{}))
}
