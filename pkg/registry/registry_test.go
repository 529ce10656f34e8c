package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodecanvas/nodecanvas/pkg/types"
)

func TestRegisterAndGet(t *testing.T) {
	t.Parallel()
	r := New()
	require.NoError(t, r.Register(NodeType{Name: "custom"}))

	nt, ok := r.Get("custom")
	require.True(t, ok)
	require.Equal(t, "custom", nt.Name)

	_, ok = r.Get("missing")
	require.False(t, ok)

	err := r.Register(NodeType{Name: "custom"})
	require.ErrorIs(t, err, ErrDuplicateType)

	require.Error(t, r.Register(NodeType{}))
	require.Equal(t, []string{"custom"}, r.Names())
}

func TestConstraintsFor(t *testing.T) {
	t.Parallel()
	nt := &NodeType{
		Name: "llm",
		ModelConstraints: map[string]types.ModelConstraints{
			"small": {MinTemperature: 0, MaxTemperature: 1, MaxTokens: 4096},
		},
	}

	c := nt.ConstraintsFor("small")
	require.NotNil(t, c)
	require.Equal(t, 4096, c.MaxTokens)

	require.Nil(t, nt.ConstraintsFor("unknown"))
	require.Nil(t, (&NodeType{Name: "input"}).ConstraintsFor("small"))

	var missing *NodeType
	require.Nil(t, missing.ConstraintsFor("small"))
	require.False(t, missing.LLMCapable())
	require.True(t, nt.LLMCapable())
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	def := `
- name: summarizer
  visual_tag: SUM
  category: ai
  config:
    title: ""
    llm_info:
      model: gpt-4o-mini
      temperature: 0.5
  fields:
    - name: llm_info.temperature
      title: Temperature
      type: number
      min: 0
      max: 2
  model_constraints:
    gpt-4o-mini:
      min_temperature: 0
      max_temperature: 2
      max_tokens: 16384
      supports_json_output: true
`
	r := New()
	require.NoError(t, r.Load([]byte(def)))

	nt, ok := r.Get("summarizer")
	require.True(t, ok)
	require.Equal(t, "SUM", nt.VisualTag)

	c := nt.ConstraintsFor("gpt-4o-mini")
	require.NotNil(t, c)
	require.Equal(t, 16384, c.MaxTokens)
	require.True(t, c.SupportsJSONOutput)

	field, ok := nt.Field("llm_info.temperature")
	require.True(t, ok)
	require.NotNil(t, field.Max)
	require.Equal(t, 2.0, *field.Max)

	require.Error(t, r.Load([]byte("not: [valid")))
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: from_file\n"), 0o600))

	r := New()
	require.NoError(t, r.LoadFile(path))
	_, ok := r.Get("from_file")
	require.True(t, ok)

	err := r.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuiltins(t *testing.T) {
	t.Parallel()
	r := Builtins()
	require.Equal(t, []string{"input", "output", "llm", "code"}, r.Names())

	llm, ok := r.Get("llm")
	require.True(t, ok)
	require.True(t, llm.LLMCapable())
	require.NotNil(t, llm.ConstraintsFor(DefaultModel))

	// Locally-hosted models cannot emit structured output.
	c := llm.ConstraintsFor("ollama/llama3.1")
	require.NotNil(t, c)
	require.False(t, c.SupportsJSONOutput)
}
