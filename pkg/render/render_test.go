package render

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	lcschema "github.com/tmc/langchaingo/schema"

	"github.com/nodecanvas/nodecanvas/pkg/registry"
	"github.com/nodecanvas/nodecanvas/pkg/schema"
	"github.com/nodecanvas/nodecanvas/pkg/types"
)

func llmFixture(t *testing.T, model string) (*registry.NodeType, types.Config) {
	t.Helper()
	nt, ok := registry.Builtins().Get("llm")
	require.True(t, ok)
	cfg := nt.Config.Clone()
	cfg = cfg.With(types.PathModel, model)
	return nt, cfg
}

func resolveField(t *testing.T, nt *registry.NodeType, cfg types.Config, name string, upstream []string) Control {
	t.Helper()
	field, ok := nt.Field(name)
	require.True(t, ok)
	return Resolve(nt, cfg, field, field.Name, upstream)
}

func TestAPIBaseOnlyForLocalModels(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "gpt-4o-mini")
	ctl := resolveField(t, nt, cfg, types.KeyAPIBase, nil)
	require.Equal(t, KindOmitted, ctl.Kind)

	nt, cfg = llmFixture(t, "ollama/llama3.1")
	ctl = resolveField(t, nt, cfg, types.KeyAPIBase, nil)
	require.Equal(t, KindText, ctl.Kind)
}

func TestModelFieldGroupsByProvider(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "gpt-4o-mini")
	ctl := resolveField(t, nt, cfg, types.PathModel, nil)
	require.Equal(t, KindModelSelect, ctl.Kind)

	providers := make([]string, 0, len(ctl.Groups))
	for _, g := range ctl.Groups {
		providers = append(providers, g.Provider)
	}
	require.Equal(t, []string{"openai", "anthropic", "google", "deepseek", "ollama"}, providers)
	require.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, ctl.Groups[0].Models)
}

func TestEnumFieldBecomesSelect(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "gpt-4o-mini")
	field := registry.FieldSpec{Name: "format", Type: "string", Enum: []string{"text", "markdown"}}
	ctl := Resolve(nt, cfg, field, "format", nil)
	require.Equal(t, KindSelect, ctl.Kind)
	require.Equal(t, []string{"text", "markdown"}, ctl.Options)
}

func TestOutputSchemaControl(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "gpt-4o-mini")
	ctl := resolveField(t, nt, cfg, types.KeyOutputSchema, nil)
	require.Equal(t, KindSchemaEditor, ctl.Kind)
	m, ok := ctl.Value.(*schema.Mapping)
	require.True(t, ok)
	v, _ := m.Get("output")
	require.Equal(t, "string", v)

	// Models without structured output get the disabled notice.
	nt, cfg = llmFixture(t, "ollama/llama3.1")
	ctl = resolveField(t, nt, cfg, types.KeyOutputSchema, nil)
	require.Equal(t, KindSchemaDisabled, ctl.Kind)
	require.Equal(t, FallbackShapeNote, ctl.Note)

	// Unknown models default to capable.
	nt, cfg = llmFixture(t, "some-new-model")
	ctl = resolveField(t, nt, cfg, types.KeyOutputSchema, nil)
	require.Equal(t, KindSchemaEditor, ctl.Kind)
}

func TestLongFormFieldsGetPromptEditor(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "gpt-4o-mini")
	upstream := []string{"A.x", "B.y"}

	ctl := resolveField(t, nt, cfg, types.KeySystemMessage, upstream)
	require.Equal(t, KindPromptEditor, ctl.Kind)
	require.Equal(t, upstream, ctl.References)

	for _, name := range []string{"refine_prompt", "reply_template", "user_message"} {
		field := registry.FieldSpec{Name: name, Type: "string"}
		ctl = Resolve(nt, cfg, field, name, upstream)
		require.Equal(t, KindPromptEditor, ctl.Kind, name)
	}
}

func TestCodeAndKeyMapControls(t *testing.T) {
	t.Parallel()
	nt, ok := registry.Builtins().Get("code")
	require.True(t, ok)
	cfg := nt.Config.Clone()

	ctl := resolveField(t, nt, cfg, types.KeyCode, nil)
	require.Equal(t, KindCodeEditor, ctl.Kind)

	ctl = resolveField(t, nt, cfg, types.KeyInputMap, []string{"A.x"})
	require.Equal(t, KindKeyMap, ctl.Kind)
	require.Equal(t, []string{"A.x"}, ctl.References)
}

func TestSliderBoundsFollowModelConstraints(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "claude-3-5-sonnet-20241022")
	cfg = cfg.With(types.PathTemperature, 1.5)

	ctl := resolveField(t, nt, cfg, types.PathTemperature, nil)
	require.Equal(t, KindSlider, ctl.Kind)
	require.Equal(t, 0.0, ctl.Min)
	require.Equal(t, 1.0, ctl.Max)
	// The displayed value is clamped into range before render.
	require.Equal(t, 1.0, ctl.Value)

	ctl = resolveField(t, nt, cfg, types.PathMaxTokens, nil)
	require.Equal(t, KindSlider, ctl.Kind)
	require.Equal(t, 8192.0, ctl.Max)
}

func TestNumberWithoutBoundsIsFreeForm(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "gpt-4o-mini")
	field := registry.FieldSpec{Name: "seed", Type: "number"}
	ctl := Resolve(nt, cfg, field, "seed", nil)
	require.Equal(t, KindNumber, ctl.Kind)
}

func TestPrimitiveDispatch(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "gpt-4o-mini")

	ctl := Resolve(nt, cfg, registry.FieldSpec{Name: "stream", Type: "boolean"}, "stream", nil)
	require.Equal(t, KindToggle, ctl.Kind)

	ctl = Resolve(nt, cfg, registry.FieldSpec{Name: "advanced", Type: "object"}, "advanced", nil)
	require.Equal(t, KindObject, ctl.Kind)

	ctl = Resolve(nt, cfg, registry.FieldSpec{Name: "weird", Type: "array"}, "weird", nil)
	require.Equal(t, KindOmitted, ctl.Kind)
}

func TestObjectControlsRecursesWithPathPrefix(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "gpt-4o-mini")
	cfg = cfg.With("retry", map[string]any{
		"enabled":  true,
		"attempts": 3,
		"skip":     []any{"not", "renderable"},
	})

	ctl := Resolve(nt, cfg, registry.FieldSpec{Name: "retry", Type: "object"}, "retry", nil)
	require.Equal(t, KindObject, ctl.Kind)

	children := ObjectControls(nt, cfg, ctl, nil)
	require.Len(t, children, 2)
	require.Equal(t, "retry.attempts", children[0].Path)
	require.Equal(t, KindNumber, children[0].Kind)
	require.Equal(t, "retry.enabled", children[1].Path)
	require.Equal(t, KindToggle, children[1].Kind)

	require.Nil(t, ObjectControls(nt, cfg, Control{Value: "scalar"}, nil))
}

func TestControlsWalksDeclaredFields(t *testing.T) {
	t.Parallel()
	nt, cfg := llmFixture(t, "gpt-4o-mini")
	controls := Controls(nt, cfg, nil)

	paths := make([]string, 0, len(controls))
	for _, c := range controls {
		paths = append(paths, c.Path)
	}
	// api_base is omitted for hosted models, everything else shows.
	require.NotContains(t, paths, types.KeyAPIBase)
	require.Contains(t, paths, types.PathModel)
	require.Contains(t, paths, types.PathTemperature)
	require.Nil(t, Controls(nil, cfg, nil))
}

func TestGroupModels(t *testing.T) {
	t.Parallel()
	groups := GroupModels([]string{"deepseek-chat", "gpt-4o", "ollama/mistral", "deepseek-coder"})
	require.Len(t, groups, 3)
	require.Equal(t, "deepseek", groups[0].Provider)
	require.Equal(t, []string{"deepseek-chat", "deepseek-coder"}, groups[0].Models)
	require.Equal(t, "openai", groups[1].Provider)
	require.Equal(t, "ollama", groups[2].Provider)
}

func TestPreviewPrompt(t *testing.T) {
	t.Parallel()
	out, err := PreviewPrompt("Answer the question: {question}", map[string]any{
		"question": "why is the sky blue?",
	})
	require.NoError(t, err)
	require.Equal(t, "Answer the question: why is the sky blue?", out)

	require.Equal(t, "{A.x}", Reference("A.x"))
}

func TestFewShotMessages(t *testing.T) {
	t.Parallel()
	cfg := types.Config{
		types.KeyFewShotExamples: []any{
			map[string]any{"input": "1+1?", "output": "2"},
			"malformed entry",
		},
	}

	msgs := FewShotMessages(cfg)
	require.Len(t, msgs, 2)
	require.Equal(t, lcschema.ChatMessageTypeHuman, msgs[0].Role)
	require.Equal(t, lcschema.ChatMessageTypeAI, msgs[1].Role)

	text, ok := msgs[0].Parts[0].(llms.TextContent)
	require.True(t, ok)
	require.Equal(t, "1+1?", text.Text)

	require.Nil(t, FewShotMessages(types.Config{}))
}
