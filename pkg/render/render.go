// Package render maps schema fields, constraint sets and current values
// to editing affordances. It decides WHAT control the sidebar shows for
// each field; drawing it is the embedding UI's job.
package render

import (
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/nodecanvas/nodecanvas/pkg/registry"
	"github.com/nodecanvas/nodecanvas/pkg/schema"
	"github.com/nodecanvas/nodecanvas/pkg/types"
)

// Kind identifies an editing affordance.
type Kind int

const (
	// KindOmitted means the field is not shown at all.
	KindOmitted Kind = iota
	// KindText is a multiline text box.
	KindText
	// KindPromptEditor is reference-aware text editing with upstream
	// fields offered as insertable references.
	KindPromptEditor
	// KindCodeEditor is source-aware text editing, fixed language mode.
	KindCodeEditor
	// KindSelect is a single-choice selector.
	KindSelect
	// KindModelSelect is the sub-model selector with provider grouping.
	KindModelSelect
	// KindSchemaEditor is the structural output-shape editor.
	KindSchemaEditor
	// KindSchemaDisabled is a disabled notice describing the fixed
	// fallback shape.
	KindSchemaDisabled
	// KindSlider is a bounded numeric slider.
	KindSlider
	// KindNumber is a free-form numeric box.
	KindNumber
	// KindToggle is a boolean switch.
	KindToggle
	// KindObject recurses per sub-field with path prefixing.
	KindObject
	// KindKeyMap is a structural key-mapping editor with upstream
	// fields as legal values.
	KindKeyMap
)

func (k Kind) String() string {
	names := [...]string{
		"omitted", "text", "prompt_editor", "code_editor", "select",
		"model_select", "schema_editor", "schema_disabled", "slider",
		"number", "toggle", "object", "key_map",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// FallbackShapeNote describes the output shape used when the selected
// model cannot produce structured output.
const FallbackShapeNote = `{"output": "string"}`

// Control is one resolved affordance.
type Control struct {
	Kind       Kind
	Field      string
	Path       string
	Value      any
	Options    []string     // KindSelect
	Groups     []ModelGroup // KindModelSelect
	Min, Max   float64      // KindSlider
	Note       string       // KindSchemaDisabled
	References []string     // KindPromptEditor, KindKeyMap
}

// ModelGroup is one provider family of model choices.
type ModelGroup struct {
	Provider string
	Models   []string
}

// longFormSuffixes mark free-text fields that take upstream references.
var longFormSuffixes = []string{"_prompt", "_message", "_template"}

// Resolve selects exactly one affordance for a field, by fixed
// precedence. cfg is the session's working configuration, upstream the
// collector's reference list.
func Resolve(
	nt *registry.NodeType,
	cfg types.Config,
	field registry.FieldSpec,
	path string,
	upstream []string,
) Control {
	value, _ := cfg.Get(path)
	ctl := Control{Field: field.Name, Path: path, Value: value}

	model := currentModel(cfg)

	// 1. API base only exists for locally-hosted model families.
	if field.Name == types.KeyAPIBase {
		if !locallyHosted(model) {
			ctl.Kind = KindOmitted
			return ctl
		}
		ctl.Kind = KindText
		return ctl
	}

	// 2. Enumerated fields become selectors; the model selector gets
	// provider grouping and routes through ChangeModel.
	if len(field.Enum) > 0 {
		if path == types.PathModel {
			ctl.Kind = KindModelSelect
			ctl.Groups = GroupModels(field.Enum)
			return ctl
		}
		ctl.Kind = KindSelect
		ctl.Options = append([]string(nil), field.Enum...)
		return ctl
	}

	// 3. The output-shape pair is structural only when the model can
	// produce structured output; unknown models default to capable.
	if field.Name == types.KeyOutputSchema || field.Name == types.KeyOutputJSONSchema {
		if c := nt.ConstraintsFor(model); c != nil && !c.SupportsJSONOutput {
			ctl.Kind = KindSchemaDisabled
			ctl.Note = FallbackShapeNote
			return ctl
		}
		ctl.Kind = KindSchemaEditor
		if field.Name == types.KeyOutputSchema {
			ctl.Value = schema.MappingOf(value)
		}
		return ctl
	}

	// 4. Long-form text fields take upstream references.
	if longForm(field.Name) {
		ctl.Kind = KindPromptEditor
		ctl.References = upstream
		return ctl
	}

	// 5. Code gets the source editor.
	if field.Name == types.KeyCode {
		ctl.Kind = KindCodeEditor
		return ctl
	}

	// 6. Remapping tables get the key-mapping editor.
	if field.Name == types.KeyInputMap || field.Name == types.KeyOutputMap {
		ctl.Kind = KindKeyMap
		ctl.References = upstream
		return ctl
	}

	// 7. Dispatch by primitive type.
	return byType(nt, model, field, ctl)
}

func byType(nt *registry.NodeType, model string, field registry.FieldSpec, ctl Control) Control {
	switch field.Type {
	case "string":
		ctl.Kind = KindText
	case "number", "integer":
		if field.Min == nil || field.Max == nil {
			ctl.Kind = KindNumber
			return ctl
		}
		ctl.Kind = KindSlider
		ctl.Min, ctl.Max = *field.Min, *field.Max
		if c := nt.ConstraintsFor(model); c != nil {
			switch ctl.Path {
			case types.PathTemperature:
				ctl.Min, ctl.Max = c.MinTemperature, c.MaxTemperature
			case types.PathMaxTokens:
				ctl.Max = float64(c.MaxTokens)
			}
		}
		if v, err := cast.ToFloat64E(ctl.Value); err == nil {
			switch {
			case v < ctl.Min:
				ctl.Value = ctl.Min
			case v > ctl.Max:
				ctl.Value = ctl.Max
			}
		}
	case "boolean":
		ctl.Kind = KindToggle
	case "object":
		ctl.Kind = KindObject
	default:
		ctl.Kind = KindOmitted
	}
	return ctl
}

// Controls resolves every declared field of the node type, in
// declaration order, dropping omitted ones.
func Controls(nt *registry.NodeType, cfg types.Config, upstream []string) []Control {
	if nt == nil {
		return nil
	}
	var out []Control
	for _, field := range nt.Fields {
		ctl := Resolve(nt, cfg, field, field.Name, upstream)
		if ctl.Kind == KindOmitted {
			continue
		}
		out = append(out, ctl)
	}
	return out
}

// ObjectControls resolves one control per sub-field of a nested object
// control, prefixing each sub-field's path. Field types are inferred
// from the current values; declared metadata only exists at the top
// level.
func ObjectControls(nt *registry.NodeType, cfg types.Config, ctl Control, upstream []string) []Control {
	obj, ok := ctl.Value.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Control
	for _, key := range keys {
		field := registry.FieldSpec{Name: key, Type: inferType(obj[key])}
		child := Resolve(nt, cfg, field, ctl.Path+"."+key, upstream)
		if child.Kind == KindOmitted {
			continue
		}
		out = append(out, child)
	}
	return out
}

func inferType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, float64:
		return "number"
	case map[string]any:
		return "object"
	default:
		return ""
	}
}

func currentModel(cfg types.Config) string {
	v, _ := cfg.Get(types.PathModel)
	model, _ := v.(string)
	return model
}

func locallyHosted(model string) bool {
	return strings.HasPrefix(model, "ollama/")
}

func longForm(name string) bool {
	if name == types.KeySystemMessage || name == types.KeyUserMessage {
		return true
	}
	for _, suffix := range longFormSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// GroupModels buckets model identifiers by inferred provider family,
// prefix-matched, keeping first-seen group order and in-group order.
func GroupModels(models []string) []ModelGroup {
	var groups []ModelGroup
	index := make(map[string]int)
	for _, m := range models {
		provider := providerOf(m)
		i, ok := index[provider]
		if !ok {
			i = len(groups)
			index[provider] = i
			groups = append(groups, ModelGroup{Provider: provider})
		}
		groups[i].Models = append(groups[i].Models, m)
	}
	return groups
}

func providerOf(model string) string {
	switch {
	case strings.HasPrefix(model, "ollama/"):
		return "ollama"
	case strings.HasPrefix(model, "claude"):
		return "anthropic"
	case strings.HasPrefix(model, "gemini"):
		return "google"
	case strings.HasPrefix(model, "deepseek"):
		return "deepseek"
	default:
		return "openai"
	}
}
