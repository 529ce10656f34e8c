package registry

import (
	"github.com/nodecanvas/nodecanvas/pkg/types"
)

// DefaultModel is the baseline model selected for LLM-capable nodes that
// have none configured.
const DefaultModel = "gpt-4o-mini"

func f(v float64) *float64 { return &v }

// Builtins returns a registry pre-populated with the stock palette:
// input, output, llm and code node types.
func Builtins() *Registry {
	r := New()
	for _, t := range []NodeType{inputType(), outputType(), llmType(), codeType()} {
		// Names are distinct by construction.
		_ = r.Register(t)
	}
	return r
}

func inputType() NodeType {
	return NodeType{
		Name: "input",
		Config: types.Config{
			types.KeyTitle: "",
			types.KeyOutputSchema: map[string]string{
				"input_1": "string",
			},
			types.KeyURLVariables: map[string]any{},
		},
		Fields: []FieldSpec{
			{Name: types.KeyOutputSchema, Title: "Output Schema", Type: "schema"},
		},
		VisualTag: "IN",
		Color:     "#2563eb",
		Category:  "io",
	}
}

func outputType() NodeType {
	return NodeType{
		Name: "output",
		Config: types.Config{
			types.KeyTitle:     "",
			types.KeyOutputMap: map[string]any{},
		},
		Fields: []FieldSpec{
			{Name: types.KeyOutputMap, Title: "Output Map", Type: "map"},
		},
		VisualTag: "OUT",
		Color:     "#16a34a",
		Category:  "io",
	}
}

func llmType() NodeType {
	return NodeType{
		Name: "llm",
		Config: types.Config{
			types.KeyTitle: "",
			types.KeyLLMInfo: map[string]any{
				"model":       DefaultModel,
				"temperature": 0.7,
				"max_tokens":  2048,
			},
			types.KeySystemMessage: "",
			types.KeyUserMessage:   "",
			types.KeyOutputSchema: map[string]string{
				"output": "string",
			},
			types.KeyOutputJSONSchema: "",
			types.KeyFewShotExamples:  []any{},
		},
		Fields: []FieldSpec{
			{
				Name:  types.PathModel,
				Title: "Model",
				Type:  "string",
				Enum: []string{
					"gpt-4o", "gpt-4o-mini",
					"claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022",
					"gemini-1.5-pro", "gemini-1.5-flash",
					"deepseek-chat",
					"ollama/llama3.1", "ollama/mistral",
				},
			},
			{Name: types.PathTemperature, Title: "Temperature", Type: "number", Min: f(0), Max: f(2), Default: 0.7},
			{Name: types.PathMaxTokens, Title: "Max Tokens", Type: "number", Min: f(1), Max: f(16384), Default: 2048},
			{Name: types.KeyAPIBase, Title: "API Base", Type: "string"},
			{Name: types.KeySystemMessage, Title: "System Message", Type: "string"},
			{Name: types.KeyUserMessage, Title: "User Message", Type: "string"},
			{Name: types.KeyOutputSchema, Title: "Output Schema", Type: "schema"},
			{Name: types.KeyFewShotExamples, Title: "Few-shot Examples", Type: "examples"},
		},
		ModelConstraints: map[string]types.ModelConstraints{
			"gpt-4o":                     {MinTemperature: 0, MaxTemperature: 2, MaxTokens: 16384, SupportsJSONOutput: true},
			"gpt-4o-mini":                {MinTemperature: 0, MaxTemperature: 2, MaxTokens: 16384, SupportsJSONOutput: true},
			"claude-3-5-sonnet-20241022": {MinTemperature: 0, MaxTemperature: 1, MaxTokens: 8192, SupportsJSONOutput: true},
			"claude-3-5-haiku-20241022":  {MinTemperature: 0, MaxTemperature: 1, MaxTokens: 8192, SupportsJSONOutput: true},
			"gemini-1.5-pro":             {MinTemperature: 0, MaxTemperature: 2, MaxTokens: 8192, SupportsJSONOutput: true},
			"gemini-1.5-flash":           {MinTemperature: 0, MaxTemperature: 2, MaxTokens: 8192, SupportsJSONOutput: true},
			"deepseek-chat":              {MinTemperature: 0, MaxTemperature: 2, MaxTokens: 8192, SupportsJSONOutput: true},
			"ollama/llama3.1":            {MinTemperature: 0, MaxTemperature: 1, MaxTokens: 4096, SupportsJSONOutput: false},
			"ollama/mistral":             {MinTemperature: 0, MaxTemperature: 1, MaxTokens: 4096, SupportsJSONOutput: false},
		},
		VisualTag: "LLM",
		Color:     "#7c3aed",
		Category:  "ai",
	}
}

func codeType() NodeType {
	return NodeType{
		Name: "code",
		Config: types.Config{
			types.KeyTitle:    "",
			types.KeyCode:     "",
			types.KeyInputMap: map[string]any{},
			types.KeyOutputSchema: map[string]string{
				"output": "string",
			},
		},
		Fields: []FieldSpec{
			{Name: types.KeyCode, Title: "Code", Type: "code"},
			{Name: types.KeyInputMap, Title: "Input Map", Type: "map"},
			{Name: types.KeyOutputSchema, Title: "Output Schema", Type: "schema"},
		},
		VisualTag: "PY",
		Color:     "#ea580c",
		Category:  "logic",
	}
}
