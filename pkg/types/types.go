// Package types holds the shared records of the canvas: graph nodes and
// edges, per-node configuration maps, and per-model constraint tables.
package types

import "github.com/nodecanvas/nodecanvas/internal/paths"

// Position is a node's placement on the canvas.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Dimensions is an optional explicit node size.
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NodeData carries presentation metadata only. The authoritative
// configuration for a node lives in its Config, not here.
type NodeData struct {
	Title    string `json:"title"`
	Acronym  string `json:"acronym"`
	Color    string `json:"color"`
	Logo     string `json:"logo,omitempty"`
	Category string `json:"category,omitempty"`
}

// Node is a unit in the visual workflow graph.
type Node struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"`
	Position Position    `json:"position"`
	ParentID string      `json:"parent_id,omitempty"`
	Size     *Dimensions `json:"size,omitempty"`
	Data     NodeData    `json:"data"`
}

// Edge connects a source node's output to a target node's input.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ModelConstraints bounds the tunable parameters of one backing model.
type ModelConstraints struct {
	MinTemperature     float64 `json:"min_temperature" yaml:"min_temperature" mapstructure:"min_temperature"`
	MaxTemperature     float64 `json:"max_temperature" yaml:"max_temperature" mapstructure:"max_temperature"`
	MaxTokens          int     `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
	SupportsJSONOutput bool    `json:"supports_json_output" yaml:"supports_json_output" mapstructure:"supports_json_output"`
}

// Well-known configuration keys and paths.
const (
	KeyTitle            = "title"
	KeyOutputSchema     = "output_schema"
	KeyOutputJSONSchema = "output_json_schema"
	KeyLLMInfo          = "llm_info"
	KeyFewShotExamples  = "few_shot_examples"
	KeyURLVariables     = "url_variables"
	KeyInputMap         = "input_map"
	KeyOutputMap        = "output_map"
	KeySystemMessage    = "system_message"
	KeyUserMessage      = "user_message"
	KeyCode             = "code"
	KeyAPIBase          = "api_base"

	PathModel       = "llm_info.model"
	PathTemperature = "llm_info.temperature"
	PathMaxTokens   = "llm_info.max_tokens"
)

// Config is a node's configuration: a loose mapping from field name to
// value, with nested blocks addressed by dotted paths.
type Config map[string]any

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	return Config(paths.CloneMap(c))
}

// Get resolves a dotted path inside the configuration.
func (c Config) Get(path string) (any, bool) {
	return paths.Get(c, path)
}

// With returns a copy of the configuration with value set at path.
func (c Config) With(path string, value any) Config {
	return Config(paths.Set(c, path, value))
}

// Title returns the configured node title, or "" when unset.
func (c Config) Title() string {
	title, _ := c[KeyTitle].(string)
	return title
}
