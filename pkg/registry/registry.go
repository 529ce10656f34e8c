// Package registry supplies the declarative node-type catalog the editor
// renders from: default configurations, per-field metadata, and
// per-model constraint tables.
package registry

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nodecanvas/nodecanvas/pkg/types"
)

var (
	// ErrUnknownType is returned when a type name is not registered.
	ErrUnknownType = errors.New("unknown node type")
	// ErrDuplicateType is returned when a type name is already taken.
	ErrDuplicateType = errors.New("node type already registered")
)

// FieldSpec describes one configurable field of a node type.
type FieldSpec struct {
	Name    string   `yaml:"name"`
	Title   string   `yaml:"title,omitempty"`
	Type    string   `yaml:"type"`
	Enum    []string `yaml:"enum,omitempty"`
	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`
	Default any      `yaml:"default,omitempty"`
}

// NodeType is one immutable registry entry.
type NodeType struct {
	Name             string                            `yaml:"name"`
	Config           types.Config                      `yaml:"config"`
	Fields           []FieldSpec                       `yaml:"fields"`
	ModelConstraints map[string]types.ModelConstraints `yaml:"model_constraints,omitempty"`

	// Presentation metadata, copied verbatim onto created nodes.
	VisualTag string `yaml:"visual_tag,omitempty"`
	Color     string `yaml:"color,omitempty"`
	Logo      string `yaml:"logo,omitempty"`
	Category  string `yaml:"category,omitempty"`
}

// Field returns the metadata for a field name, if declared.
func (t *NodeType) Field(name string) (FieldSpec, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// ConstraintsFor looks up the constraint set for one backing model.
// Returns nil when the type declares no constraints or the model is
// absent; callers treat nil as unconstrained.
func (t *NodeType) ConstraintsFor(modelID string) *types.ModelConstraints {
	if t == nil || len(t.ModelConstraints) == 0 {
		return nil
	}
	c, ok := t.ModelConstraints[modelID]
	if !ok {
		return nil
	}
	return &c
}

// LLMCapable reports whether the type selects among backing models.
func (t *NodeType) LLMCapable() bool {
	return t != nil && len(t.ModelConstraints) > 0
}

// Registry is a read-mostly catalog of node types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*NodeType
	order []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{types: make(map[string]*NodeType)}
}

// Register adds a node type. Duplicate names are rejected.
func (r *Registry) Register(t NodeType) error {
	if t.Name == "" {
		return errors.New("node type must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[t.Name]; exists {
		return errors.Wrap(ErrDuplicateType, t.Name)
	}
	r.types[t.Name] = &t
	r.order = append(r.order, t.Name)
	return nil
}

// Get returns the entry for a type name.
func (r *Registry) Get(name string) (*NodeType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names lists registered type names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Load registers node types parsed from YAML.
func (r *Registry) Load(data []byte) error {
	var defs []NodeType
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return errors.Wrap(err, "parsing node type definitions")
	}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile registers node types from a YAML definition file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading node type definitions from %s", path)
	}
	return r.Load(data)
}
