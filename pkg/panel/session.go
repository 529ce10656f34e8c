// Package panel implements the sidebar's configuration edit session: a
// working copy of one node's configuration that absorbs field edits,
// re-derives dependent fields, and publishes commits to the canvas
// store, debounced for slider-originated edits.
package panel

import (
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/nodecanvas/nodecanvas/log"
	"github.com/nodecanvas/nodecanvas/pkg/registry"
	"github.com/nodecanvas/nodecanvas/pkg/schema"
	"github.com/nodecanvas/nodecanvas/pkg/types"
)

// DebounceWindow is the trailing-edge quiet period for slider commits.
const DebounceWindow = 300 * time.Millisecond

// defaultTemperature seeds an unset temperature before clamping on a
// model change.
const defaultTemperature = 0.7

// Store is the slice of canvas state the session depends on.
type Store interface {
	Node(id string) (types.Node, bool)
	Config(id string) (types.Config, bool)
	UpdateNodeConfig(id string, cfg types.Config)
	UpdateNodeTitle(id, title string)
}

// Option configures a session.
type Option func(*Session)

// WithDebounceWindow overrides the slider commit quiet period.
func WithDebounceWindow(d time.Duration) Option {
	return func(s *Session) { s.window = d }
}

// WithNotifier registers a callback for user-visible validation notices.
func WithNotifier(fn func(msg string)) Option {
	return func(s *Session) { s.notify = fn }
}

// Session owns the working configuration of the currently selected
// node. Every logical edit results in exactly one whole-object commit to
// the store, immediately or after the debounce window.
type Session struct {
	store  Store
	reg    *registry.Registry
	window time.Duration
	notify func(string)

	mu       sync.Mutex
	nodeID   string
	nodeType *registry.NodeType
	working  types.Config
	timers   map[string]*time.Timer
	pending  map[string]types.Config
}

// NewSession creates an edit session over a store and type registry.
func NewSession(store Store, reg *registry.Registry, opts ...Option) *Session {
	s := &Session{
		store:   store,
		reg:     reg,
		window:  DebounceWindow,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]types.Config),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// llmSettings is the typed view of a configuration's llm_info block.
type llmSettings struct {
	Model       string   `mapstructure:"model"`
	Temperature *float64 `mapstructure:"temperature"`
	MaxTokens   *int     `mapstructure:"max_tokens"`
}

func decodeLLM(cfg types.Config) llmSettings {
	var out llmSettings
	raw, ok := cfg[types.KeyLLMInfo]
	if !ok {
		return out
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out
	}
	if err := dec.Decode(raw); err != nil {
		log.Debugf("panel: llm_info block did not decode: %v", err)
	}
	return out
}

// Load switches the session to a node, seeding the working copy from
// the committed configuration. Any pending debounced commit for the
// previously selected node is flushed first, so the last buffered slider
// value is not lost on deselection. LLM-capable nodes with no model set
// default to the baseline model.
func (s *Session) Load(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()

	cfg, ok := s.store.Config(nodeID)
	if !ok {
		return errors.Errorf("no configuration for node %s", nodeID)
	}
	node, ok := s.store.Node(nodeID)
	if !ok {
		return errors.Errorf("node %s not found", nodeID)
	}
	nt, _ := s.reg.Get(node.Type)

	s.nodeID = nodeID
	s.nodeType = nt
	s.working = cfg.Clone()
	if nt.LLMCapable() && decodeLLM(s.working).Model == "" {
		s.working = s.working.With(types.PathModel, registry.DefaultModel)
	}
	return nil
}

// NodeID returns the id of the node being edited, or "".
func (s *Session) NodeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodeID
}

// NodeType returns the registry entry for the node being edited.
func (s *Session) NodeType() *registry.NodeType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodeType
}

// Working returns a snapshot of the working configuration.
func (s *Session) Working() types.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Clone()
}

// EditField applies one field edit at a dotted path. Slider-originated
// edits pass debounced=true and commit after the quiet period; all other
// edits commit synchronously. Direct edits to temperature or max_tokens
// are clamped against the current model's constraints first.
func (s *Session) EditField(path string, value any, debounced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeID == "" {
		return
	}
	switch path {
	case types.PathTemperature, types.PathMaxTokens:
		value = s.clampLocked(path, value)
	case types.KeyURLVariables:
		value = normalizeURLVariables(value)
	}
	s.editLocked(path, value, debounced)
}

func (s *Session) editLocked(path string, value any, debounced bool) {
	s.working = s.working.With(path, value)
	if debounced {
		s.scheduleLocked()
		return
	}
	s.commitLocked()
}

func (s *Session) clampLocked(path string, value any) any {
	c := s.nodeType.ConstraintsFor(decodeLLM(s.working).Model)
	if c == nil {
		return value
	}
	switch path {
	case types.PathTemperature:
		t, err := cast.ToFloat64E(value)
		if err != nil {
			return value
		}
		return clampFloat(t, c.MinTemperature, c.MaxTemperature)
	case types.PathMaxTokens:
		n, err := cast.ToIntE(value)
		if err != nil {
			return value
		}
		if n > c.MaxTokens {
			return c.MaxTokens
		}
		return n
	}
	return value
}

// ChangeModel switches the backing model and, when constraints exist for
// it, clamps temperature (seeded to the default when unset) and caps
// max_tokens. Model and both clamped fields commit as one object.
func (s *Session) ChangeModel(modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeID == "" {
		return
	}
	working := s.working.With(types.PathModel, modelID)
	if c := s.nodeType.ConstraintsFor(modelID); c != nil {
		settings := decodeLLM(working)
		temp := defaultTemperature
		if settings.Temperature != nil {
			temp = *settings.Temperature
		}
		working = working.With(types.PathTemperature, clampFloat(temp, c.MinTemperature, c.MaxTemperature))
		if settings.MaxTokens != nil && *settings.MaxTokens > c.MaxTokens {
			working = working.With(types.PathMaxTokens, c.MaxTokens)
		}
	}
	s.working = working
	s.commitLocked()
}

// EditTitle normalizes the value into an identifier-safe title
// (whitespace becomes underscores), surfacing a notice when anything was
// substituted, then commits through the store's title update. Returns
// the committed title.
func (s *Session) EditTitle(value string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeID == "" {
		return value
	}
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, value)
	if normalized != value {
		log.Warnf("panel: title %q contained whitespace, substituted underscores", value)
		if s.notify != nil {
			s.notify("Titles cannot contain spaces; they were replaced with underscores.")
		}
	}
	s.working = s.working.With(types.KeyTitle, normalized)
	s.store.UpdateNodeTitle(s.nodeID, normalized)
	return normalized
}

// UpdateOutputSchema replaces the simple output schema. A non-empty
// mapping that expands cleanly commits both representations atomically;
// otherwise only the simple view is committed and the JSON view stays
// stale until the next successful edit.
func (s *Session) UpdateOutputSchema(m *schema.Mapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeID == "" {
		return
	}
	working := s.working.With(types.KeyOutputSchema, m)
	if m != nil && m.Len() > 0 {
		if text, ok := schema.Expand(m); ok {
			working = working.With(types.KeyOutputJSONSchema, text)
		}
	}
	s.working = working
	s.commitLocked()
}

// UpdateOutputJSONSchema replaces the structured schema text. Non-empty
// text that simplifies cleanly commits both representations atomically;
// otherwise only the text is committed.
func (s *Session) UpdateOutputJSONSchema(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeID == "" {
		return
	}
	working := s.working.With(types.KeyOutputJSONSchema, text)
	if strings.TrimSpace(text) != "" {
		if m, ok := schema.Simplify(text); ok {
			working = working.With(types.KeyOutputSchema, m)
		}
	}
	s.working = working
	s.commitLocked()
}

// AddExample appends an empty input/output pair to the few-shot list.
func (s *Session) AddExample() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeID == "" {
		return
	}
	list := append(s.examplesLocked(), map[string]any{"input": "", "output": ""})
	s.editLocked(types.KeyFewShotExamples, list, false)
}

// DeleteExample removes the example at index i, shifting later entries.
func (s *Session) DeleteExample(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeID == "" {
		return
	}
	list := s.examplesLocked()
	if i < 0 || i >= len(list) {
		return
	}
	s.editLocked(types.KeyFewShotExamples, append(list[:i], list[i+1:]...), false)
}

func (s *Session) examplesLocked() []any {
	raw, ok := s.working[types.KeyFewShotExamples]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]any, len(list))
	for i, item := range list {
		out[i] = item
	}
	return out
}

// Flush commits every pending debounced edit immediately.
func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

// Close flushes pending edits and drops the working buffer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
	s.nodeID = ""
	s.nodeType = nil
	s.working = nil
}

func (s *Session) commitLocked() {
	s.store.UpdateNodeConfig(s.nodeID, s.working.Clone())
}

// scheduleLocked arms (or re-arms) the per-node commit timer with the
// latest buffered config. Rapid edits collapse to one commit at rest.
func (s *Session) scheduleLocked() {
	id := s.nodeID
	s.pending[id] = s.working.Clone()
	if t, ok := s.timers[id]; ok {
		t.Reset(s.window)
		return
	}
	s.timers[id] = time.AfterFunc(s.window, func() {
		s.fire(id)
	})
}

func (s *Session) fire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	delete(s.timers, id)
	s.store.UpdateNodeConfig(id, cfg)
}

func (s *Session) flushLocked() {
	for id, cfg := range s.pending {
		if t, ok := s.timers[id]; ok {
			t.Stop()
		}
		delete(s.pending, id)
		delete(s.timers, id)
		s.store.UpdateNodeConfig(id, cfg)
	}
}

// normalizeURLVariables keeps the url_variables table at its single
// legal entry, keyed "file".
func normalizeURLVariables(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if f, ok := m["file"]; ok {
		return map[string]any{"file": f}
	}
	return map[string]any{}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
