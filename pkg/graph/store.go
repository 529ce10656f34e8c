// Package graph holds the canvas state shared by the editor surfaces:
// nodes, edges, committed per-node configurations and selection. It also
// provides the node factory and the upstream field collector.
package graph

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/nodecanvas/nodecanvas/pkg/types"
)

// ErrNodeNotFound is returned for operations on unknown node ids.
var ErrNodeNotFound = errors.New("node not found")

// Store is the in-memory canvas state. All accessors are safe for
// concurrent use; returned configurations are the committed values and
// must be treated as read-only by callers.
type Store struct {
	mu           sync.RWMutex
	nodes        []types.Node
	edges        []types.Edge
	configs      map[string]types.Config
	selected     string
	sidebarWidth int
}

// NewStore creates an empty canvas.
func NewStore() *Store {
	return &Store{configs: make(map[string]types.Config)}
}

// AddNode inserts a node together with its initial configuration.
func (s *Store) AddNode(node types.Node, cfg types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nodes {
		if n.ID == node.ID {
			return errors.Errorf("node %s already exists", node.ID)
		}
	}
	s.nodes = append(s.nodes, node)
	s.configs[node.ID] = cfg
	return nil
}

// AddEdge inserts an edge. Both endpoints must exist.
func (s *Store) AddEdge(edge types.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasNode(edge.Source) {
		return errors.Wrapf(ErrNodeNotFound, "edge source %s", edge.Source)
	}
	if !s.hasNode(edge.Target) {
		return errors.Wrapf(ErrNodeNotFound, "edge target %s", edge.Target)
	}
	s.edges = append(s.edges, edge)
	return nil
}

func (s *Store) hasNode(id string) bool {
	for _, n := range s.nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// RemoveNode deletes a node, its configuration, and every edge touching
// it.
func (s *Store) RemoveNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.nodes[:0]
	for _, n := range s.nodes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.nodes = kept
	edges := s.edges[:0]
	for _, e := range s.edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	s.edges = edges
	delete(s.configs, id)
	if s.selected == id {
		s.selected = ""
	}
}

// Node returns a node record by id.
func (s *Store) Node(id string) (types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return types.Node{}, false
}

// Nodes returns the node list in insertion order.
func (s *Store) Nodes() []types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Node(nil), s.nodes...)
}

// Edges returns the edge list in insertion order.
func (s *Store) Edges() []types.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Edge(nil), s.edges...)
}

// Config returns the last committed configuration for a node.
func (s *Store) Config(id string) (types.Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[id]
	return cfg, ok
}

// Configs returns the committed configuration table.
func (s *Store) Configs() map[string]types.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]types.Config, len(s.configs))
	for id, cfg := range s.configs {
		out[id] = cfg
	}
	return out
}

// UpdateNodeConfig replaces a node's committed configuration as a whole.
func (s *Store) UpdateNodeConfig(id string, cfg types.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.configs[id]; !ok {
		return
	}
	s.configs[id] = cfg
}

// UpdateNodeTitle sets a node's title, keeping the configuration and the
// presentation record in step.
func (s *Store) UpdateNodeTitle(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.configs[id]; ok {
		s.configs[id] = cfg.With(types.KeyTitle, title)
	}
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes[i].Data.Title = title
			return
		}
	}
}

// SetSelectedNode records the node whose configuration the sidebar
// edits. An empty id clears the selection.
func (s *Store) SetSelectedNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// SelectedNode returns the currently selected node id, or "".
func (s *Store) SelectedNode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetSidebarWidth records the sidebar panel width in pixels.
func (s *Store) SetSidebarWidth(px int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarWidth = px
}

// SidebarWidth returns the recorded sidebar width.
func (s *Store) SidebarWidth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sidebarWidth
}
