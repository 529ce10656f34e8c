package graph

import (
	"github.com/nodecanvas/nodecanvas/pkg/schema"
	"github.com/nodecanvas/nodecanvas/pkg/types"
)

// CollectUpstreamFields flattens the declared output fields of every
// node feeding into nodeID as "<sourceTitleOrID>.<fieldName>" strings,
// in edge order then field declaration order. The result is a read-only
// reference list for autocomplete in text and mapping editors.
func CollectUpstreamFields(
	nodeID string,
	nodes []types.Node,
	edges []types.Edge,
	configs map[string]types.Config,
) []string {
	byID := make(map[string]types.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var fields []string
	for _, edge := range edges {
		if edge.Target != nodeID {
			continue
		}
		source, ok := byID[edge.Source]
		if !ok {
			continue
		}
		cfg := configs[source.ID]
		m := schema.MappingOf(cfg[types.KeyOutputSchema])
		if m == nil {
			continue
		}
		namespace := cfg.Title()
		if namespace == "" {
			namespace = source.ID
		}
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			fields = append(fields, namespace+"."+pair.Key)
		}
	}
	return fields
}

// UpstreamFields is CollectUpstreamFields over a store's current state.
func (s *Store) UpstreamFields(nodeID string) []string {
	return CollectUpstreamFields(nodeID, s.Nodes(), s.Edges(), s.Configs())
}
