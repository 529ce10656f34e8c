package graph

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nodecanvas/nodecanvas/pkg/registry"
	"github.com/nodecanvas/nodecanvas/pkg/types"
)

// CreateOption customizes a node produced by CreateNode.
type CreateOption func(*types.Node)

// WithParent places the node inside a group node.
func WithParent(id string) CreateOption {
	return func(n *types.Node) { n.ParentID = id }
}

// WithSize gives the node an explicit size.
func WithSize(d types.Dimensions) CreateOption {
	return func(n *types.Node) { n.Size = &d }
}

// CreateNode builds a new node record plus its initial configuration,
// seeded from the type's declared defaults. The configuration is a deep
// copy with the title overwritten to the node id, so titles start unique
// when ids are. The only failure is an unknown type name. CreateNode
// touches no store; insertion is the caller's job.
func CreateNode(
	reg *registry.Registry,
	typeName, id string,
	pos types.Position,
	opts ...CreateOption,
) (*types.Node, types.Config, error) {
	nt, ok := reg.Get(typeName)
	if !ok {
		return nil, nil, errors.Wrap(registry.ErrUnknownType, typeName)
	}
	if id == "" {
		id = uuid.New().String()
	}

	cfg := nt.Config.Clone()
	if cfg == nil {
		cfg = types.Config{}
	}
	cfg[types.KeyTitle] = id

	node := &types.Node{
		ID:       id,
		Type:     typeName,
		Position: pos,
		Data: types.NodeData{
			Title:    id,
			Acronym:  nt.VisualTag,
			Color:    nt.Color,
			Logo:     nt.Logo,
			Category: nt.Category,
		},
	}
	for _, opt := range opts {
		opt(node)
	}
	return node, cfg, nil
}
