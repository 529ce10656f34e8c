package main

import (
	"fmt"

	"github.com/nodecanvas/nodecanvas/log"
	"github.com/nodecanvas/nodecanvas/pkg/graph"
	"github.com/nodecanvas/nodecanvas/pkg/panel"
	"github.com/nodecanvas/nodecanvas/pkg/registry"
	"github.com/nodecanvas/nodecanvas/pkg/render"
	"github.com/nodecanvas/nodecanvas/pkg/types"
)

// Demonstrates the sidebar flow end to end: build a small canvas, select
// the LLM node, edit its configuration through a session, and resolve
// the controls the sidebar would draw.
func main() {
	log.SetLevel(log.LevelDebug)

	reg := registry.Builtins()
	store := graph.NewStore()

	inputNode, inputCfg, err := graph.CreateNode(reg, "input", "questions", types.Position{X: 80, Y: 120})
	must(err)
	must(store.AddNode(*inputNode, inputCfg))

	llmNode, llmCfg, err := graph.CreateNode(reg, "llm", "answerer", types.Position{X: 360, Y: 120})
	must(err)
	must(store.AddNode(*llmNode, llmCfg))
	must(store.AddEdge(types.Edge{ID: "e1", Source: "questions", Target: "answerer"}))

	store.SetSelectedNode("answerer")
	store.SetSidebarWidth(420)

	session := panel.NewSession(store, reg, panel.WithNotifier(func(msg string) {
		fmt.Println("notice:", msg)
	}))
	must(session.Load(store.SelectedNode()))

	// A model change clamps temperature and max_tokens in one commit.
	session.ChangeModel("claude-3-5-sonnet-20241022")

	// Slider drags commit once, after the debounce window.
	session.EditField(types.PathTemperature, 1.4, true)
	session.EditField(types.PathTemperature, 0.9, true)
	session.Flush()

	session.EditTitle("my answer node")

	upstream := store.UpstreamFields("answerer")
	fmt.Println("upstream fields:", upstream)

	for _, ctl := range render.Controls(session.NodeType(), session.Working(), upstream) {
		fmt.Printf("  %-20s kind=%v\n", ctl.Path, ctl.Kind)
	}

	preview, err := render.PreviewPrompt(
		"Answer this question: "+render.Reference("questions.input_1"),
		map[string]any{"questions.input_1": "why is the sky blue?"},
	)
	must(err)
	fmt.Println("prompt preview:", preview)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
