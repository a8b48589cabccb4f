package scene_graph

import "github.com/Carmen-Shannon/oxy-editor/engine/game_object"

// SceneGraphBuilderOption is a functional option for configuring a SceneGraph.
type SceneGraphBuilderOption func(g *sceneGraph)

// WithObjects attaches initial objects under the root.
//
// Parameters:
//   - objects: the objects to attach
//
// Returns:
//   - SceneGraphBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneGraphBuilderOption {
	return func(g *sceneGraph) {
		for _, obj := range objects {
			_ = g.root.AddChild(obj)
		}
	}
}

// WithUpdateWorkers sets the number of worker goroutines that run object updates. Defaults to
// runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneGraphBuilderOption: option function to apply
func WithUpdateWorkers(n int) SceneGraphBuilderOption {
	return func(g *sceneGraph) {
		g.workers = max(n, 1)
	}
}
