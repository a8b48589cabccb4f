package scene_graph

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

type sceneGraph struct {
	mu *sync.Mutex

	root    game_object.GameObject
	batch   renderer.Batch
	env     light.Environment
	workers int
	pool    worker.DynamicWorkerPool
	culled  int

	disposed bool
}

// SceneGraph owns the object tree of a scene and turns it into batch draws. Render draws every
// active non-water drawable restricted by a clipping plane; RenderWater draws the water surfaces
// with the capture textures. Both expect the caller to have begun the batch.
type SceneGraph interface {
	// Root returns the invisible root object.
	//
	// Returns:
	//   - game_object.GameObject: the root
	Root() game_object.GameObject

	// Add attaches objects under the root.
	//
	// Parameters:
	//   - objects: the objects to attach
	//
	// Returns:
	//   - error: game_object.ErrCycle if an object is the root
	Add(objects ...game_object.GameObject) error

	// Remove detaches a direct child of the root.
	//
	// Parameters:
	//   - obj: the object to detach
	//
	// Returns:
	//   - bool: true if obj was attached to the root
	Remove(obj game_object.GameObject) bool

	// Find searches the tree for an object by name.
	//
	// Parameters:
	//   - name: the name
	//
	// Returns:
	//   - game_object.GameObject: the first match or nil
	Find(name string) game_object.GameObject

	// Render records every active non-water drawable into the batch. Drawables whose bounds lie
	// entirely on the clipped side of the plane are skipped.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//   - normal: clipping plane normal; zero disables clipping
	//   - offset: clipping plane offset
	//
	// Returns:
	//   - error: the first batch error
	Render(dt float32, normal mgl32.Vec3, offset float32) error

	// RenderWater advances and records every active water surface, handing it both capture
	// textures.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//   - reflection: the reflection capture
	//   - refraction: the refraction capture
	//
	// Returns:
	//   - error: the first batch error
	RenderWater(dt float32, reflection, refraction common.Texture) error

	// ContainsWater reports whether any active object carries a water component.
	//
	// Returns:
	//   - bool: true if water is present
	ContainsWater() bool

	// Update updates every active object in parallel and returns once all updates finished.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float32)

	// Terrains returns every active terrain component.
	//
	// Returns:
	//   - []game_object.TerrainComponent: the terrains in traversal order
	Terrains() []game_object.TerrainComponent

	// Culled returns how many drawables the last Render skipped by clipping.
	//
	// Returns:
	//   - int: the culled count
	Culled() int

	// Dispose disposes every component in the tree and stops the update workers. Update is a
	// no-op afterwards and later calls are no-ops.
	Dispose()
}

var _ SceneGraph = &sceneGraph{}

// NewSceneGraph creates an empty graph drawing into batch under the lights of env.
//
// Parameters:
//   - batch: the batch the graph records into
//   - env: the lighting environment handed to every draw
//   - options: functional options
//
// Returns:
//   - SceneGraph: the new graph
func NewSceneGraph(batch renderer.Batch, env light.Environment, options ...SceneGraphBuilderOption) SceneGraph {
	g := &sceneGraph{
		mu:      &sync.Mutex{},
		root:    game_object.NewGameObject(game_object.WithName("root")),
		batch:   batch,
		env:     env,
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(g)
	}
	g.pool = worker.NewDynamicWorkerPool(g.workers, 256, 1*time.Second)
	return g
}

func (g *sceneGraph) Root() game_object.GameObject {
	return g.root
}

func (g *sceneGraph) Add(objects ...game_object.GameObject) error {
	for _, obj := range objects {
		if err := g.root.AddChild(obj); err != nil {
			return fmt.Errorf("scene_graph: add %q: %w", obj.Name(), err)
		}
	}
	return nil
}

func (g *sceneGraph) Remove(obj game_object.GameObject) bool {
	return g.root.RemoveChild(obj)
}

func (g *sceneGraph) Find(name string) game_object.GameObject {
	return g.root.Find(name)
}

// each visits the components of every active object.
func (g *sceneGraph) each(fn func(c game_object.Component) error) error {
	var err error
	g.root.Walk(func(obj game_object.GameObject) bool {
		if err != nil || !obj.Active() {
			return false
		}
		for _, c := range obj.Components() {
			if err = fn(c); err != nil {
				return false
			}
		}
		return true
	})
	return err
}

func (g *sceneGraph) Render(dt float32, normal mgl32.Vec3, offset float32) error {
	params := renderer.DrawParams{
		Environment: g.env,
		Clipping:    shader.ClippingPlane{Normal: normal, Offset: offset},
	}
	culled := 0
	err := g.each(func(c game_object.Component) error {
		if c.Type() == game_object.ComponentWater {
			return nil
		}
		d, ok := c.(game_object.Drawable)
		if !ok {
			return nil
		}
		if center, radius := d.Bounds(); radius > 0 && !params.Clipping.KeepsSphere(center, radius) {
			culled++
			return nil
		}
		if err := g.batch.Render(d, d.Shader(), params); err != nil {
			return fmt.Errorf("scene_graph: render %s: %w", c.Type(), err)
		}
		return nil
	})

	g.mu.Lock()
	g.culled = culled
	g.mu.Unlock()
	return err
}

func (g *sceneGraph) RenderWater(dt float32, reflection, refraction common.Texture) error {
	params := renderer.DrawParams{
		Environment: g.env,
		Clipping:    shader.Disabled(),
		Reflection:  reflection,
		Refraction:  refraction,
	}
	return g.each(func(c game_object.Component) error {
		w, ok := c.(game_object.WaterComponent)
		if !ok {
			return nil
		}
		w.Advance(dt)
		if err := g.batch.Render(w, w.Shader(), params); err != nil {
			return fmt.Errorf("scene_graph: render water: %w", err)
		}
		return nil
	})
}

func (g *sceneGraph) ContainsWater() bool {
	found := false
	_ = g.each(func(c game_object.Component) error {
		if c.Type() == game_object.ComponentWater {
			found = true
		}
		return nil
	})
	return found
}

func (g *sceneGraph) Update(dt float32) {
	g.mu.Lock()
	disposed := g.disposed
	g.mu.Unlock()
	if disposed {
		return
	}

	var objects []game_object.GameObject
	g.root.Walk(func(obj game_object.GameObject) bool {
		if !obj.Active() {
			return false
		}
		objects = append(objects, obj)
		return true
	})

	// The pool keeps its workers between frames; the WaitGroup is the per-frame barrier.
	var wg sync.WaitGroup
	for i, obj := range objects {
		wg.Add(1)
		g.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				obj.Update(dt)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (g *sceneGraph) Terrains() []game_object.TerrainComponent {
	var out []game_object.TerrainComponent
	_ = g.each(func(c game_object.Component) error {
		if t, ok := c.(game_object.TerrainComponent); ok {
			out = append(out, t)
		}
		return nil
	})
	return out
}

func (g *sceneGraph) Culled() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.culled
}

func (g *sceneGraph) Dispose() {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return
	}
	g.disposed = true
	g.mu.Unlock()

	g.pool.Stop()
	g.root.Dispose()
}
