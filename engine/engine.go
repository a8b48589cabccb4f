package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/Carmen-Shannon/oxy-editor/engine/profiler"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/scene"
	"github.com/Carmen-Shannon/oxy-editor/engine/terrain"
	"github.com/Carmen-Shannon/oxy-editor/engine/window"
	"golang.org/x/sync/errgroup"
)

const idleFrameDelay = 10 * time.Millisecond

// ErrEngineStopped is returned by a second call to Run.
var ErrEngineStopped = errors.New("engine: stopped")

// Engine drives the editor: a fixed-rate tick loop updating scenes and applying brushes, and a
// render loop drawing active scenes in ascending key order. The first render or tick error is
// logged, stops both loops and is returned by Run.
type Engine interface {
	// Window returns the window, or nil for a headless engine.
	Window() window.Window

	// Brushes returns the brush manager receiving window input, or nil.
	Brushes() terrain.BrushManager

	// EnableProfiler turns on periodic frame stats.
	EnableProfiler()

	// DisableProfiler turns off periodic frame stats.
	DisableProfiler()

	// SetTickRate sets the tick loop rate.
	//
	// Parameters:
	//   - fps: ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called after each tick.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers a function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit caps the render loop.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at a z-index. Lower keys render first.
	//
	// Parameters:
	//   - key: the z-index
	//   - s: the scene
	AddScene(key int, s scene.Scene)

	// RemoveScene unregisters the scene at key without disposing it.
	//
	// Parameters:
	//   - key: the z-index
	RemoveScene(key int)

	// Scene returns the scene at key, or nil.
	//
	// Parameters:
	//   - key: the z-index
	//
	// Returns:
	//   - scene.Scene: the scene, or nil
	Scene(key int) scene.Scene

	// Scenes returns a copy of the registered scenes.
	//
	// Returns:
	//   - map[int]scene.Scene: scenes keyed by z-index
	Scenes() map[int]scene.Scene

	// Tick runs one logic step: active scenes update, then the active brush is applied.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//
	// Returns:
	//   - error: the first brush error
	Tick(dt float32) error

	// Frame renders one frame of every active scene between BeginFrame and EndFrame on the first
	// active scene's context.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//
	// Returns:
	//   - error: the first frame or scene render error
	Frame(dt float32) error

	// Apply runs fn while no tick or frame is in flight. Edits to scenes, cameras or contexts
	// made from other goroutines must go through it.
	//
	// Parameters:
	//   - fn: the edit to run
	Apply(fn func())

	// Run starts the loops and blocks until the window closes, Quit is called or a loop fails.
	//
	// Returns:
	//   - error: the error that stopped the engine, or nil
	Run() error

	// Quit stops the loops. Safe to call more than once.
	Quit()

	// Err returns the error that stopped the engine, or nil.
	Err() error

	// Dispose disposes the brushes and every registered scene, then releases their contexts.
	Dispose()
}

type engine struct {
	mu *sync.RWMutex

	// frameMu serializes ticks and frames so scene edits never overlap a render.
	frameMu *sync.Mutex

	window  window.Window
	brushes terrain.BrushManager
	scenes  map[int]scene.Scene

	tickRate         time.Duration
	tickRateChannel  chan time.Duration
	renderFrameLimit time.Duration
	tickCallback     func(deltaTime float32)
	renderCallback   func(deltaTime float32)

	profiler         *profiler.Profiler
	profilingEnabled bool

	started     bool
	quitChannel chan struct{}
	quitOnce    sync.Once
	err         error
}

var _ Engine = &engine{}

// NewEngine creates an engine. When a window is given, its input is routed to the brush manager
// and resizes reach every scene's context and camera.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Engine: the engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.RWMutex{},
		frameMu:         &sync.Mutex{},
		scenes:          make(map[int]scene.Scene),
		tickRate:        time.Second / 60,
		tickRateChannel: make(chan time.Duration, 1),
		profiler:        profiler.NewProfiler(),
		quitChannel:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.window != nil {
		e.bindWindow()
	}
	return e
}

func (e *engine) bindWindow() {
	e.window.SetResizeCallback(func(width, height int) {
		e.Apply(func() { e.resize(width, height) })
	})
	if e.brushes == nil {
		return
	}
	b := e.brushes
	e.window.SetMouseDownCallback(func(button common.MouseButton, _, _ int32) {
		e.Apply(func() { b.MouseDown(button) })
	})
	e.window.SetMouseUpCallback(func(button common.MouseButton, _, _ int32) {
		e.Apply(func() { b.MouseUp(button) })
	})
	e.window.SetMouseMoveCallback(func(x, y int32) {
		e.Apply(func() { b.MouseMoved(x, y) })
	})
	e.window.SetScrollCallback(func(delta float32) {
		e.Apply(func() { b.Scrolled(delta) })
	})
	e.window.SetKeyDownCallback(func(key uint32) {
		e.Apply(func() { b.KeyDown(key) })
	})
}

func (e *engine) resize(width, height int) {
	resized := make(map[renderer.Context]bool)
	for _, s := range e.sortedScenes(false) {
		if ctx := s.Context(); ctx != nil && !resized[ctx] {
			ctx.Resize(width, height)
			resized[ctx] = true
		}
		if cam := s.Camera(); cam != nil {
			cam.SetViewport(width, height)
		}
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Brushes() terrain.BrushManager {
	return e.brushes
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	rate := tickInterval(fps)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickRate = rate
	if !e.started {
		return
	}
	// Replace any pending update so the loop picks up the latest rate.
	select {
	case <-e.tickRateChannel:
	default:
	}
	e.tickRateChannel <- rate
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameInterval(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.scenes)
}

// sortedScenes returns scenes in ascending key order, optionally only the active ones.
func (e *engine) sortedScenes(activeOnly bool) []scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]scene.Scene, 0, len(e.scenes))
	for _, k := range slices.Sorted(maps.Keys(e.scenes)) {
		s := e.scenes[k]
		if activeOnly && !s.Active() {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (e *engine) Tick(dt float32) error {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	for _, s := range e.sortedScenes(true) {
		s.Update(dt)
	}
	if e.brushes != nil {
		if err := e.brushes.Act(); err != nil {
			return fmt.Errorf("engine: brush: %w", err)
		}
	}
	return nil
}

func (e *engine) Frame(dt float32) error {
	_, err := e.frame(dt)
	return err
}

// frame reports how many scenes were rendered.
func (e *engine) frame(dt float32) (int, error) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()

	active := e.sortedScenes(true)
	if len(active) == 0 {
		return 0, nil
	}
	ctx := active[0].Context()
	if err := ctx.BeginFrame(); err != nil {
		return 0, fmt.Errorf("engine: begin frame: %w", err)
	}
	for _, s := range active {
		if err := s.Render(dt); err != nil {
			_ = ctx.EndFrame()
			return 0, fmt.Errorf("engine: render scene %q: %w", s.Name(), err)
		}
	}
	if err := ctx.EndFrame(); err != nil {
		return 0, fmt.Errorf("engine: end frame: %w", err)
	}
	return len(active), nil
}

func (e *engine) Apply(fn func()) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	fn()
}

func (e *engine) Run() error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return ErrEngineStopped
	}
	e.started = true
	e.mu.Unlock()

	var g errgroup.Group
	g.Go(e.handleTick)
	g.Go(e.handleRender)

	if e.window != nil {
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				_ = e.window.Close()
			default:
			}
		})
		e.window.ProcessMessages()
		e.signalQuit()
	}

	return g.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.err
}

func (e *engine) fail(err error) {
	e.mu.Lock()
	if e.err == nil {
		e.err = err
	}
	e.mu.Unlock()
	logger.Logger().Error("engine: stopping", "err", err)
	e.signalQuit()
}

func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) handleTick() error {
	e.mu.RLock()
	ticker := time.NewTicker(e.tickRate)
	e.mu.RUnlock()
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return nil
		case rate := <-e.tickRateChannel:
			ticker.Reset(rate)
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			if err := e.Tick(dt); err != nil {
				e.fail(err)
				return err
			}
			e.mu.RLock()
			cb := e.tickCallback
			e.mu.RUnlock()
			if cb != nil {
				cb(dt)
			}
		}
	}
}

func (e *engine) handleRender() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: render panic: %v", r)
			e.fail(err)
		}
	}()

	last := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return nil
		default:
		}

		start := time.Now()
		dt := float32(start.Sub(last).Seconds())
		last = start
		rendered, frameErr := e.frame(dt)
		if frameErr != nil {
			e.fail(frameErr)
			return frameErr
		}
		if rendered == 0 {
			time.Sleep(idleFrameDelay)
			continue
		}

		e.mu.RLock()
		cb, profiling, limit := e.renderCallback, e.profilingEnabled, e.renderFrameLimit
		e.mu.RUnlock()
		if cb != nil {
			cb(dt)
		}
		if profiling {
			e.profiler.Tick()
		}
		if remaining := limit - time.Since(start); limit > 0 && remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) Dispose() {
	if e.brushes != nil {
		e.brushes.Dispose()
	}
	released := make(map[renderer.Context]bool)
	for _, s := range e.sortedScenes(false) {
		s.Dispose()
		if ctx := s.Context(); ctx != nil && !released[ctx] {
			ctx.Release()
			released[ctx] = true
		}
	}
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
