package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// MouseButtonCallback receives a button and the cursor position in pixels.
type MouseButtonCallback func(button common.MouseButton, x, y int32)

// Window is the editor's GLFW window. It owns the message loop and forwards input to the
// registered callbacks. It satisfies renderer.Surface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for vertical scroll events.
	//
	// Parameters:
	//   - callback: function receiving the scroll delta, negative when scrolling down
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key presses and repeats, Escape included.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key releases.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button and cursor position
	SetMouseDownCallback(callback MouseButtonCallback)

	// SetMouseUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the button and cursor position
	SetMouseUpCallback(callback MouseButtonCallback)

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in pixels
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor returns the platform surface descriptor built by the wgpuglfw bridge.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close destroys the window and terminates GLFW.
	//
	// Returns:
	//   - error: error if the window was never initialized
	Close() error

	// ProcessMessages runs the message loop on the calling thread until the window closes.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

type editorWindow struct {
	title string

	minWidth, minHeight int
	maxWidth, maxHeight int
	width, height       int

	closeOnEscape bool

	internalWindow any

	onUpdate    func()
	onResize    func(width, height int)
	onScroll    func(delta float32)
	onKeyDown   func(keyCode uint32)
	onKeyUp     func(keyCode uint32)
	onMouseDown MouseButtonCallback
	onMouseUp   MouseButtonCallback
	onMouseMove func(x, y int32)
}

var _ Window = &editorWindow{}

// NewWindow creates and shows a window. It locks the calling goroutine to its OS thread, so it
// must be called from the goroutine that later calls ProcessMessages.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: error if GLFW or the window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &editorWindow{
		title:     "oxy editor",
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	return w, nil
}

func (w *editorWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *editorWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *editorWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *editorWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *editorWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *editorWindow) SetMouseDownCallback(callback MouseButtonCallback) {
	w.onMouseDown = callback
}

func (w *editorWindow) SetMouseUpCallback(callback MouseButtonCallback) {
	w.onMouseUp = callback
}

func (w *editorWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *editorWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *editorWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *editorWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *editorWindow) ProcessMessages() {
	for w.IsRunning() {
		if !platformProcessMessages(w) {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *editorWindow) Width() int {
	return w.width
}

func (w *editorWindow) Height() int {
	return w.height
}

// dispatchKey routes a key action. Escape closes the window only when closeOnEscape is set;
// otherwise it reaches the key callbacks like any other key.
func (w *editorWindow) dispatchKey(key uint32, pressed bool) (closeRequested bool) {
	if pressed && key == common.KeyEsc && w.closeOnEscape {
		return true
	}
	if pressed {
		if w.onKeyDown != nil {
			w.onKeyDown(key)
		}
		return false
	}
	if w.onKeyUp != nil {
		w.onKeyUp(key)
	}
	return false
}

func (w *editorWindow) dispatchMouse(button common.MouseButton, pressed bool, x, y int32) {
	cb := w.onMouseUp
	if pressed {
		cb = w.onMouseDown
	}
	if cb != nil {
		cb(button, x, y)
	}
}

func (w *editorWindow) dispatchResize(width, height int) {
	w.width, w.height = width, height
	if width == 0 || height == 0 {
		return
	}
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
