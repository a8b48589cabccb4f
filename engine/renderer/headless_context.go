package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
)

// OpKind identifies an operation recorded by the headless context.
type OpKind int

const (
	// OpAllocate is a framebuffer allocation.
	OpAllocate OpKind = iota
	// OpRelease is a framebuffer release.
	OpRelease
	// OpBind is a target switch; Target is empty for the default target.
	OpBind
	// OpClear is a clear of the bound target.
	OpClear
	// OpSubmit is one submitted render pass.
	OpSubmit
	// OpBeginFrame starts a window frame.
	OpBeginFrame
	// OpEndFrame presents a window frame.
	OpEndFrame
)

func (k OpKind) String() string {
	switch k {
	case OpAllocate:
		return "allocate"
	case OpRelease:
		return "release"
	case OpBind:
		return "bind"
	case OpClear:
		return "clear"
	case OpSubmit:
		return "submit"
	case OpBeginFrame:
		return "begin-frame"
	case OpEndFrame:
		return "end-frame"
	default:
		return "unknown"
	}
}

// Op is one recorded operation.
type Op struct {
	Kind   OpKind
	Target string
	Width  int
	Height int
	Color  common.Color
	Calls  []DrawCall
}

type headlessContext struct {
	mu *sync.Mutex

	binding  targetBinding
	width    int
	height   int
	inFrame  bool
	ops      []Op
	live     int
	failures map[string]error
}

// HeadlessContext is a Context without a GPU. It keeps resource bookkeeping and target binding
// rules identical to the wgpu context and records every operation so render paths can be
// inspected in tests and CI.
type HeadlessContext interface {
	Context

	// Ops returns a copy of every recorded operation in order.
	Ops() []Op

	// Count returns how many operations of a kind were recorded.
	//
	// Parameters:
	//   - kind: the operation kind
	//
	// Returns:
	//   - int: the number of matching operations
	Count(kind OpKind) int

	// Reset forgets the recorded operations.
	Reset()

	// LiveFrameBuffers returns how many framebuffers are allocated and not yet disposed.
	LiveFrameBuffers() int

	// FailAllocation makes the next framebuffer allocation with label fail with err.
	//
	// Parameters:
	//   - label: the framebuffer label to fail
	//   - err: the error to return
	FailAllocation(label string, err error)
}

var _ HeadlessContext = &headlessContext{}

// NewHeadlessContext creates a context whose default target has the given size.
//
// Parameters:
//   - width: default target width
//   - height: default target height
//
// Returns:
//   - HeadlessContext: the new context
func NewHeadlessContext(width, height int) HeadlessContext {
	return &headlessContext{
		mu:       &sync.Mutex{},
		width:    width,
		height:   height,
		failures: make(map[string]error),
	}
}

func (c *headlessContext) NewFrameBuffer(label string, width, height int) (FrameBuffer, error) {
	if err := validateFrameBufferSize(label, width, height); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failures[label]; ok {
		delete(c.failures, label)
		return nil, err
	}
	c.live++
	c.ops = append(c.ops, Op{Kind: OpAllocate, Target: label, Width: width, Height: height})
	return &headlessFrameBuffer{
		mu:     &sync.Mutex{},
		ctx:    c,
		label:  label,
		width:  width,
		height: height,
		color:  &headlessTexture{label: label + " color", width: width, height: height},
	}, nil
}

func (c *headlessContext) NewMesh(label string, vertices []float32, indices []uint32) (Mesh, error) {
	if err := validateMesh(label, vertices, indices); err != nil {
		return nil, err
	}
	return &headlessMesh{
		mu:          &sync.Mutex{},
		label:       label,
		vertexCount: len(vertices) / VertexStride,
		indexCount:  len(indices),
	}, nil
}

func (c *headlessContext) Bind(target FrameBuffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.binding.bind(target); err != nil {
		return err
	}
	op := Op{Kind: OpBind, Width: c.width, Height: c.height}
	if target != nil {
		op.Target = target.Label()
		op.Width = target.Width()
		op.Height = target.Height()
	}
	c.ops = append(c.ops, op)
	return nil
}

func (c *headlessContext) Bound() FrameBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binding.bound
}

func (c *headlessContext) Clear(color common.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, Op{Kind: OpClear, Target: c.targetLabel(), Color: color})
}

func (c *headlessContext) Submit(calls []DrawCall) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.binding.bound == nil && !c.inFrame {
		return ErrNoFrame
	}
	c.ops = append(c.ops, Op{Kind: OpSubmit, Target: c.targetLabel(), Calls: calls})
	return nil
}

func (c *headlessContext) BeginFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFrame = true
	c.ops = append(c.ops, Op{Kind: OpBeginFrame, Width: c.width, Height: c.height})
	return nil
}

func (c *headlessContext) EndFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inFrame {
		return ErrNoFrame
	}
	c.inFrame = false
	c.ops = append(c.ops, Op{Kind: OpEndFrame})
	return nil
}

func (c *headlessContext) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = width
	c.height = height
}

func (c *headlessContext) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live > 0 {
		logger.Logger().Warn("renderer: context released with live framebuffers", "count", c.live)
	}
}

func (c *headlessContext) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

func (c *headlessContext) Count(kind OpKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, op := range c.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (c *headlessContext) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
}

func (c *headlessContext) LiveFrameBuffers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

func (c *headlessContext) FailAllocation(label string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[label] = err
}

func (c *headlessContext) targetLabel() string {
	if c.binding.bound == nil {
		return ""
	}
	return c.binding.bound.Label()
}

func (c *headlessContext) release(fb *headlessFrameBuffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.binding.bound == fb {
		c.binding.bound = nil
	}
	c.live--
	c.ops = append(c.ops, Op{Kind: OpRelease, Target: fb.label, Width: fb.width, Height: fb.height})
}

type headlessTexture struct {
	label  string
	width  int
	height int
}

func (t *headlessTexture) Label() string { return t.label }
func (t *headlessTexture) Width() int    { return t.width }
func (t *headlessTexture) Height() int   { return t.height }

type headlessFrameBuffer struct {
	mu *sync.Mutex

	ctx      *headlessContext
	label    string
	width    int
	height   int
	color    *headlessTexture
	disposed bool
}

func (f *headlessFrameBuffer) Label() string { return f.label }
func (f *headlessFrameBuffer) Width() int    { return f.width }
func (f *headlessFrameBuffer) Height() int   { return f.height }

func (f *headlessFrameBuffer) ColorTexture() common.Texture {
	return f.color
}

func (f *headlessFrameBuffer) Begin() error {
	if f.Disposed() {
		return ErrTargetDisposed
	}
	return f.ctx.Bind(f)
}

func (f *headlessFrameBuffer) End() error {
	if f.ctx.Bound() != FrameBuffer(f) {
		return ErrTargetNotBound
	}
	return f.ctx.Bind(nil)
}

func (f *headlessFrameBuffer) Disposed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disposed
}

func (f *headlessFrameBuffer) Dispose() {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return
	}
	f.disposed = true
	f.mu.Unlock()
	f.ctx.release(f)
}

type headlessMesh struct {
	mu *sync.Mutex

	label       string
	vertexCount int
	indexCount  int
	disposed    bool
}

func (m *headlessMesh) Label() string { return m.label }

func (m *headlessMesh) VertexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vertexCount
}

func (m *headlessMesh) IndexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexCount
}

func (m *headlessMesh) Update(vertices []float32, indices []uint32) error {
	if err := validateMesh(m.label, vertices, indices); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vertexCount = len(vertices) / VertexStride
	m.indexCount = len(indices)
	return nil
}

func (m *headlessMesh) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
}
