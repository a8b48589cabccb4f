package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	offscreenColorFormat = wgpu.TextureFormatRGBA8Unorm
	depthFormat          = wgpu.TextureFormatDepth32Float
)

// Surface is the window side of a wgpu context.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// shaderResources are the GPU objects compiled for one shader strategy.
type shaderResources struct {
	module         *wgpu.ShaderModule
	uniforms       bind_group_provider.BindGroupProvider
	textureLayout  *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout

	textures    bind_group_provider.BindGroupProvider
	textureKeys []common.Texture
}

func (r *shaderResources) release() {
	r.uniforms.Release()
	r.textures.Release()
	if r.textureLayout != nil {
		r.textureLayout.Release()
	}
	if r.pipelineLayout != nil {
		r.pipelineLayout.Release()
	}
	if r.module != nil {
		r.module.Release()
	}
}

type wgpuContext struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        wgpu.TextureFormat
	presentMode          wgpu.PresentMode
	forceFallbackAdapter bool
	validateShaders      bool

	width        int
	height       int
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	binding      targetBinding
	pendingClear *common.Color

	modelLayout *wgpu.BindGroupLayout
	sampler     *wgpu.Sampler
	shaders     map[shader.Shader]*shaderResources
}

var _ Context = &wgpuContext{}

// NewContext creates a WebGPU context drawing to the window surface. Device setup failures panic
// since nothing can render without a device; per-frame failures are returned as errors.
//
// Parameters:
//   - window: the surface provider, usually the editor window
//   - options: functional options
//
// Returns:
//   - Context: the new context
func NewContext(window Surface, options ...ContextBuilderOption) Context {
	runtime.LockOSThread()
	c := &wgpuContext{
		mu:              &sync.Mutex{},
		instance:        wgpu.CreateInstance(nil),
		presentMode:     wgpu.PresentModeFifo,
		validateShaders: true,
		shaders:         make(map[shader.Shader]*shaderResources),
	}
	for _, opt := range options {
		opt(c)
	}
	c.surface = c.instance.CreateSurface(window.SurfaceDescriptor())

	a, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: c.forceFallbackAdapter,
		CompatibleSurface:    c.surface,
	})
	if err != nil {
		panic(err)
	}
	c.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Editor Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	c.device = d
	c.queue = d.GetQueue()

	c.modelLayout, err = d.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Model Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   modelUniformSize,
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}

	c.sampler, err = d.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Capture Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		panic(err)
	}

	c.configureSurface(window.Width(), window.Height())
	return c
}

func (c *wgpuContext) configureSurface(width, height int) {
	capabilities := c.surface.GetCapabilities(c.adapter)
	c.surfaceFormat = capabilities.Formats[0]
	c.surface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      c.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: c.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if c.depthView != nil {
		c.depthView.Release()
	}
	if c.depthTexture != nil {
		c.depthTexture.Release()
	}
	tex, view, err := c.createTexture("Surface Depth", width, height, depthFormat, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		panic(err)
	}
	c.depthTexture, c.depthView = tex, view
	c.width, c.height = width, height
}

func (c *wgpuContext) createTexture(label string, width, height int, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := c.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create texture %q: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("failed to create view for texture %q: %w", label, err)
	}
	return tex, view, nil
}

func (c *wgpuContext) NewFrameBuffer(label string, width, height int) (FrameBuffer, error) {
	if err := validateFrameBufferSize(label, width, height); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	colorTex, colorView, err := c.createTexture(label+" Color", width, height, offscreenColorFormat,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
	if err != nil {
		return nil, err
	}
	depthTex, depthView, err := c.createTexture(label+" Depth", width, height, depthFormat, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		colorView.Release()
		colorTex.Release()
		return nil, err
	}
	return &wgpuFrameBuffer{
		mu:     &sync.Mutex{},
		ctx:    c,
		label:  label,
		width:  width,
		height: height,
		color: &wgpuTexture{
			label:   label + " Color",
			width:   width,
			height:  height,
			texture: colorTex,
			view:    colorView,
		},
		depthTexture: depthTex,
		depthView:    depthView,
	}, nil
}

func (c *wgpuContext) NewMesh(label string, vertices []float32, indices []uint32) (Mesh, error) {
	if err := validateMesh(label, vertices, indices); err != nil {
		return nil, err
	}
	m := &wgpuMesh{
		mu:       &sync.Mutex{},
		ctx:      c,
		label:    label,
		provider: bind_group_provider.NewBindGroupProvider(label, bind_group_provider.RoleMesh, bind_group_provider.WithSlots(modelUniformSize)),
	}
	if err := m.upload(vertices, indices); err != nil {
		m.provider.Release()
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.growModelSlots(m, initialModelSlots); err != nil {
		m.provider.Release()
		return nil, err
	}
	return m, nil
}

// growModelSlots replaces the model buffer of a mesh with one holding n slots. Callers hold c.mu.
func (c *wgpuContext) growModelSlots(m *wgpuMesh, n int) error {
	p := m.provider
	buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.label + " Model Buffer",
		Size:  p.SlotStride() * uint64(n),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create model buffer for mesh %q: %w", m.label, err)
	}
	bg, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  m.label + " Model Bind Group",
		Layout: c.modelLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: p.SlotSize()},
		},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("failed to create model bind group for mesh %q: %w", m.label, err)
	}
	p.ReplaceBindGroup(bg)
	p.ReplaceBuffer(0, buf)
	p.SetSlotCapacity(n)
	logger.Logger().Debug("model slots resized", "mesh", m.label, "slots", n)
	return nil
}

func (c *wgpuContext) Bind(target FrameBuffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if target == c.binding.bound {
		return nil
	}
	if target != nil && c.binding.bound != nil {
		return ErrTargetBound
	}
	if err := c.flushClear(); err != nil {
		return err
	}
	return c.binding.bind(target)
}

func (c *wgpuContext) Bound() FrameBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binding.bound
}

func (c *wgpuContext) Clear(color common.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingClear = &color
}

func (c *wgpuContext) Submit(calls []DrawCall) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submit(calls)
}

// submit records one render pass into the bound target. Callers hold c.mu.
func (c *wgpuContext) submit(calls []DrawCall) error {
	colorView, depthView, format, err := c.target()
	if err != nil {
		return err
	}

	type preparedDraw struct {
		call        DrawCall
		res         *shaderResources
		pipeline    *wgpu.RenderPipeline
		mesh        *wgpuMesh
		modelOffset uint32
	}

	draws := make(map[*wgpuMesh]int)
	for _, call := range calls {
		if mesh, ok := call.Mesh.(*wgpuMesh); ok && !mesh.Disposed() {
			draws[mesh]++
		}
	}
	for mesh, n := range draws {
		mesh.provider.ResetSlots()
		if n <= mesh.provider.SlotCapacity() {
			continue
		}
		if err := c.growModelSlots(mesh, max(n, 2*mesh.provider.SlotCapacity())); err != nil {
			return err
		}
	}

	prepared := make([]preparedDraw, 0, len(calls))
	writes := make([]bind_group_provider.BufferWrite, 0, len(calls)*2)
	for _, call := range calls {
		mesh, ok := call.Mesh.(*wgpuMesh)
		if !ok || draws[mesh] == 0 {
			continue
		}
		offset, ok := mesh.provider.NextSlot()
		if !ok {
			return fmt.Errorf("mesh %q ran out of model slots", mesh.label)
		}
		res, err := c.resourcesFor(call.Shader)
		if err != nil {
			return err
		}
		rp, err := c.renderPipeline(call.Shader, res, format)
		if err != nil {
			return err
		}
		if err := c.bindTextures(call.Shader, res, call.Textures); err != nil {
			return err
		}
		writes = append(writes,
			bind_group_provider.BufferWrite{Provider: res.uniforms, Binding: 0, Data: call.Uniforms},
			bind_group_provider.BufferWrite{Provider: mesh.provider, Binding: 0, Offset: offset, Data: call.ModelUniform()},
		)
		prepared = append(prepared, preparedDraw{call: call, res: res, pipeline: rp, mesh: mesh, modelOffset: uint32(offset)})
	}
	c.writeBuffers(writes)

	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}

	loadOp := wgpu.LoadOpLoad
	clearValue := wgpu.Color{}
	if c.pendingClear != nil {
		loadOp = wgpu.LoadOpClear
		clearValue = wgpu.Color{
			R: float64(c.pendingClear.R),
			G: float64(c.pendingClear.G),
			B: float64(c.pendingClear.B),
			A: float64(c.pendingClear.A),
		}
		c.pendingClear = nil
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       colorView,
				LoadOp:     loadOp,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clearValue,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView,
			DepthLoadOp:     loadOp,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	for _, d := range prepared {
		pass.SetPipeline(d.pipeline)
		pass.SetBindGroup(0, d.res.uniforms.BindGroup(), nil)
		pass.SetBindGroup(1, d.mesh.provider.BindGroup(), []uint32{d.modelOffset})
		if d.res.textureLayout != nil {
			pass.SetBindGroup(2, d.res.textures.BindGroup(), nil)
		}
		pass.SetVertexBuffer(0, d.mesh.provider.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.mesh.provider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(d.mesh.provider.IndexCount()), 1, 0, 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return fmt.Errorf("failed to finish render pass: %w", err)
	}
	c.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()
	return nil
}

// target resolves the attachments of the bound target. Callers hold c.mu.
func (c *wgpuContext) target() (*wgpu.TextureView, *wgpu.TextureView, wgpu.TextureFormat, error) {
	if fb, ok := c.binding.bound.(*wgpuFrameBuffer); ok && fb != nil {
		return fb.color.view, fb.depthView, offscreenColorFormat, nil
	}
	if c.frameView == nil {
		return nil, nil, 0, ErrNoFrame
	}
	return c.frameView, c.depthView, c.surfaceFormat, nil
}

// flushClear submits an empty pass when a clear is pending so it is not lost on a target switch.
func (c *wgpuContext) flushClear() error {
	if c.pendingClear == nil {
		return nil
	}
	if c.binding.bound == nil && c.frameView == nil {
		c.pendingClear = nil
		return nil
	}
	return c.submit(nil)
}

func (c *wgpuContext) writeBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		if w.Empty() {
			continue
		}
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		c.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

// resourcesFor compiles the shader module and creates the uniform buffer and layouts of a shader
// the first time it is drawn.
func (c *wgpuContext) resourcesFor(sh shader.Shader) (*shaderResources, error) {
	if res, ok := c.shaders[sh]; ok {
		return res, nil
	}
	if c.validateShaders {
		if err := shader.Validate(sh.Name(), sh.Source()); err != nil {
			return nil, err
		}
	}

	module, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: sh.Name(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: sh.Source(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module %q: %w", sh.Name(), err)
	}
	uniformLayout, err := c.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: sh.Name() + " Uniform Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		module.Release()
		return nil, fmt.Errorf("failed to create uniform layout for %q: %w", sh.Name(), err)
	}
	res := &shaderResources{
		module:   module,
		uniforms: bind_group_provider.NewBindGroupProvider(sh.Name()+" Uniforms", bind_group_provider.RoleUniforms, bind_group_provider.WithBindGroupLayout(uniformLayout)),
		textures: bind_group_provider.NewBindGroupProvider(sh.Name()+" Textures", bind_group_provider.RoleTextures),
	}

	size := uint64(max(sh.Program().Size(), 16))
	buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: sh.Name() + " Uniform Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		res.release()
		return nil, fmt.Errorf("failed to create uniform buffer for %q: %w", sh.Name(), err)
	}
	res.uniforms.ReplaceBuffer(0, buf)

	bg, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   sh.Name() + " Uniform Bind Group",
		Layout:  uniformLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf, Offset: 0, Size: wgpu.WholeSize}},
	})
	if err != nil {
		res.release()
		return nil, fmt.Errorf("failed to create uniform bind group for %q: %w", sh.Name(), err)
	}
	res.uniforms.ReplaceBindGroup(bg)

	layouts := []*wgpu.BindGroupLayout{uniformLayout, c.modelLayout}
	if n := sh.Pipeline().SampledTextures(); n > 0 {
		entries := make([]wgpu.BindGroupLayoutEntry, 0, n+1)
		for i := range n {
			entries = append(entries, wgpu.BindGroupLayoutEntry{
				Binding:    uint32(i),
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			})
		}
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(n),
			Visibility: wgpu.ShaderStageFragment,
			Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
		})
		res.textureLayout, err = c.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   sh.Name() + " Texture Layout",
			Entries: entries,
		})
		if err != nil {
			res.release()
			return nil, fmt.Errorf("failed to create texture layout for %q: %w", sh.Name(), err)
		}
		layouts = append(layouts, res.textureLayout)
	}

	res.pipelineLayout, err = c.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            sh.Pipeline().PipelineKey(),
		BindGroupLayouts: layouts,
	})
	if err != nil {
		res.release()
		return nil, fmt.Errorf("failed to create pipeline layout for %q: %w", sh.Name(), err)
	}

	c.shaders[sh] = res
	return res, nil
}

// renderPipeline returns the shader's pipeline for a color format, compiling it on first use.
func (c *wgpuContext) renderPipeline(sh shader.Shader, res *shaderResources, format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	p := sh.Pipeline()
	if rp := p.RenderPipeline(format); rp != nil {
		return rp, nil
	}

	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	rp, err := c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: res.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     res.module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: VertexStride * 4,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     res.module,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create render pipeline %q: %w", p.PipelineKey(), err)
	}
	p.SetRenderPipeline(format, rp)
	return rp, nil
}

// bindTextures rebuilds the shader's texture bind group when the sampled textures changed, which
// happens after the capture buffers are reallocated.
func (c *wgpuContext) bindTextures(sh shader.Shader, res *shaderResources, textures []common.Texture) error {
	if res.textureLayout == nil {
		return nil
	}
	n := sh.Pipeline().SampledTextures()
	if len(textures) < n {
		return fmt.Errorf("shader %q samples %d textures, got %d", sh.Name(), n, len(textures))
	}
	if sameTextures(res.textureKeys, textures[:n]) && res.textures.BindGroup() != nil {
		return nil
	}

	entries := make([]wgpu.BindGroupEntry, 0, n+1)
	for i, t := range textures[:n] {
		tex, ok := t.(*wgpuTexture)
		if !ok || tex.view == nil {
			return fmt.Errorf("shader %q texture %d is not a live GPU texture", sh.Name(), i)
		}
		entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(i), TextureView: tex.view})
	}
	entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(n), Sampler: c.sampler})

	bg, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   sh.Name() + " Texture Bind Group",
		Layout:  res.textureLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to create texture bind group for %q: %w", sh.Name(), err)
	}
	res.textures.ReplaceBindGroup(bg)
	res.textureKeys = append(res.textureKeys[:0], textures[:n]...)
	return nil
}

func sameTextures(a, b []common.Texture) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c *wgpuContext) BeginFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}
	surfaceTexture, err := c.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	c.frameSurface = surfaceTexture
	c.frameView = view
	return nil
}

func (c *wgpuContext) EndFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frameSurface == nil {
		return ErrNoFrame
	}
	err := c.flushClear()

	c.surface.Present()
	c.frameView.Release()
	c.frameView = nil
	c.frameSurface.Release()
	c.frameSurface = nil
	return err
}

func (c *wgpuContext) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	c.configureSurface(width, height)
}

func (c *wgpuContext) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for sh, res := range c.shaders {
		res.release()
		sh.Pipeline().Release()
		delete(c.shaders, sh)
	}
	if c.sampler != nil {
		c.sampler.Release()
		c.sampler = nil
	}
	if c.modelLayout != nil {
		c.modelLayout.Release()
		c.modelLayout = nil
	}
	if c.depthView != nil {
		c.depthView.Release()
		c.depthView = nil
	}
	if c.depthTexture != nil {
		c.depthTexture.Release()
		c.depthTexture = nil
	}
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
	logger.Logger().Debug("renderer: context released")
}

type wgpuTexture struct {
	label   string
	width   int
	height  int
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *wgpuTexture) Label() string { return t.label }
func (t *wgpuTexture) Width() int    { return t.width }
func (t *wgpuTexture) Height() int   { return t.height }

func (t *wgpuTexture) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

type wgpuFrameBuffer struct {
	mu *sync.Mutex

	ctx          *wgpuContext
	label        string
	width        int
	height       int
	color        *wgpuTexture
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	disposed     bool
}

func (f *wgpuFrameBuffer) Label() string { return f.label }
func (f *wgpuFrameBuffer) Width() int    { return f.width }
func (f *wgpuFrameBuffer) Height() int   { return f.height }

func (f *wgpuFrameBuffer) ColorTexture() common.Texture {
	return f.color
}

func (f *wgpuFrameBuffer) Begin() error {
	if f.Disposed() {
		return ErrTargetDisposed
	}
	return f.ctx.Bind(f)
}

func (f *wgpuFrameBuffer) End() error {
	if f.ctx.Bound() != FrameBuffer(f) {
		return ErrTargetNotBound
	}
	return f.ctx.Bind(nil)
}

func (f *wgpuFrameBuffer) Disposed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disposed
}

func (f *wgpuFrameBuffer) Dispose() {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return
	}
	f.disposed = true
	f.mu.Unlock()

	f.ctx.mu.Lock()
	if f.ctx.binding.bound == FrameBuffer(f) {
		f.ctx.pendingClear = nil
		f.ctx.binding.bound = nil
	}
	f.ctx.mu.Unlock()

	f.color.release()
	if f.depthView != nil {
		f.depthView.Release()
		f.depthView = nil
	}
	if f.depthTexture != nil {
		f.depthTexture.Release()
		f.depthTexture = nil
	}
}

type wgpuMesh struct {
	mu *sync.Mutex

	ctx         *wgpuContext
	label       string
	provider    bind_group_provider.BindGroupProvider
	vertexCount int
	disposed    bool
}

func (m *wgpuMesh) Label() string { return m.label }

func (m *wgpuMesh) VertexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vertexCount
}

func (m *wgpuMesh) IndexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.provider.IndexCount()
}

func (m *wgpuMesh) Update(vertices []float32, indices []uint32) error {
	if err := validateMesh(m.label, vertices, indices); err != nil {
		return err
	}
	return m.upload(vertices, indices)
}

// upload replaces the vertex and index buffers. Buffers are reused when the new data fits.
func (m *wgpuMesh) upload(vertices []float32, indices []uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx.mu.Lock()
	defer m.ctx.mu.Unlock()

	vertexData := common.SliceToBytes(vertices)
	indexData := common.SliceToBytes(indices)

	vb, err := m.ensureBuffer(m.provider.VertexBuffer(), " Vertex Buffer", uint64(len(vertexData)), wgpu.BufferUsageVertex)
	if err != nil {
		return err
	}
	ib, err := m.ensureBuffer(m.provider.IndexBuffer(), " Index Buffer", uint64(len(indexData)), wgpu.BufferUsageIndex)
	if err != nil {
		if vb != m.provider.VertexBuffer() {
			vb.Release()
		}
		return err
	}

	m.ctx.queue.WriteBuffer(vb, 0, vertexData)
	m.ctx.queue.WriteBuffer(ib, 0, indexData)
	m.provider.SetGeometry(vb, ib, len(indices))
	m.vertexCount = len(vertices) / VertexStride
	return nil
}

func (m *wgpuMesh) ensureBuffer(current *wgpu.Buffer, suffix string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	if current != nil && current.GetSize() >= size {
		return current, nil
	}
	buf, err := m.ctx.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.label + suffix,
		Size:  size,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create%s for mesh %q: %w", suffix, m.label, err)
	}
	return buf, nil
}

func (m *wgpuMesh) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

func (m *wgpuMesh) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.disposed = true
	m.provider.Release()
}
