package app

import (
	"unsafe"

	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/campusmap/campus/meshrt/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Logger is the subset of the engine logger the renderer reports through.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

const depthFormat = wgpu.TextureFormatDepth24Plus

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	MeshPipeline        *wgpu.RenderPipeline
	TransparentPipeline *wgpu.RenderPipeline
	LinePipeline        *wgpu.RenderPipeline
	CameraBuffer        *wgpu.Buffer
	CameraBindGroup     *wgpu.BindGroup
	DepthTexture        *wgpu.Texture
	DepthView           *wgpu.TextureView
	Sampler             *wgpu.Sampler

	opaque      gpuVertices
	shadows     gpuVertices
	transparent gpuVertices
	lines       gpuVertices

	TextRenderer  *core.TextRenderer
	TextPipeline  *wgpu.RenderPipeline
	TextAtlas     *wgpu.Texture
	TextAtlasView *wgpu.TextureView
	TextBindGroup *wgpu.BindGroup
	TextItems     []core.TextItem
	Rects         []core.RectItem
	text          gpuVertices

	Scene  *core.Scene
	Camera *core.CameraState
	Log    Logger
}

// gpuVertices is a growable vertex buffer plus the count drawn this frame.
type gpuVertices struct {
	label  string
	buffer *wgpu.Buffer
	count  uint32
}

func NewApp(window *glfw.Window, log Logger) *App {
	return &App{
		Window:      window,
		Camera:      core.NewCameraState(),
		Scene:       core.NewScene(),
		Log:         log,
		opaque:      gpuVertices{label: "Opaque VB"},
		shadows:     gpuVertices{label: "Shadow VB"},
		transparent: gpuVertices{label: "Transparent VB"},
		lines:       gpuVertices{label: "Line VB"},
		text:        gpuVertices{label: "Text VB"},
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	if err := a.setupMeshPipelines(); err != nil {
		return err
	}
	if err := a.setupDepth(int(a.Config.Width), int(a.Config.Height)); err != nil {
		return err
	}

	a.Sampler, err = a.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return err
	}

	a.TextRenderer, err = core.NewTextRenderer(18)
	if err != nil {
		a.Log.Warnf("text renderer disabled: %v", err)
		return nil
	}
	return a.setupTextResources()
}

func blendAlpha() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

func (a *App) setupMeshPipelines() error {
	module, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Mesh Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MeshWGSL},
	})
	if err != nil {
		return err
	}
	defer module.Release()

	a.CameraBuffer, err = a.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera UB",
		Size:  64,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	layout := wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(MeshVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	}

	build := func(label string, topology wgpu.PrimitiveTopology, blend *wgpu.BlendState, depthWrite bool) (*wgpu.RenderPipeline, error) {
		return a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label: label,
			Vertex: wgpu.VertexState{
				Module:     module,
				EntryPoint: "vs_main",
				Buffers:    []wgpu.VertexBufferLayout{layout},
			},
			Fragment: &wgpu.FragmentState{
				Module:     module,
				EntryPoint: "fs_main",
				Targets: []wgpu.ColorTargetState{{
					Format:    a.Config.Format,
					Blend:     blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				}},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  topology,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  wgpu.CullModeNone,
			},
			DepthStencil: &wgpu.DepthStencilState{
				Format:            depthFormat,
				DepthWriteEnabled: depthWrite,
				DepthCompare:      wgpu.CompareFunctionLessEqual,
				StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
				StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			},
			Multisample: wgpu.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
	}

	if a.MeshPipeline, err = build("Mesh Pipeline", wgpu.PrimitiveTopologyTriangleList, nil, true); err != nil {
		return err
	}
	if a.TransparentPipeline, err = build("Transparent Pipeline", wgpu.PrimitiveTopologyTriangleList, blendAlpha(), false); err != nil {
		return err
	}
	if a.LinePipeline, err = build("Line Pipeline", wgpu.PrimitiveTopologyLineList, nil, true); err != nil {
		return err
	}

	a.CameraBindGroup, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: a.MeshPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: a.CameraBuffer, Size: 64},
		},
	})
	return err
}

func (a *App) setupDepth(w, h int) error {
	if a.DepthView != nil {
		a.DepthView.Release()
	}
	if a.DepthTexture != nil {
		a.DepthTexture.Release()
	}

	var err error
	a.DepthTexture, err = a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	a.DepthView, err = a.DepthTexture.CreateView(nil)
	return err
}

func (a *App) setupTextResources() error {
	tr := a.TextRenderer
	w, h := tr.AtlasImage.Bounds().Dx(), tr.AtlasImage.Bounds().Dy()

	var err error
	a.TextAtlas, err = a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Text Atlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	a.Queue.WriteTexture(a.TextAtlas.AsImageCopy(), tr.AtlasImage.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	a.TextAtlasView, err = a.TextAtlas.CreateView(nil)
	if err != nil {
		return err
	}

	textMod, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Text Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return err
	}
	defer textMod.Release()

	a.TextPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     textMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     textMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    a.Config.Format,
				Blend:     blendAlpha(),
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		// Overlay pass shares the depth attachment but never tests against it.
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}

	a.TextBindGroup, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: a.TextPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.TextAtlasView},
			{Binding: 1, Sampler: a.Sampler},
		},
	})
	return err
}

func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 || a.Config == nil {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
	if err := a.setupDepth(w, h); err != nil {
		a.Log.Errorf("resize depth buffer: %v", err)
	}
}

// Size returns the current framebuffer size.
func (a *App) Size() (int, int) {
	if a.Config == nil {
		return 0, 0
	}
	return int(a.Config.Width), int(a.Config.Height)
}

// Update commits the scene and uploads this frame's vertex data.
func (a *App) Update() {
	if a.Scene == nil {
		return
	}
	w, h := a.Size()

	viewProj := a.Camera.ViewProjection(w, h)
	a.Scene.Commit(a.Camera.ExtractFrustum(viewProj))
	a.Queue.WriteBuffer(a.CameraBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&viewProj[0])), 64))

	batch := BuildBatch(a.Scene, a.Camera.Position())
	a.upload(&a.opaque, batch.Opaque)
	a.upload(&a.shadows, batch.Shadows)
	a.upload(&a.transparent, batch.Transparent)
	a.upload(&a.lines, batch.Lines)

	if a.TextRenderer == nil {
		return
	}
	labelRects, labelItems := LayoutLabels(a.Scene, a.Camera, w, h, a.TextRenderer.MeasureText)
	vertices := a.TextRenderer.BuildVertices(labelRects, labelItems, w, h)
	vertices = append(vertices, a.TextRenderer.BuildVertices(a.Rects, a.TextItems, w, h)...)
	uploadVertices(a, &a.text, vertices)
}

func (a *App) upload(dst *gpuVertices, vertices []MeshVertex) {
	uploadVertices(a, dst, vertices)
}

func uploadVertices[V any](a *App, dst *gpuVertices, vertices []V) {
	dst.count = 0
	if len(vertices) == 0 {
		return
	}
	var zero V
	size := uint64(len(vertices)) * uint64(unsafe.Sizeof(zero))
	if dst.buffer == nil || dst.buffer.GetSize() < size {
		if dst.buffer != nil {
			dst.buffer.Release()
		}
		buf, err := a.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: dst.label,
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			a.Log.Errorf("create %s: %v", dst.label, err)
			dst.buffer = nil
			return
		}
		dst.buffer = buf
	}
	a.Queue.WriteBuffer(dst.buffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size))
	dst.count = uint32(len(vertices))
}

func (a *App) ClearText() {
	a.TextItems = a.TextItems[:0]
	a.Rects = a.Rects[:0]
}

func (a *App) DrawText(text string, x, y float32, scale float32, color [4]float32) {
	a.TextItems = append(a.TextItems, core.TextItem{
		Text:     text,
		Position: [2]float32{x, y},
		Scale:    scale,
		Color:    color,
	})
}

func (a *App) DrawRect(x0, y0, x1, y1 float32, color [4]float32) {
	a.Rects = append(a.Rects, core.RectItem{
		Min:   [2]float32{x0, y0},
		Max:   [2]float32{x1, y1},
		Color: color,
	})
}

func (a *App) MeasureText(text string, scale float32) (float32, float32) {
	return a.TextRenderer.MeasureText(text, scale)
}

func (a *App) Render() {
	if a.Scene == nil {
		return
	}
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	bg := a.Scene.Background
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: bg[0], G: bg[1], B: bg[2], A: bg[3]},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})

	draw := func(pipeline *wgpu.RenderPipeline, bindGroup *wgpu.BindGroup, v *gpuVertices) {
		if pipeline == nil || v.buffer == nil || v.count == 0 {
			return
		}
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, bindGroup, nil)
		pass.SetVertexBuffer(0, v.buffer, 0, v.buffer.GetSize())
		pass.Draw(v.count, 1, 0, 0)
	}

	draw(a.MeshPipeline, a.CameraBindGroup, &a.opaque)
	draw(a.LinePipeline, a.CameraBindGroup, &a.lines)
	draw(a.TransparentPipeline, a.CameraBindGroup, &a.shadows)
	draw(a.TransparentPipeline, a.CameraBindGroup, &a.transparent)
	draw(a.TextPipeline, a.TextBindGroup, &a.text)

	if err := pass.End(); err != nil {
		a.Log.Errorf("render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()
}

// Release frees GPU resources and drops the scene. Safe to call once the
// render loop has stopped.
func (a *App) Release() {
	for _, v := range []*gpuVertices{&a.opaque, &a.shadows, &a.transparent, &a.lines, &a.text} {
		if v.buffer != nil {
			v.buffer.Release()
			v.buffer = nil
		}
	}
	releasers := []interface{ Release() }{}
	add := func(r interface{ Release() }, ok bool) {
		if ok {
			releasers = append(releasers, r)
		}
	}
	add(a.TextBindGroup, a.TextBindGroup != nil)
	add(a.TextPipeline, a.TextPipeline != nil)
	add(a.TextAtlasView, a.TextAtlasView != nil)
	add(a.TextAtlas, a.TextAtlas != nil)
	add(a.CameraBindGroup, a.CameraBindGroup != nil)
	add(a.CameraBuffer, a.CameraBuffer != nil)
	add(a.MeshPipeline, a.MeshPipeline != nil)
	add(a.TransparentPipeline, a.TransparentPipeline != nil)
	add(a.LinePipeline, a.LinePipeline != nil)
	add(a.DepthView, a.DepthView != nil)
	add(a.DepthTexture, a.DepthTexture != nil)
	add(a.Sampler, a.Sampler != nil)
	add(a.Surface, a.Surface != nil)
	add(a.Queue, a.Queue != nil)
	add(a.Device, a.Device != nil)
	add(a.Adapter, a.Adapter != nil)
	add(a.Instance, a.Instance != nil)
	for _, r := range releasers {
		r.Release()
	}
	a.Scene = nil
}
