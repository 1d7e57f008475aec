package gpu

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Shader sources are embedded from the shaders directory. Each file is
// one stage of the pipeline; config.wgsl is the shared uniform prelude
// prepended to every stage before compilation.

//go:embed shaders/config.wgsl
var shaderConfig string

//go:embed shaders/bin_classify.wgsl
var shaderBinClassify string

//go:embed shaders/bin_offsets.wgsl
var shaderBinOffsets string

//go:embed shaders/bin_scatter.wgsl
var shaderBinScatter string

//go:embed shaders/rect_select.wgsl
var shaderRectSelect string

//go:embed shaders/edge_tess.wgsl
var shaderEdgeTess string

//go:embed shaders/edge_detect.wgsl
var shaderEdgeDetect string

//go:embed shaders/blur.wgsl
var shaderBlur string

//go:embed shaders/composite.wgsl
var shaderComposite string

// fenceTimeout is the maximum time to wait for GPU work to complete.
const fenceTimeout = 5 * time.Second

// Stage identifies one compute stage of the frame pipeline. The order of
// the constants is the dispatch order; the blur stage runs twice per
// frame with opposite directions.
type Stage int

const (
	// StageBinClassify assigns each node a grid cell and claims its
	// intra-bin slot through an atomic counter.
	StageBinClassify Stage = iota

	// StageBinOffsets derives per-cell starting offsets with an
	// exclusive prefix sum over the cell counts.
	StageBinOffsets

	// StageBinScatter writes node indices into the shared bin array at
	// the slots claimed during classification.
	StageBinScatter

	// StageRectSelect updates the selection mask from a world-space
	// rectangle query over node endpoints.
	StageRectSelect

	// StageEdgeTess resolves edge orientation and emits ribbon
	// geometry with bump-allocated vertex slots.
	StageEdgeTess

	// StageEdgeDetect runs the Sobel convolution over the mask target.
	StageEdgeDetect

	// StageBlur runs one direction of the separable blur.
	StageBlur

	// StageComposite blends the blurred outline over the color target.
	StageComposite

	// StageCount is the total number of pipeline stages.
	StageCount
)

// String returns the shader name of the compute stage.
func (s Stage) String() string {
	switch s {
	case StageBinClassify:
		return "bin_classify"
	case StageBinOffsets:
		return "bin_offsets"
	case StageBinScatter:
		return "bin_scatter"
	case StageRectSelect:
		return "rect_select"
	case StageEdgeTess:
		return "edge_tess"
	case StageEdgeDetect:
		return "edge_detect"
	case StageBlur:
		return "blur"
	case StageComposite:
		return "composite"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// FrameBuffers holds the GPU buffer handles for one frame's pipeline.
type FrameBuffers struct {
	// Config is the uniform buffer holding FrameConfig, bound at
	// binding(0) of every stage.
	Config hal.Buffer

	// ConfigBlurV holds the same FrameConfig with BlurDir set vertical.
	// Both blur passes run inside one submission, so the direction must
	// come from the bound uniform rather than a rewrite between passes.
	ConfigBlurV hal.Buffer

	// Midpoints holds one vec2 per node (the segment midpoint the grid
	// classifies by). Read by bin_classify.
	Midpoints hal.Buffer

	// NodeBins, IntraOffsets, BinCounts, BinOffsets, Bins are the grid
	// index buffers, written across the three binning passes.
	NodeBins     hal.Buffer
	IntraOffsets hal.Buffer
	BinCounts    hal.Buffer
	BinOffsets   hal.Buffer
	Bins         hal.Buffer

	// Endpoints holds both terminus points per node (2N vec2). Read by
	// rect_select and edge_tess.
	Endpoints hal.Buffer

	// Selection is the persistent per-node mask, one u32 per node.
	Selection hal.Buffer

	// Edges holds two packed oriented handles per edge.
	Edges hal.Buffer

	// EdgeVertices, EdgeRanges, Bump receive the tessellation output.
	EdgeVertices hal.Buffer
	EdgeRanges   hal.Buffer
	Bump         hal.Buffer

	// MaskImage, OutlineImage, BlurImage, ColorImage are the pixel
	// targets of the highlight chain.
	MaskImage    hal.Buffer
	OutlineImage hal.Buffer
	BlurImage    hal.Buffer
	ColorImage   hal.Buffer
}

// FrameSizes describes the scene dimensions the buffers must hold.
type FrameSizes struct {
	NodeCount uint32
	EdgeCount uint32
	BinCount  uint32
	ImgW      uint32
	ImgH      uint32
}

// maxRibbonVerts is the worst-case vertex count per edge: the largest
// tessellation level emits (32+1)*2 cross-section vertices.
const maxRibbonVerts = 33 * 2

// ComputeDispatcher owns the compiled compute pipelines and runs the
// staged frame sequence. Stages execute in submission order on one
// queue, which provides the classify-scan-scatter and detect-blur-blend
// barriers the pipeline depends on.
type ComputeDispatcher struct {
	mu sync.RWMutex

	device hal.Device
	queue  hal.Queue

	pipelines       [StageCount]hal.ComputePipeline
	pipelineLayouts [StageCount]hal.PipelineLayout
	bgLayouts       [StageCount]hal.BindGroupLayout
	shaderModules   [StageCount]hal.ShaderModule

	shaderSources [StageCount]string

	initialized bool
}

// NewComputeDispatcher creates a dispatcher attached to the given HAL
// device and queue. Init must be called before Dispatch.
func NewComputeDispatcher(device hal.Device, queue hal.Queue) *ComputeDispatcher {
	d := &ComputeDispatcher{
		device: device,
		queue:  queue,
	}
	d.shaderSources = [StageCount]string{
		StageBinClassify: shaderBinClassify,
		StageBinOffsets:  shaderBinOffsets,
		StageBinScatter:  shaderBinScatter,
		StageRectSelect:  shaderRectSelect,
		StageEdgeTess:    shaderEdgeTess,
		StageEdgeDetect:  shaderEdgeDetect,
		StageBlur:        shaderBlur,
		StageComposite:   shaderComposite,
	}
	return d
}

// compileStage compiles a stage's WGSL (with the shared config prelude)
// to SPIR-V words.
func compileStage(src string) ([]uint32, error) {
	full := shaderConfig + "\n@group(0) @binding(0) var<uniform> config: Config;\n" + src

	spirvBytes, err := naga.Compile(full)
	if err != nil {
		return nil, err
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// stageBindGroupLayoutEntries returns the layout entries for a stage,
// matching the @group(0) @binding(N) annotations in its shader.
func stageBindGroupLayoutEntries(stage Stage) []gputypes.BindGroupLayoutEntry {
	configUniform := gputypes.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}
	storageRO := func(binding uint32) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		}
	}
	storageRW := func(binding uint32) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
		}
	}

	switch stage {
	case StageBinClassify:
		return []gputypes.BindGroupLayoutEntry{
			configUniform, storageRO(1), storageRW(2), storageRW(3), storageRW(4),
		}
	case StageBinOffsets:
		return []gputypes.BindGroupLayoutEntry{
			configUniform, storageRO(1), storageRW(2),
		}
	case StageBinScatter:
		return []gputypes.BindGroupLayoutEntry{
			configUniform, storageRO(1), storageRO(2), storageRO(3), storageRW(4),
		}
	case StageRectSelect:
		return []gputypes.BindGroupLayoutEntry{
			configUniform, storageRO(1), storageRW(2),
		}
	case StageEdgeTess:
		return []gputypes.BindGroupLayoutEntry{
			configUniform, storageRO(1), storageRO(2), storageRW(3), storageRW(4), storageRW(5),
		}
	case StageEdgeDetect, StageBlur:
		return []gputypes.BindGroupLayoutEntry{
			configUniform, storageRO(1), storageRW(2),
		}
	case StageComposite:
		return []gputypes.BindGroupLayoutEntry{
			configUniform, storageRO(1), storageRW(2),
		}
	default:
		return nil
	}
}

// Init compiles all WGSL shaders and creates compute pipelines. Safe to
// call more than once; subsequent calls are no-ops.
func (d *ComputeDispatcher) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	for i := Stage(0); i < StageCount; i++ {
		spirv, err := compileStage(d.shaderSources[i])
		if err != nil {
			d.destroyPartialInit(i)
			return fmt.Errorf("gpu: compile shader %s: %w", i, err)
		}

		module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  i.String(),
			Source: hal.ShaderSource{SPIRV: spirv},
		})
		if err != nil {
			d.destroyPartialInit(i)
			return fmt.Errorf("gpu: create shader module %s: %w", i, err)
		}
		d.shaderModules[i] = module

		bgLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   i.String() + "_bgl",
			Entries: stageBindGroupLayoutEntries(i),
		})
		if err != nil {
			d.destroyPartialInit(i + 1)
			return fmt.Errorf("gpu: create bind group layout %s: %w", i, err)
		}
		d.bgLayouts[i] = bgLayout

		pipelineLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
			Label:            i.String() + "_pl",
			BindGroupLayouts: []hal.BindGroupLayout{bgLayout},
		})
		if err != nil {
			d.destroyPartialInit(i + 1)
			return fmt.Errorf("gpu: create pipeline layout %s: %w", i, err)
		}
		d.pipelineLayouts[i] = pipelineLayout

		pipeline, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label:  i.String(),
			Layout: pipelineLayout,
			Compute: hal.ComputeState{
				Module:     module,
				EntryPoint: "main",
			},
		})
		if err != nil {
			d.destroyPartialInit(i + 1)
			return fmt.Errorf("gpu: create compute pipeline %s: %w", i, err)
		}
		d.pipelines[i] = pipeline
	}

	slogger().Info("gpu: compute pipelines initialized", "stages", int(StageCount))
	d.initialized = true
	return nil
}

// destroyPartialInit cleans up stages [0, upTo) after a failed Init.
func (d *ComputeDispatcher) destroyPartialInit(upTo Stage) {
	for j := Stage(0); j < upTo; j++ {
		if d.pipelines[j] != nil {
			d.device.DestroyComputePipeline(d.pipelines[j])
			d.pipelines[j] = nil
		}
		if d.pipelineLayouts[j] != nil {
			d.device.DestroyPipelineLayout(d.pipelineLayouts[j])
			d.pipelineLayouts[j] = nil
		}
		if d.bgLayouts[j] != nil {
			d.device.DestroyBindGroupLayout(d.bgLayouts[j])
			d.bgLayouts[j] = nil
		}
		if d.shaderModules[j] != nil {
			d.device.DestroyShaderModule(d.shaderModules[j])
			d.shaderModules[j] = nil
		}
	}
}

// Close releases all GPU resources held by the dispatcher.
func (d *ComputeDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyPartialInit(StageCount)
	d.initialized = false
}

// IsInitialized reports whether Init has completed.
func (d *ComputeDispatcher) IsInitialized() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.initialized
}

// AllocateBuffers creates the GPU buffers for a frame of the given
// dimensions. Buffers that accumulate through atomics are zero-filled.
// The caller must call DestroyBuffers when done.
func (d *ComputeDispatcher) AllocateBuffers(sz FrameSizes) (*FrameBuffers, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.initialized {
		return nil, fmt.Errorf("gpu: dispatcher not initialized, call Init first")
	}

	storageCPU := gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst
	storageGPU := gputypes.BufferUsageStorage
	storageZero := gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst
	storageOut := gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst
	uniformCPU := gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst

	pixels := uint64(sz.ImgW) * uint64(sz.ImgH)
	bufs := &FrameBuffers{}

	type bufSpec struct {
		target   *hal.Buffer
		label    string
		size     uint64
		usage    gputypes.BufferUsage
		zeroInit bool
	}

	specs := []bufSpec{
		{&bufs.Config, "frame_config", FrameConfig{}.sizeInBytes(), uniformCPU, false},
		{&bufs.ConfigBlurV, "frame_config_blur_v", FrameConfig{}.sizeInBytes(), uniformCPU, false},
		{&bufs.Midpoints, "grid_midpoints", uint64(sz.NodeCount) * 8, storageCPU, false},
		{&bufs.NodeBins, "grid_node_bins", uint64(sz.NodeCount) * 4, storageGPU, false},
		{&bufs.IntraOffsets, "grid_intra_offsets", uint64(sz.NodeCount) * 4, storageGPU, false},
		{&bufs.BinCounts, "grid_bin_counts", uint64(sz.BinCount) * 4, storageZero, true}, // atomicAdd in classify
		{&bufs.BinOffsets, "grid_bin_offsets", uint64(sz.BinCount) * 4, storageGPU, false},
		{&bufs.Bins, "grid_bins", uint64(sz.NodeCount) * 4, storageGPU, false},
		{&bufs.Endpoints, "node_endpoints", uint64(sz.NodeCount) * 2 * 8, storageCPU, false},
		{&bufs.Selection, "selection_mask", uint64(sz.NodeCount) * 4, storageOut, true},
		{&bufs.Edges, "edge_handles", uint64(sz.EdgeCount) * 2 * 4, storageCPU, false},
		{&bufs.EdgeVertices, "edge_vertices", uint64(sz.EdgeCount) * maxRibbonVerts * 8, storageGPU, false},
		{&bufs.EdgeRanges, "edge_ranges", uint64(sz.EdgeCount) * 2 * 4, storageGPU, false},
		{&bufs.Bump, "edge_bump", 4, storageZero, true}, // atomicAdd in edge_tess
		{&bufs.MaskImage, "mask_image", pixels * 4, storageCPU, false},
		{&bufs.OutlineImage, "outline_image", pixels * 4, storageGPU, false},
		{&bufs.BlurImage, "blur_image", pixels * 4, storageGPU, false},
		{&bufs.ColorImage, "color_image", pixels * 16, storageOut, false},
	}

	for _, s := range specs {
		size := s.size
		if size < 4 {
			size = 4
		}
		buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: s.label,
			Size:  size,
			Usage: s.usage,
		})
		if err != nil {
			d.DestroyBuffers(bufs)
			return nil, fmt.Errorf("gpu: create %s buffer: %w", s.label, err)
		}
		*s.target = buf

		if s.zeroInit {
			d.queue.WriteBuffer(buf, 0, make([]byte, size))
		}
	}

	slogger().Debug("gpu: frame buffers allocated",
		"nodes", sz.NodeCount,
		"edges", sz.EdgeCount,
		"bins", sz.BinCount,
		"target", fmt.Sprintf("%dx%d", sz.ImgW, sz.ImgH))
	return bufs, nil
}

// DestroyBuffers releases all buffers in the given FrameBuffers.
func (d *ComputeDispatcher) DestroyBuffers(bufs *FrameBuffers) {
	if bufs == nil {
		return
	}
	for _, b := range []hal.Buffer{
		bufs.Config, bufs.ConfigBlurV, bufs.Midpoints, bufs.NodeBins, bufs.IntraOffsets,
		bufs.BinCounts, bufs.BinOffsets, bufs.Bins, bufs.Endpoints,
		bufs.Selection, bufs.Edges, bufs.EdgeVertices, bufs.EdgeRanges,
		bufs.Bump, bufs.MaskImage, bufs.OutlineImage, bufs.BlurImage,
		bufs.ColorImage,
	} {
		if b != nil {
			d.device.DestroyBuffer(b)
		}
	}
	*bufs = FrameBuffers{}
}

// stageBindGroupEntries maps each binding of a stage to its buffer. The
// blur stage binds src/dst according to the pass direction so the two
// passes ping-pong between the outline and blur images.
func stageBindGroupEntries(stage Stage, bufs *FrameBuffers, blurDir uint32) []gputypes.BindGroupEntry {
	entry := func(binding uint32, buf hal.Buffer) gputypes.BindGroupEntry {
		return gputypes.BindGroupEntry{
			Binding: binding,
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(),
				Offset: 0,
				Size:   0, // entire buffer
			},
		}
	}

	switch stage {
	case StageBinClassify:
		return []gputypes.BindGroupEntry{
			entry(0, bufs.Config),
			entry(1, bufs.Midpoints),
			entry(2, bufs.NodeBins),
			entry(3, bufs.IntraOffsets),
			entry(4, bufs.BinCounts),
		}
	case StageBinOffsets:
		return []gputypes.BindGroupEntry{
			entry(0, bufs.Config),
			entry(1, bufs.BinCounts),
			entry(2, bufs.BinOffsets),
		}
	case StageBinScatter:
		return []gputypes.BindGroupEntry{
			entry(0, bufs.Config),
			entry(1, bufs.NodeBins),
			entry(2, bufs.IntraOffsets),
			entry(3, bufs.BinOffsets),
			entry(4, bufs.Bins),
		}
	case StageRectSelect:
		return []gputypes.BindGroupEntry{
			entry(0, bufs.Config),
			entry(1, bufs.Endpoints),
			entry(2, bufs.Selection),
		}
	case StageEdgeTess:
		return []gputypes.BindGroupEntry{
			entry(0, bufs.Config),
			entry(1, bufs.Endpoints),
			entry(2, bufs.Edges),
			entry(3, bufs.EdgeVertices),
			entry(4, bufs.EdgeRanges),
			entry(5, bufs.Bump),
		}
	case StageEdgeDetect:
		return []gputypes.BindGroupEntry{
			entry(0, bufs.Config),
			entry(1, bufs.MaskImage),
			entry(2, bufs.OutlineImage),
		}
	case StageBlur:
		cfgBuf, src, dst := blurBindings(bufs, blurDir)
		return []gputypes.BindGroupEntry{
			entry(0, *cfgBuf),
			entry(1, *src),
			entry(2, *dst),
		}
	case StageComposite:
		return []gputypes.BindGroupEntry{
			entry(0, bufs.Config),
			entry(1, bufs.OutlineImage),
			entry(2, bufs.ColorImage),
		}
	default:
		return nil
	}
}

// counterClear names an atomic counter buffer that must be zeroed
// before each frame's dispatch.
type counterClear struct {
	label  string
	size   uint64
	target func(*FrameBuffers) *hal.Buffer
}

// frameCounterClears lists the buffers the frame's atomicAdd stages
// accumulate into: the per-bin classify counters and the vertex bump.
func frameCounterClears(cfg FrameConfig) []counterClear {
	binBytes := uint64(cfg.GridRows) * uint64(cfg.GridCols) * 4
	if binBytes < 4 {
		binBytes = 4
	}
	return []counterClear{
		{"grid_bin_counts", binBytes, func(b *FrameBuffers) *hal.Buffer { return &b.BinCounts }},
		{"edge_bump", 4, func(b *FrameBuffers) *hal.Buffer { return &b.Bump }},
	}
}

// blurBindings returns the uniform, source and destination buffers of
// one blur pass. The two directions ping-pong between the outline and
// blur images, and the vertical pass carries its own direction uniform.
func blurBindings(bufs *FrameBuffers, blurDir uint32) (config, src, dst *hal.Buffer) {
	if blurDir == BlurVertical {
		return &bufs.ConfigBlurV, &bufs.BlurImage, &bufs.OutlineImage
	}
	return &bufs.Config, &bufs.OutlineImage, &bufs.BlurImage
}

// stageDispatch holds one recorded compute pass.
type stageDispatch struct {
	stage    Stage
	elements uint32
	blurDir  uint32
}

// dispatchResources tracks per-dispatch GPU objects for cleanup.
type dispatchResources struct {
	device     hal.Device
	bindGroups []hal.BindGroup
	cmdBuf     hal.CommandBuffer
	fence      hal.Fence
}

func (r *dispatchResources) cleanup() {
	if r.fence != nil {
		r.device.DestroyFence(r.fence)
	}
	if r.cmdBuf != nil {
		r.device.FreeCommandBuffer(r.cmdBuf)
	}
	for _, g := range r.bindGroups {
		r.device.DestroyBindGroup(g)
	}
}

// workgroupsFor returns the workgroup count for a stage. The prefix-sum
// stage runs as a single invocation regardless of bin count.
func workgroupsFor(stage Stage, elements uint32) uint32 {
	if stage == StageBinOffsets {
		if elements == 0 {
			return 0
		}
		return 1
	}
	return WorkgroupCount(elements, DefaultWorkgroupSize)
}

// DispatchFrame uploads the config and runs the staged sequence for one
// frame: the three binning passes, the selection query (when selOp
// applies), edge tessellation, and the highlight chain. Queue submission
// order provides the barriers between dependent passes.
func (d *ComputeDispatcher) DispatchFrame(bufs *FrameBuffers, cfg FrameConfig, runSelect bool) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.initialized {
		return fmt.Errorf("gpu: dispatcher not initialized, call Init first")
	}
	if bufs == nil {
		return fmt.Errorf("gpu: buffers must not be nil")
	}

	cfgH := cfg
	cfgH.BlurDir = BlurHorizontal
	d.queue.WriteBuffer(bufs.Config, 0, cfgH.toBytes())

	cfgV := cfg
	cfgV.BlurDir = BlurVertical
	d.queue.WriteBuffer(bufs.ConfigBlurV, 0, cfgV.toBytes())

	// The classify and tessellation counters accumulate across
	// submissions; clear them so every frame starts from zero.
	for _, c := range frameCounterClears(cfg) {
		d.queue.WriteBuffer(*c.target(bufs), 0, make([]byte, c.size))
	}

	pixels := cfg.ImgW * cfg.ImgH
	binCount := cfg.GridRows * cfg.GridCols

	stages := []stageDispatch{
		{StageBinClassify, cfg.NodeCount, 0},
		{StageBinOffsets, binCount, 0},
		{StageBinScatter, cfg.NodeCount, 0},
	}
	if runSelect {
		stages = append(stages, stageDispatch{StageRectSelect, cfg.NodeCount, 0})
	}
	stages = append(stages, stageDispatch{StageEdgeTess, cfg.EdgeCount, 0})
	if cfg.HighlightOn != 0 {
		stages = append(stages,
			stageDispatch{StageEdgeDetect, pixels, 0},
			stageDispatch{StageBlur, pixels, BlurHorizontal},
			stageDispatch{StageBlur, pixels, BlurVertical},
			stageDispatch{StageComposite, pixels, 0},
		)
	}

	res := &dispatchResources{device: d.device}
	defer res.cleanup()

	if err := d.encodeStages(res, bufs, stages); err != nil {
		return err
	}
	return d.submitAndWait(res)
}

// encodeStages records all compute passes into one command buffer.
func (d *ComputeDispatcher) encodeStages(res *dispatchResources, bufs *FrameBuffers, stages []stageDispatch) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_compute",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}

	if err := encoder.BeginEncoding("frame_compute"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	for _, sd := range stages {
		wgCount := workgroupsFor(sd.stage, sd.elements)
		if wgCount == 0 {
			continue
		}

		bg, bgErr := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   sd.stage.String() + "_bg",
			Layout:  d.bgLayouts[sd.stage],
			Entries: stageBindGroupEntries(sd.stage, bufs, sd.blurDir),
		})
		if bgErr != nil {
			encoder.DiscardEncoding()
			return fmt.Errorf("gpu: create bind group for %s: %w", sd.stage, bgErr)
		}
		res.bindGroups = append(res.bindGroups, bg)

		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{
			Label: sd.stage.String(),
		})
		pass.SetPipeline(d.pipelines[sd.stage])
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(wgCount, 1, 1)
		pass.End()

		slogger().Debug("gpu: dispatched stage",
			"stage", sd.stage.String(),
			"elements", sd.elements,
			"workgroups", wgCount)
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	res.cmdBuf = cmdBuf
	return nil
}

// submitAndWait submits the command buffer and blocks until the GPU
// signals the fence.
func (d *ComputeDispatcher) submitAndWait(res *dispatchResources) error {
	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	res.fence = fence

	if err := d.queue.Submit([]hal.CommandBuffer{res.cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}

	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("gpu: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("gpu: timeout after %v", fenceTimeout)
	}
	return nil
}
