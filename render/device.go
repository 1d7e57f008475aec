package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/chfi/gfaestus/gpu"
	"github.com/chfi/gfaestus/post"
	"github.com/chfi/gfaestus/view"
)

// halProvider is the extension interface a device provider implements to
// expose its underlying HAL handles.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// deviceState holds the GPU side of the renderer: the compute dispatcher
// and the frame buffers for the current graph snapshot.
type deviceState struct {
	queue      hal.Queue
	dispatcher *gpu.ComputeDispatcher
	bufs       *gpu.FrameBuffers
	sizes      gpu.FrameSizes
	sceneDirty bool
}

// AttachDevice connects the renderer to a GPU device provider. The
// provider must expose HAL device and queue handles through HalDevice
// and HalQueue. After attachment, RenderFrame mirrors each frame onto
// the device so the on-device targets stay current for presentation.
func (r *Renderer) AttachDevice(provider gpucontext.DeviceProvider) error {
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("render: provider does not expose HAL device access")
	}

	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return fmt.Errorf("render: provider returned unsupported device type")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return fmt.Errorf("render: provider returned unsupported queue type")
	}

	dispatcher := gpu.NewComputeDispatcher(device, queue)
	if err := dispatcher.Init(); err != nil {
		return err
	}

	if r.device != nil {
		r.detachDevice()
	}
	r.device = &deviceState{
		queue:      queue,
		dispatcher: dispatcher,
		sceneDirty: true,
	}

	slogger().Info("device attached", "stages", "compute")
	return nil
}

// DetachDevice releases all GPU resources. The renderer keeps producing
// frames on the host after detachment.
func (r *Renderer) DetachDevice() {
	if r.device == nil {
		return
	}
	r.detachDevice()
}

func (r *Renderer) detachDevice() {
	d := r.device
	if d.bufs != nil {
		d.dispatcher.DestroyBuffers(d.bufs)
	}
	d.dispatcher.Close()
	r.device = nil
}

// invalidateDeviceScene forces a re-upload of node and edge data on the
// next frame.
func (r *Renderer) invalidateDeviceScene() {
	if r.device != nil {
		r.device.sceneDirty = true
	}
}

// dispatchDevice runs the compute pipeline on the attached device for
// the current frame. Device failures degrade to host-only rendering and
// are logged, not returned: the host frame is already complete.
func (r *Renderer) dispatchDevice(v view.View, target *post.Image) {
	d := r.device
	if d == nil {
		return
	}

	sizes := gpu.FrameSizes{
		NodeCount: uint32(r.layout.NodeCount()),
		EdgeCount: uint32(len(r.edgeList)),
		BinCount:  r.gridCfg.BinCount(),
		ImgW:      uint32(r.cfg.Width),
		ImgH:      uint32(r.cfg.Height),
	}

	if d.bufs == nil || d.sizes != sizes {
		if d.bufs != nil {
			d.dispatcher.DestroyBuffers(d.bufs)
			d.bufs = nil
		}
		bufs, err := d.dispatcher.AllocateBuffers(sizes)
		if err != nil {
			slogger().Warn("device buffer allocation failed, host-only frame", "error", err)
			return
		}
		d.bufs = bufs
		d.sizes = sizes
		d.sceneDirty = true
	}

	if d.sceneDirty {
		r.uploadScene(d)
		d.sceneDirty = false
	}
	r.uploadFrame(d, target)

	cfg := r.frameConfig(v)
	if err := d.dispatcher.DispatchFrame(d.bufs, cfg, false); err != nil {
		slogger().Warn("device dispatch failed, host-only frame", "error", err)
	}
}

// uploadScene writes the node midpoints, terminus endpoints and packed
// edge handles into their device buffers.
func (r *Renderer) uploadScene(d *deviceState) {
	n := r.layout.NodeCount()

	midpoints := make([]byte, 0, n*8)
	endpoints := make([]byte, 0, n*16)
	for i := 0; i < n; i++ {
		left := r.layout.Point(uint32(i) * 2)
		right := r.layout.Point(uint32(i)*2 + 1)
		mid := left.Midpoint(right)
		midpoints = appendVec2(midpoints, mid.X, mid.Y)
		endpoints = appendVec2(endpoints, left.X, left.Y)
		endpoints = appendVec2(endpoints, right.X, right.Y)
	}
	d.queue.WriteBuffer(d.bufs.Midpoints, 0, midpoints)
	d.queue.WriteBuffer(d.bufs.Endpoints, 0, endpoints)

	handles := make([]byte, 0, len(r.edgeList)*8)
	for _, e := range r.edgeList {
		handles = binary.LittleEndian.AppendUint32(handles, uint32(e.From))
		handles = binary.LittleEndian.AppendUint32(handles, uint32(e.To))
	}
	d.queue.WriteBuffer(d.bufs.Edges, 0, handles)

	slogger().Debug("scene uploaded", "nodes", n, "edges", len(r.edgeList))
}

// uploadFrame mirrors the per-frame host state onto the device: the
// selection flags that rect_select would otherwise maintain, and, when
// the highlight chain runs, the mask and color images it reads. The
// host selection mask is authoritative, so the device copy is written
// rather than recomputed.
func (r *Renderer) uploadFrame(d *deviceState, target *post.Image) {
	d.queue.WriteBuffer(d.bufs.Selection, 0, packU32s(r.mask.Flags()))

	if !r.highlightActive() {
		return
	}
	d.queue.WriteBuffer(d.bufs.MaskImage, 0, packFloats(r.pickTarget.MaskImage()))
	d.queue.WriteBuffer(d.bufs.ColorImage, 0, packFloats(target.Pix))
}

// highlightActive reports whether the edge-detect/blur/composite chain
// has inputs to read this frame. Without picking there is no mask
// target to outline.
func (r *Renderer) highlightActive() bool {
	return r.cfg.Features.Highlight && r.cfg.Features.Picking
}

// frameConfig assembles the shared uniform for the current view and
// renderer configuration.
func (r *Renderer) frameConfig(v view.View) gpu.FrameConfig {
	highlightOn := uint32(0)
	if r.highlightActive() {
		highlightOn = 1
	}

	return gpu.FrameConfig{
		ViewCenterX: v.Center.X,
		ViewCenterY: v.Center.Y,
		ViewScale:   v.Scale,
		ViewportW:   r.dims.Width,
		ViewportH:   r.dims.Height,
		NodeCount:   uint32(r.layout.NodeCount()),
		EdgeCount:   uint32(len(r.edgeList)),
		EdgeWidthPx: r.cfg.EdgeWidthPixels,
		CurveOffset: r.cfg.CurveOffset,
		GridMinX:    r.gridCfg.Origin.X,
		GridMinY:    r.gridCfg.Origin.Y,
		CellW:       r.gridCfg.CellWidth,
		CellH:       r.gridCfg.CellHeight,
		GridRows:    r.gridCfg.Rows,
		GridCols:    r.gridCfg.Cols,
		BlurRadius:  uint32(r.cfg.BlurRadius),
		HighlightR:  r.cfg.HighlightColor[0],
		HighlightG:  r.cfg.HighlightColor[1],
		HighlightB:  r.cfg.HighlightColor[2],
		HighlightOn: highlightOn,
		ImgW:        uint32(r.cfg.Width),
		ImgH:        uint32(r.cfg.Height),
	}
}

func appendVec2(buf []byte, x, y float32) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(x))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(y))
	return buf
}

func packFloats(vals []float32) []byte {
	buf := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

func packU32s(vals []uint32) []byte {
	buf := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf
}
