package gpu

import (
	"encoding/binary"
	"math"
)

// SelectOp values for FrameConfig.SelOp, matching the constants in
// rect_select.wgsl.
const (
	SelectOpReplace uint32 = 0
	SelectOpAdd     uint32 = 1
	SelectOpRemove  uint32 = 2
)

// BlurDir values for FrameConfig.BlurDir.
const (
	BlurHorizontal uint32 = 0
	BlurVertical   uint32 = 1
)

// FrameConfig is the shared uniform all compute stages bind at
// @group(0) @binding(0).
//
// This struct must match the Config struct in shaders/config.wgsl:
// 28 consecutive 4-byte scalars in the same order.
type FrameConfig struct {
	// Camera and viewport.
	ViewCenterX float32
	ViewCenterY float32
	ViewScale   float32
	ViewportW   float32
	ViewportH   float32

	// Scene sizes.
	NodeCount uint32
	EdgeCount uint32

	// Edge geometry parameters.
	EdgeWidthPx float32
	CurveOffset float32

	// Grid index configuration.
	GridMinX float32
	GridMinY float32
	CellW    float32
	CellH    float32
	GridRows uint32
	GridCols uint32

	// Rectangle-selection query in world space.
	SelMinX float32
	SelMinY float32
	SelMaxX float32
	SelMaxY float32
	SelOp   uint32

	// Highlight post-process parameters.
	BlurDir     uint32
	BlurRadius  uint32
	HighlightR  float32
	HighlightG  float32
	HighlightB  float32
	HighlightOn uint32

	// Image target dimensions in pixels.
	ImgW uint32
	ImgH uint32
}

// sizeInBytes returns the byte size of FrameConfig.
// 28 fields * 4 bytes = 112 bytes.
func (c FrameConfig) sizeInBytes() uint64 {
	return 28 * 4
}

// toBytes serializes FrameConfig in little-endian order, matching the
// WGSL Config layout.
func (c FrameConfig) toBytes() []byte {
	buf := make([]byte, 0, c.sizeInBytes())
	le := binary.LittleEndian

	f := func(v float32) {
		buf = le.AppendUint32(buf, math.Float32bits(v))
	}
	u := func(v uint32) {
		buf = le.AppendUint32(buf, v)
	}

	f(c.ViewCenterX)
	f(c.ViewCenterY)
	f(c.ViewScale)
	f(c.ViewportW)
	f(c.ViewportH)
	u(c.NodeCount)
	u(c.EdgeCount)
	f(c.EdgeWidthPx)
	f(c.CurveOffset)
	f(c.GridMinX)
	f(c.GridMinY)
	f(c.CellW)
	f(c.CellH)
	u(c.GridRows)
	u(c.GridCols)
	f(c.SelMinX)
	f(c.SelMinY)
	f(c.SelMaxX)
	f(c.SelMaxY)
	u(c.SelOp)
	u(c.BlurDir)
	u(c.BlurRadius)
	f(c.HighlightR)
	f(c.HighlightG)
	f(c.HighlightB)
	u(c.HighlightOn)
	u(c.ImgW)
	u(c.ImgH)
	return buf
}
