// Package render orchestrates a frame: it rebuilds the grid index when
// the layout moved, rasterizes nodes into the color, id and mask targets,
// tessellates and draws edge ribbons, and runs the highlight compositor
// over the result. The host drives it with one RenderFrame call per frame
// from a single submission thread.
//
// The many near-duplicate pipeline variants of this kind of viewer (with
// and without overlay, picking, selection mask) collapse into one
// pipeline configured through Features, resolved once at setup.
package render

import (
	"fmt"

	"github.com/chfi/gfaestus/binning"
	"github.com/chfi/gfaestus/edges"
	"github.com/chfi/gfaestus/geometry"
	"github.com/chfi/gfaestus/graph"
	"github.com/chfi/gfaestus/picking"
	"github.com/chfi/gfaestus/post"
	"github.com/chfi/gfaestus/selection"
	"github.com/chfi/gfaestus/view"
)

// Features selects which pipeline outputs are produced. Resolved once at
// setup; toggling debug views does not alter the underlying targets.
type Features struct {
	// Overlay uses externally computed per-node colors instead of the
	// default node color.
	Overlay bool

	// Picking writes the per-pixel id/mask targets and enables
	// NodeAtPixel queries.
	Picking bool

	// SelectionMask writes selection flags into the mask channel of the
	// pick target. Without it the mask channel stays clear and the
	// highlight compositor has nothing to outline.
	SelectionMask bool

	// Highlight runs the edge-detect/blur compositor over the mask.
	Highlight bool

	// ShowPickBuffer presents the id target instead of the color target.
	ShowPickBuffer bool

	// ShowMask presents the mask target instead of the color target.
	ShowMask bool
}

// Config holds the setup-time renderer parameters.
type Config struct {
	Width, Height int

	GridRows, GridCols uint32

	NodeWidthPixels float32
	EdgeWidthPixels float32
	CurveOffset     float32

	NodeColor      [3]float32
	EdgeColor      [3]float32
	Background     [3]float32
	HighlightColor [3]float32
	BlurRadius     int

	Features Features
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("render: invalid viewport size %dx%d", c.Width, c.Height)
	}
	if c.GridRows == 0 || c.GridCols == 0 {
		return fmt.Errorf("render: grid dimensions must be non-zero, got %dx%d", c.GridRows, c.GridCols)
	}
	if c.NodeWidthPixels <= 0 || c.EdgeWidthPixels <= 0 {
		return fmt.Errorf("render: widths must be positive")
	}
	return nil
}

// Renderer owns the frame targets and the pipeline state shared across
// frames. Not safe for concurrent use; the host submits frames from one
// thread.
type Renderer struct {
	cfg  Config
	dims view.ScreenDims

	layout   *graph.Layout
	edgeList []graph.Edge
	overlay  [][3]float32

	grid      *binning.GridIndex
	gridCfg   binning.Config
	gridDirty bool

	mask *selection.Mask
	tess *edges.Tessellator

	pickTarget  *picking.Target
	pickEncoder *picking.Encoder

	comp *post.Compositor

	// Double-buffered color targets: frames render into the back image
	// and present the front, so an in-flight read never observes a
	// partially drawn frame.
	color [2]*post.Image
	back  int

	device *deviceState
}

// NewRenderer creates a renderer with no graph loaded.
func NewRenderer(cfg Config) (*Renderer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:  cfg,
		dims: view.Dims(float32(cfg.Width), float32(cfg.Height)),
		comp: post.NewCompositor(cfg.Width, cfg.Height),
	}
	r.color[0] = post.NewImage(cfg.Width, cfg.Height)
	r.color[1] = post.NewImage(cfg.Width, cfg.Height)
	r.pickTarget = picking.NewTarget(cfg.Width, cfg.Height)
	r.pickEncoder = picking.NewEncoder(r.pickTarget)

	slogger().Info("renderer created",
		"viewport", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"grid", fmt.Sprintf("%dx%d", cfg.GridRows, cfg.GridCols),
		"features", fmt.Sprintf("%+v", cfg.Features))
	return r, nil
}

// SetGraph replaces the graph snapshot. The selection mask, tessellator
// and grid index are resized for the new node and edge counts; any
// previous selection is dropped.
func (r *Renderer) SetGraph(layout *graph.Layout, edgeList []graph.Edge) error {
	bounds := layout.Bounds()
	// Stretch the far boundary so nodes exactly on it stay indexed.
	bounds.Max = bounds.Max.Add(geometry.Pt(1e-3, 1e-3))

	gridCfg := binning.ConfigForBounds(bounds, r.cfg.GridRows, r.cfg.GridCols)
	grid, err := binning.NewGridIndex(gridCfg, layout.NodeCount())
	if err != nil {
		return err
	}

	r.layout = layout
	r.edgeList = edgeList
	r.overlay = nil
	r.grid = grid
	r.gridCfg = gridCfg
	r.gridDirty = true
	r.mask = selection.NewMask(layout.NodeCount())
	r.tess = edges.NewTessellator(len(edgeList))
	r.invalidateDeviceScene()
	return nil
}

// SetOverlay installs externally computed per-node colors. The slice
// must hold one color per node; nil clears the overlay.
func (r *Renderer) SetOverlay(colors [][3]float32) error {
	if colors != nil && r.layout != nil && len(colors) != r.layout.NodeCount() {
		return fmt.Errorf("render: overlay has %d colors for %d nodes", len(colors), r.layout.NodeCount())
	}
	r.overlay = colors
	return nil
}

// Mask returns the selection mask for programmatic selection. The UI
// collaborator may call its set/clear/invert operations directly.
func (r *Renderer) Mask() *selection.Mask {
	return r.mask
}

// Grid returns the spatial index of the last completed build, for
// rectangle and nearest-node queries.
func (r *Renderer) Grid() *binning.GridIndex {
	return r.grid
}

// RectSelect applies a world-space rectangle selection.
func (r *Renderer) RectSelect(rect geometry.Rect, op selection.Op) {
	if r.mask == nil || r.layout == nil {
		return
	}
	r.mask.RectSelect(r.layout, rect, op)
}

// TranslateSelected moves all selected nodes by a world-space delta and
// marks the grid index for rebuild.
func (r *Renderer) TranslateSelected(delta geometry.Point) {
	if r.mask == nil || r.layout == nil {
		return
	}
	selection.Translate(r.mask, r.layout, delta)
	r.gridDirty = true
	r.invalidateDeviceScene()
}

// InvalidateLayout marks the grid index stale after an external layout
// mutation.
func (r *Renderer) InvalidateLayout() {
	r.gridDirty = true
	r.invalidateDeviceScene()
}

// NodeAtPixel resolves the node under a pixel and its selection flag
// from the last rendered frame. Requires the Picking feature.
func (r *Renderer) NodeAtPixel(x, y int) (graph.NodeID, bool) {
	if !r.cfg.Features.Picking {
		return graph.NoNode, false
	}
	return r.pickTarget.NodeAt(x, y)
}

// RenderFrame renders one frame for the given view and returns the
// presented image. The returned image is the front buffer: it stays
// valid and untouched until the frame after next.
//
// Pass order within the frame: grid rebuild (when stale), edge
// tessellation and ribbon draw, node draw with id/mask writes, then the
// highlight compositor reading the completed mask target.
func (r *Renderer) RenderFrame(v view.View) (*post.Image, error) {
	if r.layout == nil {
		return nil, fmt.Errorf("render: no graph loaded")
	}

	if r.gridDirty {
		if err := r.grid.Build(r.layout); err != nil {
			return nil, fmt.Errorf("render: grid rebuild: %w", err)
		}
		r.gridDirty = false
	}

	target := r.color[r.back]
	target.Fill(r.cfg.Background[0], r.cfg.Background[1], r.cfg.Background[2], 1)

	if err := r.drawEdges(target, v); err != nil {
		return nil, err
	}
	r.drawNodes(target, v)

	if r.cfg.Features.Picking {
		mask := r.mask
		if !r.cfg.Features.SelectionMask {
			mask = nil
		}
		r.pickEncoder.DrawNodes(r.layout, mask, v, r.dims, r.cfg.NodeWidthPixels)
	}

	var out *post.Image
	switch {
	case r.cfg.Features.ShowPickBuffer && r.cfg.Features.Picking:
		out = r.debugPickImage()
	case r.cfg.Features.ShowMask && r.cfg.Features.Picking:
		out = r.debugMaskImage()
	case r.cfg.Features.Highlight && r.cfg.Features.Picking:
		out = r.comp.Apply(target, r.pickTarget.MaskImage(), post.Config{
			Enabled:    true,
			Color:      r.cfg.HighlightColor,
			BlurRadius: r.cfg.BlurRadius,
		})
	default:
		out = target.Clone()
	}

	r.dispatchDevice(v, target)

	// Swap: the image just produced becomes the front buffer.
	r.color[r.back] = out
	r.back = 1 - r.back
	return out, nil
}

// drawEdges tessellates every edge in normalized device space and
// rasterizes the resulting ribbons.
func (r *Renderer) drawEdges(target *post.Image, v view.View) error {
	params := edges.Params{
		View:        v,
		Dims:        r.dims,
		WidthPixels: r.cfg.EdgeWidthPixels,
		CurveOffset: r.cfg.CurveOffset,
	}
	ranges, err := r.tess.Build(r.layout, r.edgeList, params)
	if err != nil {
		return fmt.Errorf("render: edge tessellation: %w", err)
	}
	verts := r.tess.Vertices()

	for _, er := range ranges {
		if er.Count == 0 {
			continue
		}
		drawRibbon(target, verts[er.Offset:er.Offset+er.Count], r.dims, r.cfg.EdgeColor)
	}
	return nil
}

// drawNodes rasterizes node segments as capsules, using overlay colors
// when the feature is enabled.
func (r *Renderer) drawNodes(target *post.Image, v view.View) {
	halfW := r.cfg.NodeWidthPixels * 0.5

	for node := 1; node <= r.layout.NodeCount(); node++ {
		id := graph.NodeID(node)
		left, right := r.layout.Node(id)
		a := v.WorldToScreen(r.dims, left)
		b := v.WorldToScreen(r.dims, right)

		color := r.cfg.NodeColor
		if r.cfg.Features.Overlay && r.overlay != nil {
			color = r.overlay[node-1]
		}
		drawCapsule(target, a, b, halfW, color)
	}
}

// debugPickImage visualizes the id target: hue cycles with the node id,
// empty pixels stay black.
func (r *Renderer) debugPickImage() *post.Image {
	im := post.NewImage(r.cfg.Width, r.cfg.Height)
	ids := r.pickTarget.IDImage()
	for y := 0; y < r.cfg.Height; y++ {
		for x := 0; x < r.cfg.Width; x++ {
			id := ids[y*r.cfg.Width+x]
			if id == 0 {
				im.Set(x, y, 0, 0, 0, 1)
				continue
			}
			im.Set(x, y,
				float32(id%7)/6,
				float32(id%11)/10,
				float32(id%13)/12,
				1)
		}
	}
	return im
}

// debugMaskImage visualizes the mask target as grayscale.
func (r *Renderer) debugMaskImage() *post.Image {
	im := post.NewImage(r.cfg.Width, r.cfg.Height)
	mask := r.pickTarget.MaskImage()
	for y := 0; y < r.cfg.Height; y++ {
		for x := 0; x < r.cfg.Width; x++ {
			m := mask[y*r.cfg.Width+x]
			im.Set(x, y, m, m, m, 1)
		}
	}
	return im
}
