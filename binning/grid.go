// Package binning builds the uniform-grid spatial index over node
// positions. The index is a three-pass parallel bucket sort: classify
// each node into a grid cell with an atomic counter claim, derive
// per-cell starting offsets with an exclusive prefix sum, then scatter
// node indices into one shared array where each cell owns a contiguous
// range.
//
// The same three kernels exist as WGSL shaders in gpu/shaders; the Go
// functions here mirror them and are what Build executes on the CPU.
package binning

import (
	"fmt"

	"github.com/chfi/gfaestus/geometry"
	"github.com/chfi/gfaestus/gpu"
	"github.com/chfi/gfaestus/graph"
)

// BinNone marks a node outside the indexed region. Such nodes claim no
// slot and appear in no cell range.
const BinNone = ^uint32(0)

// Config describes the uniform grid: its world-space origin (top-left of
// the indexed rectangle), the cell dimensions, and the number of rows and
// columns.
type Config struct {
	Origin     geometry.Point
	Rows, Cols uint32
	CellWidth  float32
	CellHeight float32
}

// ConfigForBounds returns a grid config whose cells exactly tile the given
// rectangle.
func ConfigForBounds(bounds geometry.Rect, rows, cols uint32) Config {
	return Config{
		Origin:     bounds.Min,
		Rows:       rows,
		Cols:       cols,
		CellWidth:  bounds.Width() / float32(cols),
		CellHeight: bounds.Height() / float32(rows),
	}
}

func (c Config) validate() error {
	if c.Rows == 0 || c.Cols == 0 {
		return fmt.Errorf("binning: grid dimensions must be non-zero, got %dx%d", c.Rows, c.Cols)
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return fmt.Errorf("binning: cell size must be positive, got %vx%v", c.CellWidth, c.CellHeight)
	}
	return nil
}

// BinCount returns the total number of grid cells.
func (c Config) BinCount() uint32 {
	return c.Rows * c.Cols
}

// BinAt returns the row-major cell id containing p, or BinNone if p lies
// outside the indexed rectangle. Cells are left/top inclusive and
// right/bottom exclusive, so a point exactly on an interior boundary
// belongs to the cell on its right/below.
func (c Config) BinAt(p geometry.Point) uint32 {
	if !p.IsFinite() {
		return BinNone
	}
	dx := p.X - c.Origin.X
	dy := p.Y - c.Origin.Y
	if dx < 0 || dy < 0 {
		return BinNone
	}
	col := uint32(dx / c.CellWidth)
	row := uint32(dy / c.CellHeight)
	if col >= c.Cols || row >= c.Rows {
		return BinNone
	}
	return row*c.Cols + col
}

// BinRect returns the world-space rectangle covered by a cell.
func (c Config) BinRect(bin uint32) geometry.Rect {
	row := bin / c.Cols
	col := bin % c.Cols
	min := geometry.Pt(
		c.Origin.X+float32(col)*c.CellWidth,
		c.Origin.Y+float32(row)*c.CellHeight,
	)
	return geometry.Rect{
		Min: min,
		Max: geometry.Pt(min.X+c.CellWidth, min.Y+c.CellHeight),
	}
}

// GridIndex is the built spatial index. Each cell owns the contiguous
// range nodes[offsets[bin] : offsets[bin]+counts[bin]]; the union of all
// ranges is a permutation of the binned node indices.
type GridIndex struct {
	cfg      Config
	capacity int

	// Per-node results from the classify pass.
	nodeBins   []uint32
	intraOffs  []uint32

	// Per-bin results.
	counts  *gpu.CounterArray
	offsets []uint32

	// Shared node-index array, ordered by bin. Node indices are 0-based.
	nodes []uint32

	built bool
}

// NewGridIndex allocates an index for up to nodeCapacity nodes.
func NewGridIndex(cfg Config, nodeCapacity int) (*GridIndex, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if nodeCapacity < 0 {
		return nil, fmt.Errorf("binning: node capacity must not be negative, got %d", nodeCapacity)
	}
	return &GridIndex{
		cfg:       cfg,
		capacity:  nodeCapacity,
		nodeBins:  make([]uint32, nodeCapacity),
		intraOffs: make([]uint32, nodeCapacity),
		counts:    gpu.NewCounterArray(int(cfg.BinCount())),
		offsets:   make([]uint32, cfg.BinCount()),
		nodes:     make([]uint32, nodeCapacity),
	}, nil
}

// Config returns the grid configuration.
func (g *GridIndex) Config() Config {
	return g.cfg
}

// Build rebuilds the index from the layout. Nodes are classified by the
// midpoint of their drawn segment. Exceeding the index capacity is a
// configuration error and leaves the previous index unusable.
func (g *GridIndex) Build(layout *graph.Layout) error {
	n := layout.NodeCount()
	if n > g.capacity {
		return fmt.Errorf("binning: layout has %d nodes, index capacity is %d", n, g.capacity)
	}

	g.built = false
	g.counts.Reset()

	// Pass 1: classify. Each node claims an intra-bin slot through the
	// atomic counter; the returned prior value is its stable placement.
	gpu.Dispatch1D(uint32(n), func(gid uint32) {
		bin := g.cfg.BinAt(layout.Midpoint(graph.NodeID(gid + 1)))
		g.nodeBins[gid] = bin
		if bin != BinNone {
			g.intraOffs[gid] = g.counts.Add(bin, 1)
		}
	})

	// Pass 2: exclusive prefix sum over bin counts. Sequential scan; the
	// bin count is small compared to the node count.
	total := uint32(0)
	for bin := uint32(0); bin < g.cfg.BinCount(); bin++ {
		g.offsets[bin] = total
		total += g.counts.Load(bin)
	}

	// Pass 3: scatter node indices into the shared array.
	gpu.Dispatch1D(uint32(n), func(gid uint32) {
		bin := g.nodeBins[gid]
		if bin == BinNone {
			return
		}
		g.nodes[g.offsets[bin]+g.intraOffs[gid]] = gid
	})

	g.built = true

	slogger().Debug("grid index built",
		"nodes", n,
		"binned", total,
		"grid", fmt.Sprintf("%dx%d", g.cfg.Rows, g.cfg.Cols))
	return nil
}

// Built reports whether the index holds a completed build.
func (g *GridIndex) Built() bool {
	return g.built
}

// BinnedCount returns the number of nodes that fell inside the grid in
// the last build.
func (g *GridIndex) BinnedCount() uint32 {
	if !g.built {
		return 0
	}
	last := g.cfg.BinCount() - 1
	return g.offsets[last] + g.counts.Load(last)
}

// NodeBin returns the cell the node was classified into, or BinNone.
// The node index is 0-based.
func (g *GridIndex) NodeBin(node uint32) uint32 {
	return g.nodeBins[node]
}

// BinRange returns the [offset, offset+count) range a cell owns in the
// shared node-index array.
func (g *GridIndex) BinRange(bin uint32) (offset, count uint32) {
	return g.offsets[bin], g.counts.Load(bin)
}

// NodesInBin returns the 0-based node indices stored in a cell. The
// returned slice aliases the index and is valid until the next Build.
func (g *GridIndex) NodesInBin(bin uint32) []uint32 {
	off, count := g.BinRange(bin)
	return g.nodes[off : off+count]
}
