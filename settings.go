package gfaestus

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/chfi/gfaestus/render"
)

// Settings holds the user-tunable rendering parameters. The host
// application typically loads these from a TOML file once at startup and
// passes the relevant fields into render.Config.
type Settings struct {
	Nodes     NodeSettings      `toml:"nodes"`
	Edges     EdgeSettings      `toml:"edges"`
	Highlight HighlightSettings `toml:"highlight"`
	Debug     DebugSettings     `toml:"debug"`
}

// NodeSettings controls node rendering.
type NodeSettings struct {
	// WidthPixels is the on-screen width of a drawn node segment.
	WidthPixels float32 `toml:"width_pixels"`
}

// EdgeSettings controls edge ribbon rendering.
type EdgeSettings struct {
	// WidthPixels is the on-screen ribbon width.
	WidthPixels float32 `toml:"width_pixels"`

	// Color is the edge color as RGB components in [0,1].
	Color [3]float32 `toml:"color"`

	// CurveOffset scales the perpendicular displacement of the curve
	// control point as a fraction of edge length.
	CurveOffset float32 `toml:"curve_offset"`
}

// HighlightSettings controls the selection outline post-process.
type HighlightSettings struct {
	Enabled bool `toml:"enabled"`

	// Color is the outline color as RGB components in [0,1].
	Color [3]float32 `toml:"color"`

	// BlurRadius is the separable blur radius in pixels.
	BlurRadius int `toml:"blur_radius"`
}

// DebugSettings toggles debug visualizations.
type DebugSettings struct {
	// ShowPickBuffer renders the node-id target instead of the color target.
	ShowPickBuffer bool `toml:"show_pick_buffer"`

	// ShowMask renders the selection mask target instead of the color target.
	ShowMask bool `toml:"show_mask"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		Nodes: NodeSettings{
			WidthPixels: 30.0,
		},
		Edges: EdgeSettings{
			WidthPixels: 1.7,
			Color:       [3]float32{0.1, 0.1, 0.1},
			CurveOffset: 0.25,
		},
		Highlight: HighlightSettings{
			Enabled:    true,
			Color:      [3]float32{0.7, 0.4, 1.0},
			BlurRadius: 2,
		},
	}
}

// LoadSettings reads settings from a TOML file. Fields absent from the file
// keep their defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	if _, err := toml.DecodeFile(path, &s); err != nil {
		return s, fmt.Errorf("gfaestus: failed to decode settings %q: %w", path, err)
	}

	if err := s.validate(); err != nil {
		return s, err
	}

	return s, nil
}

// RenderConfig maps the settings onto a renderer configuration for the
// given viewport and grid resolution. Picking is always on; the overlay
// feature is enabled later by the host when it installs colors.
func (s Settings) RenderConfig(width, height int, gridRows, gridCols uint32) render.Config {
	return render.Config{
		Width:    width,
		Height:   height,
		GridRows: gridRows,
		GridCols: gridCols,

		NodeWidthPixels: s.Nodes.WidthPixels,
		EdgeWidthPixels: s.Edges.WidthPixels,
		CurveOffset:     s.Edges.CurveOffset,

		NodeColor:      [3]float32{0.3, 0.3, 0.3},
		EdgeColor:      s.Edges.Color,
		Background:     [3]float32{1, 1, 1},
		HighlightColor: s.Highlight.Color,
		BlurRadius:     s.Highlight.BlurRadius,

		Features: render.Features{
			Picking:        true,
			SelectionMask:  true,
			Highlight:      s.Highlight.Enabled,
			ShowPickBuffer: s.Debug.ShowPickBuffer,
			ShowMask:       s.Debug.ShowMask,
		},
	}
}

func (s *Settings) validate() error {
	if s.Nodes.WidthPixels <= 0 {
		return fmt.Errorf("gfaestus: nodes.width_pixels must be positive, got %v", s.Nodes.WidthPixels)
	}
	if s.Edges.WidthPixels <= 0 {
		return fmt.Errorf("gfaestus: edges.width_pixels must be positive, got %v", s.Edges.WidthPixels)
	}
	if s.Highlight.BlurRadius < 0 {
		return fmt.Errorf("gfaestus: highlight.blur_radius must not be negative, got %d", s.Highlight.BlurRadius)
	}
	return nil
}
