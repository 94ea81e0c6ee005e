// Package style provides publication figure style presets.
//
// A preset is a named bundle of figure-style parameters (figure size derived
// from a golden-ratio aspect, DPI, fonts, line widths, tick and legend
// settings) applied atomically to a [Params] struct. Params is an explicit
// value passed into the preset functions; there is no process-global style
// registry.
//
// The base preset is [Dynamo] (half-column revtex figures); the other presets
// re-derive from it and override individual fields:
//
//	var p style.Params
//	rect, err := style.Dynamo(&p, 1, style.Thin)
//
// Params can be pushed onto a live gonum/plot plot with [Params.Apply] and
// turned into a raster canvas of the right size and resolution with
// [Params.Canvas].
package style

import (
	"math"

	"github.com/matzehuels/figstitch/pkg/errors"
)

// GoldenRatio is the aspect ratio used to derive figure heights from widths.
var GoldenRatio = 0.5 * (1.0 + math.Sqrt(5.0))

// LineWeight selects between the thin and thick line variants of a preset.
type LineWeight string

// Supported line weights.
const (
	Thin  LineWeight = "thin"
	Thick LineWeight = "thick"
)

// Direction is a tick direction.
type Direction string

// Tick directions.
const (
	In  Direction = "in"
	Out Direction = "out"
)

// Rect is a normalized axes rectangle [x0, y0, w, h] in figure coordinates.
type Rect struct {
	X0, Y0, W, H float64
}

// Params holds the figure-style parameters a preset mutates.
//
// Sizes are in inches, font sizes in points, line widths in points.
type Params struct {
	// Figure geometry and resolution.
	FigWidth  float64 // inches
	FigHeight float64 // inches
	DPI       float64 // figure DPI
	SaveDPI   float64 // DPI used when saving

	// Fonts.
	Font       string  // font family name
	FontSize   float64 // base font size in points
	LabelSize  float64 // axes label size in points
	LegendSize float64 // legend font size in points
	UseTeX     bool    // render text with TeX where supported

	// Lines and markers.
	LineWidth  float64
	MarkerSize float64

	// Axes and ticks.
	AxesLineWidth  float64
	TickDirection  Direction
	MinorTicks     bool // show minor ticks
	TicksAllSides  bool // ticks on all four spines
	TickMajorWidth float64
	TickMinorWidth float64

	// Legend framing.
	LegendFrameAlpha   float64
	LegendFancyBox     bool
	LegendEdgeColor    string
	LegendHandleLength float64
	PatchLineWidth     float64 // legend box border width
}

// Dynamo is the base preset: half column width figures for revtex.
//
// cols is the number of columns the figure spans (1 or 2). The figure is
// cols * 3.37" wide; the height is 3.37" over the golden ratio either way.
//
// weight selects thin or thick lines. The returned Rect is the normalized
// axes rectangle to use for the figure. An invalid cols or weight yields an
// INVALID_PRESET error and leaves p untouched.
func Dynamo(p *Params, cols int, weight LineWeight) (Rect, error) {
	linewidth := 0.75
	switch weight {
	case Thin:
	case Thick:
		linewidth *= 2
	default:
		return Rect{}, errors.New(errors.ErrCodeInvalidPreset, "line weight must be %q or %q, got %q", Thin, Thick, weight)
	}

	var rect Rect
	switch cols {
	case 1:
		x0, y0 := 0.2, 0.2
		rect = Rect{X0: x0, Y0: y0, W: 0.95 - x0, H: 0.95 - y0}
	case 2:
		x0, y0 := 0.1, 0.2
		rect = Rect{X0: x0, Y0: y0, W: 0.975 - x0, H: 0.95 - y0}
	default:
		return Rect{}, errors.New(errors.ErrCodeInvalidPreset, "cols must be 1 or 2, got %d", cols)
	}

	const (
		dpi      = 300.0
		fontsize = 8.0
	)

	p.FigWidth = float64(cols) * 3.37
	p.FigHeight = 3.37 / GoldenRatio
	p.DPI = dpi
	p.SaveDPI = dpi

	p.Font = "Times"
	p.FontSize = fontsize
	p.LabelSize = fontsize
	p.LegendSize = fontsize
	p.UseTeX = true

	p.LineWidth = linewidth
	p.MarkerSize = 3.0 * linewidth

	p.AxesLineWidth = 0.5
	p.TickDirection = In
	p.MinorTicks = true
	p.TicksAllSides = true
	p.TickMajorWidth = 0
	p.TickMinorWidth = 0

	p.LegendFrameAlpha = 1.0
	p.LegendFancyBox = false
	p.LegendEdgeColor = "black"
	// Even handle lengths show the difference between line styles.
	p.LegendHandleLength = 1.45
	p.PatchLineWidth = 0.5

	return rect, nil
}

// ArticleThickLine is one 8cm article column with thicker lines for
// visibility. Markers are kept small.
func ArticleThickLine(p *Params) error {
	if _, err := Dynamo(p, 1, Thick); err != nil {
		return err
	}
	p.MarkerSize = 2
	return nil
}

// Poster makes 12.5cm wide figures for posters.
func Poster(p *Params) error {
	if _, err := Dynamo(p, 1, Thick); err != nil {
		return err
	}
	const fontsize = 8.0

	p.FigWidth = 4.92
	p.FigHeight = p.FigWidth / GoldenRatio
	p.LabelSize = fontsize * 2
	p.AxesLineWidth = 2
	p.FontSize = fontsize * 2
	p.LegendSize = 12
	p.LineWidth = 2
	p.PatchLineWidth = 2

	p.SaveDPI = 300
	p.TickMajorWidth = 2
	p.TickMinorWidth = 1
	return nil
}

// Talk configures graphics for talks: 16:9 beamer slides are 16cm by 9cm
// with a 7.5cm wide figure.
func Talk(p *Params) error {
	if _, err := Dynamo(p, 1, Thick); err != nil {
		return err
	}
	p.FigWidth = 6
	p.FigHeight = p.FigWidth / GoldenRatio
	p.AxesLineWidth = 1.0
	p.FontSize = 16
	p.LegendSize = 12
	return nil
}

// Names lists the available preset names in display order.
func Names() []string {
	return []string{"dynamo", "article-thick", "poster", "talk"}
}

// ApplyPreset applies the named preset to p. cols and weight are only
// consulted by the dynamo preset; the derived presets fix their own values.
// Unknown names yield an INVALID_PRESET error.
func ApplyPreset(p *Params, name string, cols int, weight LineWeight) (Rect, error) {
	switch name {
	case "dynamo":
		return Dynamo(p, cols, weight)
	case "article-thick":
		return Rect{}, ArticleThickLine(p)
	case "poster":
		return Rect{}, Poster(p)
	case "talk":
		return Rect{}, Talk(p)
	default:
		return Rect{}, errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q (available: dynamo, article-thick, poster, talk)", name)
	}
}
