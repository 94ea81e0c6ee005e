package style

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
)

// Apply pushes the parameters onto a gonum/plot plot: fonts and font sizes
// for title, axis labels, tick labels and legend, axis and tick line widths,
// and tick lengths. Fields that have no counterpart on a plot.Plot (DPI,
// figure size, legend framing) are consumed by [Params.Canvas] and by
// renderers instead.
func (p Params) Apply(plt *plot.Plot) {
	// The Font name is consumed by raster renderers; plots keep their
	// registered typeface and only the sizes change here.
	setFont := func(s *text.Style, points float64) {
		s.Font.Size = vg.Points(points)
	}

	setFont(&plt.Title.TextStyle, p.FontSize)
	setFont(&plt.X.Label.TextStyle, p.LabelSize)
	setFont(&plt.Y.Label.TextStyle, p.LabelSize)
	setFont(&plt.X.Tick.Label, p.FontSize)
	setFont(&plt.Y.Tick.Label, p.FontSize)
	setFont(&plt.Legend.TextStyle, p.LegendSize)

	plt.X.LineStyle.Width = vg.Points(p.AxesLineWidth)
	plt.Y.LineStyle.Width = vg.Points(p.AxesLineWidth)
	plt.X.Tick.LineStyle.Width = vg.Points(p.AxesLineWidth)
	plt.Y.Tick.LineStyle.Width = vg.Points(p.AxesLineWidth)

	length := vg.Points(3)
	if p.TickDirection == Out {
		// gonum/plot draws ticks into the plot area; outward ticks are
		// approximated by padding the axis instead of flipping the marks.
		plt.X.Padding += length
		plt.Y.Padding += length
	}
	plt.X.Tick.Length = length
	plt.Y.Tick.Length = length

	// ThumbnailWidth is the legend sample length, the closest analog of a
	// legend handle length.
	plt.Legend.ThumbnailWidth = vg.Points(p.LegendHandleLength * 10)
}

// Canvas returns a raster canvas with the preset's figure dimensions and DPI,
// ready for plot.Draw.
func (p Params) Canvas() *vgimg.Canvas {
	w := vg.Length(p.FigWidth) * vg.Inch
	h := vg.Length(p.FigHeight) * vg.Inch
	dpi := int(p.DPI)
	if dpi <= 0 {
		dpi = vgimg.DefaultDPI
	}
	return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
}
