// Package figure computes subplot grid geometry and composes multi-panel
// figures with alphabetic panel labels.
//
// The geometry follows the publication layout of the style presets: each
// panel keeps a 0.2 normalized margin for axis decorations and a 0.75
// normalized plotting area, scaled by the number of rows and columns. Panels
// are labeled row-major: "(a)" top-left, continuing along the row.
package figure

import (
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/matzehuels/figstitch/pkg/errors"
	"github.com/matzehuels/figstitch/pkg/labels"
	"github.com/matzehuels/figstitch/pkg/style"
)

// Panel describes one cell of a subplot grid: its position, its normalized
// axes rectangle in figure coordinates, and its label.
type Panel struct {
	Row, Col int
	Rect     style.Rect
	Label    string
}

// Grid returns the panels of a rows-by-cols subplot grid in row-major order
// with auto-generated labels. Row 0 is the top row.
func Grid(rows, cols int) ([]Panel, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid must be at least 1x1, got %dx%d", cols, rows)
	}

	labs := labels.Sequence(rows * cols)
	panels := make([]Panel, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			panels = append(panels, Panel{
				Row: r,
				Col: c,
				Rect: style.Rect{
					X0: 0.2/float64(cols) + float64(c)/float64(cols),
					Y0: 0.2/float64(rows) + float64(rows-1-r)/float64(rows),
					W:  0.75 / float64(cols),
					H:  0.75 / float64(rows),
				},
				Label: labs[r*cols+c],
			})
		}
	}
	return panels, nil
}

// Compose lays the given plots out in a rows-by-cols grid on a single canvas,
// applies the style parameters to every plot, and stamps each panel with its
// label. plots are taken row-major; trailing cells may be left empty by
// passing fewer plots than rows*cols (nil entries are skipped too).
//
// If labs is nil, labels are auto-generated. A non-nil labs must have one
// entry per plot.
func Compose(rows, cols int, plots []*plot.Plot, prm style.Params, labs []string) (*vgimg.Canvas, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid must be at least 1x1, got %dx%d", cols, rows)
	}
	if len(plots) > rows*cols {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid %dx%d too small for %d plots", cols, rows, len(plots))
	}
	if labs == nil {
		labs = labels.Sequence(len(plots))
	} else if len(labs) != len(plots) {
		return nil, errors.New(errors.ErrCodeInvalidLabels, "got %d labels for %d plots", len(labs), len(plots))
	}

	width := vg.Length(float64(cols)*prm.FigWidth) * vg.Inch
	height := vg.Length(float64(rows)*prm.FigHeight) * vg.Inch
	dpi := int(prm.DPI)
	if dpi <= 0 {
		dpi = vgimg.DefaultDPI
	}
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}

	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
		for c := range grid[r] {
			if i := r*cols + c; i < len(plots) {
				grid[r][c] = plots[i]
			}
		}
	}

	canvases := plot.Align(grid, tiles, dc)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			plt := grid[r][c]
			if plt == nil {
				continue
			}
			prm.Apply(plt)
			plt.Draw(canvases[r][c])

			f := plt.Title.TextStyle.Font
			f.Size = vg.Points(prm.FontSize)
			sty := text.Style{
				Color:   color.Black,
				Font:    f,
				Handler: plt.TextHandler,
			}
			pt := vg.Point{
				X: canvases[r][c].Min.X,
				Y: canvases[r][c].Max.Y - sty.Font.Size,
			}
			canvases[r][c].FillText(sty, pt, labs[r*cols+c])
		}
	}

	return img, nil
}

// WritePNG writes a composed canvas to path as a PNG.
func WritePNG(c *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDirNotFound, err, "create %s", path)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", path)
	}
	return nil
}
