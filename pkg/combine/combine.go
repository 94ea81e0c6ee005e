// Package combine stitches pre-rendered raster images into a labeled
// subfigure grid.
//
// A Builder accumulates input files, a grid shape, optional labels, and
// text-rendering options, then drives ImageMagick through a three-phase
// pipeline: stamp each input with its label, concatenate the images of each
// row horizontally, and concatenate the row strips vertically into the final
// composite. Intermediates live in a private temporary directory that is
// removed when Save returns.
//
//	b := combine.New()
//	if err := b.Add("one.png", "two.png", "three.png", "four.png"); err != nil { ... }
//	if err := b.InGrid(2, 2); err != nil { ... }
//	if err := b.Save(ctx, "grid.png", 0); err != nil { ... }
//
// Labels default to the alphabetic sequence "(a)", "(b)", ... and can be
// overridden with [Builder.WithLabels]. A pure-Go backend (no ImageMagick
// required) is available via [WithBackend].
package combine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/figstitch/pkg/errors"
	"github.com/matzehuels/figstitch/pkg/labels"
	"github.com/matzehuels/figstitch/pkg/observability"
)

// Builder accumulates combine state. It is not safe for concurrent use; each
// goroutine should build its own.
type Builder struct {
	text    TextOptions
	files   []string
	labels  []string
	gridW   int
	gridH   int
	backend Backend
	runner  Runner
	logger  *log.Logger
}

// New creates a Builder with default text options and the ImageMagick
// backend.
func New(opts ...BuilderOption) *Builder {
	b := &Builder{
		text:    DefaultTextOptions(),
		backend: BackendMagick,
	}
	for _, o := range opts {
		o(b)
	}
	if b.runner == nil {
		b.runner = NewMagickRunner()
	}
	if b.logger == nil {
		b.logger = log.Default()
	}
	return b
}

// Add appends input files to be combined. All paths are checked before any
// state changes; a missing file yields a FILE_NOT_FOUND error and leaves the
// builder untouched.
func (b *Builder) Add(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "the input file %s was not found", f)
		}
	}
	b.files = append(b.files, files...)
	return nil
}

// Using merges the given text options over the current values. Options not
// specified keep their prior values, so successive calls compose. Invalid
// values (unknown gravity, empty font, bad color) reject the whole call and
// keep the current options.
func (b *Builder) Using(opts ...TextOption) error {
	merged := b.text
	for _, o := range opts {
		o(&merged)
	}
	if err := merged.validate(); err != nil {
		return err
	}
	b.text = merged
	return nil
}

// InGrid sets the grid shape: w subfigures per row, h rows. Files must be
// added first. The grid must hold all files (w*h >= n) without leaving more
// than one fully empty trailing row or column.
func (b *Builder) InGrid(w, h int) error {
	n := len(b.files)
	if n == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "provide the files before the grid")
	}
	if w < 1 || h < 1 {
		return errors.New(errors.ErrCodeInvalidGrid, "grid dimensions must be positive, got %dx%d", w, h)
	}
	if w*h < n {
		return errors.New(errors.ErrCodeInvalidGrid, "grid %dx%d too small for %d files", w, h, n)
	}
	if w*(h-1) > n || h*(w-1) > n {
		return errors.New(errors.ErrCodeInvalidGrid, "grid %dx%d too big for %d files", w, h, n)
	}
	b.gridW, b.gridH = w, h
	return nil
}

// WithLabels sets the labels stamped onto the subfigures. With no arguments
// the labels are generated alphabetically: (a), (b), ..., (aa), (ab), ...
// A non-empty argument list must match the file count exactly.
func (b *Builder) WithLabels(labs ...string) error {
	if len(labs) == 0 {
		b.labels = labels.Sequence(len(b.files))
		return nil
	}
	if len(labs) != len(b.files) {
		return errors.New(errors.ErrCodeInvalidLabels, "got %d labels for %d files", len(labs), len(b.files))
	}
	for _, l := range labs {
		if err := errors.ValidateLabelText(l); err != nil {
			return err
		}
	}
	b.labels = append([]string(nil), labs...)
	return nil
}

// Save runs the pipeline and writes the composite to output. An empty output
// defaults to "output.png"; a missing extension gets the default format. The
// output's parent directory must exist. dpi, when positive, sets the density
// of the final composite.
//
// Save fails with INVALID_GRID if InGrid was never called and TOOL_MISSING if
// the external image tool cannot be invoked. The temporary directory used for
// intermediates is removed whether or not the pipeline succeeds.
func (b *Builder) Save(ctx context.Context, output string, dpi int) error {
	if b.gridW == 0 || b.gridH == 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "set the grid before saving")
	}

	out, err := b.resolveOutput(output)
	if err != nil {
		return err
	}
	if len(b.labels) == 0 {
		b.labels = labels.Sequence(len(b.files))
	}

	if b.backend == BackendNative {
		return b.saveNative(out)
	}
	return b.saveMagick(ctx, out, dpi)
}

// vectorExts are accepted but discouraged: the external tool rasterizes them,
// so composing natively (pkg/figure) gives better results.
var vectorExts = map[string]bool{".pdf": true, ".eps": true, ".svg": true}

// rasterExts are the extensions passed through unchanged.
var rasterExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true}

func (b *Builder) resolveOutput(output string) (string, error) {
	if output == "" {
		output = "output.png"
	}
	switch ext := strings.ToLower(filepath.Ext(output)); {
	case ext == "":
		output += ".png"
	case rasterExts[ext]:
	case vectorExts[ext]:
		b.logger.Warn("vector output requested; prefer composing vector figures natively", "format", ext)
	default:
		output = strings.TrimSuffix(output, filepath.Ext(output)) + ".png"
	}

	dir := filepath.Dir(output)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return "", errors.New(errors.ErrCodeDirNotFound, "the output directory %s does not exist", dir)
	}
	return output, nil
}

func (b *Builder) saveMagick(ctx context.Context, out string, dpi int) error {
	version, err := b.runner.Probe(ctx)
	observability.Combine().OnToolProbe(ctx, "magick", version, err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeToolMissing, err, "the image tool is not invokable; is ImageMagick installed?")
	}
	if major := magickMajor(version); major != 0 && major != expectedMagickMajor {
		b.logger.Warn("unexpected ImageMagick version", "version", version, "expected_major", expectedMagickMajor)
	}
	b.logger.Debug("probed image tool", "version", version)

	tmp, err := os.MkdirTemp("", "figstitch-")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temporary directory")
	}
	defer os.RemoveAll(tmp)

	// Several builders may run in separate processes against the same
	// temporary root; the prefix keeps their intermediates apart.
	prefix := uuid.NewString()

	labeled, err := b.stampAll(ctx, tmp, prefix)
	if err != nil {
		return err
	}

	strips, err := b.appendRows(ctx, tmp, prefix, labeled)
	if err != nil {
		return err
	}

	if err := b.composite(ctx, strips, out, dpi); err != nil {
		return err
	}

	b.logger.Info("combined images",
		"files", len(b.files),
		"grid", fmt.Sprintf("%dx%d", b.gridW, b.gridH),
		"output", out)
	return nil
}

// stampAll draws each label onto its input image, one tool call per image.
func (b *Builder) stampAll(ctx context.Context, tmp, prefix string) ([]string, error) {
	start := time.Now()
	observability.Combine().OnStageStart(ctx, "label", len(b.files))

	labeled := make([]string, len(b.files))
	for i, f := range b.files {
		dst := filepath.Join(tmp, fmt.Sprintf("%s_%d.png", prefix, i))
		args := []string{
			f,
			"-font", b.text.Font,
			"-pointsize", strconv.Itoa(b.text.FontSize),
			"-draw", b.drawDirective(b.labels[i]),
			dst,
		}
		if err := b.runner.Run(ctx, args...); err != nil {
			observability.Combine().OnStageComplete(ctx, "label", len(b.files), time.Since(start), err)
			return nil, errors.Wrap(errors.ErrCodeToolFailed, err, "labeling %s", f)
		}
		labeled[i] = dst
	}

	observability.Combine().OnStageComplete(ctx, "label", len(b.files), time.Since(start), nil)
	return labeled, nil
}

// appendRows concatenates each row's labeled images horizontally.
func (b *Builder) appendRows(ctx context.Context, tmp, prefix string, labeled []string) ([]string, error) {
	start := time.Now()
	observability.Combine().OnStageStart(ctx, "append", b.gridH)

	strips := make([]string, 0, b.gridH)
	for j := 0; j < b.gridH; j++ {
		lo := j * b.gridW
		if lo >= len(labeled) {
			break // trailing empty row
		}
		hi := min(lo+b.gridW, len(labeled))

		strip := filepath.Join(tmp, fmt.Sprintf("%s_row_%d.png", prefix, j))
		args := append([]string{"+append"}, labeled[lo:hi]...)
		args = append(args, strip)
		if err := b.runner.Run(ctx, args...); err != nil {
			observability.Combine().OnStageComplete(ctx, "append", b.gridH, time.Since(start), err)
			return nil, errors.Wrap(errors.ErrCodeToolFailed, err, "joining row %d", j)
		}
		strips = append(strips, strip)
	}

	observability.Combine().OnStageComplete(ctx, "append", b.gridH, time.Since(start), nil)
	return strips, nil
}

// composite stacks the row strips vertically into the final output.
func (b *Builder) composite(ctx context.Context, strips []string, out string, dpi int) error {
	start := time.Now()
	observability.Combine().OnStageStart(ctx, "composite", len(strips))

	args := []string{"-append"}
	if dpi > 0 {
		args = append(args, "-density", strconv.Itoa(dpi))
	}
	args = append(args, strips...)
	args = append(args, out)

	err := b.runner.Run(ctx, args...)
	observability.Combine().OnStageComplete(ctx, "composite", len(strips), time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeToolFailed, err, "assembling %s", out)
	}
	return nil
}

// drawDirective builds the -draw argument that stamps one label.
func (b *Builder) drawDirective(label string) string {
	return fmt.Sprintf("gravity %s fill %s text %g,%g '%s'",
		b.text.Gravity, b.text.Color, b.text.X, b.text.Y, label)
}

// Help writes the equivalent manual command sequence to w. It changes no
// builder state.
func (b *Builder) Help(w io.Writer) {
	conv := func(lab string) string {
		return fmt.Sprintf("    magick in-%s.png -font %s -pointsize %d -draw \"%s\" %s.png\n",
			lab, b.text.Font, b.text.FontSize, b.drawDirective("("+lab+")"), lab)
	}

	fmt.Fprint(w,
		"To create images with labels:\n",
		conv("a"), conv("b"), conv("c"), conv("d"),
		"Then to combine them horizontally:\n",
		"    magick +append a.png b.png ab.png\n",
		"    magick +append c.png d.png cd.png\n",
		"And finally stack them vertically:\n",
		"    magick -append ab.png cd.png out.png\n",
		"Optionally delete all temporary files:\n",
		"    rm a.png b.png c.png d.png ab.png cd.png\n")
}

// Files returns the input files added so far.
func (b *Builder) Files() []string { return append([]string(nil), b.files...) }

// Labels returns the labels that will be stamped, or nil when they have not
// been set or generated yet.
func (b *Builder) Labels() []string { return append([]string(nil), b.labels...) }

// Grid returns the grid shape (0, 0 when unset).
func (b *Builder) Grid() (w, h int) { return b.gridW, b.gridH }

// Text returns the current text-rendering options.
func (b *Builder) Text() TextOptions { return b.text }
