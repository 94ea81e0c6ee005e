package combine

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figstitch/pkg/errors"
)

// Gravity names the reference point within an image that label text is
// positioned relative to, following the image tool's gravity keywords.
type Gravity string

// Supported gravity values.
const (
	North     Gravity = "north"
	NorthEast Gravity = "northeast"
	NorthWest Gravity = "northwest"
	South     Gravity = "south"
	SouthEast Gravity = "southeast"
	SouthWest Gravity = "southwest"
	East      Gravity = "east"
	West      Gravity = "west"
	Center    Gravity = "center"
)

// gravities is the set of valid gravity keywords.
var gravities = map[Gravity]bool{
	North: true, NorthEast: true, NorthWest: true,
	South: true, SouthEast: true, SouthWest: true,
	East: true, West: true, Center: true,
}

// ParseGravity converts a string to a Gravity, case-insensitively.
func ParseGravity(s string) (Gravity, error) {
	g := Gravity(strings.ToLower(s))
	if !gravities[g] {
		return "", errors.New(errors.ErrCodeInvalidGravity, "unknown gravity %q", s)
	}
	return g, nil
}

// TextOptions controls how labels are drawn onto the input images.
type TextOptions struct {
	Gravity  Gravity // reference corner or center point
	X, Y     float64 // offset from the gravity point
	Font     string  // font name, see `magick -list font`
	FontSize int     // pointsize
	Color    string  // text color
}

// DefaultTextOptions returns the label rendering defaults: black
// Times-New-Roman at pointsize 100, ten pixels in from the top-left corner.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Gravity:  NorthWest,
		X:        10.0,
		Y:        10.0,
		Font:     "Times-New-Roman",
		FontSize: 100,
		Color:    "black",
	}
}

// validate checks the merged options before they replace the current ones.
func (o TextOptions) validate() error {
	if !gravities[o.Gravity] {
		return errors.New(errors.ErrCodeInvalidGravity, "unknown gravity %q", o.Gravity)
	}
	if o.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %d", o.FontSize)
	}
	if err := errors.ValidateFontName(o.Font); err != nil {
		return err
	}
	return errors.ValidateColor(o.Color)
}

// TextOption mutates a single text-rendering option. Options are merged over
// the current values by [Builder.Using]; unspecified fields keep their prior
// values.
type TextOption func(*TextOptions)

// WithGravity sets the reference point the label position is relative to.
func WithGravity(g Gravity) TextOption {
	return func(o *TextOptions) { o.Gravity = g }
}

// WithPosition sets the label offset from the gravity point.
func WithPosition(x, y float64) TextOption {
	return func(o *TextOptions) { o.X, o.Y = x, y }
}

// WithFont sets the label font by name.
func WithFont(name string) TextOption {
	return func(o *TextOptions) { o.Font = name }
}

// WithFontSize sets the label pointsize.
func WithFontSize(points int) TextOption {
	return func(o *TextOptions) { o.FontSize = points }
}

// WithColor sets the label color.
func WithColor(c string) TextOption {
	return func(o *TextOptions) { o.Color = c }
}

// Backend selects how the final composite is produced.
type Backend int

// Available backends.
const (
	// BackendMagick shells out to ImageMagick (the default).
	BackendMagick Backend = iota
	// BackendNative composes in-process with pure Go image libraries.
	BackendNative
)

// BuilderOption configures a Builder at construction time.
type BuilderOption func(*Builder)

// WithRunner replaces the external tool runner. Mainly useful for tests.
func WithRunner(r Runner) BuilderOption {
	return func(b *Builder) { b.runner = r }
}

// WithBackend selects the composition backend.
func WithBackend(be Backend) BuilderOption {
	return func(b *Builder) { b.backend = be }
}

// WithLogger sets the logger used for progress and warnings.
func WithLogger(l *log.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}
