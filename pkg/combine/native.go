package combine

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"

	"github.com/matzehuels/figstitch/pkg/errors"
)

// saveNative composes the grid in-process: decode, stamp, paste, encode.
// It produces raster output only; vector extensions are rejected.
func (b *Builder) saveNative(out string) error {
	if ext := strings.ToLower(filepath.Ext(out)); vectorExts[ext] {
		return errors.New(errors.ErrCodeUnsupported, "the native backend cannot write %s output", ext)
	}

	fontPath, err := resolveFont(b.text.Font)
	if err != nil {
		b.logger.Warn("font not found, falling back", "font", b.text.Font, "err", err)
		fontPath, err = fallbackFont()
		if err != nil {
			return err
		}
	}

	labeled := make([]image.Image, len(b.files))
	for i, f := range b.files {
		img, err := imaging.Open(f)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding %s", f)
		}
		labeled[i], err = b.stampNative(img, b.labels[i], fontPath)
		if err != nil {
			return err
		}
	}

	strips := make([]image.Image, 0, b.gridH)
	for j := 0; j < b.gridH; j++ {
		lo := j * b.gridW
		if lo >= len(labeled) {
			break
		}
		hi := min(lo+b.gridW, len(labeled))
		strips = append(strips, appendHorizontal(labeled[lo:hi]))
	}
	final := appendVertical(strips)

	if err := imaging.Save(final, out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", out)
	}

	b.logger.Info("combined images natively",
		"files", len(b.files),
		"grid", fmt.Sprintf("%dx%d", b.gridW, b.gridH),
		"output", out)
	return nil
}

// stampNative draws one label onto an image.
func (b *Builder) stampNative(img image.Image, label, fontPath string) (image.Image, error) {
	dc := gg.NewContextForImage(img)
	if err := dc.LoadFontFace(fontPath, float64(b.text.FontSize)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "loading font %s", fontPath)
	}
	dc.SetColor(parseColor(b.text.Color))

	x, y, ax, ay := anchor(b.text.Gravity, float64(dc.Width()), float64(dc.Height()), b.text.X, b.text.Y)
	dc.DrawStringAnchored(label, x, y, ax, ay)
	return dc.Image(), nil
}

// anchor converts a gravity plus offset into draw coordinates and the
// text-anchor fractions used by gg.DrawStringAnchored.
func anchor(g Gravity, w, h, offX, offY float64) (x, y, ax, ay float64) {
	switch g {
	case NorthWest:
		return offX, offY, 0, 1
	case North:
		return w/2 + offX, offY, 0.5, 1
	case NorthEast:
		return w - offX, offY, 1, 1
	case West:
		return offX, h/2 + offY, 0, 0.5
	case Center:
		return w/2 + offX, h/2 + offY, 0.5, 0.5
	case East:
		return w - offX, h/2 + offY, 1, 0.5
	case SouthWest:
		return offX, h - offY, 0, 0
	case South:
		return w/2 + offX, h - offY, 0.5, 0
	case SouthEast:
		return w - offX, h - offY, 1, 0
	}
	return offX, offY, 0, 1
}

// resolveFont maps a font name like "Times-New-Roman" to a font file on the
// system.
func resolveFont(name string) (string, error) {
	candidates := []string{
		name,
		strings.ReplaceAll(name, "-", " "),
		strings.ReplaceAll(name, "-", ""),
	}
	for _, c := range candidates {
		if p, err := findfont.Find(c + ".ttf"); err == nil {
			return p, nil
		}
		if p, err := findfont.Find(c); err == nil {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeFontNotFound, "no font file matches %q", name)
}

// fallbackFont returns a widely installed serif or sans font.
func fallbackFont() (string, error) {
	for _, c := range []string{"LiberationSerif-Regular.ttf", "DejaVuSerif.ttf", "DejaVuSans.ttf", "Arial.ttf"} {
		if p, err := findfont.Find(c); err == nil {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeFontNotFound, "no usable fallback font installed")
}

// namedColors covers the color names commonly used for labels. Anything else
// should be given as a hex value.
var namedColors = map[string]color.Color{
	"black":   color.Black,
	"white":   color.White,
	"red":     color.NRGBA{R: 0xff, A: 0xff},
	"green":   color.NRGBA{G: 0x80, A: 0xff},
	"blue":    color.NRGBA{B: 0xff, A: 0xff},
	"yellow":  color.NRGBA{R: 0xff, G: 0xff, A: 0xff},
	"magenta": color.NRGBA{R: 0xff, B: 0xff, A: 0xff},
	"cyan":    color.NRGBA{G: 0xff, B: 0xff, A: 0xff},
	"gray":    color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"grey":    color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
}

// parseColor resolves a named or #rrggbb hex color, defaulting to black.
func parseColor(s string) color.Color {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c
	}
	if strings.HasPrefix(s, "#") && (len(s) == 7 || len(s) == 4) {
		var r, g, bl uint8
		if len(s) == 7 {
			r = hexByte(s[1], s[2])
			g = hexByte(s[3], s[4])
			bl = hexByte(s[5], s[6])
		} else {
			r = hexByte(s[1], s[1])
			g = hexByte(s[2], s[2])
			bl = hexByte(s[3], s[3])
		}
		return color.NRGBA{R: r, G: g, B: bl, A: 0xff}
	}
	return color.Black
}

func hexByte(hi, lo byte) uint8 {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// appendHorizontal concatenates images left to right on a white background,
// matching the tool's +append semantics.
func appendHorizontal(imgs []image.Image) image.Image {
	var w, h int
	for _, img := range imgs {
		w += img.Bounds().Dx()
		h = max(h, img.Bounds().Dy())
	}
	dst := imaging.New(w, h, color.White)
	x := 0
	for _, img := range imgs {
		dst = imaging.Paste(dst, img, image.Pt(x, 0))
		x += img.Bounds().Dx()
	}
	return dst
}

// appendVertical stacks images top to bottom on a white background, matching
// the tool's -append semantics.
func appendVertical(imgs []image.Image) image.Image {
	var w, h int
	for _, img := range imgs {
		w = max(w, img.Bounds().Dx())
		h += img.Bounds().Dy()
	}
	dst := imaging.New(w, h, color.White)
	y := 0
	for _, img := range imgs {
		dst = imaging.Paste(dst, img, image.Pt(0, y))
		y += img.Bounds().Dy()
	}
	return dst
}
