package combine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/figstitch/pkg/errors"
)

// fakeRunner records invocations instead of shelling out.
type fakeRunner struct {
	version  string
	probeErr error
	runErr   error
	calls    [][]string
}

func (r *fakeRunner) Probe(context.Context) (string, error) {
	return r.version, r.probeErr
}

func (r *fakeRunner) Run(_ context.Context, args ...string) error {
	r.calls = append(r.calls, append([]string(nil), args...))
	return r.runErr
}

// writePNGs creates n tiny PNG files in dir and returns their paths.
func writePNGs(t *testing.T, dir string, n int) []string {
	t.Helper()
	paths := make([]string, n)
	for i := range paths {
		p := filepath.Join(dir, fmt.Sprintf("in_%d.png", i))
		f, err := os.Create(p)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 8, 8))); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
		paths[i] = p
	}
	return paths
}

func newTestBuilder(t *testing.T, n int) (*Builder, *fakeRunner, []string) {
	t.Helper()
	r := &fakeRunner{version: "Version: ImageMagick 7.1.1-29 Q16-HDRI"}
	b := New(WithRunner(r))
	files := writePNGs(t, t.TempDir(), n)
	if err := b.Add(files...); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return b, r, files
}

func TestAddMissingFile(t *testing.T) {
	b := New(WithRunner(&fakeRunner{}))
	err := b.Add(filepath.Join(t.TempDir(), "does_not_exist.png"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
	if len(b.Files()) != 0 {
		t.Error("builder state changed on failed Add")
	}
}

func TestAddIsAtomic(t *testing.T) {
	b := New(WithRunner(&fakeRunner{}))
	existing := writePNGs(t, t.TempDir(), 1)
	err := b.Add(existing[0], "missing.png")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
	if len(b.Files()) != 0 {
		t.Error("partial Add applied; want none")
	}
}

func TestInGrid(t *testing.T) {
	tests := []struct {
		name     string
		files    int
		w, h     int
		wantCode errors.Code
	}{
		{"exact fit", 4, 2, 2, ""},
		{"one empty cell", 3, 2, 2, ""},
		{"wide exact", 6, 3, 2, ""},
		{"one empty trailing row", 4, 2, 3, ""},
		{"too small", 4, 1, 3, errors.ErrCodeInvalidGrid},
		{"too small single", 2, 1, 1, errors.ErrCodeInvalidGrid},
		{"too big rows", 4, 2, 4, errors.ErrCodeInvalidGrid},
		{"too big cols", 4, 4, 2, errors.ErrCodeInvalidGrid},
		{"zero width", 4, 0, 4, errors.ErrCodeInvalidGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, _ := newTestBuilder(t, tt.files)
			err := b.InGrid(tt.w, tt.h)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("InGrid(%d,%d) error = %v, want nil", tt.w, tt.h, err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("InGrid(%d,%d) code = %v, want %v", tt.w, tt.h, errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestInGridBeforeFiles(t *testing.T) {
	b := New(WithRunner(&fakeRunner{}))
	if err := b.InGrid(2, 2); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestWithLabelsAuto(t *testing.T) {
	b, _, _ := newTestBuilder(t, 4)
	if err := b.WithLabels(); err != nil {
		t.Fatalf("WithLabels() error = %v", err)
	}
	want := []string{"(a)", "(b)", "(c)", "(d)"}
	got := b.Labels()
	if len(got) != len(want) {
		t.Fatalf("got %d labels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWithLabelsMismatch(t *testing.T) {
	b, _, _ := newTestBuilder(t, 4)
	err := b.WithLabels("only one")
	if !errors.Is(err, errors.ErrCodeInvalidLabels) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidLabels)
	}
}

func TestUsingMergesOptions(t *testing.T) {
	b, _, _ := newTestBuilder(t, 1)

	if err := b.Using(WithFontSize(42)); err != nil {
		t.Fatalf("Using() error = %v", err)
	}
	if err := b.Using(WithGravity(SouthEast)); err != nil {
		t.Fatalf("Using() error = %v", err)
	}

	got := b.Text()
	if got.FontSize != 42 {
		t.Errorf("FontSize = %d, want 42 (second Using must not reset it)", got.FontSize)
	}
	if got.Gravity != SouthEast {
		t.Errorf("Gravity = %q, want %q", got.Gravity, SouthEast)
	}
	// Untouched fields keep their defaults.
	if got.Font != "Times-New-Roman" || got.Color != "black" {
		t.Errorf("unspecified options changed: font=%q color=%q", got.Font, got.Color)
	}
}

func TestUsingRejectsInvalid(t *testing.T) {
	b, _, _ := newTestBuilder(t, 1)
	before := b.Text()

	if err := b.Using(WithGravity(Gravity("upperleft"))); !errors.Is(err, errors.ErrCodeInvalidGravity) {
		t.Errorf("gravity error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGravity)
	}
	if err := b.Using(WithFontSize(-1)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("fontsize error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
	if b.Text() != before {
		t.Error("options changed by rejected Using call")
	}
}

func TestSaveBeforeGrid(t *testing.T) {
	b, _, _ := newTestBuilder(t, 4)
	err := b.Save(context.Background(), filepath.Join(t.TempDir(), "out.png"), 0)
	if !errors.Is(err, errors.ErrCodeInvalidGrid) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGrid)
	}
}

func TestSaveOutputDirMissing(t *testing.T) {
	b, _, _ := newTestBuilder(t, 4)
	if err := b.InGrid(2, 2); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "second_level", "out.png")
	err := b.Save(context.Background(), out, 0)
	if !errors.Is(err, errors.ErrCodeDirNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeDirNotFound)
	}
}

func TestSaveToolMissing(t *testing.T) {
	r := &fakeRunner{probeErr: fmt.Errorf("exec: magick: not found")}
	b := New(WithRunner(r))
	if err := b.Add(writePNGs(t, t.TempDir(), 2)...); err != nil {
		t.Fatal(err)
	}
	if err := b.InGrid(2, 1); err != nil {
		t.Fatal(err)
	}

	err := b.Save(context.Background(), filepath.Join(t.TempDir(), "out.png"), 0)
	if !errors.Is(err, errors.ErrCodeToolMissing) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeToolMissing)
	}
}

func TestSavePipeline(t *testing.T) {
	b, r, files := newTestBuilder(t, 4)
	if err := b.InGrid(2, 2); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "out.png")
	if err := b.Save(context.Background(), out, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// 4 label calls, 2 row appends, 1 final composite.
	if len(r.calls) != 7 {
		t.Fatalf("got %d tool calls, want 7", len(r.calls))
	}

	for i := 0; i < 4; i++ {
		call := r.calls[i]
		if call[0] != files[i] {
			t.Errorf("label call %d input = %q, want %q", i, call[0], files[i])
		}
		joined := strings.Join(call, " ")
		if !strings.Contains(joined, "-font Times-New-Roman") ||
			!strings.Contains(joined, "-pointsize 100") {
			t.Errorf("label call %d missing font args: %v", i, call)
		}
		wantDraw := fmt.Sprintf("gravity northwest fill black text 10,10 '(%c)'", 'a'+i)
		if call[6] != wantDraw {
			t.Errorf("label call %d draw = %q, want %q", i, call[6], wantDraw)
		}
	}

	for j := 0; j < 2; j++ {
		call := r.calls[4+j]
		if call[0] != "+append" {
			t.Errorf("row call %d starts with %q, want +append", j, call[0])
		}
		if len(call) != 4 {
			t.Errorf("row call %d has %d args, want 4 (+append in in out)", j, len(call))
		}
	}

	final := r.calls[6]
	if final[0] != "-append" {
		t.Errorf("final call starts with %q, want -append", final[0])
	}
	if final[len(final)-1] != out {
		t.Errorf("final output = %q, want %q", final[len(final)-1], out)
	}

	// Temporary intermediates are gone after Save.
	tmpDir := filepath.Dir(r.calls[0][len(r.calls[0])-1])
	if _, err := os.Stat(tmpDir); !os.IsNotExist(err) {
		t.Errorf("temporary directory %s still exists", tmpDir)
	}
}

func TestSaveDefaultsLabels(t *testing.T) {
	b, r, _ := newTestBuilder(t, 2)
	if err := b.InGrid(2, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(context.Background(), filepath.Join(t.TempDir(), "out.png"), 0); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(r.calls[0][6], "'(a)'") || !strings.Contains(r.calls[1][6], "'(b)'") {
		t.Errorf("auto labels not applied: %q, %q", r.calls[0][6], r.calls[1][6])
	}
}

func TestSavePartialLastRow(t *testing.T) {
	b, r, _ := newTestBuilder(t, 3)
	if err := b.InGrid(2, 2); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(context.Background(), filepath.Join(t.TempDir(), "out.png"), 0); err != nil {
		t.Fatal(err)
	}

	// 3 labels, 2 rows (second row has a single image), 1 composite.
	if len(r.calls) != 6 {
		t.Fatalf("got %d tool calls, want 6", len(r.calls))
	}
	secondRow := r.calls[4]
	if len(secondRow) != 3 {
		t.Errorf("short row call has %d args, want 3 (+append in out)", len(secondRow))
	}
}

func TestSaveDPI(t *testing.T) {
	b, r, _ := newTestBuilder(t, 2)
	if err := b.InGrid(2, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(context.Background(), filepath.Join(t.TempDir(), "out.png"), 300); err != nil {
		t.Fatal(err)
	}
	final := r.calls[len(r.calls)-1]
	joined := strings.Join(final, " ")
	if !strings.Contains(joined, "-density 300") {
		t.Errorf("final call missing density: %v", final)
	}
}

func TestSaveExtensionHandling(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"missing extension", "out", "out.png"},
		{"unknown extension", "out.bmp", "out.png"},
		{"jpeg passthrough", "out.jpg", "out.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, r, _ := newTestBuilder(t, 2)
			if err := b.InGrid(2, 1); err != nil {
				t.Fatal(err)
			}
			dir := t.TempDir()
			if err := b.Save(context.Background(), filepath.Join(dir, tt.output), 0); err != nil {
				t.Fatal(err)
			}
			final := r.calls[len(r.calls)-1]
			if got := final[len(final)-1]; got != filepath.Join(dir, tt.want) {
				t.Errorf("output = %q, want %q", got, filepath.Join(dir, tt.want))
			}
		})
	}
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	New(WithRunner(&fakeRunner{})).Help(&buf)

	out := buf.String()
	wantLines := []string{
		"To create images with labels:",
		`    magick in-a.png -font Times-New-Roman -pointsize 100 -draw "gravity northwest fill black text 10,10 '(a)'" a.png`,
		`    magick in-d.png -font Times-New-Roman -pointsize 100 -draw "gravity northwest fill black text 10,10 '(d)'" d.png`,
		"Then to combine them horizontally:",
		"    magick +append a.png b.png ab.png",
		"And finally stack them vertically:",
		"    magick -append ab.png cd.png out.png",
		"Optionally delete all temporary files:",
		"    rm a.png b.png c.png d.png ab.png cd.png",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("Help() output missing %q\ngot:\n%s", line, out)
		}
	}
}

func TestParseGravity(t *testing.T) {
	if g, err := ParseGravity("NorthWest"); err != nil || g != NorthWest {
		t.Errorf("ParseGravity(NorthWest) = %q, %v", g, err)
	}
	if _, err := ParseGravity("upperleft"); !errors.Is(err, errors.ErrCodeInvalidGravity) {
		t.Errorf("ParseGravity(upperleft) code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGravity)
	}
}

func TestMagickMajor(t *testing.T) {
	tests := []struct {
		version string
		want    int
	}{
		{"Version: ImageMagick 7.1.1-29 Q16-HDRI x86_64", 7},
		{"Version: ImageMagick 6.9.12-98 Q16 x86_64", 6},
		{"no version here", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := magickMajor(tt.version); got != tt.want {
			t.Errorf("magickMajor(%q) = %d, want %d", tt.version, got, tt.want)
		}
	}
}
