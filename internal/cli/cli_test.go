package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// newTestRoot builds a root command writing cobra output to a buffer.
func newTestRoot(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var buf bytes.Buffer
	c := New(io.Discard, LogInfo)
	return c, &buf
}

// testImages writes n small PNG files and returns their paths.
func testImages(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := range paths {
		p := filepath.Join(dir, fmt.Sprintf("fig_%d.png", i))
		f, err := os.Create(p)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
		paths[i] = p
	}
	return paths
}

func TestRootCommandSubcommands(t *testing.T) {
	c, _ := newTestRoot(t)
	root := c.RootCommand()

	want := map[string]bool{"combine": false, "style": false, "completion": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCombineRequiresGrid(t *testing.T) {
	c, buf := newTestRoot(t)
	root := c.RootCommand()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"combine"}, testImages(t, 2)...))

	if err := root.Execute(); err == nil {
		t.Error("combine without --grid succeeded")
	}
}

func TestCombineDryRun(t *testing.T) {
	c, buf := newTestRoot(t)
	root := c.RootCommand()
	root.SetOut(buf)
	root.SetErr(buf)
	args := append([]string{"combine"}, testImages(t, 4)...)
	root.SetArgs(append(args, "--grid", "2x2", "--dry-run"))

	if err := root.Execute(); err != nil {
		t.Errorf("dry run failed: %v", err)
	}
}

func TestCombineRejectsBadGravity(t *testing.T) {
	c, buf := newTestRoot(t)
	root := c.RootCommand()
	root.SetOut(buf)
	root.SetErr(buf)
	args := append([]string{"combine"}, testImages(t, 2)...)
	root.SetArgs(append(args, "--grid", "2x1", "--gravity", "upperleft", "--dry-run"))

	if err := root.Execute(); err == nil {
		t.Error("invalid gravity accepted")
	}
}

func TestStyleCommand(t *testing.T) {
	c, buf := newTestRoot(t)
	root := c.RootCommand()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"style", "dynamo"})

	if err := root.Execute(); err != nil {
		t.Errorf("style dynamo failed: %v", err)
	}
}

func TestStyleCommandRejectsUnknownPreset(t *testing.T) {
	c, buf := newTestRoot(t)
	root := c.RootCommand()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"style", "journal"})

	if err := root.Execute(); err == nil {
		t.Error("unknown preset accepted")
	}
}
