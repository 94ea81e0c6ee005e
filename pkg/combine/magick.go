package combine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/figstitch/pkg/observability"
)

// expectedMagickMajor is the ImageMagick major version the pipeline is
// exercised against. Older majors (the legacy `convert` entry point) still
// work but log a warning.
const expectedMagickMajor = 7

// Runner abstracts invocations of the external image tool so the pipeline
// can be tested without ImageMagick installed.
type Runner interface {
	// Probe verifies the tool is invokable and returns its version line.
	Probe(ctx context.Context) (string, error)

	// Run invokes the tool with the given arguments, blocking until it
	// exits. A non-zero exit returns an error carrying the tool's stderr.
	Run(ctx context.Context, args ...string) error
}

// magickRunner shells out to ImageMagick. It prefers the v7 `magick` entry
// point and falls back to the legacy `convert`.
type magickRunner struct {
	mu  sync.Mutex
	bin string
}

// NewMagickRunner returns the default ImageMagick runner. Binary lookup is
// deferred until the first Probe or Run.
func NewMagickRunner() Runner {
	return &magickRunner{}
}

func (r *magickRunner) lookup() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bin != "" {
		return r.bin, nil
	}
	for _, name := range []string{"magick", "convert"} {
		if _, err := exec.LookPath(name); err == nil {
			r.bin = name
			return name, nil
		}
	}
	return "", fmt.Errorf("neither `magick` nor `convert` found in PATH. Install ImageMagick:\n  macOS:  brew install imagemagick\n  Linux:  apt install imagemagick")
}

// Probe runs `--version` and returns the first output line, e.g.
// "Version: ImageMagick 7.1.1-29 Q16-HDRI x86_64".
func (r *magickRunner) Probe(ctx context.Context) (string, error) {
	bin, err := r.lookup()
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--version")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s --version: %w", bin, err)
	}

	line, _, _ := strings.Cut(out.String(), "\n")
	return strings.TrimSpace(line), nil
}

// Run invokes the tool and captures stderr for error reporting.
func (r *magickRunner) Run(ctx context.Context, args ...string) error {
	bin, err := r.lookup()
	if err != nil {
		return err
	}

	start := time.Now()
	observability.Tool().OnInvoke(ctx, bin, args)

	var errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &errBuf

	err = cmd.Run()
	observability.Tool().OnResult(ctx, bin, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s: %v: %s", bin, err, strings.TrimSpace(errBuf.String()))
	}
	return nil
}

var magickVersionRe = regexp.MustCompile(`ImageMagick (\d+)\.`)

// magickMajor extracts the major version from a Probe result, or 0 when the
// version cannot be determined.
func magickMajor(version string) int {
	m := magickVersionRe.FindStringSubmatch(version)
	if m == nil {
		return 0
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return major
}
