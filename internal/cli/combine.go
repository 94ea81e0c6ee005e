package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figstitch/pkg/combine"
)

// combineOpts holds the command-line flags for the combine command.
type combineOpts struct {
	output   string // output file path
	grid     string // grid shape as WxH
	labels   string // comma-separated label override
	font     string // label font name
	fontSize int    // label pointsize
	color    string // label color
	gravity  string // label anchor keyword
	pos      string // label offset as X,Y
	native   bool   // compose in-process instead of calling ImageMagick
	dpi      int    // density of the final composite
	dryRun   bool   // print the equivalent manual commands and exit
}

// combineCommand creates the combine command for stitching images into a
// labeled grid. Flag defaults come from the user config file, so a flag given
// on the command line always wins over the config.
func (c *CLI) combineCommand() *cobra.Command {
	cfg, err := loadConfig()
	if err != nil {
		c.Logger.Warn("ignoring malformed config file", "err", err)
	}

	opts := combineOpts{
		output:   cfg.Output,
		font:     cfg.Font,
		fontSize: cfg.FontSize,
		color:    cfg.Color,
		gravity:  cfg.Gravity,
		pos:      "10,10",
		native:   cfg.Native,
		dpi:      cfg.DPI,
	}

	cmd := &cobra.Command{
		Use:   "combine IMAGE...",
		Short: "Combine images into a labeled subfigure grid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCombine(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file (default output.png)")
	cmd.Flags().StringVarP(&opts.grid, "grid", "g", "", "grid shape as WxH, e.g. 2x2 (required)")
	cmd.Flags().StringVarP(&opts.labels, "labels", "l", "", "comma-separated labels (default alphabetic)")
	cmd.Flags().StringVar(&opts.font, "font", opts.font, "label font name")
	cmd.Flags().IntVar(&opts.fontSize, "fontsize", opts.fontSize, "label pointsize")
	cmd.Flags().StringVar(&opts.color, "color", opts.color, "label color")
	cmd.Flags().StringVar(&opts.gravity, "gravity", opts.gravity, "label anchor: northwest, north, northeast, ..., center")
	cmd.Flags().StringVar(&opts.pos, "pos", opts.pos, "label offset from the anchor as X,Y")
	cmd.Flags().BoolVar(&opts.native, "native", opts.native, "compose in-process instead of calling ImageMagick")
	cmd.Flags().IntVar(&opts.dpi, "dpi", opts.dpi, "density of the final composite")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the equivalent manual commands and exit")
	_ = cmd.MarkFlagRequired("grid")

	return cmd
}

// runCombine configures a builder from the flags and runs the pipeline.
func (c *CLI) runCombine(ctx context.Context, files []string, opts *combineOpts) error {
	logger := loggerFromContext(ctx)

	w, h, err := parseGrid(opts.grid)
	if err != nil {
		return err
	}
	x, y, err := parsePos(opts.pos)
	if err != nil {
		return err
	}
	gravity, err := combine.ParseGravity(opts.gravity)
	if err != nil {
		return err
	}

	builderOpts := []combine.BuilderOption{combine.WithLogger(logger)}
	if opts.native {
		builderOpts = append(builderOpts, combine.WithBackend(combine.BackendNative))
	}
	b := combine.New(builderOpts...)

	if err := b.Add(files...); err != nil {
		return err
	}
	if err := b.InGrid(w, h); err != nil {
		return err
	}
	if err := b.Using(
		combine.WithGravity(gravity),
		combine.WithPosition(x, y),
		combine.WithFont(opts.font),
		combine.WithFontSize(opts.fontSize),
		combine.WithColor(opts.color),
	); err != nil {
		return err
	}
	if opts.labels != "" {
		if err := b.WithLabels(splitLabels(opts.labels)...); err != nil {
			return err
		}
	}

	if opts.dryRun {
		b.Help(os.Stdout)
		return nil
	}

	prog := newProgress(logger)
	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Combining %d images", len(files)))
	sp.Start()

	if err := b.Save(ctx, opts.output, opts.dpi); err != nil {
		if sp.Cancelled() {
			sp.Stop()
			return context.Canceled
		}
		sp.StopWithError("Combine failed")
		return err
	}

	out := displayOutput(opts.output)
	sp.StopWithSuccess(fmt.Sprintf("Combined %d images into a %dx%d grid", len(files), w, h))
	printFile(out)
	prog.done(fmt.Sprintf("Wrote %s", out))
	return nil
}

// parseGrid parses the --grid flag, a WxH shape like "2x2".
func parseGrid(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		w, err = strconv.Atoi(strings.TrimSpace(ws))
		if err == nil {
			h, err = strconv.Atoi(strings.TrimSpace(hs))
		}
	}
	if !ok || err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q (expected WxH, e.g. 2x2)", s)
	}
	return w, h, nil
}

// parsePos parses the --pos flag, an offset pair like "10,10".
func parsePos(s string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if ok {
		x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err == nil {
			y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64)
		}
	}
	if !ok || err != nil {
		return 0, 0, fmt.Errorf("invalid position %q (expected X,Y, e.g. 10,10)", s)
	}
	return x, y, nil
}

// splitLabels splits the --labels flag into individual labels.
func splitLabels(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// displayOutput mirrors the builder's output defaulting for display purposes.
func displayOutput(output string) string {
	if output == "" {
		return "output.png"
	}
	if filepath.Ext(output) == "" {
		return output + ".png"
	}
	return output
}
