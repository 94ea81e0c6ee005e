// Package pkg provides the core libraries for figstitch figure assembly.
//
// # Overview
//
// Figstitch turns individually rendered figures into publication-ready
// subfigure grids, each panel stamped with an alphabetic label. The pkg
// directory is organized into:
//
//  1. [style] - Publication figure presets (sizes, fonts, line widths)
//  2. [figure] - Native multi-panel composition of gonum/plot plots
//  3. [combine] - Grid assembly of pre-rendered image files
//  4. [labels] - Alphabetic subfigure label generation
//
// # Quick Start
//
// Combine four rendered figures into a labeled 2x2 grid:
//
//	b := combine.New()
//	if err := b.Add("a.png", "b.png", "c.png", "d.png"); err != nil { ... }
//	if err := b.InGrid(2, 2); err != nil { ... }
//	if err := b.Save(ctx, "grid.png", 0); err != nil { ... }
//
// Style a plot with a preset and render it at publication size:
//
//	var p style.Params
//	rect, _ := style.Dynamo(&p, 1, style.Thin)
//	p.Apply(plt)
//	canvas := p.Canvas()
//
// # Main Packages
//
// [style] - Named parameter presets (dynamo, article-thick, poster, talk)
// derived from a golden-ratio base figure, applied to explicit Params values.
//
// [figure] - Grid geometry for multi-panel figures and in-process composition
// of gonum/plot plots onto a single canvas with panel labels.
//
// [combine] - Builder that stitches image files into a grid, driving
// ImageMagick through a label/append/composite pipeline or composing
// natively in pure Go.
//
// [labels] - Bijective base-26 label sequence: (a), (b), ..., (z), (aa), ...
//
// [errors] - Structured error codes shared across the packages.
//
// [observability] - Optional hooks for pipeline stage and tool invocation
// events.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// [style]: https://pkg.go.dev/github.com/matzehuels/figstitch/pkg/style
// [figure]: https://pkg.go.dev/github.com/matzehuels/figstitch/pkg/figure
// [combine]: https://pkg.go.dev/github.com/matzehuels/figstitch/pkg/combine
// [labels]: https://pkg.go.dev/github.com/matzehuels/figstitch/pkg/labels
// [errors]: https://pkg.go.dev/github.com/matzehuels/figstitch/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/figstitch/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/figstitch/pkg/buildinfo
package pkg
