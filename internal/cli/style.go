package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figstitch/pkg/style"
)

// presetDescriptions maps preset names to one-line summaries for the list view.
var presetDescriptions = map[string]string{
	"dynamo":        "half-column revtex figures (base preset)",
	"article-thick": "8cm article column with thicker lines",
	"poster":        "12.5cm wide poster figures",
	"talk":          "figures for 16:9 beamer slides",
}

// styleCommand creates the style command for inspecting publication presets.
func (c *CLI) styleCommand() *cobra.Command {
	var cols int
	var weight string

	cmd := &cobra.Command{
		Use:       "style [preset]",
		Short:     "Show publication style presets",
		Long:      `Show the available publication style presets, or the resolved figure parameters of a single preset.`,
		ValidArgs: style.Names(),
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				runStyleList()
				return nil
			}
			return runStyleShow(args[0], cols, style.LineWeight(weight))
		},
	}

	cmd.Flags().IntVar(&cols, "cols", 1, "column span: 1 or 2 (dynamo preset only)")
	cmd.Flags().StringVar(&weight, "weight", "thin", "line weight: thin or thick (dynamo preset only)")

	return cmd
}

// runStyleList prints the available presets with short descriptions.
func runStyleList() {
	fmt.Println(StyleTitle.Render("Available presets"))
	for _, name := range style.Names() {
		printKeyValue(name, presetDescriptions[name])
	}
}

// runStyleShow resolves a preset and prints its parameter table.
func runStyleShow(name string, cols int, weight style.LineWeight) error {
	var p style.Params
	rect, err := style.ApplyPreset(&p, name, cols, weight)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(name))
	printKeyValue("figure size", fmt.Sprintf("%.2f\" x %.2f\"", p.FigWidth, p.FigHeight))
	printKeyValue("dpi", fmt.Sprintf("%g (save %g)", p.DPI, p.SaveDPI))
	printKeyValue("font", fmt.Sprintf("%s %gpt", p.Font, p.FontSize))
	printKeyValue("label size", fmt.Sprintf("%gpt", p.LabelSize))
	printKeyValue("legend size", fmt.Sprintf("%gpt", p.LegendSize))
	printKeyValue("line width", fmt.Sprintf("%gpt", p.LineWidth))
	printKeyValue("marker size", fmt.Sprintf("%gpt", p.MarkerSize))
	printKeyValue("axes line width", fmt.Sprintf("%gpt", p.AxesLineWidth))
	printKeyValue("tick direction", string(p.TickDirection))
	printKeyValue("minor ticks", fmt.Sprintf("%t", p.MinorTicks))
	printKeyValue("ticks all sides", fmt.Sprintf("%t", p.TicksAllSides))
	if rect != (style.Rect{}) {
		printKeyValue("axes rect", fmt.Sprintf("[%.3f, %.3f, %.3f, %.3f]", rect.X0, rect.Y0, rect.W, rect.H))
	}
	return nil
}
