package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-mastering/dsp/eq"
	"github.com/cwbudde/algo-mastering/engine"
)

// PresetsCmd lists the built-in presets.
type PresetsCmd struct{}

// Run implements the presets command.
func (c *PresetsCmd) Run(*Globals) error {
	fmt.Println(titleStyle.Render("Built-in presets"))
	fmt.Println(subtitleStyle.Render("Band gains in dB, applied to both channels"))
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := make([]string, 0, eq.NumBands+1)
	header = append(header, "name")
	for _, key := range eq.Keys {
		header = append(header, string(key))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, p := range engine.Presets {
		row := make([]string, 0, eq.NumBands+1)
		row = append(row, p.Name)
		for _, key := range eq.Keys {
			row = append(row, fmt.Sprintf("%+.1f", p.Bands[key]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}
