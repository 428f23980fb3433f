package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/entrada/internal/config"
	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/projection"
	"github.com/roach88/entrada/internal/seed"
)

// ItemView is an item in command output.
type ItemView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OverlayView is the active overlay in command output.
type OverlayView struct {
	Type string   `json:"type"`
	Item ItemView `json:"item"`
	X    int64    `json:"x"`
	Y    int64    `json:"y"`
}

// ViewResult is the display projection in command output.
type ViewResult struct {
	Items   []ItemView   `json:"items"`
	Overlay *OverlayView `json:"overlay,omitempty"`
}

func newItemView(it ir.Item) ItemView {
	return ItemView{ID: string(it.ID), Name: it.Name}
}

func newViewResult(v projection.View) ViewResult {
	out := ViewResult{Items: make([]ItemView, len(v.Items))}
	for i, it := range v.Items {
		out.Items[i] = newItemView(it)
	}
	out.Overlay = newOverlayView(v.Overlay)
	return out
}

func newOverlayView(o ir.Overlay) *OverlayView {
	switch o := o.(type) {
	case ir.EditingItem:
		return &OverlayView{
			Type: ir.OverlayTypeEditingItem,
			Item: newItemView(o.Item),
			X:    o.Position.X,
			Y:    o.Position.Y,
		}
	default:
		return nil
	}
}

// writeViewText prints the list one item per line, IDs only when verbose.
func writeViewText(w io.Writer, v ViewResult, verbose bool) {
	if len(v.Items) == 0 {
		fmt.Fprintln(w, "  (no items)")
	}
	for i, it := range v.Items {
		if verbose {
			fmt.Fprintf(w, "%4d. %s  [%s]\n", i+1, it.Name, it.ID)
		} else {
			fmt.Fprintf(w, "%4d. %s\n", i+1, it.Name)
		}
	}
	if v.Overlay != nil {
		fmt.Fprintf(w, "Overlay: editing %q at (%d, %d)\n", v.Overlay.Item.Name, v.Overlay.X, v.Overlay.Y)
	}
}

// seedFlags override the seed section of the config.
type seedFlags struct {
	count  int
	prefix string
	ids    string
}

func (f *seedFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.count, "count", seed.DefaultCount, "number of seed items")
	cmd.Flags().StringVar(&f.prefix, "prefix", seed.DefaultPrefix, "seed item name prefix")
	cmd.Flags().StringVar(&f.ids, "ids", seed.GeneratorUUID, "seed id generator (uuid|sequential)")
}

// apply copies the flags the user set onto cfg.
func (f *seedFlags) apply(cmd *cobra.Command, cfg *config.SeedConfig) {
	if cmd.Flags().Changed("count") {
		cfg.Count = f.count
	}
	if cmd.Flags().Changed("prefix") {
		cfg.Prefix = f.prefix
	}
	if cmd.Flags().Changed("ids") {
		cfg.IDs = f.ids
	}
}

func buildSeed(cfg config.SeedConfig) (ir.AppState, error) {
	gen, err := seed.NewGenerator(cfg.IDs)
	if err != nil {
		return ir.AppState{}, err
	}
	return seed.Build(cfg.Count, cfg.Prefix, gen)
}
