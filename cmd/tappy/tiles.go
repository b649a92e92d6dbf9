package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tappy/internal/assets"
	"github.com/vovakirdan/tui-tappy/internal/platform/tui"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "List the sprite atlas regions",
	Long: `Loads the sprite atlas (embedded, or from --assets) and prints every
named region with a one-row preview. Use it to check a custom atlas before
playing with it.`,
	Args: cobra.NoArgs,
	RunE: runTiles,
}

func runTiles(cmd *cobra.Command, _ []string) error {
	gameCfg, err := loadConfig()
	if err != nil {
		return err
	}

	atlas, err := assets.Load(context.Background(), assetProvider(), gameCfg.Assets.Atlas)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Atlas %s (%dx%d, image %s)\n\n",
		gameCfg.Assets.Atlas, atlas.Image.Width(), atlas.Image.Height(), atlas.Sheet.Image)
	fmt.Fprintln(cmd.OutOrStdout(), tui.TileTable(atlas))
	return nil
}
