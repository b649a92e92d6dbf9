// tappy is Tappy Plane for the terminal: keep the plane in the air and clear
// of the rocks.
//
// Usage:
//
//	tappy play               - Play in the current terminal
//	tappy serve              - Start SSH server for remote play
//	tappy tiles              - List the regions of the sprite atlas
//
// Global flags:
//
//	--fps <rate>       - Set frame rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible obstacle sides
//	--config <path>    - Load a custom tappy.yaml
//	--assets <dir>     - Load the sprite atlas from a directory
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tappy/internal/assets"
	"github.com/vovakirdan/tui-tappy/internal/config"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagConfig   string
	flagAssets   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tappy",
	Short: "Tappy Plane - fly between the rocks in your terminal",
	Long: `Tappy Plane is a one-button arcade game. Hold space or the mouse
button to climb, let go to fall, and stay clear of the rocks.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  tiles    - List the sprite atlas regions

Examples:
  tappy play
  tappy play --seed 42 --config ./tappy.yaml
  tappy serve --ssh :2222
  tappy tiles --assets ./my-atlas`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (draws per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagAssets, "assets", "", "Directory holding the sprite atlas (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tilesCmd)
}

// loadConfig resolves the game configuration from --config and the search path.
func loadConfig() (config.TappyConfig, error) {
	cfg, err := config.LoadTappy(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// assetProvider returns the atlas source selected by --assets.
func assetProvider() assets.Provider {
	if flagAssets == "" {
		return assets.Embedded()
	}
	return assets.NewFSProvider(os.DirFS(flagAssets))
}

// logLevel parses --log-level.
func logLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return lvl, nil
}
