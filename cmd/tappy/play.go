package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tappy/internal/core"
	"github.com/vovakirdan/tui-tappy/internal/platform/tui"
)

var (
	flagLogFile string
	flagDebug   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Tappy Plane",
	Long: `Start a game in the current terminal.

Controls:
  Space/Up/W     - Flap (hold the mouse button for a continuous climb)
  F3             - Toggle loop statistics
  Ctrl+S         - Save a screenshot to ~/.arcade/screenshots
  Q/Esc/Ctrl+C   - Quit

The terminal is taken over by the game, so logs only go to --log-file.

Examples:
  tappy play
  tappy play --seed 42
  tappy play --log-file tappy.log --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	playCmd.Flags().BoolVar(&flagDebug, "debug", false, "Show loop statistics from the start")
}

func runPlay(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadConfig()
	if err != nil {
		return err
	}
	lvl, err := logLevel()
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if flagLogFile != "" {
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			return fmt.Errorf("open log file: %w", openErr)
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "tappy",
		Level:           lvl,
	})

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	err = tui.Run(tui.Options{
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Game:   gameCfg,
		Assets: assetProvider(),
		Logger: logger,
		Debug:  flagDebug,
	})
	if err != nil {
		logger.Error("game stopped", "error", err)
		return err
	}
	return nil
}
