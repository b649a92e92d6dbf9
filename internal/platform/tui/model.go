package tui

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tappy/internal/assets"
	"github.com/vovakirdan/tui-tappy/internal/config"
	"github.com/vovakirdan/tui-tappy/internal/core"
	"github.com/vovakirdan/tui-tappy/internal/engine"
	"github.com/vovakirdan/tui-tappy/internal/games/tappy"
)

// footerHeight is the number of rows below the play field.
const footerHeight = 1

// Options configures a game session.
type Options struct {
	Runtime core.RuntimeConfig
	Game    config.TappyConfig
	Assets  assets.Provider // nil means the embedded atlas
	Logger  *log.Logger     // nil discards output
	Debug   bool            // Start with loop statistics showing
}

// Model is the Bubble Tea model for one game session.
type Model struct {
	game    *tappy.Game
	loop    *engine.Loop
	screen  *core.Screen
	trigger *core.Trigger
	frames  *teaFrames
	keys    KeyMap
	help    help.Model
	log     *log.Logger

	holdWindow time.Duration
	debug      bool
	quitting   bool
}

// NewModel loads the game and starts its loop. The loop only advances when
// the returned model receives tick messages.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Runtime
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	screen := core.NewScreen(cfg.ScreenW, max(1, cfg.ScreenH-footerHeight))
	trigger := core.NewTrigger(nil)
	frames := newTeaFrames(cfg.TickRate, time.Now())

	game := tappy.New(tappy.Options{
		Config: opts.Game,
		Input:  trigger,
		Canvas: screen,
		Assets: opts.Assets,
		Sides:  rand.New(rand.NewSource(cfg.Seed)),
		Logger: logger,
	})

	loop, err := engine.Start(context.Background(), game, screen, frames,
		engine.WithTickRate(opts.Game.Loop.FramesPerSecond),
		engine.WithLogger(logger),
	)
	if err != nil {
		return Model{}, fmt.Errorf("tui: start game: %w", err)
	}
	logger.Info("session started", "width", cfg.ScreenW, "height", cfg.ScreenH, "seed", cfg.Seed)

	h := help.New()
	h.ShowAll = false

	return Model{
		game:       game,
		loop:       loop,
		screen:     screen,
		trigger:    trigger,
		frames:     frames,
		keys:       DefaultKeyMap(),
		help:       h,
		log:        logger,
		holdWindow: time.Duration(opts.Game.Input.HoldWindowMS) * time.Millisecond,
		debug:      opts.Debug,
	}, nil
}

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return m.frames.tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if pressed, ok := pointerEvent(msg); ok {
			if pressed {
				m.trigger.Press()
			} else {
				m.trigger.Release()
			}
		}
		return m, nil

	case tea.BlurMsg:
		// Losing focus counts as letting go, like a pointer leaving the canvas.
		m.trigger.Release()
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(1, msg.Height-footerHeight))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.frames.deliver(time.Time(msg))
		return m, m.frames.tickCmd()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionScreenshot:
		m.saveScreenshot()
	case core.ActionDebug:
		m.debug = !m.debug
	case core.ActionFlap:
		m.trigger.Latch(m.holdWindow)
	}
	return m, nil
}

// saveScreenshot saves the current screen to a file.
func (m Model) saveScreenshot() {
	home, err := os.UserHomeDir()
	if err != nil {
		m.log.Warn("screenshot skipped", "error", err)
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("tappy_%s.txt", timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("screenshot failed", "path", path, "error", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the last drawn frame and the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return RenderScreen(m.screen) + "\n" + m.statusLine()
}

// Run starts a local game session on the current terminal.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse press/release drives the trigger
		tea.WithReportFocus(),     // Focus loss releases the trigger
	)

	_, err = p.Run()
	return err
}
