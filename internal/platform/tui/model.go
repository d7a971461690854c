package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

// Rows reserved below the board for the status and help lines.
const footerHeight = 2

const defaultAutoInterval = 400 * time.Millisecond

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// WatchOptions configures a WatchModel.
type WatchOptions struct {
	Runner      *bot.Runner
	Source      bot.Source    // Observed on start and after a reset
	Reset       func()        // Restarts the game; nil disables the key
	AimDistance int           // Aim ray length in play area pixels
	Interval    time.Duration // Delay between autoplay steps
	Context     context.Context

	// ScreenshotDir receives plain-text frames on ctrl+s. Empty disables it.
	ScreenshotDir string
}

// stepMsg carries the result of one runner step.
type stepMsg struct {
	report bot.Report
	err    error
}

// observeMsg carries a fresh board observation.
type observeMsg struct {
	snap planner.Snapshot
	err  error
}

// WatchModel is the Bubble Tea model that steps the bot and draws the board.
type WatchModel struct {
	opts   WatchOptions
	ctx    context.Context
	screen *core.Screen
	keys   WatchKeyMap
	help   help.Model

	snap     planner.Snapshot
	shot     *planner.Shot
	last     *bot.Report
	shots    int
	auto     bool
	stepping bool
	err      error
	quitting bool
}

// NewWatchModel creates a viewer sized width x height.
func NewWatchModel(opts WatchOptions, width, height int) WatchModel {
	if opts.Interval <= 0 {
		opts.Interval = defaultAutoInterval
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return WatchModel{
		opts:   opts,
		ctx:    ctx,
		screen: core.NewScreen(max(width, 3), max(height-footerHeight, 3)),
		keys:   DefaultWatchKeyMap(),
		help:   help.New(),
	}
}

// WatchRunnerConfig strips the wall-clock pacing from cfg; the viewer paces
// steps itself.
func WatchRunnerConfig(cfg config.RunnerConfig) config.RunnerConfig {
	cfg.ShotCooldown = 0
	cfg.SettleDelay = 0
	cfg.RetryDelay = 0
	cfg.IdleDelay = 0
	cfg.Debug = false
	return cfg
}

// Init observes the board.
func (m WatchModel) Init() tea.Cmd {
	return m.observeCmd()
}

func (m WatchModel) observeCmd() tea.Cmd {
	src, ctx := m.opts.Source, m.ctx
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		snap, err := src.Snapshot(ctx)
		return observeMsg{snap: snap, err: err}
	}
}

func (m WatchModel) stepCmd() tea.Cmd {
	runner, ctx := m.opts.Runner, m.ctx
	return func() tea.Msg {
		rep, err := runner.Step(ctx)
		return stepMsg{report: rep, err: err}
	}
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(max(msg.Width, 3), max(msg.Height-footerHeight, 3))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.auto || m.stepping {
			return m, nil
		}
		m.stepping = true
		return m, m.stepCmd()

	case stepMsg:
		return m.handleStep(msg)

	case observeMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
			m.shot = nil
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Step):
		if m.stepping {
			return m, nil
		}
		m.stepping = true
		return m, m.stepCmd()

	case key.Matches(msg, m.keys.Auto):
		m.auto = !m.auto
		if m.auto && !m.stepping {
			return m, tickCmd(m.opts.Interval)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		if m.opts.Reset == nil {
			return m, nil
		}
		m.opts.Reset()
		m.shots = 0
		m.last = nil
		m.shot = nil
		m.auto = false
		return m, m.observeCmd()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case msg.String() == "ctrl+s":
		m.err = m.saveScreenshot()
		return m, nil
	}

	return m, nil
}

func (m WatchModel) handleStep(msg stepMsg) (tea.Model, tea.Cmd) {
	m.stepping = false
	if msg.err != nil {
		m.err = msg.err
		m.auto = false
		return m, nil
	}

	rep := msg.report
	m.last = &rep
	m.err = rep.Err
	if rep.Outcome != bot.RoundNoSnapshot {
		m.snap = rep.Snapshot
		m.shot = rep.Shot
	}

	switch rep.Outcome {
	case bot.RoundShot:
		m.shots++
	case bot.RoundCleared:
		m.auto = false
		return m, nil
	}
	return m, m.nextTick()
}

func (m WatchModel) nextTick() tea.Cmd {
	if !m.auto {
		return nil
	}
	return tickCmd(m.opts.Interval)
}

// saveScreenshot writes the current board as plain text.
func (m WatchModel) saveScreenshot() error {
	if m.opts.ScreenshotDir == "" {
		return nil
	}
	if err := os.MkdirAll(m.opts.ScreenshotDir, 0o755); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.opts.ScreenshotDir, fmt.Sprintf("board_%s.txt", timestamp))
	frame := DebugFrame(m.snap, m.shot, m.opts.AimDistance)
	if err := os.WriteFile(path, []byte(frame+"\n"), 0o600); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	return nil
}

// View renders the current state to a string for display.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	RenderBoard(m.screen, m.snap, m.shot, m.opts.AimDistance)
	return RenderScreen(m.screen) + "\n" + m.statusLine() + "\n" + m.help.View(m.keys)
}

func (m WatchModel) statusLine() string {
	outcome := "-"
	if m.last != nil {
		outcome = m.last.Outcome.String()
	}
	auto := "off"
	if m.auto {
		auto = "on"
	}

	status := statusStyle.Render(fmt.Sprintf("round %d | %s | shots %d | bubbles %d | auto %s",
		m.opts.Runner.Round(), outcome, m.shots, len(m.snap.Bubbles), auto))
	if m.err != nil {
		status += " " + errorStyle.Render(m.err.Error())
	}
	return status
}

// Shots returns how many shots the viewer has fired.
func (m WatchModel) Shots() int {
	return m.shots
}

// Auto reports whether autoplay is on.
func (m WatchModel) Auto() bool {
	return m.auto
}

// Snapshot returns the board on display.
func (m WatchModel) Snapshot() planner.Snapshot {
	return m.snap
}

// Run starts the viewer in the current terminal.
func Run(model WatchModel) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
