package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
	"github.com/vovakirdan/bubblebot/internal/sim"
)

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestWatch(t *testing.T, dir string) WatchModel {
	t.Helper()

	snap := planner.Snapshot{
		Bubbles: []planner.Bubble{
			{X: 400, Y: 100, Radius: 30, HitCount: 2},
			{X: 400, Y: 300, Radius: 20, HitCount: 1},
		},
		Shooter:  core.Pt(400, 500),
		PlayArea: core.NewRect(0, 0, 800, 600),
	}
	game := sim.NewFromSnapshot(snap, planner.DefaultPhysics(), 0)

	p, err := planner.New(planner.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	cfg := WatchRunnerConfig(config.DefaultBotConfig().Runner)
	runner := bot.NewRunner(p, game, game, cfg, nil)

	return NewWatchModel(WatchOptions{
		Runner:        runner,
		Source:        game,
		Reset:         game.Reset,
		AimDistance:   200,
		ScreenshotDir: dir,
	}, 80, 24)
}

// send runs msg through the model and feeds the resulting command's message
// back once.
func send(t *testing.T, m WatchModel, msg tea.Msg) (WatchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(WatchModel), cmd
}

func drain(t *testing.T, m WatchModel, cmd tea.Cmd) WatchModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	m, _ = send(t, m, cmd())
	return m
}

func TestWatchRunnerConfig(t *testing.T) {
	cfg := config.DefaultBotConfig().Runner
	cfg.Debug = true

	got := WatchRunnerConfig(cfg)
	if got.ShotCooldown != 0 || got.SettleDelay != 0 || got.RetryDelay != 0 || got.IdleDelay != 0 || got.Debug {
		t.Errorf("WatchRunnerConfig() = %+v, expected no pacing", got)
	}
	if got.AimDistance != cfg.AimDistance {
		t.Errorf("AimDistance = %d, expected %d", got.AimDistance, cfg.AimDistance)
	}
}

func TestWatchStepAndReset(t *testing.T) {
	m := newTestWatch(t, "")
	m = drain(t, m, m.Init())
	if got := len(m.Snapshot().Bubbles); got != 2 {
		t.Fatalf("initial board = %d bubbles, expected 2", got)
	}

	m, cmd := send(t, m, keyMsg('n'))
	if cmd == nil {
		t.Fatal("step key returned no command")
	}
	m = drain(t, m, cmd)
	if m.Shots() != 1 {
		t.Errorf("Shots() = %d, expected 1", m.Shots())
	}
	if m.View() == "" {
		t.Error("View() is empty")
	}

	m, cmd = send(t, m, keyMsg('r'))
	m = drain(t, m, cmd)
	if m.Shots() != 0 {
		t.Errorf("Shots() after reset = %d, expected 0", m.Shots())
	}
	if got := len(m.Snapshot().Bubbles); got != 2 {
		t.Errorf("board after reset = %d bubbles, expected 2", got)
	}
}

func TestWatchKeys(t *testing.T) {
	m := newTestWatch(t, "")

	m, cmd := send(t, m, keyMsg('a'))
	if !m.Auto() || cmd == nil {
		t.Errorf("autoplay key: Auto() = %v, cmd = %v", m.Auto(), cmd)
	}
	m, _ = send(t, m, keyMsg('a'))
	if m.Auto() {
		t.Error("second autoplay key did not stop autoplay")
	}

	m, _ = send(t, m, keyMsg('?'))
	if !m.help.ShowAll {
		t.Error("help key did not expand help")
	}

	_, cmd = send(t, m, keyMsg('q'))
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key did not quit")
	}
}

func TestWatchTickIgnoredWithoutAutoplay(t *testing.T) {
	m := newTestWatch(t, "")

	m, cmd := send(t, m, TickMsg{})
	if cmd != nil || m.stepping {
		t.Error("tick stepped the bot with autoplay off")
	}
}

func TestWatchScreenshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	m := newTestWatch(t, dir)
	m = drain(t, m, m.Init())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.err != nil {
		t.Fatalf("screenshot error = %v", m.err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("screenshot dir has %d files, expected 1", len(entries))
	}
}
