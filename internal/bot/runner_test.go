package bot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/bot/mocks"
	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
)

func board() planner.Snapshot {
	return planner.Snapshot{
		Bubbles: []planner.Bubble{
			{X: 200, Y: 150, Radius: 25, HitCount: 2},
			{X: 300, Y: 200, Radius: 20, HitCount: 1},
			{X: 400, Y: 100, Radius: 30, HitCount: 3},
		},
		Shooter:  core.Pt(400, 500),
		PlayArea: core.NewRect(0, 0, 800, 600),
	}
}

func unreachable() planner.Snapshot {
	return planner.Snapshot{
		Bubbles:  []planner.Bubble{{X: 400, Y: 550, Radius: 20, HitCount: 1}},
		Shooter:  core.Pt(400, 300),
		PlayArea: core.NewRect(0, 0, 800, 600),
	}
}

func testConfig() config.RunnerConfig {
	return config.RunnerConfig{
		MaxRounds:          10,
		AimDistance:        200,
		MaxObserveFailures: 2,
		MaxIdleRounds:      1,
	}
}

func newRunner(t *testing.T, src bot.Source, act bot.Actuator, cfg config.RunnerConfig) *bot.Runner {
	t.Helper()
	p, err := planner.New(planner.DefaultConfig())
	if err != nil {
		t.Fatalf("planner.New() error = %v", err)
	}
	return bot.NewRunner(p, src, act, cfg, nil)
}

func TestStepShoots(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	act := mocks.NewMockActuator(ctrl)

	snap := board()
	src.EXPECT().Snapshot(gomock.Any()).Return(snap, nil)

	var got bot.Command
	act.EXPECT().Aim(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cmd bot.Command) error {
		got = cmd
		return nil
	})

	r := newRunner(t, src, act, testConfig())
	rep, err := r.Step(context.Background())
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if rep.Outcome != bot.RoundShot {
		t.Fatalf("Step() outcome = %v, expected %v", rep.Outcome, bot.RoundShot)
	}

	want := planner.AimPoint(snap.Shooter, rep.Shot.Angle, 200)
	if got.Aim != want {
		t.Errorf("Aim() point = %v, expected %v", got.Aim, want)
	}
	if got.Target != snap.Bubbles[1] {
		t.Errorf("Aim() target = %+v, expected %+v", got.Target, snap.Bubbles[1])
	}
	if got.Round != 1 || got.Shooter != snap.Shooter {
		t.Errorf("Aim() command = %+v", got)
	}
	if *rep.Command != got {
		t.Errorf("Report.Command = %+v, expected %+v", *rep.Command, got)
	}
}

func TestStepOutcomes(t *testing.T) {
	malformed := board()
	malformed.PlayArea.W = 0
	observeErr := errors.New("capture failed")

	tests := []struct {
		name     string
		snap     planner.Snapshot
		err      error
		expected bot.RoundOutcome
	}{
		{"observe failure", planner.Snapshot{}, observeErr, bot.RoundNoSnapshot},
		{"cleared", planner.Snapshot{Shooter: core.Pt(1, 1), PlayArea: core.NewRect(0, 0, 10, 10)}, nil, bot.RoundCleared},
		{"malformed", malformed, nil, bot.RoundMalformed},
		{"no target", unreachable(), nil, bot.RoundNoTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			src := mocks.NewMockSource(ctrl)
			act := mocks.NewMockActuator(ctrl)
			src.EXPECT().Snapshot(gomock.Any()).Return(tt.snap, tt.err)

			rep, err := newRunner(t, src, act, testConfig()).Step(context.Background())
			if err != nil {
				t.Fatalf("Step() error = %v", err)
			}
			if rep.Outcome != tt.expected {
				t.Errorf("Step() outcome = %v, expected %v", rep.Outcome, tt.expected)
			}
			if tt.expected == bot.RoundMalformed && !errors.Is(rep.Err, planner.ErrMalformedSnapshot) {
				t.Errorf("Step() err = %v, expected %v", rep.Err, planner.ErrMalformedSnapshot)
			}
			if tt.expected == bot.RoundNoSnapshot && !errors.Is(rep.Err, observeErr) {
				t.Errorf("Step() err = %v, expected %v", rep.Err, observeErr)
			}
		})
	}
}

func TestStepActuatorFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	act := mocks.NewMockActuator(ctrl)

	aimErr := errors.New("pointer unavailable")
	src.EXPECT().Snapshot(gomock.Any()).Return(board(), nil)
	act.EXPECT().Aim(gomock.Any(), gomock.Any()).Return(aimErr)

	rep, err := newRunner(t, src, act, testConfig()).Step(context.Background())
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if rep.Outcome != bot.RoundActuateFailed || !errors.Is(rep.Err, aimErr) {
		t.Errorf("Step() = %v / %v, expected %v / %v", rep.Outcome, rep.Err, bot.RoundActuateFailed, aimErr)
	}
}

func TestStepCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	act := mocks.NewMockActuator(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src.EXPECT().Snapshot(gomock.Any()).Return(planner.Snapshot{}, ctx.Err())

	_, err := newRunner(t, src, act, testConfig()).Step(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Step() error = %v, expected %v", err, context.Canceled)
	}
}

func TestRunStops(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(src *mocks.MockSource, act *mocks.MockActuator)
		wantErr error
		rounds  int
		shots   int
		cleared bool
	}{
		{
			name: "round limit",
			setup: func(src *mocks.MockSource, act *mocks.MockActuator) {
				src.EXPECT().Snapshot(gomock.Any()).Return(board(), nil).Times(10)
				act.EXPECT().Aim(gomock.Any(), gomock.Any()).Return(nil).Times(10)
			},
			rounds: 10,
			shots:  10,
		},
		{
			name: "board cleared",
			setup: func(src *mocks.MockSource, act *mocks.MockActuator) {
				gomock.InOrder(
					src.EXPECT().Snapshot(gomock.Any()).Return(board(), nil),
					src.EXPECT().Snapshot(gomock.Any()).Return(planner.Snapshot{PlayArea: core.NewRect(0, 0, 800, 600)}, nil),
				)
				act.EXPECT().Aim(gomock.Any(), gomock.Any()).Return(nil)
			},
			rounds:  2,
			shots:   1,
			cleared: true,
		},
		{
			name: "observation failures",
			setup: func(src *mocks.MockSource, act *mocks.MockActuator) {
				src.EXPECT().Snapshot(gomock.Any()).Return(planner.Snapshot{}, errors.New("no window")).Times(3)
			},
			wantErr: bot.ErrObserveFailures,
			rounds:  3,
		},
		{
			name: "idle rounds",
			setup: func(src *mocks.MockSource, act *mocks.MockActuator) {
				src.EXPECT().Snapshot(gomock.Any()).Return(unreachable(), nil).Times(2)
			},
			wantErr: bot.ErrIdle,
			rounds:  2,
		},
		{
			name: "a shot resets the failure count",
			setup: func(src *mocks.MockSource, act *mocks.MockActuator) {
				fail := errors.New("flicker")
				gomock.InOrder(
					src.EXPECT().Snapshot(gomock.Any()).Return(planner.Snapshot{}, fail).Times(2),
					src.EXPECT().Snapshot(gomock.Any()).Return(board(), nil),
					src.EXPECT().Snapshot(gomock.Any()).Return(planner.Snapshot{}, fail).Times(2),
					src.EXPECT().Snapshot(gomock.Any()).Return(board(), nil),
					src.EXPECT().Snapshot(gomock.Any()).Return(planner.Snapshot{PlayArea: core.NewRect(0, 0, 800, 600)}, nil),
				)
				act.EXPECT().Aim(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
			rounds:  7,
			shots:   2,
			cleared: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			src := mocks.NewMockSource(ctrl)
			act := mocks.NewMockActuator(ctrl)
			tt.setup(src, act)

			sum, err := newRunner(t, src, act, testConfig()).Run(context.Background())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, expected %v", err, tt.wantErr)
			}
			if sum.Rounds != tt.rounds || sum.Shots != tt.shots || sum.Cleared != tt.cleared {
				t.Errorf("Run() = %+v, expected rounds=%d shots=%d cleared=%v",
					sum, tt.rounds, tt.shots, tt.cleared)
			}
		})
	}
}

func TestRunWritesDebugFrames(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	act := mocks.NewMockActuator(ctrl)
	src.EXPECT().Snapshot(gomock.Any()).Return(board(), nil).Times(2)
	act.EXPECT().Aim(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	cfg := testConfig()
	cfg.MaxRounds = 2
	cfg.Debug = true
	cfg.DebugDir = filepath.Join(t.TempDir(), "frames")

	r := newRunner(t, src, act, cfg)
	r.Frame = func(snap planner.Snapshot, shot *planner.Shot, distance int) string {
		if shot == nil {
			return "none"
		}
		return shot.Kind.String()
	}

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, name := range []string{"round_001.txt", "round_002.txt"} {
		data, err := os.ReadFile(filepath.Join(cfg.DebugDir, name))
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", name, err)
		}
		if string(data) != "direct" {
			t.Errorf("%s = %q, expected %q", name, data, "direct")
		}
	}
}

func TestLogActuatorNeverFails(t *testing.T) {
	var act bot.LogActuator
	if err := act.Aim(context.Background(), bot.Command{Round: 1}); err != nil {
		t.Errorf("LogActuator.Aim() error = %v", err)
	}
}
