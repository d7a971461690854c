package bot

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func newTestPacer(cooldown time.Duration) (*Pacer, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewPacer(cooldown)
	p.now = clock.Now
	p.sleep = clock.Sleep
	return p, clock
}

func TestPacerWait(t *testing.T) {
	tests := []struct {
		name     string
		marked   bool
		elapsed  time.Duration
		expected []time.Duration
	}{
		{"first shot", false, 0, nil},
		{"right after a shot", true, 0, []time.Duration{2 * time.Second}},
		{"part way through", true, 1500 * time.Millisecond, []time.Duration{500 * time.Millisecond}},
		{"cooldown over", true, 3 * time.Second, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, clock := newTestPacer(2 * time.Second)
			if tt.marked {
				p.Mark()
			}
			clock.now = clock.now.Add(tt.elapsed)

			if err := p.Wait(context.Background()); err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
			if len(clock.slept) != len(tt.expected) {
				t.Fatalf("Wait() slept %v, expected %v", clock.slept, tt.expected)
			}
			for i := range tt.expected {
				if clock.slept[i] != tt.expected[i] {
					t.Errorf("Wait() slept %v, expected %v", clock.slept[i], tt.expected[i])
				}
			}
			if p.Remaining() != 0 {
				t.Errorf("Remaining() = %v after Wait, expected 0", p.Remaining())
			}
		})
	}
}

func TestPacerWaitCancelled(t *testing.T) {
	p, _ := newTestPacer(time.Second)
	p.Mark()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, expected %v", err, context.Canceled)
	}
}

func TestSleepCtx(t *testing.T) {
	if err := sleepCtx(context.Background(), 0); err != nil {
		t.Errorf("sleepCtx(0) error = %v", err)
	}
	if err := sleepCtx(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepCtx(1ms) error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepCtx() error = %v, expected %v", err, context.Canceled)
	}
}

func TestRoundOutcomeFailed(t *testing.T) {
	tests := []struct {
		outcome  RoundOutcome
		expected bool
	}{
		{RoundShot, false},
		{RoundNoTarget, false},
		{RoundCleared, false},
		{RoundNoSnapshot, true},
		{RoundMalformed, true},
		{RoundActuateFailed, true},
	}

	for _, tt := range tests {
		if got := tt.outcome.Failed(); got != tt.expected {
			t.Errorf("%v.Failed() = %v, expected %v", tt.outcome, got, tt.expected)
		}
	}
}
