package bot

import (
	"context"
	"time"
)

// Pacer enforces a minimum interval between shots.
type Pacer struct {
	Cooldown time.Duration

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
	last  time.Time
}

// NewPacer creates a pacer with the given cooldown.
func NewPacer(cooldown time.Duration) *Pacer {
	return &Pacer{
		Cooldown: cooldown,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Remaining returns how long Wait would block right now.
func (p *Pacer) Remaining() time.Duration {
	if p.last.IsZero() {
		return 0
	}
	left := p.Cooldown - p.now().Sub(p.last)
	if left < 0 {
		return 0
	}
	return left
}

// Wait blocks until the cooldown since the last Mark has elapsed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	left := p.Remaining()
	if left == 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, left)
}

// Mark records that a shot was just taken.
func (p *Pacer) Mark() {
	p.last = p.now()
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
