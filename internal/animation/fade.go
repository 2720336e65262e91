package animation

import (
	"context"
	"time"

	"rdmx/internal/universe"
)

// Setter is the write side of universe.Channels.
type Setter interface {
	SetRange(r universe.Range, values ...byte) error
}

// Fade writes each frame of iv over seconds to r, one frame per clock tick.
// It returns once Finish is written or ctx is done.
func Fade(ctx context.Context, clock Clock, target Setter, r universe.Range, iv Interval, seconds float64) error {
	steps := Over(iv, seconds, clock)

	ticker := time.NewTicker(clock.FrameDuration())
	defer ticker.Stop()

	for {
		v, _ := steps.Next()
		if err := target.SetRange(r, Level(v)); err != nil {
			return err
		}
		if steps.Done() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// FadeFixture fades every channel of f through iv. Each frame is a
// separate write, so it must not run inside Universe.Batch with f bound to
// the universe; that deadlocks.
func FadeFixture(ctx context.Context, clock Clock, f *universe.Fixture, iv Interval, seconds float64) error {
	return Fade(ctx, clock, fixtureSetter{f}, f.Channels(), iv, seconds)
}

type fixtureSetter struct {
	f *universe.Fixture
}

func (fs fixtureSetter) SetRange(_ universe.Range, values ...byte) error {
	return fs.f.SetAll(values...)
}

// Wait blocks for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
