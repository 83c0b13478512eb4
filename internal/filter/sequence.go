package filter

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultInterval is the time between two fill steps.
const DefaultInterval = 500 * time.Millisecond

// Sequence raises the liquid level one row per tick.
type Sequence struct {
	clock    clockwork.Clock
	interval time.Duration
}

// NewSequence creates a fill sequence; a nil clock uses the real clock and a zero interval
// uses DefaultInterval.
func NewSequence(clock clockwork.Clock, interval time.Duration) *Sequence {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sequence{
		clock:    clock,
		interval: interval,
	}
}

// Run fills an empty container of the scene's size up to maxFill, requesting a redraw for
// every step. It returns the final scene once full, or the scene so far when ctx is done.
func (s *Sequence) Run(ctx context.Context, r Requester, scene Scene, maxFill uint8) (Scene, error) {
	scene.Level, scene.Filling = 0, true
	r.Request(scene)
	if maxFill == 0 {
		return scene, nil
	}

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return scene, ctx.Err()
		case <-ticker.Chan():
		}

		scene.Level++
		r.Request(scene)
		if scene.Level >= maxFill {
			log.Info().Uint8("level", scene.Level).Msg("filter: container full")
			return scene, nil
		}
	}
}
