package filter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/oled"
)

// Display is a canvas that can be pushed to the panel.
type Display interface {
	Canvas
	Present() error
}

// Requester accepts new scenes.
type Requester interface {
	Request(Scene)
}

// Renderer owns the display and redraws it whenever a new scene is requested. Request may be
// called from any goroutine; only Run touches the display.
type Renderer struct {
	display Display

	mu        sync.Mutex
	scene     Scene
	requested bool
	shown     Scene
	hasShown  bool
	presented chan struct{}

	dirty  atomic.Bool
	wake   chan struct{}
	frames atomic.Uint64
}

// NewRenderer creates a renderer for display.
func NewRenderer(display Display) *Renderer {
	return &Renderer{
		display:   display,
		wake:      make(chan struct{}, 1),
		presented: make(chan struct{}),
	}
}

// Request asks for s to be drawn. Requesting the scene already on record is a no-op.
func (r *Renderer) Request(s Scene) {
	r.mu.Lock()
	if r.requested && r.scene == s {
		r.mu.Unlock()
		return
	}
	r.scene, r.requested = s, true
	r.mu.Unlock()

	r.dirty.Store(true)
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// forget drops s from the record so that requesting it again redraws it.
func (r *Renderer) forget(s Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scene == s {
		r.requested = false
	}
}

// Scene returns the most recently requested scene.
func (r *Renderer) Scene() Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scene
}

// WaitPresented blocks until s is the scene on the panel or ctx is done.
func (r *Renderer) WaitPresented(ctx context.Context, s Scene) error {
	for {
		r.mu.Lock()
		done := r.hasShown && r.shown == s
		presented := r.presented
		r.mu.Unlock()
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-presented:
		}
	}
}

// Frames is the number of frames presented so far.
func (r *Renderer) Frames() uint64 {
	return r.frames.Load()
}

// Run redraws the display until ctx is done. Transport errors are logged and the frame is
// dropped, and a later request of the same scene draws it again. A halted display stops the loop.
func (r *Renderer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.wake:
		}

		if !r.dirty.Swap(false) {
			continue
		}

		scene := r.Scene()
		Render(r.display, scene)
		if err := r.display.Present(); err != nil {
			if errors.Is(err, oled.ErrHalted) {
				return err
			}
			log.Warn().Err(err).Msg("filter: present failed")
			r.forget(scene)
			continue
		}
		r.frames.Add(1)
		r.mu.Lock()
		r.shown, r.hasShown = scene, true
		close(r.presented)
		r.presented = make(chan struct{})
		r.mu.Unlock()
		log.Debug().
			Uint8("width", scene.Width).
			Uint8("height", scene.Height).
			Uint8("level", scene.Level).
			Bool("filling", scene.Filling).
			Msg("filter: frame presented")
	}
}
