package audio

import (
	"errors"
	"io"
	"sync"
)

// State is the playback controller state.
type State string

const (
	StateIdle    State = "idle"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

// Sink is the platform playback facility behind the controller. A real sink
// drives a speaker; tests substitute a fake.
type Sink interface {
	// Start begins playback of pcm from position zero and arranges for
	// done to be called exactly once if playback finishes naturally.
	Start(f Format, pcm []byte, done func()) error

	// Pause suspends playback, keeping position.
	Pause() error

	// Resume continues paused playback.
	Resume() error

	// Stop halts playback and discards position. A stopped playback must
	// not invoke its done callback.
	Stop() error
}

// Player owns at most one active playable resource at a time and tracks
// which logical message owns it. Starting playback of a different resource
// always stops and releases the previous one first.
type Player struct {
	mu       sync.Mutex
	sink     Sink
	state    State
	owner    string
	resource *Resource
	gen      uint64
}

// NewPlayer creates an idle playback controller over sink.
func NewPlayer(sink Sink) *Player {
	return &Player{sink: sink, state: StateIdle}
}

// Play starts res for ownerID. If ownerID already owns the currently paused
// resource, playback resumes in place; otherwise the active resource (if
// any) is stopped and released and res starts from position zero.
func (p *Player) Play(ownerID string, res *Resource) error {
	if ownerID == "" {
		return errors.New("owner id must not be empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePaused && p.owner == ownerID {
		// Resuming in place: a freshly decoded duplicate of the paused
		// resource is not needed and must not leak.
		if res != nil && res != p.resource {
			res.Close()
		}
		if err := p.sink.Resume(); err != nil {
			return err
		}
		p.state = StatePlaying
		return nil
	}

	p.stopLocked(res)
	if res == nil {
		return errors.New("resource must not be nil")
	}

	p.gen++
	gen := p.gen
	if err := p.sink.Start(res.Format(), res.PCM(), func() { p.completed(gen) }); err != nil {
		res.Close()
		return err
	}
	p.state = StatePlaying
	p.owner = ownerID
	p.resource = res
	return nil
}

// Toggle pauses or resumes playback for ownerID. A toggle from any other
// owner is a no-op.
func (p *Player) Toggle(ownerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.owner != ownerID {
		return nil
	}
	switch p.state {
	case StatePlaying:
		if err := p.sink.Pause(); err != nil {
			return err
		}
		p.state = StatePaused
	case StatePaused:
		if err := p.sink.Resume(); err != nil {
			return err
		}
		p.state = StatePlaying
	}
	return nil
}

// Stop halts playback from any state, releases the active resource, and
// resets to idle.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked(nil)
}

// State returns the current controller state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Owner returns the id of the message owning the active resource, or ""
// when idle.
func (p *Player) Owner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner
}

// Close stops playback and closes the sink when it supports closing.
func (p *Player) Close() error {
	p.Stop()
	if c, ok := p.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// stopLocked halts the sink, releases the active resource (unless it is
// keep, which is about to be restarted), and resets to idle. Bumping gen
// invalidates any in-flight completion callback.
func (p *Player) stopLocked(keep *Resource) {
	if p.state != StateIdle {
		_ = p.sink.Stop()
	}
	p.gen++
	if p.resource != nil && p.resource != keep {
		p.resource.Close()
	}
	p.resource = nil
	p.owner = ""
	p.state = StateIdle
}

// completed handles natural end of playback. Stale callbacks from a
// superseded start are ignored.
func (p *Player) completed(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	if p.resource != nil {
		p.resource.Close()
	}
	p.resource = nil
	p.owner = ""
	p.state = StateIdle
}
