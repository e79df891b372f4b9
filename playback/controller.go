package playback

import (
	"sync"
	"time"
)

// State is the coarse mode of the controller.
type State string

const (
	StateIdle    State = "idle"    // no trace, or trace is empty
	StatePaused  State = "paused"  // trace loaded, not advancing
	StatePlaying State = "playing" // autoplay scheduler active
)

// Autoplay speed bounds. SetSpeed clamps into [MinSpeed, MaxSpeed].
const (
	MinSpeed     = 200 * time.Millisecond
	MaxSpeed     = 2000 * time.Millisecond
	DefaultSpeed = 1000 * time.Millisecond
)

// AdvanceFunc is invoked, outside the controller lock, after every index
// change and after the autonomous auto-pause at the last step. frame is
// nil only for the auto-pause notification when the trace was replaced
// concurrently (which the epoch guard prevents in practice).
type AdvanceFunc func(frame *Frame, state State)

// Controller owns the playback position over a TraceStore: current step
// index, play/pause flag, and autoplay speed. All operations clamp or
// no-op instead of failing; no operation on the controller errors.
//
// Autoplay runs one goroutine per play episode. The episode is tied to
// an epoch counter checked under the lock at every tick, so a timer that
// outlives a pause, reset, or reload can never advance a discarded
// trace. Every path that leaves Playing closes the episode's stop
// channel, cancelling the in-flight wait deterministically.
type Controller struct {
	mu     sync.Mutex
	trace  *TraceStore
	index  int
	speed  time.Duration
	epoch  uint64
	stop   chan struct{} // non-nil exactly while Playing
	notify AdvanceFunc
}

// NewController returns a controller in the Idle state. notify may be
// nil.
func NewController(notify AdvanceFunc) *Controller {
	return &Controller{
		trace:  NewTraceStore(nil),
		speed:  DefaultSpeed,
		notify: notify,
	}
}

// Load replaces the current trace wholesale, resets the index to 0 and
// stops autoplay. An empty (or nil) trace is allowed: the controller
// becomes Idle and every navigation operation turns into a no-op.
func (c *Controller) Load(trace *TraceStore) {
	if trace == nil {
		trace = NewTraceStore(nil)
	}
	c.mu.Lock()
	c.haltLocked()
	c.trace = trace
	c.index = 0
	c.mu.Unlock()
}

// Reset rewinds to the first step and stops autoplay.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.haltLocked()
	c.index = 0
	frame, notify := c.frameLocked(), c.notify
	c.mu.Unlock()
	if notify != nil && frame != nil {
		notify(frame, c.State())
	}
}

// StepForward advances one step. At the last step it is a no-op; while
// Playing it pauses first so manual navigation never races the autoplay
// tick.
func (c *Controller) StepForward() {
	c.mu.Lock()
	c.haltLocked()
	if c.index < c.trace.Len()-1 {
		c.index++
	}
	frame, notify := c.frameLocked(), c.notify
	c.mu.Unlock()
	if notify != nil && frame != nil {
		notify(frame, c.State())
	}
}

// StepBackward moves one step back, pausing first; a no-op at index 0.
func (c *Controller) StepBackward() {
	c.mu.Lock()
	c.haltLocked()
	if c.index > 0 {
		c.index--
	}
	frame, notify := c.frameLocked(), c.notify
	c.mu.Unlock()
	if notify != nil && frame != nil {
		notify(frame, c.State())
	}
}

// TogglePlay flips between Paused and Playing. Toggling play at the last
// step is allowed: the first tick observes the boundary and auto-pauses.
// In Idle this is a no-op.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	if c.trace.Len() == 0 {
		c.mu.Unlock()
		return
	}
	if c.stop != nil {
		c.haltLocked()
		c.mu.Unlock()
		return
	}
	c.epoch++
	stop := make(chan struct{})
	c.stop = stop
	epoch := c.epoch
	wait := c.speed
	c.mu.Unlock()
	go c.playLoop(epoch, stop, wait)
}

// SetSpeed clamps d into [MinSpeed, MaxSpeed]. The new speed takes
// effect on the next scheduled tick; an in-flight wait is not shortened.
func (c *Controller) SetSpeed(d time.Duration) {
	if d < MinSpeed {
		d = MinSpeed
	}
	if d > MaxSpeed {
		d = MaxSpeed
	}
	c.mu.Lock()
	c.speed = d
	c.mu.Unlock()
}

// Speed returns the current autoplay interval.
func (c *Controller) Speed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Index returns the current step index. It is meaningful only when the
// trace is non-empty.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// State reports Idle, Paused or Playing.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.trace.Len() == 0 {
		return StateIdle
	}
	if c.stop != nil {
		return StatePlaying
	}
	return StatePaused
}

// IsPlaying reports whether the autoplay scheduler is active.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// Frame projects the current step, or nil in Idle.
func (c *Controller) Frame() *Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameLocked()
}

// Close stops autoplay. The controller stays usable; Close exists so a
// hosting view being torn down has an explicit cancellation path.
func (c *Controller) Close() {
	c.mu.Lock()
	c.haltLocked()
	c.mu.Unlock()
}

// haltLocked leaves the Playing state: it bumps the epoch so any ticked
// timer becomes a no-op and closes the episode's stop channel to cancel
// the in-flight wait. Callers hold c.mu.
func (c *Controller) haltLocked() {
	c.epoch++
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Controller) frameLocked() *Frame {
	return Project(c.trace, c.index)
}

// playLoop is the autoplay scheduler: wake every speed interval, advance
// one step, auto-pause at the last step. The epoch comparison under the
// lock is what makes a stale wake-up harmless.
func (c *Controller) playLoop(epoch uint64, stop chan struct{}, wait time.Duration) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		c.mu.Lock()
		if c.epoch != epoch {
			c.mu.Unlock()
			return
		}
		if c.index >= c.trace.Len()-1 {
			// Sole autonomous transition: Playing -> Paused at the end.
			c.epoch++
			c.stop = nil
			frame, notify := c.frameLocked(), c.notify
			c.mu.Unlock()
			if notify != nil {
				notify(frame, StatePaused)
			}
			return
		}
		c.index++
		frame, notify := c.frameLocked(), c.notify
		wait = c.speed
		c.mu.Unlock()

		if notify != nil {
			notify(frame, StatePlaying)
		}
		timer.Reset(wait)
	}
}
