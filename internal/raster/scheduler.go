package raster

// FrameScheduler is the "run once on next frame" primitive. Implementations
// decide when a requested draw actually executes.
type FrameScheduler interface {
	Request(draw func())
}

// Immediate executes each requested draw synchronously. Used by the offline
// renderer, where there is no frame loop to wait for.
type Immediate struct{}

// Request runs the draw immediately.
func (Immediate) Request(draw func()) {
	draw()
}

// Coalescer collapses a burst of redraw requests (pan, zoom and resize often
// fire together) into a single draw executed on the next Flush. Redundant
// requests between flushes replace the pending draw rather than queueing.
//
// Coalescer follows the single-threaded event-loop model of the rendering
// core; it is not safe for concurrent use.
type Coalescer struct {
	pending func()
}

// Request records the draw to run on the next Flush, superseding any draw
// already pending.
func (c *Coalescer) Request(draw func()) {
	c.pending = draw
}

// Flush runs the pending draw, if any, exactly once.
func (c *Coalescer) Flush() {
	if c.pending == nil {
		return
	}
	draw := c.pending
	c.pending = nil
	draw()
}

// Pending reports whether a draw is waiting for the next Flush.
func (c *Coalescer) Pending() bool {
	return c.pending != nil
}
