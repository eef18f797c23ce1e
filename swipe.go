package vlist

import "github.com/rs/zerolog"

const (
	// swipeBeginDistance is the horizontal movement in pixels that starts a
	// drag, provided it exceeds the vertical movement.
	swipeBeginDistance = 10
	// swipeCancelDistance is the vertical movement in pixels that cancels a
	// drag.
	swipeCancelDistance = 40
	// DefaultSwipeActionDistance is the horizontal displacement in pixels
	// that commits a swipe action.
	DefaultSwipeActionDistance = 150
)

// SwipeConfig wires the external swipe actions and the visual spacer hooks.
// The action callbacks return an error to reject the action, in which case
// the row visually resets.
type SwipeConfig struct {
	SwipeLeft         func(e Entity) error
	SwipeRight        func(e Entity) error
	RenderLeftSpacer  func()
	RenderRightSpacer func()
}

type swipePhase int

const (
	swipeIdle swipePhase = iota
	swipeDragging
	swipeCommitting
	// swipeCancelled latches an aborted gesture until the finger lifts, so
	// pointer wobble cannot restart the drag mid-touch.
	swipeCancelled
)

// SwipeController is a single-touch, two-state gesture recognizer bound to
// at most one pool row at a time. The tweening used to visualize the drag is
// owned by the render layer; the controller only translates the bound row's
// sink.
type SwipeController struct {
	cfg            SwipeConfig
	rowHeight      int
	actionDistance int

	// resolveRow maps a touch-start vertical pixel offset onto the current
	// pool layout.
	resolveRow func(y int) *VirtualRow

	phase          swipePhase
	startX, startY int
	row            *VirtualRow

	log zerolog.Logger
}

// NewSwipeController returns a controller invoking the configured actions at
// actionDistance (DefaultSwipeActionDistance if zero or negative).
func NewSwipeController(cfg SwipeConfig, rowHeight, actionDistance int, resolveRow func(y int) *VirtualRow) *SwipeController {
	if actionDistance <= 0 {
		actionDistance = DefaultSwipeActionDistance
	}
	return &SwipeController{
		cfg:            cfg,
		rowHeight:      rowHeight,
		actionDistance: actionDistance,
		resolveRow:     resolveRow,
		log:            zerolog.Nop(),
	}
}

// SetLogger sets the logger used for gesture diagnostics.
func (c *SwipeController) SetLogger(log zerolog.Logger) *SwipeController {
	c.log = log
	return c
}

// Dragging reports whether a drag gesture is in progress.
func (c *SwipeController) Dragging() bool {
	return c.phase == swipeDragging
}

// Enabled reports whether any swipe action is configured.
func (c *SwipeController) Enabled() bool {
	return c.cfg.SwipeLeft != nil || c.cfg.SwipeRight != nil
}

// TouchStart records the anchor point of a potential gesture.
func (c *SwipeController) TouchStart(x, y int) {
	if c.phase == swipeDragging || c.phase == swipeCommitting {
		return
	}
	c.phase = swipeIdle
	c.startX, c.startY = x, y
	c.row = nil
}

// TouchMove advances the gesture. Horizontal movement beyond the begin
// threshold that dominates vertical movement starts the drag; vertical
// movement beyond the cancel threshold resets it.
func (c *SwipeController) TouchMove(x, y int) {
	if !c.Enabled() || c.phase == swipeCommitting || c.phase == swipeCancelled {
		return
	}
	dx := x - c.startX
	dy := y - c.startY

	if c.phase == swipeIdle {
		if abs(dx) <= swipeBeginDistance || abs(dx) <= abs(dy) {
			return
		}
		row := c.resolveRow(c.startY)
		if row == nil || row.Entity() == nil {
			return
		}
		c.phase = swipeDragging
		c.row = row
		if c.cfg.RenderLeftSpacer != nil {
			c.cfg.RenderLeftSpacer()
		}
		if c.cfg.RenderRightSpacer != nil {
			c.cfg.RenderRightSpacer()
		}
	}

	if abs(dy) > swipeCancelDistance {
		c.reset()
		c.phase = swipeCancelled
		return
	}
	c.row.Sink().Translate(clampInt(dx, -c.actionDistance, c.actionDistance))
}

// TouchEnd finishes the gesture, committing the left or right action when
// the horizontal displacement crossed the action distance.
func (c *SwipeController) TouchEnd(x, y int) {
	if c.phase != swipeDragging {
		c.phase = swipeIdle
		return
	}
	dx := x - c.startX
	dy := y - c.startY
	if abs(dx) <= c.actionDistance || abs(dy) >= c.rowHeight {
		c.reset()
		return
	}

	c.phase = swipeCommitting
	row := c.row
	var err error
	if dx > 0 {
		if c.cfg.SwipeRight != nil {
			err = c.cfg.SwipeRight(row.Entity())
		}
	} else {
		if c.cfg.SwipeLeft != nil {
			err = c.cfg.SwipeLeft(row.Entity())
		}
	}
	if err != nil {
		c.log.Debug().Err(err).Str("id", row.Entity().EntityID()).Msg("swipe action rejected")
		row.Sink().Translate(0)
	}
	c.row = nil
	c.phase = swipeIdle
}

// TouchCancel aborts the gesture and resets the row.
func (c *SwipeController) TouchCancel() {
	c.reset()
}

func (c *SwipeController) reset() {
	if c.row != nil {
		c.row.Sink().Translate(0)
	}
	c.row = nil
	c.phase = swipeIdle
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
