package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mkvtomp4/convert"
)

// ErrBusy is returned by Start while a conversion is still running.
var ErrBusy = errors.New("a conversion is already running")

const idleProgressLabel = "0% | 00:00"

// State is the controller's interaction state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Converter runs one conversion to completion. *convert.Runner implements it.
type Converter interface {
	Run(ctx context.Context, req convert.Request, progress func(convert.Tick)) convert.Outcome
}

// View renders what the controller decides. All methods are called on the
// UI thread.
type View interface {
	SetStartEnabled(enabled bool)
	SetProgress(percent float64, label string)
	ShowValidation(message string)
	ShowOutcome(outcome convert.Outcome)
}

type event interface {
	apply(c *Controller)
}

type progressEvent struct {
	tick convert.Tick
}

type outcomeEvent struct {
	outcome convert.Outcome
}

// Controller owns the Idle/Running state machine. Start must be called on
// the UI thread; worker results reach the controller only as events handed
// to post, which runs them on the UI thread.
type Controller struct {
	ctx    context.Context
	conv   Converter
	view   View
	post   func(func())
	logger *slog.Logger

	state   State
	percent float64
}

// NewController wires conv to view. post schedules a function on the UI
// thread (fyne.Do in the application).
func NewController(ctx context.Context, conv Converter, view View, post func(func()), logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		ctx:    ctx,
		conv:   conv,
		view:   view,
		post:   post,
		logger: logger,
	}
}

// State reports the current state. Call it on the UI thread.
func (c *Controller) State() State {
	return c.state
}

// Start validates the paths and, when they are usable, launches the
// conversion in the background. Invalid input is surfaced through the view
// and returned; the controller stays Idle.
func (c *Controller) Start(inputPath, outputPath string) error {
	if c.state == Running {
		return ErrBusy
	}

	req := convert.Request{InputPath: inputPath, OutputPath: outputPath}
	if err := req.Validate(); err != nil {
		reason := err.Error()
		var inputErr *convert.InputError
		if errors.As(err, &inputErr) {
			reason = inputErr.Reason
		}
		c.view.ShowValidation(reason)
		return err
	}

	c.state = Running
	c.percent = 0
	c.view.SetStartEnabled(false)
	c.view.SetProgress(0, progressLabel(0, 0))
	c.logger.Debug("conversion queued", "input", inputPath, "output", outputPath)

	events := make(chan event, 16)
	go func() {
		defer close(events)
		outcome := c.conv.Run(c.ctx, req, func(tick convert.Tick) {
			events <- progressEvent{tick: tick}
		})
		events <- outcomeEvent{outcome: outcome}
	}()
	go c.pump(events)

	return nil
}

func (c *Controller) pump(events <-chan event) {
	for ev := range events {
		c.post(func() {
			ev.apply(c)
		})
	}
}

func (e progressEvent) apply(c *Controller) {
	if c.state != Running {
		return
	}
	pct := e.tick.Percent
	if pct < c.percent {
		pct = c.percent
	}
	if pct > 100 {
		pct = 100
	}
	c.percent = pct
	c.view.SetProgress(pct, progressLabel(pct, e.tick.Elapsed))
}

func (e outcomeEvent) apply(c *Controller) {
	c.state = Idle
	c.percent = 0
	c.view.SetProgress(0, idleProgressLabel)
	c.view.SetStartEnabled(true)
	c.view.ShowOutcome(e.outcome)
}

// progressLabel renders "NN% | MM:SS / ?". The total is unknown.
func progressLabel(percent float64, elapsed time.Duration) string {
	return fmt.Sprintf("%d%% | %s / ?", int(percent), formatClock(elapsed))
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	seconds := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
