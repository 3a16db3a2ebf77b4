package otp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/krancour/resman/internal/forms"
	"github.com/krancour/resman/sdk/authx"
	"github.com/krancour/resman/sdk/meta"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/clock"
)

const (
	// CodeLength is the number of digits in a one-time code.
	CodeLength = 6
	// DefaultResendCooldown is how long after a code is issued before another
	// may be requested.
	DefaultResendCooldown = 120 * time.Second
)

var (
	// ErrClosed is returned by operations on a Controller that has been
	// closed. A result that arrives after Close is discarded and the caller
	// receives ErrClosed instead.
	ErrClosed = errors.New("challenge is closed")
	// ErrBusy is returned when a submit or resend is attempted while another
	// request for the same challenge is still in flight.
	ErrBusy = errors.New("a request for this challenge is already in flight")
	// ErrComplete is returned by operations on a challenge that has already
	// been verified.
	ErrComplete = errors.New("challenge is already verified")
)

// State is a snapshot of a challenge, suitable for display.
type State struct {
	HashedID string
	// Contact is the address the code was sent to.
	Contact string
	Code    string
	// Remaining is the number of whole seconds before resend is allowed.
	Remaining int
	Busy      bool
	Complete  bool
}

// CanSubmit returns true if the entered code may be submitted. This depends
// only on the code itself and whether a request is in flight; the countdown
// plays no part.
func (s State) CanSubmit() bool {
	return !s.Busy && !s.Complete && validCode(s.Code)
}

// CanResend returns true if a new code may be requested.
func (s State) CanResend() bool {
	return !s.Busy && !s.Complete && s.Remaining == 0
}

// ControllerConfig represents optional configuration for a Controller.
type ControllerConfig struct {
	// ResendCooldown overrides DefaultResendCooldown when positive.
	ResendCooldown time.Duration
	// Clock drives the countdown. The real clock is used when nil.
	Clock clock.Clock
}

// Controller manages one challenge: entry of a code, its submission and the
// countdown gating a resend. At most one submit or resend is in flight at any
// time. It is safe for use by multiple goroutines.
type Controller struct {
	verifier authx.VerificationsClient
	clock    clock.Clock
	cooldown time.Duration

	hashedID  string
	contact   string
	code      string
	remaining int
	busy      bool
	complete  bool
	closed    bool

	// countdownGen identifies the live countdown. A tick from any other
	// generation is ignored.
	countdownGen uint64
	stopCh       chan struct{}
	updatesCh    chan State
	mu           sync.Mutex
}

// NewController returns a Controller for a code that has just been issued to
// the specified contact address. The countdown starts immediately.
func NewController(
	verifier authx.VerificationsClient,
	hashedID string,
	contact string,
	config *ControllerConfig,
) *Controller {
	if config == nil {
		config = &ControllerConfig{}
	}
	c := &Controller{
		verifier:  verifier,
		clock:     config.Clock,
		cooldown:  config.ResendCooldown,
		hashedID:  hashedID,
		contact:   contact,
		updatesCh: make(chan State, 1),
	}
	if c.clock == nil {
		c.clock = clock.RealClock{}
	}
	if c.cooldown <= 0 {
		c.cooldown = DefaultResendCooldown
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restartCountdown()
	return c
}

// SetCode replaces the entered code with the digits of input, truncated to
// CodeLength. Anything other than a digit is discarded. It returns the code
// as accepted.
func (c *Controller) SetCode(input string) string {
	code := strings.Map(
		func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		},
		input,
	)
	if len(code) > CodeLength {
		code = code[:CodeLength]
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.complete {
		return c.code
	}
	c.code = code
	c.publish()
	return code
}

// State returns a snapshot of the challenge.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

// Updates returns a channel on which the latest State is delivered whenever
// it changes. Intermediate states may be skipped by a slow reader. The
// channel is never closed.
func (c *Controller) Updates() <-chan State {
	return c.updatesCh
}

// Submit sends the entered code for verification. A code that is not exactly
// CodeLength digits is rejected with a *meta.ErrValidation and nothing is
// sent. On failure the challenge remains open for another attempt.
func (c *Controller) Submit(ctx context.Context) (authx.Verification, error) {
	c.mu.Lock()
	if err := c.checkIdle(); err != nil {
		c.mu.Unlock()
		return authx.Verification{}, err
	}
	if err := forms.Validate(codeForm{Code: c.code}); err != nil {
		c.mu.Unlock()
		return authx.Verification{}, err
	}
	hashedID, code := c.hashedID, c.code
	c.busy = true
	c.publish()
	c.mu.Unlock()

	verification, err := c.verifier.Verify(ctx, hashedID, code)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if c.closed {
		return authx.Verification{}, ErrClosed
	}
	if err != nil {
		c.publish()
		return authx.Verification{}, err
	}
	c.complete = true
	c.stopCountdown()
	c.publish()
	return verification, nil
}

// Resend requests a new code. It is refused while the countdown is running.
// On success the entered code is cleared and the countdown restarts from the
// full cooldown.
func (c *Controller) Resend(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkIdle(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.remaining > 0 {
		remaining := c.remaining
		c.mu.Unlock()
		return &meta.ErrValidation{
			Field: "code",
			Reason: fmt.Sprintf(
				"You can request a new code in %d seconds.",
				remaining,
			),
		}
	}
	hashedID := c.hashedID
	c.busy = true
	c.publish()
	c.mu.Unlock()

	err := c.verifier.Resend(ctx, hashedID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.publish()
		return err
	}
	c.code = ""
	c.restartCountdown()
	return nil
}

// Close stops the countdown. Any request still in flight is allowed to finish
// but its result is discarded. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopCountdown()
}

type codeForm struct {
	Code string `form:"code" validate:"required,len=6,number" message:"Please enter the 6-digit code."`
}

func validCode(code string) bool {
	return forms.Validate(codeForm{Code: code}) == nil
}

func (c *Controller) checkIdle() error {
	switch {
	case c.closed:
		return ErrClosed
	case c.complete:
		return ErrComplete
	case c.busy:
		return ErrBusy
	}
	return nil
}

func (c *Controller) state() State {
	return State{
		HashedID:  c.hashedID,
		Contact:   c.contact,
		Code:      c.code,
		Remaining: c.remaining,
		Busy:      c.busy,
		Complete:  c.complete,
	}
}

// publish replaces whatever undelivered State is buffered with the current
// one. The caller must hold the lock.
func (c *Controller) publish() {
	select {
	case <-c.updatesCh:
	default:
	}
	c.updatesCh <- c.state()
}

// restartCountdown cancels any running countdown and starts a new one from the
// full cooldown. The caller must hold the lock.
func (c *Controller) restartCountdown() {
	c.stopCountdown()
	c.countdownGen++
	c.remaining = int(c.cooldown / time.Second)
	c.stopCh = make(chan struct{})
	go c.countdown(c.countdownGen, c.clock.NewTicker(time.Second), c.stopCh)
	c.publish()
}

// stopCountdown cancels the running countdown, if any. The caller must hold
// the lock.
func (c *Controller) stopCountdown() {
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}
	c.countdownGen++
}

func (c *Controller) countdown(
	gen uint64,
	ticker clock.Ticker,
	stopCh <-chan struct{},
) {
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C():
			if !c.tick(gen) {
				return
			}
		case <-stopCh:
			return
		}
	}
}

// tick decrements the countdown of the specified generation and returns
// whether that countdown should keep running.
func (c *Controller) tick(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.countdownGen {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
		c.publish()
	}
	return c.remaining > 0
}
