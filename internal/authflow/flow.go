package authflow

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/krancour/resman/internal/notify"
	"github.com/krancour/resman/internal/otp"
	"github.com/krancour/resman/internal/session"
	"github.com/krancour/resman/sdk/authx"
	"github.com/krancour/resman/sdk/meta"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"k8s.io/apimachinery/pkg/util/clock"
)

// DefaultRedirectDelay is how long a Flow leaves its final message on display
// before navigating elsewhere.
const DefaultRedirectDelay = 2 * time.Second

// Step identifies which step of a Flow is active.
type Step string

const (
	// StepCollectingCredentials is the initial Step.
	StepCollectingCredentials Step = "CollectingCredentials"
	// StepCollectingEmail is the entry point of password recovery.
	StepCollectingEmail Step = "CollectingEmail"
	// StepAwaitingOtp means a Challenge is active.
	StepAwaitingOtp Step = "AwaitingOtp"
	// StepPasswordReset means a recovery code was verified and a new password
	// is wanted.
	StepPasswordReset Step = "PasswordReset"
	// StepDone means the login is verified. It is terminal.
	StepDone Step = "Done"
)

// Mode records why a Challenge was issued, and therefore where a successful
// verification leads.
type Mode string

const (
	// ModeLogin leads to StepDone.
	ModeLogin Mode = "login"
	// ModePasswordReset leads to StepPasswordReset.
	ModePasswordReset Mode = "password-reset"
	// ModeAccountVerification verifies an account whose login was refused. It
	// leads back to StepCollectingCredentials.
	ModeAccountVerification Mode = "account-verification"
)

// Destination is somewhere outside a Flow that it may send the user.
type Destination string

const (
	// DestinationHome is where a verified user lands.
	DestinationHome Destination = "home"
	// DestinationVerifyAccount is the entry point for verifying an account
	// whose login was refused because it is unverified.
	DestinationVerifyAccount Destination = "verify-account"
)

// Navigator moves the user to a Destination.
type Navigator interface {
	Navigate(Destination)
}

var (
	// ErrWrongStep is returned when an operation is attempted that the active
	// Step does not accept.
	ErrWrongStep = errors.New("operation is not available at this step")
	// ErrStale is returned when a step's result arrives after the Flow has
	// moved on or been closed. The result has been discarded.
	ErrStale = errors.New("step is no longer active")
)

// Config represents optional configuration for a Flow.
type Config struct {
	ResendCooldown time.Duration
	RedirectDelay  time.Duration
	Clock          clock.Clock
}

// Flow sequences credential verification, OTP verification and, when
// recovering a password, the password change. It owns which step is active;
// the steps themselves only talk to the API server. Outcomes are reported on
// a notify.Surface. A Flow is safe for use by multiple goroutines.
type Flow struct {
	id        string
	store     session.Store
	notices   notify.Surface
	navigator Navigator
	config    Config

	verificationsClient authx.VerificationsClient
	credentialVerifier  *CredentialVerifier
	recovery            *Recovery

	step      Step
	mode      Mode
	hashedID  string
	contact   string
	challenge *otp.Controller
	// unverifiedHashedID and unverifiedLogin describe the most recent login
	// refused because the account is unverified.
	unverifiedHashedID string
	unverifiedLogin    string
	// issuedToken is the token last issued by a verification in this Flow.
	issuedToken string
	// gen changes on every transition so that late results can be recognized.
	gen        uint64
	redirectCh chan struct{}
	closed     bool
	mu         sync.Mutex
}

// NewFlow returns a Flow at StepCollectingCredentials.
func NewFlow(
	apiClient authx.APIClient,
	store session.Store,
	notices notify.Surface,
	navigator Navigator,
	config *Config,
) *Flow {
	f := &Flow{
		id:                  uuid.NewV4().String(),
		store:               store,
		notices:             notices,
		navigator:           navigator,
		verificationsClient: apiClient.Verifications(),
		recovery:            NewRecovery(apiClient.Passwords()),
		step:                StepCollectingCredentials,
		mode:                ModeLogin,
	}
	if config != nil {
		f.config = *config
	}
	if f.config.Clock == nil {
		f.config.Clock = clock.RealClock{}
	}
	if f.config.RedirectDelay <= 0 {
		f.config.RedirectDelay = DefaultRedirectDelay
	}
	f.credentialVerifier = NewCredentialVerifier(
		apiClient.Sessions(),
		store,
		f.config.Clock,
	)
	return f
}

// ID returns an identifier for the Flow, used in diagnostics.
func (f *Flow) ID() string {
	return f.id
}

// Step returns the active Step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Mode returns the mode of the most recent Challenge.
func (f *Flow) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// HashedID returns the pending verification reference, if any.
func (f *Flow) HashedID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hashedID
}

// Contact returns the address the most recent code was sent to.
func (f *Flow) Contact() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contact
}

// Challenge returns the active Challenge, or nil unless the Step is
// StepAwaitingOtp.
func (f *Flow) Challenge() *otp.Controller {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.challenge
}

// SubmitCredentials verifies a login identifier and password. On success a
// code has been sent and the Flow awaits it. A refusal because the account is
// unverified additionally sends the user to DestinationVerifyAccount after
// the redirect delay.
func (f *Flow) SubmitCredentials(
	ctx context.Context,
	login string,
	password string,
) error {
	gen, err := f.begin(StepCollectingCredentials)
	if err != nil {
		return err
	}
	s, err := f.credentialVerifier.Verify(ctx, login, password)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err = f.settle(gen, err); err != nil {
		if meta.IsAccountUnverified(err) {
			f.logf("account %q is unverified", login)
			f.unverifiedLogin = login
			f.unverifiedHashedID = ""
			if rejected, ok := errors.Cause(err).(*meta.ErrRejected); ok {
				f.unverifiedHashedID = rejected.HashedID
			}
			f.scheduleNavigation(DestinationVerifyAccount)
		}
		return err
	}
	f.awaitOtp(ModeLogin, s.HashedID, s.Email)
	return nil
}

// VerifyAccount is the entry point for DestinationVerifyAccount. It requests a
// fresh code for the account whose login was most recently refused as
// unverified and awaits it in ModeAccountVerification.
func (f *Flow) VerifyAccount(ctx context.Context) error {
	gen, err := f.begin(StepCollectingCredentials)
	if err != nil {
		return err
	}
	f.mu.Lock()
	hashedID, login := f.unverifiedHashedID, f.unverifiedLogin
	f.mu.Unlock()
	if hashedID == "" {
		err = &meta.ErrValidation{
			Reason: "There is no account awaiting verification. Please log in.",
		}
	} else {
		err = f.verificationsClient.Resend(ctx, hashedID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err = f.settle(gen, err); err != nil {
		return err
	}
	f.unverifiedHashedID = ""
	f.unverifiedLogin = ""
	f.cancelNavigation()
	f.awaitOtp(ModeAccountVerification, hashedID, login)
	return nil
}

// ResumeVerification re-enters StepAwaitingOtp for a login whose Session was
// stored but never verified. No new code is requested; one can be had with a
// resend once the countdown allows.
func (f *Flow) ResumeVerification(ctx context.Context) error {
	gen, err := f.begin(StepCollectingCredentials)
	if err != nil {
		return err
	}
	s, err := f.store.Read(ctx)
	if err == nil && (s == nil || s.HashedID == "") {
		err = &meta.ErrValidation{
			Reason: "There is no login awaiting verification. Please log in.",
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err = f.settle(gen, err); err != nil {
		return err
	}
	f.awaitOtp(ModeLogin, s.HashedID, s.Email)
	return nil
}

// StartRecovery moves from StepCollectingCredentials to StepCollectingEmail.
func (f *Flow) StartRecovery() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrStale
	}
	if f.step != StepCollectingCredentials {
		return ErrWrongStep
	}
	f.transition(StepCollectingEmail)
	return nil
}

// SubmitEmail requests a password recovery code for the specified address.
// On success the Flow awaits the code in ModePasswordReset.
func (f *Flow) SubmitEmail(ctx context.Context, email string) error {
	gen, err := f.begin(StepCollectingEmail)
	if err != nil {
		return err
	}
	hashedID, err := f.recovery.Request(ctx, email)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err = f.settle(gen, err); err != nil {
		return err
	}
	f.awaitOtp(ModePasswordReset, hashedID, email)
	return nil
}

// SubmitCode submits the code entered into the active Challenge. If the code
// is refused the Challenge remains active. If it is accepted but the token
// cannot be attached to the stored Session, the Flow returns to
// StepCollectingCredentials.
func (f *Flow) SubmitCode(ctx context.Context) error {
	gen, challenge, err := f.beginChallenge()
	if err != nil {
		return err
	}
	verification, err := challenge.Submit(ctx)
	if err = challengeError(err); err == ErrStale || err == otp.ErrBusy {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err = f.settle(gen, err); err != nil {
		return err
	}
	switch f.mode {
	case ModePasswordReset:
		f.transition(StepPasswordReset)
		f.notices.Success("Code verified. Please choose a new password.")
		return nil
	case ModeAccountVerification:
		f.hashedID = ""
		f.mode = ModeLogin
		f.transition(StepCollectingCredentials)
		f.notices.Success("Your account has been verified. Please log in.")
		return nil
	}
	s, err := f.store.Update(
		ctx,
		session.Patch{Token: session.String(verification.Token)},
	)
	if err == nil && s == nil {
		err = errors.New("no stored session to attach verification token to")
	}
	if err != nil {
		// The code has been spent, so only a new login can get another.
		f.logf("step %s failed: %s", f.step, err)
		f.hashedID = ""
		f.transition(StepCollectingCredentials)
		f.notices.Error("Your login could not be saved. Please log in again.")
		return errors.Wrap(err, "error attaching token to session")
	}
	f.issuedToken = verification.Token
	f.transition(StepDone)
	if verification.Message == "" {
		verification.Message = "Your account has been verified."
	}
	f.notices.Success(verification.Message)
	f.scheduleNavigation(DestinationHome)
	return nil
}

// ResendCode requests a new code for the active Challenge.
func (f *Flow) ResendCode(ctx context.Context) error {
	gen, challenge, err := f.beginChallenge()
	if err != nil {
		return err
	}
	if err = challengeError(challenge.Resend(ctx)); err == ErrStale ||
		err == otp.ErrBusy {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err = f.settle(gen, err); err != nil {
		return err
	}
	f.notices.Info(fmt.Sprintf("A new code has been sent to %s.", f.contact))
	return nil
}

// ChangePassword sets a new password once a recovery code has been verified.
// On success the Flow returns to StepCollectingCredentials so the user can log
// in with the new password. Whenever the change does not succeed, the
// password fields of the form are cleared.
func (f *Flow) ChangePassword(ctx context.Context, form *PasswordForm) error {
	gen, err := f.begin(StepPasswordReset)
	if err != nil {
		form.Clear()
		return err
	}
	err = f.recovery.ChangePassword(ctx, f.HashedID(), form)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err = f.settle(gen, err); err != nil {
		form.Clear()
		return err
	}
	f.hashedID = ""
	f.mode = ModeLogin
	f.transition(StepCollectingCredentials)
	f.notices.Success(
		"Your password has been changed. Please log in with your new password.",
	)
	return nil
}

// Authorized returns true if the stored Session may be used for
// authorization-gated actions: it carries an identity and the token most
// recently issued by this Flow.
func (f *Flow) Authorized(ctx context.Context) (bool, error) {
	f.mu.Lock()
	issuedToken := f.issuedToken
	f.mu.Unlock()
	if issuedToken == "" {
		return false, nil
	}
	s, err := f.store.Read(ctx)
	if err != nil {
		return false, errors.Wrap(err, "error reading session")
	}
	return s != nil && s.Valid(issuedToken), nil
}

// Close ends the Flow. The active Challenge and any pending navigation are
// cancelled and results of requests still in flight are discarded.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.gen++
	f.closeChallenge()
	f.cancelNavigation()
}

// begin checks that the Flow is open and at the expected Step and returns the
// generation a result must match to be applied.
func (f *Flow) begin(expected Step) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, ErrStale
	}
	if f.step != expected {
		return 0, ErrWrongStep
	}
	return f.gen, nil
}

// beginChallenge is begin for operations on the active Challenge.
func (f *Flow) beginChallenge() (uint64, *otp.Controller, error) {
	gen, err := f.begin(StepAwaitingOtp)
	if err != nil {
		return 0, nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return 0, nil, ErrStale
	}
	return gen, f.challenge, nil
}

// challengeError maps errors a Challenge raises about its own lifecycle onto
// the Flow's. A closed Challenge means the Flow moved on.
func challengeError(err error) error {
	switch errors.Cause(err) {
	case otp.ErrClosed, otp.ErrComplete:
		return ErrStale
	}
	return err
}

// settle decides what becomes of a step's outcome. A result from a stale
// generation is discarded and reported as ErrStale. Otherwise any error is
// shown to the user and returned. The caller must hold the lock.
func (f *Flow) settle(gen uint64, err error) error {
	if f.closed || gen != f.gen {
		f.logf("discarding result of a step that is no longer active")
		return ErrStale
	}
	if err != nil {
		f.notices.Error(meta.UserMessage(err))
		if _, ok := errors.Cause(err).(*meta.ErrValidation); !ok {
			f.logf("step %s failed: %s", f.step, err)
		}
	}
	return err
}

// awaitOtp starts a Challenge for a code that has just been issued. The caller
// must hold the lock.
func (f *Flow) awaitOtp(mode Mode, hashedID string, contact string) {
	f.mode = mode
	f.hashedID = hashedID
	f.contact = contact
	f.transition(StepAwaitingOtp)
	f.challenge = otp.NewController(
		f.verificationsClient,
		hashedID,
		contact,
		&otp.ControllerConfig{
			ResendCooldown: f.config.ResendCooldown,
			Clock:          f.config.Clock,
		},
	)
	f.notices.Info(
		fmt.Sprintf("A verification code has been sent to %s.", contact),
	)
}

// transition makes the specified Step active, discarding the Challenge of the
// Step being left. The caller must hold the lock.
func (f *Flow) transition(step Step) {
	f.logf("%s -> %s", f.step, step)
	f.gen++
	f.step = step
	f.closeChallenge()
}

func (f *Flow) closeChallenge() {
	if f.challenge != nil {
		f.challenge.Close()
		f.challenge = nil
	}
}

// scheduleNavigation sends the user to the specified Destination once the
// redirect delay has passed, unless the Flow is closed first. The caller must
// hold the lock.
func (f *Flow) scheduleNavigation(destination Destination) {
	f.cancelNavigation()
	if f.navigator == nil {
		return
	}
	cancelCh := make(chan struct{})
	f.redirectCh = cancelCh
	timer := f.config.Clock.NewTimer(f.config.RedirectDelay)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C():
		case <-cancelCh:
			return
		}
		f.mu.Lock()
		cancelled := f.closed || f.redirectCh != cancelCh
		if !cancelled {
			f.redirectCh = nil
		}
		f.mu.Unlock()
		if !cancelled {
			f.logf("navigating to %s", destination)
			f.navigator.Navigate(destination)
		}
	}()
}

// cancelNavigation cancels pending navigation, if any. The caller must hold
// the lock.
func (f *Flow) cancelNavigation() {
	if f.redirectCh != nil {
		close(f.redirectCh)
		f.redirectCh = nil
	}
}

func (f *Flow) logf(format string, args ...interface{}) {
	log.Printf("auth flow %s: %s", f.id, fmt.Sprintf(format, args...))
}
