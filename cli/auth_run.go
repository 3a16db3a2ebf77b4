package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/krancour/resman/internal/authflow"
	"github.com/krancour/resman/internal/notify"
	"github.com/krancour/resman/internal/otp"
	"github.com/krancour/resman/internal/session"
	"github.com/krancour/resman/sdk/meta"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"k8s.io/apimachinery/pkg/util/clock"
)

// errReported stands in for an error that has already been shown to the user
// as a notice.
var errReported = errors.New("error already reported")

// navigator hands the destinations a Flow navigates to over to whichever
// command is waiting on them.
type navigator struct {
	destinationCh chan authflow.Destination
}

func newNavigator() *navigator {
	return &navigator{
		destinationCh: make(chan authflow.Destination, 1),
	}
}

func (n *navigator) Navigate(destination authflow.Destination) {
	select {
	case n.destinationCh <- destination:
	default:
	}
}

func (n *navigator) await(
	ctx context.Context,
) (authflow.Destination, error) {
	select {
	case destination := <-n.destinationCh:
		return destination, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// authRun is everything one of the authentication commands needs.
type authRun struct {
	cfg       *config
	store     session.Store
	notices   notify.Surface
	navigator *navigator
	flow      *authflow.Flow
}

func newAuthRun(c *cli.Context) (*authRun, error) {
	cfg, err := getConfig(c)
	if err != nil {
		return nil, errors.Wrap(err, "error retrieving configuration")
	}
	store, err := getSessionStore(cfg)
	if err != nil {
		return nil, err
	}
	clk := clock.RealClock{}
	notices := notify.NewSurface(
		notify.NewWriterRenderer(os.Stdout),
		clk,
		cfg.NoticeTTL,
	)
	r := &authRun{
		cfg:       cfg,
		store:     store,
		notices:   notices,
		navigator: newNavigator(),
	}
	r.flow = authflow.NewFlow(
		getAuthClient(cfg),
		store,
		r.notices,
		r.navigator,
		&authflow.Config{
			ResendCooldown: cfg.ResendCooldown,
			RedirectDelay:  cfg.RedirectDelay,
			Clock:          clk,
		},
	)
	return r, nil
}

func (r *authRun) close() {
	r.flow.Close()
	r.notices.Close()
}

// retry returns whether a failed step should be attempted again. Errors the
// Flow has shown the user are retried when there is a user at a terminal to
// retry them.
func retry(err error) (bool, error) {
	switch errors.Cause(err) {
	case authflow.ErrStale, authflow.ErrWrongStep:
		return false, err
	}
	if !isTerminal() {
		return false, errReported
	}
	return true, nil
}

// logIn takes a login from credentials through to home. Whenever the Flow
// falls back to StepCollectingCredentials the credentials are asked for again.
func (r *authRun) logIn(
	ctx context.Context,
	login string,
	password string,
) error {
	for {
		if err := r.collectCredentials(ctx, login, password); err != nil {
			return err
		}
		if err := r.answerChallenge(ctx); err != nil {
			return err
		}
		if r.flow.Step() == authflow.StepDone {
			return r.followNavigation(ctx)
		}
		if r.flow.Step() != authflow.StepCollectingCredentials {
			return authflow.ErrStale
		}
		if !isTerminal() {
			return errReported
		}
		password = ""
	}
}

func (r *authRun) collectCredentials(
	ctx context.Context,
	login string,
	password string,
) error {
	for {
		if login == "" {
			if err := survey.AskOne(
				&survey.Input{Message: "Email or phone number"},
				&login,
			); err != nil {
				return errors.Wrap(err, "error prompting for login")
			}
		}
		if password == "" {
			if err := survey.AskOne(
				&survey.Password{Message: "Password"},
				&password,
			); err != nil {
				return errors.Wrap(err, "error prompting for password")
			}
		}
		err := r.flow.SubmitCredentials(ctx, login, password)
		if err == nil {
			return nil
		}
		if meta.IsAccountUnverified(err) {
			if err = r.followNavigation(ctx); err != nil {
				return err
			}
		} else if ok, err := retry(err); !ok {
			return err
		}
		password = ""
	}
}

func (r *authRun) answerChallenge(ctx context.Context) error {
	for r.flow.Step() == authflow.StepAwaitingOtp {
		challenge := r.flow.Challenge()
		if challenge == nil {
			return authflow.ErrStale
		}
		state := challenge.State()
		var input string
		if err := survey.AskOne(
			&survey.Input{
				Message: fmt.Sprintf(
					"Code sent to %s %s",
					state.Contact,
					countdownLabel(state),
				),
			},
			&input,
		); err != nil {
			return errors.Wrap(err, "error prompting for code")
		}
		var err error
		if input == "r" {
			err = r.flow.ResendCode(ctx)
		} else {
			challenge.SetCode(input)
			err = r.flow.SubmitCode(ctx)
		}
		if err == nil {
			continue
		}
		if ok, err := retry(err); !ok {
			return err
		}
	}
	return nil
}

func countdownLabel(state otp.State) string {
	if state.CanResend() {
		return "(or r to send a new one)"
	}
	return fmt.Sprintf(
		"(new code available in %d:%02d)",
		state.Remaining/60,
		state.Remaining%60,
	)
}

func (r *authRun) choosePassword(ctx context.Context) error {
	for {
		form := &authflow.PasswordForm{}
		if err := survey.Ask(
			[]*survey.Question{
				{
					Name:   "password",
					Prompt: &survey.Password{Message: "New password"},
				},
				{
					Name:   "confirm",
					Prompt: &survey.Password{Message: "Confirm new password"},
				},
			},
			form,
		); err != nil {
			return errors.Wrap(err, "error prompting for new password")
		}
		err := r.flow.ChangePassword(ctx, form)
		if err == nil {
			return nil
		}
		if ok, err := retry(err); !ok {
			return err
		}
	}
}

// followNavigation waits out the Flow's redirect delay and then acts on where
// it leads. Verifying an account leaves the Flow collecting credentials.
func (r *authRun) followNavigation(ctx context.Context) error {
	destination, err := r.navigator.await(ctx)
	if err != nil {
		return err
	}
	switch destination {
	case authflow.DestinationHome:
		s, err := r.store.Read(ctx)
		if err != nil {
			return errors.Wrap(err, "error reading session")
		}
		if s == nil {
			return errors.New("session vanished before login completed")
		}
		if err := saveConfig(r.cfg); err != nil {
			return errors.Wrap(err, "error persisting configuration")
		}
		fmt.Printf(
			"\nWelcome, %s. You are logged in to %s.\n",
			s.Name,
			r.cfg.APIAddress,
		)
		return nil
	case authflow.DestinationVerifyAccount:
		if err := r.flow.VerifyAccount(ctx); err != nil {
			if errors.Cause(err) == authflow.ErrStale {
				return err
			}
			return errReported
		}
		if err := r.answerChallenge(ctx); err != nil {
			return err
		}
		if r.flow.Step() != authflow.StepCollectingCredentials {
			return authflow.ErrStale
		}
		return nil
	}
	return errors.Errorf("unknown destination %q", destination)
}
