package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/krancour/resman/internal/authflow"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in to resman",
	Description: "Checks credentials, then asks for the one-time code sent to " +
		"the account's email address",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagLogin,
			Aliases: []string{"l"},
			Usage:   "Log in as the specified email address or phone number",
		},
		&cli.StringFlag{
			Name:    flagPassword,
			Aliases: []string{"p"},
			Usage: "Log in using the specified password; the password is prompted " +
				"for when not specified",
		},
	},
	Action: login,
}

var verifyCommand = &cli.Command{
	Name:  "verify",
	Usage: "Finish an interrupted login by entering its one-time code",
	Action: func(c *cli.Context) error {
		r, err := newAuthRun(c)
		if err != nil {
			return err
		}
		defer r.close()
		if err := r.flow.ResumeVerification(c.Context); err != nil {
			if errors.Cause(err) == authflow.ErrStale {
				return err
			}
			return errReported
		}
		if err := r.answerChallenge(c.Context); err != nil {
			return err
		}
		if r.flow.Step() != authflow.StepDone {
			// The login could not be completed; start over
			return r.logIn(c.Context, "", "")
		}
		return r.followNavigation(c.Context)
	},
}

var forgotPasswordCommand = &cli.Command{
	Name:  "forgot-password",
	Usage: "Choose a new password after verifying a one-time code",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagEmail,
			Aliases: []string{"e"},
			Usage:   "Send the one-time code to the specified email address",
		},
	},
	Action: forgotPassword,
}

var logoutCommand = &cli.Command{
	Name:  "logout",
	Usage: "Log out of resman",
	Action: func(c *cli.Context) error {
		// Args
		if c.Args().Len() != 0 {
			return errors.New("logout requires no arguments")
		}
		cfg, err := getConfig(c)
		if err != nil {
			return errors.Wrap(err, "error retrieving configuration")
		}
		store, err := getSessionStore(cfg)
		if err != nil {
			return err
		}
		if err := store.Clear(c.Context); err != nil {
			return errors.Wrap(err, "error clearing session")
		}
		fmt.Println("Logout was successful.")
		return nil
	},
}

func login(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("login requires no arguments")
	}

	r, err := newAuthRun(c)
	if err != nil {
		return err
	}
	defer r.close()

	return r.logIn(c.Context, c.String(flagLogin), c.String(flagPassword))
}

func forgotPassword(c *cli.Context) error {
	r, err := newAuthRun(c)
	if err != nil {
		return err
	}
	defer r.close()

	if err := r.flow.StartRecovery(); err != nil {
		return err
	}
	email := c.String(flagEmail)
	for {
		if email == "" {
			if err := survey.AskOne(
				&survey.Input{Message: "Email address"},
				&email,
			); err != nil {
				return errors.Wrap(err, "error prompting for email address")
			}
		}
		err := r.flow.SubmitEmail(c.Context, email)
		if err == nil {
			break
		}
		if ok, err := retry(err); !ok {
			return err
		}
		email = ""
	}
	if err := r.answerChallenge(c.Context); err != nil {
		return err
	}
	if err := r.choosePassword(c.Context); err != nil {
		return err
	}
	if r.flow.Step() != authflow.StepCollectingCredentials {
		return authflow.ErrStale
	}

	if !isTerminal() {
		return nil
	}
	loginNow, err := confirm(false, "Log in now?")
	if err != nil || !loginNow {
		return err
	}
	return r.logIn(c.Context, email, "")
}
