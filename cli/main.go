package main

import (
	"fmt"
	"os"

	"github.com/krancour/resman/internal/signals"
	"github.com/krancour/resman/internal/version"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "resman"
	app.Usage = "Supervise student research from the comfort of a terminal"
	app.Version = version.String()
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
		&cli.StringFlag{
			Name:    flagServer,
			Aliases: []string{"s"},
			Usage: "Use the specified API server instead of the one most " +
				"recently logged in to",
		},
	}
	app.Commands = []*cli.Command{
		forgotPasswordCommand,
		loginCommand,
		logoutCommand,
		sessionCommand,
		studentCommand,
		submissionCommand,
		verifyCommand,
	}
	fmt.Println()
	if err := app.RunContext(signals.Context(), os.Args); err != nil {
		// Errors raised during an auth flow have already been shown as notices
		if errors.Cause(err) != errReported {
			fmt.Printf("\n%s\n", err)
		}
		fmt.Println()
		os.Exit(1)
	}
	fmt.Println()
}
