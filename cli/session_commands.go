package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"k8s.io/apimachinery/pkg/util/duration"
)

var sessionCommand = &cli.Command{
	Name:  "session",
	Usage: "Inspect the stored session",
	Subcommands: []*cli.Command{
		{
			Name:  "show",
			Usage: "Show who is logged in",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: sessionShow,
		},
	},
}

func sessionShow(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	cfg, err := getConfig(c)
	if err != nil {
		return errors.Wrap(err, "error retrieving configuration")
	}
	store, err := getSessionStore(cfg)
	if err != nil {
		return err
	}
	s, err := store.Read(c.Context)
	if err != nil {
		return errors.Wrap(err, "error reading session")
	}
	if s == nil {
		fmt.Println("No session found.")
		return nil
	}
	if s.Token != "" {
		s.Token = "<redacted>"
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "NAME", "PROFILE", "EMAIL", "VERIFIED?", "AGE")
		table.AddRow(
			s.ID,
			s.Name,
			s.Profile,
			s.Email,
			s.Verified(),
			duration.ShortHumanDuration(time.Since(s.Created)),
		)
		fmt.Println(table)
	default:
		return printStructured(output, s, "show session")
	}

	return nil
}
