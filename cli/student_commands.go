package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/krancour/resman/sdk/meta"
	"github.com/krancour/resman/sdk/research"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"k8s.io/apimachinery/pkg/util/duration"
)

var studentCommand = &cli.Command{
	Name:    "student",
	Aliases: []string{"students"},
	Usage:   "Manage supervised students",
	Subcommands: []*cli.Command{
		{
			Name:  "get",
			Usage: "Retrieve a student",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Retrieve the specified student (required)",
					Required: true,
				},
				cliFlagOutput,
			},
			Action: studentGet,
		},
		{
			Name:  "list",
			Usage: "Retrieve many students",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagDepartment,
					Aliases: []string{"d"},
					Usage:   "Retrieve only students of the specified department",
				},
				cliFlagSearch,
				cliFlagOutput,
			},
			Action: studentList,
		},
		{
			Name:  "update",
			Usage: "Edit a student's record",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Update the specified student (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:  flagName,
					Usage: "Set the student's name",
				},
				&cli.StringFlag{
					Name:  flagEmail,
					Usage: "Set the student's email address",
				},
				&cli.StringFlag{
					Name:  flagPhone,
					Usage: "Set the student's phone number",
				},
				&cli.StringFlag{
					Name:  flagProgram,
					Usage: "Set the student's program of study",
				},
			},
			Action: studentUpdate,
		},
	},
}

func studentList(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getResearchClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting resman client")
	}

	selector := &research.StudentsSelector{
		Search:       c.String(flagSearch),
		DepartmentID: meta.ID(c.String(flagDepartment)),
	}
	opts := &meta.ListOptions{}

	for {
		students, err := client.Students().List(c.Context, selector, opts)
		if err != nil {
			return err
		}

		if len(students.Items) == 0 {
			fmt.Println("No students found.")
			return nil
		}

		switch strings.ToLower(output) {
		case "table":
			table := uitable.New()
			table.AddRow("ID", "NAME", "REG NO", "PROGRAM", "EMAIL", "AGE")
			for _, student := range students.Items {
				table.AddRow(
					student.ID,
					student.Name,
					student.RegistrationNumber,
					student.Program,
					student.Email,
					age(student.Created),
				)
			}
			fmt.Println(table)
		default:
			if err := printStructured(output, students, "list students"); err != nil {
				return err
			}
		}

		shouldContinue, err :=
			fetchMore(students.RemainingItemCount, students.Continue)
		if err != nil {
			return err
		}
		if !shouldContinue {
			break
		}

		opts.Continue = students.Continue
	}

	return nil
}

func studentGet(c *cli.Context) error {
	id := c.String(flagID)
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getResearchClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting resman client")
	}

	student, err := client.Students().Get(c.Context, meta.ID(id))
	if err != nil {
		return err
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "NAME", "REG NO", "PROGRAM", "EMAIL", "PHONE", "AGE")
		table.AddRow(
			student.ID,
			student.Name,
			student.RegistrationNumber,
			student.Program,
			student.Email,
			student.Phone,
			age(student.Created),
		)
		fmt.Println(table)
	default:
		return printStructured(output, student, "get student")
	}

	return nil
}

func studentUpdate(c *cli.Context) error {
	id := c.String(flagID)

	client, err := getResearchClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting resman client")
	}

	student, err := client.Students().Get(c.Context, meta.ID(id))
	if err != nil {
		return err
	}
	for flag, field := range map[string]*string{
		flagName:    &student.Name,
		flagEmail:   &student.Email,
		flagPhone:   &student.Phone,
		flagProgram: &student.Program,
	} {
		if c.IsSet(flag) {
			*field = c.String(flag)
		}
	}
	if err := client.Students().Update(c.Context, student); err != nil {
		return err
	}

	fmt.Printf("Student %q updated.\n", id)

	return nil
}

func age(t *time.Time) string {
	if t == nil {
		return ""
	}
	return duration.ShortHumanDuration(time.Since(*t))
}
