package main

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gosuri/uitable"
	"github.com/krancour/resman/sdk/meta"
	"github.com/krancour/resman/sdk/research"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var submissionCommand = &cli.Command{
	Name:    "submission",
	Aliases: []string{"submissions", "research"},
	Usage:   "Review research submissions",
	Subcommands: []*cli.Command{
		{
			Name:  "approve",
			Usage: "Accept a submission",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Approve the specified submission (required)",
					Required: true,
				},
				cliFlagYes,
			},
			Action: submissionApprove,
		},
		{
			Name:  "get",
			Usage: "Retrieve a submission",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Retrieve the specified submission (required)",
					Required: true,
				},
				cliFlagOutput,
			},
			Action: submissionGet,
		},
		{
			Name:  "list",
			Usage: "Retrieve many submissions",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name: flagStatus,
					Usage: "Retrieve only submissions in the specified status; " +
						"one of pending, approved, rejected",
				},
				&cli.StringFlag{
					Name:  flagStudent,
					Usage: "Retrieve only submissions by the specified student",
				},
				cliFlagSearch,
				cliFlagOutput,
			},
			Action: submissionList,
		},
		{
			Name:  "reject",
			Usage: "Turn down a submission",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Reject the specified submission (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:    flagReason,
					Aliases: []string{"r"},
					Usage: "Explain the rejection to the student; prompted for when " +
						"not specified",
				},
			},
			Action: submissionReject,
		},
		{
			Name:  "update",
			Usage: "Edit a submission's title or abstract",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Update the specified submission (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:  flagTitle,
					Usage: "Set the submission's title",
				},
				&cli.StringFlag{
					Name:  flagAbstract,
					Usage: "Set the submission's abstract",
				},
			},
			Action: submissionUpdate,
		},
	},
}

func submissionList(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	status := research.SubmissionStatus(strings.ToLower(c.String(flagStatus)))
	switch status {
	case "", research.SubmissionStatusPending, research.SubmissionStatusApproved,
		research.SubmissionStatusRejected:
	default:
		return errors.Errorf("unknown submission status %q", status)
	}

	client, err := getResearchClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting resman client")
	}

	selector := &research.SubmissionsSelector{
		Status:    status,
		StudentID: meta.ID(c.String(flagStudent)),
		Search:    c.String(flagSearch),
	}
	opts := &meta.ListOptions{}

	for {
		submissions, err := client.Submissions().List(c.Context, selector, opts)
		if err != nil {
			return err
		}

		if len(submissions.Items) == 0 {
			fmt.Println("No submissions found.")
			return nil
		}

		switch strings.ToLower(output) {
		case "table":
			table := uitable.New()
			table.AddRow("ID", "TITLE", "STUDENT", "STATUS", "AGE")
			for _, submission := range submissions.Items {
				table.AddRow(
					submission.ID,
					submission.Title,
					submission.StudentName,
					submission.Status,
					age(submission.Submitted),
				)
			}
			fmt.Println(table)
		default:
			err := printStructured(output, submissions, "list submissions")
			if err != nil {
				return err
			}
		}

		shouldContinue, err :=
			fetchMore(submissions.RemainingItemCount, submissions.Continue)
		if err != nil {
			return err
		}
		if !shouldContinue {
			break
		}

		opts.Continue = submissions.Continue
	}

	return nil
}

func submissionGet(c *cli.Context) error {
	id := c.String(flagID)
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getResearchClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting resman client")
	}

	submission, err := client.Submissions().Get(c.Context, meta.ID(id))
	if err != nil {
		return err
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "TITLE", "STUDENT", "STATUS", "AGE", "REVIEWED")
		table.AddRow(
			submission.ID,
			submission.Title,
			submission.StudentName,
			submission.Status,
			age(submission.Submitted),
			age(submission.Reviewed),
		)
		fmt.Println(table)
		if submission.Reason != "" {
			fmt.Printf("\nReason for rejection: %s\n", submission.Reason)
		}
	default:
		return printStructured(output, submission, "get submission")
	}

	return nil
}

func submissionUpdate(c *cli.Context) error {
	id := c.String(flagID)

	client, err := getResearchClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting resman client")
	}

	submission, err := client.Submissions().Get(c.Context, meta.ID(id))
	if err != nil {
		return err
	}
	if c.IsSet(flagTitle) {
		submission.Title = c.String(flagTitle)
	}
	if c.IsSet(flagAbstract) {
		submission.Abstract = c.String(flagAbstract)
	}
	if err := client.Submissions().Update(c.Context, submission); err != nil {
		return err
	}

	fmt.Printf("Submission %q updated.\n", id)

	return nil
}

func submissionApprove(c *cli.Context) error {
	id := c.String(flagID)

	confirmed, err := confirm(
		c.Bool(flagYes),
		fmt.Sprintf("Are you sure you want to approve submission %q?", id),
	)
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	client, err := getResearchClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting resman client")
	}

	if err := client.Submissions().Approve(c.Context, meta.ID(id)); err != nil {
		return err
	}

	fmt.Printf("Submission %q approved.\n", id)

	return nil
}

func submissionReject(c *cli.Context) error {
	id := c.String(flagID)
	reason := c.String(flagReason)

	if reason == "" && isTerminal() {
		if err := survey.AskOne(
			&survey.Multiline{Message: "Reason for rejection"},
			&reason,
		); err != nil {
			return errors.Wrap(err, "error prompting for reason")
		}
	}

	client, err := getResearchClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting resman client")
	}

	if err := client.Submissions().Reject(
		c.Context,
		meta.ID(id),
		reason,
	); err != nil {
		return err
	}

	fmt.Printf("Submission %q rejected.\n", id)

	return nil
}
