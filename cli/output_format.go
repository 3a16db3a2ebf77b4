package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
)

func validateOutputFormat(outputFormat string) error {
	switch strings.ToLower(outputFormat) {
	case "table":
	case "yaml":
	case "json":
	default:
		return errors.Errorf("unknown output format %q", outputFormat)
	}
	return nil
}

// printStructured prints obj as yaml or json. It is a no-op for the table
// format, which callers render themselves.
func printStructured(outputFormat string, obj interface{}, op string) error {
	switch strings.ToLower(outputFormat) {
	case "yaml":
		yamlBytes, err := yaml.Marshal(obj)
		if err != nil {
			return errors.Wrapf(
				err,
				"error formatting output from %s operation",
				op,
			)
		}
		fmt.Println(string(yamlBytes))
	case "json":
		prettyJSON, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return errors.Wrapf(
				err,
				"error formatting output from %s operation",
				op,
			)
		}
		fmt.Println(string(prettyJSON))
	}
	return nil
}

func isTerminal() bool {
	return terminal.IsTerminal(int(os.Stdin.Fd())) &&
		terminal.IsTerminal(int(os.Stdout.Fd()))
}

// fetchMore asks whether another page of results should be retrieved. It
// never asks, and answers no, when output isn't to a terminal.
func fetchMore(remainingItemCount int64, continueVal string) (bool, error) {
	if remainingItemCount < 1 || continueVal == "" {
		return false, nil
	}
	// Exit after one page of output if this isn't a terminal
	if !terminal.IsTerminal(int(os.Stdout.Fd())) {
		return false, nil
	}
	var shouldContinue bool
	fmt.Println()
	if err := survey.AskOne(
		&survey.Confirm{
			Message: fmt.Sprintf(
				"%d results remain. Fetch more?",
				remainingItemCount,
			),
		},
		&shouldContinue,
	); err != nil {
		return false, errors.Wrap(
			err,
			"error confirming if user wishes to continue",
		)
	}
	fmt.Println()
	return shouldContinue, nil
}

// confirm asks a yes/no question unless the --yes flag already answered it.
func confirm(yes bool, message string) (bool, error) {
	if yes {
		return true, nil
	}
	if !isTerminal() {
		return false, errors.New(
			"refusing to proceed without confirmation; use --yes to confirm " +
				"non-interactively",
		)
	}
	var confirmed bool
	if err := survey.AskOne(
		&survey.Confirm{Message: message},
		&confirmed,
	); err != nil {
		return false, errors.Wrap(err, "error confirming")
	}
	return confirmed, nil
}
