package main

import "github.com/urfave/cli/v2"

const (
	flagAbstract   = "abstract"
	flagDepartment = "department"
	flagEmail      = "email"
	flagID         = "id"
	flagInsecure   = "insecure"
	flagLogin      = "login"
	flagName       = "name"
	flagOutput     = "output"
	flagPassword   = "password"
	flagPhone      = "phone"
	flagProgram    = "program"
	flagReason     = "reason"
	flagSearch     = "search"
	flagServer     = "server"
	flagStatus     = "status"
	flagStudent    = "student"
	flagTitle      = "title"
	flagYes        = "yes"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in the specified format; supported formats: table, " +
			"yaml, json",
		Value: "table",
	}
	cliFlagSearch = &cli.StringFlag{
		Name:  flagSearch,
		Usage: "Retrieve only items matching the specified text",
	}
	cliFlagYes = &cli.BoolFlag{
		Name:    flagYes,
		Aliases: []string{"y"},
		Usage:   "Non-interactively confirm",
	}
)
