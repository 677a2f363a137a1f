package main

import "github.com/fatih/color"

// Status labels. fatih/color drops the escape codes when the output is not
// a terminal or NO_COLOR is set.
var (
	failedLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	warningLabel = color.New(color.FgYellow).SprintFunc()
	createdLabel = color.New(color.FgGreen).SprintFunc()
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
)

func labelFailed() string  { return failedLabel("FAILED") }
func labelWarning() string { return warningLabel("warning:") }
func labelCreated() string { return createdLabel("Created") }
func labelError() string   { return errorLabel("error:") }
