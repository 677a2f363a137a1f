package main

import (
	"fmt"
	"slices"

	"github.com/alnah/nb2md"
)

// runStages lists the default pipeline in order, then the opt-in stages.
func runStages(env *Environment) {
	defaults := nb2md.DefaultStages()

	fmt.Fprintln(env.Stdout, "Default pipeline:")
	for i, name := range defaults {
		fmt.Fprintf(env.Stdout, "  %2d. %s\n", i+1, name)
	}

	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "Optional stages:")
	for _, name := range nb2md.KnownStages() {
		if !slices.Contains(defaults, name) {
			fmt.Fprintf(env.Stdout, "      %s\n", name)
		}
	}
}
