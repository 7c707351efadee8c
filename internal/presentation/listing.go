package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/awkspace/runfile/pkg/domain"
)

// ListNames prints each named target's unique display name, one per line.
func ListNames(out io.Writer, targets []*domain.Target) {
	for _, target := range targets {
		if target.Name == "" {
			continue
		}
		fmt.Fprintln(out, target.UniqueName)
	}
}

// ListWithDescriptions prints `name: description` lines for named targets,
// falling back to the bare name when no description is present.
func ListWithDescriptions(out io.Writer, targets []*domain.Target) {
	for _, target := range targets {
		if target.Name == "" {
			continue
		}
		if target.Description != "" {
			fmt.Fprintf(out, "%s: %s\n", target.UniqueName, target.Description)
		} else {
			fmt.Fprintln(out, target.UniqueName)
		}
	}
}

// Describe renders each named target's description as terminal markdown.
func Describe(out io.Writer, targets []*domain.Target) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return err
	}
	for _, target := range targets {
		if target.Name == "" {
			continue
		}
		fmt.Fprintf(out, "%s\n", target.UniqueName)
		if target.Description == "" {
			continue
		}
		rendered, err := renderer.Render(target.Description)
		if err != nil {
			return err
		}
		fmt.Fprint(out, strings.TrimRight(rendered, "\n")+"\n")
	}
	return nil
}
