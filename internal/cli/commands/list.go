package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rspecify/internal/discovery"
	"rspecify/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	cmds *Commands
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	c := lc.cmds

	testPath := c.testPath(args)
	packages, err := c.discover(testPath)
	if err != nil {
		return err
	}

	// Filter packages
	packages = discovery.NewFilter().FilterByName(packages, c.config.Flags.NameFilter)

	if len(packages) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	formatter := ui.NewFormatter(c.terminalWriter(), discovery.NewParser(), testPath)
	return formatter.PrintTestList(packages, c.config.Flags.TestCases)
}
