package ui

import (
	"fmt"
	"path/filepath"

	"rspecify/internal/discovery"
	"rspecify/internal/domain"
)

var (
	headerMarkup  = domain.Markup{Color: domain.ColorGreen}
	packageMarkup = domain.Markup{Color: domain.ColorCyan}
	caseMarkup    = domain.Markup{Color: domain.ColorYellow}
	missingMarkup = domain.Markup{Color: domain.ColorRed}
)

// Formatter prints discovered test packages as a tree
type Formatter struct {
	writer  *TerminalWriter
	parser  *discovery.Parser
	rootDir string
}

// NewFormatter creates a new Formatter. Package patterns are resolved
// against rootDir.
func NewFormatter(tw *TerminalWriter, parser *discovery.Parser, rootDir string) *Formatter {
	return &Formatter{
		writer:  tw,
		parser:  parser,
		rootDir: rootDir,
	}
}

// CountTestCases returns the total number of test cases across the given packages
func (f *Formatter) CountTestCases(packages []string) (int, error) {
	var total int
	for _, pkg := range packages {
		cases, err := f.parser.FindPackageTestCases(filepath.Join(f.rootDir, pkg))
		if err != nil {
			return 0, err
		}
		total += len(cases)
	}
	return total, nil
}

// PrintTestList prints the packages, optionally with their test cases
func (f *Formatter) PrintTestList(packages []string, showTestCases bool) error {
	w := f.writer
	if !showTestCases {
		w.Write(fmt.Sprintf("Found %d test package(s):", len(packages)), headerMarkup)
		w.Line()
		for i, pkg := range packages {
			w.Write(branch(i == len(packages)-1)+pkg, packageMarkup)
			w.Line()
		}
		return w.Err()
	}

	total, err := f.CountTestCases(packages)
	if err != nil {
		return err
	}
	w.Write(fmt.Sprintf("Found %d test package(s) with %d test case(s):", len(packages), total), headerMarkup)
	w.Line()

	for i, pkg := range packages {
		isLastPkg := i == len(packages)-1
		w.Write(branch(isLastPkg)+pkg, packageMarkup)
		w.Line()

		indent := "│   "
		if isLastPkg {
			indent = "    "
		}

		testCases, err := f.parser.FindPackageTestCases(filepath.Join(f.rootDir, pkg))
		if err != nil {
			return err
		}
		if len(testCases) == 0 {
			w.Write(indent+"└── ", domain.Markup{})
			w.Write("(no test cases found)", missingMarkup)
			w.Line()
		}
		for j, testCase := range testCases {
			w.Write(indent+branch(j == len(testCases)-1), domain.Markup{})
			w.Write(testCase, caseMarkup)
			w.Line()
		}

		if !isLastPkg {
			w.Line()
		}
	}
	return w.Err()
}

func branch(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}
