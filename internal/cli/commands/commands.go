package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"rspecify/internal/cli"
	"rspecify/internal/config"
	"rspecify/internal/discovery"
	"rspecify/internal/logging"
	"rspecify/internal/plugin"
	"rspecify/internal/reporter"
	"rspecify/internal/session"
	"rspecify/internal/status"
	"rspecify/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run    *RunCommand
	Report *ReportCommand
	List   *ListCommand

	config *config.Config
	log    *slog.Logger
	out    io.Writer
}

// NewCommands creates all commands. cfg is filled in once flags are parsed.
func NewCommands(cfg *config.Config, out io.Writer) *Commands {
	c := &Commands{
		config: cfg,
		log:    logging.Discard(),
		out:    out,
	}
	c.Run = &RunCommand{cmds: c}
	c.Report = &ReportCommand{cmds: c}
	c.List = &ListCommand{cmds: c}
	return c
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags(cmd))
		if err != nil {
			return err
		}
		*c.config = *loaded
		c.log = logging.Setup(c.config.Debug, c.config.LogJSON)
		return nil
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flags.Rspecify, "rspecify", false, "Group results by file and class and print humanized test names")
	pf.CountVarP(&flags.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	pf.CountVarP(&flags.Quiet, "quiet", "q", "Decrease verbosity (repeatable)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flags.Browse, "browse", false, "Open the failure browser when the session finishes with failures")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.LogJSON, "log-json", false, "Write logs as JSON")
	pf.StringVar(&flags.RootDir, "rootdir", "", "Project root directory (default: current directory)")

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run go tests and report the results",
		Long:  "Discover test packages, execute them with go test across parallel workers and render the results as they arrive",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().IntVarP(&flags.Workers, "workers", "n", config.DefaultWorkers, "Number of go test workers")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "k", "", "Filter tests by name pattern (supports wildcards, e.g. 'TestUser*' or '*Payment*')")
	addXFailFlags(runCmd, flags)
	rootCmd.AddCommand(runCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Render recorded go test -json output",
		Long:  "Read go test -json output from a file, or stdin when no file is given, and render it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Report.Execute,
	}
	reportCmd.Flags().StringVarP(&flags.NameFilter, "filter", "k", "", "Filter tests by name pattern (supports wildcards, e.g. 'TestUser*' or '*Payment*')")
	addXFailFlags(reportCmd, flags)
	rootCmd.AddCommand(reportCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List discovered test packages",
		Long:  "Scan and list all test packages without executing them",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "k", "", "Filter packages by name pattern")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test cases of every package")
	rootCmd.AddCommand(listCmd)
}

func addXFailFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringSliceVar(&flags.XFail, "xfail", nil, "Name pattern of tests expected to fail (repeatable)")
	cmd.Flags().BoolVar(&flags.XFailStrict, "xfail-strict", false, "Treat a passing expected failure as a failure")
}

// terminalWriter creates the writer all output of a command goes through
func (c *Commands) terminalWriter() *ui.TerminalWriter {
	mode := ui.ColorAuto
	if c.config.NoColor {
		mode = ui.ColorNever
	}
	root := c.config.RootDir()
	start, err := os.Getwd()
	if err != nil {
		start = root
	}
	return ui.NewTerminalWriter(c.out, ui.WithColorMode(mode), ui.WithDirs(root, start))
}

// newSession registers the default terminal reporter, lets the rspecify
// plugin swap it and returns a session dispatching to the result.
func (c *Commands) newSession(tw *ui.TerminalWriter) (*session.Session, error) {
	m := plugin.NewManager()
	term := reporter.NewTerminal(c.config, tw,
		reporter.WithClassifier(m.Classifier()),
		reporter.WithLogger(c.log),
	)
	if err := m.Register(plugin.TerminalReporter, term); err != nil {
		return nil, err
	}
	if c.config.XFailStrict {
		m.AddStatusHook(status.StrictXFail())
	}
	if err := plugin.ConfigureRspec(c.config, m, c.log); err != nil {
		return nil, fmt.Errorf("configure reporter: %w", err)
	}
	return session.New(c.config, m, c.log), nil
}

// browse opens the failure browser when requested and possible
func (c *Commands) browse(tw *ui.TerminalWriter, rep reporter.Reporter) error {
	if !c.config.Browse || rep == nil {
		return nil
	}
	if !tw.IsTerminal() {
		c.log.Warn("failure browser needs a terminal, skipping")
		return nil
	}
	failed := rep.Stats().Failed()
	if len(failed) == 0 {
		return nil
	}
	var viewer ui.Viewer = ui.NewFailureBrowser(tw)
	return viewer.View(failed)
}

// testPath returns the directory discovery starts from, taking an optional
// positional argument into account
func (c *Commands) testPath(args []string) string {
	if len(args) > 0 {
		if filepath.IsAbs(args[0]) {
			return args[0]
		}
		return filepath.Join(c.config.ProjectPath, args[0])
	}
	return c.config.GetTestPath()
}

// matcher returns a predicate accepting node IDs that match any of patterns,
// or nil when there are none
func matcher(patterns ...string) func(id string) bool {
	var nonEmpty []string
	for _, p := range patterns {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}
	filter := discovery.NewFilter()
	return func(id string) bool {
		for _, p := range nonEmpty {
			if filter.Match(id, p) {
				return true
			}
		}
		return false
	}
}

// discover scans testPath for test packages. The returned patterns are
// relative to testPath.
func (c *Commands) discover(testPath string) ([]string, error) {
	return discovery.NewScanner(c.config.PathsToIgnore).Scan(testPath)
}

// projectPatterns rewrites package patterns relative to testPath so that they
// are relative to the project root, where go test runs.
func projectPatterns(projectPath, testPath string, packages []string) []string {
	rel, err := filepath.Rel(projectPath, testPath)
	if err != nil || rel == "." {
		return packages
	}
	out := make([]string, len(packages))
	for i, pkg := range packages {
		out[i] = "./" + path.Join(filepath.ToSlash(rel), pkg)
	}
	return out
}
