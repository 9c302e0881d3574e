package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rspecify/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	Rspecify    bool
	Verbose     int
	Quiet       int
	Workers     int
	TestPath    string
	NameFilter  string
	NoColor     bool
	Browse      bool
	Debug       bool
	LogJSON     bool
	RootDir     string
	TestCases   bool
	XFail       []string
	XFailStrict bool
}

// ToConfigFlags converts CLI flags to config flags. cmd is the command being
// executed; it tells which flags were set explicitly.
func (f *Flags) ToConfigFlags(cmd *cobra.Command) config.Flags {
	changed := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().Visit(func(fl *pflag.Flag) {
			changed[fl.Name] = true
		})
	}

	return config.Flags{
		Rspecify:    f.Rspecify,
		Verbose:     f.Verbose,
		Quiet:       f.Quiet,
		Workers:     f.Workers,
		TestPath:    f.TestPath,
		NameFilter:  f.NameFilter,
		NoColor:     f.NoColor,
		Browse:      f.Browse,
		Debug:       f.Debug,
		LogJSON:     f.LogJSON,
		RootDir:     f.RootDir,
		TestCases:   f.TestCases,
		XFail:       f.XFail,
		XFailStrict: f.XFailStrict,
		Changed:     changed,
	}
}
