package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time. Without it the module
// version recorded by go install is used.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		fmt.Fprintln(cmd.OutOrStdout(), versionString(version, info))
	},
}

// versionString formats the version line, e.g.
// "mathdrill v0.3.0 (go1.24.1, 1f2e3d4c5b6a+dirty)".
func versionString(v string, info *debug.BuildInfo) string {
	if info == nil {
		return "mathdrill " + v
	}
	if v == "(devel)" && info.Main.Version != "" {
		v = info.Main.Version
	}

	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	details := info.GoVersion
	if rev != "" {
		details += ", " + rev
		if dirty {
			details += "+dirty"
		}
	}
	return fmt.Sprintf("mathdrill %s (%s)", v, details)
}
