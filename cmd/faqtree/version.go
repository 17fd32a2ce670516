package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Overridable at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildDetails describes the binary as reported by the version command.
type buildDetails struct {
	version string
	commit  string
	date    string
}

// resolveBuildDetails fills in whatever the ldflags left empty from the
// embedded module build information.
func resolveBuildDetails() buildDetails {
	d := buildDetails{version: version, commit: commit, date: date}

	info, ok := debug.ReadBuildInfo()
	if ok {
		if d.version == "" {
			d.version = info.Main.Version
		}
		if d.commit == "" {
			d.commit = shortRevision(vcsSetting(info, "vcs.revision"))
		}
		if d.date == "" {
			d.date = vcsSetting(info, "vcs.time")
		}
	}

	if d.version == "" {
		d.version = "(devel)"
	}
	if d.commit == "" {
		d.commit = "unknown"
	}
	if d.date == "" {
		d.date = "unknown"
	}
	return d
}

// vcsSetting returns the named build setting, or "" when absent.
func vcsSetting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// shortRevision abbreviates a VCS revision to the usual 7 characters.
func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of faqtree.`,
		Run: func(cmd *cobra.Command, _ []string) {
			d := resolveBuildDetails()
			fmt.Fprintf(cmd.OutOrStdout(), "faqtree version %s\n", d.version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", d.commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", d.date)
		},
	}
}
