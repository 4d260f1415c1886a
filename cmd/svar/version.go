package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/Sajjon/svar"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "svar %s\n", buildVersion())
			fmt.Fprintf(a.stdout, "format version %d\n", svar.FormatVersion)
			fmt.Fprintf(a.stdout, "schemes: %s\n", strings.Join(svar.Schemes(), ", "))
		},
	}
}

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
