package parkingctl

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildRevision reads the VCS revision the Go toolchain embeds at build
// time. Both the `version` subcommand and `serve` (which hands it to
// httpapi.NewServer, so each request's trace line carries it next to the
// request's correlation id) key off of this one lookup, so the two never
// disagree about which build is running.
func buildRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "<unknown>"
	}
	for _, kv := range info.Settings {
		if kv.Key == "vcs.revision" && kv.Value != "" {
			return kv.Value
		}
	}
	return "<unknown>"
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(buildRevision())
		},
	}
}
