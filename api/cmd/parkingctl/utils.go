package parkingctl

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// getCommandLineExecutable returns the invoked binary's base name, so
// --help shows "parkingctl" rather than whatever path the shell used to
// invoke it.
func getCommandLineExecutable() string {
	return filepath.Base(os.Args[0])
}

// FatalErrorHandler prints msg (newline-terminated) to cmd's output and
// exits the process with code. It is the default value of Fatal, the
// package variable tests can swap out instead of exiting the test process.
func FatalErrorHandler(cmd *cobra.Command, msg string, code int) {
	if len(msg) > 0 {
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		cmd.Print(msg)
	}
	os.Exit(code)
}
