package parkingctl

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Fatal is the error handler cobra commands call on unrecoverable errors.
// It is a package variable, like the reference CLI's, so tests can swap it
// out instead of exiting the test process.
var Fatal = FatalErrorHandler

func NewRootCmd() *cobra.Command {
	RootCmd := &cobra.Command{
		Use:   getCommandLineExecutable(),
		Short: "parkingctl",
		Long:  `Smart Parking Allocation engine CLI`,
	}

	RootCmd.PersistentFlags().String("addr", "http://localhost:8080", "address of a running parkingctl serve instance")

	RootCmd.AddCommand(newServeCmd())
	RootCmd.AddCommand(newRequestCmd())
	RootCmd.AddCommand(newAllocateCmd())
	RootCmd.AddCommand(newOccupyCmd())
	RootCmd.AddCommand(newReleaseCmd())
	RootCmd.AddCommand(newCancelCmd())
	RootCmd.AddCommand(newRollbackCmd())
	RootCmd.AddCommand(newAnalyticsCmd())
	RootCmd.AddCommand(newZonesCmd())
	RootCmd.AddCommand(newVersionCommand())

	return RootCmd
}

// Execute is the process entry point's only call.
func Execute() {
	RootCmd := NewRootCmd()
	RootCmd.SetContext(context.Background())
	RootCmd.SetOutput(os.Stdout)
	if err := RootCmd.Execute(); err != nil {
		Fatal(RootCmd, err.Error(), 1)
	}
}
