package parkingctl

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func addrFlag(cmd *cobra.Command) string {
	addr, _ := cmd.Flags().GetString("addr")
	return addr
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func newRequestCmd() *cobra.Command {
	var vehicleID, zoneID string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Create a parking request for a vehicle.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newAPIClient(addrFlag(cmd))
			var req types.Request
			if err := client.do("POST", "/requests", map[string]string{
				"vehicleId":       vehicleID,
				"requestedZoneId": zoneID,
			}, &req); err != nil {
				return err
			}
			return printJSON(req)
		},
	}

	cmd.Flags().StringVar(&vehicleID, "vehicle", "", "vehicle id (required)")
	cmd.Flags().StringVar(&zoneID, "zone", "", "requested zone id (required)")
	_ = cmd.MarkFlagRequired("vehicle")
	_ = cmd.MarkFlagRequired("zone")

	return cmd
}

// requestActionCmd builds a subcommand of the form `parkingctl <use> <requestID>`
// that POSTs to /requests/{id}/<path> and prints the resulting types.Result.
func requestActionCmd(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <request-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(addrFlag(cmd))
			var result types.Result
			if err := client.do("POST", "/requests/"+args[0]+"/"+path, nil, &result); err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newAllocateCmd() *cobra.Command {
	return requestActionCmd("allocate", "Allocate a slot to a requested parking request.", "allocate")
}

func newOccupyCmd() *cobra.Command {
	return requestActionCmd("occupy", "Mark an allocated request's slot as occupied.", "occupy")
}

func newReleaseCmd() *cobra.Command {
	return requestActionCmd("release", "Release an occupied request's slot.", "release")
}

func newCancelCmd() *cobra.Command {
	return requestActionCmd("cancel", "Cancel a request that has not yet been occupied.", "cancel")
}

func newRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <k>",
		Short: "Undo the last k allocation operations.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := strconv.Atoi(args[0])
			if err != nil || k < 0 {
				return fmt.Errorf("k must be a non-negative integer")
			}
			client := newAPIClient(addrFlag(cmd))
			var result types.RollbackResult
			if err := client.do("POST", fmt.Sprintf("/rollback?k=%d", k), nil, &result); err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newAnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Print derived usage statistics.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newAPIClient(addrFlag(cmd))
			var a types.Analytics
			if err := client.do("GET", "/analytics", nil, &a); err != nil {
				return err
			}

			fmt.Printf("total requests:      %s\n", humanize.Comma(int64(a.TotalRequests)))
			fmt.Printf("completed requests:  %s\n", humanize.Comma(int64(a.CompletedRequests)))
			fmt.Printf("cancelled requests:  %s\n", humanize.Comma(int64(a.CancelledRequests)))
			fmt.Printf("cross-zone allocs:   %s\n", humanize.Comma(int64(a.CrossZoneAllocations)))
			fmt.Printf("avg parking duration: %sms\n", humanize.CommafWithDigits(a.AverageParkingDuration, 1))
			fmt.Println("zone utilization:")
			for _, zone := range a.PeakUsageZones {
				fmt.Printf("  %s: %.1f%% (peak)\n", zone, a.ZoneUtilization[zone])
			}
			return nil
		},
	}
}

func newZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List loaded zones and their slots.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newAPIClient(addrFlag(cmd))
			var zones []types.Zone
			if err := client.do("GET", "/zones", nil, &zones); err != nil {
				return err
			}
			return printJSON(zones)
		},
	}
}
