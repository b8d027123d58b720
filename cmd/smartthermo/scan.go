package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/smartthermo/internal/discovery"
)

var scanTimeout int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for SmartThermo servers on the network",
	Long: `Scan for SmartThermo devices and 'smartthermo serve' instances using
mDNS/DNS-SD discovery, and print their API addresses.`,
	Example: `  # Scan for 10 seconds (default)
  smartthermo scan

  # Quick 3-second scan
  smartthermo scan --timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for SmartThermo devices (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.ScanForDevices(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the device or 'smartthermo serve' is running")
		fmt.Println("  - Check that you are on the same network segment")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Instance)
		fmt.Printf("   ID:      %s\n", device.ID)
		fmt.Printf("   API:     %s\n", device.BaseURL())
		if v := device.GetMetadata("version"); v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		fmt.Println()
	}
	return nil
}
