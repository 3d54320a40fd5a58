// weightaudit reconciles carrier-charged shipment weights against the
// inventory weights of the products packed in each shipment.
//
// Usage:
//
//	SHIPBOB_API_TOKEN=... weightaudit run [--config audit.yaml] [--courtesy-delay 500ms] [--json] [--report-csv out.csv]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "weightaudit",
	Short: "Audit carrier-charged shipment weights against inventory weights",
	Long: `weightaudit walks every order of a ShipBob account, weighs each shipment from
the inventory items it contains (expanding kits into their components) and
reports the shipments whose charged weight differs from the computed one.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(newRunCmd(&runOptions{}))
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
