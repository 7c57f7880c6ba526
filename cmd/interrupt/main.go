// Command interrupt maintains the science run interruption report:
// it assembles event records from the radiation telemetry archives
// and regenerates the static report pages.
package main

import "github.com/cxo-ops/interrupt/internal/cli"

func main() {
	cli.Execute()
}
