// sardana2xls exports the device configuration of a Sardana Pool, as stored
// in the Tango naming database, into a spreadsheet.
//
//	sardana2xls B108A
//	sardana2xls --config configs/config.yaml B108A
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/sardana2xls/cmd/sardana2xls/commands"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Cancel the export on Ctrl+C or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	commands.SetVersionInfo(version, commit, date)

	// Errors are printed by the printer package
	if err := commands.Execute(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
