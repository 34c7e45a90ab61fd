// Command lfsrscan enumerates the cycles of a Fibonacci LFSR.
//
// Usage:
//
//	lfsrscan [flags] <polynomial>
//	lfsrscan -server [flags]
package main

import (
	"context"
	"os"

	"github.com/agbru/lfsrscan/internal/app"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(0)
	}

	programName := "lfsrscan"
	if len(os.Args) > 0 {
		programName = os.Args[0]
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		os.Exit(app.HandleStartupError(err, programName, os.Stdout))
	}
	os.Exit(application.Run(context.Background(), os.Stdout))
}
