// failsafe classifies the fail-safe behaviour of function-block instances in
// PLCopen-style XML exports and writes the result as CSV.
//
// Usage:
//
//	failsafe scan [file.xml] [--output xmlout.csv] [--record]
//	failsafe batch <files...> --output-dir DIR
//	failsafe history [--limit N]
//	failsafe show <run-id>
//	failsafe serve
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
