// Command pulsectl queries the streaming analytics services from the command line.
//
// Configuration comes from PULSE_* environment variables (a .env file in the
// working directory is loaded first), an optional pulsectl.yaml, and flags, in
// increasing order of precedence.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	pulsebridge "github.com/opengovern/stream-pulse-bridge"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	if err := newRootCommand().Execute(); err != nil {
		if reqErr, ok := pulsebridge.AsRequestError(err); ok && len(reqErr.Payload) > 0 {
			fmt.Fprintf(os.Stderr, "%s\n", reqErr.Payload)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
