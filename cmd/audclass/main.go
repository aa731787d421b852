// SPDX-License-Identifier: EPL-2.0

// Command audclass records training clips, builds reference profiles and
// classifies live microphone input as one of the trained labels.
//
// Usage:
//
//	audclass [--config FILE] [--log-level LEVEL] <command>
//
// Commands:
//
//	record    capture labelled training clips
//	train     build reference profiles from the recorded clips
//	detect    classify live input until interrupted
//	profiles  print the stored reference profiles
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
