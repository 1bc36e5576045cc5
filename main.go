package main

// The entry point of hbsq. Everything else (configuration, the terminal and
// the offline commands) is set up by the cobra commands in cli.go.

import "os"

// Version of the editor, injected at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
