package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
)

func main() {
	// destroy locked secret buffers on ^C
	memguard.CatchInterrupt()
	defer memguard.Purge()

	err := newRootCmd(newApp()).Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		memguard.SafeExit(1)
	}
}
