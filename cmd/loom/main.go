package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	// An interrupt cancels the run's context; that abort is intentional and
	// needs no message, only the non-zero exit.
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "loom:", err)
	}
	os.Exit(1)
}
