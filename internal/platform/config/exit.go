package config

import (
	"fmt"
	"io"
	"os"
)

var (
	exitOutput io.Writer = os.Stderr
	exit                 = os.Exit
)

// Exitf reports a fatal build-time error on stderr and exits with status 1.
// One-shot tools use it instead of log.Fatalf so the message carries no log
// prefix or timestamp.
func Exitf(format string, args ...any) {
	fmt.Fprintf(exitOutput, format+"\n", args...)
	exit(1)
}
