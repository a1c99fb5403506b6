// Command pulse is a live terminal dashboard for a process: it graphs
// runtime metrics and tails the output of a monitored command.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}
