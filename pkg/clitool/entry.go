// Package clitool implements the persistctl demo/benchmark tool's
// logic, kept separate from cmd/persistctl so it stays unit-testable
// (the same main-delegates-to-a-library-package split the teacher uses
// for pkg/cli + cmd/funxy).
package clitool

import (
	"fmt"
	"io"
)

// Run dispatches args[0] as a subcommand and returns the process exit
// code. stdout/stderr let tests capture output without touching the
// real console.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage())
		return 2
	}

	switch args[0] {
	case "bench":
		if err := runBench(args[1:], stdout); err != nil {
			fmt.Fprintln(stderr, "persistctl: bench:", err)
			return 1
		}
		return 0
	case "load":
		if err := runLoad(args[1:], stdout); err != nil {
			fmt.Fprintln(stderr, "persistctl: load:", err)
			return 1
		}
		return 0
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage())
		return 0
	default:
		fmt.Fprintf(stderr, "persistctl: unknown subcommand %q\n\n%s\n", args[0], usage())
		return 2
	}
}

func usage() string {
	return `usage: persistctl <command> [args]

commands:
  bench <scenario.yaml>        run a HashDict operation-mix benchmark
  load <sqlite-db> <table>     bulk-load a table into a HashDict via FromPairs
  help                         show this message`
}
