// Command persistctl is a demo/benchmark CLI for the gopersistent
// containers: it drives a HashDict through a synthetic operation mix
// (bench) or bulk-loads one from a SQLite table (load). It exists to
// give the library's domain dependencies (yaml.v3, uuid, go-isatty,
// modernc.org/sqlite) a real caller, not as a product surface of the
// library itself.
package main

import (
	"os"

	"github.com/cmarschner/gopersistent/pkg/clitool"
)

func main() {
	os.Exit(clitool.Run(os.Args[1:], os.Stdout, os.Stderr))
}
