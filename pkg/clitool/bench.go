package clitool

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/cmarschner/gopersistent/hashdict"
	"github.com/cmarschner/gopersistent/internal/keyhash"
)

// runBench loads a Scenario from args[0] and drives a HashDict through
// its described operation mix, reporting timing to out.
func runBench(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one argument: <scenario.yaml>")
	}
	scenario, err := LoadScenario(args[0])
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(scenario.Seed))
	keys := make([]string, scenario.EntryCount)
	for i := range keys {
		keys[i] = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d-%d", scenario.Seed, i))).String()
	}

	hash := keyhash.Default[string]()
	eq := func(a, b string) bool { return a == b }
	dict := hashdict.New[string, int](hash, eq, nil)

	start := time.Now()
	for i, k := range keys {
		dict = dict.Assoc(k, i)
	}
	buildElapsed := time.Since(start)

	var gets, assocs, dissocs int
	start = time.Now()
	for i := 0; i < scenario.Operations; i++ {
		k := keys[rng.Intn(len(keys))]
		switch roll := rng.Float64(); {
		case roll < scenario.GetRatio:
			dict.Get(k)
			gets++
		case roll < scenario.GetRatio+scenario.AssocRatio:
			dict = dict.Assoc(k, i)
			assocs++
		default:
			dict = dict.Dissoc(k)
			dissocs++
		}
	}
	mixElapsed := time.Since(start)

	printStats(out, scenario, buildElapsed, mixElapsed, dict.Size(), gets, assocs, dissocs)
	return nil
}

func printStats(out io.Writer, s *Scenario, build, mix time.Duration, finalSize, gets, assocs, dissocs int) {
	colorize := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	bold := func(s string) string {
		if !colorize {
			return s
		}
		return "\x1b[1m" + s + "\x1b[0m"
	}

	fmt.Fprintf(out, "%s entries=%d operations=%d\n", bold("scenario"), s.EntryCount, s.Operations)
	fmt.Fprintf(out, "%s  build=%v (%.0f assoc/s)\n", bold("build"), build, float64(s.EntryCount)/build.Seconds())
	fmt.Fprintf(out, "%s    mix=%v  gets=%d assocs=%d dissocs=%d\n", bold("mix"), mix, gets, assocs, dissocs)
	fmt.Fprintf(out, "%s  final size=%d\n", bold("result"), finalSize)
}
