package clitool

import (
	"database/sql"
	"fmt"
	"io"

	_ "modernc.org/sqlite"

	"github.com/cmarschner/gopersistent/hashdict"
	"github.com/cmarschner/gopersistent/internal/keyhash"
	"github.com/cmarschner/gopersistent/internal/kv"
)

// runLoad streams the two leftmost columns of a SQLite table into a
// HashDict via FromPairs, exercising the bulk-construction arena path
// (spec §4.3) at whatever scale the table holds, and reports the
// resulting size to out.
func runLoad(args []string, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("expected exactly two arguments: <sqlite-db> <table>")
	}
	dbPath, table := args[0], args[1]

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("reading columns of %s: %w", table, err)
	}
	if len(cols) < 2 {
		return fmt.Errorf("table %s needs at least 2 columns, got %d", table, len(cols))
	}

	var pairs []kv.Entry[string, string]
	for rows.Next() {
		scanTargets := make([]any, len(cols))
		var key, value string
		scanTargets[0] = &key
		scanTargets[1] = &value
		for i := 2; i < len(cols); i++ {
			var discard any
			scanTargets[i] = &discard
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		pairs = append(pairs, kv.Entry[string, string]{Key: key, Value: value})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows of %s: %w", table, err)
	}

	hash := keyhash.Default[string]()
	eq := func(a, b string) bool { return a == b }
	dict := hashdict.FromPairs(pairs, hash, eq, nil)

	fmt.Fprintf(out, "loaded %d rows from %s.%s into HashDict (size=%d)\n", len(pairs), dbPath, table, dict.Size())
	return nil
}
