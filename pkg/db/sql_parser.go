package db

import "strings"

// splitSQLStatements splits a migration script on top-level semicolons.
// Semicolons inside '...' literals do not end a statement and -- comments
// are dropped. The catalog migrations use no dollar-quoted bodies.
func splitSQLStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		inLiteral  bool
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}

		current.Reset()
	}

	for i := 0; i < len(script); i++ {
		ch := script[i]

		switch {
		case inLiteral:
			// '' inside a literal closes and reopens it, which nets out
			inLiteral = ch != '\''
			current.WriteByte(ch)
		case ch == '\'':
			inLiteral = true
			current.WriteByte(ch)
		case strings.HasPrefix(script[i:], "--"):
			end := strings.IndexByte(script[i:], '\n')
			if end < 0 {
				end = len(script) - i
			}

			// keep the newline so statements stay on separate lines
			i += end - 1
		case ch == ';':
			flush()
		default:
			current.WriteByte(ch)
		}
	}

	flush()

	return statements
}

// migrationVersion is the numeric prefix of a migration file name, e.g.
// 00000000000001 for 00000000000001_device_catalog.up.sql.
func migrationVersion(filename string) string {
	version, _, _ := strings.Cut(filename, "_")

	return version
}
