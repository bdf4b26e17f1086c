package sql

import "strings"

// splitStatements splits a batch on top level semicolons, semicolons inside
// quoted strings, quoted identifiers and comments are ignored; empty
// statements are dropped
func splitStatements(batch string) []string {
	var statements []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			statements = append(statements, s)
		}
		current.Reset()
	}
	for i := 0; i < len(batch); i++ {
		ch := batch[i]
		switch {
		case ch == '\'' || ch == '"' || ch == '`' || ch == '[':
			closing := ch
			if ch == '[' {
				closing = ']'
			}
			j := i + 1
			for ; j < len(batch); j++ {
				if batch[j] != closing {
					continue
				}
				//doubled quotes are escaped quotes
				if j+1 < len(batch) && batch[j+1] == closing && closing != ']' {
					j++
					continue
				}
				break
			}
			if j >= len(batch) {
				j = len(batch) - 1
			}
			current.WriteString(batch[i : j+1])
			i = j
		case ch == '-' && i+1 < len(batch) && batch[i+1] == '-':
			j := strings.IndexByte(batch[i:], '\n')
			if j < 0 {
				i = len(batch)
				continue
			}
			current.WriteByte('\n')
			i += j
		case ch == '/' && i+1 < len(batch) && batch[i+1] == '*':
			j := strings.Index(batch[i+2:], "*/")
			if j < 0 {
				i = len(batch)
				continue
			}
			current.WriteByte(' ')
			i += j + 3
		case ch == ';':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return statements
}
