package employees

import "strings"

// parseCSV tokenizes CSV input with a two-state machine: outside or inside a
// quoted segment. Inside quotes, `""` yields a literal quote and commas and
// newlines are data. Outside quotes, a comma ends the field and a newline
// (\n or \r\n) ends the row. Bare quotes in the middle of an unquoted field
// are kept literally, and an unterminated quote consumes the rest of the
// input as field data, so a malformed row never aborts the whole import.
func parseCSV(input string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	quoted := false
	fieldQuoted := false

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
		fieldQuoted = false
	}
	flushRow := func() {
		// A newline on an empty pending row is a blank line, not a record.
		if len(row) == 0 && field.Len() == 0 && !fieldQuoted {
			return
		}
		flushField()
		rows = append(rows, row)
		row = nil
	}

	i := 0
	for i < len(input) {
		c := input[i]
		if quoted {
			if c == '"' {
				if i+1 < len(input) && input[i+1] == '"' {
					field.WriteByte('"')
					i += 2
					continue
				}
				quoted = false
				i++
				continue
			}
			field.WriteByte(c)
			i++
			continue
		}
		switch c {
		case '"':
			if field.Len() == 0 && !fieldQuoted {
				quoted = true
				fieldQuoted = true
			} else {
				field.WriteByte(c)
			}
			i++
		case ',':
			flushField()
			i++
		case '\r':
			if i+1 < len(input) && input[i+1] == '\n' {
				i++
			}
			flushRow()
			i++
		case '\n':
			flushRow()
			i++
		default:
			field.WriteByte(c)
			i++
		}
	}
	if field.Len() > 0 || fieldQuoted || len(row) > 0 {
		flushField()
		rows = append(rows, row)
	}
	return rows
}
