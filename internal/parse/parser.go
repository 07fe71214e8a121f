package parse

import "strings"

// Primitives for the psql table format:
//
//	 id | name  | age
//	----+-------+-----
//	 1  | Alice | 30
//	(1 row)
//
// Lines are classified individually so the streaming reader can work one
// line at a time without buffering the whole input.

// SplitRow splits a data (or header) line on '|' and trims each cell.
// Whatever cell count results is accepted; malformed lines are not rejected.
func SplitRow(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// IsSeparator reports whether line is the rule between header and data:
// non-blank, made of '-', '+' and spaces only, with at least one dash.
func IsSeparator(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	dashes := false
	for _, r := range t {
		switch r {
		case '-':
			dashes = true
		case '+', ' ', '\t':
		default:
			return false
		}
	}
	return dashes
}

// IsFooter reports whether line is the trailing row-count summary,
// e.g. "(3 rows)" or "(1 row)".
func IsFooter(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") && strings.Contains(t, "row")
}

// IsBlank reports whether line contains nothing but whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// FindHeader scans lines for the header/separator pair. The header is the
// last non-blank line before the first separator line. It returns the parsed
// column names and the index of the first data line. ok is false when no
// such pair exists in lines, meaning the input is simply not this format.
func FindHeader(lines []string) (headers []string, dataStart int, ok bool) {
	sep := -1
	for i, l := range lines {
		if IsSeparator(l) {
			sep = i
			break
		}
	}
	if sep <= 0 {
		return nil, 0, false
	}
	header := -1
	for i := sep - 1; i >= 0; i-- {
		if !IsBlank(lines[i]) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, 0, false
	}
	headers = SplitRow(lines[header])
	empty := true
	for _, h := range headers {
		if h != "" {
			empty = false
			break
		}
	}
	if empty {
		return nil, 0, false
	}
	return headers, sep + 1, true
}
