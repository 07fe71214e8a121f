// Package model holds the in-memory representation of a result set: an
// interned table of rows plus the per-column width cache the renderer reads.
// A Table belongs to a single goroutine; the UI owns its tables and feeds
// them from ingest batches.
package model

// Table is a rectangular result set. Cells are interned; headers are kept as
// plain strings since they never repeat enough to matter.
type Table struct {
	headers []string
	rows    [][]Handle
	in      *Interner
	widths  widthCache
}

func NewTable(headers []string) *Table {
	t := &Table{
		headers: append([]string(nil), headers...),
		in:      NewInterner(),
	}
	t.widths.reset(t.headers)
	return t
}

func (t *Table) Headers() []string { return t.headers }
func (t *Table) NumRows() int      { return len(t.rows) }
func (t *Table) NumCols() int      { return len(t.headers) }

// Widths returns the cached display width (including padding) per column.
// The slice is shared; callers must not modify it.
func (t *Table) Widths() []int { return t.widths.cols }

// AppendRows interns the given raw rows and extends the width cache from
// them alone. Rows wider than the header are clamped to the header count;
// shorter rows are kept as-is and read back as empty cells.
func (t *Table) AppendRows(raw [][]string) {
	for _, row := range raw {
		if len(row) > len(t.headers) {
			row = row[:len(t.headers)]
		}
		hs := make([]Handle, len(row))
		for i, cell := range row {
			hs[i] = t.in.Intern(cell)
		}
		t.rows = append(t.rows, hs)
	}
	t.widths.update(raw)
}

// Replace swaps in an entirely new result set, dropping all previous rows,
// and rebuilds the width cache from scratch. The interner is kept; stale
// entries cost memory, not correctness, and a fresh copy is a Clone away.
func (t *Table) Replace(headers []string, raw [][]string) {
	t.headers = append([]string(nil), headers...)
	t.rows = t.rows[:0]
	t.widths.reset(t.headers)
	t.AppendRows(raw)
}

// Clone returns an independent copy backed by a fresh interner holding only
// the strings the rows still reference. Cloning after heavy Replace churn is
// how accumulated dead entries get dropped.
func (t *Table) Clone() *Table {
	c := NewTable(t.headers)
	c.rows = make([][]Handle, len(t.rows))
	for i, row := range t.rows {
		hs := make([]Handle, len(row))
		for j, h := range row {
			hs[j] = c.in.Intern(t.in.Resolve(h))
		}
		c.rows[i] = hs
	}
	c.widths.cols = append([]int(nil), t.widths.cols...)
	return c
}

// Cell resolves one cell. Out-of-range rows and the missing tail of a short
// row both read as "".
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.rows) {
		return ""
	}
	r := t.rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return t.in.Resolve(r[col])
}

// RowStrings resolves a whole row, padded with empty cells to the header
// count.
func (t *Table) RowStrings(row int) []string {
	out := make([]string, len(t.headers))
	if row < 0 || row >= len(t.rows) {
		return out
	}
	for i, h := range t.rows[row] {
		out[i] = t.in.Resolve(h)
	}
	return out
}
