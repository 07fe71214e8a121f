package ui

import (
	"github.com/charmbracelet/bubbles/table"
)

// refresh rebuilds the table widget from the active tab's projection.
func (m *Model) refresh() {
	t := m.ws.activeTab()
	p := buildProjection(t, m.termWidth, m.bodyHeight())
	m.winStart = p.win.start
	m.applyProjection(t, p)
}

// tableHeight is the widget's share of the terminal: everything above the
// inline input line and the status line.
func (m *Model) tableHeight() int {
	h := m.termHeight - 2
	if h < 3 {
		h = 3
	}
	return h
}

// bodyHeight is tableHeight minus the widget's header row.
func (m *Model) bodyHeight() int {
	h := m.tableHeight() - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) applyProjection(t *Tab, p projection) {
	hdrs := t.data.Headers()
	cols := make([]table.Column, 0, len(p.cols)+2)
	if p.fit.left {
		cols = append(cols, table.Column{Title: "‹", Width: 1})
	}
	for i, c := range p.cols {
		title := hdrs[c]
		if p.fit.start+i == t.colSel {
			// The widget truncates the marked title when the column is narrow.
			title = "«" + title + "»"
		}
		cols = append(cols, table.Column{Title: title, Width: p.fit.widths[i]})
	}
	if p.fit.right {
		cols = append(cols, table.Column{Title: "›", Width: 1})
	}

	rows := make([]table.Row, len(p.rows))
	for i, r := range p.rows {
		row := make(table.Row, 0, len(r)+2)
		if p.fit.left {
			row = append(row, "…")
		}
		row = append(row, r...)
		if p.fit.right {
			row = append(row, "…")
		}
		rows[i] = row
	}

	// SetColumns re-renders the rows it already holds, so clear them first:
	// a shrinking column set must never meet rows wider than itself.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	m.tbl.SetCursor(p.cursor)
}
