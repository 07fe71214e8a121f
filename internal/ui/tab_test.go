package ui

import (
	"testing"

	"tabscope/internal/model"
)

func pipeTab() *Tab {
	tb := model.NewTable([]string{"a", "b"})
	tb.AppendRows([][]string{{"x", "1"}, {"y", "2"}, {"x", "3"}})
	return newTab("pipe", viewStream, tb)
}

func TestFilterSubstring(t *testing.T) {
	tab := pipeTab()
	tab.setFilter("y")
	tab.ensureFiltered()
	if got := tab.rowCount(); got != 1 {
		t.Fatalf("expected 1 matching row, got %d", got)
	}
	if row := tab.rowStrings(0); row[0] != "y" || row[1] != "2" {
		t.Fatalf("expected the y row, got %v", row)
	}
	// clearing restores the full set
	tab.setFilter("")
	tab.ensureFiltered()
	if got := tab.rowCount(); got != 3 {
		t.Fatalf("expected all rows back, got %d", got)
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	tb := model.NewTable([]string{"name"})
	tb.AppendRows([][]string{{"Alice"}, {"BOB"}, {"carol"}})
	tab := newTab("t", viewStream, tb)
	tab.setFilter("alice")
	tab.ensureFiltered()
	if got := tab.rowCount(); got != 1 {
		t.Fatalf("expected case-insensitive match, got %d rows", got)
	}
}

func TestFilterRegex(t *testing.T) {
	tb := model.NewTable([]string{"code"})
	tb.AppendRows([][]string{{"a-100"}, {"b-200"}, {"a-300"}})
	tab := newTab("t", viewStream, tb)
	tab.setFilter("/^a-[0-9]+$/")
	tab.ensureFiltered()
	if got := tab.rowCount(); got != 2 {
		t.Fatalf("expected 2 regex matches, got %d", got)
	}
	// broken regex falls back to substring matching
	tab.setFilter("/a-(/")
	tab.ensureFiltered()
	if got := tab.rowCount(); got != 0 {
		t.Fatalf("expected no literal matches for invalid regex, got %d", got)
	}
}

func TestFilterExtendsIncrementally(t *testing.T) {
	tab := pipeTab()
	tab.setFilter("x")
	tab.ensureFiltered()
	if got := tab.rowCount(); got != 2 {
		t.Fatalf("expected 2 rows before append, got %d", got)
	}
	tab.appendRows([][]string{{"x", "4"}, {"z", "5"}})
	if got := tab.rowCount(); got != 3 {
		t.Fatalf("expected streamed match appended to filter, got %d", got)
	}
	if row := tab.rowStrings(2); row[1] != "4" {
		t.Fatalf("expected new match last, got %v", row)
	}
	if got := tab.data.NumRows(); got != 5 {
		t.Fatalf("expected all rows stored, got %d", got)
	}
}

func TestSelectionClampsWhenFilterShrinks(t *testing.T) {
	tab := streamTab(100)
	tab.rowSel = 99
	tab.setFilter("name-1")
	tab.ensureFiltered()
	tab.clampSelection()
	if n := tab.rowCount(); tab.rowSel != n-1 {
		t.Fatalf("expected selection clamped to %d, got %d", n-1, tab.rowSel)
	}
}

func TestHideAndShowColumns(t *testing.T) {
	tab := streamTab(5)
	tab.colSel = 1
	tab.hideColumn()
	cols := tab.visibleCols()
	if len(cols) != 2 || cols[0] != 0 || cols[1] != 2 {
		t.Fatalf("expected column 1 hidden, got %v", cols)
	}
	tab.showAllColumns()
	if got := len(tab.visibleCols()); got != 3 {
		t.Fatalf("expected all columns back, got %d", got)
	}
}

func TestHideKeepsLastColumn(t *testing.T) {
	tb := model.NewTable([]string{"only"})
	tab := newTab("t", viewStream, tb)
	tab.hideColumn()
	if got := len(tab.visibleCols()); got != 1 {
		t.Fatalf("expected the last column to refuse hiding, got %d", got)
	}
}

func TestMoveColumnCarriesSelection(t *testing.T) {
	tab := streamTab(5)
	tab.colSel = 0
	tab.moveColumn(1)
	cols := tab.visibleCols()
	if cols[0] != 1 || cols[1] != 0 {
		t.Fatalf("expected columns swapped, got %v", cols)
	}
	if tab.colSel != 1 {
		t.Fatalf("expected selection to follow the column, got %d", tab.colSel)
	}
	// moving past the edge is a no-op
	tab.colSel = 2
	tab.moveColumn(1)
	if got := tab.visibleCols(); got[2] != 2 {
		t.Fatalf("expected edge move ignored, got %v", got)
	}
}

func TestMoveColumnSkipsHidden(t *testing.T) {
	tab := streamTab(5)
	tab.colSel = 1
	tab.hideColumn()
	tab.colSel = 0
	tab.moveColumn(1)
	// visible neighbours are 0 and 2; the hidden column keeps its slot
	cols := tab.visibleCols()
	if cols[0] != 2 || cols[1] != 0 {
		t.Fatalf("expected visible swap around hidden column, got %v", cols)
	}
}

func TestWidthAdjustClamps(t *testing.T) {
	tab := streamTab(5)
	tab.colSel = 0
	for i := 0; i < 100; i++ {
		tab.adjustWidth(-2)
	}
	if w := tab.effectiveWidths()[0]; w != minColWidth {
		t.Fatalf("expected width floored at %d, got %d", minColWidth, w)
	}
	for i := 0; i < 300; i++ {
		tab.adjustWidth(+2)
	}
	if w := tab.effectiveWidths()[0]; w != maxColWidth {
		t.Fatalf("expected width capped at %d, got %d", maxColWidth, w)
	}
}

func TestResetColumns(t *testing.T) {
	tab := streamTab(5)
	tab.colSel = 1
	tab.hideColumn()
	tab.colSel = 0
	tab.adjustWidth(10)
	tab.moveColumn(1)
	tab.resetColumns()
	cols := tab.visibleCols()
	if len(cols) != 3 || cols[0] != 0 || cols[1] != 1 || cols[2] != 2 {
		t.Fatalf("expected natural order restored, got %v", cols)
	}
	if len(tab.widthAdj) != 0 {
		t.Fatalf("expected width adjustments cleared")
	}
}

func TestCloneTabIndependent(t *testing.T) {
	tab := pipeTab()
	tab.setFilter("x")
	tab.ensureFiltered()
	c := tab.clone()
	c.ensureFiltered()
	if got := c.rowCount(); got != 2 {
		t.Fatalf("expected clone to keep the filter, got %d rows", got)
	}
	tab.appendRows([][]string{{"x", "9"}})
	if got := c.rowCount(); got != 2 {
		t.Fatalf("expected clone unaffected by source appends, got %d", got)
	}
	c.setFilter("")
	c.ensureFiltered()
	if tab.filter != "x" {
		t.Fatalf("expected source filter untouched, got %q", tab.filter)
	}
}

func TestExportViewRespectsArrangement(t *testing.T) {
	tab := streamTab(4)
	tab.colSel = 2
	tab.hideColumn() // hide status
	tab.colSel = 0
	tab.moveColumn(1) // order: name, id
	tab.setFilter("name-2")
	headers, rows := tab.exportView()
	if len(headers) != 2 || headers[0] != "name" || headers[1] != "id" {
		t.Fatalf("expected reordered visible headers, got %v", headers)
	}
	if len(rows) != 1 || rows[0][0] != "name-2" || rows[0][1] != "2" {
		t.Fatalf("expected filtered row in display order, got %v", rows)
	}
}

func TestReplaceResetsState(t *testing.T) {
	tab := streamTab(20)
	tab.rowSel = 10
	tab.setFilter("name")
	tab.colSel = 1
	tab.hideColumn()
	tab.replace("orders", viewTableData, []string{"x"}, [][]string{{"1"}, {"2"}})
	if tab.rowCount() != 2 || tab.rowSel != 0 || tab.filter != "" {
		t.Fatalf("expected clean state after replace, got sel=%d filter=%q", tab.rowSel, tab.filter)
	}
	if got := len(tab.visibleCols()); got != 1 {
		t.Fatalf("expected new column set, got %d", got)
	}
	if tab.mode != viewTableData || tab.name != "orders" {
		t.Fatalf("expected mode and name updated")
	}
}

func TestWorkspaceTabCycle(t *testing.T) {
	ws := newWorkspace(streamTab(1))
	ws.add(streamTab(2))
	ws.add(streamTab(3))
	if ws.active != 2 {
		t.Fatalf("expected add to activate the new tab, got %d", ws.active)
	}
	ws.next()
	if ws.active != 0 {
		t.Fatalf("expected wrap-around, got %d", ws.active)
	}
	ws.prev()
	if ws.active != 2 {
		t.Fatalf("expected reverse wrap, got %d", ws.active)
	}
	ws.switchTo(1)
	if ws.active != 1 {
		t.Fatalf("expected direct switch, got %d", ws.active)
	}
	ws.switchTo(99)
	if ws.active != 1 {
		t.Fatalf("expected out-of-range switch ignored, got %d", ws.active)
	}
}

func TestWorkspaceCloseActive(t *testing.T) {
	ws := newWorkspace(streamTab(1))
	ws.add(streamTab(2))
	ws.switchTo(1)
	if !ws.closeActive() {
		t.Fatalf("expected tabs to remain")
	}
	if ws.active != 0 || ws.count() != 1 {
		t.Fatalf("expected first tab active, got active=%d count=%d", ws.active, ws.count())
	}
	if ws.closeActive() {
		t.Fatalf("expected closing the last tab to report empty")
	}
}
