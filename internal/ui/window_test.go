package ui

import (
	"fmt"
	"testing"

	"tabscope/internal/model"
)

func TestWindowAroundSelection(t *testing.T) {
	w := windowRows(500000, 250000, 50)
	if w.start != 249900 || w.end != 250100 {
		t.Fatalf("expected window [249900,250100), got [%d,%d)", w.start, w.end)
	}
	if size := w.end - w.start; size > 4*50 {
		t.Fatalf("window larger than four screens: %d", size)
	}
	if local := 250000 - w.start; local != 100 {
		t.Fatalf("expected selection at local index 100, got %d", local)
	}
}

func TestWindowClampsToEdges(t *testing.T) {
	w := windowRows(500000, 0, 50)
	if w.start != 0 || w.end != 100 {
		t.Fatalf("expected [0,100) at the top, got [%d,%d)", w.start, w.end)
	}
	w = windowRows(500000, 499999, 50)
	if w.start != 499899 || w.end != 500000 {
		t.Fatalf("expected window pinned to the bottom, got [%d,%d)", w.start, w.end)
	}
	w = windowRows(10, 5, 50)
	if w.start != 0 || w.end != 10 {
		t.Fatalf("expected whole table when it fits, got [%d,%d)", w.start, w.end)
	}
}

func TestWindowDegenerateInputs(t *testing.T) {
	cases := []struct {
		name               string
		total, sel, height int
	}{
		{"no rows", 0, 5, 50},
		{"no height", 100, 5, 0},
		{"negative selection", 100, -3, 50},
		{"selection past end", 100, 1000, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := windowRows(tc.total, tc.sel, tc.height)
			if w.start < 0 || w.end < w.start || w.end > tc.total && tc.total > 0 {
				t.Fatalf("bad window [%d,%d)", w.start, w.end)
			}
		})
	}
}

func TestFitAllColumns(t *testing.T) {
	fit := fitColumns([]int{5, 5, 5}, 0, 80)
	if fit.start != 0 || fit.end != 3 {
		t.Fatalf("expected all columns, got [%d,%d)", fit.start, fit.end)
	}
	if fit.left || fit.right {
		t.Fatalf("expected no indicators when everything fits")
	}
	for i, w := range fit.widths {
		if w != 5 {
			t.Fatalf("column %d: expected width kept at 5, got %d", i, w)
		}
	}
}

func TestFitRightOverflow(t *testing.T) {
	fit := fitColumns([]int{10, 10, 10, 10}, 0, 25)
	if fit.start != 0 || fit.end != 2 {
		t.Fatalf("expected two columns, got [%d,%d)", fit.start, fit.end)
	}
	if fit.left {
		t.Fatalf("unexpected left indicator at scroll 0")
	}
	if !fit.right {
		t.Fatalf("expected right indicator for cut-off columns")
	}
}

func TestFitLeftIndicatorWhenScrolled(t *testing.T) {
	fit := fitColumns([]int{10, 10, 10, 10, 10, 10}, 2, 25)
	if !fit.left {
		t.Fatalf("expected left indicator when scrolled")
	}
	if fit.start != 2 {
		t.Fatalf("expected fit to start at scroll, got %d", fit.start)
	}
}

func TestFitFirstColumnTruncates(t *testing.T) {
	fit := fitColumns([]int{100}, 0, 20)
	if fit.end != 1 {
		t.Fatalf("expected the single column rendered, got [%d,%d)", fit.start, fit.end)
	}
	if fit.widths[0] != 19 {
		t.Fatalf("expected truncation to avail-1, got %d", fit.widths[0])
	}
	if fit.right {
		t.Fatalf("no columns are hidden, no right indicator")
	}

	fit = fitColumns([]int{100, 10}, 0, 20)
	if fit.end != 1 || !fit.right {
		t.Fatalf("expected truncated first column plus right indicator, got %+v", fit)
	}
	if fit.widths[0] != 17 {
		t.Fatalf("expected first column to respect the reservation, got %d", fit.widths[0])
	}
}

func TestFitPartialLastColumn(t *testing.T) {
	fit := fitColumns([]int{10, 20, 30, 40}, 0, 40)
	if fit.end != 3 {
		t.Fatalf("expected three columns, got [%d,%d)", fit.start, fit.end)
	}
	if last := fit.widths[len(fit.widths)-1]; last != 5 {
		t.Fatalf("expected partial third column of width 5, got %d", last)
	}
	if !fit.right {
		t.Fatalf("expected right indicator")
	}
}

func TestFitReclaimsRightReservation(t *testing.T) {
	// With the indicator reserved only a sliver of the second column fits,
	// but without it the column fits whole. The second pass must win.
	fit := fitColumns([]int{10, 6}, 0, 19)
	if fit.end != 2 {
		t.Fatalf("expected both columns, got [%d,%d)", fit.start, fit.end)
	}
	if fit.widths[1] != 6 {
		t.Fatalf("expected second column untruncated after reclaim, got %d", fit.widths[1])
	}
	if fit.right {
		t.Fatalf("expected no right indicator when everything fits")
	}
}

func TestFitNeverEmpty(t *testing.T) {
	for avail := 3; avail <= 12; avail++ {
		t.Run(fmt.Sprintf("avail=%d", avail), func(t *testing.T) {
			fit := fitColumns([]int{50, 50, 50}, 0, avail)
			if fit.end-fit.start < 1 {
				t.Fatalf("expected at least one column at avail %d", avail)
			}
			if fit.widths[0] < 1 {
				t.Fatalf("expected positive width, got %d", fit.widths[0])
			}
		})
	}
	if fit := fitColumns(nil, 0, 80); fit.end != 0 {
		t.Fatalf("expected empty fit for no columns")
	}
}

func TestFitNeverOverflowsAvail(t *testing.T) {
	widths := []int{13, 4, 27, 9, 41, 3, 18}
	for avail := 3; avail <= 120; avail++ {
		for scroll := 0; scroll < len(widths); scroll++ {
			fit := fitColumns(widths, scroll, avail)
			total := 0
			if fit.left {
				total += indicatorCells
			}
			if fit.right {
				total += indicatorCells
			}
			for _, w := range fit.widths {
				total += w + 1
			}
			if total > avail {
				t.Fatalf("avail=%d scroll=%d: rendered %d cells (%+v)", avail, scroll, total, fit)
			}
		}
	}
}

func TestEnsureColVisibleScrollsForward(t *testing.T) {
	widths := []int{10, 10, 10, 10, 10, 10}
	fit, scroll := ensureColVisible(widths, 0, 4, 25)
	if scroll != 3 {
		t.Fatalf("expected scroll advanced to 3, got %d", scroll)
	}
	if 4 < fit.start || 4 >= fit.end {
		t.Fatalf("expected column 4 inside fit [%d,%d)", fit.start, fit.end)
	}
}

func TestEnsureColVisiblePullsBack(t *testing.T) {
	widths := []int{10, 10, 10, 10}
	fit, scroll := ensureColVisible(widths, 3, 1, 25)
	if scroll != 1 {
		t.Fatalf("expected scroll pulled back to selection, got %d", scroll)
	}
	if fit.start != 1 {
		t.Fatalf("expected fit to start at 1, got %d", fit.start)
	}
}

func streamTab(rows int) *Tab {
	tb := model.NewTable([]string{"id", "name", "status"})
	raw := make([][]string, rows)
	for i := range raw {
		raw[i] = []string{fmt.Sprintf("%d", i), fmt.Sprintf("name-%d", i), []string{"active", "idle"}[i%2]}
	}
	tb.AppendRows(raw)
	return newTab("test", viewStream, tb)
}

func TestProjectionResolvesWindowOnly(t *testing.T) {
	tab := streamTab(1000)
	tab.rowSel = 500
	p := buildProjection(tab, 80, 10)
	if p.win.start != 480 || p.win.end != 520 {
		t.Fatalf("expected window [480,520), got [%d,%d)", p.win.start, p.win.end)
	}
	if len(p.rows) != p.win.end-p.win.start {
		t.Fatalf("expected %d resolved rows, got %d", p.win.end-p.win.start, len(p.rows))
	}
	if p.cursor != 20 {
		t.Fatalf("expected cursor at 20 in window space, got %d", p.cursor)
	}
	if p.rows[p.cursor][0] != "500" {
		t.Fatalf("expected selected row under cursor, got %v", p.rows[p.cursor])
	}
}

func TestProjectionWithFilter(t *testing.T) {
	tab := streamTab(100)
	tab.setFilter("active")
	p := buildProjection(tab, 80, 10)
	if got := tab.rowCount(); got != 50 {
		t.Fatalf("expected 50 filtered rows, got %d", got)
	}
	if len(p.rows) == 0 {
		t.Fatalf("expected a non-empty window")
	}
	for _, row := range p.rows {
		if row[2] != "active" {
			t.Fatalf("expected only matching rows in window, got %v", row)
		}
	}
}

func TestProjectionEmptyTable(t *testing.T) {
	tb := model.NewTable([]string{"a", "b"})
	tab := newTab("empty", viewStream, tb)
	p := buildProjection(tab, 80, 10)
	if len(p.rows) != 0 {
		t.Fatalf("expected no rows for empty table, got %d", len(p.rows))
	}
	if p.fit.end-p.fit.start != 2 {
		t.Fatalf("expected headers still fitted, got [%d,%d)", p.fit.start, p.fit.end)
	}
}

func TestProjectionPersistsColumnScroll(t *testing.T) {
	tab := streamTab(10)
	// widen every column so not all fit, then select the last one
	for c := 0; c < 3; c++ {
		tab.widthAdj[c] = 30
	}
	tab.colSel = 2
	p := buildProjection(tab, 40, 10)
	if tab.colScroll == 0 {
		t.Fatalf("expected column scroll persisted after ensure-visible")
	}
	if 2 < p.fit.start || 2 >= p.fit.end {
		t.Fatalf("expected selected column inside fit [%d,%d)", p.fit.start, p.fit.end)
	}
	if !p.fit.left {
		t.Fatalf("expected left indicator after scrolling")
	}
}
