package ui

import (
	"regexp"
	"strings"

	"tabscope/internal/ingest"
	"tabscope/internal/model"
)

type ViewMode int

const (
	viewStream    ViewMode = iota // rows arriving from stdin/file/demo
	viewTableList                 // database mode: list of tables
	viewTableData                 // database mode: rows of one table or query
)

// Tab is one open result set plus everything the user did to it: filter,
// column arrangement, selection. All coordinates that matter to navigation
// live in filtered-row / visible-column space.
type Tab struct {
	name    string
	mode    ViewMode
	data    *model.Table
	session *ingest.Session // non-nil while rows are still arriving

	order    []int // display order of column indices
	hidden   map[int]bool
	widthAdj map[int]int

	filter      string
	filtered    []int // filtered row indices; nil when no filter
	filterDirty bool

	rowSel    int // selection in filtered space
	colSel    int // selection in visible-column space
	colScroll int // first rendered column, visible-column space
}

func newTab(name string, mode ViewMode, data *model.Table) *Tab {
	t := &Tab{name: name, mode: mode, data: data}
	t.resetColumns()
	return t
}

// replace swaps in a new result set and clears per-table state. Used when a
// tab navigates between the table list and table contents.
func (t *Tab) replace(name string, mode ViewMode, headers []string, rows [][]string) {
	t.name = name
	t.mode = mode
	t.data.Replace(headers, rows)
	t.resetColumns()
	t.filter = ""
	t.filtered = nil
	t.filterDirty = false
	t.rowSel, t.colSel, t.colScroll = 0, 0, 0
}

// clone duplicates the tab, result set included, so the copy can be
// filtered and rearranged independently.
func (t *Tab) clone() *Tab {
	c := newTab(t.name, t.mode, t.data.Clone())
	c.order = append([]int(nil), t.order...)
	for i := range t.hidden {
		c.hidden[i] = true
	}
	for i, d := range t.widthAdj {
		c.widthAdj[i] = d
	}
	c.filter = t.filter
	c.filterDirty = t.filter != ""
	c.rowSel, c.colSel, c.colScroll = t.rowSel, t.colSel, t.colScroll
	return c
}

// appendRows feeds freshly streamed rows in. An active filter is extended
// incrementally: only the new rows are matched, never the whole table.
func (t *Tab) appendRows(raw [][]string) {
	prev := t.data.NumRows()
	t.data.AppendRows(raw)
	if t.filter == "" || t.filterDirty {
		return
	}
	m := newMatcher(t.filter)
	for i := prev; i < t.data.NumRows(); i++ {
		if m.matchRow(t.data.RowStrings(i)) {
			t.filtered = append(t.filtered, i)
		}
	}
}

func (t *Tab) setFilter(q string) {
	if t.filter == q {
		return
	}
	t.filter = q
	t.filterDirty = true
}

// ensureFiltered rebuilds the filtered index when the filter text changed.
func (t *Tab) ensureFiltered() {
	if !t.filterDirty {
		return
	}
	t.filterDirty = false
	if t.filter == "" {
		t.filtered = nil
		return
	}
	m := newMatcher(t.filter)
	t.filtered = t.filtered[:0]
	for i := 0; i < t.data.NumRows(); i++ {
		if m.matchRow(t.data.RowStrings(i)) {
			t.filtered = append(t.filtered, i)
		}
	}
}

// rowCount is the number of rows the user can navigate over.
func (t *Tab) rowCount() int {
	if t.filter != "" && !t.filterDirty {
		return len(t.filtered)
	}
	return t.data.NumRows()
}

// dataRow translates a filtered-space index to a table row index.
func (t *Tab) dataRow(view int) int {
	if t.filter != "" && !t.filterDirty {
		if view < 0 || view >= len(t.filtered) {
			return -1
		}
		return t.filtered[view]
	}
	if view < 0 || view >= t.data.NumRows() {
		return -1
	}
	return view
}

// rowStrings resolves the filtered-space row, padded to the header count.
func (t *Tab) rowStrings(view int) []string {
	return t.data.RowStrings(t.dataRow(view))
}

// visibleCols returns column indices in display order with hidden ones
// dropped.
func (t *Tab) visibleCols() []int {
	out := make([]int, 0, len(t.order))
	for _, c := range t.order {
		if !t.hidden[c] {
			out = append(out, c)
		}
	}
	return out
}

const (
	minColWidth = 3
	maxColWidth = 100
)

// effectiveWidths maps cached column widths through the user's adjustments,
// clamped to sane bounds. Indexed in visible-column space.
func (t *Tab) effectiveWidths() []int {
	auto := t.data.Widths()
	cols := t.visibleCols()
	out := make([]int, len(cols))
	for i, c := range cols {
		w := minColWidth
		if c < len(auto) {
			w = auto[c]
		}
		w += t.widthAdj[c]
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		out[i] = w
	}
	return out
}

// clampSelection pins both selections back into range after any mutation.
func (t *Tab) clampSelection() {
	if n := t.rowCount(); t.rowSel >= n {
		t.rowSel = n - 1
	}
	if t.rowSel < 0 {
		t.rowSel = 0
	}
	if n := len(t.visibleCols()); t.colSel >= n {
		t.colSel = n - 1
	}
	if t.colSel < 0 {
		t.colSel = 0
	}
	if t.colScroll > t.colSel {
		t.colScroll = t.colSel
	}
	if t.colScroll < 0 {
		t.colScroll = 0
	}
}

// selectedColumn resolves colSel to a real column index, -1 when the table
// has no visible columns.
func (t *Tab) selectedColumn() int {
	cols := t.visibleCols()
	if t.colSel < 0 || t.colSel >= len(cols) {
		return -1
	}
	return cols[t.colSel]
}

func (t *Tab) hideColumn() {
	cols := t.visibleCols()
	// keep at least one column on screen
	if len(cols) <= 1 {
		return
	}
	c := t.selectedColumn()
	if c < 0 {
		return
	}
	t.hidden[c] = true
	t.clampSelection()
}

func (t *Tab) showAllColumns() {
	t.hidden = make(map[int]bool)
	t.clampSelection()
}

// moveColumn swaps the selected column with its visible neighbour, carrying
// the selection along.
func (t *Tab) moveColumn(delta int) {
	cols := t.visibleCols()
	target := t.colSel + delta
	if t.colSel < 0 || t.colSel >= len(cols) || target < 0 || target >= len(cols) {
		return
	}
	a, b := orderIndex(t.order, cols[t.colSel]), orderIndex(t.order, cols[target])
	if a < 0 || b < 0 {
		return
	}
	t.order[a], t.order[b] = t.order[b], t.order[a]
	t.colSel = target
}

func orderIndex(order []int, col int) int {
	for i, c := range order {
		if c == col {
			return i
		}
	}
	return -1
}

func (t *Tab) adjustWidth(delta int) {
	c := t.selectedColumn()
	if c < 0 {
		return
	}
	t.widthAdj[c] += delta
}

// resetColumns restores natural order, visibility and widths.
func (t *Tab) resetColumns() {
	n := t.data.NumCols()
	t.order = make([]int, n)
	for i := range t.order {
		t.order[i] = i
	}
	t.hidden = make(map[int]bool)
	t.widthAdj = make(map[int]int)
}

// exportView materializes the tab as the user sees it: filtered rows,
// visible columns, display order.
func (t *Tab) exportView() ([]string, [][]string) {
	t.ensureFiltered()
	cols := t.visibleCols()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = t.data.Headers()[c]
	}
	n := t.rowCount()
	rows := make([][]string, 0, n)
	for v := 0; v < n; v++ {
		full := t.rowStrings(v)
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = full[c]
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// matcher is the row filter: plain terms match any cell case-insensitively,
// /term/ compiles as a regular expression.
type matcher struct {
	re     *regexp.Regexp
	needle string
}

func newMatcher(q string) matcher {
	if len(q) > 2 && strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/") {
		if re, err := regexp.Compile(q[1 : len(q)-1]); err == nil {
			return matcher{re: re}
		}
	}
	return matcher{needle: strings.ToLower(q)}
}

func (m matcher) matchRow(cells []string) bool {
	for _, cell := range cells {
		if m.re != nil {
			if m.re.MatchString(cell) {
				return true
			}
			continue
		}
		if strings.Contains(strings.ToLower(cell), m.needle) {
			return true
		}
	}
	return false
}

// Workspace is the ordered set of open tabs.
type Workspace struct {
	tabs   []*Tab
	active int
}

func newWorkspace(first *Tab) *Workspace {
	return &Workspace{tabs: []*Tab{first}}
}

func (w *Workspace) activeTab() *Tab { return w.tabs[w.active] }
func (w *Workspace) count() int      { return len(w.tabs) }

func (w *Workspace) add(t *Tab) {
	w.tabs = append(w.tabs, t)
	w.active = len(w.tabs) - 1
}

// closeActive removes the current tab and reports whether any tabs remain.
func (w *Workspace) closeActive() bool {
	if t := w.activeTab(); t.session != nil {
		t.session.Close()
		t.session = nil
	}
	w.tabs = append(w.tabs[:w.active], w.tabs[w.active+1:]...)
	if len(w.tabs) == 0 {
		return false
	}
	if w.active >= len(w.tabs) {
		w.active = len(w.tabs) - 1
	}
	return true
}

func (w *Workspace) next() {
	w.active = (w.active + 1) % len(w.tabs)
}

func (w *Workspace) prev() {
	w.active = (w.active - 1 + len(w.tabs)) % len(w.tabs)
}

func (w *Workspace) switchTo(i int) {
	if i >= 0 && i < len(w.tabs) {
		w.active = i
	}
}
