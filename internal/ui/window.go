package ui

// Column fitting and row windowing. Everything here works on plain ints so
// it can be tested without a terminal; refresh.go turns the results into
// bubbles table state.

// colFit is the outcome of fitting visible columns into the available
// width: a half-open range into the visible column order, the rendered
// width of each column in that range, and whether overflow indicators are
// due on either side.
type colFit struct {
	start, end  int
	widths      []int
	left, right bool
}

// indicatorCells is what one overflow indicator occupies: the glyph column
// plus its separator.
const indicatorCells = 2

// fitColumns fits columns starting at scroll into avail cells. Each column
// costs its width plus one separator. The first pass holds two cells back
// for a possible right indicator; when everything fits anyway, a second
// pass hands that space back to the columns.
func fitColumns(widths []int, scroll, avail int) colFit {
	n := len(widths)
	if n == 0 || avail <= 0 {
		return colFit{}
	}
	if scroll < 0 {
		scroll = 0
	}
	if scroll >= n {
		scroll = n - 1
	}
	left := scroll > 0
	if avail < indicatorCells+2 {
		// no room for the marker plus any column; the column wins
		left = false
	}

	fit := fitPass(widths, scroll, avail, left, true)
	if !fit.right {
		fit = fitPass(widths, scroll, avail, left, false)
	}
	return fit
}

func fitPass(widths []int, scroll, avail int, left, reserveRight bool) colFit {
	n := len(widths)
	lead := 0
	if left {
		lead = indicatorCells
	}
	budget := avail - lead
	if reserveRight {
		budget -= indicatorCells
	}

	fit := colFit{start: scroll, end: scroll, left: left}

	// The first column renders no matter what. When it overflows it gets
	// truncated, eating the indicator reservation before it shrinks below
	// the minimum.
	first := widths[scroll]
	if first+1 > budget {
		first = budget - 1
		if first < minColWidth {
			first = minColWidth
			if first > avail-lead-1 {
				first = avail - lead - 1
			}
		}
	}
	if first < 1 {
		first = 1
	}
	fit.widths = append(fit.widths, first)
	fit.end++
	used := first + 1

	for i := scroll + 1; i < n; i++ {
		rem := budget - used
		if rem < minColWidth+1 {
			break
		}
		w := widths[i]
		if w+1 > rem {
			w = rem - 1
		}
		fit.widths = append(fit.widths, w)
		fit.end++
		used += w + 1
		if w < widths[i] {
			// a partial column is necessarily the last one
			break
		}
	}

	// The right indicator renders only when columns are actually cut off
	// AND the space for it survived; a truncated first column may have
	// spent it.
	fit.right = fit.end < n && lead+used+indicatorCells <= avail
	return fit
}

// ensureColVisible advances scroll until the selected column is inside the
// fit, and returns the final fit with the scroll that produced it. A
// selection left of the scroll pulls the scroll back instead.
func ensureColVisible(widths []int, scroll, sel, avail int) (colFit, int) {
	if sel < scroll {
		scroll = sel
	}
	fit := fitColumns(widths, scroll, avail)
	for sel >= fit.end && scroll < len(widths)-1 {
		scroll++
		fit = fitColumns(widths, scroll, avail)
	}
	return fit, scroll
}

// rowWindow is the slice of filtered rows that actually gets resolved and
// rendered, a buffer of two screens either side of the selection.
type rowWindow struct {
	start, end int
}

func windowRows(total, sel, height int) rowWindow {
	if total <= 0 || height <= 0 {
		return rowWindow{}
	}
	if sel < 0 {
		sel = 0
	}
	if sel >= total {
		sel = total - 1
	}
	buf := 2 * height
	start := sel - buf
	if start < 0 {
		start = 0
	}
	end := sel + buf
	if end > total {
		end = total
	}
	return rowWindow{start: start, end: end}
}

// projection is one frame's worth of render state: the fitted columns, the
// row window with its cells resolved to strings, and the cursor translated
// into window space.
type projection struct {
	fit    colFit
	win    rowWindow
	cols   []int      // real column indices for fit range
	rows   [][]string // window rows, fit columns only
	cursor int        // rowSel in window space
}

// buildProjection resolves exactly what the screen needs: the fitted
// columns of the windowed rows, nothing else. It also persists the column
// scroll the fit settled on.
func buildProjection(t *Tab, availW, availH int) projection {
	t.ensureFiltered()
	t.clampSelection()

	widths := t.effectiveWidths()
	fit, scroll := ensureColVisible(widths, t.colScroll, t.colSel, availW)
	t.colScroll = scroll

	win := windowRows(t.rowCount(), t.rowSel, availH)

	visible := t.visibleCols()
	cols := visible[fit.start:fit.end]
	rows := make([][]string, 0, win.end-win.start)
	for v := win.start; v < win.end; v++ {
		full := t.rowStrings(v)
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = full[c]
		}
		rows = append(rows, row)
	}

	return projection{
		fit:    fit,
		win:    win,
		cols:   cols,
		rows:   rows,
		cursor: t.rowSel - win.start,
	}
}
