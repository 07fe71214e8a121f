package model

import "github.com/mattn/go-runewidth"

// cellPadding is the single trailing space every column reserves so adjacent
// values never touch.
const cellPadding = 1

// widthCache tracks, per column, the widest display width seen so far plus
// padding. Appends only ever widen a column, so the cache updates from the
// new rows alone; a full rebuild happens only when the table is replaced.
type widthCache struct {
	cols []int
}

func (w *widthCache) reset(headers []string) {
	w.cols = make([]int, len(headers))
	for i, h := range headers {
		w.cols[i] = runewidth.StringWidth(h) + cellPadding
	}
}

func (w *widthCache) update(rows [][]string) {
	for _, row := range rows {
		n := len(row)
		if n > len(w.cols) {
			n = len(w.cols)
		}
		for i := 0; i < n; i++ {
			if d := runewidth.StringWidth(row[i]) + cellPadding; d > w.cols[i] {
				w.cols[i] = d
			}
		}
	}
}
