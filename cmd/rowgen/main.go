package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"
)

func main() {
	var (
		rows     int
		cols     int
		rate     float64
		outPath  string
		toStdout bool
		seed     int64
		wide     bool
	)
	flag.IntVar(&rows, "rows", 1000, "Rows to emit; 0 runs until interrupted")
	flag.IntVar(&cols, "cols", 6, "Number of columns")
	flag.Float64Var(&rate, "rate", 0, "Rows per second; 0 emits as fast as possible")
	flag.StringVar(&outPath, "out", "", "Output file path; empty writes to stdout")
	flag.BoolVar(&toStdout, "stdout", false, "Write to stdout even when --out is set")
	flag.Int64Var(&seed, "seed", 0, "Random seed; 0 derives one from the clock")
	flag.BoolVar(&wide, "wide", false, "Append a long note column")
	flag.Parse()

	if cols < 1 {
		cols = 1
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	// Setup interrupt handling
	var interrupted atomic.Bool
	abort := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		interrupted.Store(true)
		close(abort)
	}()

	shouldStop := func() bool {
		select {
		case <-abort:
			return true
		default:
			return false
		}
	}

	out := os.Stdout
	if outPath != "" && !toStdout {
		f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", outPath, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	schema := buildColumns(cols, wide)
	writeHeader(w, schema)

	n := emitRows(w, r, schema, rows, rate, shouldStop)

	// A clean run ends with the psql row-count footer. An interrupted run
	// leaves the table truncated with no footer.
	if !interrupted.Load() {
		if n == 1 {
			fmt.Fprintln(w, "(1 row)")
		} else {
			fmt.Fprintf(w, "(%d rows)\n", n)
		}
	} else {
		fmt.Fprintf(os.Stderr, "interrupted after %d rows\n", n)
	}
}

func emitRows(w *bufio.Writer, r *rand.Rand, schema []column, rows int, rate float64, shouldStop func() bool) int {
	var tick *time.Ticker
	if rate > 0 {
		interval := time.Duration(float64(time.Second) / rate)
		if interval <= 0 {
			interval = time.Millisecond
		}
		tick = time.NewTicker(interval)
		defer tick.Stop()
	}
	n := 0
	for rows == 0 || n < rows {
		if shouldStop() {
			break
		}
		if tick != nil {
			<-tick.C
		}
		writeRow(w, r, schema, n)
		n++
		if tick != nil || n%1000 == 0 {
			w.Flush()
		}
	}
	return n
}

type column struct {
	name  string
	width int
	right bool // numeric columns are right-aligned, as psql prints them
	gen   func(r *rand.Rand, row int) string
}

func buildColumns(n int, wide bool) []column {
	base := []column{
		{name: "id", width: 8, right: true, gen: func(_ *rand.Rand, row int) string { return fmt.Sprint(row + 1) }},
		{name: "sku", width: 7, gen: func(r *rand.Rand, _ int) string {
			return fmt.Sprintf("%s-%04d", pick(r, "KB", "MS", "HD", "CB", "DK"), randInt(r, 1, 9999))
		}},
		{name: "status", width: 9, gen: func(r *rand.Rand, _ int) string {
			return pick(r, "new", "paid", "shipped", "delivered", "cancelled", "refunded")
		}},
		{name: "qty", width: 3, right: true, gen: func(r *rand.Rand, _ int) string { return fmt.Sprint(randInt(r, 1, 500)) }},
		{name: "price", width: 7, right: true, gen: func(r *rand.Rand, _ int) string {
			return fmt.Sprintf("%.2f", 0.5+r.Float64()*9999)
		}},
		{name: "region", width: 14, gen: func(r *rand.Rand, _ int) string {
			return pick(r, "us-east-1", "us-west-2", "eu-west-1", "sa-east-1", "ap-northeast-1")
		}},
		{name: "user_name", width: 9, gen: func(r *rand.Rand, _ int) string {
			return pick(r, "alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi")
		}},
		{name: "created_at", width: 19, gen: func(r *rand.Rand, _ int) string {
			t := time.Now().Add(-time.Duration(randInt(r, 0, 86400*30)) * time.Second)
			return t.Format("2006-01-02 15:04:05")
		}},
		{name: "latency_ms", width: 10, right: true, gen: func(r *rand.Rand, _ int) string {
			return fmt.Sprintf("%.1f", 0.5+r.Float64()*4500)
		}},
		{name: "ok", width: 2, gen: func(r *rand.Rand, _ int) string { return pick(r, "t", "f") }},
	}
	out := make([]column, 0, n+1)
	for i := 0; i < n; i++ {
		if i < len(base) {
			out = append(out, base[i])
			continue
		}
		out = append(out, column{
			name:  fmt.Sprintf("c%02d", i+1),
			width: 8,
			gen:   func(r *rand.Rand, _ int) string { return randHex(r, 8) },
		})
	}
	if wide {
		out = append(out, column{name: "note", width: 60, gen: randomNote})
	}
	return out
}

// writeHeader emits the header line and separator rule the way psql does:
// centered names, one space of padding per cell, dashes joined by '+'.
func writeHeader(w *bufio.Writer, schema []column) {
	cells := make([]string, len(schema))
	segs := make([]string, len(schema))
	for i, c := range schema {
		cells[i] = " " + center(c.name, c.width) + " "
		segs[i] = strings.Repeat("-", c.width+2)
	}
	fmt.Fprintln(w, strings.Join(cells, "|"))
	fmt.Fprintln(w, strings.Join(segs, "+"))
	w.Flush()
}

func writeRow(w *bufio.Writer, r *rand.Rand, schema []column, row int) {
	cells := make([]string, len(schema))
	for i, c := range schema {
		v := c.gen(r, row)
		pad := ""
		if len(v) < c.width {
			pad = strings.Repeat(" ", c.width-len(v))
		}
		if c.right {
			cells[i] = " " + pad + v + " "
		} else {
			cells[i] = " " + v + pad + " "
		}
	}
	fmt.Fprintln(w, strings.Join(cells, "|"))
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func pick(r *rand.Rand, opts ...string) string { return opts[r.Intn(len(opts))] }

func randInt(r *rand.Rand, min, max int) int { return r.Intn(max-min+1) + min }

func randHex(r *rand.Rand, n int) string {
	const hexdigits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = hexdigits[r.Intn(len(hexdigits))]
	}
	return string(b)
}

func randomNote(r *rand.Rand, _ int) string {
	words := []string{
		"expedited", "gift", "wrap", "fragile", "leave", "at", "door",
		"signature", "required", "billing", "address", "verified",
		"promo", "applied", "backordered", "warehouse", "transfer",
		"pending", "review", "priority",
	}
	n := randInt(r, 3, 8)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[r.Intn(len(words))]
	}
	s := strings.Join(parts, " ")
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
