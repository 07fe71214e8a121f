// Package ingest turns raw input into parsed table rows. Sources (stdin,
// file, tail, demo) produce lines; a Session owns the parsing goroutine that
// batches rows onto a bounded channel the UI drains on its own schedule.
package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"tabscope/internal/parse"
)

const (
	// headerLookahead bounds how far Start scans for the header before
	// giving up on the input.
	headerLookahead = 20
	// batchSize is how many rows accumulate before a send. Row count
	// advances with the same granularity.
	batchSize = 1000
	// batchBuffer decouples parse speed from UI drain speed.
	batchBuffer = 64
)

var ErrInvalidFormat = errors.New("no table header found in input")

// Session parses one result table off a line stream. The parsing goroutine
// is the only sender on batches and the only writer of the counters; the UI
// goroutine polls TryReceive each tick.
type Session struct {
	headers []string
	batches chan [][]string

	rows      atomic.Int64
	cancelled atomic.Bool
	complete  atomic.Bool

	quit chan struct{}
	stop sync.Once
	done chan struct{}
}

// Start scans for the table header within the first headerLookahead lines,
// then hands the stream to the parsing goroutine. It blocks until the header
// is found or ruled out; ErrInvalidFormat means the input never presented
// one. The returned session is streaming immediately.
func Start(ctx context.Context, lines <-chan Line) (*Session, error) {
	var buffer []string
	for len(buffer) < headerLookahead {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ln, ok := <-lines:
			if !ok {
				return nil, ErrInvalidFormat
			}
			buffer = append(buffer, ln.Text)
		}
		if headers, dataStart, ok := parse.FindHeader(buffer); ok {
			s := &Session{
				headers: headers,
				batches: make(chan [][]string, batchBuffer),
				quit:    make(chan struct{}),
				done:    make(chan struct{}),
			}
			go s.run(ctx, lines, buffer[dataStart:])
			return s, nil
		}
	}
	return nil, ErrInvalidFormat
}

func (s *Session) Headers() []string { return s.headers }

// Rows reports how many rows have been handed to the batch channel. It
// advances batch-wise, not per row.
func (s *Session) Rows() int64 { return s.rows.Load() }

// IsComplete reports whether the parsing goroutine has finished. It is set
// on every exit path, including cancellation.
func (s *Session) IsComplete() bool { return s.complete.Load() }

func (s *Session) IsCancelled() bool { return s.cancelled.Load() }

// Cancel asks the parsing goroutine to stop. It returns without waiting;
// the goroutine notices between lines, flushes what it holds and completes.
func (s *Session) Cancel() {
	s.stop.Do(func() {
		s.cancelled.Store(true)
		close(s.quit)
	})
}

// Close cancels and waits for the parsing goroutine to exit. Safe to call
// more than once and after normal completion.
func (s *Session) Close() {
	s.Cancel()
	<-s.done
}

// TryReceive drains whole batches without blocking until at least maxRows
// rows are collected; maxRows <= 0 drains everything currently buffered.
// Batch granularity means the result may run slightly past maxRows.
func (s *Session) TryReceive(maxRows int) [][]string {
	var out [][]string
	for maxRows <= 0 || len(out) < maxRows {
		select {
		case b, ok := <-s.batches:
			if !ok {
				return out
			}
			out = append(out, b...)
		default:
			return out
		}
	}
	return out
}

func (s *Session) run(ctx context.Context, lines <-chan Line, pending []string) {
	defer close(s.done)
	defer s.complete.Store(true)
	defer close(s.batches)

	batch := make([][]string, 0, batchSize)
	for _, text := range pending {
		if row, ok := parseRow(text); ok {
			batch = append(batch, row)
			if len(batch) == batchSize {
				if !s.send(ctx, batch) {
					return
				}
				batch = make([][]string, 0, batchSize)
			}
		}
	}
	for {
		select {
		case <-ctx.Done():
			s.cancelled.Store(true)
			s.tryFlush(batch)
			return
		case <-s.quit:
			s.tryFlush(batch)
			return
		case ln, ok := <-lines:
			if !ok {
				if len(batch) > 0 {
					s.send(ctx, batch)
				}
				return
			}
			row, ok := parseRow(ln.Text)
			if !ok {
				continue
			}
			batch = append(batch, row)
			if len(batch) == batchSize {
				if !s.send(ctx, batch) {
					return
				}
				batch = make([][]string, 0, batchSize)
			}
		}
	}
}

// send blocks until the batch lands or the session is told to stop. Rows
// count only once delivered.
func (s *Session) send(ctx context.Context, batch [][]string) bool {
	select {
	case s.batches <- batch:
		s.rows.Add(int64(len(batch)))
		return true
	case <-ctx.Done():
		s.cancelled.Store(true)
		return false
	case <-s.quit:
		return false
	}
}

// tryFlush hands over a partial batch on the way out if there is room. On
// cancellation the consumer may already be gone, so never block here.
func (s *Session) tryFlush(batch [][]string) {
	if len(batch) == 0 {
		return
	}
	select {
	case s.batches <- batch:
		s.rows.Add(int64(len(batch)))
	default:
	}
}

// parseRow keeps data lines and drops table furniture: separators, footers
// and blank lines.
func parseRow(text string) ([]string, bool) {
	if parse.IsBlank(text) || parse.IsSeparator(text) || parse.IsFooter(text) {
		return nil, false
	}
	return parse.SplitRow(text), true
}
