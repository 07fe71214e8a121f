package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nxadm/tail"
)

type SourceKind string

const (
	SourceStdin SourceKind = "stdin"
	SourceFile  SourceKind = "file"
	SourceDemo  SourceKind = "demo"
)

type Options struct {
	Source      SourceKind
	Path        string
	Follow      bool
	ScanBufSize int // per-line max (bytes)
}

type Line struct {
	Text   string
	Source string
	When   time.Time
}

// Read starts the configured line source. Lines arrive on the first channel
// until the source is exhausted or ctx is cancelled; read failures go to the
// second. Both channels close when the source goroutine exits.
func Read(ctx context.Context, opt Options) (<-chan Line, <-chan error) {
	out := make(chan Line, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		switch opt.Source {
		case SourceStdin:
			readFromReader(ctx, os.Stdin, "stdin", opt.ScanBufSize, out, errs)
		case SourceFile:
			if opt.Follow {
				readFromTail(ctx, opt.Path, out, errs)
			} else {
				f, err := os.Open(opt.Path)
				if err != nil {
					errs <- err
					return
				}
				defer f.Close()
				readFromReader(ctx, f, opt.Path, opt.ScanBufSize, out, errs)
			}
		case SourceDemo:
			demo(ctx, out)
		default:
			errs <- errors.New("unknown source kind")
		}
	}()

	return out, errs
}

// FromReader adapts any reader into a line source. Useful for tests and for
// feeding captured output through the same path as live input.
func FromReader(ctx context.Context, r io.Reader, name string, maxBuf int) (<-chan Line, <-chan error) {
	out := make(chan Line, 1024)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		readFromReader(ctx, r, name, maxBuf, out, errs)
	}()
	return out, errs
}

func readFromReader(ctx context.Context, r io.Reader, src string, maxBuf int, out chan<- Line, errs chan<- error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*64)
	if maxBuf <= 0 {
		maxBuf = 1024 * 1024
	}
	scanner.Buffer(buf, maxBuf)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		case out <- Line{Text: scanner.Text(), Source: src, When: time.Now()}:
		}
	}
	if err := scanner.Err(); err != nil {
		errs <- err
	}
}

// readFromTail follows a growing file. Unlike a log tail it starts from the
// beginning: the table header lives at the top of the file, and skipping it
// would leave nothing to anchor parsing on.
func readFromTail(ctx context.Context, path string, out chan<- Line, errs chan<- error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
	})
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				errs <- l.Err
				continue
			}
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case out <- Line{Text: l.Text, Source: path, When: time.Now()}:
			}
		}
	}
}

// demo emits an endless orders table, one row every 100ms. No footer: the
// point is to exercise the streaming path.
func demo(ctx context.Context, out chan<- Line) {
	header := []string{
		"  id  | customer |  status   |  total  |     created_at      ",
		"------+----------+-----------+---------+---------------------",
	}
	for _, l := range header {
		select {
		case <-ctx.Done():
			return
		case out <- Line{Text: l, Source: "demo", When: time.Now()}:
		}
	}
	customers := []string{"diana", "eric", "fatima", "george", "helen"}
	statuses := []string{"pending", "paid", "shipped", "cancelled"}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	i := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			row := fmt.Sprintf(" %d | %s | %s | %d.%02d | %s",
				i+1,
				customers[i%len(customers)],
				statuses[i%len(statuses)],
				(i*137)%900, i%100,
				time.Now().Add(-time.Duration(i)*time.Minute).Format("2006-01-02 15:04:05"))
			select {
			case <-ctx.Done():
				return
			case out <- Line{Text: row, Source: "demo", When: time.Now()}:
			}
			i++
		}
	}
}
