package downloader

import (
	"context"
	"io"
	"os"
	"time"
)

// progressWriter tees download bytes into a throttled progress line on
// stderr. Updates are capped at ten per second.
type progressWriter struct {
	size       int64
	total      int64
	start      time.Time
	lastUpdate time.Time
	finished   bool
	prefix     string
	printer    *Printer
}

func newProgressWriter(size int64, printer *Printer, prefix string) *progressWriter {
	now := time.Now()
	return &progressWriter{
		size:       size,
		start:      now,
		lastUpdate: now,
		prefix:     prefix,
		printer:    printer,
	}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n := len(b)
	p.total += int64(n)

	now := time.Now()
	if now.Sub(p.lastUpdate) >= 100*time.Millisecond {
		p.lastUpdate = now
		p.print()
	}
	return n, nil
}

func (p *progressWriter) print() {
	if p.finished {
		return
	}
	line := p.printer.progressLine(p.prefix, p.total, p.size, time.Since(p.start))
	os.Stderr.WriteString("\r" + line)
}

// Reset rearms the writer for a retried transfer with a fresh size.
func (p *progressWriter) Reset(size int64) {
	p.size = size
	p.total = 0
	p.start = time.Now()
	p.lastUpdate = p.start
	p.finished = false
}

func (p *progressWriter) Finish() {
	if p.finished {
		return
	}
	p.finished = true
	line := p.printer.progressLine(p.prefix, p.total, p.size, time.Since(p.start))
	os.Stderr.WriteString("\r" + line + "\n")
}

func (p *progressWriter) NewLine() {
	if !p.finished {
		os.Stderr.WriteString("\n")
	}
}

// copyWithContext copies src to dst, aborting promptly when the context is
// cancelled mid-stream.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			w, writeErr := dst.Write(buf[:n])
			written += int64(w)
			if writeErr != nil {
				return written, writeErr
			}
			if w < n {
				return written, io.ErrShortWrite
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, readErr
		}
	}
}
