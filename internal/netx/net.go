// Package netx contains HTTP transfer helpers used by the storage layer.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ProgressFunc receives upload progress as a whole percentage (0-100).
type ProgressFunc func(percent int)

// ProgressReader wraps an io.Reader of known size and reports the share of
// bytes read so far. Reports are monotonic and deduplicated. Reading never
// reports more than 99; 100 is left to Done, once the transfer is confirmed.
type ProgressReader struct {
	r        io.Reader
	total    int64
	read     int64
	last     int
	onChange ProgressFunc
}

// NewProgressReader returns a reader reporting to fn. A nil fn is allowed.
func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, last: -1, onChange: fn}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)

	switch {
	case p.total > 0 && p.read < p.total:
		p.report(int(p.read * 100 / p.total))
	case p.total > 0 || err == io.EOF:
		p.report(99)
	}
	return n, err
}

// Done reports 100.
func (p *ProgressReader) Done() {
	p.report(100)
}

func (p *ProgressReader) report(pct int) {
	if pct <= p.last || p.onChange == nil {
		return
	}
	p.last = pct
	p.onChange(pct)
}

// PutWithProgress streams body to a presigned URL with an HTTP PUT and
// reports progress through fn. size must be the exact body length.
func PutWithProgress(ctx context.Context, client *http.Client, url string, body io.Reader, size int64, contentType string, fn ProgressFunc) error {
	if client == nil {
		client = http.DefaultClient
	}
	pr := NewProgressReader(body, size, fn)
	pr.report(0)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, pr)
	if err != nil {
		return err
	}
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	pr.Done()
	return nil
}
