package pdf

import (
	"bytes"
	"io"
	"sync"
)

// Document is a generated PDF. The caller must Close it.
type Document struct {
	data []byte
	r    *bytes.Reader
	mu   sync.Mutex
}

// NewDocument wraps PDF bytes. The slice must not be modified afterwards.
func NewDocument(data []byte) *Document {
	return &Document{data: data, r: bytes.NewReader(data)}
}

// Read implements io.Reader.
func (d *Document) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return 0, ErrDocumentClosed
	}
	return d.r.Read(p)
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return 0, ErrDocumentClosed
	}
	return d.r.WriteTo(w)
}

// Close releases the document. Closing twice is a no-op.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.r = nil
	d.data = nil
	return nil
}

// Size returns the document size in bytes, or 0 once closed.
func (d *Document) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.data))
}

// Clone returns an independent reader over the same bytes, positioned at the start.
func (d *Document) Clone() (*Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return nil, ErrDocumentClosed
	}
	return NewDocument(d.data), nil
}
