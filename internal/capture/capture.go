// Package capture records relayed frames to disk and replays them.
//
// A capture file is a msgpack stream: a format string followed by one map
// per Record. Files are append-only while the relay runs and can be
// uploaded to S3 once closed.
package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tnetkit/tnet/pkg/protocol"
)

// Format identifies the capture stream layout.
const Format = "tnet-capture/1"

// Ext is the file extension used by Create.
const Ext = ".tnc"

// ErrFormat is returned by NewReader for a stream that is not a capture.
var ErrFormat = errors.New("capture: unrecognized format")

// Record is one captured frame.
type Record struct {
	Time      time.Time          `msgpack:"t"`
	Conn      uint64             `msgpack:"c"`
	Direction protocol.Direction `msgpack:"d"`
	Frame     []byte             `msgpack:"f"`
	Rewritten bool               `msgpack:"r,omitempty"`
	Dropped   bool               `msgpack:"x,omitempty"`
}

// Writer appends records to a stream. It is safe for concurrent use.
type Writer struct {
	mu   sync.Mutex
	buf  *bufio.Writer
	enc  *msgpack.Encoder
	file *os.File
	path string
	n    int
}

// NewWriter writes the format header to w and returns a Writer.
func NewWriter(w io.Writer) (*Writer, error) {
	buf := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(buf)
	if err := enc.EncodeString(Format); err != nil {
		return nil, fmt.Errorf("capture: write header: %w", err)
	}
	return &Writer{buf: buf, enc: enc}, nil
}

// Create creates a new capture file in dir, named after the current time.
func Create(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	name := "capture-" + time.Now().UTC().Format("20060102T150405.000000000") + Ext
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	w, err := NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.file = f
	w.path = path
	return w, nil
}

// Path returns the file path for a Writer made by Create.
func (w *Writer) Path() string {
	return w.path
}

// Len returns the number of records written.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// Write appends rec. The frame bytes are encoded before Write returns, so
// the caller may reuse them.
func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.enc.Encode(&rec); err != nil {
		return fmt.Errorf("capture: write record: %w", err)
	}
	w.n++
	return nil
}

// Flush writes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Flush()
}

// Close flushes and, for a Writer made by Create, closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.buf.Flush()
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
		w.file = nil
	}
	return err
}

// Reader reads records written by a Writer.
type Reader struct {
	dec    *msgpack.Decoder
	closer io.Closer
}

// NewReader checks the format header of r and returns a Reader.
func NewReader(r io.Reader) (*Reader, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	format, err := dec.DecodeString()
	if err != nil || format != Format {
		return nil, ErrFormat
	}
	return &Reader{dec: dec}, nil
}

// Open opens a capture file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("capture: %s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("capture: read record: %w", err)
	}
	return rec, nil
}

// Close closes the file opened by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
