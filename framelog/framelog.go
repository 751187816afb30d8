// Package framelog appends fixed-size per-agent records to a flat binary
// log, one block per frame, for offline replay and inspection. Files ending
// in .zst are transparently zstd-compressed.
package framelog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"menagerie/components"
)

// Record is one agent's logged state for one frame: 17 bytes on the wire.
type Record struct {
	X      float32
	Y      float32
	Action components.ActionKind
	Hunger float32
	Energy float32
}

const recordSize = 17

// Writer appends frames to a log file. Frame sequence numbers are assigned
// by the writer, starting at zero.
type Writer struct {
	file *os.File
	zw   *zstd.Encoder
	w    *bufio.Writer
	seq  uint64
	buf  []byte
}

// Create opens a new log at path, truncating any existing file.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create frame log: %w", err)
	}

	w := &Writer{file: f}
	if strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		w.zw = zw
		w.w = bufio.NewWriter(zw)
	} else {
		w.w = bufio.NewWriter(f)
	}
	return w, nil
}

// WriteFrame appends one frame: a header (sequence, agent count) followed by
// one record per agent in index order.
func (w *Writer) WriteFrame(records []Record) error {
	var head [12]byte
	binary.LittleEndian.PutUint64(head[0:], w.seq)
	binary.LittleEndian.PutUint32(head[8:], uint32(len(records)))
	if _, err := w.w.Write(head[:]); err != nil {
		return fmt.Errorf("frame %d header: %w", w.seq, err)
	}

	if cap(w.buf) < recordSize {
		w.buf = make([]byte, recordSize)
	}
	b := w.buf[:recordSize]

	for i := range records {
		r := &records[i]
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(r.X))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(r.Y))
		b[8] = byte(r.Action)
		binary.LittleEndian.PutUint32(b[9:], math.Float32bits(r.Hunger))
		binary.LittleEndian.PutUint32(b[13:], math.Float32bits(r.Energy))
		if _, err := w.w.Write(b); err != nil {
			return fmt.Errorf("frame %d record %d: %w", w.seq, i, err)
		}
	}

	w.seq++
	return nil
}

// Close flushes and closes the log.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush frame log: %w", err)
	}
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			w.file.Close()
			return fmt.Errorf("close zstd writer: %w", err)
		}
	}
	return w.file.Close()
}

// Frame is one decoded log entry.
type Frame struct {
	Seq     uint64
	Records []Record
}

// Reader decodes a log written by Writer.
type Reader struct {
	file *os.File
	zr   *zstd.Decoder
	r    *bufio.Reader
}

// Open opens a log for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame log: %w", err)
	}

	r := &Reader{file: f}
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		r.zr = zr
		r.r = bufio.NewReader(zr)
	} else {
		r.r = bufio.NewReader(f)
	}
	return r, nil
}

// ReadFrame returns the next frame, or io.EOF at the end of the log.
func (r *Reader) ReadFrame() (*Frame, error) {
	var head [12]byte
	if _, err := io.ReadFull(r.r, head[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("frame header: %w", err)
	}

	frame := &Frame{
		Seq:     binary.LittleEndian.Uint64(head[0:]),
		Records: make([]Record, binary.LittleEndian.Uint32(head[8:])),
	}

	var b [recordSize]byte
	for i := range frame.Records {
		if _, err := io.ReadFull(r.r, b[:]); err != nil {
			return nil, fmt.Errorf("frame %d record %d: %w", frame.Seq, i, err)
		}
		frame.Records[i] = Record{
			X:      math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
			Y:      math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
			Action: components.ActionKind(b[8]),
			Hunger: math.Float32frombits(binary.LittleEndian.Uint32(b[9:])),
			Energy: math.Float32frombits(binary.LittleEndian.Uint32(b[13:])),
		}
	}
	return frame, nil
}

// Close closes the log.
func (r *Reader) Close() error {
	if r.zr != nil {
		r.zr.Close()
	}
	return r.file.Close()
}
