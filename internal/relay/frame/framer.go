// Package frame extracts newline-terminated lines from a raw byte stream.
package frame

import (
	"bufio"
	"io"
)

// Framer - reads one newline-terminated line per call from an underlying stream.
// The trailing newline stays in the returned line, so a relayed line is written
// outward exactly as it was read. Not safe for concurrent use.
type Framer struct {
	source *bufio.Reader
	acc    []byte
}

// New - builds Framer over given reader.
func New(r io.Reader) *Framer {
	return &Framer{source: bufio.NewReader(r)}
}

// ReadLine - blocks until a newline byte is observed, the stream ends or
// an I/O error occurs. A stream ending in the middle of a line yields the
// unterminated remainder together with io.EOF; a clean end of stream yields
// an empty line with io.EOF. The internal accumulator is reset after every
// extracted line, so content never carries over between calls.
func (f *Framer) ReadLine() (string, error) {
	for {
		chunk, err := f.source.ReadSlice('\n')
		if len(chunk) > 0 {
			f.acc = append(f.acc, chunk...)
		}
		switch err {
		case nil:
			line := string(f.acc)
			f.acc = f.acc[:0]
			return line, nil
		case bufio.ErrBufferFull:
			// line is longer than the reader's window, keep accumulating
			continue
		default:
			line := string(f.acc)
			f.acc = f.acc[:0]
			return line, err
		}
	}
}
