package listener

import (
	"bufio"
	"bytes"
	"io"
)

const maxLineLength = 64 * 1024

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
)

// lineConn frames a byte stream as newline-delimited messages. Telnet
// peers end lines with CRLF and some terminals send a bare CR, so both
// are read as LF. Writes always end in CRLF.
type lineConn struct {
	scanner *bufio.Scanner
	w       io.Writer
}

func newLineConn(rw io.ReadWriter) *lineConn {
	scanner := bufio.NewScanner(rw)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	scanner.Split(scanAnyLine)
	return &lineConn{scanner: scanner, w: rw}
}

// ReadMessage returns the next non-blank line. io.EOF means the peer hung up.
func (c *lineConn) ReadMessage() ([]byte, error) {
	for c.scanner.Scan() {
		line := bytes.TrimSpace(c.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return bytes.Clone(line), nil
	}
	if err := c.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (c *lineConn) WriteMessage(data []byte) error {
	msg := make([]byte, 0, len(data)+len(crlf))
	msg = append(msg, bytes.ReplaceAll(data, lf, crlf)...)
	msg = append(msg, crlf...)
	_, err := c.w.Write(msg)
	return err
}

// scanAnyLine splits on LF, CRLF or a lone CR.
func scanAnyLine(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	i := bytes.IndexAny(data, "\r\n")
	if i < 0 {
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
	if data[i] == '\r' {
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if !atEOF {
			// The LF of a CRLF may be in the next read.
			return 0, nil, nil
		}
	}
	return i + 1, data[:i], nil
}
