/*
DESCRIPTION
  scanner.go provides buffered byte scanning for the bytestream lexer.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

package h264

import "io"

// scanner is a byte-level scanner over an io.Reader with a caller supplied
// read buffer.
type scanner struct {
	buf []byte
	off int
	r   io.Reader
}

func newScanner(r io.Reader, buf []byte) *scanner {
	return &scanner{r: r, buf: buf[:0]}
}

// scanUntil reads from the underlying reader until a delim byte has been
// read, appending all read bytes, delimiter included, to dst. It returns the
// appended data and the last byte read.
func (s *scanner) scanUntil(dst []byte, delim byte) (res []byte, b byte, err error) {
outer:
	for {
		var i int
		for i, b = range s.buf[s.off:] {
			if b != delim {
				continue
			}
			dst = append(dst, s.buf[s.off:s.off+i+1]...)
			s.off += i + 1
			break outer
		}
		dst = append(dst, s.buf[s.off:]...)
		err = s.reload()
		if err != nil {
			break
		}
	}
	return dst, b, err
}

// readByte returns the next byte from the scanner.
func (s *scanner) readByte() (byte, error) {
	if s.off >= len(s.buf) {
		err := s.reload()
		if err != nil {
			return 0, err
		}
	}
	b := s.buf[s.off]
	s.off++
	return b, nil
}

// reload refills the scanner's buffer from the reader.
func (s *scanner) reload() error {
	n, err := s.r.Read(s.buf[:cap(s.buf)])
	s.buf = s.buf[:n]
	if err != nil {
		if err != io.EOF {
			return err
		}
		if n == 0 {
			return io.EOF
		}
	}
	s.off = 0
	return nil
}
