/*
DESCRIPTION
  lex.go provides a lexer to split an annex-B H.264 bytestream into access
  units for preloading and replay.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

// Package h264 provides a lexer to partition an H.264 elementary bytestream
// into access units, the unit of chunking and pacing for the panel driver.
package h264

import (
	"io"
)

// NAL unit type codes relevant to access unit boundaries, per ITU-T H.264
// table 7-1.
const (
	nalNonIDRSlice = 1
	nalIDRSlice    = 5
)

const (
	scanBufSize = 4 << 10
	auBufSize   = 8 << 10
)

// Lex reads an annex-B H.264 bytestream from src and writes each access unit
// to dst as a single Write, in stream order. Units are split after slice NAL
// units (types 1 and 5) so that parameter sets and SEI travel with the
// picture that follows them. The final unit is flushed when src is
// exhausted; Lex then returns io.EOF.
func Lex(dst io.Writer, src io.Reader) error {
	sc := newScanner(src, make([]byte, scanBufSize))

	buf := make([]byte, 0, auBufSize)
	flush := false
	seen := false // Whether a start code has been seen at all.

	for {
		var b byte
		var err error
		buf, b, err = sc.scanUntil(buf, 0x00)
		if err != nil {
			return lexEOF(dst, buf, seen, err)
		}

		// A zero has been read; check for a 3 or 4 byte start code.
		for n := 1; b == 0x00 && n < 4; n++ {
			b, err = sc.readByte()
			if err != nil {
				return lexEOF(dst, buf, seen, err)
			}
			buf = append(buf, b)

			if b != 0x01 || (n != 2 && n != 3) {
				continue
			}

			// Start code found. If the previous NAL completed a picture,
			// everything before this start code is one access unit.
			seen = true
			if flush {
				au := buf[:len(buf)-(n+1)]
				_, err := dst.Write(au)
				if err != nil {
					return err
				}
				rest := make([]byte, 0, auBufSize)
				rest = append(rest, buf[len(au):]...)
				buf = rest
				flush = false
			}

			b, err = sc.readByte()
			if err != nil {
				return lexEOF(dst, buf, seen, err)
			}
			buf = append(buf, b)

			switch typ := b & 0x1f; typ {
			case nalNonIDRSlice, nalIDRSlice:
				flush = true
			}
		}
	}
}

// lexEOF finalises lexing when the source is exhausted. A non-empty buffer at
// EOF is the final access unit of the stream and is flushed before returning
// io.EOF, but only if a start code was ever seen; data without start codes is
// not H.264 and is discarded. Errors other than io.EOF are passed through.
func lexEOF(dst io.Writer, buf []byte, seen bool, err error) error {
	if err != io.EOF {
		return err
	}
	if seen && len(buf) != 0 {
		_, werr := dst.Write(buf)
		if werr != nil {
			return werr
		}
	}
	return io.EOF
}
