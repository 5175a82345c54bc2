/*
DESCRIPTION
  lex_test.go provides tests for the access unit lexer in lex.go.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

package h264

import (
	"bytes"
	"io"
	"strconv"
	"testing"
)

// auCollector records each Write as a separate access unit.
type auCollector struct {
	units [][]byte
}

func (c *auCollector) Write(p []byte) (int, error) {
	cpy := make([]byte, len(p))
	copy(cpy, p)
	c.units = append(c.units, cpy)
	return len(p), nil
}

func nal(typ byte, payload ...byte) []byte {
	return append([]byte{0x00, 0x00, 0x01, typ}, payload...)
}

func nal4(typ byte, payload ...byte) []byte {
	return append([]byte{0x00, 0x00, 0x00, 0x01, typ}, payload...)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var lexTests = []struct {
	in   []byte
	want [][]byte
}{
	// Single IDR slice, flushed at EOF.
	{
		in:   nal(0x65, 0xaa, 0xbb),
		want: [][]byte{nal(0x65, 0xaa, 0xbb)},
	},
	// SPS and PPS travel with the IDR slice that follows them; the non-IDR
	// slice is its own unit.
	{
		in: cat(nal(0x67, 0x42), nal(0x68, 0xce), nal(0x65, 0x88), nal(0x41, 0x9a)),
		want: [][]byte{
			cat(nal(0x67, 0x42), nal(0x68, 0xce), nal(0x65, 0x88)),
			nal(0x41, 0x9a),
		},
	},
	// Four byte start codes.
	{
		in: cat(nal4(0x65, 0x88, 0x99), nal4(0x41, 0x9a)),
		want: [][]byte{
			nal4(0x65, 0x88, 0x99),
			nal4(0x41, 0x9a),
		},
	},
	// SEI attaches to the following slice.
	{
		in: cat(nal(0x41, 0x01), nal(0x06, 0x05), nal(0x41, 0x02)),
		want: [][]byte{
			nal(0x41, 0x01),
			cat(nal(0x06, 0x05), nal(0x41, 0x02)),
		},
	},
	// Slice payloads containing zero bytes must not split early.
	{
		in: cat(nal(0x65, 0x00, 0x00, 0x02, 0x03), nal(0x41, 0x00)),
		want: [][]byte{
			nal(0x65, 0x00, 0x00, 0x02, 0x03),
			nal(0x41, 0x00),
		},
	},
}

func TestLex(t *testing.T) {
	for i, tt := range lexTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			var dst auCollector
			err := Lex(&dst, bytes.NewReader(tt.in))
			if err != io.EOF {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(dst.units) != len(tt.want) {
				t.Fatalf("wrong number of access units: want %d, got %d", len(tt.want), len(dst.units))
			}
			for j, want := range tt.want {
				if !bytes.Equal(dst.units[j], want) {
					t.Errorf("access unit %d mismatch: want %v, got %v", j, want, dst.units[j])
				}
			}
		})
	}
}

func TestLexEmpty(t *testing.T) {
	var dst auCollector
	err := Lex(&dst, bytes.NewReader(nil))
	if err != io.EOF {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dst.units) != 0 {
		t.Errorf("expected no access units, got %d", len(dst.units))
	}
}
