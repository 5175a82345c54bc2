/*
DESCRIPTION
  encoder.go provides an io.Writer that transmits access units to a
  device.Display as sequences of fixed-size chunked packets.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

package chunk

import (
	"errors"

	"github.com/ausocean/utils/logging"

	"github.com/H4rk3nz0/GalahadII-LCD-Linux/device"
)

// Used to indicate package in logging.
const pkg = "chunk: "

// ErrEmptyAccessUnit is returned by Encoder.Write for a zero length unit;
// the protocol has no representation for an empty frame.
var ErrEmptyAccessUnit = errors.New("empty access unit")

// Encoder splits access units into link-layer packets and writes them to a
// device.Display. One call to Write transmits one whole access unit.
//
// Delivery is best-effort by design: the link carries no acknowledgements,
// so a failed packet write is logged and deliberately discarded, and
// transmission proceeds with the next chunk. The sequence counter is owned
// by the Encoder for the whole session; it advances by one per chunk sent or
// attempted and is never reset between frames, wrapping modulo 2^24.
type Encoder struct {
	dst device.Display
	log logging.Logger
	seq uint32
	pkt [PacketSize]byte
}

// NewEncoder returns an Encoder that transmits to dst.
func NewEncoder(dst device.Display, l logging.Logger) *Encoder {
	return &Encoder{dst: dst, log: l}
}

// Write implements io.Writer. au must be one whole access unit; it is
// transmitted as ceil(len(au)/MaxPayload) packets of exactly PacketSize
// bytes. Write only fails for an empty unit; transport errors are consumed
// by the best-effort policy above.
func (e *Encoder) Write(au []byte) (int, error) {
	total := len(au)
	if total == 0 {
		return 0, ErrEmptyAccessUnit
	}

	for sent := 0; sent < total; {
		l := total - sent
		if l > MaxPayload {
			l = MaxPayload
		}

		h := Header{Total: uint32(total), Seq: e.seq, Len: uint16(l)}
		h.Bytes(e.pkt[:HeaderSize])
		copy(e.pkt[HeaderSize:], au[sent:sent+l])
		zero(e.pkt[HeaderSize+l:])

		_, err := e.dst.WriteBulk(e.pkt[:])
		if err != nil {
			e.log.Warning(pkg+"bulk write failed, dropping chunk", "error", err.Error(), "seq", e.seq&seqMask, "chunkLen", l)
		}

		e.seq++ // Wraps naturally; only the low 24 bits go on the wire.
		sent += l
	}
	return total, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
