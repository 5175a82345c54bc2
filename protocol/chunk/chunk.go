/*
DESCRIPTION
  chunk.go describes the link-layer packet format used by the Galahad II
  panel for H.264 delivery, and provides marshalling of packet headers.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

// Package chunk implements the vendor chunked USB packet protocol that
// carries H.264 access units to the Galahad II panel. Each access unit is
// split into fixed 512 byte packets, each led by an 11 byte header:
//
//	| offset | size | field                                  |
//	|      0 |    1 | report id (0x02)                       |
//	|      1 |    1 | command code (0x0d, send H.264)        |
//	|      2 |    4 | total access unit length, big-endian   |
//	|      6 |    3 | rolling chunk sequence, big-endian     |
//	|      9 |    2 | this chunk's payload length, big-endian|
//	|     11 |  501 | payload, zero padded to packet end     |
package chunk

import (
	"encoding/binary"
)

// Link-layer packet constants.
const (
	PacketSize = 512                     // Every transmitted packet is exactly this size.
	HeaderSize = 11                      // Bytes of header at the start of each packet.
	MaxPayload = PacketSize - HeaderSize // 501 payload bytes per packet.

	reportIDVideo = 0x02 // Report identifier for video traffic.
	cmdSendH264   = 0x0d // Command code for an H.264 chunk.

	// The sequence field is 3 bytes on the wire; the counter wraps at 2^24.
	seqMask = 1<<24 - 1
)

// Header holds the per-packet header fields for one chunk of an access unit.
// Total is identical across every chunk of the same unit; Seq is the running
// session counter of which only the low 24 bits are transmitted.
type Header struct {
	Total uint32 // Byte length of the whole access unit.
	Seq   uint32 // Rolling chunk sequence counter.
	Len   uint16 // Byte length of this chunk's payload.
}

// Bytes marshals the header into buf, which must be at least HeaderSize
// bytes, and returns the marshalled slice.
func (h *Header) Bytes(buf []byte) []byte {
	_ = buf[HeaderSize-1]
	buf[0] = reportIDVideo
	buf[1] = cmdSendH264
	binary.BigEndian.PutUint32(buf[2:6], h.Total)
	seq := h.Seq & seqMask
	buf[6] = byte(seq >> 16)
	buf[7] = byte(seq >> 8)
	buf[8] = byte(seq)
	binary.BigEndian.PutUint16(buf[9:11], h.Len)
	return buf[:HeaderSize]
}
