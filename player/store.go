/*
DESCRIPTION
  store.go provides preloading of a cached elementary stream's access units
  into an in-memory frame buffer for looping playback.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

package player

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/H4rk3nz0/GalahadII-LCD-Linux/codec/h264"
)

// ErrNoVideo is returned by Preload when the cache yields no access units,
// i.e. it contains no usable video stream.
var ErrNoVideo = errors.New("no usable video stream in cache")

// Preload reads the cached elementary stream at path and partitions it into
// access units, each copied into an independently owned buffer. The whole
// animation is held in RAM; playback never re-reads the file. The returned
// buffer is in presentation order and is treated as read-only by the player.
func Preload(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open cached stream")
	}
	defer f.Close()

	var fb frameBuffer
	err = h264.Lex(&fb, f)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "could not lex access units from cache")
	}
	if len(fb.units) == 0 {
		return nil, ErrNoVideo
	}
	return fb.units, nil
}

// frameBuffer collects lexed access units; each Write is one unit.
type frameBuffer struct {
	units [][]byte
}

func (b *frameBuffer) Write(p []byte) (int, error) {
	cpy := make([]byte, len(p))
	copy(cpy, p)
	b.units = append(b.units, cpy)
	return len(p), nil
}
