/*
DESCRIPTION
  player.go provides the pacing scheduler: a loop that replays the preloaded
  frame buffer through the chunk protocol encoder at the target frame rate
  until cancelled.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

// Package player provides the in-memory frame store and the real-time pacing
// scheduler that replays it over a display device indefinitely.
package player

import (
	"context"
	"errors"
	"time"

	"github.com/ausocean/utils/bitrate"
	"github.com/ausocean/utils/logging"

	"github.com/H4rk3nz0/GalahadII-LCD-Linux/device"
	"github.com/H4rk3nz0/GalahadII-LCD-Linux/player/config"
	"github.com/H4rk3nz0/GalahadII-LCD-Linux/protocol/chunk"
)

// Used to indicate package in logging.
const pkg = "player: "

// Pacing constants. Detected rates outside (0, maxPlaybackFPS] are replaced
// by defaultPlaybackFPS; panel firmware misbehaves when pushed faster.
const (
	defaultPlaybackFPS = 30.0
	maxPlaybackFPS     = 120.0
)

// ErrNoFrames is returned by Stream when the player holds an empty frame
// buffer; streaming must not begin without at least one access unit.
var ErrNoFrames = errors.New("frame buffer is empty")

// Player owns a preloaded frame buffer and a device session for the duration
// of playback. It is driven by a single worker; nothing else may use the
// device or mutate the frames while Stream runs.
type Player struct {
	cfg     config.Config
	log     logging.Logger
	enc     *chunk.Encoder
	frames  [][]byte
	rate    float64
	bitrate bitrate.Calculator
}

// New returns a Player that will replay frames to d at the detected rate.
func New(c config.Config, d device.Display, frames [][]byte, rate float64) *Player {
	return &Player{
		cfg:    c,
		log:    c.Logger,
		enc:    chunk.NewEncoder(d, c.Logger),
		frames: frames,
		rate:   rate,
	}
}

// safeFPS clamps a detected frame rate to something the panel can be paced
// at: rates that are non-positive or above maxPlaybackFPS fall back to
// defaultPlaybackFPS.
func safeFPS(rate float64) float64 {
	if rate <= 0 || rate > maxPlaybackFPS {
		return defaultPlaybackFPS
	}
	return rate
}

// frameInterval is the target wall-clock time between successive frame
// transmissions for the given detected rate.
func frameInterval(rate float64) time.Duration {
	return time.Duration(float64(time.Second) / safeFPS(rate))
}

// Stream repeatedly walks the frame buffer in order, transmitting each
// access unit and sleeping out the remainder of the target interval, until
// ctx is cancelled. Cancellation is polled once per pass and once per frame;
// a frame whose transmission is in flight completes all its chunks first.
//
// Send errors are logged and playback continues with the next frame; a slow
// frame delays the next by its overrun only, with no catch-up and no frame
// skipping, so the achieved rate degrades gracefully but never exceeds the
// target.
func (p *Player) Stream(ctx context.Context) error {
	if len(p.frames) == 0 {
		return ErrNoFrames
	}

	fps := safeFPS(p.rate)
	if fps != p.rate {
		p.log.Warning(pkg+"detected frame rate unusable, falling back", "detected", p.rate, "fallback", fps)
	}
	interval := frameInterval(p.rate)
	p.log.Info(pkg+"streaming from RAM", "frames", len(p.frames), "fps", fps, "interval", interval.String())

	var pass int
outer:
	for ctx.Err() == nil {
		for _, au := range p.frames {
			if ctx.Err() != nil {
				break outer
			}

			start := time.Now()

			// The unit is considered delivered regardless of chunk failures;
			// the encoder consumes transport errors per the best-effort link
			// policy and only reports protocol misuse.
			_, err := p.enc.Write(au)
			if err != nil {
				p.log.Error(pkg+"could not send frame", "error", err.Error())
			}
			p.bitrate.Report(len(au))

			if elapsed := time.Since(start); elapsed < interval {
				time.Sleep(interval - elapsed)
			}
		}
		pass++
		p.log.Debug(pkg+"completed playback pass", "pass", pass, "bitrate", p.bitrate.Bitrate())
	}

	p.log.Info(pkg+"playback cancelled", "passes", pass)
	return nil
}
