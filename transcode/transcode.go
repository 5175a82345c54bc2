/*
DESCRIPTION
  transcode.go provides the external transcoding collaborator: ffprobe is
  used to detect the source frame rate, and ffmpeg converts the source to a
  cached elementary H.264 stream at the panel resolution.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

// Package transcode drives external ffmpeg/ffprobe processes to produce the
// cached elementary stream replayed on the panel. Codec internals live in
// the external binaries; this package only supplies the contract parameters
// (resolution, rotation, constant bitrate, GOP equal to the rounded frame
// rate, baseline profile, closed GOPs).
package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Used to indicate package in logging.
const pkg = "transcode: "

// External binaries.
const (
	ffmpegCmd  = "ffmpeg"
	ffprobeCmd = "ffprobe"
)

// fallbackRate is used when the source reports no usable frame rate.
const fallbackRate = 30.0

// CheckPath verifies the external binaries are available, so a missing
// toolchain is surfaced at startup rather than mid-transcode.
func CheckPath(l logging.Logger) error {
	for _, cmd := range []string{ffmpegCmd, ffprobeCmd} {
		path, err := exec.LookPath(cmd)
		if err != nil {
			return fmt.Errorf("could not find %s: %w", cmd, err)
		}
		l.Debug(pkg+"found external binary", "cmd", cmd, "path", path)
	}
	return nil
}

// DetectRate probes the source's video stream frame rate using ffprobe,
// preferring the average frame rate and falling back to the nominal rate,
// then to 30 when neither is usable.
func DetectRate(l logging.Logger, path string) (float64, error) {
	out, err := exec.Command(ffprobeCmd,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate,r_frame_rate",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	fields := strings.Split(strings.TrimSpace(string(out)), ",")
	if len(fields) == 0 {
		return 0, errors.New("no video stream rate reported")
	}

	for _, f := range fields {
		rate, err := parseRational(f)
		if err == nil && rate > 0 {
			return rate, nil
		}
	}
	l.Warning(pkg+"source reports no usable frame rate, assuming fallback", "fallback", fallbackRate, "probe", string(out))
	return fallbackRate, nil
}

// parseRational parses an ffprobe rational such as "30000/1001" or "25".
func parseRational(s string) (float64, error) {
	s = strings.TrimSpace(s)
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, errors.New("zero denominator")
	}
	return n / d, nil
}

// ToH264 transcodes the media file at in to an annex-B H.264 elementary
// stream at out, scaled to width x height and rotated by the given degrees
// (0, 90, 180 or 270; -90 is treated as 270). rate is the detected playback
// frame rate and fixes the GOP length; bitrateKbps is the constant bitrate
// target.
func ToH264(l logging.Logger, in, out string, rotation int, rate float64, width, height, bitrateKbps uint) error {
	args, err := ffmpegArgs(in, out, rotation, rate, width, height, bitrateKbps)
	if err != nil {
		return err
	}
	l.Info(pkg+"ffmpeg args", "args", strings.Join(args, " "))

	cmd := exec.Command(ffmpegCmd, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLine(stderr.String()))
	}
	l.Info(pkg+"transcode complete", "out", out, "rate", rate)
	return nil
}

// ffmpegArgs builds the ffmpeg invocation implementing the collaborator
// contract.
func ffmpegArgs(in, out string, rotation int, rate float64, width, height, bitrateKbps uint) ([]string, error) {
	vf, err := videoFilter(rotation, width, height)
	if err != nil {
		return nil, err
	}

	if rate <= 0 {
		rate = fallbackRate
	}
	gop := int(math.Round(rate))
	if gop < 1 {
		gop = 1
	}
	br := fmt.Sprintf("%dk", bitrateKbps)

	return []string{
		"-y",
		"-i", in,
		"-an",
		"-vf", vf,
		"-pix_fmt", "yuv420p",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-profile:v", "baseline",
		"-b:v", br,
		"-maxrate", br,
		"-bufsize", br,
		"-g", strconv.Itoa(gop),
		"-keyint_min", strconv.Itoa(gop),
		"-sc_threshold", "0",
		"-x264-params", fmt.Sprintf("nal-hrd=cbr:open-gop=0:annexb=1:keyint=%d:min-keyint=%d", gop, gop),
		"-f", "h264",
		out,
	}, nil
}

// videoFilter builds the rotation and scaling filter chain. Rotation happens
// before scaling so non-square sources keep their orientation before being
// fitted to the panel.
func videoFilter(rotation int, width, height uint) (string, error) {
	scale := fmt.Sprintf("scale=%d:%d", width, height)
	switch rotation {
	case 0:
		return scale, nil
	case 90:
		return "transpose=1," + scale, nil
	case 180:
		return "transpose=1,transpose=1," + scale, nil
	case 270, -90:
		return "transpose=2," + scale, nil
	}
	return "", fmt.Errorf("unsupported rotation: %d", rotation)
}

// lastLine extracts the final non-empty line of ffmpeg's stderr, which is
// where it reports its failure reason.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
