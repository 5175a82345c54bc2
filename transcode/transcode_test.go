/*
DESCRIPTION
  transcode_test.go provides tests for ffmpeg argument construction and
  frame rate parsing.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

package transcode

import (
	"math"
	"strings"
	"testing"
)

var rationalTests = []struct {
	in      string
	want    float64
	isValid bool
}{
	{"25", 25, true},
	{"30000/1001", 29.97002997002997, true},
	{"24/1", 24, true},
	{"0/0", 0, false},
	{"", 0, false},
	{"N/A", 0, false},
}

func TestParseRational(t *testing.T) {
	for _, tt := range rationalTests {
		got, err := parseRational(tt.in)
		if err != nil {
			if tt.isValid {
				t.Errorf("parseRational(%q): unexpected error: %v", tt.in, err)
			}
			continue
		}
		if !tt.isValid {
			// "0/0" parses but yields an unusable rate; DetectRate discards
			// non-positive values.
			if got > 0 {
				t.Errorf("parseRational(%q) = %v, expected unusable rate", tt.in, got)
			}
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseRational(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFFmpegArgs(t *testing.T) {
	args, err := ffmpegArgs("in.gif", "/tmp/cache.h264", 90, 29.97, 480, 480, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-i in.gif",
		"-vf transpose=1,scale=480:480",
		"-profile:v baseline",
		"-b:v 2000k -maxrate 2000k -bufsize 2000k",
		"-g 30 -keyint_min 30", // GOP is the rounded detected rate.
		"nal-hrd=cbr",
		"open-gop=0",
		"-f h264 /tmp/cache.h264",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q in: %s", want, joined)
		}
	}
}

func TestVideoFilter(t *testing.T) {
	tests := []struct {
		rotation int
		want     string
		isValid  bool
	}{
		{0, "scale=480:480", true},
		{90, "transpose=1,scale=480:480", true},
		{180, "transpose=1,transpose=1,scale=480:480", true},
		{270, "transpose=2,scale=480:480", true},
		{-90, "transpose=2,scale=480:480", true},
		{45, "", false},
	}
	for _, tt := range tests {
		got, err := videoFilter(tt.rotation, 480, 480)
		if err != nil {
			if tt.isValid {
				t.Errorf("videoFilter(%d): unexpected error: %v", tt.rotation, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("videoFilter(%d) = %q, want %q", tt.rotation, got, tt.want)
		}
	}
}
