/*
DESCRIPTION
  galahad_test.go provides a hardware-dependent smoke test for the panel
  session. It is skipped unless a Galahad II is attached.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

package galahad

import (
	"errors"
	"io"
	"testing"

	"github.com/ausocean/utils/logging"

	"github.com/H4rk3nz0/GalahadII-LCD-Linux/device"
)

// TestOpen opens and closes a session with an attached panel. It is intended
// to be run on a machine with the pump head connected; elsewhere the open
// fails with device.ErrNotFound and the test is skipped.
func TestOpen(t *testing.T) {
	l := logging.New(logging.Debug, io.Discard, true)
	s, err := Open(l)
	if errors.Is(err, device.ErrNotFound) {
		t.Skip("skipping, no Galahad II attached")
	}
	if err != nil {
		t.Fatalf("could not open device session: %v", err)
	}
	err = s.Close()
	if err != nil {
		t.Errorf("could not close device session: %v", err)
	}
}
