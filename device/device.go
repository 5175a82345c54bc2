/*
DESCRIPTION
  device.go provides Display, an interface describing an open, claimed
  connection to a display panel to which link-layer packets may be written.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

// Package device provides an interface for output display devices to which
// media packets can be transmitted, so that the transport core can be
// exercised against fakes as well as real hardware.
package device

import (
	"errors"
	"fmt"
)

// Errors returned during session establishment. Both are fatal to daemon
// startup.
var (
	// ErrNotFound indicates no attached USB device matched the expected
	// vendor and product identifiers.
	ErrNotFound = errors.New("no matching device found")

	// ErrClaim indicates the target interface could not be claimed after a
	// best-effort kernel driver detach.
	ErrClaim = errors.New("could not claim device interface")
)

// Display describes an open, interface-claimed connection to a display
// device. WriteBulk performs a single bounded bulk transfer of p to the
// device's output endpoint. Close releases the interface and the underlying
// handle; the Display must not be used after Close.
type Display interface {
	WriteBulk(p []byte) (int, error)
	Close() error
}

// MultiError collects the errors encountered while tearing down a device
// session, where each layer is released regardless of earlier failures.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}
