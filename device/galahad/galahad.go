/*
DESCRIPTION
  galahad.go provides an implementation of the device.Display interface for
  the Lian Li Galahad II pump LCD using libusb via gousb.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

// Package galahad provides a device.Display implementation for the Lian Li
// Galahad II LCD panel.
package galahad

import (
	"context"
	"fmt"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/google/gousb"

	"github.com/H4rk3nz0/GalahadII-LCD-Linux/device"
)

// Used to indicate package in logging.
const pkg = "galahad: "

// USB identifiers for the Galahad II pump head LCD.
const (
	VendorID  = 0x0416
	ProductID = 0x7395
)

// Session constants. The panel exposes its video sink on interface 1,
// bulk OUT endpoint 0x02.
const (
	configNum    = 1
	interfaceNum = 1
	altSetting   = 0
	endpointOut  = 2
	writeTimeout = 1000 * time.Millisecond
)

// Screen is a live session with the panel. At most one Screen should be open
// per process; it is owned by the streaming worker for its whole life.
type Screen struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
	log  logging.Logger
}

// Open scans attached USB devices for the first matching the Galahad II
// vendor and product identifiers, detaches any bound kernel driver
// (best-effort, failure is logged and ignored) and claims interface 1.
// device.ErrNotFound is returned if no device matches, and an error wrapping
// device.ErrClaim if the interface cannot be claimed.
func Open(l logging.Logger) (*Screen, error) {
	return open(l, VendorID, ProductID)
}

func open(l logging.Logger, vid, pid uint16) (*Screen, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("could not open device %04x:%04x: %w", vid, pid, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, device.ErrNotFound
	}

	// Kernel HID drivers commonly bind the panel's interfaces; ask libusb to
	// detach them as interfaces are claimed. Failure here is not fatal; the
	// claim below is the authoritative step.
	err = dev.SetAutoDetach(true)
	if err != nil {
		l.Warning(pkg+"could not enable kernel driver detach", "error", err.Error())
	}

	cfg, err := dev.Config(configNum)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: config %d: %v", device.ErrClaim, configNum, err)
	}

	intf, err := cfg.Interface(interfaceNum, altSetting)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: interface %d: %v", device.ErrClaim, interfaceNum, err)
	}

	out, err := intf.OutEndpoint(endpointOut)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: endpoint 0x%02x: %v", device.ErrClaim, endpointOut, err)
	}

	l.Info(pkg+"device session ready", "vid", fmt.Sprintf("%04x", vid), "pid", fmt.Sprintf("%04x", pid), "interface", interfaceNum)
	return &Screen{ctx: ctx, dev: dev, cfg: cfg, intf: intf, out: out, log: l}, nil
}

// WriteBulk writes p to the panel's bulk OUT endpoint as a single transfer
// with a fixed 1 second deadline. The link is unacknowledged; callers treat
// failures as droppable.
func (s *Screen) WriteBulk(p []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return s.out.WriteContext(ctx, p)
}

// Close releases the claimed interface and closes the device handle and USB
// context. The Screen must not be used afterwards.
func (s *Screen) Close() error {
	var errs device.MultiError
	s.intf.Close()
	if err := s.cfg.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.dev.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.ctx.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) != 0 {
		return errs
	}
	return nil
}
