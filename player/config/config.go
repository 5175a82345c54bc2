/*
DESCRIPTION
  config.go contains the configuration settings for the panel driver.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

// Package config contains the configuration settings for the panel driver.
package config

import (
	"github.com/ausocean/utils/logging"
)

// Config provides parameters relevant to a driver instance. A new config
// must be validated before use; Validate substitutes defaults for bad or
// unset fields.
type Config struct {
	// Logger holds an implementation of the logging.Logger interface. This
	// must be set for the driver to work correctly.
	Logger logging.Logger

	// LogLevel is the driver logging verbosity level. Valid values are the
	// levels defined by the logging package.
	LogLevel int8

	// InputPath is the media file replayed on the panel. This must be
	// defined; there is no sensible default.
	InputPath string

	// Rotation is the clockwise rotation applied during transcoding, in
	// degrees. Valid values are 0, 90, 180 and 270; -90 is accepted and
	// treated as 270.
	Rotation int

	// CachePath is where the transcoded elementary stream is cached before
	// being preloaded into RAM.
	CachePath string

	// Width and Height define the panel resolution that transcoded video is
	// scaled to.
	Width  uint
	Height uint

	// Bitrate is the constant bitrate target for transcoding in kbps.
	Bitrate uint

	Suppress bool // Holds logger suppression state.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values into the correct type, and sets the
// config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
