/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type
  in a string format, a function for updating the variable in the Config
  struct from a string, and a validation function to check the validity of
  the corresponding field value in the Config.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

package config

import (
	"strconv"

	"github.com/ausocean/utils/logging"
)

// Config map keys.
const (
	KeyBitrate   = "Bitrate"
	KeyCachePath = "CachePath"
	KeyHeight    = "Height"
	KeyInputPath = "InputPath"
	KeyLogging   = "logging"
	KeyRotation  = "Rotation"
	KeySuppress  = "Suppress"
	KeyWidth     = "Width"
)

// Config map parameter types.
const (
	typeString = "string"
	typeInt    = "int"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Default variable values. The Galahad II panel is a fixed 480x480 display
// and the vendor protocol is tuned for a 2 Mbps constant bitrate stream.
const (
	defaultCachePath = "/tmp/galahad_cache.h264"
	defaultWidth     = 480
	defaultHeight    = 480
	defaultBitrate   = 2000 // kbps.
	defaultRotation  = 0
	defaultVerbosity = logging.Info
)

// Variables describes the variables that can be used for driver control.
// These structs provide the name and type of each variable, a function for
// updating it in a Config, and a function for validating its value.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyBitrate,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Bitrate = parseUint(KeyBitrate, v, c) },
		Validate: func(c *Config) {
			if c.Bitrate == 0 {
				c.LogInvalidField(KeyBitrate, defaultBitrate)
				c.Bitrate = defaultBitrate
			}
		},
	},
	{
		Name:   KeyCachePath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.CachePath = v },
		Validate: func(c *Config) {
			if c.CachePath == "" {
				c.LogInvalidField(KeyCachePath, defaultCachePath)
				c.CachePath = defaultCachePath
			}
		},
	},
	{
		Name:   KeyHeight,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Height = parseUint(KeyHeight, v, c) },
		Validate: func(c *Config) {
			if c.Height == 0 {
				c.LogInvalidField(KeyHeight, defaultHeight)
				c.Height = defaultHeight
			}
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField(KeyLogging, defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyRotation,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.Rotation = parseInt(KeyRotation, v, c) },
		Validate: func(c *Config) {
			switch c.Rotation {
			case 0, 90, 180, 270:
			case -90:
				c.Rotation = 270
			default:
				c.LogInvalidField(KeyRotation, defaultRotation)
				c.Rotation = defaultRotation
			}
		},
	},
	{
		Name:   KeySuppress,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Suppress = parseBool(KeySuppress, v, c) },
	},
	{
		Name:   KeyWidth,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Width = parseUint(KeyWidth, v, c) },
		Validate: func(c *Config) {
			if c.Width == 0 {
				c.LogInvalidField(KeyWidth, defaultWidth)
				c.Width = defaultWidth
			}
		},
	},
}

func parseUint(key, v string, c *Config) uint {
	_v, err := strconv.Atoi(v)
	if err != nil || _v < 0 {
		c.Logger.Warning("invalid "+key+" param", "value", v)
		return 0
	}
	return uint(_v)
}

func parseInt(key, v string, c *Config) int {
	_v, err := strconv.Atoi(v)
	if err != nil {
		c.Logger.Warning("invalid "+key+" param", "value", v)
		return 0
	}
	return _v
}

func parseBool(key, v string, c *Config) bool {
	_v, err := strconv.ParseBool(v)
	if err != nil {
		c.Logger.Warning("invalid "+key+" param", "value", v)
		return false
	}
	return _v
}
