/*
DESCRIPTION
  galahad2lcd is a driver for the Lian Li Galahad II pump LCD. In daemon
  mode it transcodes an input animation to a cached H.264 elementary stream,
  preloads the stream's access units into RAM and replays them to the panel
  over USB until terminated. In set-args mode it updates the service
  configuration and restarts the background service.

AUTHORS
  H4rk3nz0 <h4rk3nz0@pm.me>

LICENSE
  Copyright (C) 2026 H4rk3nz0. All Rights Reserved.
*/

// Package main implements the galahad2lcd command.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/coreos/go-systemd/daemon"
	"github.com/coreos/go-systemd/dbus"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/H4rk3nz0/GalahadII-LCD-Linux/device"
	"github.com/H4rk3nz0/GalahadII-LCD-Linux/device/galahad"
	"github.com/H4rk3nz0/GalahadII-LCD-Linux/player"
	"github.com/H4rk3nz0/GalahadII-LCD-Linux/player/config"
	"github.com/H4rk3nz0/GalahadII-LCD-Linux/transcode"
)

// Current software version.
const version = "v1.1.0"

// Service configuration. The systemd unit sources MYAPP_ARGS from
// configPath and passes it to the daemon invocation.
const (
	configPath  = "/etc/default/galahad2lcd"
	serviceName = "galahad2lcd.service"
)

// Logging configuration.
const (
	logPath      = "/var/log/galahad2lcd/galahad2lcd.log"
	logMaxSize   = 500 // MB.
	logMaxBackup = 10
	logMaxAge    = 28 // days.
	logVerbosity = logging.Info
	logSuppress  = true
)

// Pause before retrying a failed playback session; a reload event can catch
// the input file mid-write.
const retryDelay = 5 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "daemon":
		runDaemon(os.Args[2:])
	case "set-args":
		runSetArgs(os.Args[2:])
	case "-version", "--version", "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `galahad2lcd %s - driver for the Lian Li Galahad II LCD

usage:
  galahad2lcd daemon -input <file> [-rotate <deg>]    run the driver
  galahad2lcd set-args -input <file> [-rotate <deg>]  update %s and restart %s
`, version, configPath, serviceName)
}

// runDaemon transcodes, preloads and then streams the input animation to the
// panel until SIGINT/SIGTERM. Replacing the input file on disk reloads
// playback without a service restart.
func runDaemon(args []string) {
	flags := flag.NewFlagSet("daemon", flag.ExitOnError)
	input := flags.String("input", "", "path to the video/gif file to play")
	rotate := flags.Int("rotate", 0, "rotation in degrees (0, 90, 180, 270)")
	flags.Parse(args)

	// Create lumberjack logger to handle logging to file, multi-written with
	// stderr so journald picks the messages up too.
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info("starting galahad2lcd", "version", version)

	cfg := config.Config{Logger: log, InputPath: *input, Rotation: *rotate}
	err := cfg.Validate()
	if err != nil {
		log.Warning("errors from config validation", "errors", err)
	}
	log.SetLevel(cfg.LogLevel)
	if cfg.InputPath == "" {
		log.Fatal("no input file specified")
	}

	err = transcode.CheckPath(log)
	if err != nil {
		log.Fatal("transcoding toolchain unavailable", "error", err.Error())
	}

	// Signal handling only cancels this context; the streaming loop polls it
	// per frame and winds down cooperatively.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("connecting to panel")
	screen, err := galahad.Open(log)
	if err != nil {
		log.Fatal("could not open device session", "error", err.Error())
	}
	defer screen.Close()

	// Watch the input file so that replacing the animation takes effect
	// without restarting the service. Watch failure only disables reload.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warning("could not create input watcher, live reload disabled", "error", err.Error())
		watcher = nil
	} else {
		defer watcher.Close()
		err = watcher.Add(filepath.Dir(cfg.InputPath))
		if err != nil {
			log.Warning("could not watch input directory, live reload disabled", "error", err.Error())
			watcher = nil
		}
	}

	ok, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		log.Warning("could not notify systemd of readiness", "error", err.Error())
	}
	log.Debug("sd_notify readiness", "sent", ok)

	// The first session failing is a startup failure and is fatal; later
	// sessions only begin after a reload event, which can catch the input
	// file mid-write, so those retry instead.
	for pass := 0; ctx.Err() == nil; pass++ {
		err = run(ctx, cfg, screen, watcher, log)
		if err != nil {
			if pass == 0 {
				log.Fatal("could not start playback", "error", err.Error())
			}
			log.Error("playback session failed, retrying", "error", err.Error(), "delay", retryDelay.String())
			select {
			case <-ctx.Done():
			case <-time.After(retryDelay):
			}
		}
	}
	log.Info("driver stopped")
}

// run performs one full playback session: transcode the input, preload the
// cache and stream it until the parent context is cancelled or the input
// file is replaced. A nil return means the session ended by cancellation.
func run(ctx context.Context, cfg config.Config, screen device.Display, watcher *fsnotify.Watcher, log logging.Logger) error {
	log.Info("transcoding input to H.264", "input", cfg.InputPath, "rotation", cfg.Rotation)
	rate, err := transcode.DetectRate(log, cfg.InputPath)
	if err != nil {
		return fmt.Errorf("could not detect frame rate: %w", err)
	}
	log.Info("video frame rate detected", "fps", rate)

	err = transcode.ToH264(log, cfg.InputPath, cfg.CachePath, cfg.Rotation, rate, cfg.Width, cfg.Height, cfg.Bitrate)
	if err != nil {
		return fmt.Errorf("could not transcode input: %w", err)
	}

	log.Info("preloading access units into RAM")
	frames, err := player.Preload(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("could not preload frames: %w", err)
	}
	log.Info("frames buffered", "frames", len(frames))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if watcher != nil {
		go watchInput(runCtx, cancel, watcher, cfg.InputPath, log)
	}

	return player.New(cfg, screen, frames, rate).Stream(runCtx)
}

// watchInput cancels the current playback session when the input file is
// written, created or renamed, prompting the daemon loop to retranscode.
func watchInput(ctx context.Context, cancel context.CancelFunc, w *fsnotify.Watcher, path string, log logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Info("input file changed, reloading playback", "event", ev.Op.String())
			cancel()
			return
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warning("input watcher error", "error", err.Error())
		}
	}
}

// runSetArgs writes the service configuration and restarts the background
// service over D-Bus so the new settings take effect.
func runSetArgs(args []string) {
	flags := flag.NewFlagSet("set-args", flag.ExitOnError)
	input := flags.String("input", "", "path to the video/gif file to play")
	rotate := flags.Int("rotate", 0, "rotation in degrees (0, 90, 180, 270)")
	flags.Parse(args)

	log := logging.New(logging.Info, os.Stderr, false)

	if *input == "" {
		log.Fatal("no input file specified")
	}
	abs, err := filepath.Abs(*input)
	if err != nil {
		log.Fatal("could not resolve input path", "error", err.Error())
	}
	_, err = os.Stat(abs)
	if err != nil {
		log.Fatal("could not find input file", "path", abs, "error", err.Error())
	}

	content := fmt.Sprintf("MYAPP_ARGS=\"--input %s --rotate %d\"\n", abs, *rotate)
	err = os.WriteFile(configPath, []byte(content), 0o644)
	if err != nil {
		log.Fatal("could not write config (are you root?)", "path", configPath, "error", err.Error())
	}
	log.Info("configuration saved", "path", configPath)

	conn, err := dbus.New()
	if err != nil {
		log.Fatal("could not connect to systemd", "error", err.Error())
	}
	defer conn.Close()

	done := make(chan string, 1)
	_, err = conn.RestartUnit(serviceName, "replace", done)
	if err != nil {
		log.Fatal("could not restart service", "service", serviceName, "error", err.Error())
	}
	if result := <-done; result != "done" {
		log.Fatal("service restart did not complete", "service", serviceName, "result", result)
	}
	log.Info("service restarted with new settings", "service", serviceName)
}
