// gazeboard - type by gazing at an on-screen letter grid and blinking.
//
// Starts in calibration: look at each prompted screen corner and press
// space to capture it. Once all four corners are captured, gazing at a
// grid cell and blinking selects its letter. Press q to quit.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/blinktalk/go-blinktalk/internal/config"
	"github.com/blinktalk/go-blinktalk/internal/log"
	"github.com/blinktalk/go-blinktalk/internal/metrics"
	"github.com/blinktalk/go-blinktalk/pkg/gaze"
	"github.com/blinktalk/go-blinktalk/pkg/monitor"
	"github.com/blinktalk/go-blinktalk/pkg/render"
	"github.com/blinktalk/go-blinktalk/pkg/session"
	"github.com/blinktalk/go-blinktalk/pkg/vision"
)

func main() {
	useKalman := flag.Bool("kalman", false, "smooth gaze with a Kalman filter instead of the moving average")
	frameRate := flag.Float64("fps", 30, "expected camera frame rate, used to tune the Kalman smoother")
	flag.Parse()

	log.Init(config.LogLevel())

	if *frameRate <= 0 {
		log.Warn("non-positive fps, falling back to 30")
		*frameRate = 30
	}

	camera, err := vision.OpenCamera(config.CameraID())
	if err != nil {
		log.Error("camera open failed", "error", err)
		os.Exit(1)
	}

	faces, err := vision.NewCascadeDetector(config.FaceCascadePath())
	if err != nil {
		log.Error("face cascade load failed", "error", err)
		os.Exit(1)
	}

	eyes, err := vision.NewCascadeEyeExtractor(config.EyeCascadePath())
	if err != nil {
		log.Error("eye cascade load failed", "error", err)
		os.Exit(1)
	}

	cfg := session.GazeConfig()
	// The grid and the calibration mapping must share the camera's real
	// geometry, or the rendered grid and the selected cell disagree.
	if w, h := camera.FrameSize(); w > 0 && h > 0 {
		cfg.FrameWidth = w
		cfg.FrameHeight = h
	}
	if *useKalman {
		cfg.Smoother = gaze.NewKalman(1 / *frameRate)
	}

	m := metrics.New()
	sess := session.New(cfg)
	log.Info("session started", "id", sess.ID.String(), "mode", sess.Mode().String())

	mon := monitor.NewServer(config.MonitorPort(), m)
	go func() {
		if err := mon.Run(); err != nil {
			log.Error("monitor server stopped", "error", err)
		}
	}()

	runner := session.NewRunner(sess, camera, faces, eyes, render.NewWindow("gazeboard"), m)
	runner.OnChange = mon.Publish

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = runner.Run(ctx)
	runner.Close()
	_ = mon.Shutdown()

	log.Info("session ended", "message", sess.Message())
	if err != nil {
		log.Error("session failed", "error", err)
		os.Exit(1)
	}
}
