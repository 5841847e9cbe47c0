// blinktalk - type through eye-blink Morse code.
//
// Opens the camera, detects the primary face, tracks eyelid closures
// and decodes blink timings into text. State is mirrored to a local
// monitor dashboard (MONITOR_PORT, default 8090).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/blinktalk/go-blinktalk/internal/config"
	"github.com/blinktalk/go-blinktalk/internal/log"
	"github.com/blinktalk/go-blinktalk/internal/metrics"
	"github.com/blinktalk/go-blinktalk/pkg/monitor"
	"github.com/blinktalk/go-blinktalk/pkg/render"
	"github.com/blinktalk/go-blinktalk/pkg/session"
	"github.com/blinktalk/go-blinktalk/pkg/vision"
)

func main() {
	log.Init(config.LogLevel())

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

	m := metrics.New()
	sess := session.New(session.DefaultConfig())
	log.Info("session started", "id", sess.ID.String(), "mode", sess.Mode().String())

	mon := monitor.NewServer(config.MonitorPort(), m)
	go func() {
		if err := mon.Run(); err != nil {
			log.Error("monitor server stopped", "error", err)
		}
	}()

	runner := session.NewRunner(sess, camera, faces, eyes, render.NewWindow("blinktalk"), m)
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
