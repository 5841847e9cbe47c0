// Package config provides configuration helpers for go-blinktalk commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the typing session commands.
const (
	DefaultCameraID    = 0
	DefaultMonitorPort = "8090"
	DefaultCascadePath = "models/haarcascade_frontalface_default.xml"
	DefaultEyeCascade  = "models/haarcascade_eye.xml"
)

// CameraID returns the capture device index from CAMERA_ID.
// Falls back to DefaultCameraID if unset or not an integer.
func CameraID() int {
	if v := os.Getenv("CAMERA_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return DefaultCameraID
}

// MonitorPort returns the dashboard port from MONITOR_PORT or the default.
func MonitorPort() string {
	if port := os.Getenv("MONITOR_PORT"); port != "" {
		return port
	}
	return DefaultMonitorPort
}

// LogLevel returns the log level from LOG_LEVEL or "info".
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// FaceCascadePath returns the Haar face cascade path from FACE_CASCADE.
func FaceCascadePath() string {
	if p := os.Getenv("FACE_CASCADE"); p != "" {
		return p
	}
	return DefaultCascadePath
}

// EyeCascadePath returns the Haar eye cascade path from EYE_CASCADE.
func EyeCascadePath() string {
	if p := os.Getenv("EYE_CASCADE"); p != "" {
		return p
	}
	return DefaultEyeCascade
}
