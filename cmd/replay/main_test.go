package main

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/blinktalk/go-blinktalk/pkg/session"
)

var traceStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func TestParseFrame(t *testing.T) {
	cases := []struct {
		name        string
		record      []string
		face        bool
		left, right float64
		hasGaze     bool
		gx, gy      float64
		wantErr     bool
	}{
		{name: "no face", record: []string{"1.5"}},
		{name: "single ear", record: []string{"0.5", "0.2"}, face: true, left: 0.2, right: 0.2},
		{name: "per-eye ears", record: []string{"0.5", "0.25", "0.15"}, face: true, left: 0.25, right: 0.15},
		{name: "with gaze", record: []string{"2", "0.3", "0.3", "0.4", "0.6"}, face: true, left: 0.3, right: 0.3, hasGaze: true, gx: 0.4, gy: 0.6},
		{name: "bad offset", record: []string{"x"}, wantErr: true},
		{name: "bad ear", record: []string{"1", "x"}, wantErr: true},
		{name: "bad gaze", record: []string{"1", "0.3", "0.3", "x", "0.5"}, wantErr: true},
	}

	for _, tc := range cases {
		in, err := parseFrame(tc.record, traceStart)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if in.FaceFound != tc.face {
			t.Errorf("%s: face found %v, want %v", tc.name, in.FaceFound, tc.face)
			continue
		}
		if !tc.face {
			continue
		}
		if math.Abs(in.Left.EAR()-tc.left) > 1e-9 || math.Abs(in.Right.EAR()-tc.right) > 1e-9 {
			t.Errorf("%s: ears %.3f/%.3f, want %.3f/%.3f",
				tc.name, in.Left.EAR(), in.Right.EAR(), tc.left, tc.right)
		}
		if in.HasGaze != tc.hasGaze {
			t.Errorf("%s: has gaze %v, want %v", tc.name, in.HasGaze, tc.hasGaze)
		}
		if tc.hasGaze && (in.Gaze.X != tc.gx || in.Gaze.Y != tc.gy) {
			t.Errorf("%s: gaze %v, want (%v,%v)", tc.name, in.Gaze, tc.gx, tc.gy)
		}
	}
}

func TestRun_MorseTrace(t *testing.T) {
	// Three 100ms closures 1.5s apart, then a long gap: "S" plus the
	// word boundary's trailing space.
	var b strings.Builder
	for k := 0; k < 3; k++ {
		base := 1.5 * float64(k)
		fmt.Fprintf(&b, "%.3f,0.00\n", base)
		fmt.Fprintf(&b, "%.3f,0.00\n", base+0.033)
		fmt.Fprintf(&b, "%.3f,0.00\n", base+0.066)
		fmt.Fprintf(&b, "%.3f,0.30\n", base+0.100)
	}
	b.WriteString("9.200,0.30\n")

	sess, err := run(strings.NewReader(b.String()), session.DefaultConfig())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if sess.Message() != "S " {
		t.Errorf("message: got %q, want %q", sess.Message(), "S ")
	}
	if sess.Pending() != "" {
		t.Errorf("pending after word boundary: %q", sess.Pending())
	}
}

func TestRun_GazeTrace(t *testing.T) {
	var b strings.Builder
	off := 0.0
	frame := func(ear, gx, gy float64) {
		fmt.Fprintf(&b, "%.3f,%.2f,%.2f,%.2f,%.2f\n", off, ear, ear, gx, gy)
		off += 0.033
	}

	corners := []struct{ x, y float64 }{
		{0.1, 0.1}, {0.9, 0.1}, {0.1, 0.9}, {0.9, 0.9},
	}
	for _, c := range corners {
		for j := 0; j < 6; j++ {
			frame(0.30, c.x, c.y)
		}
		b.WriteString("capture\n")
	}

	// Gaze at the top-left cell, then a two-frame blink to select.
	for j := 0; j < 6; j++ {
		frame(0.30, 0.15, 0.20)
	}
	frame(0.00, 0.15, 0.20)
	frame(0.00, 0.15, 0.20)
	frame(0.30, 0.15, 0.20)

	sess, err := run(strings.NewReader(b.String()), session.GazeConfig())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if sess.Mode() != session.ModeGaze {
		t.Fatalf("mode after trace: %v", sess.Mode())
	}
	if sess.Message() != "A" {
		t.Errorf("typed: got %q, want %q", sess.Message(), "A")
	}
}

func TestRun_CaptureOutsideCalibration(t *testing.T) {
	trace := "0.000,0.30\ncapture\n"
	if _, err := run(strings.NewReader(trace), session.DefaultConfig()); err == nil {
		t.Fatal("capture in a morse trace should fail")
	}
}
