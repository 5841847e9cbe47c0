// replay - run a decoding session over a recorded trace.
//
// The trace is a CSV with one record per frame:
//
//	offset_seconds                               no-face frame
//	offset_seconds,ear                           one EAR for both eyes
//	offset_seconds,left_ear,right_ear            per-eye EARs
//	offset_seconds,left_ear,right_ear,gx,gy      EARs plus a gaze ratio
//	capture                                      capture the pending
//	                                             calibration corner
//
// Replay is deterministic and needs no camera, which makes it the
// reference way to verify decoder behavior on a captured session.
//
// Usage:
//
//	replay -trace session.csv [-mode morse|gaze]
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/blinktalk/go-blinktalk/internal/config"
	"github.com/blinktalk/go-blinktalk/internal/log"
	"github.com/blinktalk/go-blinktalk/pkg/eyemetrics"
	"github.com/blinktalk/go-blinktalk/pkg/session"
)

func main() {
	tracePath := flag.String("trace", "", "CSV trace file, one frame per record")
	mode := flag.String("mode", "morse", "session mode: morse or gaze")
	flag.Parse()

	log.Init(config.LogLevel())

	if *tracePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -trace session.csv [-mode morse|gaze]")
		os.Exit(1)
	}

	var cfg session.Config
	switch *mode {
	case "morse":
		cfg = session.DefaultConfig()
	case "gaze":
		cfg = session.GazeConfig()
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(1)
	}

	f, err := os.Open(*tracePath)
	if err != nil {
		log.Error("trace open failed", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	sess, err := run(f, cfg)
	if err != nil {
		log.Error("replay failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("decoded: %q\n", sess.Message())
	if pending := sess.Pending(); pending != "" {
		fmt.Printf("unresolved symbols: %q\n", pending)
	}
}

// run feeds every trace record through a fresh session and returns it.
func run(r io.Reader, cfg session.Config) (*session.Session, error) {
	sess := session.New(cfg)
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return sess, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		line++

		if len(record) == 1 && record[0] == "capture" {
			if _, ok := sess.CaptureCorner(); !ok {
				return nil, fmt.Errorf("line %d: capture outside calibration", line)
			}
			continue
		}

		in, err := parseFrame(record, start)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sess.Process(in)
	}
}

func parseFrame(record []string, start time.Time) (session.FrameInput, error) {
	if len(record) < 1 {
		return session.FrameInput{}, fmt.Errorf("empty record")
	}

	offset, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return session.FrameInput{}, fmt.Errorf("offset %q: %w", record[0], err)
	}
	in := session.FrameInput{Time: start.Add(time.Duration(offset * float64(time.Second)))}

	if len(record) < 2 || record[1] == "" {
		return in, nil // no-face frame
	}

	left, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return session.FrameInput{}, fmt.Errorf("left ear %q: %w", record[1], err)
	}
	right := left
	if len(record) >= 3 && record[2] != "" {
		right, err = strconv.ParseFloat(record[2], 64)
		if err != nil {
			return session.FrameInput{}, fmt.Errorf("right ear %q: %w", record[2], err)
		}
	}
	in.FaceFound = true
	in.Left = eyeWithEAR(left)
	in.Right = eyeWithEAR(right)

	if len(record) >= 5 {
		gx, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return session.FrameInput{}, fmt.Errorf("gaze x %q: %w", record[3], err)
		}
		gy, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return session.FrameInput{}, fmt.Errorf("gaze y %q: %w", record[4], err)
		}
		in.Gaze = eyemetrics.GazeRatio{X: gx, Y: gy}
		in.HasGaze = true
	}
	return in, nil
}

// eyeWithEAR synthesizes a unit-width eye contour whose aspect ratio
// equals the recorded value.
func eyeWithEAR(ear float64) eyemetrics.Eye {
	half := ear / 2
	return eyemetrics.Eye{
		{X: 0, Y: 0.5},
		{X: 1.0 / 3, Y: 0.5 - half},
		{X: 2.0 / 3, Y: 0.5 - half},
		{X: 1, Y: 0.5},
		{X: 2.0 / 3, Y: 0.5 + half},
		{X: 1.0 / 3, Y: 0.5 + half},
	}
}
