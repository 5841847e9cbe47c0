package morse

import (
	"testing"
	"time"

	"github.com/blinktalk/go-blinktalk/pkg/blink"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func blinkAt(start time.Time, dur time.Duration) blink.Event {
	return blink.Event{Start: start, End: start.Add(dur), Duration: dur}
}

func TestClassification_DotDashBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name string
		dur  time.Duration
		want Symbol
	}{
		{"just under threshold", cfg.DotThreshold - time.Millisecond, Dot},
		{"exactly threshold", cfg.DotThreshold, Dash},
		{"just over threshold", cfg.DotThreshold + time.Millisecond, Dash},
		{"very short", 10 * time.Millisecond, Dot},
		{"long hold", 900 * time.Millisecond, Dash},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := New(cfg)
			got := d.OnBlink(blinkAt(t0, tc.dur))
			if got != tc.want {
				t.Errorf("duration %v: got %c, want %c", tc.dur, got, tc.want)
			}
		})
	}
}

func TestTick_LetterPause(t *testing.T) {
	d := New(DefaultConfig())

	// ".-" = A
	d.OnBlink(blinkAt(t0, 100*time.Millisecond))
	d.OnBlink(blinkAt(t0.Add(time.Second), 500*time.Millisecond))
	lastEnd := t0.Add(1500 * time.Millisecond)

	// Inside the letter pause: nothing fires.
	if _, ok := d.Tick(lastEnd.Add(1500 * time.Millisecond)); ok {
		t.Fatal("boundary fired before letter pause elapsed")
	}

	b, ok := d.Tick(lastEnd.Add(2100 * time.Millisecond))
	if !ok {
		t.Fatal("letter boundary did not fire")
	}
	if b.Char != 'A' || b.Word || !b.Mapped {
		t.Errorf("boundary: got %+v, want A letter boundary", b)
	}
	if d.Message() != "A" {
		t.Errorf("message: got %q, want %q", d.Message(), "A")
	}
	if d.Pending() != "" {
		t.Errorf("pending after boundary: got %q, want empty", d.Pending())
	}
}

func TestTick_WordPauseAppendsSpace(t *testing.T) {
	d := New(DefaultConfig())

	d.OnBlink(blinkAt(t0, 100*time.Millisecond))
	d.OnBlink(blinkAt(t0.Add(time.Second), 500*time.Millisecond))
	lastEnd := t0.Add(1500 * time.Millisecond)

	b, ok := d.Tick(lastEnd.Add(6 * time.Second))
	if !ok {
		t.Fatal("word boundary did not fire")
	}
	if b.Char != 'A' || !b.Word {
		t.Errorf("boundary: got %+v, want A word boundary", b)
	}
	if d.Message() != "A " {
		t.Errorf("message: got %q, want %q", d.Message(), "A ")
	}
}

func TestTick_WordPauseSupersedesLetterPause(t *testing.T) {
	d := New(DefaultConfig())
	d.OnBlink(blinkAt(t0, 100*time.Millisecond))

	// One tick far past both thresholds must fire exactly one word
	// boundary, not a letter boundary followed by anything else.
	b, ok := d.Tick(t0.Add(10 * time.Second))
	if !ok || !b.Word {
		t.Fatalf("expected a single word boundary, got %+v ok=%v", b, ok)
	}
	if _, ok := d.Tick(t0.Add(11 * time.Second)); ok {
		t.Error("empty sequence fired a second boundary")
	}
}

func TestTick_UnrecognizedSequence(t *testing.T) {
	d := New(DefaultConfig())

	// Six dots has no table entry.
	for i := 0; i < 6; i++ {
		d.OnBlink(blinkAt(t0.Add(time.Duration(i)*500*time.Millisecond), 100*time.Millisecond))
	}
	b, ok := d.Tick(t0.Add(10 * time.Second))
	if !ok {
		t.Fatal("boundary did not fire")
	}
	if b.Char != Unknown || b.Mapped {
		t.Errorf("unmapped sequence: got %+v, want '?' unmapped", b)
	}
	if d.Message() != "? " {
		t.Errorf("message: got %q, want %q", d.Message(), "? ")
	}
}

func TestTick_EmptySequenceIsInert(t *testing.T) {
	d := New(DefaultConfig())
	if _, ok := d.Tick(t0.Add(time.Hour)); ok {
		t.Error("tick fired with no pending symbols")
	}
	if d.Message() != "" {
		t.Errorf("message: got %q, want empty", d.Message())
	}
}

func TestMessage_AppendOnlyAcrossLetters(t *testing.T) {
	d := New(DefaultConfig())

	// "." = E, letter pause, then "-" = T, word pause.
	d.OnBlink(blinkAt(t0, 100*time.Millisecond))
	d.Tick(t0.Add(3 * time.Second))
	d.OnBlink(blinkAt(t0.Add(4*time.Second), 500*time.Millisecond))
	d.Tick(t0.Add(15 * time.Second))

	if d.Message() != "ET " {
		t.Errorf("message: got %q, want %q", d.Message(), "ET ")
	}
}

func TestLookup_SpaceEntry(t *testing.T) {
	ch, ok := Lookup(" ")
	if !ok || ch != ' ' {
		t.Errorf("space entry: got %q ok=%v, want ' ' true", ch, ok)
	}
}

func TestLookup_Letters(t *testing.T) {
	cases := map[string]rune{
		".-":   'A',
		"...":  'S',
		"---":  'O',
		"--..": 'Z',
		".....": '5',
	}
	for seq, want := range cases {
		ch, ok := Lookup(seq)
		if !ok || ch != want {
			t.Errorf("Lookup(%q): got %q ok=%v, want %q", seq, ch, ok, want)
		}
	}
	if ch, ok := Lookup("......"); ok || ch != Unknown {
		t.Errorf("Lookup unknown: got %q ok=%v, want '?' false", ch, ok)
	}
}
