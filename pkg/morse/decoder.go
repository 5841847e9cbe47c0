// Package morse turns blink timings into text. Blink durations classify
// as dots or dashes; silences between blinks close out the accumulated
// symbol sequence into a character (letter pause) or a character plus a
// word space (word pause).
package morse

import (
	"strings"
	"time"

	"github.com/blinktalk/go-blinktalk/pkg/blink"
)

// Symbol is a single Morse element, '.' or '-'.
type Symbol byte

const (
	Dot  Symbol = '.'
	Dash Symbol = '-'
)

// String returns the symbol as its dot/dash character.
func (s Symbol) String() string {
	return string(rune(s))
}

// Boundary is the result of a pause closing out a symbol sequence.
type Boundary struct {
	// Char is the decoded character, Unknown if the sequence had no
	// table entry.
	Char rune
	// Word is true when the word pause fired, which also appends a
	// trailing space to the message.
	Word bool
	// Mapped is false when Char is the Unknown placeholder.
	Mapped bool
}

// Config holds the decoder timing thresholds.
type Config struct {
	// DotThreshold splits blink durations: strictly shorter is a dot,
	// equal or longer is a dash.
	DotThreshold time.Duration
	// LetterPause is the silence after the last blink that closes the
	// sequence into a character.
	LetterPause time.Duration
	// WordPause is the longer silence that closes the sequence and
	// appends a word space. Must exceed LetterPause.
	WordPause time.Duration
}

// DefaultConfig returns the thresholds tuned for deliberate eyelid
// signalling: 300ms dot/dash split, 2s letter pause, 5s word pause.
func DefaultConfig() Config {
	return Config{
		DotThreshold: 300 * time.Millisecond,
		LetterPause:  2 * time.Second,
		WordPause:    5 * time.Second,
	}
}

// Decoder accumulates symbols from blink events and closes them out on
// pause boundaries. The decoded message is append-only for the life of
// the session and is mutated only by the decoder.
type Decoder struct {
	cfg       Config
	seq       strings.Builder
	lastBlink time.Time
	message   strings.Builder
}

// New creates a decoder with an empty sequence and message.
func New(cfg Config) *Decoder {
	return &Decoder{cfg: cfg}
}

// OnBlink classifies a completed blink and appends its symbol to the
// pending sequence. The blink's end time becomes the reference for
// pause detection.
func (d *Decoder) OnBlink(ev blink.Event) Symbol {
	sym := Dash
	if ev.Duration < d.cfg.DotThreshold {
		sym = Dot
	}
	d.seq.WriteByte(byte(sym))
	d.lastBlink = ev.End
	return sym
}

// Tick advances pause detection to the given wall-clock time. It must
// be called once per frame, including frames with no blink activity.
// When the silence since the last blink crosses a pause threshold the
// pending sequence is decoded, appended to the message and cleared.
// The word pause is tested first since it supersedes the letter pause.
func (d *Decoder) Tick(now time.Time) (Boundary, bool) {
	if d.seq.Len() == 0 {
		return Boundary{}, false
	}

	elapsed := now.Sub(d.lastBlink)
	switch {
	case elapsed > d.cfg.WordPause:
		b := d.close(true)
		return b, true
	case elapsed > d.cfg.LetterPause:
		b := d.close(false)
		return b, true
	}
	return Boundary{}, false
}

func (d *Decoder) close(word bool) Boundary {
	ch, mapped := Lookup(d.seq.String())
	d.message.WriteRune(ch)
	if word {
		d.message.WriteByte(' ')
	}
	d.seq.Reset()
	return Boundary{Char: ch, Word: word, Mapped: mapped}
}

// Pending returns the dot/dash sequence accumulated since the last
// boundary.
func (d *Decoder) Pending() string {
	return d.seq.String()
}

// Message returns the decoded text so far.
func (d *Decoder) Message() string {
	return d.message.String()
}
