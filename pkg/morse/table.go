package morse

// code maps dot/dash strings to characters. The lone space entry is
// deliberate: a subject signalling a boundary with no accumulated
// symbols produces a literal space, not an error. Any string absent
// from the table decodes to Unknown.
var code = map[string]rune{
	".-":    'A',
	"-...":  'B',
	"-.-.":  'C',
	"-..":   'D',
	".":     'E',
	"..-.":  'F',
	"--.":   'G',
	"....":  'H',
	"..":    'I',
	".---":  'J',
	"-.-":   'K',
	".-..":  'L',
	"--":    'M',
	"-.":    'N',
	"---":   'O',
	".--.":  'P',
	"--.-":  'Q',
	".-.":   'R',
	"...":   'S',
	"-":     'T',
	"..-":   'U',
	"...-":  'V',
	".--":   'W',
	"-..-":  'X',
	"-.--":  'Y',
	"--..":  'Z',
	".----": '1',
	"..---": '2',
	"...--": '3',
	"....-": '4',
	".....": '5',
	"-....": '6',
	"--...": '7',
	"---..": '8',
	"----.": '9',
	"-----": '0',
	" ":     ' ',
}

// Unknown is substituted for symbol sequences with no table entry so
// the subject gets visible feedback instead of a silent drop.
const Unknown = '?'

// Lookup decodes a dot/dash sequence. The second return reports whether
// the sequence had a table entry; when false the first return is Unknown.
func Lookup(seq string) (rune, bool) {
	if ch, ok := code[seq]; ok {
		return ch, true
	}
	return Unknown, false
}
