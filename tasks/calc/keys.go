package calc

import "unicode/utf8"

type keyKind uint8

const (
	keyRune keyKind = iota
	keyEnter
	keyBackspace
	keyTab
	keyEsc
	keyUp
	keyDown
	keyLeft
	keyRight
	keyDelete
	keyHome
	keyEnd
	keyCtrl
	keyF1
	keyF2
	keyF3
)

type key struct {
	kind keyKind
	r    rune
	ctrl byte
}

// csiFinal maps the final byte of "ESC [ X" sequences.
var csiFinal = map[byte]keyKind{
	'A': keyUp,
	'B': keyDown,
	'C': keyRight,
	'D': keyLeft,
	'H': keyHome,
	'F': keyEnd,
}

// csiTilde maps the number of "ESC [ n ~" sequences.
var csiTilde = map[int]keyKind{
	1:  keyHome,
	3:  keyDelete,
	4:  keyEnd,
	11: keyF1,
	12: keyF2,
	13: keyF3,
}

// ss3Final maps the final byte of "ESC O X" sequences.
var ss3Final = map[byte]keyKind{
	'P': keyF1,
	'Q': keyF2,
	'R': keyF3,
	'H': keyHome,
	'F': keyEnd,
}

// nextKey decodes one key from a VT100 byte stream. ok is false when b holds only the
// start of a sequence; the caller keeps the bytes for the next message.
func nextKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) == 0 {
		return 0, key{}, false
	}
	if b[0] == 0x1b {
		return parseEscapeKey(b)
	}

	switch b[0] {
	case '\r', '\n':
		return 1, key{kind: keyEnter}, true
	case 0x7f, 0x08:
		return 1, key{kind: keyBackspace}, true
	case '\t':
		return 1, key{kind: keyTab}, true
	}
	if b[0] < 0x20 {
		return 1, key{kind: keyCtrl, ctrl: b[0]}, true
	}

	if !utf8.FullRune(b) {
		return 0, key{}, false
	}
	r, sz := utf8.DecodeRune(b)
	if r == utf8.RuneError && sz == 1 {
		// Skip invalid bytes.
		return 1, key{kind: keyCtrl}, true
	}
	return sz, key{kind: keyRune, r: r}, true
}

func parseEscapeKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) < 2 {
		return 1, key{kind: keyEsc}, true
	}

	switch b[1] {
	case 'O':
		if len(b) < 3 {
			return 0, key{}, false
		}
		if kind, ok := ss3Final[b[2]]; ok {
			return 3, key{kind: kind}, true
		}
		return 1, key{kind: keyEsc}, true
	case '[':
	default:
		return 1, key{kind: keyEsc}, true
	}

	if len(b) < 3 {
		return 0, key{}, false
	}
	if kind, ok := csiFinal[b[2]]; ok {
		return 3, key{kind: kind}, true
	}
	if b[2] < '0' || b[2] > '9' {
		return 1, key{kind: keyEsc}, true
	}

	n := 0
	i := 2
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		n = n*10 + int(b[i]-'0')
		i++
	}
	if i >= len(b) {
		return 0, key{}, false
	}
	if b[i] != '~' {
		return 1, key{kind: keyEsc}, true
	}
	if kind, ok := csiTilde[n]; ok {
		return i + 1, key{kind: kind}, true
	}
	// Unknown but complete sequence: drop it whole.
	return i + 1, key{kind: keyCtrl}, true
}
