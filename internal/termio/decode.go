package termio

import (
	"unicode/utf8"
)

// SpecialKey identifies a non-printable key press. Key bindings that are
// plain runes (q, j, k, g, G, t, o, [, ], /, n, N, v, h, l, L, (, )) are
// delivered as Key.Rune instead; spec.md §4.6 lists the full binding set.
type SpecialKey int

const (
	KeyNone SpecialKey = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyShiftTab
	KeyTab
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyCtrlD
	KeyCtrlU
	KeyCtrlC
)

// Key is one decoded key press.
type Key struct {
	Rune    rune
	Special SpecialKey
}

// IsRune reports whether k is a plain, unmodified rune press of r.
func (k Key) IsRune(r rune) bool { return k.Special == KeyNone && k.Rune == r }

// escSeqTable maps CSI/SS3 escape sequences to the special keys this pager's
// bindings need: arrow keys (scroll and revision stepping) and shift-tab
// (back-cycle link).
// Adapted and heavily trimmed from the teacher's
// internal/q/tui/input_reader.go controlSequenceMap, which also covers
// mouse, function keys, and paste bracketing this pager never uses.
var escSeqTable = map[string]SpecialKey{
	"\x1b[A": KeyUp,
	"\x1b[B": KeyDown,
	"\x1b[C": KeyRight,
	"\x1b[D": KeyLeft,
	"\x1bOA": KeyUp,
	"\x1bOB": KeyDown,
	"\x1bOC": KeyRight,
	"\x1bOD": KeyLeft,
	"\x1b[Z": KeyShiftTab,
}

var escSeqPrefixes = buildPrefixSet(escSeqTable)

func buildPrefixSet(table map[string]SpecialKey) map[string]struct{} {
	prefixes := make(map[string]struct{})
	for seq := range table {
		for i := 1; i < len(seq); i++ {
			prefixes[seq[:i]] = struct{}{}
		}
	}
	return prefixes
}

// decoder turns a byte stream into Key values, buffering partial escape
// sequences across reads. Adapted from the teacher's inputProcessor, trimmed
// of mouse reporting and bracketed paste (this pager accepts no text input).
type decoder struct {
	pending []byte
}

// feed appends newly read bytes and returns any fully-decoded keys.
func (d *decoder) feed(data []byte) []Key {
	d.pending = append(d.pending, data...)

	var keys []Key
	for len(d.pending) > 0 {
		k, n, ok := d.decodeOne()
		if !ok {
			break
		}
		d.pending = d.pending[n:]
		if k != (Key{}) {
			keys = append(keys, k)
		}
	}
	return keys
}

// decodeOne attempts to decode a single key from the front of d.pending. ok
// is false when more bytes are needed before a decision can be made; the
// caller stops feeding in that case and waits for the next read. A byte
// that is consumed but maps to no key comes back as the zero Key, which
// feed drops.
func (d *decoder) decodeOne() (Key, int, bool) {
	b := d.pending[0]

	if b == 0x1b {
		return d.decodeEscape()
	}

	if b < 0x20 || b == 0x7f {
		switch b {
		case '\t':
			return Key{Special: KeyTab}, 1, true
		case '\r', '\n':
			return Key{Special: KeyEnter}, 1, true
		case 0x7f:
			return Key{Special: KeyBackspace}, 1, true
		case 0x04:
			return Key{Special: KeyCtrlD}, 1, true
		case 0x15:
			return Key{Special: KeyCtrlU}, 1, true
		case 0x03:
			return Key{Special: KeyCtrlC}, 1, true
		default:
			return Key{}, 1, true // unmapped control byte: consume and ignore
		}
	}

	if !utf8.FullRune(d.pending) {
		return Key{}, 0, false
	}
	r, size := utf8.DecodeRune(d.pending)
	if r == utf8.RuneError && size == 1 {
		return Key{}, 1, true // drop invalid byte
	}
	return Key{Rune: r}, size, true
}

// decodeEscape matches the longest known sequence starting at d.pending[0],
// waiting for more bytes while what's buffered is still an unresolved
// prefix of some entry in escSeqTable. A lone ESC, or a CSI sequence this
// pager doesn't bind, decodes as KeyEscape; any other unbound ESC-prefixed
// input consumes only the ESC, and the bytes after it decode on their own.
func (d *decoder) decodeEscape() (Key, int, bool) {
	if len(d.pending) == 1 {
		return Key{Special: KeyEscape}, 1, true
	}

	for i := 1; i <= len(d.pending); i++ {
		s := string(d.pending[:i])
		if sp, ok := escSeqTable[s]; ok {
			return Key{Special: sp}, i, true
		}
		if _, isPrefix := escSeqPrefixes[s]; isPrefix {
			if i == len(d.pending) {
				return Key{}, 0, false
			}
			continue
		}
		break
	}

	// An unbound CSI sequence (ESC [ parameters final-byte) is consumed whole.
	if d.pending[1] == '[' {
		for i := 2; i < len(d.pending); i++ {
			if c := d.pending[i]; c >= 0x40 && c <= 0x7e {
				return Key{Special: KeyEscape}, i + 1, true
			}
		}
		return Key{}, 0, false
	}

	return Key{Special: KeyEscape}, 1, true
}
