package termfmt

import (
	"strings"

	"github.com/bleikamp/catmd/internal/termfmt/uni"
)

// TruncateToWidth returns the longest prefix of str whose visible width
// (ignoring ANSI escape sequences) is at most width, grapheme-cluster-aware:
// a cluster that would only partially fit is dropped whole rather than split.
// str must not contain newlines. If str is unchanged, it is returned as-is;
// otherwise the result carries an ANSIReset so truncation never leaks an
// open SGR state into whatever follows.
func TruncateToWidth(str string, width int) string {
	if width <= 0 {
		return ""
	}
	if TextWidthWithANSICodes(str) <= width {
		return str
	}

	var b strings.Builder
	cur := 0
	truncated := false

	for i := 0; i < len(str); {
		if str[i] == '\x1b' {
			seqLen := ansiSequenceLength(str[i:])
			if seqLen == 0 {
				seqLen = 1
			}
			b.WriteString(str[i : i+seqLen])
			i += seqLen
			continue
		}

		nextEsc := strings.IndexByte(str[i:], '\x1b')
		segmentEnd := len(str)
		if nextEsc >= 0 {
			segmentEnd = i + nextEsc
		}
		segment := str[i:segmentEnd]
		i = segmentEnd

		iter := uni.NewGraphemeIterator(segment, nil)
		for iter.Next() {
			gw := iter.TextWidth()
			if cur+gw > width {
				truncated = true
				break
			}
			b.WriteString(segment[iter.Start():iter.End()])
			cur += gw
		}
		if truncated {
			break
		}
	}

	b.WriteString(ANSIReset)
	return b.String()
}
