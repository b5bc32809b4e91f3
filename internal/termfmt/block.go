package termfmt

import (
	"strings"

	"github.com/bleikamp/catmd/internal/termfmt/uni"
)

// BlockWidth calculates TextWidthWithANSICodes for each line in str and returns the max value. In other words, it's the number
// of columns that printing a block of text would occupy.
func BlockWidth(str string) int {
	maxWidth := 0
	lineStart := 0

	calcWidth := func(line string) {
		width := TextWidthWithANSICodes(line)
		if width > maxWidth {
			maxWidth = width
		}
	}

	for i := 0; i < len(str); i++ {
		if str[i] == '\n' {
			calcWidth(str[lineStart:i])
			lineStart = i + 1
		}
	}

	calcWidth(str[lineStart:])

	return maxWidth
}

// BlockHeight is the number of rows in str. Note that if str has a trailing newline, str is considered to have a blank last row (it counts).
func BlockHeight(str string) int {
	if str == "" {
		return 0
	}

	height := 1
	for i := 0; i < len(str); i++ {
		if str[i] == '\n' {
			height++
		}
	}
	return height
}

// BlockNormalizeWidth pads every line in str with trailing spaces so all lines
// reach the width of the longest line. Padding is naive: it's appended after
// whatever ANSI codes already terminate the line, so it only produces
// visually correct output for lines whose styling is already closed (ends in
// a reset or never opened one). catmd's renderer closes styling per rendered
// line, so this is the only mode the view composer needs.
func BlockNormalizeWidth(str string) string {
	if str == "" {
		return ""
	}

	lines := strings.Split(str, "\n")
	widths := make([]int, len(lines))
	maxWidth := 0
	for i, line := range lines {
		core := strings.TrimSuffix(line, "\r")
		w := TextWidthWithANSICodes(core)
		widths[i] = w
		if w > maxWidth {
			maxWidth = w
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		hadCR := strings.HasSuffix(line, "\r")
		core := strings.TrimSuffix(line, "\r")
		if pad := maxWidth - widths[i]; pad > 0 {
			core += strings.Repeat(" ", pad)
		}
		if hadCR {
			core += "\r"
		}
		out[i] = core
	}

	return strings.Join(out, "\n")
}

// WrapToWidth wraps str to the given cell width, splitting on grapheme-cluster
// boundaries and breaking clusters wider than width onto their own line. ANSI
// escape sequences are carried through verbatim wherever they fall; they
// don't count against the width budget.
func WrapToWidth(str string, width int) string {
	return wrapStringToWidth(str, width)
}

func wrapStringToWidth(str string, width int) string {
	if str == "" {
		return ""
	}
	if width <= 0 {
		return str
	}

	lines := strings.Split(str, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		hadCR := false
		core := line
		if strings.HasSuffix(core, "\r") {
			hadCR = true
			core = core[:len(core)-1]
		}

		wrapped := wrapLineToWidth(core, width)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		if hadCR {
			wrapped[len(wrapped)-1] += "\r"
		}
		out = append(out, wrapped...)
	}

	return strings.Join(out, "\n")
}

func wrapLineToWidth(line string, width int) []string {
	if line == "" {
		return []string{""}
	}
	if width <= 0 {
		return []string{line}
	}

	var out []string
	var builder strings.Builder
	currentWidth := 0

	for i := 0; i < len(line); {
		if line[i] == '\x1b' {
			seqLen := ansiSequenceLength(line[i:])
			if seqLen == 0 {
				seqLen = 1
			}
			builder.WriteString(line[i : i+seqLen])
			i += seqLen
			continue
		}

		nextEsc := strings.IndexByte(line[i:], '\x1b')
		segmentEnd := len(line)
		if nextEsc >= 0 {
			segmentEnd = i + nextEsc
		}
		segment := line[i:segmentEnd]
		i = segmentEnd

		iter := uni.NewGraphemeIterator(segment, nil)
		for iter.Next() {
			grapheme := segment[iter.Start():iter.End()]
			gw := iter.TextWidth()

			if gw > width {
				if builder.Len() > 0 {
					out = append(out, builder.String())
					builder.Reset()
					currentWidth = 0
				}
				builder.WriteString(grapheme)
				out = append(out, builder.String())
				builder.Reset()
				currentWidth = 0
				continue
			}

			if currentWidth+gw > width && builder.Len() > 0 {
				out = append(out, builder.String())
				builder.Reset()
				currentWidth = 0
			}

			builder.WriteString(grapheme)
			currentWidth += gw

			if currentWidth == width {
				out = append(out, builder.String())
				builder.Reset()
				currentWidth = 0
			}
		}
	}

	if builder.Len() > 0 {
		out = append(out, builder.String())
	} else if len(out) == 0 {
		out = []string{""}
	}

	return out
}

// TruncateWithEllipsis cuts str to at most width cells, appending an
// ellipsis rune when truncation actually occurs. It operates on plain text
// only: ANSI escape sequences are not recognized and are measured as
// ordinary text. TruncateToWidth (cut.go) is the ANSI-aware variant.
func TruncateWithEllipsis(str string, width int) string {
	if width <= 0 {
		return ""
	}
	if uni.TextWidth(str, nil) <= width {
		return str
	}

	const ellipsis = '…'
	budget := width - uni.RuneWidth(ellipsis, nil)
	if budget < 0 {
		budget = 0
	}

	var b strings.Builder
	w := 0
	iter := uni.NewGraphemeIterator(str, nil)
	for iter.Next() {
		gw := iter.TextWidth()
		if w+gw > budget {
			break
		}
		b.WriteString(str[iter.Start():iter.End()])
		w += gw
	}
	b.WriteRune(ellipsis)
	return b.String()
}
