package brufile

import (
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Document is an immutable snapshot of one .bru file.
type Document struct {
	URI        string
	Text       string
	Lines      []string
	lineStarts []int
}

func NewDocument(uri, text string) *Document {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	starts := make([]int, len(raw))
	offset := 0
	for i, line := range raw {
		starts[i] = offset
		offset += len(line) + 1
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return &Document{URI: uri, Text: text, Lines: lines, lineStarts: starts}
}

func (d *Document) LineCount() int {
	return len(d.Lines)
}

func (d *Document) Line(n int) string {
	if n < 0 || n >= len(d.Lines) {
		return ""
	}
	return d.Lines[n]
}

// OffsetAt converts an editor position into a byte offset into Text.
// Positions past the end of a line or of the document are clamped.
func (d *Document) OffsetAt(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(d.Lines) {
		return len(d.Text)
	}
	start := d.lineStarts[pos.Line]
	return start + UTF16ToByte(d.Lines[pos.Line], pos.Character)
}

func (d *Document) PositionAt(offset int) Position {
	if offset <= 0 {
		return Position{}
	}
	if offset > len(d.Text) {
		offset = len(d.Text)
	}
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	col := offset - d.lineStarts[line]
	text := d.Lines[line]
	if col > len(text) {
		col = len(text)
	}
	return Position{Line: line, Character: ByteToUTF16(text, col)}
}

// ByteToUTF16 converts a byte column within s into UTF-16 code units.
func ByteToUTF16(s string, byteCol int) int {
	if byteCol > len(s) {
		byteCol = len(s)
	}
	units := 0
	for _, r := range s[:byteCol] {
		units += utf16.RuneLen(r)
	}
	return units
}

// UTF16ToByte converts a UTF-16 column within s into a byte column.
func UTF16ToByte(s string, col int) int {
	if col <= 0 {
		return 0
	}
	units := 0
	for i, r := range s {
		if units >= col {
			return i
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
	}
	return len(s)
}

// UTF16Len is the editor length of s.
func UTF16Len(s string) int {
	if isASCII(s) {
		return len(s)
	}
	return ByteToUTF16(s, len(s))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
