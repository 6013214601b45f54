package scanner

import (
	"regexp"
	"strings"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
)

// blockStartRe accepts one qualifier after a colon; the qualifier may contain
// hyphens (script:pre-request, body:form-urlencoded).
var blockStartRe = regexp.MustCompile(`^(\w+(?::[\w-]+)?)\s*\{`)

type LineKind int

const (
	LineBlank LineKind = iota
	LineBlockStart
	LineBlockEnd
	LineContent
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineBlockStart:
		return "block-start"
	case LineBlockEnd:
		return "block-end"
	case LineContent:
		return "content"
	default:
		return "unknown"
	}
}

type Line struct {
	Number  int
	Text    string
	Trimmed string
	Kind    LineKind
	// Block is only set for LineBlockStart.
	Block brufile.Block
}

func Classify(number int, text string) Line {
	trimmed := strings.TrimSpace(text)
	line := Line{Number: number, Text: text, Trimmed: trimmed}

	switch {
	case trimmed == "":
		line.Kind = LineBlank
	case trimmed == "}":
		line.Kind = LineBlockEnd
	default:
		if m := blockStartRe.FindStringSubmatch(trimmed); m != nil {
			line.Kind = LineBlockStart
			line.Block = newBlock(number, text, m[1])
		} else {
			line.Kind = LineContent
		}
	}
	return line
}

func Tokenize(lines []string) []Line {
	out := make([]Line, len(lines))
	for i, text := range lines {
		out[i] = Classify(i, text)
	}
	return out
}

// Blocks returns every block start in line order with its end line resolved
// by the state machine.
func Blocks(lines []string) []brufile.Block {
	var (
		m      Machine
		blocks []brufile.Block
	)
	for _, line := range Tokenize(lines) {
		step := m.Step(line)
		// blocks never nest, so a closed block is always the latest one
		if step.Closed != nil && len(blocks) > 0 {
			blocks[len(blocks)-1].EndLine = step.Closed.EndLine
		}
		if step.Opened != nil {
			blocks = append(blocks, *step.Opened)
		}
	}
	return blocks
}

func newBlock(number int, text, name string) brufile.Block {
	start := strings.Index(text, name)
	if start < 0 {
		start = 0
	}
	startChar := brufile.ByteToUTF16(text, start)
	return brufile.Block{
		Name:      name,
		Line:      number,
		EndLine:   -1,
		StartChar: startChar,
		EndChar:   startChar + brufile.UTF16Len(name),
	}
}
