package diagnostics

import (
	"fmt"
	"strings"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
	"github.com/DaviTostes/bruno-language-server/internal/scanner"
)

type Options struct {
	// Disabled suppresses diagnostics by code.
	Disabled []brufile.Code
	// ExtraBlocks are accepted in addition to brufile.KnownBlocks.
	ExtraBlocks []string
	// MetaTypes replaces brufile.MetaTypes when non-empty.
	MetaTypes []string
}

// Validator is immutable once built and safe for concurrent use.
type Validator struct {
	known     map[string]struct{}
	disabled  map[brufile.Code]struct{}
	metaTypes []string
}

func NewValidator(opts Options) *Validator {
	v := &Validator{
		known:    make(map[string]struct{}, len(brufile.KnownBlocks)+len(opts.ExtraBlocks)),
		disabled: make(map[brufile.Code]struct{}, len(opts.Disabled)),
	}
	for _, name := range brufile.KnownBlocks {
		v.known[name] = struct{}{}
	}
	for _, name := range opts.ExtraBlocks {
		if name = strings.TrimSpace(name); name != "" {
			v.known[name] = struct{}{}
		}
	}
	for _, code := range opts.Disabled {
		v.disabled[code] = struct{}{}
	}
	if len(opts.MetaTypes) > 0 {
		v.metaTypes = append([]string(nil), opts.MetaTypes...)
	} else {
		v.metaTypes = brufile.MetaTypes
	}
	return v
}

var defaultValidator = NewValidator(Options{})

// Validate runs the default validator over text.
func Validate(uri, text string) []brufile.Diagnostic {
	return defaultValidator.Validate(brufile.NewDocument(uri, text))
}

// Validate reports every diagnostic for doc. Order is stable: line scan
// findings in line order, then multiplicity violations, then document level
// findings.
func (v *Validator) Validate(doc *brufile.Document) []brufile.Diagnostic {
	var (
		m       scanner.Machine
		out     []brufile.Diagnostic
		blocks  []brufile.Block
		hasMeta bool
		hasHTTP bool
	)

	for _, line := range scanner.Tokenize(doc.Lines) {
		if line.Kind == scanner.LineBlank {
			continue
		}
		step := m.Step(line)

		if step.Closed != nil {
			if len(blocks) > 0 {
				blocks[len(blocks)-1].EndLine = step.Closed.EndLine
			}
			if step.Closed.Name == brufile.MetaBlock {
				out = append(out, CheckMeta(doc.Lines, *step.Closed, step.Closed.EndLine, v.metaTypes)...)
			}
		}
		if step.Opened != nil {
			b := *step.Opened
			blocks = append(blocks, b)
			hasHTTP = hasHTTP || brufile.IsHTTPMethod(b.Name)
			hasMeta = hasMeta || b.Name == brufile.MetaBlock
			if d, ok := v.checkBlockName(b); ok {
				out = append(out, d)
			}
		}
		if step.Content != nil {
			out = append(out, CheckContent(step.Content.Name, line.Number, line.Text)...)
		}
		out = append(out, CheckVariables(line.Number, line.Text)...)
	}
	if open, ok := m.Finish(); ok && open.Name == brufile.MetaBlock {
		out = append(out, CheckMeta(doc.Lines, open, len(doc.Lines), v.metaTypes)...)
	}

	out = append(out, CheckDuplicates(blocks, doc.URI)...)

	if !hasHTTP {
		out = append(out, Simple(
			brufile.SeverityError,
			0,
			fmt.Sprintf("Missing HTTP method block (%s)", strings.Join(brufile.HTTPMethods, ", ")),
			brufile.CodeMissingHTTPMethod,
		))
	}
	if !hasMeta {
		out = append(out, Simple(
			brufile.SeverityWarning,
			0,
			"Missing meta block (recommended)",
			brufile.CodeMissingMeta,
		))
	}
	return v.filter(out)
}

func (v *Validator) checkBlockName(b brufile.Block) (brufile.Diagnostic, bool) {
	if _, ok := v.known[b.Name]; ok {
		return brufile.Diagnostic{}, false
	}
	return New(atBlock(
		b,
		brufile.SeverityError,
		brufile.CodeUnknownBlock,
		fmt.Sprintf("Unknown block type: '%s'", b.Name),
	)), true
}

func (v *Validator) filter(in []brufile.Diagnostic) []brufile.Diagnostic {
	if len(v.disabled) == 0 {
		return in
	}
	out := in[:0]
	for _, d := range in {
		if _, off := v.disabled[d.Code]; off {
			continue
		}
		out = append(out, d)
	}
	return out
}
