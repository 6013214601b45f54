package diagnostics

import "github.com/DaviTostes/bruno-language-server/internal/brufile"

type Params struct {
	Severity  brufile.Severity
	Line      int
	StartChar int
	EndChar   int
	Message   string
	Code      brufile.Code
	Related   []brufile.RelatedInfo
}

func New(p Params) brufile.Diagnostic {
	return brufile.Diagnostic{
		Severity: p.Severity,
		Range:    brufile.LineRange(p.Line, p.StartChar, p.EndChar),
		Message:  p.Message,
		Source:   brufile.DiagnosticSource,
		Code:     p.Code,
		Related:  p.Related,
	}
}

// Simple builds a diagnostic with an empty range at the start of line.
func Simple(sev brufile.Severity, line int, message string, code brufile.Code) brufile.Diagnostic {
	return New(Params{Severity: sev, Line: line, Message: message, Code: code})
}

func atBlock(b brufile.Block, sev brufile.Severity, code brufile.Code, message string) Params {
	return Params{
		Severity:  sev,
		Line:      b.Line,
		StartChar: b.StartChar,
		EndChar:   b.EndChar,
		Message:   message,
		Code:      code,
	}
}

func firstOccurrence(uri string, first brufile.Block) []brufile.RelatedInfo {
	return []brufile.RelatedInfo{{
		Location: brufile.Location{URI: uri, Range: first.NameRange()},
		Message:  "First occurrence here",
	}}
}
