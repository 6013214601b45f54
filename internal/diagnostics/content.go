package diagnostics

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
)

var urlLineRe = regexp.MustCompile(`^url:\s*(.+)`)

// CheckContent validates one content line owned by block. Lines ending with
// an opening brace are never content for validation purposes.
func CheckContent(block string, number int, text string) []brufile.Diagnostic {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasSuffix(trimmed, "{") {
		return nil
	}

	var out []brufile.Diagnostic
	switch {
	case brufile.IsHTTPMethod(block):
		if d, ok := CheckURL(number, text); ok {
			out = append(out, d)
		}
	case block == brufile.HeadersBlock:
		if d, ok := CheckHeader(number, text); ok {
			out = append(out, d)
		}
	case block == brufile.JSONBodyBlock:
		if d, ok := CheckJSONLine(number, text); ok {
			out = append(out, d)
		}
	}
	return out
}

// CheckURL warns about a url line whose value is neither a whole-value
// variable reference nor an absolute URL.
func CheckURL(number int, text string) (brufile.Diagnostic, bool) {
	m := urlLineRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return brufile.Diagnostic{}, false
	}
	value := strings.TrimSpace(m[1])
	if ValidURL(value) {
		return brufile.Diagnostic{}, false
	}
	start, end := span(text, value)
	return New(Params{
		Severity:  brufile.SeverityWarning,
		Line:      number,
		StartChar: start,
		EndChar:   end,
		Message:   "Invalid URL format",
		Code:      brufile.CodeInvalidURL,
	}), true
}

func ValidURL(value string) bool {
	if strings.HasPrefix(value, "{{") && strings.HasSuffix(value, "}}") {
		return true
	}
	if u, err := url.Parse(value); err == nil && u.Scheme != "" {
		return true
	}
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// CheckHeader requires a colon on every header line that is not disabled
// with a leading "~".
func CheckHeader(number int, text string) (brufile.Diagnostic, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "~") || strings.Contains(trimmed, ":") {
		return brufile.Diagnostic{}, false
	}
	return wholeLine(
		brufile.SeverityError,
		number,
		text,
		`Invalid header format. Expected: "Header-Name: value"`,
		brufile.CodeInvalidHeader,
	), true
}

// CheckJSONLine parses a body:json line as a standalone JSON value. Lines
// starting with "{", "[" or a quote are skipped: they are usually fragments of
// a multi-line value and would not parse on their own. Invalid multi-line
// bodies therefore go unreported.
func CheckJSONLine(number int, text string) (brufile.Diagnostic, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "{") ||
		strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, `"`) {
		return brufile.Diagnostic{}, false
	}
	if json.Valid([]byte(trimmed)) {
		return brufile.Diagnostic{}, false
	}
	return wholeLine(
		brufile.SeverityWarning,
		number,
		text,
		"Invalid JSON syntax",
		brufile.CodeInvalidJSON,
	), true
}

func wholeLine(sev brufile.Severity, number int, text, message string, code brufile.Code) brufile.Diagnostic {
	return New(Params{
		Severity: sev,
		Line:     number,
		EndChar:  brufile.UTF16Len(text),
		Message:  message,
		Code:     code,
	})
}

// span locates the first occurrence of sub in text as a UTF-16 range.
func span(text, sub string) (int, int) {
	idx := strings.Index(text, sub)
	if idx < 0 {
		idx = 0
	}
	start := brufile.ByteToUTF16(text, idx)
	return start, start + brufile.UTF16Len(sub)
}
