package diagnostics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
)

var (
	variableRe     = regexp.MustCompile(`\{\{([^}]*)\}\}`)
	variableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// CheckVariables reports every malformed {{...}} reference on a line,
// regardless of the block the line belongs to.
func CheckVariables(number int, text string) []brufile.Diagnostic {
	var out []brufile.Diagnostic
	for _, loc := range variableRe.FindAllStringSubmatchIndex(text, -1) {
		name := strings.TrimSpace(text[loc[2]:loc[3]])
		start := brufile.ByteToUTF16(text, loc[0])
		end := start + brufile.UTF16Len(text[loc[0]:loc[1]])

		switch {
		case name == "":
			out = append(out, New(Params{
				Severity:  brufile.SeverityError,
				Line:      number,
				StartChar: start,
				EndChar:   end,
				Message:   "Empty variable reference",
				Code:      brufile.CodeEmptyVariable,
			}))
		case !variableNameRe.MatchString(name):
			out = append(out, New(Params{
				Severity:  brufile.SeverityWarning,
				Line:      number,
				StartChar: start,
				EndChar:   end,
				Message:   fmt.Sprintf("Invalid variable name: '%s'. Use alphanumeric and underscores only", name),
				Code:      brufile.CodeInvalidVariable,
			}))
		}
	}
	return out
}
