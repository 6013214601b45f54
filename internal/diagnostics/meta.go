package diagnostics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
)

var metaFieldRe = regexp.MustCompile(`^(\w+):\s*(.+)`)

// CheckMeta validates the fields of a meta block. Its content runs from the
// line after the block start up to, not including, end.
func CheckMeta(lines []string, block brufile.Block, end int, types []string) []brufile.Diagnostic {
	if end > len(lines) {
		end = len(lines)
	}
	if len(types) == 0 {
		types = brufile.MetaTypes
	}

	var out []brufile.Diagnostic
	found := make(map[string]bool)
	for i := block.Line + 1; i < end; i++ {
		text := lines[i]
		m := metaFieldRe.FindStringSubmatch(strings.TrimSpace(text))
		if m == nil {
			continue
		}
		field, value := m[1], m[2]
		found[field] = true

		switch field {
		case "type":
			if !contains(types, strings.TrimSpace(value)) {
				start, endChar := span(text, value)
				out = append(out, New(Params{
					Severity:  brufile.SeverityError,
					Line:      i,
					StartChar: start,
					EndChar:   endChar,
					Message:   fmt.Sprintf("Invalid meta type: '%s'. Must be %s", value, quotedList(types)),
					Code:      brufile.CodeInvalidMetaType,
				}))
			}
		case "seq":
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err != nil || n < 0 {
				start, endChar := span(text, value)
				out = append(out, New(Params{
					Severity:  brufile.SeverityError,
					Line:      i,
					StartChar: start,
					EndChar:   endChar,
					Message:   "Sequence number must be a positive integer",
					Code:      brufile.CodeInvalidSeq,
				}))
			}
		}
	}

	for _, required := range brufile.RequiredMetaFields {
		if found[required] {
			continue
		}
		p := atBlock(
			block,
			brufile.SeverityError,
			brufile.CodeMissingMetaField,
			fmt.Sprintf("Missing required field in meta block: '%s'", required),
		)
		out = append(out, New(p))
	}
	return out
}

// quotedList renders "'http' or 'graphql'" style enumerations.
func quotedList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
