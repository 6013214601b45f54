package diagnostics

import (
	"fmt"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
	"github.com/DaviTostes/bruno-language-server/internal/scanner"
)

// ScanStructure tokenizes lines and reports every multiplicity violation.
func ScanStructure(lines []string, uri string) []brufile.Diagnostic {
	return CheckDuplicates(scanner.Blocks(lines), uri)
}

// CheckDuplicates runs the independent multiplicity checks over blocks in
// line order. The first occurrence of anything is always the valid one.
func CheckDuplicates(blocks []brufile.Block, uri string) []brufile.Diagnostic {
	var out []brufile.Diagnostic
	out = append(out, checkHTTPMethods(blocks, uri)...)
	out = append(out, checkUniqueBlocks(blocks, uri)...)
	out = append(out, checkBodies(blocks, uri)...)
	out = append(out, checkAuth(blocks, uri)...)
	out = append(out, checkScripts(blocks, uri)...)
	return out
}

func checkHTTPMethods(blocks []brufile.Block, uri string) []brufile.Diagnostic {
	methods := filter(blocks, brufile.IsHTTPMethod)
	return flagLater(methods, uri, brufile.CodeDuplicateHTTPMethod, func(first brufile.Block) string {
		return fmt.Sprintf(
			"Multiple HTTP method blocks found. Only one HTTP method (%s) is allowed per request. First occurrence at line %d.",
			first.Name,
			first.Line+1,
		)
	})
}

func checkUniqueBlocks(blocks []brufile.Block, uri string) []brufile.Diagnostic {
	var out []brufile.Diagnostic
	for _, group := range groupByName(filter(blocks, brufile.IsUniqueBlock)) {
		out = append(out, flagLater(group, uri, brufile.CodeDuplicateBlock, func(first brufile.Block) string {
			return fmt.Sprintf(
				"Duplicate '%s' block. This block can only appear once. First occurrence at line %d.",
				first.Name,
				first.Line+1,
			)
		})...)
	}
	return out
}

func checkBodies(blocks []brufile.Block, uri string) []brufile.Diagnostic {
	bodies := filter(blocks, brufile.IsBodyBlock)
	return flagLater(bodies, uri, brufile.CodeDuplicateBody, func(first brufile.Block) string {
		return fmt.Sprintf(
			"Multiple body blocks found. Only one body type is allowed per request. First occurrence at line %d.",
			first.Line+1,
		)
	})
}

func checkAuth(blocks []brufile.Block, uri string) []brufile.Diagnostic {
	auths := filter(blocks, brufile.IsAuthBlock)
	return flagLater(auths, uri, brufile.CodeDuplicateAuth, func(first brufile.Block) string {
		return fmt.Sprintf(
			"Multiple auth blocks found. Only one authentication method is allowed per request. First occurrence at line %d.",
			first.Line+1,
		)
	})
}

func checkScripts(blocks []brufile.Block, uri string) []brufile.Diagnostic {
	var out []brufile.Diagnostic
	for _, group := range groupByName(filter(blocks, brufile.IsScriptBlock)) {
		out = append(out, flagLater(group, uri, brufile.CodeDuplicateScript, func(first brufile.Block) string {
			return fmt.Sprintf(
				"Duplicate '%s' block. Each script type can only appear once. First occurrence at line %d.",
				first.Name,
				first.Line+1,
			)
		})...)
	}
	return out
}

// flagLater emits one error per occurrence after the first, each pointing back
// at the first occurrence.
func flagLater(
	occurrences []brufile.Block,
	uri string,
	code brufile.Code,
	message func(first brufile.Block) string,
) []brufile.Diagnostic {
	if len(occurrences) < 2 {
		return nil
	}
	first := occurrences[0]
	msg := message(first)
	out := make([]brufile.Diagnostic, 0, len(occurrences)-1)
	for _, b := range occurrences[1:] {
		p := atBlock(b, brufile.SeverityError, code, msg)
		p.Related = firstOccurrence(uri, first)
		out = append(out, New(p))
	}
	return out
}

func filter(blocks []brufile.Block, keep func(name string) bool) []brufile.Block {
	var out []brufile.Block
	for _, b := range blocks {
		if keep(b.Name) {
			out = append(out, b)
		}
	}
	return out
}

// groupByName groups by exact name, ordered by first appearance.
func groupByName(blocks []brufile.Block) [][]brufile.Block {
	index := make(map[string]int)
	var groups [][]brufile.Block
	for _, b := range blocks {
		i, ok := index[b.Name]
		if !ok {
			i = len(groups)
			index[b.Name] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], b)
	}
	return groups
}
