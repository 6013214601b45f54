// Package report renders diagnostics for the check command.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(raw string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatText, "":
		return FormatText, true
	case FormatJSON:
		return FormatJSON, true
	default:
		return "", false
	}
}

// File is one checked document and what the validator reported for it.
type File struct {
	Path        string
	Doc         *brufile.Document
	Diagnostics []brufile.Diagnostic
}

type Summary struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

func (s Summary) Failed() bool {
	return s.Errors > 0
}

func Summarize(files []File) Summary {
	s := Summary{Files: len(files)}
	for _, f := range files {
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case brufile.SeverityError:
				s.Errors++
			case brufile.SeverityWarning:
				s.Warnings++
			}
		}
	}
	return s
}

type Options struct {
	Format  Format
	NoColor bool
}

func Write(w io.Writer, files []File, opts Options) (Summary, error) {
	if opts.Format == FormatJSON {
		return WriteJSON(w, files)
	}
	return WriteText(w, files, opts.NoColor)
}

type styles struct {
	path    lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	code    lipgloss.Style
	gutter  lipgloss.Style
	caret   lipgloss.Style
	summary lipgloss.Style
}

func newStyles(w io.Writer, noColor bool) styles {
	var r *lipgloss.Renderer
	if noColor {
		r = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	} else {
		r = lipgloss.NewRenderer(w)
	}
	return styles{
		path:    r.NewStyle().Bold(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("#F25D94")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#EDC27A")).Bold(true),
		code:    r.NewStyle().Foreground(lipgloss.Color("#7D88A1")),
		gutter:  r.NewStyle().Foreground(lipgloss.Color("#4C566A")),
		caret:   r.NewStyle().Foreground(lipgloss.Color("#F25D94")),
		summary: r.NewStyle().Faint(true),
	}
}

// WriteText prints one entry per diagnostic:
//
//	path:line:col: severity[code]: message
//	   3 | url: not a url
//	     |      ^^^^^^^^^
func WriteText(w io.Writer, files []File, noColor bool) (Summary, error) {
	st := newStyles(w, noColor)
	var b strings.Builder
	for _, f := range files {
		for _, d := range f.Diagnostics {
			writeEntry(&b, st, f, d)
		}
	}
	sum := Summarize(files)
	b.WriteString(st.summary.Render(fmt.Sprintf(
		"%d file(s) checked, %d error(s), %d warning(s)",
		sum.Files, sum.Errors, sum.Warnings,
	)))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return sum, err
}

func writeEntry(b *strings.Builder, st styles, f File, d brufile.Diagnostic) {
	line := d.Range.Start.Line
	col := d.Range.Start.Character
	sev := st.warn
	if d.Severity == brufile.SeverityError {
		sev = st.err
	}
	fmt.Fprintf(b, "%s:%d:%d: %s%s: %s\n",
		st.path.Render(f.Path), line+1, col+1,
		sev.Render(d.Severity.String()),
		st.code.Render("["+string(d.Code)+"]"),
		d.Message,
	)
	if f.Doc == nil || line >= f.Doc.LineCount() {
		return
	}

	text := f.Doc.Line(line)
	number := fmt.Sprintf("%4d", line+1)
	pad := strings.Repeat(" ", len(number))
	fmt.Fprintf(b, "%s %s %s\n", number, st.gutter.Render("|"), expandTabs(text))

	indent, width := underline(text, col, d.Range.End.Character)
	fmt.Fprintf(b, "%s %s %s%s\n", pad, st.gutter.Render("|"),
		strings.Repeat(" ", indent), st.caret.Render(strings.Repeat("^", width)))
}

// underline maps a UTF-16 column span on text to display cells.
func underline(text string, startCol, endCol int) (indent, width int) {
	start := brufile.UTF16ToByte(text, startCol)
	end := brufile.UTF16ToByte(text, endCol)
	if end < start {
		end = start
	}
	indent = runewidth.StringWidth(expandTabs(text[:start]))
	width = runewidth.StringWidth(expandTabs(text[start:end]))
	if width < 1 {
		width = 1
	}
	return indent, width
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

type jsonFile struct {
	Path        string           `json:"path"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

type jsonDiagnostic struct {
	Severity string        `json:"severity"`
	Code     brufile.Code  `json:"code"`
	Message  string        `json:"message"`
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Range    brufile.Range `json:"range"`
}

type jsonReport struct {
	Files   []jsonFile `json:"files"`
	Summary Summary    `json:"summary"`
}

// WriteJSON emits 1-based line and column next to the raw 0-based LSP range.
func WriteJSON(w io.Writer, files []File) (Summary, error) {
	out := jsonReport{Files: make([]jsonFile, 0, len(files)), Summary: Summarize(files)}
	for _, f := range files {
		jf := jsonFile{Path: f.Path, Diagnostics: make([]jsonDiagnostic, 0, len(f.Diagnostics))}
		for _, d := range f.Diagnostics {
			jf.Diagnostics = append(jf.Diagnostics, jsonDiagnostic{
				Severity: d.Severity.String(),
				Code:     d.Code,
				Message:  d.Message,
				Line:     d.Range.Start.Line + 1,
				Column:   d.Range.Start.Character + 1,
				Range:    d.Range,
			})
		}
		out.Files = append(out.Files, jf)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return out.Summary, enc.Encode(out)
}
