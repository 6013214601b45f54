package main

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
	"github.com/DaviTostes/bruno-language-server/internal/diagnostics"
	"github.com/DaviTostes/bruno-language-server/internal/filesvc"
	"github.com/DaviTostes/bruno-language-server/internal/report"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func runCheck(args []string, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("bruno-ls check", flag.ContinueOnError)
	fset.SetOutput(stderr)
	var (
		formatRaw  string
		noColor    bool
		configPath string
	)
	fset.StringVar(&formatRaw, "format", "text", "Output format: text or json")
	fset.BoolVar(&noColor, "no-color", false, "Disable coloured output")
	fset.StringVar(&configPath, "config", "", "Path to a settings file (toml, json or yaml)")
	fset.Usage = func() {
		fmt.Fprintln(stderr, "usage: bruno-ls check [--format text|json] [--no-color] [--config FILE] PATH...")
		fset.PrintDefaults()
	}
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}

	format, ok := report.ParseFormat(formatRaw)
	if !ok {
		fmt.Fprintf(stderr, "unknown format %q\n", formatRaw)
		return exitUsage
	}
	if fset.NArg() == 0 {
		fset.Usage()
		return exitUsage
	}

	settings, err := loadSettings(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "settings: %v\n", err)
		return exitUsage
	}
	validator := diagnostics.NewValidator(settings.DiagnosticOptions())

	paths, err := filesvc.Collect(fset.Args())
	failed := err != nil
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
	}

	files := make([]report.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "read %s: %v\n", path, err)
			failed = true
			continue
		}
		doc := brufile.NewDocument(fileURI(path), string(data))
		files = append(files, report.File{
			Path:        path,
			Doc:         doc,
			Diagnostics: validator.Validate(doc),
		})
	}

	sum, err := report.Write(stdout, files, report.Options{Format: format, NoColor: noColor})
	if err != nil {
		fmt.Fprintf(stderr, "write report: %v\n", err)
		return exitUsage
	}
	switch {
	case failed:
		return exitUsage
	case sum.Failed():
		return exitFailed
	default:
		return exitOK
	}
}

func fileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
