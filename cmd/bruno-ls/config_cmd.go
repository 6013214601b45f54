package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/DaviTostes/bruno-language-server/internal/config"
	"github.com/DaviTostes/bruno-language-server/internal/errdef"
)

func runConfig(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: bruno-ls config <init|path>")
		return exitUsage
	}
	switch args[0] {
	case "init":
		return runConfigInit(args[1:], stdout, stderr)
	case "path":
		for _, c := range config.Candidates() {
			if _, err := os.Stat(c.Path); err == nil {
				fmt.Fprintln(stdout, c.Path)
				return exitOK
			}
		}
		fmt.Fprintln(stdout, config.Candidates()[0].Path)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown config command %q\n", args[0])
		return exitUsage
	}
}

// runConfigInit writes the default settings so users have a file to edit.
func runConfigInit(args []string, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("bruno-ls config init", flag.ContinueOnError)
	fset.SetOutput(stderr)
	var (
		formatRaw string
		path      string
		force     bool
	)
	fset.StringVar(&formatRaw, "format", "toml", "Settings format: toml, json or yaml")
	fset.StringVar(&path, "path", "", "Write to this file instead of the config directory")
	fset.BoolVar(&force, "force", false, "Overwrite an existing file")
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}

	handle, err := initHandle(path, formatRaw)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}
	if !force {
		if _, err := os.Stat(handle.Path); err == nil {
			fmt.Fprintf(stderr, "%s already exists (use --force to overwrite)\n", handle.Path)
			return exitFailed
		} else if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(stderr, "%v\n", err)
			return exitFailed
		}
	}
	if err := config.SaveSettings(config.DefaultSettings(), handle); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitFailed
	}
	fmt.Fprintf(stdout, "wrote %s\n", handle.Path)
	return exitOK
}

func initHandle(path, formatRaw string) (config.SettingsHandle, error) {
	if strings.TrimSpace(path) != "" {
		format, err := config.FormatForPath(path)
		if err != nil {
			return config.SettingsHandle{}, err
		}
		return config.SettingsHandle{Path: path, Format: format}, nil
	}
	format := config.SettingsFormat(strings.ToLower(strings.TrimSpace(formatRaw)))
	for _, c := range config.Candidates() {
		if c.Format == format {
			return c, nil
		}
	}
	return config.SettingsHandle{}, errdef.New(errdef.CodeConfig, "unknown settings format %q", formatRaw)
}
