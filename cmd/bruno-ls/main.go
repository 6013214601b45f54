package main

import (
	"fmt"
	"io"
	"os"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "check":
			return runCheck(args[1:], stdout, stderr)
		case "config":
			return runConfig(args[1:], stdout, stderr)
		}
	}
	return runServe(args, stdout, stderr)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "bruno-ls %s\n", version)
	fmt.Fprintf(w, "  commit: %s\n", commit)
	fmt.Fprintf(w, "  built:  %s\n", date)
}
