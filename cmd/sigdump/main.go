// Command sigdump compiles WebAssembly modules into one shared signature
// registry and prints the resulting handle table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/sigregistry/sigreg"
)

type options struct {
	format      string
	interactive bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.format, "format", "text", "Output format: text or yaml")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.verbose, "v", false, "Log registrations to stderr")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: sigdump [-format text|yaml] [-v] <file.wasm>...")
		fmt.Fprintln(os.Stderr, "       sigdump -i <file.wasm>...  (interactive mode)")
		os.Exit(1)
	}

	color := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(context.Background(), os.Stdout, color, opts, files); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so the logger is flushed on every path.
func run(ctx context.Context, w io.Writer, color bool, opts options, files []string) error {
	log := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log = l
		sigreg.SetLogger(l)
	}
	defer func() { _ = log.Sync() }()

	switch opts.format {
	case "text", "yaml":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	rep, err := buildReport(ctx, log, files)
	if err != nil {
		return err
	}

	if opts.interactive {
		return runInteractive(rep)
	}
	if opts.format == "yaml" {
		return writeYAML(w, rep)
	}
	return writeText(w, rep, color)
}
