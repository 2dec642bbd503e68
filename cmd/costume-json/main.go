// The costume-json command parses a costume overlay BIN file and emits a
// JSON description of its blocks.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/msmtools/msmbin/costume"
)

const usage = `usage: costume-json [INPUT] [OUTPUT]

Reads a costume overlay BIN file from INPUT, and writes to OUTPUT a JSON
description of its blocks.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	flag.Usage = func() { fmt.Fprintf(flag.CommandLine.Output(), usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			os.Exit(1)
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			os.Exit(1)
		}
		defer out.Close()
		output = out
	}

	c, warn, err := costume.Decoder{}.Decode(input)
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode: %w", err))
		os.Exit(1)
	}
	b, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("encode JSON: %w", err))
		os.Exit(1)
	}
	b = append(b, '\n')
	if _, err := output.Write(b); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write output: %w", err))
		os.Exit(1)
	}
}
