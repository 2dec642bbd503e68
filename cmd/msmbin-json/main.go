// The msmbin-json command converts rev 6 animation containers between their
// binary and JSON forms.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/msmtools/msmbin"
	"github.com/msmtools/msmbin/rev6"
)

const usage = `usage: msmbin-json MODE [INPUT] [OUTPUT]

Converts a rev 6 animation container between its binary and JSON forms.

MODE is "d" to decode a binary container from INPUT and write JSON to OUTPUT,
or "b" to read JSON from INPUT and write a binary container to OUTPUT.

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
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}
	mode := args[0]
	if mode != "d" && mode != "b" {
		flag.Usage()
		os.Exit(2)
	}
	if len(args) >= 2 && args[1] != "-" {
		in, err := os.Open(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			os.Exit(1)
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 3 && args[2] != "-" {
		out, err := os.Create(args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			os.Exit(1)
		}
		defer out.Close()
		output = out
	}

	switch mode {
	case "d":
		anim, warn, err := rev6.Decoder{}.Decode(input)
		if warn != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("warning: %w", warn))
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("decode: %w", err))
			os.Exit(1)
		}
		b, err := json.MarshalIndent(anim, "", "\t")
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("encode JSON: %w", err))
			os.Exit(1)
		}
		b = append(b, '\n')
		if _, err := output.Write(b); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("write output: %w", err))
			os.Exit(1)
		}
	case "b":
		b, err := io.ReadAll(input)
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("read input: %w", err))
			os.Exit(1)
		}
		var anim msmbin.BinAnim
		if err := json.Unmarshal(b, &anim); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("decode JSON: %w", err))
			os.Exit(1)
		}
		if err := (rev6.Encoder{}).Encode(output, &anim); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("encode: %w", err))
			os.Exit(1)
		}
	}
}
