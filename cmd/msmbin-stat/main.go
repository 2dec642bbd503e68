// The msmbin-stat command displays stats for a rev 6 animation container.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/msmtools/msmbin"
	"github.com/msmtools/msmbin/errors"
	"github.com/msmtools/msmbin/rev6"
)

const usage = `usage: msmbin-stat [INPUT] [OUTPUT]

Reads a rev 6 animation container from INPUT, and writes to OUTPUT statistics
for the file, including a BLAKE2b-256 digest of its content.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

type Stats struct {
	// Size of the file in bytes.
	Size int

	// BLAKE2b-256 digest of the file content.
	Digest string

	// Number of atlas sources.
	SourceCount int

	// Number of animations.
	AnimationCount int

	// Number of layers overall.
	LayerCount int

	// Number of keyframes overall.
	FrameCount int

	// Number of clone-layer directives overall.
	CloneLayerCount int

	// Number of layers per blend mode.
	BlendCount map[string]int

	// Messages for non-fatal problems encountered while decoding.
	Warnings []string `json:",omitempty"`
}

func (s *Stats) Fill(anim *msmbin.BinAnim) {
	if anim == nil {
		return
	}
	s.SourceCount = len(anim.Sources)
	s.AnimationCount = len(anim.Anims)
	s.BlendCount = map[string]int{}
	for _, a := range anim.Anims {
		s.LayerCount += len(a.Layers)
		s.CloneLayerCount += len(a.CloneLayers)
		for _, l := range a.Layers {
			s.FrameCount += len(l.Frames)
			s.BlendCount[l.Blend.String()]++
		}
	}
}

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

	data, err := io.ReadAll(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("read input: %w", err))
		os.Exit(1)
	}

	stats := Stats{Size: len(data)}
	sum := blake2b.Sum256(data)
	stats.Digest = hex.EncodeToString(sum[:])

	anim, warn, err := rev6.Decoder{}.Decode(bytes.NewReader(data))
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("warning: %w", warn))
		if errs, ok := warn.(errors.Errors); ok {
			for _, w := range errs {
				stats.Warnings = append(stats.Warnings, w.Error())
			}
		} else {
			stats.Warnings = append(stats.Warnings, warn.Error())
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode: %w", err))
		os.Exit(1)
	}
	stats.Fill(anim)

	b, err := json.MarshalIndent(&stats, "", "\t")
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
