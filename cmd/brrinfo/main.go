// brrinfo inspects a .brr file and reports its block count, loop/end
// markers, and shift/filter distribution.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cwbudde/snesbrr"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("brrinfo", flag.ContinueOnError)
	input := flagSet.String("input", "", "path to the .brr file to inspect")

	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if *input == "" {
		return fmt.Errorf("missing -input")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *input, err)
	}

	stream := brr.ParseBrrStream(data, 0)
	if len(stream.Blocks) == 0 {
		return fmt.Errorf("%s: %w", *input, brr.ErrEmptyStream)
	}

	var shiftHist [16]int
	var filterHist [4]int
	loopAt, endAt := -1, -1

	for i, blk := range stream.Blocks {
		shiftHist[blk.Shift]++
		filterHist[blk.Filter]++

		if blk.Loop && loopAt == -1 {
			loopAt = i
		}

		if blk.End && endAt == -1 {
			endAt = i
		}
	}

	fmt.Printf("%s: %d blocks (%d bytes), %d samples\n", *input, len(stream.Blocks), len(data), len(stream.Blocks)*16)
	fmt.Printf("loop block: %d, end block: %d\n", loopAt, endAt)

	fmt.Println("shift histogram:")
	for s, n := range shiftHist {
		if n > 0 {
			fmt.Printf("  shift=%-2d %d\n", s, n)
		}
	}

	fmt.Println("filter histogram:")
	for f, n := range filterHist {
		if n > 0 {
			fmt.Printf("  filter=%d %d\n", f, n)
		}
	}

	return nil
}
