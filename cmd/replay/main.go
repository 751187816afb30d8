// Command replay reads a frame log and prints per-frame summaries: agent
// count, action distribution, and mean hunger/energy. Useful for spot
// checking a run without rerunning the simulation.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"menagerie/components"
	"menagerie/framelog"
)

func main() {
	every := flag.Int("every", 1, "Print every Nth frame")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-every N] <log-file>\n", os.Args[0])
		os.Exit(2)
	}
	if *every < 1 {
		*every = 1
	}

	r, err := framelog.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer r.Close()

	var frames int
	for {
		frame, err := r.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		frames++

		if frame.Seq%uint64(*every) != 0 {
			continue
		}
		printFrame(frame)
	}
	fmt.Printf("%d frames\n", frames)
}

func printFrame(frame *framelog.Frame) {
	var counts [components.ActionCount]int
	var hunger, energy float64

	for i := range frame.Records {
		r := &frame.Records[i]
		if r.Action < components.ActionCount {
			counts[r.Action]++
		}
		hunger += float64(r.Hunger)
		energy += float64(r.Energy)
	}

	n := len(frame.Records)
	if n > 0 {
		hunger /= float64(n)
		energy /= float64(n)
	}

	fmt.Printf("frame %5d  agents %4d  hunger %.3f  energy %.3f  ", frame.Seq, n, hunger, energy)
	for kind := components.ActionKind(0); kind < components.ActionCount; kind++ {
		if counts[kind] > 0 {
			fmt.Printf("%s=%d ", kind, counts[kind])
		}
	}
	fmt.Println()
}
