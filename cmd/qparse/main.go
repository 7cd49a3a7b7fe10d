// Command qparse runs the question parser over PDF or text exam papers and
// writes the extracted questions as JSON.
//
//	qparse -input paper.pdf -output questions.json
//	qparse -batch ./papers -workers 8 -verbose
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mind-engage/ppl-mockexam/internal/logger"
)

func main() {
	input := flag.String("input", "", "PDF or .txt file to parse")
	batch := flag.String("batch", "", "directory of PDF/.txt files to parse in parallel")
	output := flag.String("output", "", "output JSON file (default stdout)")
	section := flag.String("section", "", "section id to tag every question with (default: classify)")
	workers := flag.Int("workers", 4, "parallel documents in -batch mode")
	verbose := flag.Bool("verbose", false, "log progress and include per-section keyword scores")
	flag.Parse()

	if (*input == "") == (*batch == "") {
		fmt.Fprintln(os.Stderr, "qparse: exactly one of -input or -batch is required")
		flag.Usage()
		os.Exit(2)
	}

	log := logger.Nop()
	if *verbose {
		l, err := logger.New("dev")
		if err != nil {
			fmt.Fprintf(os.Stderr, "qparse: logger: %v\n", err)
			os.Exit(1)
		}
		log = l
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var out io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "qparse: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	opts := options{Section: *section, Workers: *workers, Verbose: *verbose, Log: log}
	var err error
	if *batch != "" {
		err = runBatch(ctx, *batch, opts, out)
	} else {
		err = runFile(ctx, *input, opts, out)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "qparse: %v\n", err)
		os.Exit(1)
	}
}
