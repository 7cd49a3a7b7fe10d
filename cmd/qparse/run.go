package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/ppl-mockexam/internal/logger"
	"github.com/mind-engage/ppl-mockexam/internal/parser"
	"github.com/mind-engage/ppl-mockexam/internal/pdftext"
	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

type options struct {
	Section string
	Workers int
	Verbose bool
	Log     *logger.Logger
}

type question struct {
	parser.ExtractedQuestion
	ClassifiedSection string           `json:"classifiedSection"`
	Scores            []sections.Score `json:"scores,omitempty"`
}

type report struct {
	Source     string     `json:"source"`
	Pages      int        `json:"pages,omitempty"`
	Blocks     int        `json:"blocks"`
	Skipped    int        `json:"skipped"`
	Duplicates int        `json:"duplicates"`
	Questions  []question `json:"questions"`
	Error      string     `json:"error,omitempty"`
}

type batchReport struct {
	Files     int      `json:"files"`
	Questions int      `json:"questions"`
	Failed    int      `json:"failed"`
	Reports   []report `json:"reports"`
}

func runFile(ctx context.Context, path string, opts options, w io.Writer) error {
	rep, err := parseFile(ctx, path, opts)
	if err != nil {
		return err
	}
	return writeJSON(w, rep)
}

// runBatch parses every PDF/.txt file in dir. A file that fails is reported
// with its error and does not stop the others.
func runBatch(ctx context.Context, dir string, opts options, w io.Writer) error {
	files, err := listInputs(dir)
	if err != nil {
		return err
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	reports := make([]report, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			rep, err := parseFile(gctx, path, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				opts.Log.Warn("parse failed", "file", path, "error", err)
				rep = report{Source: filepath.Base(path), Questions: []question{}, Error: err.Error()}
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := batchReport{Files: len(files), Reports: reports}
	for _, r := range reports {
		out.Questions += len(r.Questions)
		if r.Error != "" {
			out.Failed++
		}
	}
	opts.Log.Info("batch done", "files", out.Files, "questions", out.Questions, "failed", out.Failed)
	return writeJSON(w, out)
}

func parseFile(ctx context.Context, path string, opts options) (report, error) {
	text, pages, err := readText(ctx, path)
	if err != nil {
		return report{}, err
	}
	res := parser.Parse(text, opts.Section)
	rep := report{
		Source:     filepath.Base(path),
		Pages:      pages,
		Blocks:     res.Blocks,
		Skipped:    res.Skipped,
		Duplicates: res.Duplicates,
		Questions:  make([]question, 0, len(res.Questions)),
	}
	for _, q := range res.Questions {
		out := question{ExtractedQuestion: q, ClassifiedSection: q.Section}
		if !sections.Valid(out.ClassifiedSection) {
			out.ClassifiedSection = sections.Classify(q.QuestionText, q.Options)
		}
		if opts.Verbose {
			out.Scores = sections.Scores(strings.ToLower(q.QuestionText + " " + strings.Join(q.Options, " ")))
		}
		rep.Questions = append(rep.Questions, out)
	}
	opts.Log.Debug("parsed", "file", rep.Source, "blocks", rep.Blocks,
		"questions", len(rep.Questions), "skipped", rep.Skipped, "duplicates", rep.Duplicates)
	return rep, nil
}

func readText(ctx context.Context, path string) (string, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", 0, err
		}
		return string(b), 0, nil
	}
	doc, err := pdftext.ExtractFile(ctx, path)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc.Text, doc.PageCount, nil
}

func listInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
