// Package pdftext pulls plain text out of PDF question papers with pdfcpu.
//
// Only text-showing operators are interpreted; layout is approximated by
// turning line moves into newlines so numbered questions and lettered
// options keep their line structure.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoText means the PDF parsed but carried no usable text.
var ErrNoText = errors.New("no text could be extracted from PDF; it may be image-based or encrypted")

// MinPrintableRatio is the share of printable runes below which extracted
// text is treated as garbled font output.
const MinPrintableRatio = 0.85

type Document struct {
	Text           string   `json:"text"`
	Pages          []string `json:"-"`
	PageCount      int      `json:"pageCount"`
	PrintableRatio float64  `json:"printableRatio"`
}

// Extract reads the whole PDF from r and returns its text, pages joined by
// blank lines.
func Extract(ctx context.Context, r io.ReadSeeker) (Document, error) {
	pctx, err := api.ReadValidateAndOptimize(r, model.NewDefaultConfiguration())
	if err != nil {
		return Document{}, fmt.Errorf("pdfcpu read: %w", err)
	}

	doc := Document{PageCount: pctx.PageCount}
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		if text := pageText(pctx, pageNr); text != "" {
			doc.Pages = append(doc.Pages, text)
		}
	}
	if len(doc.Pages) == 0 {
		return doc, ErrNoText
	}
	doc.Text = strings.Join(doc.Pages, "\n\n")
	doc.PrintableRatio = printableRatio(doc.Text)
	if doc.Garbled() {
		return doc, fmt.Errorf("%w (printable ratio %.2f)", ErrNoText, doc.PrintableRatio)
	}
	return doc, nil
}

// Garbled reports whether the text is mostly unprintable, as happens with
// fonts that lack a usable encoding.
func (d Document) Garbled() bool { return d.PrintableRatio < MinPrintableRatio }

func ExtractFile(ctx context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Extract(ctx, f)
}

func pageText(pctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return cleanText(textFromStream(data))
}

// cleanText drops control characters, squeezes horizontal whitespace and
// trims every line, keeping newlines.
func cleanText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var sb strings.Builder
		prevSpace := false
		for _, r := range line {
			switch {
			case unicode.IsSpace(r):
				if !prevSpace && sb.Len() > 0 {
					sb.WriteByte(' ')
					prevSpace = true
				}
			case unicode.IsPrint(r):
				sb.WriteRune(r)
				prevSpace = false
			}
		}
		out = append(out, strings.TrimSpace(sb.String()))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func printableRatio(text string) float64 {
	total, printable := 0, 0
	for _, r := range text {
		total++
		if r != unicode.ReplacementChar && (unicode.IsPrint(r) || r == '\n' || r == '\t') {
			printable++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(printable) / float64(total)
}
