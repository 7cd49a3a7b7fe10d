package parser

import (
	"strings"
	"testing"
)

func TestSegment_NumberedBlocks(t *testing.T) {
	text := "1. First question text here? A) yes B) no\r\n2) Second question text here? A) yes B) no\r3. Third one at 29.92 inHg? A) yes B) no"
	blocks := Segment(text)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks: %q", len(blocks), blocks)
	}
	for i, prefix := range []string{"1.", "2)", "3."} {
		if !strings.HasPrefix(blocks[i], prefix) {
			t.Errorf("block %d = %q, want prefix %q", i, blocks[i], prefix)
		}
	}
	if !strings.Contains(blocks[2], "29.92 inHg") {
		t.Errorf("decimal split the block: %q", blocks[2])
	}
}

func TestSegment_SkipsFrontMatter(t *testing.T) {
	front := strings.Repeat("Contents page filler line.\n", 10)
	text := front + "\n\n\n\n1. Which organisation publishes Standards and Recommended Practices? A) ICAO B) EASA"
	blocks := Segment(text)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks: %q", len(blocks), blocks)
	}
	if !strings.HasPrefix(blocks[0], "1. Which organisation") {
		t.Errorf("block = %q", blocks[0])
	}
}

func TestSkipFrontMatter_KeepsMargin(t *testing.T) {
	front := strings.Repeat("x", 300)
	text := front + " 1. Which organisation publishes Standards and Recommended Practices?"
	got := skipFrontMatter(text)
	want := strings.Repeat("x", LookbehindMargin-1) + " 1. Which"
	if !strings.HasPrefix(got, want) {
		t.Errorf("kept %q...", got[:LookbehindMargin+10])
	}
}

func TestSegment_BlankLineFallback(t *testing.T) {
	text := "Intro text without markers\n\n3.Which runway heading is 270 degrees?\n\nclosing words"
	blocks := Segment(text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks: %q", len(blocks), blocks)
	}
	if blocks[0] != "Intro text without markers" {
		t.Errorf("block 0 = %q", blocks[0])
	}
	if !strings.HasPrefix(blocks[1], "3.Which") || !strings.Contains(blocks[1], "closing words") {
		t.Errorf("block 1 = %q", blocks[1])
	}
}

func TestSegment_NoMarkersNeverPanics(t *testing.T) {
	for _, in := range []string{"", "\n\n\n", "plain prose only", "A) B) C)", "12345"} {
		blocks := Segment(in)
		if len(blocks) > 1 {
			t.Errorf("Segment(%q) = %q", in, blocks)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := normalize("a\r\nb\rc\n\n\n\n\nd  ")
	if got != "a\nb\nc\n\nd" {
		t.Errorf("normalize = %q", got)
	}
}
