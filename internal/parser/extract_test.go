package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractBlock(t *testing.T) {
	cases := []struct {
		name        string
		block       string
		wantOK      bool
		wantText    string
		wantOptions []string
		wantAnswer  string
	}{
		{
			name:   "too short",
			block:  "1. Short question? A) x B) y",
			wantOK: false,
		},
		{
			name:   "mostly digits",
			block:  "1. 12345 67890 12345 67890 12345 67890 12345 67890 12 A) 1 B) 2",
			wantOK: false,
		},
		{
			name:        "duplicate options collapse",
			block:       "2. Which instrument shows the aircraft altitude above MSL? A) Altimeter B) Altimeter C) Compass",
			wantOK:      true,
			wantText:    "Which instrument shows the aircraft altitude above MSL?",
			wantOptions: []string{"Altimeter", "Compass"},
		},
		{
			name:   "all options identical",
			block:  "2. Which instrument shows the aircraft altitude above MSL? A) Altimeter B) Altimeter",
			wantOK: false,
		},
		{
			name:   "single option",
			block:  "5. Which instrument shows the aircraft altitude above mean sea level? A) Altimeter",
			wantOK: false,
		},
		{
			name:   "heading word",
			block:  "1. TABLE OF CONTENTS and other structural material A) intro part B) outro part",
			wantOK: false,
		},
		{
			name:   "long text without question mark",
			block:  "1. " + strings.Repeat("Regulation text without question mark ", 6) + "A) one B) two",
			wantOK: false,
		},
		{
			name:        "colon labels and lowercase answer",
			block:       "7. Which colour are the taxiway centreline lights? A: Green B: Blue C: White Answer - c",
			wantOK:      true,
			wantText:    "Which colour are the taxiway centreline lights?",
			wantOptions: []string{"Green", "Blue", "White"},
			wantAnswer:  "C",
		},
		{
			name:        "five options capped at four",
			block:       "8. Which of these is a primary flight control surface? A) Aileron B) Flap C) Slat D) Spoiler D) Trim tab",
			wantOK:      true,
			wantText:    "Which of these is a primary flight control surface?",
			wantOptions: []string{"Aileron", "Flap", "Slat", "Spoiler"},
		},
		{
			name:        "answer stated before options end marker",
			block:       "9. Which phase of flight has the highest accident rate?\nA. Take-off\nB. Cruise\nC. Landing\nAns: C",
			wantOK:      true,
			wantText:    "Which phase of flight has the highest accident rate?",
			wantOptions: []string{"Take-off", "Cruise", "Landing"},
			wantAnswer:  "C",
		},
		{
			name:     "stem ending in a label word",
			block:    "1. Which of the following statements about lift is correct:\nA) Lift acts perpendicular to the relative airflow\nB) Lift acts parallel to the relative airflow\nC) Lift always equals weight\nAnswer: A",
			wantOK:   true,
			wantText: "Which of the following statements about lift is correct:",
			wantOptions: []string{
				"Lift acts perpendicular to the relative airflow",
				"Lift acts parallel to the relative airflow",
				"Lift always equals weight",
			},
			wantAnswer: "A",
		},
		{
			name:        "label word inside an option",
			block:       "4. Which document should be checked before a VFR cross-country flight?\nA) Current METAR and TAF\nB) A note explanation of runway lighting\nC) Aircraft maintenance log",
			wantOK:      true,
			wantText:    "Which document should be checked before a VFR cross-country flight?",
			wantOptions: []string{"Current METAR and TAF", "A note explanation of runway lighting", "Aircraft maintenance log"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, ok := ExtractBlock(tc.block, "")
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v (%+v)", ok, tc.wantOK, q)
			}
			if !ok {
				return
			}
			if q.QuestionText != tc.wantText {
				t.Errorf("text = %q, want %q", q.QuestionText, tc.wantText)
			}
			if !reflect.DeepEqual(q.Options, tc.wantOptions) {
				t.Errorf("options = %q, want %q", q.Options, tc.wantOptions)
			}
			if q.CorrectAnswer != tc.wantAnswer {
				t.Errorf("answer = %q, want %q", q.CorrectAnswer, tc.wantAnswer)
			}
		})
	}
}

func TestExtractBlock_ExplanationBounds(t *testing.T) {
	base := "3. Which gas makes up most of the atmosphere by volume? A) Nitrogen B) Oxygen C) Argon Answer: A "

	q, ok := ExtractBlock(base+"Explanation: ok", "")
	if !ok {
		t.Fatal("block rejected")
	}
	if q.Explanation != "" {
		t.Errorf("too-short explanation kept: %q", q.Explanation)
	}

	q, ok = ExtractBlock(base+"Reason: roughly 78 percent of dry air is nitrogen.", "")
	if !ok {
		t.Fatal("block rejected")
	}
	if q.Explanation != "roughly 78 percent of dry air is nitrogen." {
		t.Errorf("explanation = %q", q.Explanation)
	}

	q, ok = ExtractBlock(base+"Explanation: "+strings.Repeat("n", MaxExplanationLen+1), "")
	if !ok {
		t.Fatal("block rejected")
	}
	if q.Explanation != "" {
		t.Errorf("oversized explanation kept (%d chars)", len(q.Explanation))
	}
}

func TestExtractBlock_ExplanationLabel(t *testing.T) {
	stem := "6. Which light colour marks the runway threshold?\nA) Green\nB) Red\nC) White\n"
	cases := []struct {
		name string
		tail string
		want string
	}{
		{"word without colon", "Answer: A\nThe explanation of threshold lighting is in the AIP.", ""},
		{"line-leading label", "Answer: A\nExplanation threshold lights are green\n  seen from the approach.", "threshold lights are green seen from the approach."},
		{"colon label wraps lines", "Answer: A Explanation:\n   Threshold lights\n   are green.", "Threshold lights are green."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, ok := ExtractBlock(stem+tc.tail, "")
			if !ok {
				t.Fatal("block rejected")
			}
			if q.Explanation != tc.want {
				t.Errorf("explanation = %q, want %q", q.Explanation, tc.want)
			}
			if len(q.Options) != 3 {
				t.Errorf("options = %q", q.Options)
			}
		})
	}
}

func TestDedup_PrefixIsRuneBased(t *testing.T) {
	long := strings.Repeat("é", DedupPrefixLen)
	qs := []ExtractedQuestion{
		{QuestionText: long + " first"},
		{QuestionText: long + " second"},
		{QuestionText: "something else entirely, long enough"},
	}
	out := Dedup(qs)
	if len(out) != 2 {
		t.Fatalf("got %d questions, want 2", len(out))
	}
	if !strings.HasSuffix(out[0].QuestionText, "first") {
		t.Errorf("first occurrence not kept: %q", out[0].QuestionText)
	}
}
