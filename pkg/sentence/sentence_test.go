package sentence

import "testing"

func TestBestPrefersSubstantive(t *testing.T) {
	got := Best("Sure. I can help you schedule that meeting tomorrow.")
	want := "I can help you schedule that meeting tomorrow."
	if got != want {
		t.Errorf("Best() = %q, want %q", got, want)
	}
}

func TestBestFirstSubstantiveWins(t *testing.T) {
	got := Best("The weather is sunny today. It will rain tomorrow.")
	want := "The weather is sunny today."
	if got != want {
		t.Errorf("Best() = %q, want %q", got, want)
	}
}

func TestBestQuestionMarkInterjection(t *testing.T) {
	// Interjection matching ignores whatever terminal punctuation the model
	// chose, question marks included.
	got := Best("One moment? I will check the weather for you now.")
	want := "I will check the weather for you now."
	if got != want {
		t.Errorf("Best() = %q, want %q", got, want)
	}
}

func TestBestOnlyInterjections(t *testing.T) {
	// No substantive sentence: fall back to the longest, first maximal wins
	// on ties.
	got := Best("Okay. Sure.")
	if got != "Okay." {
		t.Errorf("Best() = %q, want %q", got, "Okay.")
	}
}

func TestBestEmptyInput(t *testing.T) {
	if got := Best(""); got != "" {
		t.Errorf("Best(\"\") = %q, want empty", got)
	}
}

func TestBestWhitespaceOnly(t *testing.T) {
	if got := Best("   \n  "); got != "" {
		t.Errorf("Best() = %q, want empty", got)
	}
}

func TestBestCandidatesScannedFirst(t *testing.T) {
	got := Best("Okay.", "Your meeting is at three o'clock.")
	want := "Your meeting is at three o'clock."
	if got != want {
		t.Errorf("Best() = %q, want %q", got, want)
	}
}

func TestBestStripsQuotes(t *testing.T) {
	got := Best(`Sure. "The answer is forty two."`)
	want := "The answer is forty two."
	if got != want {
		t.Errorf("Best() = %q, want %q", got, want)
	}
}

func TestBestSingleWordNotSubstantive(t *testing.T) {
	// Long single words have no internal space, so they are skipped in the
	// substantive scans but can still win as the longest sentence.
	got := Best("Acknowledged. Understood.")
	if got != "Acknowledged." {
		t.Errorf("Best() = %q, want %q", got, "Acknowledged.")
	}
}

func TestBestDeterministic(t *testing.T) {
	in := "Of course! Let me look that up for you. One moment."
	first := Best(in)
	for i := 0; i < 10; i++ {
		if got := Best(in); got != first {
			t.Fatalf("Best() not deterministic: %q vs %q", got, first)
		}
	}
	if first != "Let me look that up for you." {
		t.Errorf("Best() = %q", first)
	}
}

func TestSplit(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"two sentences", "Hello there. How are you?", []string{"Hello there.", "How are you?"}},
		{"no terminal", "just a fragment", []string{"just a fragment"}},
		{"bang run", "Wow!! Amazing stuff.", []string{"Wow!!", "Amazing stuff."}},
		{"empty", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := split(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("split(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("split(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestIsRefusal(t *testing.T) {
	if !IsRefusal("As an AI language model, I cannot do that.") {
		t.Error("expected refusal")
	}
	if IsRefusal("The time is 3pm.") {
		t.Error("unexpected refusal")
	}
	if IsRefusal("") {
		t.Error("empty string is not a refusal")
	}
}
