// Package sentence selects the single best sentence of an assistant response
// for speech output, preferring substantive content over filler interjections.
package sentence

import "strings"

// interjections are bare acknowledgments that carry no content worth speaking.
var interjections = map[string]struct{}{
	"certainly":  {},
	"sure":       {},
	"okay":       {},
	"ok":         {},
	"right away": {},
	"one moment": {},
	"of course":  {},
	"got it":     {},
	"alright":    {},
	"yes":        {},
}

// minSubstantiveLen is the shortest sentence worth speaking on its own.
const minSubstantiveLen = 8

// Best returns the single sentence most suitable for speech, drawn from text
// and any additional candidate strings. Selection order: first substantive
// sentence scanning forward, then scanning backward, then the longest sentence
// found, then the trimmed input verbatim. Pure and deterministic.
func Best(text string, candidates ...string) string {
	var sentences []string
	for _, c := range candidates {
		sentences = append(sentences, split(c)...)
	}
	sentences = append(sentences, split(text)...)

	for _, s := range sentences {
		if substantive(s) {
			return s
		}
	}
	for i := len(sentences) - 1; i >= 0; i-- {
		if substantive(sentences[i]) {
			return sentences[i]
		}
	}
	if len(sentences) > 0 {
		best := sentences[0]
		for _, s := range sentences[1:] {
			if len(s) > len(best) {
				best = s
			}
		}
		return best
	}
	return strings.TrimSpace(text)
}

// split breaks text into trimmed sentences on terminal punctuation followed
// by whitespace. Empty fragments are dropped.
func split(text string) []string {
	if text == "" {
		return nil
	}

	var parts []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !terminal(runes[i]) {
			continue
		}
		// Consume a run of terminal punctuation, then split if whitespace
		// (or end of input) follows.
		j := i
		for j+1 < len(runes) && terminal(runes[j+1]) {
			j++
		}
		if j+1 >= len(runes) || isSpace(runes[j+1]) {
			parts = append(parts, string(runes[start:j+1]))
			start = j + 1
		}
		i = j
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}

	var out []string
	for _, p := range parts {
		if s := clean(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// substantive reports whether a sentence is worth speaking: not a bare
// interjection, at least minSubstantiveLen characters, and more than one word.
func substantive(s string) bool {
	low := strings.Trim(strings.ToLower(s), "!.?,…")
	if _, ok := interjections[low]; ok {
		return false
	}
	if len(s) < minSubstantiveLen {
		return false
	}
	return strings.Contains(s, " ")
}

// clean trims whitespace and surrounding quotes from a sentence fragment.
func clean(s string) string {
	return strings.Trim(s, " \t\n\r\"")
}

func terminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// IsRefusal reports whether a response reads as a canned model refusal,
// e.g. "as an AI language model" or "I do not have access".
func IsRefusal(s string) bool {
	if s == "" {
		return false
	}
	low := strings.ToLower(s)
	patterns := []string{
		"as an ai language model",
		"i do not have access",
		"i cannot",
		"i'm unable",
		"cannot provide",
		"unable to",
		"i do not have",
		"i don't have",
	}
	for _, p := range patterns {
		if strings.Contains(low, p) {
			return true
		}
	}
	return false
}
