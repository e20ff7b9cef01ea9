package retrieval

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// TopK is how many snippets survive ranking.
	TopK = 3
	// MaxContextChars hard-caps the concatenated knowledge context.
	MaxContextChars = 2000
	// minTokenLength filters out short, low-signal tokens.
	minTokenLength = 4
)

var tokenSplitRe = regexp.MustCompile(`\W+`)

// Snippet is one READY knowledge entry eligible for retrieval.
type Snippet struct {
	ID   string
	Text string
}

// scored pairs a snippet with its keyword-overlap score.
type scored struct {
	snippet Snippet
	score   int
}

// Rank scores READY snippets against the utterance by keyword overlap and
// returns the concatenated context of the top matches. It is a pure
// function: identical inputs always produce identical output, snippets
// scoring zero never appear, and ties keep their original order.
func Rank(utterance string, snippets []Snippet) string {
	tokens := Tokenize(utterance)
	if len(tokens) == 0 || len(snippets) == 0 {
		return ""
	}

	ranked := make([]scored, 0, len(snippets))
	for _, s := range snippets {
		text := strings.ToLower(s.Text)
		score := 0
		for _, token := range tokens {
			if strings.Contains(text, token) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{snippet: s, score: score})
		}
	}
	if len(ranked) == 0 {
		return ""
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > TopK {
		ranked = ranked[:TopK]
	}

	parts := make([]string, 0, len(ranked))
	for _, r := range ranked {
		parts = append(parts, "- "+r.snippet.Text)
	}
	context := strings.Join(parts, "\n\n")

	if runes := []rune(context); len(runes) > MaxContextChars {
		context = string(runes[:MaxContextChars]) + "..."
	}
	return context
}

// Tokenize lowercases the utterance, splits on non-word characters and
// keeps distinct tokens long enough to carry signal.
func Tokenize(utterance string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, t := range tokenSplitRe.Split(strings.ToLower(utterance), -1) {
		if len(t) < minTokenLength {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}
