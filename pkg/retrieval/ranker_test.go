package retrieval

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      string
	}{
		{"filters short tokens", "how do I reset my password", "reset password"},
		{"dedupes", "pricing pricing pricing", "pricing"},
		{"punctuation split", "refund-policy, please!", "refund policy please"},
		{"nothing left", "a to of it", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var want []string
			if tt.want != "" {
				want = strings.Split(tt.want, " ")
			}
			got := Tokenize(tt.utterance)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.utterance, got, want)
			}
		})
	}
}

func TestRankZeroScoreExcluded(t *testing.T) {
	snippets := []Snippet{
		{ID: "1", Text: "Our refund policy lasts 30 days."},
		{ID: "2", Text: "The office dog is called Biscuit."},
	}

	got := Rank("what is your refund policy", snippets)

	if !strings.Contains(got, "refund policy") {
		t.Errorf("matching snippet missing from context: %q", got)
	}
	if strings.Contains(got, "Biscuit") {
		t.Errorf("zero-score snippet leaked into context: %q", got)
	}
}

func TestRankEmptyInputs(t *testing.T) {
	if got := Rank("anything here", nil); got != "" {
		t.Errorf("no snippets should give empty context, got %q", got)
	}
	if got := Rank("a of to", []Snippet{{ID: "1", Text: "text"}}); got != "" {
		t.Errorf("no usable tokens should give empty context, got %q", got)
	}
}

func TestRankTopKAndTieOrder(t *testing.T) {
	snippets := []Snippet{
		{ID: "a", Text: "pricing tier one"},
		{ID: "b", Text: "pricing tier two"},
		{ID: "c", Text: "pricing tier three"},
		{ID: "d", Text: "pricing tier four"},
	}

	got := Rank("pricing tier", snippets)

	parts := strings.Split(got, "\n\n")
	if len(parts) != TopK {
		t.Fatalf("got %d snippets, want %d", len(parts), TopK)
	}
	// All tie, so original order must hold.
	want := []string{"- pricing tier one", "- pricing tier two", "- pricing tier three"}
	if !reflect.DeepEqual(parts, want) {
		t.Errorf("tie order broken: %v", parts)
	}
}

func TestRankHigherOverlapWins(t *testing.T) {
	snippets := []Snippet{
		{ID: "weak", Text: "shipping information"},
		{ID: "strong", Text: "shipping costs and delivery information"},
	}

	got := Rank("shipping costs delivery", snippets)

	first := strings.Split(got, "\n\n")[0]
	if !strings.Contains(first, "delivery") {
		t.Errorf("higher-overlap snippet should rank first, got %q", first)
	}
}

func TestRankTruncation(t *testing.T) {
	long := strings.Repeat("enterprise ", 400)
	got := Rank("enterprise", []Snippet{{ID: "1", Text: long}})

	if len(got) != MaxContextChars+3 {
		t.Errorf("len = %d, want %d", len(got), MaxContextChars+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated context must end with ellipsis")
	}
}

func TestRankTruncationMultibyte(t *testing.T) {
	long := strings.Repeat("enterprise 企業向けプラン ", 250)
	got := Rank("enterprise", []Snippet{{ID: "1", Text: long}})

	if !utf8.ValidString(got) {
		t.Fatalf("truncation must not split a rune")
	}
	if n := utf8.RuneCountInString(got); n != MaxContextChars+3 {
		t.Errorf("rune count = %d, want %d", n, MaxContextChars+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated context must end with ellipsis")
	}
}

func TestRankDeterministic(t *testing.T) {
	snippets := []Snippet{
		{ID: "1", Text: "alpha beta gamma"},
		{ID: "2", Text: "beta gamma delta"},
		{ID: "3", Text: "gamma delta epsilon"},
	}

	first := Rank("gamma delta", snippets)
	for i := 0; i < 10; i++ {
		if again := Rank("gamma delta", snippets); again != first {
			t.Fatalf("ranking is not deterministic")
		}
	}
}
