package oracle

import (
	"context"
	"errors"
	"testing"

	"ideabot-be/pkg/llm"
)

type testLogger struct{}

func (testLogger) Warn(string, string, map[string]interface{}) {}

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return f.reply, f.err
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return f.reply, f.err
}

func newTestClient(reply string, err error) *Client {
	return NewClient(&fakeProvider{reply: reply, err: err}, testLogger{})
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"plain object", `{"suggestions":["a"]}`, false},
		{"fenced json", "```json\n{\"suggestions\":[\"a\"]}\n```", false},
		{"bare fence", "```\n{\"suggestions\":[\"a\"]}\n```", false},
		{"leading prose", `Sure! Here you go: {"suggestions":["a"]} hope that helps`, false},
		{"no object", "sorry, I cannot help", true},
		{"broken object", `{"suggestions":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Suggestions []string `json:"suggestions"`
			}
			err := DecodeJSON(tt.text, &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(out.Suggestions) != 1 {
				t.Errorf("decoded %+v, want one suggestion", out)
			}
		})
	}
}

func TestFreeChatFallbacks(t *testing.T) {
	c := newTestClient("", errors.New("connection refused"))
	if got := c.FreeChat(context.Background(), "sys", nil, "hi"); got != FallbackReply {
		t.Errorf("provider error must give the fallback reply, got %q", got)
	}

	c = newTestClient("   ", nil)
	if got := c.FreeChat(context.Background(), "sys", nil, "hi"); got != "I'm listening." {
		t.Errorf("blank reply must give the listening fallback, got %q", got)
	}
}

func TestSuggestTitlesFallsBackToEmpty(t *testing.T) {
	c := newTestClient("", errors.New("timeout"))
	got := c.SuggestTitles(context.Background(), "Dark mode")
	if got == nil || len(got) != 0 {
		t.Errorf("failure must give an empty non-nil list, got %v", got)
	}
}

func TestEnhanceDescriptionEchoesOnFailure(t *testing.T) {
	c := newTestClient("garbage reply", nil)
	desc, suggestions := c.EnhanceDescription(context.Background(), "the original description")
	if desc != "the original description" {
		t.Errorf("failure must echo the input, got %q", desc)
	}
	if suggestions == nil {
		t.Error("suggestions must be non-nil")
	}
}

func TestPredictImpactFallback(t *testing.T) {
	c := newTestClient("", errors.New("down"))
	impact, confidence := c.PredictImpact(context.Background(), "a long enough description")
	if impact != 0 || confidence != "low" {
		t.Errorf("failure must give (0, low), got (%d, %s)", impact, confidence)
	}
}

func TestPredictImpactClampsNegative(t *testing.T) {
	c := newTestClient(`{"predicted_impact":-5,"confidence":"high"}`, nil)
	impact, confidence := c.PredictImpact(context.Background(), "a long enough description")
	if impact != 0 {
		t.Errorf("negative impact must clamp to 0, got %d", impact)
	}
	if confidence != "high" {
		t.Errorf("confidence = %s, want high", confidence)
	}
}
