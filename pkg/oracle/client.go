package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ideabot-be/pkg/llm"
)

// Named fallbacks. Every oracle call is allowed to fail; callers always
// receive a usable value and never see the raw error.
const (
	FallbackReply     = "I'm having a bit of trouble connecting right now. Please try again."
	fallbackListening = "I'm listening."
	confidenceLow     = "low"

	chatTimeout    = 30 * time.Second
	extractTimeout = 15 * time.Second
)

// Turn is one prior conversation entry replayed to the model.
type Turn struct {
	Role string
	Text string
}

// Logger is the slice of the application logger the oracle reports
// failures through.
type Logger interface {
	Warn(module, message string, details map[string]interface{})
}

// Client wraps the language-model provider with the domain's suggestion
// and extraction calls. It is a pure utility: no conversational logic,
// no state.
type Client struct {
	provider llm.LLMProvider
	logger   Logger
}

func NewClient(provider llm.LLMProvider, logger Logger) *Client {
	return &Client{
		provider: provider,
		logger:   logger,
	}
}

// FreeChat answers one utterance under the assembled system prompt,
// replaying only the bounded history tail the caller hands in.
func (c *Client) FreeChat(ctx context.Context, systemPrompt string, history []Turn, utterance string) string {
	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	for _, t := range history {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Text})
	}
	messages = append(messages, llm.Message{Role: "user", Content: utterance})

	reply, err := c.provider.Chat(ctx, messages, llm.WithMaxTokens(200), llm.WithTemperature(0.7))
	if err != nil {
		c.logger.Warn("oracle", "free chat failed", map[string]interface{}{"error": err.Error()})
		return FallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		return fallbackListening
	}
	return reply
}

// SuggestTitles returns up to a few professional title suggestions.
// Fallback: empty list.
func (c *Client) SuggestTitles(ctx context.Context, title string) []string {
	if len(title) < 3 {
		return []string{}
	}

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	err := c.extract(ctx,
		"Output JSON only. Key: 'suggestions' (array of strings).",
		fmt.Sprintf("Suggest 3 professional titles for: %q", title),
		150, &out,
	)
	if err != nil {
		c.logger.Warn("oracle", "title suggestion failed", map[string]interface{}{"error": err.Error()})
		return []string{}
	}
	if out.Suggestions == nil {
		return []string{}
	}
	return out.Suggestions
}

// EnhanceDescription returns an improved description and short follow-up
// suggestions. Fallback: verbatim echo, empty suggestions.
func (c *Client) EnhanceDescription(ctx context.Context, description string) (string, []string) {
	if len(description) < 10 {
		return description, []string{}
	}

	var out struct {
		EnhancedDescription string   `json:"enhanced_description"`
		Suggestions         []string `json:"suggestions"`
	}
	err := c.extract(ctx,
		"Output JSON only. Keys: 'enhanced_description' (string), 'suggestions' (array of strings).",
		fmt.Sprintf("Improve this description and list 2 short suggestions to add detail:\n%q", description),
		300, &out,
	)
	if err != nil {
		c.logger.Warn("oracle", "description enhancement failed", map[string]interface{}{"error": err.Error()})
		return description, []string{}
	}
	if out.EnhancedDescription == "" {
		out.EnhancedDescription = description
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return out.EnhancedDescription, out.Suggestions
}

// PredictImpact estimates how many users an idea touches.
// Fallback: 0 with "low" confidence.
func (c *Client) PredictImpact(ctx context.Context, description string) (int, string) {
	if len(description) < 10 {
		return 0, confidenceLow
	}

	var out struct {
		PredictedImpact int    `json:"predicted_impact"`
		Confidence      string `json:"confidence"`
	}
	err := c.extract(ctx,
		"Output JSON only. Keys: 'predicted_impact' (integer), 'confidence' (low/medium/high).",
		fmt.Sprintf("Estimate user impact count for: %q", description),
		100, &out,
	)
	if err != nil {
		c.logger.Warn("oracle", "impact prediction failed", map[string]interface{}{"error": err.Error()})
		return 0, confidenceLow
	}
	if out.PredictedImpact < 0 {
		out.PredictedImpact = 0
	}
	if out.Confidence == "" {
		out.Confidence = confidenceLow
	}
	return out.PredictedImpact, out.Confidence
}

// extract runs one JSON-mode completion and unmarshals the result into v.
func (c *Client) extract(ctx context.Context, schemaHint, task string, maxTokens int, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	raw, err := c.provider.Chat(ctx,
		[]llm.Message{
			{Role: "system", Content: schemaHint},
			{Role: "user", Content: task},
		},
		llm.WithMaxTokens(maxTokens),
		llm.WithJSONFormat(),
	)
	if err != nil {
		return err
	}
	return DecodeJSON(raw, v)
}

// DecodeJSON pulls the first JSON object out of a model reply, tolerating
// markdown code fences and leading prose.
func DecodeJSON(text string, v interface{}) error {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON object in model reply")
	}
	return json.Unmarshal([]byte(cleaned[start:end+1]), v)
}
