package flow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Metadata carries optional structured enrichment attached to a reply.
type Metadata map[string]interface{}

// Result is the outcome of advancing the machine by one utterance.
type Result struct {
	Reply       string
	Suggestions []string
	Metadata    Metadata
	State       State
}

// Enricher provides advisory oracle assistance inside the flow.
// Implementations must absorb their own failures and return safe defaults;
// the flow never blocks on enrichment quality.
type Enricher interface {
	SuggestTitles(ctx context.Context, title string) []string
	EnhanceDescription(ctx context.Context, description string) (string, []string)
	PredictImpact(ctx context.Context, description string) (int, string)
}

// DispatchResult is what the terminal action reports back to the flow.
// Dispatch is always accepted from the flow's point of view.
type DispatchResult struct {
	Message string
	IdeaID  string
}

// Dispatcher executes the tenant's configured terminal action
// for a completed answer set.
type Dispatcher interface {
	Dispatch(ctx context.Context, scratch Scratch) DispatchResult
}

var (
	allDigitsRe   = regexp.MustCompile(`^\d+$`)
	firstNumberRe = regexp.MustCompile(`(\d+)`)
	anyDigitRe    = regexp.MustCompile(`\d`)
)

// Engine drives the guided submission flow. It is stateless; callers own
// the session state and pass it in on every turn.
type Engine struct {
	enricher   Enricher
	dispatcher Dispatcher
}

func NewEngine(enricher Enricher, dispatcher Dispatcher) *Engine {
	return &Engine{
		enricher:   enricher,
		dispatcher: dispatcher,
	}
}

// Advance processes one utterance against the current step and returns the
// reply plus the single next state. Every (step, utterance) pair resolves to
// exactly one outcome; unknown steps recover to NONE.
func (e *Engine) Advance(ctx context.Context, st State, utterance string) Result {
	switch st.Step {
	case StepNone:
		st.Step = StepTitle
		return Result{
			Reply: "Hi! Let's submit a new idea. What is the short TITLE of your idea?",
			State: st,
		}

	case StepTitle:
		return e.handleTitle(ctx, st, utterance)

	case StepDescription:
		return e.handleDescription(ctx, st, utterance)

	case StepImpact:
		return e.handleImpact(st, utterance)

	case StepConfirm:
		return e.handleConfirm(ctx, st, utterance)

	case StepSubmitted:
		st.Reset()
		return Result{
			Reply: "You are back in free chat. Type 'submit idea' to start again.",
			State: st,
		}

	default:
		st.Step = StepNone
		st.Scratch = Scratch{}
		return Result{
			Reply: "System reset. Type 'submit idea' to start.",
			State: st,
		}
	}
}

func (e *Engine) handleTitle(ctx context.Context, st State, utterance string) Result {
	if utf8.RuneCountInString(utterance) < 3 || allDigitsRe.MatchString(utterance) {
		return Result{
			Reply: "That title seems too short or invalid. Please provide a clear, short title (e.g. 'New Dashboard Widget').",
			State: st,
		}
	}

	st.Scratch.Title = utterance
	st.Step = StepDescription

	result := Result{
		Reply: fmt.Sprintf("Got it: %q.\n\nNow, please describe the idea in detail (at least 10 characters).", utterance),
		State: st,
	}

	if e.enricher != nil {
		result.Metadata = Metadata{
			"suggestions": e.enricher.SuggestTitles(ctx, utterance),
		}
	}
	return result
}

func (e *Engine) handleDescription(ctx context.Context, st State, utterance string) Result {
	if len(utterance) < 10 {
		return Result{
			Reply: "Please provide a bit more detail (at least 10 characters) so we can understand the idea.",
			State: st,
		}
	}

	st.Scratch.Description = utterance
	st.Step = StepImpact

	result := Result{
		Reply:       "Great description. Finally, roughly how many users will this impact? (e.g. '50', 'All users', 'Admin team')",
		Suggestions: []string{"10-50", "100+", "All Users"},
		State:       st,
	}

	if e.enricher != nil {
		enhanced, suggestions := e.enricher.EnhanceDescription(ctx, utterance)
		impact, confidence := e.enricher.PredictImpact(ctx, utterance)
		result.Metadata = Metadata{
			"enhanced_description": enhanced,
			"suggestions":          suggestions,
			"predicted_impact":     impact,
			"confidence":           confidence,
		}
		if confidence != "low" && impact > 0 {
			result.Suggestions = append(
				[]string{fmt.Sprintf("%d (AI Est)", impact)},
				result.Suggestions...,
			)
		}
	}
	return result
}

func (e *Engine) handleImpact(st State, utterance string) Result {
	lower := strings.ToLower(utterance)
	hasDigit := anyDigitRe.MatchString(utterance)

	if !hasDigit && !strings.Contains(lower, "all") {
		return Result{
			Reply:       "I couldn't understand the number of users. Please type a number or estimate (e.g. '50').",
			Suggestions: []string{"50", "100", "500"},
			State:       st,
		}
	}

	// A digit wins over "all"; a bare "all" deliberately lands on 0
	// and is left for downstream triage.
	num := 0
	if m := firstNumberRe.FindString(utterance); m != "" {
		num, _ = strconv.Atoi(m)
	}
	st.Scratch.ImpactedUsers = num
	st.Step = StepConfirm

	return Result{
		Reply: fmt.Sprintf(
			"Summary:\n- Title: %s\n- Desc: %s\n- Impact: ~%d users\n\nReady to submit?",
			st.Scratch.Title, st.Scratch.Description, st.Scratch.ImpactedUsers,
		),
		Suggestions: []string{"Yes, Submit", "No, Restart"},
		State:       st,
	}
}

func (e *Engine) handleConfirm(ctx context.Context, st State, utterance string) Result {
	lower := strings.ToLower(utterance)

	switch {
	case strings.Contains(lower, "yes") || strings.Contains(lower, "submit") || strings.Contains(lower, "confirm"):
		dispatch := e.dispatcher.Dispatch(ctx, st.Scratch)

		refText := ""
		if dispatch.IdeaID != "" {
			refText = fmt.Sprintf(" Reference ID: %s.", dispatch.IdeaID)
		}

		st.Mode = ModeFreeChat
		st.Step = StepSubmitted
		st.Scratch = Scratch{}

		return Result{
			Reply: fmt.Sprintf("%s%s\n\nReturning to free chat.", dispatch.Message, refText),
			State: st,
		}

	case strings.Contains(lower, "no") || strings.Contains(lower, "restart"):
		st.Scratch = Scratch{}
		st.Step = StepTitle
		return Result{
			Reply: "Cancelled. Let's start over. What is the title?",
			State: st,
		}

	default:
		return Result{
			Reply:       "Please type 'Yes' to submit or 'No' to cancel.",
			Suggestions: []string{"Yes, Submit", "No, Cancel"},
			State:       st,
		}
	}
}
