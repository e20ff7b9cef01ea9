package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"ideabot-be/pkg/flow"
)

// Offline driver for the guided submission flow. No server, no database,
// no model: the enricher and dispatcher are canned so the state machine
// can be exercised interactively or with the scripted run below.

type cannedEnricher struct{}

func (cannedEnricher) SuggestTitles(_ context.Context, title string) []string {
	return []string{"Improved " + title, title + " v2"}
}

func (cannedEnricher) EnhanceDescription(_ context.Context, description string) (string, []string) {
	return description, []string{"Add the affected team", "Mention a rough timeline"}
}

func (cannedEnricher) PredictImpact(_ context.Context, _ string) (int, string) {
	return 120, "medium"
}

type cannedDispatcher struct{}

func (cannedDispatcher) Dispatch(_ context.Context, scratch flow.Scratch) flow.DispatchResult {
	return flow.DispatchResult{
		Message: fmt.Sprintf("✅ Thank you! Your idea %q has been submitted.", scratch.Title),
		IdeaID:  "IDEA-SIMULATED01",
	}
}

func main() {
	color.Cyan("🚀 Guided Flow Simulator\n")

	engine := flow.NewEngine(cannedEnricher{}, cannedDispatcher{})
	st := flow.State{Mode: flow.ModeGuidedFlow, Step: flow.StepNone}

	if len(os.Args) > 1 && os.Args[1] == "script" {
		runScript(engine, st)
		return
	}

	color.Yellow("Type answers to walk the flow. Ctrl+D to quit.\n")
	res := engine.Advance(context.Background(), st, "")
	st = res.State
	printReply(res)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		res = engine.Advance(context.Background(), st, line)
		st = res.State
		printReply(res)
		if st.Step == flow.StepSubmitted {
			color.Cyan("\nFlow complete.")
			return
		}
	}
}

func runScript(engine *flow.Engine, st flow.State) {
	script := []string{
		"",
		"Dark mode for the dashboard",
		"Users working at night are blinded by the white theme, we should add a dark palette.",
		"around 200",
		"yes, submit",
	}
	for _, utterance := range script {
		if utterance != "" {
			color.White("USER: %s", utterance)
		}
		res := engine.Advance(context.Background(), st, utterance)
		st = res.State
		printReply(res)
	}
}

func printReply(res flow.Result) {
	color.Green("BOT: %s", res.Reply)
	if len(res.Suggestions) > 0 {
		color.Yellow("  suggestions: %s", strings.Join(res.Suggestions, " | "))
	}
	if len(res.Metadata) > 0 {
		color.Blue("  metadata: %v", res.Metadata)
	}
	fmt.Println()
}
