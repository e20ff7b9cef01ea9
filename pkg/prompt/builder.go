package prompt

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Named defaults for absent profile fields.
const (
	defaultRole           = "assistant"
	defaultTone           = "neutral"
	defaultResponseLength = "medium"
	defaultEmpathyLevel   = 0.5
	defaultPrimaryGoal    = "support"
)

// FallbackPrompt is the instruction text used when no tenant configuration
// can be resolved at all.
const FallbackPrompt = "You are a helpful assistant."

// Assemble builds the layered instruction text handed to the language
// model. Layer order is fixed, each layer overriding the previous:
// system rules, global behavior profile, the first matching page override,
// then the retrieved knowledge context as read-only grounding.
// The function is deterministic for identical inputs.
func Assemble(profile Profile, overrides []Override, pageURL, knowledgeContext string) string {
	var b strings.Builder

	writeSystemRules(&b)
	writeProfile(&b, profile)
	writePageOverride(&b, overrides, pageURL)
	writeKnowledge(&b, knowledgeContext)

	return b.String()
}

func writeSystemRules(b *strings.Builder) {
	b.WriteString("## SYSTEM RULES\n")
	b.WriteString("- You are a deterministic assistant.\n")
	b.WriteString("- Do not invent facts outside the provided knowledge.\n")
	b.WriteString("- Follow the behavior profile strictly.\n")
}

func writeProfile(b *strings.Builder, p Profile) {
	role := p.AssistantRole
	if role == "" {
		role = defaultRole
	}
	tone := p.Tone
	if tone == "" {
		tone = defaultTone
	}
	length := p.ResponseLength
	if length == "" {
		length = defaultResponseLength
	}
	empathy := defaultEmpathyLevel
	if p.EmpathyLevel != nil {
		empathy = *p.EmpathyLevel
	}
	goal := p.PrimaryGoal
	if goal == "" {
		goal = defaultPrimaryGoal
	}

	b.WriteString("\n## BEHAVIOR PROFILE (GLOBAL)\n")
	fmt.Fprintf(b, "- ROLE: %s\n", role)
	fmt.Fprintf(b, "- TONE: %s\n", tone)
	fmt.Fprintf(b, "- RESPONSE LENGTH: %s\n", length)
	fmt.Fprintf(b, "- SALES INTENSITY: %.1f (0.0=none, 1.0=aggressive)\n", p.SalesIntensity)
	fmt.Fprintf(b, "- EMPATHY LEVEL: %.1f\n", empathy)
	fmt.Fprintf(b, "- PRIMARY GOAL: %s\n", goal)

	if hc := p.HardConstraints; hc != nil {
		if len(hc.NeverClaim) > 0 {
			fmt.Fprintf(b, "- NEVER CLAIM: %s\n", strings.Join(hc.NeverClaim, ", "))
		}
		if hc.EscalationPath != "" {
			fmt.Fprintf(b, "- ESCALATION PATH: %s\n", hc.EscalationPath)
		}
	}
}

func writePageOverride(b *strings.Builder, overrides []Override, pageURL string) {
	if pageURL == "" || len(overrides) == 0 {
		return
	}

	path := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Path != "" {
		path = u.Path
	}

	for _, o := range overrides {
		if o.Match == "" || !strings.Contains(path, o.Match) {
			continue
		}

		fmt.Fprintf(b, "\n## PAGE-LEVEL OVERRIDES (CONTEXT: %s)\n", path)
		b.WriteString("- APPLY THESE RULES WITH HIGHEST PRIORITY:\n")
		for _, key := range sortedKeys(o.Overrides) {
			fmt.Fprintf(b, "- %s: %s\n", strings.ToUpper(key), o.Overrides[key])
		}
		if o.Instruction != "" {
			fmt.Fprintf(b, "- SPECIAL INSTRUCTION: %s\n", o.Instruction)
		}
		return // first match wins
	}
}

// sortedKeys keeps the emitted override lines in a stable order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeKnowledge(b *strings.Builder, context string) {
	if context == "" {
		return
	}
	b.WriteString("\n## KNOWLEDGE BASE (CONTEXT)\n")
	b.WriteString("Use ONLY the information below to answer. If it's not here, say you don't know and follow your primary goal or escalation path.\n")
	b.WriteString("---\n")
	b.WriteString(context)
	b.WriteString("\n---\n")
}
