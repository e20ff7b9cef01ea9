package flow

// Mode is the top-level conversation mode for a session.
type Mode string

const (
	ModeFreeChat   Mode = "FREE_CHAT"
	ModeGuidedFlow Mode = "GUIDED_FLOW"
)

// Step tracks progress through the guided submission flow.
// It is only meaningful while the session mode is GUIDED_FLOW.
type Step string

const (
	StepNone        Step = "NONE"
	StepTitle       Step = "TITLE"
	StepDescription Step = "DESCRIPTION"
	StepImpact      Step = "IMPACT"
	StepConfirm     Step = "CONFIRM"
	StepSubmitted   Step = "SUBMITTED"
)

// Scratch holds the in-progress answer set collected by the guided flow.
// It is cleared whenever the flow is cancelled, restarted or committed.
type Scratch struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	ImpactedUsers int    `json:"impactedUsers,omitempty"`
}

// State is the full machine state carried on a chat session.
type State struct {
	Mode    Mode
	Step    Step
	Scratch Scratch
}

// Reset returns the state to plain free chat with no leftover answers.
func (s *State) Reset() {
	s.Mode = ModeFreeChat
	s.Step = StepNone
	s.Scratch = Scratch{}
}
