package constant

// Entry triggers into the guided flow. Matched case-insensitively as
// substrings of the utterance.
var GuidedFlowTriggers = []string{"submit idea", "new idea", "start submission"}

// Exit keywords out of the guided flow. Matched case-insensitively as the
// whole utterance.
var GuidedFlowExitKeywords = []string{"cancel", "exit", "stop"}

// Fixed notices the orchestrator emits without consulting the oracle.
const (
	GuidedFlowDeniedNotice = "I'm sorry, but Idea Submission is not enabled for this connection."
	AIDisabledNotice       = "AI Chat is disabled. Please type 'submit idea' to start a form (if allowed)."
	CancelledNotice        = "Cancelled. You are back in free chat."
)

// HistoryTailSize is how many prior turns are replayed to the oracle.
const HistoryTailSize = 5

// Conversation roles stored in session history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
