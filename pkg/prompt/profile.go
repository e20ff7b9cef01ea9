package prompt

import "encoding/json"

// HardConstraints are tenant-authored guardrails the assistant must obey.
type HardConstraints struct {
	NeverClaim     []string `json:"never_claim"`
	EscalationPath string   `json:"escalation_path"`
}

// Profile is a connection's global behavior configuration.
// Missing fields fall back to named defaults when the prompt is assembled.
type Profile struct {
	AssistantRole   string           `json:"assistantRole"`
	Tone            string           `json:"tone"`
	ResponseLength  string           `json:"responseLength"`
	SalesIntensity  float64          `json:"salesIntensity"`
	EmpathyLevel    *float64         `json:"empathyLevel"`
	PrimaryGoal     string           `json:"primaryGoal"`
	HardConstraints *HardConstraints `json:"hardConstraints"`
}

// Override is a page-scoped behavior rule. Match is a substring tested
// against the current page path; the first matching override in list
// order wins and no other override applies.
type Override struct {
	Match       string            `json:"match"`
	Instruction string            `json:"instruction"`
	Overrides   map[string]string `json:"overrides"`
}

// ParseProfile reads a stored behavior profile, tolerating either a JSON
// object or its string-encoded form. Unreadable input yields the zero
// profile, which assembles with pure defaults.
func ParseProfile(raw []byte) Profile {
	var p Profile
	unmarshalTolerant(raw, &p)
	return p
}

// ParseOverrides reads the stored page-override list with the same
// tolerance rules as ParseProfile.
func ParseOverrides(raw []byte) []Override {
	var o []Override
	unmarshalTolerant(raw, &o)
	return o
}

func unmarshalTolerant(raw []byte, v interface{}) {
	if len(raw) == 0 {
		return
	}
	payload := raw
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		payload = []byte(asString)
	}
	_ = json.Unmarshal(payload, v)
}
