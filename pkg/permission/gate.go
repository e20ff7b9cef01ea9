package permission

import (
	"encoding/json"
	"strings"

	"ideabot-be/pkg/flow"
)

// rawDocument mirrors the tenant permission JSON as stored. Every field is
// optional; tenants configured before the permission system existed have no
// document at all.
type rawDocument struct {
	Modes     []string        `json:"modes"`
	AIEnabled json.RawMessage `json:"aiEnabled"`
	Actions   []string        `json:"actions"`
}

// Document is the normalized permission set for one connection.
// Zero value is fully permissive: missing or malformed documents must
// never brick a tenant.
type Document struct {
	modes     []string
	aiEnabled *bool
	actions   []string
}

// Normalize parses a stored permission document once at the boundary.
// It tolerates a JSON object, a JSON-string-encoded object, or nothing.
// Anything unreadable falls open to the permissive defaults.
func Normalize(raw []byte) Document {
	if len(raw) == 0 {
		return Document{}
	}

	payload := raw
	// Some tenants store the document as a serialized string.
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		payload = []byte(asString)
	}

	var doc rawDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Document{}
	}

	return Document{
		modes:     doc.Modes,
		aiEnabled: parseTolerantBool(doc.AIEnabled),
		actions:   doc.Actions,
	}
}

// parseTolerantBool accepts true/false as a JSON bool or its string form.
func parseTolerantBool(raw json.RawMessage) *bool {
	if len(raw) == 0 {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v := strings.EqualFold(strings.TrimSpace(s), "true")
		return &v
	}
	return nil
}

// AllowsMode reports whether the connection may enter the given mode.
// An absent modes field allows every mode.
func (d Document) AllowsMode(mode flow.Mode) bool {
	if d.modes == nil {
		return true
	}
	for _, m := range d.modes {
		if m == string(mode) {
			return true
		}
	}
	return false
}

// AIEnabled reports whether free-chat AI replies are allowed. Default on.
func (d Document) AIEnabled() bool {
	if d.aiEnabled == nil {
		return true
	}
	return *d.aiEnabled
}

// AllowsAction reports whether the given terminal action type may execute.
// An absent actions field allows everything; NONE is always allowed since
// it has no side effect to restrict.
func (d Document) AllowsAction(actionType string) bool {
	if d.actions == nil || actionType == "NONE" {
		return true
	}
	for _, a := range d.actions {
		if a == actionType {
			return true
		}
	}
	return false
}
