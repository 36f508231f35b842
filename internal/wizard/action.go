package wizard

import (
	"fmt"
	"strings"
)

// ActionKind names one legal interaction with the wizard
type ActionKind string

const (
	ActionAdvance          ActionKind = "advance"
	ActionRetreat          ActionKind = "retreat"
	ActionEdit             ActionKind = "edit"               // value: step id
	ActionToggleRanked     ActionKind = "toggle_ranked"      // value: option label
	ActionSetBalance       ActionKind = "set_balance"        // value: shelving percentage
	ActionToggleMulti      ActionKind = "toggle_multi"       // value: option label
	ActionSelectSingle     ActionKind = "select_single"      // value: card label
	ActionSelectDual       ActionKind = "select_dual"        // value: category=label
	ActionSetText          ActionKind = "set_text"           // value: text
	ActionSetBinary        ActionKind = "set_binary"         // value: Yes | No
	ActionSetContactField  ActionKind = "set_contact_field"  // value: field=value
	ActionSetContactMethod ActionKind = "set_contact_method" // value: method
	ActionFinish           ActionKind = "finish"
)

// Action is one interaction plus its argument
type Action struct {
	Kind  ActionKind `json:"kind"`
	Value string     `json:"value,omitempty"`
}

// Encode packs the action into a single form value ("kind|value")
func (a Action) Encode() string {
	if a.Value == "" {
		return string(a.Kind)
	}
	return string(a.Kind) + "|" + a.Value
}

// ParseAction reverses Encode
func ParseAction(s string) (Action, error) {
	kind, value, _ := strings.Cut(s, "|")
	a := Action{Kind: ActionKind(kind), Value: value}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}

// Validate rejects unknown kinds
func (a Action) Validate() error {
	if !a.Kind.valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, a.Kind)
	}
	return nil
}

// Pair builds the key=value argument used by dual and contact-field actions
func Pair(key, value string) string {
	return key + "=" + value
}

func splitPair(v string) (string, string, bool) {
	return strings.Cut(v, "=")
}

func (k ActionKind) valid() bool {
	switch k {
	case ActionAdvance, ActionRetreat, ActionEdit, ActionToggleRanked, ActionSetBalance,
		ActionToggleMulti, ActionSelectSingle, ActionSelectDual, ActionSetText, ActionSetBinary,
		ActionSetContactField, ActionSetContactMethod, ActionFinish:
		return true
	}
	return false
}
