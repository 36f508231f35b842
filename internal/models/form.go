package models

import (
	"strings"
	"unicode/utf8"
)

const (
	// BalanceMin and BalanceMax bound the shelving percentage
	BalanceMin = 0
	BalanceMax = 100

	DefaultBalance  = 50
	DefaultMaxPicks = 3
	DefaultMethod   = "Email"
)

// Binary is a yes/no answer that starts unset
type Binary string

const (
	BinaryUnset Binary = ""
	BinaryYes   Binary = "Yes"
	BinaryNo    Binary = "No"
)

// Valid reports whether b is one of the enumerated values
func (b Binary) Valid() bool {
	return b == BinaryUnset || b == BinaryYes || b == BinaryNo
}

// ContactField names one editable attribute of a Contact
type ContactField string

const (
	FieldName    ContactField = "name"
	FieldEmail   ContactField = "email"
	FieldPhone   ContactField = "phone"
	FieldAddress ContactField = "address"
)

// Contact holds the client's contact record
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address"`
	Method  string `json:"method"`
}

// FormState is the client's answers for one session.
// Mutate it only through its methods so the invariants hold.
type FormState struct {
	Ranked  []string          `json:"ranked"`
	Balance int               `json:"balance"`
	Multi   []string          `json:"multi"`
	Single  string            `json:"single,omitempty"`
	Dual    map[string]string `json:"dual"`
	Text    string            `json:"text"`
	Binary  Binary            `json:"binary"`
	Contact Contact           `json:"contact"`
}

// NewFormState returns the empty state a session starts with
func NewFormState() *FormState {
	return &FormState{
		Ranked:  []string{},
		Balance: DefaultBalance,
		Multi:   []string{},
		Dual:    make(map[string]string),
		Contact: Contact{Method: DefaultMethod},
	}
}

// ToggleRanked removes label if selected, otherwise appends it when fewer
// than maxPicks are chosen. Rank is position+1, so removal shifts later
// items down and a re-added label goes to the end.
func (f *FormState) ToggleRanked(label string, maxPicks int) bool {
	if i := indexOf(f.Ranked, label); i >= 0 {
		f.Ranked = append(f.Ranked[:i:i], f.Ranked[i+1:]...)
		return true
	}
	if len(f.Ranked) >= maxPicks {
		return false
	}
	f.Ranked = append(f.Ranked, label)
	return true
}

// Rank returns the 1-based rank of label, or 0 when not selected
func (f *FormState) Rank(label string) int {
	return indexOf(f.Ranked, label) + 1
}

// SetBalance stores v clamped into [BalanceMin, BalanceMax]
func (f *FormState) SetBalance(v int) {
	f.Balance = ClampBalance(v)
}

// Hanging is the complement of the shelving percentage
func (f *FormState) Hanging() int {
	return BalanceMax - ClampBalance(f.Balance)
}

// Shelving is the stored percentage, clamped for safety on decoded states
func (f *FormState) Shelving() int {
	return ClampBalance(f.Balance)
}

// ToggleMulti flips membership of label
func (f *FormState) ToggleMulti(label string) {
	if i := indexOf(f.Multi, label); i >= 0 {
		f.Multi = append(f.Multi[:i:i], f.Multi[i+1:]...)
		return
	}
	f.Multi = append(f.Multi, label)
}

// HasMulti reports set membership
func (f *FormState) HasMulti(label string) bool {
	return indexOf(f.Multi, label) >= 0
}

// SetSingle replaces the single-select value
func (f *FormState) SetSingle(label string) {
	f.Single = label
}

// SetDual sets one category's choice and leaves the other untouched
func (f *FormState) SetDual(category, label string) {
	if f.Dual == nil {
		f.Dual = make(map[string]string)
	}
	f.Dual[category] = label
}

// DualValue returns the chosen label for category, empty when unset
func (f *FormState) DualValue(category string) string {
	if f.Dual == nil {
		return ""
	}
	return f.Dual[category]
}

// SetText stores s cut to max runes
func (f *FormState) SetText(s string, max int) {
	f.Text = TruncateRunes(s, max)
}

// TextLength is the counter value shown next to the text area
func (f *FormState) TextLength() int {
	return utf8.RuneCountInString(f.Text)
}

// SetBinary stores the yes/no answer
func (f *FormState) SetBinary(b Binary) bool {
	if !b.Valid() {
		return false
	}
	f.Binary = b
	return true
}

// SetContactField updates one attribute of the contact record
func (f *FormState) SetContactField(field ContactField, value string) bool {
	switch field {
	case FieldName:
		f.Contact.Name = value
	case FieldEmail:
		f.Contact.Email = value
	case FieldPhone:
		f.Contact.Phone = value
	case FieldAddress:
		f.Contact.Address = value
	default:
		return false
	}
	return true
}

// SetContactMethod selects the preferred method when it is one of methods
func (f *FormState) SetContactMethod(method string, methods []string) bool {
	if indexOf(methods, method) < 0 {
		return false
	}
	f.Contact.Method = method
	return true
}

// Normalize repairs a decoded state so that every invariant holds again.
// Stores hand back JSON, which may come from an older catalog.
func (f *FormState) Normalize(maxPicks, maxText int) {
	if f.Ranked == nil {
		f.Ranked = []string{}
	}
	f.Ranked = dedupe(f.Ranked)
	if maxPicks > 0 && len(f.Ranked) > maxPicks {
		f.Ranked = f.Ranked[:maxPicks]
	}
	if f.Multi == nil {
		f.Multi = []string{}
	}
	f.Multi = dedupe(f.Multi)
	if f.Dual == nil {
		f.Dual = make(map[string]string)
	}
	f.Balance = ClampBalance(f.Balance)
	if maxText > 0 {
		f.Text = TruncateRunes(f.Text, maxText)
	}
	if !f.Binary.Valid() {
		f.Binary = BinaryUnset
	}
	if f.Contact.Method == "" {
		f.Contact.Method = DefaultMethod
	}
}

// Clone returns a deep copy
func (f *FormState) Clone() *FormState {
	c := *f
	c.Ranked = append([]string{}, f.Ranked...)
	c.Multi = append([]string{}, f.Multi...)
	c.Dual = make(map[string]string, len(f.Dual))
	for k, v := range f.Dual {
		c.Dual[k] = v
	}
	return &c
}

// ClampBalance bounds v into [BalanceMin, BalanceMax]
func ClampBalance(v int) int {
	if v < BalanceMin {
		return BalanceMin
	}
	if v > BalanceMax {
		return BalanceMax
	}
	return v
}

// TruncateRunes cuts s to at most max runes; max <= 0 means unbounded
func TruncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == max {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := list[:0:0]
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
