// internal/wizard/flow.go
package wizard

import "fmt"

// Position is a location in a flow's screen table.
type Position struct {
	Step    int `json:"step"`
	Substep int `json:"substep"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d.%d", p.Step, p.Substep)
}

// Rule validates one field. Value renders the field so the session can tell
// an emptied field from an invalid one; Check returns "" or the message.
type Rule[S any] struct {
	Value func(S) string
	Check func(S) string
}

// StringRule builds a Rule from a plain string validator.
func StringRule[S any](value func(S) string, check func(string) string) Rule[S] {
	return Rule[S]{
		Value: value,
		Check: func(s S) string { return check(value(s)) },
	}
}

// Eval returns "" or the field's error message.
func (r Rule[S]) Eval(s S) string {
	return r.Check(s)
}

// Screen is one entry of the flow table.
type Screen[S any] struct {
	Position Position
	Name     string
	// Gate is the proceed predicate for this screen.
	Gate func(S) bool
	// Fields lists the rule keys shown on this screen.
	Fields func(S) []string
}

// AttachmentSlot describes where an accepted file goes. Room, when set,
// checks the current sections before intake and returns a rejection message
// when the slot cannot take another file.
type AttachmentSlot[S any] struct {
	Policy Policy
	Room   func(S) string
	Patch  func(*Attachment) Patch[S]
}

// Flow is a linear step machine over S. Screens must be listed in order;
// successor and predecessor are the neighbouring table entries.
type Flow[S any] struct {
	Name    string
	Screens []Screen[S]

	Defaults           func() S
	StripAttachments   func(S) S
	ReleaseAttachments func(S)
	ApplyIdentity      func(*S, Identity)

	Rule       func(field string) (Rule[S], bool)
	Attachment func(field string) (AttachmentSlot[S], bool)

	// SaveOnAdvance writes the draft after every successful forward step.
	SaveOnAdvance bool
}

func (f *Flow[S]) index(p Position) int {
	for i, sc := range f.Screens {
		if sc.Position == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a defined screen.
func (f *Flow[S]) Valid(p Position) bool {
	return f.index(p) >= 0
}

func (f *Flow[S]) First() Position {
	return f.Screens[0].Position
}

func (f *Flow[S]) Last() Position {
	return f.Screens[len(f.Screens)-1].Position
}

// IsTerminal reports whether p is the final (submit) screen.
func (f *Flow[S]) IsTerminal(p Position) bool {
	return p == f.Last()
}

// Screen returns the table entry for p.
func (f *Flow[S]) Screen(p Position) (Screen[S], bool) {
	i := f.index(p)
	if i < 0 {
		return Screen[S]{}, false
	}
	return f.Screens[i], true
}

// Next is undefined at the final position and for unknown positions.
func (f *Flow[S]) Next(p Position) (Position, bool) {
	i := f.index(p)
	if i < 0 || i == len(f.Screens)-1 {
		return p, false
	}
	return f.Screens[i+1].Position, true
}

// Prev is undefined at the initial position and for unknown positions.
func (f *Flow[S]) Prev(p Position) (Position, bool) {
	i := f.index(p)
	if i <= 0 {
		return p, false
	}
	return f.Screens[i-1].Position, true
}

// CanProceed evaluates the gate of the screen at p against s.
func (f *Flow[S]) CanProceed(p Position, s S) bool {
	sc, ok := f.Screen(p)
	if !ok {
		return false
	}
	if sc.Gate == nil {
		return true
	}
	return sc.Gate(s)
}

// Advance returns the successor of p when p's gate holds, otherwise p.
func (f *Flow[S]) Advance(p Position, s S) Position {
	if !f.CanProceed(p, s) {
		return p
	}
	next, _ := f.Next(p)
	return next
}

// Retreat returns the predecessor of p, clamped at the first screen.
func (f *Flow[S]) Retreat(p Position) Position {
	prev, _ := f.Prev(p)
	return prev
}

// StepCount is the number of distinct top-level steps.
func (f *Flow[S]) StepCount() int {
	steps := map[int]struct{}{}
	for _, sc := range f.Screens {
		steps[sc.Position.Step] = struct{}{}
	}
	return len(steps)
}
