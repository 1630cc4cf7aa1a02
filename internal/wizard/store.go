// internal/wizard/store.go
package wizard

// Patch is a typed partial update of one section of S. Apply merges the
// fields the patch carries and leaves every other field untouched.
type Patch[S any] interface {
	Apply(s *S)
	// Fields returns the rule keys the patch touches.
	Fields() []string
}

// Store holds the in-progress sections of one session. It performs no
// validation; temporarily invalid values are normal while the user types.
type Store[S any] struct {
	sections S
	defaults func() S
}

func NewStore[S any](defaults func() S) *Store[S] {
	return &Store[S]{sections: defaults(), defaults: defaults}
}

// Get returns the current sections. Callers must treat slices inside the
// returned value as read-only.
func (st *Store[S]) Get() S {
	return st.sections
}

// Update applies p synchronously.
func (st *Store[S]) Update(p Patch[S]) {
	p.Apply(&st.sections)
}

// Replace swaps in a whole state, e.g. a rehydrated draft.
func (st *Store[S]) Replace(s S) {
	st.sections = s
}

// Reset returns every section to its defaults.
func (st *Store[S]) Reset() {
	st.sections = st.defaults()
}

func (st *Store[S]) mutate(fn func(*S)) {
	fn(&st.sections)
}
