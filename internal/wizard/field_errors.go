// internal/wizard/field_errors.go
package wizard

// FieldErrors maps a field key to its current message.
type FieldErrors map[string]string

// Set stores msg for field; an empty msg clears the entry.
func (e FieldErrors) Set(field, msg string) {
	if msg == "" {
		delete(e, field)
		return
	}
	e[field] = msg
}

func (e FieldErrors) Clear(field string) {
	delete(e, field)
}

func (e FieldErrors) Get(field string) string {
	return e[field]
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) Copy() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
