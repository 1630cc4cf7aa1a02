// internal/models/identity.go
package models

import "strings"

// Identity is the signed-in user as supplied by the identity collaborator.
// The wizard displays these fields but never edits them.
type Identity struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}
