// internal/wizard/listing/patches.go
package listing

import (
	"listing-wizard/internal/common/validation"
	"listing-wizard/internal/models"
)

// BasicsPatch edits the property basics section.
type BasicsPatch struct {
	PropertyType *string `json:"propertyType,omitempty"`
	PropertyName *string `json:"propertyName,omitempty"`
	Description  *string `json:"description,omitempty"`
}

func (p BasicsPatch) Apply(s *State) {
	if p.PropertyType != nil {
		s.Basics.PropertyType = *p.PropertyType
	}
	if p.PropertyName != nil {
		s.Basics.PropertyName = *p.PropertyName
	}
	if p.Description != nil {
		s.Basics.Description = *p.Description
	}
}

func (p BasicsPatch) Fields() []string {
	var out []string
	if p.PropertyType != nil {
		out = append(out, "propertyBasics.propertyType")
	}
	if p.PropertyName != nil {
		out = append(out, "propertyBasics.propertyName")
	}
	if p.Description != nil {
		out = append(out, "propertyBasics.description")
	}
	return out
}

// LocationPatch edits the address. The postal code is normalized as it is
// typed.
type LocationPatch struct {
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	Province   *string `json:"province,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	MapLink    *string `json:"mapLink,omitempty"`
}

func (p LocationPatch) Apply(s *State) {
	if p.Street != nil {
		s.Location.Street = *p.Street
	}
	if p.City != nil {
		s.Location.City = *p.City
	}
	if p.Province != nil {
		s.Location.Province = *p.Province
	}
	if p.PostalCode != nil {
		s.Location.PostalCode = validation.FormatPostalCode(*p.PostalCode)
	}
	if p.MapLink != nil {
		s.Location.MapLink = *p.MapLink
	}
}

func (p LocationPatch) Fields() []string {
	var out []string
	if p.Street != nil {
		out = append(out, "location.street")
	}
	if p.City != nil {
		out = append(out, "location.city")
	}
	if p.Province != nil {
		out = append(out, "location.province")
	}
	if p.PostalCode != nil {
		out = append(out, "location.postalCode")
	}
	if p.MapLink != nil {
		out = append(out, "location.mapLink")
	}
	return out
}

// AddPhoto appends a property photo. The attachment slot refuses intake at
// the limit; a patch applied past it releases the attachment and drops it.
type AddPhoto struct {
	Photo *models.Attachment
}

func (p AddPhoto) Apply(s *State) {
	if p.Photo == nil {
		return
	}
	if len(s.Details.Photos) >= maxPhotos {
		p.Photo.Release()
		return
	}
	photos := make([]*models.Attachment, len(s.Details.Photos), len(s.Details.Photos)+1)
	copy(photos, s.Details.Photos)
	s.Details.Photos = append(photos, p.Photo)
}

func (p AddPhoto) Fields() []string { return []string{"details.photos"} }

// RemovePhoto drops the photo at Index and releases it.
type RemovePhoto struct {
	Index int `json:"index"`
}

func (p RemovePhoto) Apply(s *State) {
	if p.Index < 0 || p.Index >= len(s.Details.Photos) {
		return
	}
	s.Details.Photos[p.Index].Release()
	photos := make([]*models.Attachment, 0, len(s.Details.Photos)-1)
	photos = append(photos, s.Details.Photos[:p.Index]...)
	s.Details.Photos = append(photos, s.Details.Photos[p.Index+1:]...)
}

func (p RemovePhoto) Fields() []string { return []string{"details.photos"} }
