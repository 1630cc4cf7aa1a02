// internal/wizard/verification/patches.go
package verification

import (
	"listing-wizard/internal/common/validation"
	"listing-wizard/internal/models"
)

// PersonalInfoPatch formats the name and phone number as they are typed.
type PersonalInfoPatch struct {
	LegalFullName *string `json:"legalFullName,omitempty"`
	MobileNumber  *string `json:"mobileNumber,omitempty"`
	IDType        *string `json:"idType,omitempty"`
}

func (p PersonalInfoPatch) Apply(s *State) {
	if p.LegalFullName != nil {
		s.Personal.LegalFullName = validation.FormatName(*p.LegalFullName)
	}
	if p.MobileNumber != nil {
		s.Personal.MobileNumber = validation.FormatPhone(*p.MobileNumber)
	}
	if p.IDType != nil {
		s.Personal.IDType = *p.IDType
	}
}

func (p PersonalInfoPatch) Fields() []string {
	var out []string
	if p.LegalFullName != nil {
		out = append(out, "personalInfo.legalFullName")
	}
	if p.MobileNumber != nil {
		out = append(out, "personalInfo.mobileNumber")
	}
	if p.IDType != nil {
		out = append(out, "personalInfo.idType")
	}
	return out
}

// SetGovernmentID replaces the ID document; nil removes it. The previous
// document is released.
type SetGovernmentID struct {
	Doc *models.Attachment
}

func (p SetGovernmentID) Apply(s *State) {
	if s.Personal.GovernmentID != p.Doc {
		s.Personal.GovernmentID.Release()
	}
	s.Personal.GovernmentID = p.Doc
}

func (p SetGovernmentID) Fields() []string { return []string{"personalInfo.governmentId"} }

type PropertyTypePatch struct {
	PropertyType *string `json:"propertyType,omitempty"`
}

func (p PropertyTypePatch) Apply(s *State) {
	if p.PropertyType != nil {
		s.PropertyType.PropertyType = *p.PropertyType
	}
}

func (p PropertyTypePatch) Fields() []string {
	if p.PropertyType == nil {
		return nil
	}
	return []string{"propertyTypeData.propertyType", "complianceData.licenseNumber"}
}

// SetOwnershipDocument replaces the ownership PDF; nil removes it.
type SetOwnershipDocument struct {
	Doc *models.Attachment
}

func (p SetOwnershipDocument) Apply(s *State) {
	if s.PropertyType.OwnershipDocument != p.Doc {
		s.PropertyType.OwnershipDocument.Release()
	}
	s.PropertyType.OwnershipDocument = p.Doc
}

func (p SetOwnershipDocument) Fields() []string {
	return []string{"propertyTypeData.ownershipDocument"}
}

type CompliancePatch struct {
	ConfirmsOwnership *bool   `json:"confirmsOwnership,omitempty"`
	AgreesToTerms     *bool   `json:"agreesToTerms,omitempty"`
	LicenseNumber     *string `json:"licenseNumber,omitempty"`
}

func (p CompliancePatch) Apply(s *State) {
	if p.ConfirmsOwnership != nil {
		s.Compliance.ConfirmsOwnership = *p.ConfirmsOwnership
	}
	if p.AgreesToTerms != nil {
		s.Compliance.AgreesToTerms = *p.AgreesToTerms
	}
	if p.LicenseNumber != nil {
		s.Compliance.LicenseNumber = *p.LicenseNumber
	}
}

func (p CompliancePatch) Fields() []string {
	var out []string
	if p.ConfirmsOwnership != nil {
		out = append(out, "complianceData.confirmsOwnership")
	}
	if p.AgreesToTerms != nil {
		out = append(out, "complianceData.agreesToTerms")
	}
	if p.LicenseNumber != nil {
		out = append(out, "complianceData.licenseNumber")
	}
	return out
}

// BasicsPatch edits the property information screen.
type BasicsPatch struct {
	PropertyType *string `json:"propertyType,omitempty"`
	PropertyName *string `json:"propertyName,omitempty"`
	Street       *string `json:"street,omitempty"`
	City         *string `json:"city,omitempty"`
	Province     *string `json:"province,omitempty"`
	PostalCode   *string `json:"postalCode,omitempty"`
}

func (p BasicsPatch) Apply(s *State) {
	b := &s.Basics
	if p.PropertyType != nil {
		b.PropertyType = *p.PropertyType
	}
	if p.PropertyName != nil {
		b.PropertyName = *p.PropertyName
	}
	if p.Street != nil {
		b.Street = *p.Street
	}
	if p.City != nil {
		b.City = *p.City
	}
	if p.Province != nil {
		b.Province = *p.Province
	}
	if p.PostalCode != nil {
		b.PostalCode = validation.FormatPostalCode(*p.PostalCode)
	}
}

func (p BasicsPatch) Fields() []string {
	var out []string
	add := func(set bool, field string) {
		if set {
			out = append(out, "propertyBasics."+field)
		}
	}
	add(p.PropertyType != nil, "propertyType")
	add(p.PropertyName != nil, "propertyName")
	add(p.Street != nil, "street")
	add(p.City != nil, "city")
	add(p.Province != nil, "province")
	add(p.PostalCode != nil, "postalCode")
	return out
}

type LocationPatch struct {
	MapLink *string `json:"mapLink,omitempty"`
}

func (p LocationPatch) Apply(s *State) {
	if p.MapLink != nil {
		s.Location.MapLink = *p.MapLink
	}
}

func (p LocationPatch) Fields() []string {
	if p.MapLink == nil {
		return nil
	}
	return []string{"location.mapLink"}
}

type DetailsPatch struct {
	Description *string `json:"description,omitempty"`
}

func (p DetailsPatch) Apply(s *State) {
	if p.Description != nil {
		s.Details.Description = *p.Description
	}
}

func (p DetailsPatch) Fields() []string {
	if p.Description == nil {
		return nil
	}
	return []string{"details.description"}
}

// AddPhoto appends a property photo; past the limit it is released. Intake
// through the attachment slot is refused before that point.
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
