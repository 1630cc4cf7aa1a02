// internal/wizard/verification/flow.go
package verification

import (
	"strconv"
	"strings"

	"listing-wizard/internal/common/validation"
	"listing-wizard/internal/models"
	"listing-wizard/internal/wizard"
)

var (
	PositionPersonalInfo = wizard.Position{Step: 1, Substep: 1}
	PositionGovernmentID = wizard.Position{Step: 1, Substep: 2}
	PositionOwnership    = wizard.Position{Step: 1, Substep: 3}
	PositionCompliance   = wizard.Position{Step: 1, Substep: 4}
	PositionProperty     = wizard.Position{Step: 2, Substep: 1}
	PositionLocation     = wizard.Position{Step: 2, Substep: 2}
	PositionDetails      = wizard.Position{Step: 2, Substep: 3}
	PositionReview       = wizard.Position{Step: 2, Substep: 4}
)

// NewFlow builds the two step, four substep verification flow. The draft is
// written after every successful forward step.
func NewFlow() *wizard.Flow[State] {
	return &wizard.Flow[State]{
		Name: FlowName,
		Screens: []wizard.Screen[State]{
			{Position: PositionPersonalInfo, Name: "personal-info", Gate: PersonalInfoComplete, Fields: fields(
				"personalInfo.legalFullName", "personalInfo.mobileNumber")},
			{Position: PositionGovernmentID, Name: "government-id", Gate: GovernmentIDComplete, Fields: fields(
				"personalInfo.idType", "personalInfo.governmentId")},
			{Position: PositionOwnership, Name: "property-type", Gate: OwnershipComplete, Fields: fields(
				"propertyTypeData.propertyType", "propertyTypeData.ownershipDocument")},
			{Position: PositionCompliance, Name: "compliance", Gate: ComplianceComplete, Fields: fields(
				"complianceData.confirmsOwnership", "complianceData.agreesToTerms", "complianceData.licenseNumber")},
			{Position: PositionProperty, Name: "property-information", Gate: PropertyInfoComplete, Fields: fields(
				"propertyBasics.propertyType", "propertyBasics.propertyName", "propertyBasics.street",
				"propertyBasics.city", "propertyBasics.province", "propertyBasics.postalCode")},
			{Position: PositionLocation, Name: "location", Gate: LocationComplete, Fields: fields(
				"location.mapLink")},
			{Position: PositionDetails, Name: "property-details", Gate: DetailsComplete, Fields: fields(
				"details.description", "details.photos")},
			{Position: PositionReview, Name: "review", Gate: ReadyForReview},
		},
		Defaults:           Defaults,
		StripAttachments:   StripAttachments,
		ReleaseAttachments: ReleaseAttachments,
		ApplyIdentity: func(s *State, id models.Identity) {
			s.Personal.UserID = id.UserID
			s.Personal.Email = id.Email
		},
		Rule:          rule,
		Attachment:    attachment,
		SaveOnAdvance: true,
	}
}

func fields(names ...string) func(State) []string {
	return func(State) []string { return names }
}

// ==========================
// Gates
// ==========================

func PersonalInfoComplete(s State) bool {
	return strings.TrimSpace(s.Personal.LegalFullName) != "" &&
		validation.HasPhoneDigits(s.Personal.MobileNumber)
}

func GovernmentIDComplete(s State) bool {
	return oneOf(IDTypes, s.Personal.IDType) && s.Personal.GovernmentID.Attached()
}

func OwnershipComplete(s State) bool {
	return oneOf(PropertyTypes, s.PropertyType.PropertyType) && s.PropertyType.OwnershipDocument.Attached()
}

func ComplianceComplete(s State) bool {
	c := s.Compliance
	if !c.ConfirmsOwnership || !c.AgreesToTerms {
		return false
	}
	return !s.RequiresLicense() || strings.TrimSpace(c.LicenseNumber) != ""
}

func PropertyInfoComplete(s State) bool {
	b := s.Basics
	return strings.TrimSpace(b.PropertyType) != "" &&
		strings.TrimSpace(b.PropertyName) != "" &&
		validation.StreetLongEnough(b.Street) &&
		validation.IsProvince(b.Province) &&
		strings.TrimSpace(b.City) != "" &&
		validation.ValidatePostalCode(b.PostalCode) == ""
}

func LocationComplete(s State) bool {
	link := strings.TrimSpace(s.Location.MapLink)
	return link != "" && validation.ValidateMapLink(link) == ""
}

func DetailsComplete(s State) bool {
	if validation.TextLength(s.Details.Description) < minDescription {
		return false
	}
	for _, p := range s.Details.Photos {
		if p.Attached() {
			return true
		}
	}
	return false
}

// ReadyForReview is the submit gate: every earlier screen must still hold.
func ReadyForReview(s State) bool {
	return PersonalInfoComplete(s) &&
		GovernmentIDComplete(s) &&
		OwnershipComplete(s) &&
		ComplianceComplete(s) &&
		PropertyInfoComplete(s) &&
		LocationComplete(s) &&
		DetailsComplete(s)
}

// ==========================
// Field rules
// ==========================

func required(label string) func(string) string {
	return func(v string) string { return validation.Required(v, label) }
}

func attachedRule(value func(State) *models.Attachment, msg string) wizard.Rule[State] {
	return wizard.Rule[State]{
		Value: func(s State) string {
			if value(s).Attached() {
				return "attached"
			}
			return ""
		},
		Check: func(s State) string {
			if !value(s).Attached() {
				return msg
			}
			return ""
		},
	}
}

func checkedRule(value func(State) bool, msg string) wizard.Rule[State] {
	return wizard.Rule[State]{
		Value: func(s State) string { return strconv.FormatBool(value(s)) },
		Check: func(s State) string {
			if !value(s) {
				return msg
			}
			return ""
		},
	}
}

var rules = map[string]wizard.Rule[State]{
	"personalInfo.legalFullName": wizard.StringRule(func(s State) string { return s.Personal.LegalFullName }, validation.ValidateLegalName),
	"personalInfo.mobileNumber":  wizard.StringRule(func(s State) string { return s.Personal.MobileNumber }, validation.ValidateMobileNumber),
	"personalInfo.idType": wizard.StringRule(func(s State) string { return s.Personal.IDType }, func(v string) string {
		if !oneOf(IDTypes, v) {
			return "Please select an ID type"
		}
		return ""
	}),
	"personalInfo.governmentId": attachedRule(func(s State) *models.Attachment { return s.Personal.GovernmentID },
		"Please upload a photo of your government-issued ID"),
	"propertyTypeData.propertyType": wizard.StringRule(func(s State) string { return s.PropertyType.PropertyType }, func(v string) string {
		if !oneOf(PropertyTypes, v) {
			return "Please select a property type"
		}
		return ""
	}),
	"propertyTypeData.ownershipDocument": attachedRule(func(s State) *models.Attachment { return s.PropertyType.OwnershipDocument },
		"Please upload a proof of ownership document"),
	"complianceData.confirmsOwnership": checkedRule(func(s State) bool { return s.Compliance.ConfirmsOwnership },
		"Please confirm that you own or manage this property"),
	"complianceData.agreesToTerms": checkedRule(func(s State) bool { return s.Compliance.AgreesToTerms },
		"Please accept the terms to continue"),
	"complianceData.licenseNumber": {
		Value: func(s State) string { return s.Compliance.LicenseNumber },
		Check: func(s State) string {
			v := s.Compliance.LicenseNumber
			if s.RequiresLicense() && strings.TrimSpace(v) == "" {
				return "A licence number is required for this property type"
			}
			return validation.MaxLength(v, maxLicenseNumber, "Licence number")
		},
	},
	"propertyBasics.propertyType": wizard.StringRule(func(s State) string { return s.Basics.PropertyType }, required("Property type")),
	"propertyBasics.propertyName": wizard.StringRule(func(s State) string { return s.Basics.PropertyName }, func(v string) string {
		if msg := validation.Required(v, "Property name"); msg != "" {
			return msg
		}
		return validation.MaxLength(v, maxPropertyName, "Property name")
	}),
	"propertyBasics.street":     wizard.StringRule(func(s State) string { return s.Basics.Street }, validation.ValidateStreetAddress),
	"propertyBasics.city":       wizard.StringRule(func(s State) string { return s.Basics.City }, required("City")),
	"propertyBasics.province":   wizard.StringRule(func(s State) string { return s.Basics.Province }, validation.ValidateProvince),
	"propertyBasics.postalCode": wizard.StringRule(func(s State) string { return s.Basics.PostalCode }, validation.ValidatePostalCode),
	"location.mapLink": wizard.StringRule(func(s State) string { return s.Location.MapLink }, func(v string) string {
		if msg := validation.Required(v, "Map link"); msg != "" {
			return msg
		}
		return validation.ValidateMapLink(v)
	}),
	"details.description": wizard.StringRule(func(s State) string { return s.Details.Description }, func(v string) string {
		if validation.TextLength(v) < minDescription {
			return "Description must be at least 20 characters"
		}
		return validation.MaxLength(v, maxDescription, "Description")
	}),
	"details.photos": {
		Value: func(s State) string { return strconv.Itoa(len(s.Details.Photos)) },
		Check: func(s State) string {
			if len(s.Details.Photos) == 0 {
				return "Please upload at least one photo of your property"
			}
			return ""
		},
	},
}

func rule(field string) (wizard.Rule[State], bool) {
	r, ok := rules[field]
	return r, ok
}

// ==========================
// Attachments
// ==========================

func attachment(field string) (wizard.AttachmentSlot[State], bool) {
	switch field {
	case "personalInfo.governmentId":
		return wizard.AttachmentSlot[State]{
			Policy: models.GovernmentIDPolicy,
			Patch:  func(a *models.Attachment) wizard.Patch[State] { return SetGovernmentID{Doc: a} },
		}, true
	case "propertyTypeData.ownershipDocument":
		return wizard.AttachmentSlot[State]{
			Policy: models.OwnershipDocumentPolicy,
			Patch:  func(a *models.Attachment) wizard.Patch[State] { return SetOwnershipDocument{Doc: a} },
		}, true
	case "details.photos":
		return wizard.AttachmentSlot[State]{
			Policy: models.PropertyPhotoPolicy,
			Room:   photoRoom,
			Patch:  func(a *models.Attachment) wizard.Patch[State] { return AddPhoto{Photo: a} },
		}, true
	}
	return wizard.AttachmentSlot[State]{}, false
}

func photoRoom(s State) string {
	if len(s.Details.Photos) >= maxPhotos {
		return msgTooManyPhotos
	}
	return ""
}
