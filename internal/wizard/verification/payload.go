// internal/wizard/verification/payload.go
package verification

import (
	"context"
	"fmt"

	"listing-wizard/internal/submission"
)

// Payload is the owner verification request sent for review.
type Payload struct {
	SubmissionID string           `json:"submissionId"`
	Owner        OwnerPayload     `json:"owner"`
	Ownership    OwnershipPayload `json:"ownership"`
	Compliance   ComplianceData   `json:"compliance"`
	Property     PropertyPayload  `json:"property"`
}

type OwnerPayload struct {
	UserID        string                    `json:"userId"`
	Email         string                    `json:"email"`
	LegalFullName string                    `json:"legalFullName"`
	MobileNumber  string                    `json:"mobileNumber"`
	IDType        string                    `json:"idType"`
	GovernmentID  *submission.AttachmentRef `json:"governmentId"`
}

type OwnershipPayload struct {
	PropertyType string                    `json:"propertyType"`
	Document     *submission.AttachmentRef `json:"document"`
}

type PropertyPayload struct {
	Type        string                     `json:"type"`
	Name        string                     `json:"name"`
	Street      string                     `json:"street"`
	City        string                     `json:"city"`
	Province    string                     `json:"province"`
	PostalCode  string                     `json:"postalCode,omitempty"`
	MapLink     string                     `json:"mapLink"`
	Description string                     `json:"description"`
	Photos      []submission.AttachmentRef `json:"photos"`
}

// BuildPayload uploads the documents and photos and assembles the payload.
func BuildPayload(ctx context.Context, s State, u submission.Uploader, submissionID string) (*Payload, error) {
	ref := func(field string) submission.ObjectRef {
		return submission.ObjectRef{Flow: FlowName, SubmissionID: submissionID, Field: field}
	}

	govID, err := submission.UploadAttachment(ctx, u, ref("government-id"), s.Personal.GovernmentID)
	if err != nil {
		return nil, err
	}
	ownership, err := submission.UploadAttachment(ctx, u, ref("ownership-document"), s.PropertyType.OwnershipDocument)
	if err != nil {
		return nil, err
	}

	photos := make([]submission.AttachmentRef, 0, len(s.Details.Photos))
	for i, p := range s.Details.Photos {
		r, err := submission.UploadAttachment(ctx, u, ref(fmt.Sprintf("photos/%d", i)), p)
		if err != nil {
			return nil, err
		}
		if r != nil {
			photos = append(photos, *r)
		}
	}

	compliance := s.Compliance
	if !s.RequiresLicense() {
		compliance.LicenseNumber = ""
	}

	return &Payload{
		SubmissionID: submissionID,
		Owner: OwnerPayload{
			UserID:        s.Personal.UserID,
			Email:         s.Personal.Email,
			LegalFullName: s.Personal.LegalFullName,
			MobileNumber:  s.Personal.MobileNumber,
			IDType:        s.Personal.IDType,
			GovernmentID:  govID,
		},
		Ownership: OwnershipPayload{
			PropertyType: s.PropertyType.PropertyType,
			Document:     ownership,
		},
		Compliance: compliance,
		Property: PropertyPayload{
			Type:        s.Basics.PropertyType,
			Name:        s.Basics.PropertyName,
			Street:      s.Basics.Street,
			City:        s.Basics.City,
			Province:    s.Basics.Province,
			PostalCode:  s.Basics.PostalCode,
			MapLink:     s.Location.MapLink,
			Description: s.Details.Description,
			Photos:      photos,
		},
	}, nil
}
