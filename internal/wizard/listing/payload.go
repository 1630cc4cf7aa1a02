// internal/wizard/listing/payload.go
package listing

import (
	"context"
	"fmt"

	"listing-wizard/internal/models"
	"listing-wizard/internal/submission"
)

// Payload is what the listing API receives. Attachments are references
// produced by the uploader, never raw bytes.
type Payload struct {
	SubmissionID string           `json:"submissionId"`
	Owner        OwnerPayload     `json:"owner"`
	Property     PropertyPayload  `json:"property"`
	Rooms        []RoomPayload    `json:"rooms"`
	Amenities    AmenitiesPayload `json:"amenities"`
}

type OwnerPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type PropertyPayload struct {
	Type        string                     `json:"type"`
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	Street      string                     `json:"street"`
	City        string                     `json:"city"`
	Province    string                     `json:"province"`
	PostalCode  string                     `json:"postalCode,omitempty"`
	MapLink     string                     `json:"mapLink,omitempty"`
	Photos      []submission.AttachmentRef `json:"photos"`
}

type RoomPayload struct {
	Name   string                     `json:"name"`
	Type   string                     `json:"type"`
	Count  int                        `json:"count"`
	Price  float64                    `json:"price"`
	Images []submission.AttachmentRef `json:"images"`
}

type AmenitiesPayload struct {
	Available    []string `json:"available"`
	Featured     []string `json:"featured"`
	Safety       []string `json:"safety"`
	SharedSpaces []string `json:"sharedSpaces"`
	CheckInTime  string   `json:"checkInTime"`
	CheckOutTime string   `json:"checkOutTime"`
	Rules        string   `json:"rules,omitempty"`
}

// BuildPayload uploads every attached file and assembles the payload. The
// state is only read.
func BuildPayload(ctx context.Context, s State, u submission.Uploader, submissionID string) (*Payload, error) {
	ref := func(field string) submission.ObjectRef {
		return submission.ObjectRef{Flow: FlowName, SubmissionID: submissionID, Field: field}
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

	rooms := make([]RoomPayload, 0, len(s.Rooms))
	for _, room := range s.Rooms {
		images := []submission.AttachmentRef{}
		for i, img := range []*models.Attachment{room.Image1, room.Image2} {
			r, err := submission.UploadAttachment(ctx, u, ref(fmt.Sprintf("rooms/%s/image%d", room.ID, i+1)), img)
			if err != nil {
				return nil, err
			}
			if r != nil {
				images = append(images, *r)
			}
		}
		rooms = append(rooms, RoomPayload{
			Name:   room.Name,
			Type:   room.Type,
			Count:  room.Count,
			Price:  room.Price,
			Images: images,
		})
	}

	a := s.Amenities
	return &Payload{
		SubmissionID: submissionID,
		Owner: OwnerPayload{
			UserID: s.Owner.UserID,
			Email:  s.Owner.Email,
			Name:   s.Owner.FullName(),
		},
		Property: PropertyPayload{
			Type:        s.Basics.PropertyType,
			Name:        s.Basics.PropertyName,
			Description: s.Basics.Description,
			Street:      s.Location.Street,
			City:        s.Location.City,
			Province:    s.Location.Province,
			PostalCode:  s.Location.PostalCode,
			MapLink:     s.Location.MapLink,
			Photos:      photos,
		},
		Rooms: rooms,
		Amenities: AmenitiesPayload{
			Available:    a.Available,
			Featured:     a.Featured,
			Safety:       a.Safety,
			SharedSpaces: a.SharedSpaces,
			CheckInTime:  a.CheckInTime,
			CheckOutTime: a.CheckOutTime,
			Rules:        a.Rules,
		},
	}, nil
}
