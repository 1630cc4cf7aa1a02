// internal/wizard/listing/flow.go
package listing

import (
	"strconv"
	"strings"

	"listing-wizard/internal/common/validation"
	"listing-wizard/internal/models"
	"listing-wizard/internal/wizard"
)

var (
	PositionDetails   = wizard.Position{Step: 1, Substep: 1}
	PositionRooms     = wizard.Position{Step: 2, Substep: 1}
	PositionAmenities = wizard.Position{Step: 3, Substep: 1}
)

// NewFlow builds the three screen Add Property flow. Drafts are written only
// on explicit save.
func NewFlow() *wizard.Flow[State] {
	return &wizard.Flow[State]{
		Name: FlowName,
		Screens: []wizard.Screen[State]{
			{Position: PositionDetails, Name: "property-details", Gate: DetailsComplete, Fields: detailsFields},
			{Position: PositionRooms, Name: "rooms", Gate: RoomsComplete, Fields: roomsFields},
			{Position: PositionAmenities, Name: "amenities", Gate: ReadyToPublish, Fields: amenitiesFields},
		},
		Defaults:           Defaults,
		StripAttachments:   StripAttachments,
		ReleaseAttachments: ReleaseAttachments,
		ApplyIdentity: func(s *State, id models.Identity) {
			s.Owner = id
		},
		Rule:       rule,
		Attachment: attachment,
	}
}

// ==========================
// Gates
// ==========================

func DetailsComplete(s State) bool {
	b, l := s.Basics, s.Location
	return contains(PropertyTypes, b.PropertyType) &&
		strings.TrimSpace(b.PropertyName) != "" &&
		validation.StreetLongEnough(l.Street) &&
		validation.IsProvince(l.Province) &&
		strings.TrimSpace(l.City) != "" &&
		validation.ValidatePostalCode(l.PostalCode) == "" &&
		validation.ValidateMapLink(l.MapLink) == "" &&
		hasPhoto(s.Details.Photos)
}

func hasPhoto(photos []*models.Attachment) bool {
	for _, p := range photos {
		if p.Attached() {
			return true
		}
	}
	return false
}

func RoomsComplete(s State) bool {
	if len(s.Rooms) == 0 {
		return false
	}
	for _, r := range s.Rooms {
		if !r.Valid() {
			return false
		}
	}
	return true
}

func AmenitiesComplete(s State) bool {
	a := s.Amenities
	return len(a.Available) > 0 &&
		a.FeaturedConsistent() &&
		validation.ValidateTime(a.CheckInTime, "Check-in time") == "" &&
		validation.ValidateTime(a.CheckOutTime, "Check-out time") == "" &&
		len([]rune(a.Rules)) <= maxRulesLength
}

// ReadyToPublish guards the terminal screen. Sections stay editable from any
// position and a resumed draft comes back without photos, so every earlier
// gate is re-checked before publishing.
func ReadyToPublish(s State) bool {
	return DetailsComplete(s) && RoomsComplete(s) && AmenitiesComplete(s)
}

// ==========================
// Field rules
// ==========================

var staticRules = map[string]wizard.Rule[State]{
	"propertyBasics.propertyType": wizard.StringRule(func(s State) string { return s.Basics.PropertyType }, func(v string) string {
		if v == "" || !contains(PropertyTypes, v) {
			return "Please select a property type"
		}
		return ""
	}),
	"propertyBasics.propertyName": wizard.StringRule(func(s State) string { return s.Basics.PropertyName }, func(v string) string {
		if msg := validation.Required(v, "Property name"); msg != "" {
			return msg
		}
		return validation.MaxLength(v, maxNameLength, "Property name")
	}),
	"propertyBasics.description": wizard.StringRule(func(s State) string { return s.Basics.Description }, func(v string) string {
		return validation.MaxLength(v, maxDescription, "Description")
	}),
	"location.street":     wizard.StringRule(func(s State) string { return s.Location.Street }, validation.ValidateStreetAddress),
	"location.province":   wizard.StringRule(func(s State) string { return s.Location.Province }, validation.ValidateProvince),
	"location.postalCode": wizard.StringRule(func(s State) string { return s.Location.PostalCode }, validation.ValidatePostalCode),
	"location.mapLink":    wizard.StringRule(func(s State) string { return s.Location.MapLink }, validation.ValidateMapLink),
	"location.city": wizard.StringRule(func(s State) string { return s.Location.City }, func(v string) string {
		return validation.Required(v, "City")
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
	"rooms": {
		Value: func(s State) string { return strconv.Itoa(len(s.Rooms)) },
		Check: func(s State) string {
			if len(s.Rooms) == 0 {
				return "Please add at least one room"
			}
			return ""
		},
	},
	"amenities.available": {
		Value: func(s State) string { return strings.Join(s.Amenities.Available, ",") },
		Check: func(s State) string {
			if len(s.Amenities.Available) == 0 {
				return "Please select at least one amenity"
			}
			return ""
		},
	},
	"amenities.featured": {
		Value: func(s State) string { return strings.Join(s.Amenities.Featured, ",") },
		Check: func(s State) string {
			if !s.Amenities.FeaturedConsistent() {
				return "You can feature up to 3 of your available amenities"
			}
			return ""
		},
	},
	"amenities.checkInTime": wizard.StringRule(func(s State) string { return s.Amenities.CheckInTime }, func(v string) string {
		return validation.ValidateTime(v, "Check-in time")
	}),
	"amenities.checkOutTime": wizard.StringRule(func(s State) string { return s.Amenities.CheckOutTime }, func(v string) string {
		return validation.ValidateTime(v, "Check-out time")
	}),
	"amenities.rules": wizard.StringRule(func(s State) string { return s.Amenities.Rules }, func(v string) string {
		return validation.MaxLength(v, maxRulesLength, "House rules")
	}),
}

// rule resolves static keys and per-room keys of the form rooms.<id>.<field>.
func rule(field string) (wizard.Rule[State], bool) {
	if r, ok := staticRules[field]; ok {
		return r, true
	}
	id, name, ok := splitRoomField(field)
	if !ok {
		return wizard.Rule[State]{}, false
	}
	switch name {
	case "name", "type", "count", "price":
	default:
		return wizard.Rule[State]{}, false
	}
	return wizard.Rule[State]{
		Value: func(s State) string {
			r, _, ok := s.room(id)
			if !ok {
				return ""
			}
			switch name {
			case "name":
				return r.Name
			case "type":
				return r.Type
			case "count":
				return strconv.Itoa(r.Count)
			default:
				return strconv.FormatFloat(r.Price, 'f', -1, 64)
			}
		},
		Check: func(s State) string {
			r, _, ok := s.room(id)
			if !ok {
				return ""
			}
			return r.FieldErrors()[name]
		},
	}, true
}

func splitRoomField(field string) (id, name string, ok bool) {
	parts := strings.Split(field, ".")
	if len(parts) != 3 || parts[0] != "rooms" || parts[1] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func detailsFields(State) []string {
	return []string{
		"propertyBasics.propertyType", "propertyBasics.propertyName", "propertyBasics.description",
		"location.street", "location.city", "location.province", "location.postalCode", "location.mapLink",
		"details.photos",
	}
}

func roomsFields(s State) []string {
	out := []string{"rooms"}
	for _, r := range s.Rooms {
		out = append(out, roomField(r.ID, "name"), roomField(r.ID, "type"), roomField(r.ID, "count"), roomField(r.ID, "price"))
	}
	return out
}

func amenitiesFields(State) []string {
	return []string{"amenities.available", "amenities.featured", "amenities.checkInTime", "amenities.checkOutTime", "amenities.rules"}
}

// ==========================
// Attachments
// ==========================

func attachment(field string) (wizard.AttachmentSlot[State], bool) {
	if field == "details.photos" {
		return wizard.AttachmentSlot[State]{
			Policy: models.PropertyPhotoPolicy,
			Room:   photoRoom,
			Patch:  func(a *models.Attachment) wizard.Patch[State] { return AddPhoto{Photo: a} },
		}, true
	}

	id, name, ok := splitRoomField(field)
	if !ok {
		return wizard.AttachmentSlot[State]{}, false
	}
	var slot int
	switch name {
	case "image1":
		slot = 1
	case "image2":
		slot = 2
	default:
		return wizard.AttachmentSlot[State]{}, false
	}
	return wizard.AttachmentSlot[State]{
		Policy: models.RoomPhotoPolicy,
		Patch: func(a *models.Attachment) wizard.Patch[State] {
			return SetRoomImage{ID: id, Slot: slot, Image: a}
		},
	}, true
}

func photoRoom(s State) string {
	if len(s.Details.Photos) >= maxPhotos {
		return msgTooManyPhotos
	}
	return ""
}
