// internal/wizard/listing/state.go
package listing

import "listing-wizard/internal/models"

// FlowName is the flow identifier used in draft keys, metrics and the API.
const FlowName = "listing"

const msgTooManyPhotos = "You can upload up to 10 photos"

const (
	maxPhotos      = 10
	maxFeatured    = 3
	maxRulesLength = 500
	maxNameLength  = 100
	maxDescription = 2000
)

var PropertyTypes = []string{"hotel", "motel", "resort", "bed_and_breakfast", "guest_house", "apartment", "cottage"}

var RoomTypes = []string{"single", "double", "twin", "queen", "king", "suite", "family", "dormitory"}

// State is the Add Property wizard. Step 1 covers basics, location and
// photos, step 2 the rooms, step 3 amenities and house policies.
type State struct {
	// Owner is filled from the identity collaborator and has no patch.
	Owner     models.Identity `json:"owner"`
	Basics    Basics          `json:"propertyBasics"`
	Location  Location        `json:"location"`
	Details   Details         `json:"details"`
	Rooms     []Room          `json:"rooms"`
	Amenities Amenities       `json:"amenities"`
}

type Basics struct {
	PropertyType string `json:"propertyType"`
	PropertyName string `json:"propertyName"`
	Description  string `json:"description"`
}

type Location struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	MapLink    string `json:"mapLink"`
}

type Details struct {
	Photos []*models.Attachment `json:"photos"`
}

type Room struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Type   string             `json:"type"`
	Count  int                `json:"count"`
	Price  float64            `json:"price"`
	Image1 *models.Attachment `json:"image1"`
	Image2 *models.Attachment `json:"image2"`
}

type Amenities struct {
	Available    []string `json:"available"`
	Featured     []string `json:"featured"`
	Safety       []string `json:"safety"`
	SharedSpaces []string `json:"sharedSpaces"`
	CheckInTime  string   `json:"checkInTime"`
	CheckOutTime string   `json:"checkOutTime"`
	Rules        string   `json:"rules"`
}

// Defaults is the state of a freshly mounted wizard.
func Defaults() State {
	return State{
		Details: Details{Photos: []*models.Attachment{}},
		Rooms:   []Room{},
		Amenities: Amenities{
			Available:    []string{},
			Featured:     []string{},
			Safety:       []string{},
			SharedSpaces: []string{},
			CheckInTime:  "15:00",
			CheckOutTime: "11:00",
		},
	}
}

// StripAttachments returns a copy with every attachment field unattached.
// The live state is not modified.
func StripAttachments(s State) State {
	s.Details.Photos = []*models.Attachment{}
	rooms := make([]Room, len(s.Rooms))
	for i, r := range s.Rooms {
		r.Image1, r.Image2 = nil, nil
		rooms[i] = r
	}
	s.Rooms = rooms
	return s
}

// ReleaseAttachments drops every file handle and preview held by s.
func ReleaseAttachments(s State) {
	for _, p := range s.Details.Photos {
		p.Release()
	}
	for _, r := range s.Rooms {
		r.Image1.Release()
		r.Image2.Release()
	}
}

func (s State) room(id string) (Room, int, bool) {
	for i, r := range s.Rooms {
		if r.ID == id {
			return r, i, true
		}
	}
	return Room{}, -1, false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func without(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func with(list []string, v string) []string {
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, v)
}
