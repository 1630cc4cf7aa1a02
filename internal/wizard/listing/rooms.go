// internal/wizard/listing/rooms.go
package listing

import (
	"strconv"

	"listing-wizard/internal/models"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var roomTypeValues = func() []interface{} {
	out := make([]interface{}, len(RoomTypes))
	for i, t := range RoomTypes {
		out[i] = t
	}
	return out
}()

// Validate checks one room. Errors are keyed by the room's JSON field name.
func (r Room) Validate() error {
	return ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Name,
			ozzo.Required.Error("Room name is required"),
			ozzo.RuneLength(0, maxNameLength).Error("Room name must be at most 100 characters"),
		),
		ozzo.Field(&r.Type,
			ozzo.Required.Error("Room type is required"),
			ozzo.In(roomTypeValues...).Error("Please select a valid room type"),
		),
		ozzo.Field(&r.Count,
			ozzo.Required.Error("Room count must be at least 1"),
			ozzo.Min(1).Error("Room count must be at least 1"),
			ozzo.Max(999).Error("Room count cannot exceed 999"),
		),
		ozzo.Field(&r.Price,
			ozzo.Required.Error("Price must be greater than $0"),
			ozzo.Min(0.0).Exclusive().Error("Price must be greater than $0"),
			ozzo.Max(99999.0).Error("Price cannot exceed $99,999"),
		),
	)
}

// FieldErrors flattens Validate into {"name": msg, ...}.
func (r Room) FieldErrors() map[string]string {
	out := map[string]string{}
	errs, ok := r.Validate().(ozzo.Errors)
	if !ok {
		return out
	}
	for field, err := range errs {
		out[field] = err.Error()
	}
	return out
}

func (r Room) Valid() bool {
	return r.Validate() == nil
}

func roomField(id, field string) string {
	return "rooms." + id + "." + field
}

// ==========================
// Room patches
// ==========================

// AddRoom appends a blank room. The id is fixed when the patch is built so
// the caller can address the new room.
type AddRoom struct {
	ID string
}

func NewAddRoom() AddRoom {
	return AddRoom{ID: uuid.NewString()}
}

func (p AddRoom) Apply(s *State) {
	if p.ID == "" {
		return
	}
	if _, _, exists := s.room(p.ID); exists {
		return
	}
	rooms := make([]Room, len(s.Rooms), len(s.Rooms)+1)
	copy(rooms, s.Rooms)
	s.Rooms = append(rooms, Room{ID: p.ID, Count: 1})
}

func (p AddRoom) Fields() []string { return []string{"rooms"} }

// RemoveRoom deletes a room and releases its images.
type RemoveRoom struct {
	ID string
}

func (p RemoveRoom) Apply(s *State) {
	r, _, ok := s.room(p.ID)
	if !ok {
		return
	}
	r.Image1.Release()
	r.Image2.Release()
	rooms := make([]Room, 0, len(s.Rooms))
	for _, x := range s.Rooms {
		if x.ID != p.ID {
			rooms = append(rooms, x)
		}
	}
	s.Rooms = rooms
}

func (p RemoveRoom) Fields() []string {
	return []string{"rooms", roomField(p.ID, "name"), roomField(p.ID, "type"), roomField(p.ID, "count"), roomField(p.ID, "price")}
}

// UpdateRoom merges the given fields into one room.
type UpdateRoom struct {
	ID    string   `json:"id"`
	Name  *string  `json:"name,omitempty"`
	Type  *string  `json:"type,omitempty"`
	Count *int     `json:"count,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

func (p UpdateRoom) Apply(s *State) {
	r, i, ok := s.room(p.ID)
	if !ok {
		return
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Count != nil {
		r.Count = *p.Count
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
	rooms := make([]Room, len(s.Rooms))
	copy(rooms, s.Rooms)
	rooms[i] = r
	s.Rooms = rooms
}

func (p UpdateRoom) Fields() []string {
	var out []string
	if p.Name != nil {
		out = append(out, roomField(p.ID, "name"))
	}
	if p.Type != nil {
		out = append(out, roomField(p.ID, "type"))
	}
	if p.Count != nil {
		out = append(out, roomField(p.ID, "count"))
	}
	if p.Price != nil {
		out = append(out, roomField(p.ID, "price"))
	}
	return out
}

// SetRoomImage replaces image 1 or 2 of a room; nil removes it. The previous
// image is released. If the room is gone the new image is released instead.
type SetRoomImage struct {
	ID    string
	Slot  int
	Image *models.Attachment
}

func (p SetRoomImage) Apply(s *State) {
	r, i, ok := s.room(p.ID)
	if !ok || (p.Slot != 1 && p.Slot != 2) {
		p.Image.Release()
		return
	}
	target := &r.Image1
	if p.Slot == 2 {
		target = &r.Image2
	}
	if *target != p.Image {
		(*target).Release()
	}
	*target = p.Image

	rooms := make([]Room, len(s.Rooms))
	copy(rooms, s.Rooms)
	rooms[i] = r
	s.Rooms = rooms
}

func (p SetRoomImage) Fields() []string {
	return []string{roomField(p.ID, "image"+strconv.Itoa(p.Slot))}
}
