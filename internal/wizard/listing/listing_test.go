// internal/wizard/listing/listing_test.go
package listing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"listing-wizard/internal/common/database"
	apperrors "listing-wizard/internal/common/errors"
	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/models"
	"listing-wizard/internal/submission"
	"listing-wizard/internal/wizard"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fakes
// ==========================

type fakeSink struct {
	mu       sync.Mutex
	err      error
	requests []submission.Request
}

func (f *fakeSink) Send(_ context.Context, req submission.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.err
}

type fakeUploader struct {
	err    error
	fields []string
}

func (f *fakeUploader) Upload(_ context.Context, ref submission.ObjectRef, a *models.Attachment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.fields = append(f.fields, ref.Field)
	return "s3://bucket/" + ref.Field + "/" + a.FileName, nil
}

type fakeNotifier struct {
	err   error
	notes []submission.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n submission.Notification) error {
	f.notes = append(f.notes, n)
	return f.err
}

// ==========================
// Test Helpers
// ==========================

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func png(name string) models.File {
	return models.File{Name: name, Data: pngBytes}
}

func str(s string) *string { return &s }

func setupRedis(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, database.NewRedisFromClient(rdb)
}

func newSession(t *testing.T, sub wizard.Submitter[State]) (*wizard.Session[State], *miniredis.Miniredis) {
	mr, kv := setupRedis(t)
	flow := NewFlow()
	log := logger.NewTestLogger(t)
	gw := wizard.NewGateway(kv, flow, wizard.DraftKey("wizard", FlowName, "owner-1"), 0, log)
	s := wizard.NewSession(flow, gw, sub, wizard.Options{SessionID: "s-1", UserID: "owner-1", Logger: log})
	s.SetIdentity(models.Identity{UserID: "owner-1", Email: "owner@example.com", FirstName: "Jane", LastName: "Doe"})
	return s, mr
}

// fillDetails completes the property details screen.
func fillDetails(t *testing.T, s *wizard.Session[State]) {
	s.Update(BasicsPatch{PropertyType: str("hotel"), PropertyName: str("Lakeview Inn")})
	s.Update(LocationPatch{
		Street:     str("123 Lake Shore Blvd"),
		City:       str("Toronto"),
		Province:   str("ON"),
		PostalCode: str("m5v3l9"),
		MapLink:    str("https://maps.google.com/?q=lakeview"),
	})
	msg, err := s.Attach(context.Background(), "details.photos", png("front.png"))
	require.NoError(t, err)
	require.Empty(t, msg)
}

func addValidRoom(s *wizard.Session[State]) string {
	add := NewAddRoom()
	s.Update(add)
	count, price := 4, 149.0
	s.Update(UpdateRoom{ID: add.ID, Name: str("Lake View King"), Type: str("king"), Count: &count, Price: &price})
	return add.ID
}

func fillAmenities(s *wizard.Session[State]) {
	for _, a := range []string{"WiFi", "Pool"} {
		s.Update(ToggleAmenity{Group: GroupAvailable, Name: a})
	}
	s.Update(ToggleAmenity{Group: GroupFeatured, Name: "Pool"})
}

func completeListing(t *testing.T, s *wizard.Session[State]) string {
	ctx := context.Background()
	fillDetails(t, s)
	require.True(t, s.Next(ctx))
	id := addValidRoom(s)
	_, err := s.Attach(ctx, "rooms."+id+".image1", png("room.png"))
	require.NoError(t, err)
	require.True(t, s.Next(ctx))
	fillAmenities(s)
	require.Equal(t, PositionAmenities, s.Position())
	require.True(t, s.CanProceed())
	return id
}

// ==========================
// Room Tests
// ==========================

func TestRoom_Validate(t *testing.T) {
	base := Room{ID: "r1", Name: "Queen Room", Type: "queen", Count: 1, Price: 100}

	tests := []struct {
		name    string
		mutate  func(r *Room)
		field   string
		wantMsg string
	}{
		{name: "valid", mutate: func(*Room) {}},
		{name: "count 999 passes", mutate: func(r *Room) { r.Count = 999 }},
		{name: "count 1000 fails", mutate: func(r *Room) { r.Count = 1000 }, field: "count", wantMsg: "Room count cannot exceed 999"},
		{name: "count 0 fails", mutate: func(r *Room) { r.Count = 0 }, field: "count", wantMsg: "Room count must be at least 1"},
		{name: "negative count fails", mutate: func(r *Room) { r.Count = -2 }, field: "count", wantMsg: "Room count must be at least 1"},
		{name: "price 99999 passes", mutate: func(r *Room) { r.Price = 99999 }},
		{name: "price 100000 fails", mutate: func(r *Room) { r.Price = 100000 }, field: "price", wantMsg: "Price cannot exceed $99,999"},
		{name: "zero price fails", mutate: func(r *Room) { r.Price = 0 }, field: "price", wantMsg: "Price must be greater than $0"},
		{name: "negative price fails", mutate: func(r *Room) { r.Price = -5 }, field: "price", wantMsg: "Price must be greater than $0"},
		{name: "unknown type", mutate: func(r *Room) { r.Type = "castle" }, field: "type", wantMsg: "Please select a valid room type"},
		{name: "missing name", mutate: func(r *Room) { r.Name = "" }, field: "name", wantMsg: "Room name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.mutate(&r)
			errs := r.FieldErrors()
			if tt.field == "" {
				assert.Empty(t, errs)
				assert.True(t, r.Valid())
				return
			}
			assert.False(t, r.Valid())
			assert.Equal(t, tt.wantMsg, errs[tt.field])
		})
	}
}

func TestRoomPatches(t *testing.T) {
	s := Defaults()
	a, b := NewAddRoom(), NewAddRoom()
	require.NotEqual(t, a.ID, b.ID)

	a.Apply(&s)
	b.Apply(&s)
	a.Apply(&s)
	require.Len(t, s.Rooms, 2, "re-applying an add must not duplicate the id")
	assert.Equal(t, 1, s.Rooms[0].Count)

	name := "Garden Suite"
	UpdateRoom{ID: a.ID, Name: &name}.Apply(&s)
	count := 3
	UpdateRoom{ID: a.ID, Count: &count}.Apply(&s)
	assert.Equal(t, "Garden Suite", s.Rooms[0].Name)
	assert.Equal(t, 3, s.Rooms[0].Count)

	img, msg := models.RoomPhotoPolicy.Accept(png("r.png"))
	require.Empty(t, msg)
	SetRoomImage{ID: a.ID, Slot: 2, Image: img}.Apply(&s)
	require.Same(t, img, s.Rooms[0].Image2)

	RemoveRoom{ID: a.ID}.Apply(&s)
	require.Len(t, s.Rooms, 1)
	assert.Equal(t, b.ID, s.Rooms[0].ID)
	assert.False(t, img.Attached(), "removing a room releases its images")

	orphan, _ := models.RoomPhotoPolicy.Accept(png("o.png"))
	SetRoomImage{ID: "missing", Slot: 1, Image: orphan}.Apply(&s)
	assert.False(t, orphan.Attached())
}

// ==========================
// Amenity Tests
// ==========================

func TestAmenities_FeaturedCap(t *testing.T) {
	s := Defaults()
	for _, a := range []string{"WiFi", "Pool", "Gym", "Spa"} {
		ToggleAmenity{Group: GroupAvailable, Name: a}.Apply(&s)
	}

	var accepted []bool
	for _, a := range []string{"WiFi", "Pool", "Gym", "Spa"} {
		accepted = append(accepted, s.Amenities.ToggleFeatured(a))
	}

	assert.Equal(t, []bool{true, true, true, false}, accepted)
	assert.Equal(t, []string{"WiFi", "Pool", "Gym"}, s.Amenities.Featured)
	assert.True(t, s.Amenities.FeaturedConsistent())

	// Through the patch the fourth toggle is a silent no-op.
	ToggleAmenity{Group: GroupFeatured, Name: "Spa"}.Apply(&s)
	assert.Equal(t, []string{"WiFi", "Pool", "Gym"}, s.Amenities.Featured)
}

func TestAmenities_RemovingAvailableDropsFeatured(t *testing.T) {
	a := Amenities{}
	a.ToggleAvailable("WiFi")
	a.ToggleAvailable("Pool")
	require.True(t, a.ToggleFeatured("Pool"))

	a.ToggleAvailable("Pool")
	assert.Equal(t, []string{"WiFi"}, a.Available)
	assert.Empty(t, a.Featured)

	assert.False(t, a.ToggleFeatured("Sauna"), "only available amenities can be featured")
	assert.True(t, a.ToggleFeatured("WiFi"))
	assert.True(t, a.ToggleFeatured("WiFi"), "toggling a featured amenity removes it")
	assert.Empty(t, a.Featured)
}

func TestAmenities_OtherGroups(t *testing.T) {
	s := Defaults()
	ToggleAmenity{Group: GroupSafety, Name: "Smoke alarm"}.Apply(&s)
	ToggleAmenity{Group: GroupSharedSpaces, Name: "Lounge"}.Apply(&s)
	ToggleAmenity{Group: GroupSafety, Name: "Smoke alarm"}.Apply(&s)

	assert.Empty(t, s.Amenities.Safety)
	assert.Equal(t, []string{"Lounge"}, s.Amenities.SharedSpaces)
}

// ==========================
// Patch Tests
// ==========================

func TestLocationPatch_ShallowMergeAndPostalFormatting(t *testing.T) {
	s := Defaults()
	LocationPatch{Street: str("1 Main St"), City: str("Ottawa")}.Apply(&s)
	LocationPatch{PostalCode: str("k1a0b1")}.Apply(&s)

	assert.Equal(t, "1 Main St", s.Location.Street)
	assert.Equal(t, "Ottawa", s.Location.City)
	assert.Equal(t, "K1A 0B1", s.Location.PostalCode)
	assert.Empty(t, s.Location.Province)
}

func TestPhotoPatches(t *testing.T) {
	s := Defaults()
	var photos []*models.Attachment
	for i := 0; i < maxPhotos+1; i++ {
		a, msg := models.PropertyPhotoPolicy.Accept(png("p.png"))
		require.Empty(t, msg)
		photos = append(photos, a)
		AddPhoto{Photo: a}.Apply(&s)
	}
	assert.Len(t, s.Details.Photos, maxPhotos)
	assert.False(t, photos[maxPhotos].Attached(), "photo past the limit is released")

	RemovePhoto{Index: 0}.Apply(&s)
	assert.Len(t, s.Details.Photos, maxPhotos-1)
	assert.False(t, photos[0].Attached())
	assert.Same(t, photos[1], s.Details.Photos[0])

	RemovePhoto{Index: 99}.Apply(&s)
	assert.Len(t, s.Details.Photos, maxPhotos-1)
}

func TestDecodePatch(t *testing.T) {
	tests := []struct {
		name    string
		section string
		body    string
		wantErr bool
		check   func(t *testing.T, p wizard.Patch[State])
	}{
		{
			name:    "location",
			section: "location",
			body:    `{"city":"Halifax"}`,
			check: func(t *testing.T, p wizard.Patch[State]) {
				assert.Equal(t, []string{"location.city"}, p.Fields())
			},
		},
		{name: "unknown field", section: "location", body: `{"planet":"Mars"}`, wantErr: true},
		{name: "unknown section", section: "spaceship", body: `{}`, wantErr: true},
		{name: "empty body", section: "propertyBasics", body: ``, wantErr: true},
		{name: "update room without id", section: "rooms.update", body: `{"name":"x"}`, wantErr: true},
		{name: "bad amenity group", section: "amenities.toggle", body: `{"group":"vip","name":"x"}`, wantErr: true},
		{name: "bad image slot", section: "rooms.removeImage", body: `{"id":"r","slot":3}`, wantErr: true},
		{
			name:    "add room",
			section: "rooms.add",
			check: func(t *testing.T, p wizard.Patch[State]) {
				add, ok := p.(AddRoom)
				require.True(t, ok)
				assert.NotEmpty(t, add.ID)
			},
		},
		{
			name:    "policies",
			section: "amenities.policies",
			body:    `{"checkInTime":"14:00","rules":"No parties"}`,
			check: func(t *testing.T, p wizard.Patch[State]) {
				s := Defaults()
				p.Apply(&s)
				assert.Equal(t, "14:00", s.Amenities.CheckInTime)
				assert.Equal(t, "11:00", s.Amenities.CheckOutTime)
				assert.Equal(t, "No parties", s.Amenities.Rules)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePatch(tt.section, []byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				stdErr, ok := apperrors.As(err)
				require.True(t, ok)
				assert.Equal(t, apperrors.ErrCodeInvalidPatch, stdErr.Code)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

// ==========================
// Gate Tests
// ==========================

func TestDetailsGate(t *testing.T) {
	s, _ := newSession(t, &Publisher{})
	fillDetails(t, s)
	assert.True(t, s.CanProceed())

	tests := []struct {
		name  string
		patch wizard.Patch[State]
	}{
		{name: "short street", patch: LocationPatch{Street: str("1 A")}},
		{name: "bad postal", patch: LocationPatch{PostalCode: str("123456")}},
		{name: "foreign map link", patch: LocationPatch{MapLink: str("https://example.com/map")}},
		{name: "unknown province", patch: LocationPatch{Province: str("ZZ")}},
		{name: "no name", patch: BasicsPatch{PropertyName: str("  ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := s.Sections()
			tt.patch.Apply(&st)
			assert.False(t, DetailsComplete(st))
		})
	}

	st := s.Sections()
	LocationPatch{PostalCode: str(""), MapLink: str("")}.Apply(&st)
	assert.True(t, DetailsComplete(st), "postal code and map link are optional")
}

func TestRoomsAndAmenitiesGates(t *testing.T) {
	s := Defaults()
	assert.False(t, RoomsComplete(s))

	add := NewAddRoom()
	add.Apply(&s)
	assert.False(t, RoomsComplete(s), "a blank room is not valid")

	name, typ, count, price := "Twin", "twin", 2, 89.5
	UpdateRoom{ID: add.ID, Name: &name, Type: &typ, Count: &count, Price: &price}.Apply(&s)
	assert.True(t, RoomsComplete(s))

	assert.False(t, AmenitiesComplete(s))
	ToggleAmenity{Group: GroupAvailable, Name: "WiFi"}.Apply(&s)
	assert.True(t, AmenitiesComplete(s))

	PoliciesPatch{CheckInTime: str("3pm")}.Apply(&s)
	assert.False(t, AmenitiesComplete(s))
}

func TestSession_RoomFieldErrors(t *testing.T) {
	s, _ := newSession(t, &Publisher{})
	fillDetails(t, s)
	require.True(t, s.Next(context.Background()))

	id := addValidRoom(s)
	count := 1000
	s.Update(UpdateRoom{ID: id, Count: &count})
	assert.Equal(t, "Room count cannot exceed 999", s.Blur("rooms."+id+".count"))
	assert.False(t, s.CanProceed())

	count = 999
	s.Update(UpdateRoom{ID: id, Count: &count})
	assert.False(t, s.Errors().Has("rooms."+id+".count"))
	assert.True(t, s.CanProceed())
}

// ==========================
// Draft Tests
// ==========================

func TestDraft_RoundTripStripsAttachments(t *testing.T) {
	s, _ := newSession(t, &Publisher{})
	ctx := context.Background()
	roomID := completeListing(t, s)
	before := s.Sections()
	require.NoError(t, s.Save(ctx))

	s.Cancel(ctx)
	require.True(t, s.Resume(ctx))

	after := s.Sections()
	assert.Equal(t, PositionAmenities, s.Position())
	assert.Equal(t, before.Basics, after.Basics)
	assert.Equal(t, before.Location, after.Location)
	assert.Equal(t, before.Amenities, after.Amenities)
	assert.Equal(t, before.Owner, after.Owner)
	assert.Empty(t, after.Details.Photos)
	require.Len(t, after.Rooms, 1)
	assert.Equal(t, roomID, after.Rooms[0].ID)
	assert.Equal(t, before.Rooms[0].Price, after.Rooms[0].Price)
	assert.Nil(t, after.Rooms[0].Image1)

	// The details gate needs a photo again.
	assert.False(t, DetailsComplete(after))
}

func TestStripAttachments_DoesNotTouchLiveState(t *testing.T) {
	s := Defaults()
	photo, _ := models.PropertyPhotoPolicy.Accept(png("p.png"))
	AddPhoto{Photo: photo}.Apply(&s)
	add := NewAddRoom()
	add.Apply(&s)
	img, _ := models.RoomPhotoPolicy.Accept(png("r.png"))
	SetRoomImage{ID: add.ID, Slot: 1, Image: img}.Apply(&s)

	stripped := StripAttachments(s)
	assert.Empty(t, stripped.Details.Photos)
	assert.Nil(t, stripped.Rooms[0].Image1)
	assert.Same(t, photo, s.Details.Photos[0])
	assert.Same(t, img, s.Rooms[0].Image1)
}

// ==========================
// Publish Tests
// ==========================

func TestPublish_Success(t *testing.T) {
	sink, up, note := &fakeSink{}, &fakeUploader{}, &fakeNotifier{}
	s, mr := newSession(t, NewPublisher(sink, up, note, logger.NewTestLogger(t)))
	ctx := context.Background()
	roomID := completeListing(t, s)
	require.NoError(t, s.Save(ctx))
	photo := s.Sections().Details.Photos[0]

	require.True(t, s.Submit(ctx))

	require.Len(t, sink.requests, 1)
	req := sink.requests[0]
	assert.Equal(t, FlowName, req.Flow)
	assert.Equal(t, "owner-1", req.UserID)
	payload, ok := req.Payload.(*Payload)
	require.True(t, ok)
	assert.Equal(t, "Lakeview Inn", payload.Property.Name)
	assert.Equal(t, "M5V 3L9", payload.Property.PostalCode)
	require.Len(t, payload.Property.Photos, 1)
	assert.Equal(t, "s3://bucket/photos/0/front.png", payload.Property.Photos[0].URL)
	require.Len(t, payload.Rooms, 1)
	assert.Equal(t, "s3://bucket/rooms/"+roomID+"/image1/room.png", payload.Rooms[0].Images[0].URL)
	assert.Equal(t, []string{"Pool"}, payload.Amenities.Featured)
	assert.Equal(t, "Jane Doe", payload.Owner.Name)

	require.Len(t, note.notes, 1)
	assert.Equal(t, "owner@example.com", note.notes[0].Email)
	assert.Equal(t, req.SubmissionID, note.notes[0].SubmissionID)

	assert.False(t, mr.Exists("wizard:draft:listing:owner-1"))
	assert.Equal(t, PositionDetails, s.Position())
	assert.Empty(t, s.Sections().Rooms)
	assert.False(t, photo.Attached())
}

func TestPublish_NotificationFailureDoesNotFailSubmission(t *testing.T) {
	note := &fakeNotifier{err: errors.New("ses down")}
	s, _ := newSession(t, NewPublisher(&fakeSink{}, &fakeUploader{}, note, logger.NewNoOpLogger()))
	completeListing(t, s)

	assert.True(t, s.Submit(context.Background()))
	assert.Len(t, note.notes, 1)
}

func TestPublish_FailureLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		sink     *fakeSink
		uploader *fakeUploader
		wantMsg  string
	}{
		{
			name:     "endpoint rejects",
			sink:     &fakeSink{err: apperrors.NewSubmissionRejectedError(FlowName, 422, `{"error":"duplicate"}`)},
			uploader: &fakeUploader{},
			wantMsg:  "Submission was rejected. Please review your details and try again.",
		},
		{
			name:     "network failure",
			sink:     &fakeSink{err: apperrors.NewSubmissionFailedError(FlowName, errors.New("connection reset"))},
			uploader: &fakeUploader{},
			wantMsg:  "Submission failed. Please try again.",
		},
		{
			name:     "upload failure",
			sink:     &fakeSink{},
			uploader: &fakeUploader{err: apperrors.NewUploadFailedError("photos/0", errors.New("AccessDenied"))},
			wantMsg:  "Attachment upload failed. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := &fakeNotifier{}
			s, mr := newSession(t, NewPublisher(tt.sink, tt.uploader, note, logger.NewNoOpLogger()))
			ctx := context.Background()
			completeListing(t, s)
			require.NoError(t, s.Save(ctx))
			before := s.Sections()

			assert.False(t, s.Submit(ctx))
			assert.Equal(t, PositionAmenities, s.Position())
			assert.Equal(t, before, s.Sections())
			assert.True(t, s.Sections().Details.Photos[0].Attached())
			assert.Equal(t, tt.wantMsg, s.SubmitError())
			assert.True(t, mr.Exists("wizard:draft:listing:owner-1"))
			assert.Empty(t, note.notes)
		})
	}
}

func TestPublish_RequiresEveryEarlierGate(t *testing.T) {
	t.Run("rooms removed at the terminal screen", func(t *testing.T) {
		sink := &fakeSink{}
		s, _ := newSession(t, NewPublisher(sink, &fakeUploader{}, &fakeNotifier{}, logger.NewNoOpLogger()))
		ctx := context.Background()
		roomID := completeListing(t, s)

		s.Update(RemoveRoom{ID: roomID})
		assert.False(t, s.CanProceed())
		assert.False(t, s.Submit(ctx))
		assert.Empty(t, sink.requests)
		assert.Equal(t, PositionAmenities, s.Position())
		assert.Equal(t, "Please complete all required fields before submitting", s.SubmitError())
	})

	t.Run("resumed draft needs photos again", func(t *testing.T) {
		sink := &fakeSink{}
		s, _ := newSession(t, NewPublisher(sink, &fakeUploader{}, &fakeNotifier{}, logger.NewNoOpLogger()))
		ctx := context.Background()
		completeListing(t, s)
		require.NoError(t, s.Save(ctx))
		s.Cancel(ctx)
		require.True(t, s.Resume(ctx))
		require.Equal(t, PositionAmenities, s.Position())

		assert.False(t, s.Submit(ctx))
		assert.Empty(t, sink.requests)

		msg, err := s.Attach(ctx, "details.photos", png("front.png"))
		require.NoError(t, err)
		require.Empty(t, msg)
		assert.True(t, s.Submit(ctx))
		require.Len(t, sink.requests, 1)
		payload := sink.requests[0].Payload.(*Payload)
		assert.Len(t, payload.Property.Photos, 1)
	})
}

func TestAttach_PhotoLimit(t *testing.T) {
	s, _ := newSession(t, &Publisher{})
	ctx := context.Background()
	for i := 0; i < maxPhotos; i++ {
		msg, err := s.Attach(ctx, "details.photos", png("p.png"))
		require.NoError(t, err)
		require.Empty(t, msg)
	}

	msg, err := s.Attach(ctx, "details.photos", png("extra.png"))
	require.NoError(t, err)
	assert.Equal(t, "You can upload up to 10 photos", msg)
	assert.Equal(t, "You can upload up to 10 photos", s.Errors().Get("details.photos"))
	assert.Len(t, s.Sections().Details.Photos, maxPhotos)

	s.Update(RemovePhoto{Index: 0})
	msg, err = s.Attach(ctx, "details.photos", png("extra.png"))
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.False(t, s.Errors().Has("details.photos"))
	assert.Len(t, s.Sections().Details.Photos, maxPhotos)
}
