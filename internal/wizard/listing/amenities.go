// internal/wizard/listing/amenities.go
package listing

// ToggleAvailable adds or removes an amenity. Removing it also drops it from
// the featured list.
func (a *Amenities) ToggleAvailable(name string) {
	if contains(a.Available, name) {
		a.Available = without(a.Available, name)
		a.Featured = without(a.Featured, name)
		return
	}
	a.Available = with(a.Available, name)
}

// ToggleFeatured adds or removes a featured amenity. It refuses amenities
// that are not available and a fourth addition; it never evicts.
func (a *Amenities) ToggleFeatured(name string) bool {
	if contains(a.Featured, name) {
		a.Featured = without(a.Featured, name)
		return true
	}
	if !contains(a.Available, name) || len(a.Featured) >= maxFeatured {
		return false
	}
	a.Featured = with(a.Featured, name)
	return true
}

func (a *Amenities) ToggleSafety(name string) {
	if contains(a.Safety, name) {
		a.Safety = without(a.Safety, name)
		return
	}
	a.Safety = with(a.Safety, name)
}

func (a *Amenities) ToggleSharedSpace(name string) {
	if contains(a.SharedSpaces, name) {
		a.SharedSpaces = without(a.SharedSpaces, name)
		return
	}
	a.SharedSpaces = with(a.SharedSpaces, name)
}

// FeaturedConsistent reports featured ⊆ available and the featured cap.
func (a Amenities) FeaturedConsistent() bool {
	if len(a.Featured) > maxFeatured {
		return false
	}
	for _, f := range a.Featured {
		if !contains(a.Available, f) {
			return false
		}
	}
	return true
}

// AmenityGroup selects which set a ToggleAmenity patch works on.
type AmenityGroup string

const (
	GroupAvailable    AmenityGroup = "available"
	GroupFeatured     AmenityGroup = "featured"
	GroupSafety       AmenityGroup = "safety"
	GroupSharedSpaces AmenityGroup = "sharedSpaces"
)

// ToggleAmenity flips membership of Name in one amenity group.
type ToggleAmenity struct {
	Group AmenityGroup `json:"group"`
	Name  string       `json:"name"`
}

func (p ToggleAmenity) Apply(s *State) {
	switch p.Group {
	case GroupAvailable:
		s.Amenities.ToggleAvailable(p.Name)
	case GroupFeatured:
		s.Amenities.ToggleFeatured(p.Name)
	case GroupSafety:
		s.Amenities.ToggleSafety(p.Name)
	case GroupSharedSpaces:
		s.Amenities.ToggleSharedSpace(p.Name)
	}
}

func (p ToggleAmenity) Fields() []string {
	return []string{"amenities." + string(p.Group)}
}

// PoliciesPatch edits the scalar house policies.
type PoliciesPatch struct {
	CheckInTime  *string `json:"checkInTime,omitempty"`
	CheckOutTime *string `json:"checkOutTime,omitempty"`
	Rules        *string `json:"rules,omitempty"`
}

func (p PoliciesPatch) Apply(s *State) {
	if p.CheckInTime != nil {
		s.Amenities.CheckInTime = *p.CheckInTime
	}
	if p.CheckOutTime != nil {
		s.Amenities.CheckOutTime = *p.CheckOutTime
	}
	if p.Rules != nil {
		s.Amenities.Rules = *p.Rules
	}
}

func (p PoliciesPatch) Fields() []string {
	var out []string
	if p.CheckInTime != nil {
		out = append(out, "amenities.checkInTime")
	}
	if p.CheckOutTime != nil {
		out = append(out, "amenities.checkOutTime")
	}
	if p.Rules != nil {
		out = append(out, "amenities.rules")
	}
	return out
}
