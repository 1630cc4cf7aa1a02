// internal/wizard/listing/decode.go
package listing

import (
	"bytes"
	"encoding/json"

	apperrors "listing-wizard/internal/common/errors"
	"listing-wizard/internal/wizard"
)

// DecodePatch turns an API section update into a typed patch. Unknown
// sections and unknown fields are rejected.
func DecodePatch(section string, raw []byte) (wizard.Patch[State], error) {
	switch section {
	case "propertyBasics":
		return decodeInto[BasicsPatch](section, raw)
	case "location":
		return decodeInto[LocationPatch](section, raw)
	case "rooms.add":
		return NewAddRoom(), nil
	case "rooms.update":
		var p UpdateRoom
		if err := decodeStrict(section, raw, &p); err != nil {
			return nil, err
		}
		if p.ID == "" {
			return nil, apperrors.NewInvalidPatchError(section, "id is required")
		}
		return p, nil
	case "rooms.remove":
		var body struct {
			ID string `json:"id"`
		}
		if err := decodeStrict(section, raw, &body); err != nil {
			return nil, err
		}
		return RemoveRoom{ID: body.ID}, nil
	case "rooms.removeImage":
		var body struct {
			ID   string `json:"id"`
			Slot int    `json:"slot"`
		}
		if err := decodeStrict(section, raw, &body); err != nil {
			return nil, err
		}
		if body.Slot != 1 && body.Slot != 2 {
			return nil, apperrors.NewInvalidPatchError(section, "slot must be 1 or 2")
		}
		return SetRoomImage{ID: body.ID, Slot: body.Slot}, nil
	case "details.removePhoto":
		return decodeInto[RemovePhoto](section, raw)
	case "amenities.toggle":
		var p ToggleAmenity
		if err := decodeStrict(section, raw, &p); err != nil {
			return nil, err
		}
		switch p.Group {
		case GroupAvailable, GroupFeatured, GroupSafety, GroupSharedSpaces:
		default:
			return nil, apperrors.NewInvalidPatchError(section, "unknown amenity group "+string(p.Group))
		}
		return p, nil
	case "amenities.policies":
		return decodeInto[PoliciesPatch](section, raw)
	default:
		return nil, apperrors.NewInvalidPatchError(section, "unknown section")
	}
}

func decodeInto[P wizard.Patch[State]](section string, raw []byte) (wizard.Patch[State], error) {
	var p P
	if err := decodeStrict(section, raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeStrict(section string, raw []byte, v interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return apperrors.NewInvalidPatchError(section, "empty body")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.NewInvalidPatchError(section, err.Error())
	}
	return nil
}
