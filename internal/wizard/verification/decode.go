// internal/wizard/verification/decode.go
package verification

import (
	"bytes"
	"encoding/json"

	apperrors "listing-wizard/internal/common/errors"
	"listing-wizard/internal/wizard"
)

// DecodePatch turns an API section update into a typed patch.
func DecodePatch(section string, raw []byte) (wizard.Patch[State], error) {
	switch section {
	case "personalInfo":
		return decodeInto[PersonalInfoPatch](section, raw)
	case "personalInfo.removeGovernmentId":
		return SetGovernmentID{}, nil
	case "propertyTypeData":
		var p PropertyTypePatch
		if err := decodeStrict(section, raw, &p); err != nil {
			return nil, err
		}
		if p.PropertyType != nil && !oneOf(PropertyTypes, *p.PropertyType) {
			return nil, apperrors.NewInvalidPatchError(section, "unknown property type "+*p.PropertyType)
		}
		return p, nil
	case "propertyTypeData.removeOwnershipDocument":
		return SetOwnershipDocument{}, nil
	case "complianceData":
		return decodeInto[CompliancePatch](section, raw)
	case "propertyBasics":
		return decodeInto[BasicsPatch](section, raw)
	case "location":
		return decodeInto[LocationPatch](section, raw)
	case "details":
		return decodeInto[DetailsPatch](section, raw)
	case "details.removePhoto":
		return decodeInto[RemovePhoto](section, raw)
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
