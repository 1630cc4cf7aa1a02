// internal/wizard/verification/state.go
package verification

import "listing-wizard/internal/models"

// FlowName is the flow identifier used in draft keys, metrics and the API.
const FlowName = "verification"

const msgTooManyPhotos = "You can upload up to 10 photos"

const (
	maxPhotos        = 10
	minDescription   = 20
	maxDescription   = 2000
	maxPropertyName  = 100
	maxLicenseNumber = 50
)

var IDTypes = []string{"passport", "drivers_license", "provincial_id"}

var PropertyTypes = []string{"hotel", "motel", "resort", "bed_and_breakfast", "vacation_rental", "guest_house"}

// licensedTypes need a municipal short-term rental licence number.
var licensedTypes = map[string]bool{
	"bed_and_breakfast": true,
	"vacation_rental":   true,
}

// State is the Owner Verification wizard. Step 1 verifies the person and
// their ownership, step 2 describes the property.
type State struct {
	Personal     PersonalInfo     `json:"personalInfo"`
	PropertyType PropertyTypeData `json:"propertyTypeData"`
	Compliance   ComplianceData   `json:"complianceData"`
	Basics       PropertyBasics   `json:"propertyBasics"`
	Location     Location         `json:"location"`
	Details      Details          `json:"details"`
}

type PersonalInfo struct {
	// UserID and Email come from the identity collaborator and have no patch.
	UserID        string             `json:"userId"`
	Email         string             `json:"email"`
	LegalFullName string             `json:"legalFullName"`
	MobileNumber  string             `json:"mobileNumber"`
	IDType        string             `json:"idType"`
	GovernmentID  *models.Attachment `json:"governmentId"`
}

type PropertyTypeData struct {
	PropertyType      string             `json:"propertyType"`
	OwnershipDocument *models.Attachment `json:"ownershipDocument"`
}

type ComplianceData struct {
	ConfirmsOwnership bool   `json:"confirmsOwnership"`
	AgreesToTerms     bool   `json:"agreesToTerms"`
	LicenseNumber     string `json:"licenseNumber"`
}

type PropertyBasics struct {
	PropertyType string `json:"propertyType"`
	PropertyName string `json:"propertyName"`
	Street       string `json:"street"`
	City         string `json:"city"`
	Province     string `json:"province"`
	PostalCode   string `json:"postalCode"`
}

type Location struct {
	MapLink string `json:"mapLink"`
}

type Details struct {
	Description string               `json:"description"`
	Photos      []*models.Attachment `json:"photos"`
}

func Defaults() State {
	return State{Details: Details{Photos: []*models.Attachment{}}}
}

// RequiresLicense reports whether the selected property type needs a
// licence number on the compliance screen.
func (s State) RequiresLicense() bool {
	return licensedTypes[s.PropertyType.PropertyType]
}

// StripAttachments returns a copy with every attachment field unattached.
func StripAttachments(s State) State {
	s.Personal.GovernmentID = nil
	s.PropertyType.OwnershipDocument = nil
	s.Details.Photos = []*models.Attachment{}
	return s
}

func ReleaseAttachments(s State) {
	s.Personal.GovernmentID.Release()
	s.PropertyType.OwnershipDocument.Release()
	for _, p := range s.Details.Photos {
		p.Release()
	}
}

func oneOf(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
