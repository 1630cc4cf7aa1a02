// internal/common/validation/fields.go
package validation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Formatters normalize raw input on every keystroke and are idempotent.
// Validators never modify their input and return "" or a stable message.

const (
	postalCodeLength = 6
	phoneDigits      = 11
	maxNameLength    = 100
	minStreetLength  = 5
)

var (
	postalCodeRegex    = regexp.MustCompile(`^[ABCEGHJ-NPRSTVXY]\d[ABCEGHJ-NPRSTV-Z] \d[ABCEGHJ-NPRSTV-Z]\d$`)
	leadingNumberRegex = regexp.MustCompile(`^\d+[A-Za-z]?(-\d+)?\s+\S`)
	timeRegex          = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// mapHosts lists accepted map link hosts; a non-empty path prefix is required
// for hosts that serve more than maps.
var mapHosts = map[string]string{
	"maps.google.com":       "",
	"maps.app.goo.gl":       "",
	"www.google.com":        "/maps",
	"google.com":            "/maps",
	"goo.gl":                "/maps",
	"www.openstreetmap.org": "",
}

// FormatPostalCode uppercases, drops anything but letters and digits, keeps at
// most six characters and inserts the space after the forward sortation area.
func FormatPostalCode(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == postalCodeLength {
				break
			}
		}
	}
	s := b.String()
	if len(s) > 3 {
		return s[:3] + " " + s[3:]
	}
	return s
}

// ValidatePostalCode accepts an empty value; presence is the gate's concern.
func ValidatePostalCode(v string) string {
	if v == "" {
		return ""
	}
	if !postalCodeRegex.MatchString(v) {
		return "Please enter a valid postal code (e.g., A1A 1A1)"
	}
	return ""
}

// PhoneDigits strips everything but digits.
func PhoneDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone groups up to eleven digits as "+1 416-555-0123".
func FormatPhone(raw string) string {
	d := PhoneDigits(raw)
	if len(d) > phoneDigits {
		d = d[:phoneDigits]
	}
	if d == "" {
		return ""
	}

	out := "+" + d[:1]
	rest := d[1:]
	switch {
	case len(rest) == 0:
	case len(rest) <= 3:
		out += " " + rest
	case len(rest) <= 6:
		out += " " + rest[:3] + "-" + rest[3:]
	default:
		out += " " + rest[:3] + "-" + rest[3:6] + "-" + rest[6:]
	}
	return out
}

// HasPhoneDigits reports whether v carries exactly the eleven digits a
// mobile number needs.
func HasPhoneDigits(v string) bool {
	return len(PhoneDigits(v)) == phoneDigits
}

func ValidateMobileNumber(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Mobile number is required"
	}
	if !HasPhoneDigits(v) {
		return "Mobile number must be 11 digits"
	}
	return ""
}

// FormatName keeps letters, spaces, hyphens, apostrophes and periods,
// drops leading spaces, collapses runs of spaces and caps the length.
func FormatName(raw string) string {
	var b strings.Builder
	n := 0
	prevSpace := true
	for _, r := range raw {
		if n == maxNameLength {
			break
		}
		switch {
		case unicode.IsLetter(r), r == '-', r == '\'', r == '.':
			prevSpace = false
		case unicode.IsSpace(r):
			if prevSpace {
				continue
			}
			r = ' '
			prevSpace = true
		default:
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func ValidateLegalName(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Legal full name is required"
	}
	letters := 0
	for _, r := range v {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 2 {
		return "Please enter your full legal name"
	}
	return ""
}

// StreetLongEnough is the gate form of ValidateStreetAddress.
func StreetLongEnough(v string) bool {
	return len([]rune(strings.TrimSpace(v))) >= minStreetLength
}

// ValidateStreetAddress also applies the leading building number heuristic,
// which the proceed-gate does not require.
func ValidateStreetAddress(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Street address is required"
	}
	if !StreetLongEnough(v) {
		return "Street address must be at least 5 characters"
	}
	if !leadingNumberRegex.MatchString(v) {
		return "Street address should start with a building number (e.g., 123 Main St)"
	}
	return ""
}

// ValidateMapLink accepts an empty value.
func ValidateMapLink(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if err := ozzo.Validate(v, is.URL); err != nil {
		return "Please enter a valid URL"
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return "Please enter a valid URL"
	}
	prefix, ok := mapHosts[strings.ToLower(u.Hostname())]
	if !ok || !strings.HasPrefix(u.Path, prefix) {
		return "Please enter a Google Maps or OpenStreetMap link"
	}
	return ""
}

// ValidateTime checks a 24h "HH:MM" value.
func ValidateTime(v, label string) string {
	if v == "" {
		return label + " is required"
	}
	if !timeRegex.MatchString(v) {
		return label + " must be a time like 15:00"
	}
	return ""
}

func Required(v, label string) string {
	if strings.TrimSpace(v) == "" {
		return label + " is required"
	}
	return ""
}

func MaxLength(v string, max int, label string) string {
	if len([]rune(v)) > max {
		return label + " must be at most " + strconv.Itoa(max) + " characters"
	}
	return ""
}

// Provinces are the accepted province and territory codes.
var Provinces = []string{"AB", "BC", "MB", "NB", "NL", "NS", "NT", "NU", "ON", "PE", "QC", "SK", "YT"}

func IsProvince(v string) bool {
	for _, p := range Provinces {
		if p == v {
			return true
		}
	}
	return false
}

func ValidateProvince(v string) string {
	if v == "" {
		return "Province is required"
	}
	if !IsProvince(v) {
		return "Please select a valid province"
	}
	return ""
}

// TextLength counts runes after trimming surrounding whitespace.
func TextLength(v string) int {
	return len([]rune(strings.TrimSpace(v)))
}
