package entities

import (
	"fmt"
	"strings"
)

// Gender is the administrative gender of a patient.
type Gender int

const (
	GenderUndefined Gender = iota
	GenderMale
	GenderFemale
)

var genderNames = map[Gender]string{
	GenderMale:      "MALE",
	GenderFemale:    "FEMALE",
	GenderUndefined: "UNDEFINED",
}

func (g Gender) String() string {
	if name, ok := genderNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Gender(%d)", int(g))
}

// FHIRCode returns the FHIR administrative-gender code.
func (g Gender) FHIRCode() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unknown"
	}
}

// ParseGender accepts the upper-snake name, case-insensitively.
func ParseGender(s string) (Gender, error) {
	for g, name := range genderNames {
		if strings.EqualFold(s, name) {
			return g, nil
		}
	}
	return GenderUndefined, fmt.Errorf("unknown gender %q", s)
}

// Race of a patient. The zero value is invalid so that an unset race can be
// detected by the builder.
type Race int

const (
	RaceWhite Race = iota + 1
	RaceAfricanAmerican
	RaceNativeAfrican
	RaceAmericanIndian
	RaceAsian
	RaceOther
)

var raceNames = map[Race]string{
	RaceWhite:           "WHITE",
	RaceAfricanAmerican: "AFRICAN_AMERICAN",
	RaceNativeAfrican:   "NATIVE_AFRICAN",
	RaceAmericanIndian:  "AMERICAN_INDIAN",
	RaceAsian:           "ASIAN",
	RaceOther:           "OTHER",
}

func (r Race) String() string {
	if name, ok := raceNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Race(%d)", int(r))
}

// Valid reports whether r is one of the declared races.
func (r Race) Valid() bool {
	_, ok := raceNames[r]
	return ok
}

// ParseRace accepts the upper-snake name, case-insensitively.
func ParseRace(s string) (Race, error) {
	for r, name := range raceNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown race %q", s)
}
