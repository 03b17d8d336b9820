package enums

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// Preference is the set of genders a profile wants to be shown.
type Preference string

const (
	PreferenceMale   Preference = "male"
	PreferenceFemale Preference = "female"
	PreferenceBoth   Preference = "both"
)

func (p Preference) Valid() bool {
	switch p {
	case PreferenceMale, PreferenceFemale, PreferenceBoth:
		return true
	default:
		return false
	}
}
