package rules

import "github.com/bokk3/dating-app/internal/domain/enums"

// AcceptedGenders expands a preference into the genders it admits. Unknown
// preferences fall back to both binary genders.
func AcceptedGenders(p enums.Preference) []enums.Gender {
	switch p {
	case enums.PreferenceMale:
		return []enums.Gender{enums.GenderMale}
	case enums.PreferenceFemale:
		return []enums.Gender{enums.GenderFemale}
	default:
		return []enums.Gender{enums.GenderMale, enums.GenderFemale}
	}
}

// AcceptedPreferences lists the candidate preferences that admit a viewer of
// the given gender.
func AcceptedPreferences(g enums.Gender) []enums.Preference {
	switch g {
	case enums.GenderMale:
		return []enums.Preference{enums.PreferenceBoth, enums.PreferenceMale}
	case enums.GenderFemale:
		return []enums.Preference{enums.PreferenceBoth, enums.PreferenceFemale}
	default:
		return []enums.Preference{enums.PreferenceBoth}
	}
}

func Accepts(p enums.Preference, g enums.Gender) bool {
	for _, accepted := range AcceptedGenders(p) {
		if accepted == g {
			return true
		}
	}
	return false
}

// MutuallyCompatible is true when each side's preference admits the other's gender.
func MutuallyCompatible(viewerGender enums.Gender, viewerPref enums.Preference, candGender enums.Gender, candPref enums.Preference) bool {
	if !Accepts(viewerPref, candGender) {
		return false
	}
	for _, p := range AcceptedPreferences(viewerGender) {
		if p == candPref {
			return true
		}
	}
	return false
}
