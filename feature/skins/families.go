package skins

import "strings"

// Phases enumerates the mutually exclusive, independently priced
// sub-variants of the doppler family.
var Phases = []string{
	"Phase 1",
	"Phase 2",
	"Phase 3",
	"Phase 4",
	"Ruby",
	"Sapphire",
	"Black Pearl",
	"Emerald",
}

// IsMultiVariant reports whether the item name belongs to a family with
// several independently priced phases.
func IsMultiVariant(name string) bool {
	return strings.Contains(Normalize(name), "doppler")
}

// PhaseFromName extracts an embedded phase marker from the item name,
// returning "" when the name does not carry one. Most detail providers
// report the phase separately; this only covers names that spell it out.
func PhaseFromName(name string) string {
	norm := Normalize(name)
	for _, phase := range Phases {
		if strings.Contains(norm, strings.ToLower(phase)) {
			return phase
		}
	}
	return ""
}

// ValidPhase reports whether phase is one of the known phase labels.
func ValidPhase(phase string) bool {
	for _, p := range Phases {
		if p == phase {
			return true
		}
	}
	return false
}
