package skins

import "strings"

// decorative glyphs stripped during normalization. The star marks
// knives and gloves, the trademark sign follows StatTrak.
var decorations = strings.NewReplacer(
	"★", "",
	"™", "",
	"‎", "", // left-to-right mark, seen in copied names
)

// Normalize lower-cases the name and strips decorative glyphs so rule
// matching is insensitive to cosmetic markers.
func Normalize(name string) string {
	return strings.TrimSpace(strings.ToLower(decorations.Replace(name)))
}

// stripDecorations removes glyphs but preserves case, for extractors
// that report original-cased subnames.
func stripDecorations(name string) string {
	return strings.TrimSpace(decorations.Replace(name))
}
