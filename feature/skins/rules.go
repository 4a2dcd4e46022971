package skins

import (
	"strings"

	"skinledger/core/reconcile"
)

// wearTokens maps the condition token inside parentheses to its ledger
// abbreviation.
var wearTokens = map[string]string{
	"factory new":   "fn",
	"minimal wear":  "mw",
	"field-tested":  "ft",
	"well-worn":     "ww",
	"battle-scarred": "bs",
}

// weaponAbbrev maps normalized weapon, knife, and glove names to the
// short category label written into the ledger.
var weaponAbbrev = map[string]string{
	"ak-47":         "ak47",
	"m4a4":          "m4a4",
	"m4a1-s":        "m4a1s",
	"awp":           "awp",
	"desert eagle":  "deagle",
	"glock-18":      "glock",
	"usp-s":         "usps",
	"p250":          "p250",
	"tec-9":         "tec9",
	"five-seven":    "fiveseven",
	"cz75-auto":     "cz75",
	"dual berettas": "dualberettas",
	"p2000":         "p2000",
	"r8 revolver":   "r8",
	"mac-10":        "mac10",
	"mp9":           "mp9",
	"mp7":           "mp7",
	"mp5-sd":        "mp5",
	"ump-45":        "ump45",
	"pp-bizon":      "bizon",
	"p90":           "p90",
	"famas":         "famas",
	"galil ar":      "galil",
	"sg 553":        "sg553",
	"aug":           "aug",
	"ssg 08":        "ssg08",
	"scar-20":       "scar20",
	"g3sg1":         "g3sg1",
	"nova":          "nova",
	"xm1014":        "xm1014",
	"sawed-off":     "sawedoff",
	"mag-7":         "mag7",
	"m249":          "m249",
	"negev":         "negev",
	"zeus x27":      "zeus",

	"bayonet":         "bayonet",
	"m9 bayonet":      "m9bayonet",
	"karambit":        "karambit",
	"butterfly knife": "butterfly",
	"flip knife":      "flip",
	"gut knife":       "gut",
	"huntsman knife":  "huntsman",
	"falchion knife":  "falchion",
	"bowie knife":     "bowie",
	"shadow daggers":  "daggers",
	"navaja knife":    "navaja",
	"stiletto knife":  "stiletto",
	"talon knife":     "talon",
	"ursus knife":     "ursus",
	"classic knife":   "classic",
	"paracord knife":  "paracord",
	"survival knife":  "survival",
	"nomad knife":     "nomad",
	"skeleton knife":  "skeleton",
	"kukri knife":     "kukri",

	"sport gloves":       "sportgloves",
	"driver gloves":      "drivergloves",
	"specialist gloves":  "specialistgloves",
	"moto gloves":        "motogloves",
	"hand wraps":         "handwraps",
	"bloodhound gloves":  "bloodhoundgloves",
	"hydra gloves":       "hydragloves",
	"broken fang gloves": "brokenfanggloves",
}

// agentFactions are keywords identifying the faction half of an agent
// name ("Cmdr. Mae 'Dead Cold' Jamison | SWAT").
var agentFactions = []string{
	"fbi", "swat", "sas", "seal", "ksk", "nzsf", "tacp", "frogman",
	"phoenix", "elite crew", "guerrilla", "sabre", "gendarmerie",
	"brazilian 1st battalion", "usaf", "nswc",
}

// parsedName carries both forms of an item name through a rule: Raw
// preserves case for extracted subnames, Norm is the lower-cased,
// decoration-stripped form rules match on.
type parsedName struct {
	Raw  string
	Norm string
}

// Rule is one independent predicate + extractor pair. Rules are applied
// in order, first match wins, and every extractor is total: absent
// fields come back as empty strings, never an error.
type Rule struct {
	// Name identifies the rule in tests and debug output.
	Name string
	// Match reports whether this rule applies to the name.
	Match func(n parsedName) bool
	// Extract produces the classification; only called when Match is true.
	Extract func(n parsedName) reconcile.Classification
}

// afterPipe returns the trimmed text after the first "|", or "".
func afterPipe(s string) string {
	if _, rest, ok := strings.Cut(s, "|"); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

// beforePipe returns the trimmed text before the first "|".
func beforePipe(s string) string {
	head, _, _ := strings.Cut(s, "|")
	return strings.TrimSpace(head)
}

// stripParens removes a trailing parenthesized token from s.
func stripParens(s string) string {
	if i := strings.LastIndex(s, "("); i > 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

// wearOf returns the wear abbreviation embedded in the normalized name.
func wearOf(norm string) string {
	for token, abbrev := range wearTokens {
		if strings.Contains(norm, "("+token+")") {
			return abbrev
		}
	}
	return ""
}

// stripQualityPrefix drops the StatTrak / Souvenir markers that precede
// the weapon part of a normalized name.
func stripQualityPrefix(norm string) string {
	norm = strings.TrimPrefix(norm, "souvenir ")
	norm = strings.TrimPrefix(norm, "stattrak ")
	return strings.TrimSpace(norm)
}

// suffixTrim removes the given case-insensitive suffix word from the raw
// name, used to turn "Chroma 2 Case" into "Chroma 2".
func suffixTrim(raw, suffix string) string {
	n := stripDecorations(raw)
	if len(n) >= len(suffix) && strings.EqualFold(n[len(n)-len(suffix):], suffix) {
		return strings.TrimSpace(n[:len(n)-len(suffix)])
	}
	return n
}

// defaultRules is the ordered, first-match-wins rule list. The final
// misc rule always matches, making classification total.
func defaultRules() []Rule {
	return []Rule{
		{
			Name: "sticker",
			Match: func(n parsedName) bool {
				return strings.HasPrefix(n.Norm, "sticker |") ||
					strings.HasPrefix(n.Norm, "patch |") ||
					strings.HasPrefix(n.Norm, "charm |")
			},
			Extract: func(n parsedName) reconcile.Classification {
				category, _, _ := strings.Cut(n.Norm, " ")
				return reconcile.Classification{
					Category: category,
					Subname:  afterPipe(stripDecorations(n.Raw)),
				}
			},
		},
		{
			Name:  "capsule",
			Match: func(n parsedName) bool { return strings.Contains(n.Norm, "capsule") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "capsule", Subname: suffixTrim(n.Raw, " capsule")}
			},
		},
		{
			Name: "key",
			Match: func(n parsedName) bool {
				return strings.HasSuffix(n.Norm, " key") || strings.HasPrefix(n.Norm, "key ")
			},
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "key", Subname: suffixTrim(n.Raw, " key")}
			},
		},
		{
			Name:  "case",
			Match: func(n parsedName) bool { return strings.HasSuffix(n.Norm, " case") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "case", Subname: suffixTrim(n.Raw, " case")}
			},
		},
		{
			Name:  "pin",
			Match: func(n parsedName) bool { return strings.HasSuffix(n.Norm, " pin") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "pin", Subname: suffixTrim(n.Raw, " pin")}
			},
		},
		{
			Name:  "package",
			Match: func(n parsedName) bool { return strings.Contains(n.Norm, "package") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "package", Subname: stripDecorations(n.Raw)}
			},
		},
		{
			Name: "weapon",
			Match: func(n parsedName) bool {
				return wearOf(n.Norm) != "" && strings.Contains(n.Norm, "|")
			},
			Extract: func(n parsedName) reconcile.Classification {
				weapon := stripQualityPrefix(beforePipe(n.Norm))
				category, ok := weaponAbbrev[weapon]
				if !ok {
					category = compact(weapon)
				}
				return reconcile.Classification{
					Category: category,
					Subname:  stripParens(afterPipe(stripDecorations(n.Raw))),
					Variant:  wearOf(n.Norm),
				}
			},
		},
		{
			Name:  "graffiti",
			Match: func(n parsedName) bool { return strings.HasPrefix(n.Norm, "sealed graffiti") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "graffiti", Subname: afterPipe(stripDecorations(n.Raw))}
			},
		},
		{
			Name:  "box",
			Match: func(n parsedName) bool { return strings.Contains(n.Norm, "box") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "box", Subname: stripDecorations(n.Raw)}
			},
		},
		{
			Name:  "pass",
			Match: func(n parsedName) bool { return strings.Contains(n.Norm, "pass") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "pass", Subname: stripDecorations(n.Raw)}
			},
		},
		{
			Name:  "music kit",
			Match: func(n parsedName) bool { return strings.Contains(n.Norm, "music kit") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "music kit", Subname: afterPipe(stripDecorations(n.Raw))}
			},
		},
		{
			Name:  "gift",
			Match: func(n parsedName) bool { return strings.Contains(n.Norm, "gift") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "gift", Subname: stripDecorations(n.Raw)}
			},
		},
		{
			Name:  "swap tool",
			Match: func(n parsedName) bool { return strings.Contains(n.Norm, "swap tool") },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "swap tool", Subname: stripDecorations(n.Raw)}
			},
		},
		{
			Name: "collection",
			Match: func(n parsedName) bool {
				return strings.Contains(n.Norm, "collection") && hasYearPrefix(n.Norm)
			},
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "collection", Subname: stripDecorations(n.Raw)}
			},
		},
		{
			Name: "agent",
			Match: func(n parsedName) bool {
				if !strings.Contains(n.Norm, "|") || wearOf(n.Norm) != "" {
					return false
				}
				faction := strings.TrimSpace(afterPipe(n.Norm))
				for _, f := range agentFactions {
					if strings.Contains(faction, f) {
						return true
					}
				}
				return false
			},
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "agent", Subname: beforePipe(stripDecorations(n.Raw))}
			},
		},
		{
			Name:  "misc",
			Match: func(parsedName) bool { return true },
			Extract: func(n parsedName) reconcile.Classification {
				return reconcile.Classification{Category: "misc", Subname: stripDecorations(n.Raw)}
			},
		},
	}
}

// compact strips everything but letters and digits, the fallback label
// for weapons missing from the abbreviation table.
func compact(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// hasYearPrefix reports whether the name starts with a 19xx/20xx year,
// the marker of dated historical collections.
func hasYearPrefix(norm string) bool {
	norm = strings.TrimPrefix(norm, "the ")
	if len(norm) < 4 {
		return false
	}
	if !strings.HasPrefix(norm, "19") && !strings.HasPrefix(norm, "20") {
		return false
	}
	return norm[2] >= '0' && norm[2] <= '9' && norm[3] >= '0' && norm[3] <= '9'
}
