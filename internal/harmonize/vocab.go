// Package harmonize maps raw, inconsistently coded source labels onto the
// study's controlled vocabulary.
//
// Capture methods arrive as 1-2 letter codes ("bc", "MN") and outcomes as
// free-form strings that drifted across field seasons ("Relocated",
// "Release On Site", "DOA"). The lookup tables here are package-level
// immutable maps consulted by stateless functions; values that match no
// known code or synonym pass through unchanged so data-entry anomalies stay
// visible in the output instead of being silently rewritten.
package harmonize

import "strings"

// Canonical capture outcomes.
const (
	OutcomeTranslocated   = "Translocated"
	OutcomeReleasedOnSite = "Released On-Site"
	OutcomeMortality      = "Mortality"
	OutcomeTransferred    = "Transferred"
	OutcomeEscaped        = "Escaped"
)

// Canonical capture method labels in "Name (CODE)" form.
const (
	MethodBalChatri      = "Bal-Chatri (BC)"
	MethodBowNet         = "Bow Net (BN)"
	MethodDhoGaza        = "Dho-Gaza (DG)"
	MethodMistNet        = "Mist Net (MN)"
	MethodSwedishGoshawk = "Swedish Goshawk (SG)"
	MethodNetLauncher    = "Net Launcher (NL)"
	MethodPoleTrap       = "Pole Trap (PT)"
	MethodHand           = "Hand (H)"
	MethodTruck          = "Truck (T)"
)

// methodNames maps upper-cased method codes onto canonical labels. The
// canonical labels themselves are not keys, so re-harmonizing canonical
// data is a no-op.
var methodNames = map[string]string{
	"BC": MethodBalChatri,
	"BN": MethodBowNet,
	"DG": MethodDhoGaza,
	"MN": MethodMistNet,
	"SG": MethodSwedishGoshawk,
	"NL": MethodNetLauncher,
	"PT": MethodPoleTrap,
	"H":  MethodHand,
	"T":  MethodTruck,
}

// outcomeSynonyms maps lower-cased raw outcomes onto the canonical set.
// Canonical values map to themselves to keep the pass idempotent.
var outcomeSynonyms = map[string]string{
	"translocated":     OutcomeTranslocated,
	"relocated":        OutcomeTranslocated,
	"relocation":       OutcomeTranslocated,
	"translocation":    OutcomeTranslocated,
	"released on-site": OutcomeReleasedOnSite,
	"released":         OutcomeReleasedOnSite,
	"release on site":  OutcomeReleasedOnSite,
	"mortality":        OutcomeMortality,
	"dead":             OutcomeMortality,
	"died":             OutcomeMortality,
	"doa":              OutcomeMortality,
	"transferred":      OutcomeTransferred,
	"transfer":         OutcomeTransferred,
	"escaped":          OutcomeEscaped,
}

// Method maps a raw management/method code onto its canonical "Name (CODE)"
// label. Matching is case-insensitive and ignores surrounding whitespace;
// unmatched values pass through with only the whitespace trimmed.
func Method(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := methodNames[strings.ToUpper(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Outcome maps a raw capture outcome onto the canonical outcome set via the
// synonym table. Matching is case-insensitive and ignores surrounding
// whitespace; unmatched values pass through with only the whitespace trimmed.
func Outcome(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := outcomeSynonyms[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
