package harmonize

// CorrectionRule is a documented one-off data correction applied to a record
// after both label harmonizations. Rules live in a fixed, versioned list and
// report whether they fired so callers can log correction counts per rule.
type CorrectionRule struct {
	// ID is the stable identifier used in logs and audit output.
	ID string
	// Description records why the correction exists.
	Description string
	// Apply inspects a harmonized (method, outcome) pair and returns the
	// corrected pair plus whether the rule fired.
	Apply func(method, outcome string) (string, string, bool)
}

// Corrections lists every known data-correction rule in application order.
var Corrections = []CorrectionRule{
	{
		ID: "TR-2019-01",
		Description: "2019 field-log review: translocated birds moved by truck were " +
			"recorded under the transport vehicle rather than the capture method",
		Apply: func(method, outcome string) (string, string, bool) {
			if outcome == OutcomeTranslocated && method == MethodTruck {
				return MethodHand, outcome, true
			}
			return method, outcome, false
		},
	},
}

// ApplyCorrections runs every correction rule in order against a harmonized
// (method, outcome) pair. It returns the corrected pair and the IDs of the
// rules that fired. Inputs must already be canonical; raw values never match
// a rule's trigger condition.
func ApplyCorrections(method, outcome string) (string, string, []string) {
	var fired []string
	for _, rule := range Corrections {
		var hit bool
		method, outcome, hit = rule.Apply(method, outcome)
		if hit {
			fired = append(fired, rule.ID)
		}
	}
	return method, outcome, fired
}
