// Package access decides which form types each user tier may submit.
package access

import "codeberg.org/cosmicquirks/server/internal/config"

// user tiers, in ascending order of privilege
const (
	TierUnregistered = "unregistered"
	TierRegistered   = "registered"
	TierPremium      = "premium"
)

// the form every tier can use
const DefaultForm = "fortune"

// static allow-list mapping tier to permitted form types
type Policy struct {
	forms map[string]map[string]struct{}
}

// builds a policy from the configured per-tier form lists
func NewPolicy(forms config.FormAccess) *Policy {
	p := &Policy{forms: make(map[string]map[string]struct{}, 3)}

	p.forms[TierUnregistered] = toSet(forms.Unregistered)
	p.forms[TierRegistered] = toSet(forms.Registered)
	p.forms[TierPremium] = toSet(forms.Premium)

	return p
}

// reports whether the tier may use the form type; unknown tiers are
// treated as unregistered
func (p *Policy) Allowed(formType, tier string) bool {
	allowed, ok := p.forms[tier]
	if !ok {
		allowed = p.forms[TierUnregistered]
	}

	_, ok = allowed[formType]
	return ok
}

// normalizes a stored plan type into a tier name
func TierFor(registered bool, planType string) string {
	if !registered {
		return TierUnregistered
	}

	if planType == TierPremium {
		return TierPremium
	}

	return TierRegistered
}

func toSet(forms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		set[f] = struct{}{}
	}

	return set
}
