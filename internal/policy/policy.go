// Package policy provides the rule model, built-in governance postures,
// and the evaluation engine for tool descriptors.
package policy

import (
	"github.com/utcd/utcd/internal/models"
)

// Rule is a named, pure predicate over a descriptor. Check must be total:
// it returns a boolean for any valid descriptor, including one with every
// optional profile absent.
type Rule struct {
	Name        string
	Description string
	Severity    models.Severity
	Check       func(*models.Descriptor) bool
}

// Policy is an ordered collection of rules. Order affects only reporting
// order, never the classification.
type Policy struct {
	Name  string
	Rules []Rule
}

// AddRule appends a rule and returns the policy for chaining.
func (p *Policy) AddRule(r Rule) *Policy {
	p.Rules = append(p.Rules, r)
	return p
}

// Strict rejects tools with any side effects or any data retention.
func Strict() *Policy {
	p := &Policy{Name: "strict"}

	p.AddRule(Rule{
		Name:        "no-side-effects",
		Description: "Tool must have no side effects",
		Severity:    models.SeverityError,
		Check:       func(d *models.Descriptor) bool { return d.IsSideEffectFree() },
	})

	p.AddRule(Rule{
		Name:        "no-data-retention",
		Description: "Tool must not retain data",
		Severity:    models.SeverityError,
		Check:       func(d *models.Descriptor) bool { return !d.RetainsData() },
	})

	return p
}

// Standard warns about side effects and a missing security profile,
// rejects persistent retention.
func Standard() *Policy {
	p := &Policy{Name: "standard"}

	p.AddRule(Rule{
		Name:        "side-effects-warning",
		Description: "Prefer tools without side effects",
		Severity:    models.SeverityWarning,
		Check:       func(d *models.Descriptor) bool { return d.IsSideEffectFree() },
	})

	p.AddRule(Rule{
		Name:        "no-persistent-retention",
		Description: "Tool must not persistently retain data",
		Severity:    models.SeverityError,
		Check: func(d *models.Descriptor) bool {
			return d.Constraints.DataRetention != models.RetentionPersistent
		},
	})

	p.AddRule(Rule{
		Name:        "security-profile-recommended",
		Description: "Security profile is recommended",
		Severity:    models.SeverityWarning,
		Check:       func(d *models.Descriptor) bool { return d.Security != nil },
	})

	return p
}

// Permissive only notes side effects, never rejects.
func Permissive() *Policy {
	p := &Policy{Name: "permissive"}

	p.AddRule(Rule{
		Name:        "side-effects-info",
		Description: "Note: tool has side effects",
		Severity:    models.SeverityWarning,
		Check:       func(d *models.Descriptor) bool { return d.IsSideEffectFree() },
	})

	return p
}

// GDPR is the region-restricted compliance posture. Rules that inspect the
// privacy profile treat an absent profile as passing: the descriptor makes
// no claim, so the rule cannot fail it.
func GDPR() *Policy {
	p := &Policy{Name: "gdpr"}

	p.AddRule(Rule{
		Name:        "eu-data-location",
		Description: "Data must be processed in EU",
		Severity:    models.SeverityError,
		Check: func(d *models.Descriptor) bool {
			if d.Privacy == nil {
				return true
			}
			for _, loc := range d.Privacy.DataLocation {
				if loc == "EU" || loc == "global" {
					return true
				}
			}
			return false
		},
	})

	p.AddRule(Rule{
		Name:        "no-persistent-retention",
		Description: "Tool must not persistently retain data",
		Severity:    models.SeverityError,
		Check: func(d *models.Descriptor) bool {
			return d.Constraints.DataRetention != models.RetentionPersistent
		},
	})

	p.AddRule(Rule{
		Name:        "require-encryption",
		Description: "Tool should use encryption",
		Severity:    models.SeverityWarning,
		Check: func(d *models.Descriptor) bool {
			return d.Privacy == nil || len(d.Privacy.Encryption) > 0
		},
	})

	p.AddRule(Rule{
		Name:        "gdpr-certified",
		Description: "GDPR certification preferred",
		Severity:    models.SeverityWarning,
		Check: func(d *models.Descriptor) bool {
			if d.Compliance == nil {
				return false
			}
			for _, s := range d.Compliance.Standards {
				if s == "GDPR" {
					return true
				}
			}
			return false
		},
	})

	return p
}

// presetFactories maps preset names to constructors. Each call returns a
// fresh policy, so callers never share mutable rule lists.
var presetFactories = map[string]func() *Policy{
	"strict":     Strict,
	"standard":   Standard,
	"permissive": Permissive,
	"gdpr":       GDPR,
}

// GetPreset returns a fresh built-in policy by name, or nil if unknown.
func GetPreset(name string) *Policy {
	factory, ok := presetFactories[name]
	if !ok {
		return nil
	}
	return factory()
}

// ListPresetNames returns the available built-in policy names.
func ListPresetNames() []string {
	return []string{"strict", "standard", "permissive", "gdpr"}
}
