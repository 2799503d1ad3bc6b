package policy

import (
	"github.com/utcd/utcd/internal/models"
)

// DescriptorToMap builds the CEL input for one descriptor. Optional
// profiles appear as keys only when present, so expressions can use
// has(input.privacy) to branch on absence.
func DescriptorToMap(d *models.Descriptor) map[string]any {
	input := map[string]any{
		"utcd_version": d.UTCDVersion,
		"identity": map[string]any{
			"name":    d.Identity.Name,
			"purpose": d.Identity.Purpose,
		},
		"capability": map[string]any{
			"domain":  d.Capability.Domain,
			"inputs":  stringSliceToAny(d.Capability.Inputs),
			"outputs": stringSliceToAny(d.Capability.Outputs),
		},
		"constraints": map[string]any{
			"side_effects":   stringSliceToAny(d.Constraints.SideEffects),
			"data_retention": d.Constraints.DataRetention,
		},
		"side_effect_free": d.IsSideEffectFree(),
		"retains_data":     d.RetainsData(),
		"has_signatures":   d.HasSignatures(),
	}

	profiles := make([]any, 0, 5)
	for name := range d.ProfilesPresent() {
		profiles = append(profiles, name)
	}
	input["profiles_present"] = profiles

	if d.Security != nil {
		input["security"] = map[string]any{
			"publisher":       d.Security.Publisher,
			"fingerprint":     d.Security.Fingerprint,
			"signature_count": len(d.Security.Signatures),
		}
	}

	if d.Privacy != nil {
		input["privacy"] = map[string]any{
			"data_location": stringSliceToAny(d.Privacy.DataLocation),
			"encryption":    stringSliceToAny(d.Privacy.Encryption),
			"pii_handling":  d.Privacy.PIIHandling,
			"data_deletion": d.Privacy.DataDeletion,
		}
	}

	if d.Compliance != nil {
		input["compliance"] = map[string]any{
			"standards": stringSliceToAny(d.Compliance.Standards),
		}
	}

	if d.Cost != nil {
		input["cost"] = map[string]any{
			"model":    d.Cost.Model,
			"currency": d.Cost.Currency,
		}
	}

	if d.Performance != nil {
		input["performance"] = map[string]any{
			"availability": d.Performance.Availability,
			"rate_limit":   d.Performance.RateLimit,
			"max_payload":  d.Performance.MaxPayload,
		}
	}

	return input
}

// stringSliceToAny for CEL
func stringSliceToAny(s []string) []any {
	result := make([]any, len(s))
	for i, v := range s {
		result[i] = v
	}
	return result
}
