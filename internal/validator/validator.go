// Package validator performs structural validation of raw descriptor
// documents before they reach the policy engine.
package validator

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Issue is one validation finding
type Issue struct {
	Path     string
	Message  string
	Severity string // "error" or "warning"
}

// Result of validating one descriptor document
type Result struct {
	Valid            bool
	Errors           []Issue
	Warnings         []Issue
	ProfilesDetected []string
}

// String renders the result for terminal output.
func (r *Result) String() string {
	if r.Valid {
		profiles := "none"
		if len(r.ProfilesDetected) > 0 {
			profiles = strings.Join(r.ProfilesDetected, ", ")
		}
		return fmt.Sprintf("Valid UTCD descriptor (profiles: %s)", profiles)
	}

	lines := []string{"Invalid UTCD descriptor:"}
	for _, e := range r.Errors {
		lines = append(lines, fmt.Sprintf("  - %s: %s", e.Path, e.Message))
	}
	return strings.Join(lines, "\n")
}

var (
	requiredCoreFields        = []string{"utcd_version", "identity", "capability", "constraints", "connection"}
	requiredIdentityFields    = []string{"name", "purpose"}
	requiredCapabilityFields  = []string{"domain", "inputs", "outputs"}
	requiredConstraintsFields = []string{"side_effects", "data_retention"}

	validDataRetention = []string{"none", "session", "persistent"}
	validEncryption    = []string{"in-transit", "at-rest", "end-to-end", "none"}
	validPIIHandling   = []string{"none", "anonymized", "pseudonymized", "stored"}
	validDataDeletion  = []string{"immediate", "on-request", "scheduled", "never"}
	validCostModels    = []string{"free", "pay-per-call", "subscription", "usage-based", "enterprise"}

	profileKeys = []string{"security", "privacy", "compliance", "cost", "performance"}
)

// ValidateFile parses and validates one descriptor YAML file.
func ValidateFile(path string) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Result{Errors: []Issue{{Path: path, Message: "file not found", Severity: "error"}}}
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &Result{Errors: []Issue{{Path: path, Message: fmt.Sprintf("YAML parse error: %v", err), Severity: "error"}}}
	}

	return Validate(doc)
}

// Validate checks a raw descriptor document against the structural rules
// of the descriptor format.
func Validate(doc map[string]any) *Result {
	result := &Result{}

	result.Errors = append(result.Errors, validateCore(doc)...)

	for _, key := range profileKeys {
		if raw, ok := doc[key]; ok {
			result.ProfilesDetected = append(result.ProfilesDetected, key)
			result.Errors = append(result.Errors, validateProfile(key, raw)...)
		}
	}
	sort.Strings(result.ProfilesDetected)

	hasSecurity := false
	for _, p := range result.ProfilesDetected {
		if p == "security" {
			hasSecurity = true
		}
	}
	if !hasSecurity {
		result.Warnings = append(result.Warnings, Issue{
			Path:     "security",
			Message:  "Security profile not present (recommended for trust verification)",
			Severity: "warning",
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// validateCore checks required top-level structure
func validateCore(doc map[string]any) []Issue {
	var errs []Issue

	for _, field := range requiredCoreFields {
		if _, ok := doc[field]; !ok {
			errs = append(errs, issuef(field, "required field %q is missing", field))
		}
	}

	if v, ok := doc["utcd_version"]; ok {
		if _, isStr := v.(string); !isStr {
			errs = append(errs, issuef("utcd_version", "utcd_version must be a string"))
		}
	}

	if raw, ok := doc["identity"]; ok {
		if identity, isMap := asMap(raw); isMap {
			for _, field := range requiredIdentityFields {
				if _, present := identity[field]; !present {
					errs = append(errs, issuef("identity."+field, "required field %q is missing", "identity."+field))
				}
			}
		} else {
			errs = append(errs, issuef("identity", "identity must be an object"))
		}
	}

	if raw, ok := doc["capability"]; ok {
		if capability, isMap := asMap(raw); isMap {
			for _, field := range requiredCapabilityFields {
				if _, present := capability[field]; !present {
					errs = append(errs, issuef("capability."+field, "required field %q is missing", "capability."+field))
				}
			}
			for _, field := range []string{"inputs", "outputs"} {
				if v, present := capability[field]; present {
					if _, isList := v.([]any); !isList {
						errs = append(errs, issuef("capability."+field, "capability.%s must be an array", field))
					}
				}
			}
		} else {
			errs = append(errs, issuef("capability", "capability must be an object"))
		}
	}

	errs = append(errs, validateConstraints(doc)...)
	errs = append(errs, validateConnection(doc)...)

	return errs
}

func validateConstraints(doc map[string]any) []Issue {
	raw, ok := doc["constraints"]
	if !ok {
		return nil
	}

	constraints, isMap := asMap(raw)
	if !isMap {
		return []Issue{issuef("constraints", "constraints must be an object")}
	}

	var errs []Issue
	for _, field := range requiredConstraintsFields {
		if _, present := constraints[field]; !present {
			errs = append(errs, issuef("constraints."+field, "required field %q is missing", "constraints."+field))
		}
	}

	if v, present := constraints["side_effects"]; present {
		if list, isList := v.([]any); isList {
			if len(list) == 0 {
				errs = append(errs, issuef("constraints.side_effects", "constraints.side_effects must have at least one value"))
			}
		} else {
			errs = append(errs, issuef("constraints.side_effects", "constraints.side_effects must be an array"))
		}
	}

	if v, present := constraints["data_retention"]; present {
		if s, isStr := v.(string); !isStr || !contains(validDataRetention, s) {
			errs = append(errs, issuef("constraints.data_retention",
				"constraints.data_retention must be one of: %s", strings.Join(validDataRetention, ", ")))
		}
	}

	return errs
}

func validateConnection(doc map[string]any) []Issue {
	raw, ok := doc["connection"]
	if !ok {
		return nil
	}

	connection, isMap := asMap(raw)
	if !isMap {
		return []Issue{issuef("connection", "connection must be an object")}
	}

	modesRaw, present := connection["modes"]
	if !present {
		return []Issue{issuef("connection.modes", "required field %q is missing", "connection.modes")}
	}

	modes, isList := modesRaw.([]any)
	if !isList {
		return []Issue{issuef("connection.modes", "connection.modes must be an array")}
	}
	if len(modes) == 0 {
		return []Issue{issuef("connection.modes", "connection.modes must have at least one mode")}
	}

	var errs []Issue
	for i, modeRaw := range modes {
		mode, modeIsMap := asMap(modeRaw)
		if !modeIsMap {
			errs = append(errs, issuef(fmt.Sprintf("connection.modes[%d]", i), "each mode must be an object"))
			continue
		}
		if _, hasType := mode["type"]; !hasType {
			errs = append(errs, issuef(fmt.Sprintf("connection.modes[%d].type", i), "each mode must have a %q field", "type"))
		}
		if _, hasDetail := mode["detail"]; !hasDetail {
			errs = append(errs, issuef(fmt.Sprintf("connection.modes[%d].detail", i), "each mode must have a %q field", "detail"))
		}
	}

	return errs
}

// validateProfile checks profile-specific enums
func validateProfile(name string, raw any) []Issue {
	profile, isMap := asMap(raw)
	if !isMap {
		return []Issue{issuef(name, "%s must be an object", name)}
	}

	var errs []Issue
	switch name {
	case "privacy":
		if v, ok := profile["encryption"]; ok {
			if list, isList := v.([]any); isList {
				for _, enc := range list {
					if s, isStr := enc.(string); !isStr || !contains(validEncryption, s) {
						errs = append(errs, issuef("privacy.encryption",
							"invalid encryption value %v; must be one of: %s", enc, strings.Join(validEncryption, ", ")))
					}
				}
			}
		}
		if v, ok := profile["pii_handling"]; ok {
			if s, isStr := v.(string); !isStr || !contains(validPIIHandling, s) {
				errs = append(errs, issuef("privacy.pii_handling",
					"invalid pii_handling value; must be one of: %s", strings.Join(validPIIHandling, ", ")))
			}
		}
		if v, ok := profile["data_deletion"]; ok {
			if s, isStr := v.(string); !isStr || !contains(validDataDeletion, s) {
				errs = append(errs, issuef("privacy.data_deletion",
					"invalid data_deletion value; must be one of: %s", strings.Join(validDataDeletion, ", ")))
			}
		}
	case "cost":
		if v, ok := profile["model"]; ok {
			if s, isStr := v.(string); !isStr || !contains(validCostModels, s) {
				errs = append(errs, issuef("cost.model",
					"invalid cost model; must be one of: %s", strings.Join(validCostModels, ", ")))
			}
		}
	}

	return errs
}

// asMap handles both yaml map decodings
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func issuef(path, format string, args ...any) Issue {
	return Issue{Path: path, Message: fmt.Sprintf(format, args...), Severity: "error"}
}
