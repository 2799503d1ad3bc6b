package policy

import (
	"strings"
	"testing"

	"github.com/utcd/utcd/internal/models"
)

const companyPolicy = `
name: company
rules:
  - name: no-network-writes
    description: Tool must not write to the network
    severity: error
    expr: "!('network-write' in input.constraints.side_effects)"
  - name: prefer-signed
    description: Signed tools are preferred
    severity: warning
    expr: "input.has_signatures"
`

func TestParseCompilesRules(t *testing.T) {
	p, err := Parse([]byte(companyPolicy))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Name != "company" {
		t.Errorf("name = %q, want company", p.Name)
	}
	if len(p.Rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(p.Rules))
	}
	if p.Rules[0].Severity != models.SeverityError {
		t.Errorf("rule 0 severity = %s, want error", p.Rules[0].Severity)
	}
	if p.Rules[1].Severity != models.SeverityWarning {
		t.Errorf("rule 1 severity = %s, want warning", p.Rules[1].Severity)
	}
}

func TestParsedPolicyEvaluates(t *testing.T) {
	p, err := Parse([]byte(companyPolicy))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	d := cleanTool("fetcher")
	decision := Evaluate(d, p)
	// no-network-writes passes, prefer-signed fails (unsigned)
	if decision.Classification != models.ClassificationWarning {
		t.Errorf("classification = %s, want WARNING", decision.Classification)
	}

	d.Constraints.SideEffects = []string{"network-write"}
	decision = Evaluate(d, p)
	if decision.Classification != models.ClassificationRejected {
		t.Errorf("classification = %s, want REJECTED", decision.Classification)
	}
}

func TestParseRejectsBadExpression(t *testing.T) {
	bad := `
name: broken
rules:
  - name: syntax-error
    description: does not compile
    expr: "input.constraints.side_effects ==="
`
	_, err := Parse([]byte(bad))
	if err == nil {
		t.Fatal("expected compile error, got nil")
	}
	if !strings.Contains(err.Error(), "syntax-error") {
		t.Errorf("error should name the failing rule: %v", err)
	}
}

func TestParseRejectsEmptyRules(t *testing.T) {
	if _, err := Parse([]byte("name: empty\nrules: []\n")); err == nil {
		t.Fatal("expected error for empty rules, got nil")
	}
}

func TestParseRejectsInvalidSeverity(t *testing.T) {
	bad := `
name: badsev
rules:
  - name: r
    severity: critical
    expr: "true"
`
	_, err := Parse([]byte(bad))
	if err == nil {
		t.Fatal("expected severity error, got nil")
	}
}

func TestCELAbsentProfileWithHas(t *testing.T) {
	doc := `
name: privacy-aware
rules:
  - name: eu-if-privacy-declared
    description: Declared privacy profiles must cover the EU
    severity: error
    expr: "!has(input.privacy) || 'EU' in input.privacy.data_location"
`
	p, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// no privacy profile: rule passes
	d := cleanTool("quiet")
	if decision := Evaluate(d, p); decision.Classification != models.ClassificationApproved {
		t.Errorf("absent profile: classification = %s, want APPROVED", decision.Classification)
	}

	// declared but non-EU: rule fails
	d.Privacy = &models.PrivacyProfile{DataLocation: []string{"US"}}
	if decision := Evaluate(d, p); decision.Classification != models.ClassificationRejected {
		t.Errorf("non-EU profile: classification = %s, want REJECTED", decision.Classification)
	}
}

func TestCELRuntimeErrorCountsAsFailed(t *testing.T) {
	// touching an absent key without has() errors at eval time;
	// the predicate stays total and reports a failure
	doc := `
name: fragile
rules:
  - name: unguarded-access
    description: reads privacy without guarding
    severity: warning
    expr: "'EU' in input.privacy.data_location"
`
	p, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	decision := Evaluate(cleanTool("noprofile"), p)
	if decision.Reasoning[0].Passed {
		t.Error("runtime error should count as a failed rule")
	}
	if decision.Classification != models.ClassificationWarning {
		t.Errorf("classification = %s, want WARNING", decision.Classification)
	}
}

func TestDescriptorToMapProfileKeys(t *testing.T) {
	d := cleanTool("mapped")
	input := DescriptorToMap(d)

	for _, key := range []string{"security", "privacy", "compliance", "cost", "performance"} {
		if _, ok := input[key]; ok {
			t.Errorf("absent profile %s should not appear in input", key)
		}
	}

	d.Privacy = &models.PrivacyProfile{DataLocation: []string{"EU"}}
	input = DescriptorToMap(d)
	if _, ok := input["privacy"]; !ok {
		t.Error("present privacy profile missing from input")
	}
	if input["side_effect_free"] != true {
		t.Error("side_effect_free should be true for a clean tool")
	}
}
