package policy

import (
	"testing"

	"github.com/utcd/utcd/internal/models"
)

func cleanTool(name string) *models.Descriptor {
	return &models.Descriptor{
		UTCDVersion: "1.0",
		Identity:    models.Identity{Name: name, Purpose: "test tool"},
		Capability:  models.Capability{Domain: "search", Inputs: []string{"query"}, Outputs: []string{"results"}},
		Constraints: models.Constraints{
			SideEffects:   []string{models.SideEffectNone},
			DataRetention: models.RetentionNone,
		},
	}
}

func TestEvaluateCleanToolUnderStrict(t *testing.T) {
	d := cleanTool("weather")
	decision := Evaluate(d, Strict())

	if decision.Classification != models.ClassificationApproved {
		t.Errorf("classification = %s, want APPROVED", decision.Classification)
	}
	if decision.Score != 100 {
		t.Errorf("score = %d, want 100", decision.Score)
	}
	if decision.ToolName != "weather" {
		t.Errorf("tool name = %q, want weather", decision.ToolName)
	}
	for _, r := range decision.Reasoning {
		if !r.Passed {
			t.Errorf("rule %s failed, want all passing", r.RuleName)
		}
	}
}

func TestEvaluateSideEffectsUnderStrict(t *testing.T) {
	d := cleanTool("mailer")
	d.Constraints.SideEffects = []string{"sends-email"}

	decision := Evaluate(d, Strict())
	if decision.Classification != models.ClassificationRejected {
		t.Errorf("classification = %s, want REJECTED", decision.Classification)
	}
	if decision.Score != 50 {
		t.Errorf("score = %d, want 50", decision.Score)
	}
}

func TestEvaluateSideEffectsUnderPermissive(t *testing.T) {
	d := cleanTool("mailer")
	d.Constraints.SideEffects = []string{"sends-email"}

	decision := Evaluate(d, Permissive())
	if decision.Classification != models.ClassificationWarning {
		t.Errorf("classification = %s, want WARNING", decision.Classification)
	}
	if decision.Score != 90 {
		t.Errorf("score = %d, want 90", decision.Score)
	}
}

func TestEvaluatePersistentRetentionUnderStandard(t *testing.T) {
	d := cleanTool("archiver")
	d.Constraints.DataRetention = models.RetentionPersistent

	decision := Evaluate(d, Standard())
	if decision.Classification != models.ClassificationRejected {
		t.Errorf("classification = %s, want REJECTED", decision.Classification)
	}

	// error rule failed plus the missing-security warning
	if decision.Score != 40 {
		t.Errorf("score = %d, want 40", decision.Score)
	}
}

func TestEvaluateGDPRScenarios(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.Descriptor)
		wantCls  models.Classification
		wantRule string // error rule expected to fail, if rejected
	}{
		{
			name: "eu location with gdpr standard",
			mutate: func(d *models.Descriptor) {
				d.Privacy = &models.PrivacyProfile{
					DataLocation: []string{"EU"},
					Encryption:   []string{"in-transit"},
				}
				d.Compliance = &models.ComplianceProfile{Standards: []string{"GDPR"}}
			},
			wantCls: models.ClassificationApproved,
		},
		{
			name: "us only location",
			mutate: func(d *models.Descriptor) {
				d.Privacy = &models.PrivacyProfile{
					DataLocation: []string{"US"},
					Encryption:   []string{"in-transit"},
				}
			},
			wantCls:  models.ClassificationRejected,
			wantRule: "eu-data-location",
		},
		{
			name: "global location passes",
			mutate: func(d *models.Descriptor) {
				d.Privacy = &models.PrivacyProfile{
					DataLocation: []string{"global"},
					Encryption:   []string{"end-to-end"},
				}
				d.Compliance = &models.ComplianceProfile{Standards: []string{"GDPR", "SOC2"}}
			},
			wantCls: models.ClassificationApproved,
		},
		{
			name:    "no privacy profile makes no claim",
			mutate:  func(d *models.Descriptor) {},
			wantCls: models.ClassificationWarning, // gdpr-certified warning still fails
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := cleanTool("analytics")
			tt.mutate(d)

			decision := Evaluate(d, GDPR())
			if decision.Classification != tt.wantCls {
				t.Fatalf("classification = %s, want %s", decision.Classification, tt.wantCls)
			}

			if tt.wantRule != "" {
				found := false
				for _, r := range decision.Reasoning {
					if r.RuleName == tt.wantRule && !r.Passed {
						found = true
					}
				}
				if !found {
					t.Errorf("expected rule %s to fail", tt.wantRule)
				}
			}
		})
	}
}

func TestEvaluateScoreNeverNegative(t *testing.T) {
	p := &Policy{Name: "harsh"}
	for i := 0; i < 5; i++ {
		p.AddRule(Rule{
			Name:     "always-fails",
			Severity: models.SeverityError,
			Check:    func(d *models.Descriptor) bool { return false },
		})
	}

	decision := Evaluate(cleanTool("x"), p)
	if decision.Score != 0 {
		t.Errorf("score = %d, want clamped to 0", decision.Score)
	}
	if decision.Classification != models.ClassificationRejected {
		t.Errorf("classification = %s, want REJECTED", decision.Classification)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	d := cleanTool("repeat")
	d.Constraints.SideEffects = []string{"writes-files"}
	p := Standard()

	first := Evaluate(d, p)
	second := Evaluate(d, p)

	if first.Score != second.Score || first.Classification != second.Classification {
		t.Errorf("evaluation not deterministic: %d/%s vs %d/%s",
			first.Score, first.Classification, second.Score, second.Classification)
	}
	if len(first.Reasoning) != len(second.Reasoning) {
		t.Errorf("reasoning length differs: %d vs %d", len(first.Reasoning), len(second.Reasoning))
	}
}

func TestEvaluateMessageFormat(t *testing.T) {
	d := cleanTool("msgfmt")
	d.Constraints.SideEffects = []string{"network"}

	decision := Evaluate(d, Strict())
	for _, r := range decision.Reasoning {
		if r.Passed && r.Message != ruleDescription(Strict(), r.RuleName) {
			t.Errorf("passing rule %s message = %q, want plain description", r.RuleName, r.Message)
		}
		if !r.Passed && r.Message != "FAILED: "+ruleDescription(Strict(), r.RuleName) {
			t.Errorf("failing rule %s message = %q, want FAILED prefix", r.RuleName, r.Message)
		}
	}
}

func ruleDescription(p *Policy, name string) string {
	for _, r := range p.Rules {
		if r.Name == name {
			return r.Description
		}
	}
	return ""
}

func TestEvaluateAllPreservesOrder(t *testing.T) {
	descriptors := []*models.Descriptor{
		cleanTool("alpha"),
		cleanTool("beta"),
		cleanTool("gamma"),
	}

	decisions := EvaluateAll(descriptors, Strict())
	if len(decisions) != 3 {
		t.Fatalf("got %d decisions, want 3", len(decisions))
	}
	for i, want := range []string{"alpha", "beta", "gamma"} {
		if decisions[i].ToolName != want {
			t.Errorf("decisions[%d] = %s, want %s", i, decisions[i].ToolName, want)
		}
	}
}

func TestClassificationReflectsSeverities(t *testing.T) {
	tests := []struct {
		name      string
		errorFail bool
		warnFail  bool
		want      models.Classification
	}{
		{"all pass", false, false, models.ClassificationApproved},
		{"warning only", false, true, models.ClassificationWarning},
		{"error only", true, false, models.ClassificationRejected},
		{"error and warning", true, true, models.ClassificationRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Policy{Name: "mixed"}
			p.AddRule(Rule{
				Name:     "err",
				Severity: models.SeverityError,
				Check:    func(d *models.Descriptor) bool { return !tt.errorFail },
			})
			p.AddRule(Rule{
				Name:     "warn",
				Severity: models.SeverityWarning,
				Check:    func(d *models.Descriptor) bool { return !tt.warnFail },
			})

			decision := Evaluate(cleanTool("t"), p)
			if decision.Classification != tt.want {
				t.Errorf("classification = %s, want %s", decision.Classification, tt.want)
			}
		})
	}
}
