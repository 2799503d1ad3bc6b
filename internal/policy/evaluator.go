package policy

import (
	"github.com/utcd/utcd/internal/models"
)

// Score deltas. Fixed for compatibility with the descriptor format spec;
// not a calibrated risk model.
const (
	baseScore      = 100
	errorPenalty   = 50
	warningPenalty = 10
)

// Evaluate runs every rule of the policy against the descriptor in
// declaration order and returns the scored, classified decision.
func Evaluate(d *models.Descriptor, p *Policy) *models.Decision {
	reasoning := make([]models.RuleResult, 0, len(p.Rules))
	score := baseScore
	hasError := false
	hasWarning := false

	for _, rule := range p.Rules {
		passed := rule.Check(d)

		if !passed {
			if rule.Severity == models.SeverityError {
				hasError = true
				score -= errorPenalty
			} else {
				hasWarning = true
				score -= warningPenalty
			}
		}

		message := rule.Description
		if !passed {
			message = "FAILED: " + rule.Description
		}

		reasoning = append(reasoning, models.RuleResult{
			RuleName: rule.Name,
			Passed:   passed,
			Severity: rule.Severity,
			Message:  message,
		})
	}

	classification := models.ClassificationApproved
	if hasError {
		classification = models.ClassificationRejected
	} else if hasWarning {
		classification = models.ClassificationWarning
	}

	if score < 0 {
		score = 0
	}

	return &models.Decision{
		ToolName:       d.Identity.Name,
		Classification: classification,
		Score:          score,
		Reasoning:      reasoning,
		Descriptor:     d,
	}
}

// EvaluateAll evaluates each descriptor independently, in input order.
func EvaluateAll(descriptors []*models.Descriptor, p *Policy) []*models.Decision {
	decisions := make([]*models.Decision, 0, len(descriptors))
	for _, d := range descriptors {
		decisions = append(decisions, Evaluate(d, p))
	}
	return decisions
}
