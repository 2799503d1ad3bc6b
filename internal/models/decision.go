package models

import (
	"fmt"
	"strings"
)

// Classification of a decision
type Classification string

const (
	ClassificationApproved Classification = "APPROVED"
	ClassificationWarning  Classification = "WARNING"
	ClassificationRejected Classification = "REJECTED"
)

// Severity of a policy rule
type Severity string

const (
	// SeverityError rejects the tool on failure
	SeverityError Severity = "error"
	// SeverityWarning degrades the score but does not reject
	SeverityWarning Severity = "warning"
)

// RuleResult records one rule evaluation
type RuleResult struct {
	RuleName string   `json:"rule_name"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Decision is the scored, classified outcome of evaluating one descriptor
// against one policy. Value object: built once per evaluation, never mutated.
type Decision struct {
	ToolName       string         `json:"tool_name"`
	Classification Classification `json:"classification"`
	Score          int            `json:"score"`
	Reasoning      []RuleResult   `json:"reasoning"`
	Descriptor     *Descriptor    `json:"-"`
}

// Summary renders the decision for human consumption.
func (d *Decision) Summary() string {
	status := "APPROVED"
	switch d.Classification {
	case ClassificationRejected:
		status = "REJECTED"
	case ClassificationWarning:
		status = "APPROVED WITH WARNINGS"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s (score: %d/100)", status, d.ToolName, d.Score))
	for _, r := range d.Reasoning {
		mark := "pass"
		if !r.Passed {
			mark = string(r.Severity)
		}
		sb.WriteString(fmt.Sprintf("\n  [%s] %s: %s", mark, r.RuleName, r.Message))
	}
	return sb.String()
}
