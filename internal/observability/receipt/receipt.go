// Package receipt emits stable evidence artifacts for audit: one record
// per CLI invocation describing which policy ran and what was decided.
package receipt

import (
	"context"
	"time"

	"github.com/utcd/utcd/internal/models"
	"github.com/utcd/utcd/internal/observability"
)

// SchemaVersion current
const SchemaVersion = "1.0"

// MaxErrorLength caps error strings stored in receipts.
const MaxErrorLength = 2048

// Receipt structure
type Receipt struct {
	SchemaVersion string            `json:"schema_version"`
	OpID          string            `json:"op_id"`
	TsStart       string            `json:"ts_start"`
	TsEnd         string            `json:"ts_end"`
	Command       string            `json:"command"`
	Args          []string          `json:"args"`
	Result        Result            `json:"result"`
	Policy        *PolicySummary    `json:"policy,omitempty"`
	Decisions     []DecisionSummary `json:"decisions,omitempty"`
}

// Result status
type Result struct {
	Status string `json:"status"` // "success" or "fail"
	Error  string `json:"error,omitempty"`
}

// PolicySummary detail
type PolicySummary struct {
	Name      string `json:"name"`
	RuleCount int    `json:"rule_count"`
}

// DecisionSummary is one evaluated tool
type DecisionSummary struct {
	Tool           string `json:"tool"`
	Classification string `json:"classification"`
	Score          int    `json:"score"`
	FailedRules    []string `json:"failed_rules,omitempty"`
}

// Session tracks one command execution
type Session struct {
	ctx     context.Context
	start   time.Time
	command string
	args    []string
}

// Start session
func Start(ctx context.Context, cmd string, args []string) *Session {
	return &Session{
		ctx:     ctx,
		start:   time.Now(),
		command: cmd,
		args:    args,
	}
}

// Option configures the receipt before it is written
type Option func(*Receipt)

// WithPolicy option
func WithPolicy(name string, ruleCount int) Option {
	return func(r *Receipt) {
		r.Policy = &PolicySummary{Name: name, RuleCount: ruleCount}
	}
}

// WithDecisions option
func WithDecisions(decisions ...*models.Decision) Option {
	return func(r *Receipt) {
		for _, d := range decisions {
			if d == nil {
				continue
			}
			summary := DecisionSummary{
				Tool:           d.ToolName,
				Classification: string(d.Classification),
				Score:          d.Score,
			}
			for _, rr := range d.Reasoning {
				if !rr.Passed {
					summary.FailedRules = append(summary.FailedRules, rr.RuleName)
				}
			}
			r.Decisions = append(r.Decisions, summary)
		}
	}
}

// Finish builds the receipt and writes it via the context writer, if any.
func (s *Session) Finish(err error, opts ...Option) error {
	w := From(s.ctx)
	if w == nil {
		return nil // receipts disabled
	}

	r := Receipt{
		SchemaVersion: SchemaVersion,
		OpID:          observability.OpID(s.ctx),
		TsStart:       s.start.Format(time.RFC3339Nano),
		TsEnd:         time.Now().Format(time.RFC3339Nano),
		Command:       s.command,
		Args:          s.args,
	}

	if err != nil {
		r.Result = Result{Status: "fail", Error: truncateError(err.Error())}
	} else {
		r.Result = Result{Status: "success"}
	}

	for _, opt := range opts {
		opt(&r)
	}

	return w.Write(r)
}

// truncateError helper
func truncateError(s string) string {
	if len(s) <= MaxErrorLength {
		return s
	}
	return s[:MaxErrorLength-3] + "..."
}
