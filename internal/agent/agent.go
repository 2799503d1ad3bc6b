// Package agent holds the registry of loaded descriptors and the
// selection, comparison, and explanation surface over policy evaluation.
package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/utcd/utcd/internal/loader"
	"github.com/utcd/utcd/internal/models"
	"github.com/utcd/utcd/internal/policy"
)

// Agent evaluates registered tool descriptors against its active policy.
// The descriptor list is append-only and not synchronized; callers that
// register from multiple goroutines need their own locking.
type Agent struct {
	policy *policy.Policy
	tools  []*models.Descriptor
}

// New creates an agent. A nil policy defaults to Standard.
func New(p *policy.Policy) *Agent {
	if p == nil {
		p = policy.Standard()
	}
	return &Agent{policy: p}
}

// Policy returns the active policy.
func (a *Agent) Policy() *policy.Policy {
	return a.policy
}

// Tools returns the registered descriptors.
func (a *Agent) Tools() []*models.Descriptor {
	return a.tools
}

// LoadTool registers one descriptor.
func (a *Agent) LoadTool(d *models.Descriptor) {
	a.tools = append(a.tools, d)
}

// LoadToolsFromDirectory registers every descriptor found under dir.
// Individual load failures are logged and skipped by the loader; the
// count of successfully registered descriptors is returned.
func (a *Agent) LoadToolsFromDirectory(ctx context.Context, dir string) (int, error) {
	descriptors, err := loader.LoadDirectory(ctx, dir)
	if err != nil {
		return 0, err
	}
	a.tools = append(a.tools, descriptors...)
	return len(descriptors), nil
}

// Evaluate one descriptor against the active policy.
func (a *Agent) Evaluate(d *models.Descriptor) *models.Decision {
	return policy.Evaluate(d, a.policy)
}

// EvaluateAll evaluates every registered descriptor.
func (a *Agent) EvaluateAll() []*models.Decision {
	return policy.EvaluateAll(a.tools, a.policy)
}

// SelectBest returns the highest-scoring non-rejected decision, optionally
// restricted to one capability domain. Rejected tools are never returned,
// even when they hold the highest raw score. Returns nil when no candidate
// survives.
func (a *Agent) SelectBest(domain string) *models.Decision {
	candidates := a.tools
	if domain != "" {
		candidates = nil
		for _, t := range a.tools {
			if t.Capability.Domain == domain {
				candidates = append(candidates, t)
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	var best *models.Decision
	for _, t := range candidates {
		decision := a.Evaluate(t)
		if decision.Classification == models.ClassificationRejected {
			continue
		}
		if best == nil || decision.Score > best.Score {
			best = decision
		}
	}
	return best
}

// Filters narrow the candidate set before evaluation. Nil slices mean
// "no constraint"; an empty non-nil MaxSideEffects allows only
// side-effect-free tools.
type Filters struct {
	Domain            string
	MaxSideEffects    []string
	RequireProfiles   []string
	RequireCompliance []string
}

// FindTools filters the registered descriptors, evaluates the survivors,
// and returns the decisions sorted by score descending. Ties are broken
// by tool name ascending so the order is stable.
func (a *Agent) FindTools(f Filters) []*models.Decision {
	var results []*models.Decision

	for _, tool := range a.tools {
		if f.Domain != "" && tool.Capability.Domain != f.Domain {
			continue
		}

		if f.MaxSideEffects != nil {
			allowed := make(map[string]bool, len(f.MaxSideEffects)+1)
			for _, e := range f.MaxSideEffects {
				allowed[e] = true
			}
			allowed[models.SideEffectNone] = true

			subset := true
			for _, e := range tool.Constraints.SideEffects {
				if !allowed[e] {
					subset = false
					break
				}
			}
			if !subset {
				continue
			}
		}

		if len(f.RequireProfiles) > 0 {
			present := tool.ProfilesPresent()
			missing := false
			for _, p := range f.RequireProfiles {
				if !present[p] {
					missing = true
					break
				}
			}
			if missing {
				continue
			}
		}

		if len(f.RequireCompliance) > 0 {
			if tool.Compliance == nil {
				continue
			}
			standards := make(map[string]bool, len(tool.Compliance.Standards))
			for _, s := range tool.Compliance.Standards {
				standards[s] = true
			}
			missing := false
			for _, s := range f.RequireCompliance {
				if !standards[s] {
					missing = true
					break
				}
			}
			if missing {
				continue
			}
		}

		results = append(results, a.Evaluate(tool))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ToolName < results[j].ToolName
	})

	return results
}

// ExplainRejection renders why a tool is rejected under the active policy.
// Only error-severity failures appear; warnings did not cause the
// rejection. Non-rejected tools get a short approval statement.
func (a *Agent) ExplainRejection(d *models.Descriptor) string {
	decision := a.Evaluate(d)

	if decision.Classification != models.ClassificationRejected {
		return fmt.Sprintf("Tool %q would be APPROVED.", d.Identity.Name)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tool %q is REJECTED for the following reasons:\n", d.Identity.Name))

	for _, r := range decision.Reasoning {
		if !r.Passed && r.Severity == models.SeverityError {
			sb.WriteString(fmt.Sprintf("  - %s: %s\n", r.RuleName, r.Message))
		}
	}

	sb.WriteString("\nTo fix, the tool must:\n")
	for _, r := range decision.Reasoning {
		if !r.Passed && r.Severity == models.SeverityError {
			sb.WriteString(fmt.Sprintf("  - Satisfy: %s\n", r.RuleName))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// CompareTools renders a score-ranked comparison of the named tools.
// Advisory only: the recommendation is purely score-based and may name a
// rejected tool; it is not the safety gate SelectBest is.
func (a *Agent) CompareTools(names ...string) string {
	var toCompare []*models.Descriptor
	for _, name := range names {
		for _, tool := range a.tools {
			if tool.Identity.Name == name {
				toCompare = append(toCompare, tool)
				break
			}
		}
	}

	if len(toCompare) < 2 {
		return "Need at least 2 tools to compare."
	}

	decisions := make([]*models.Decision, 0, len(toCompare))
	for _, t := range toCompare {
		decisions = append(decisions, a.Evaluate(t))
	}

	sorted := make([]*models.Decision, len(decisions))
	copy(sorted, decisions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	var sb strings.Builder
	sb.WriteString("Tool Comparison:\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	for _, decision := range sorted {
		mark := "+"
		if decision.Classification == models.ClassificationRejected {
			mark = "x"
		}
		d := decision.Descriptor
		sb.WriteString(fmt.Sprintf("%s %s: score %d/100\n", mark, decision.ToolName, decision.Score))
		sb.WriteString(fmt.Sprintf("   Side effects: %s\n", strings.Join(d.Constraints.SideEffects, ", ")))
		sb.WriteString(fmt.Sprintf("   Data retention: %s\n", d.Constraints.DataRetention))
		sb.WriteString(fmt.Sprintf("   Profiles: %s\n\n", profileList(d)))
	}

	best := decisions[0]
	for _, decision := range decisions[1:] {
		if decision.Score > best.Score {
			best = decision
		}
	}
	sb.WriteString(fmt.Sprintf("Recommendation: %s", best.ToolName))

	return sb.String()
}

// profileList renders profiles_present for display
func profileList(d *models.Descriptor) string {
	present := d.ProfilesPresent()
	if len(present) == 0 {
		return "none"
	}
	names := make([]string, 0, len(present))
	for name := range present {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
