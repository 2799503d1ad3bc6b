package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/utcd/utcd/internal/models"
	"gopkg.in/yaml.v3"
)

// FileConfig is a policy YAML document
type FileConfig struct {
	Name  string     `yaml:"name"`
	Rules []FileRule `yaml:"rules"`
}

// FileRule carries a CEL expression over the descriptor input
type FileRule struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Severity    string `yaml:"severity"`
	Expr        string `yaml:"expr"`
}

// newEnv builds the CEL environment shared by all file rules
func newEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("input", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// LoadFile reads a policy YAML file, compiles each rule's CEL expression,
// and returns a policy whose predicates wrap the compiled programs.
// Compile errors fail the load; a rule whose program errors at evaluation
// time counts as failed, keeping predicates total.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return Parse(data)
}

// Parse compiles a policy YAML document.
func Parse(data []byte) (*Policy, error) {
	var config FileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	if len(config.Rules) == 0 {
		return nil, fmt.Errorf("policy must have at least one rule")
	}

	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	p := &Policy{Name: config.Name}

	var compileErrors []string
	for _, fr := range config.Rules {
		severity, sevErr := parseSeverity(fr.Severity)
		if sevErr != nil {
			compileErrors = append(compileErrors, fmt.Sprintf("rule %q: %v", fr.Name, sevErr))
			continue
		}

		ast, issues := env.Compile(fr.Expr)
		if issues != nil && issues.Err() != nil {
			compileErrors = append(compileErrors, fmt.Sprintf("rule %q: %v", fr.Name, issues.Err()))
			continue
		}

		prg, prgErr := env.Program(ast)
		if prgErr != nil {
			compileErrors = append(compileErrors, fmt.Sprintf("rule %q: %v", fr.Name, prgErr))
			continue
		}

		p.AddRule(Rule{
			Name:        fr.Name,
			Description: fr.Description,
			Severity:    severity,
			Check:       celPredicate(prg),
		})
	}

	if len(compileErrors) > 0 {
		return nil, fmt.Errorf("policy validation failed:\n  %s", strings.Join(compileErrors, "\n  "))
	}

	return p, nil
}

// celPredicate adapts a compiled program into a total Rule predicate.
func celPredicate(prg cel.Program) func(*models.Descriptor) bool {
	return func(d *models.Descriptor) bool {
		out, _, err := prg.Eval(map[string]any{
			"input": DescriptorToMap(d),
		})
		if err != nil {
			return false
		}
		passed, ok := out.Value().(bool)
		return ok && passed
	}
}

// parseSeverity with error default
func parseSeverity(s string) (models.Severity, error) {
	switch s {
	case "", "error":
		return models.SeverityError, nil
	case "warning", "warn":
		return models.SeverityWarning, nil
	default:
		return "", fmt.Errorf("invalid severity %q (use error or warning)", s)
	}
}
