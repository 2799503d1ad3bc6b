package cli

import (
	"fmt"
	"strings"

	"github.com/utcd/utcd/internal/policy"
)

// defaultPolicyName when --policy is not given
const defaultPolicyName = "standard"

// loadActivePolicy resolves a --policy value: a built-in preset name, or
// a path to a CEL policy YAML file.
func loadActivePolicy(flag string) (*policy.Policy, error) {
	if flag == "" {
		flag = defaultPolicyName
	}

	if p := policy.GetPreset(flag); p != nil {
		return p, nil
	}

	if strings.HasSuffix(flag, ".yaml") || strings.HasSuffix(flag, ".yml") {
		return policy.LoadFile(flag)
	}

	return nil, fmt.Errorf("unknown policy %q (valid presets: %s, or a YAML file path)",
		flag, strings.Join(policy.ListPresetNames(), ", "))
}
