package crypto

import (
	"encoding/json"
	"fmt"
	"sort"
)

// CanonicalizeDocument produces the byte message a descriptor signature
// covers: compact JSON with sorted keys, with the security block removed
// so a signature cannot cover itself (shadow capability protection).
func CanonicalizeDocument(doc map[string]any) ([]byte, error) {
	clean := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "security" {
			continue
		}
		clean[k] = v
	}
	return json.Marshal(canonicalValue(clean))
}

// canonicalValue normalizes nested containers so marshaling is deterministic
func canonicalValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return canonicalMap(val)
	case []any:
		result := make([]any, len(val))
		for i, elem := range val {
			result[i] = canonicalValue(elem)
		}
		return result
	default:
		return v
	}
}

func canonicalMap(m map[string]any) *orderedMap {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	om := &orderedMap{
		keys:   keys,
		values: make(map[string]any, len(m)),
	}
	for k, v := range m {
		om.values[k] = canonicalValue(v)
	}
	return om
}

// orderedMap marshals with its keys in sorted order
type orderedMap struct {
	keys   []string
	values map[string]any
}

func (om *orderedMap) MarshalJSON() ([]byte, error) {
	if len(om.keys) == 0 {
		return []byte("{}"), nil
	}

	result := "{"
	for i, key := range om.keys {
		if i > 0 {
			result += ","
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		valueJSON, err := json.Marshal(om.values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %q: %w", key, err)
		}
		result += string(keyJSON) + ":" + string(valueJSON)
	}
	result += "}"
	return []byte(result), nil
}
