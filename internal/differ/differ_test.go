package differ

import (
	"os"
	"path/filepath"
	"testing"
)

func baseDoc() map[string]any {
	return map[string]any{
		"utcd_version": "1.0",
		"identity":     map[string]any{"name": "tool", "purpose": "test"},
		"constraints": map[string]any{
			"side_effects":   []any{"none"},
			"data_retention": "none",
		},
		"connection": map[string]any{
			"modes": []any{map[string]any{"type": "rest", "detail": "https://example.com"}},
		},
	}
}

func TestCompareIdentical(t *testing.T) {
	result, err := Compare(baseDoc(), baseDoc())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if result.HasChanges {
		t.Errorf("identical documents should have no changes, got %v", result.Changes)
	}
	if result.HasCritical() {
		t.Error("HasCritical on empty result")
	}
}

func TestCompareSeverityClassification(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   Severity
	}{
		{
			name: "retention widened is critical",
			mutate: func(d map[string]any) {
				d["constraints"].(map[string]any)["data_retention"] = "persistent"
			},
			want: SeverityCritical,
		},
		{
			name: "side effect added is critical",
			mutate: func(d map[string]any) {
				d["constraints"].(map[string]any)["side_effects"] = []any{"none", "network"}
			},
			want: SeverityCritical,
		},
		{
			name: "security drift is critical",
			mutate: func(d map[string]any) {
				d["security"] = map[string]any{"publisher": "new-owner"}
			},
			want: SeverityCritical,
		},
		{
			name: "connection change is moderate",
			mutate: func(d map[string]any) {
				d["connection"].(map[string]any)["modes"] = []any{
					map[string]any{"type": "rest", "detail": "https://other.example.com"},
				}
			},
			want: SeverityModerate,
		},
		{
			name: "purpose reworded is info",
			mutate: func(d map[string]any) {
				d["identity"].(map[string]any)["purpose"] = "reworded"
			},
			want: SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newDoc := baseDoc()
			tt.mutate(newDoc)

			result, err := Compare(baseDoc(), newDoc)
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if !result.HasChanges {
				t.Fatal("expected changes")
			}

			found := false
			for _, c := range result.Changes {
				if c.Severity == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("no change with severity %s in %v", tt.want, result.Changes)
			}
		})
	}
}

func TestHasCritical(t *testing.T) {
	newDoc := baseDoc()
	newDoc["constraints"].(map[string]any)["data_retention"] = "session"

	result, err := Compare(baseDoc(), newDoc)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !result.HasCritical() {
		t.Error("retention change should be critical")
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.utcd.yaml")
	newPath := filepath.Join(dir, "new.utcd.yaml")

	oldDoc := `
identity: {name: t, purpose: old purpose}
constraints: {side_effects: [none], data_retention: none}
`
	newDoc := `
identity: {name: t, purpose: new purpose}
constraints: {side_effects: [none], data_retention: none}
`
	if err := os.WriteFile(oldPath, []byte(oldDoc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newPath, []byte(newDoc), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := CompareFiles(oldPath, newPath)
	if err != nil {
		t.Fatalf("CompareFiles: %v", err)
	}
	if !result.HasChanges {
		t.Fatal("expected a change")
	}
	if result.Changes[0].Path != "/identity/purpose" {
		t.Errorf("path = %q, want /identity/purpose", result.Changes[0].Path)
	}
	if result.HasCritical() {
		t.Error("purpose rewording should not be critical")
	}
}

func TestCompareFilesMissing(t *testing.T) {
	if _, err := CompareFiles("does-not-exist.yaml", "also-missing.yaml"); err == nil {
		t.Fatal("expected error for missing files")
	}
}
