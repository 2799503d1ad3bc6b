// Package differ detects drift between two versions of a descriptor
// document, e.g. a vendored copy against an upstream refresh.
package differ

import (
	"fmt"
	"os"
	"strings"

	"github.com/wI2L/jsondiff"
	"gopkg.in/yaml.v3"
)

// Severity of one drift item
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityModerate Severity = "moderate"
	SeverityInfo     Severity = "info"
)

// Change is one detected drift item
type Change struct {
	Path     string
	Op       string
	Severity Severity
	Message  string
}

// Result of comparing two descriptor documents
type Result struct {
	HasChanges bool
	Changes    []Change
}

// HasCritical reports whether any change touches a trust-relevant field.
func (r *Result) HasCritical() bool {
	for _, c := range r.Changes {
		if c.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// CompareFiles loads two descriptor YAML files and diffs them.
func CompareFiles(oldPath, newPath string) (*Result, error) {
	oldDoc, err := loadDocument(oldPath)
	if err != nil {
		return nil, err
	}
	newDoc, err := loadDocument(newPath)
	if err != nil {
		return nil, err
	}
	return Compare(oldDoc, newDoc)
}

// Compare diffs two descriptor documents and classifies each patch
// operation by the sensitivity of the path it touches.
func Compare(oldDoc, newDoc map[string]any) (*Result, error) {
	patches, err := jsondiff.Compare(oldDoc, newDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to compare descriptors: %w", err)
	}

	result := &Result{}
	for _, op := range patches {
		change := Change{
			Path:     op.Path,
			Op:       op.Type,
			Severity: classifyPath(op.Path),
			Message:  translate(op),
		}
		result.Changes = append(result.Changes, change)
	}
	result.HasChanges = len(result.Changes) > 0

	return result, nil
}

// classifyPath: side effects, retention, and security drift can silently
// widen what a tool may do; privacy/compliance drift changes obligations.
func classifyPath(path string) Severity {
	switch {
	case strings.HasPrefix(path, "/constraints/side_effects"),
		strings.HasPrefix(path, "/constraints/data_retention"),
		strings.HasPrefix(path, "/security"):
		return SeverityCritical
	case strings.HasPrefix(path, "/privacy"),
		strings.HasPrefix(path, "/compliance"),
		strings.HasPrefix(path, "/connection"):
		return SeverityModerate
	default:
		return SeverityInfo
	}
}

// translate one patch operation to english
func translate(op jsondiff.Operation) string {
	section := topSection(op.Path)

	switch op.Type {
	case jsondiff.OperationAdd:
		return fmt.Sprintf("Added %s entry at %s.", section, op.Path)
	case jsondiff.OperationRemove:
		return fmt.Sprintf("Removed %s entry at %s.", section, op.Path)
	case jsondiff.OperationReplace:
		return fmt.Sprintf("Changed %s at %s: %v -> %v.", section, op.Path, op.OldValue, op.Value)
	default:
		return fmt.Sprintf("%s at %s.", op.Type, op.Path)
	}
}

func topSection(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "document"
	}
	return parts[0]
}

// loadDocument reads a YAML descriptor into a raw document
func loadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid descriptor YAML in %s: %w", path, err)
	}
	return doc, nil
}
