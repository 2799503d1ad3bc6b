// Package artifact checks connection-mode artifact references carried by
// descriptors. Checks are syntactic only; no registry is contacted.
package artifact

import (
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/utcd/utcd/internal/models"
)

// ConnectionModeOCI marks a connection served from a container image
const ConnectionModeOCI = "oci"

// OCIRef is the parsed form of an oci connection mode detail
type OCIRef struct {
	Reference string
	Digest    string
	Pinned    bool
}

// ParseOCIRef validates an image reference and reports whether it is
// digest-pinned. Tag references parse but are not pinned.
func ParseOCIRef(imageRef string) (*OCIRef, error) {
	ref, err := name.ParseReference(imageRef)
	if err != nil {
		return nil, fmt.Errorf("invalid image reference %q: %w", imageRef, err)
	}

	result := &OCIRef{Reference: ref.Name()}
	if digest, ok := ref.(name.Digest); ok {
		result.Digest = digest.DigestStr()
		result.Pinned = true
	}
	return result, nil
}

// CheckConnection validates every oci connection mode of a descriptor.
// Returned strings are findings for display; an unpinned but parseable
// reference is a finding, a malformed one is too.
func CheckConnection(d *models.Descriptor) []string {
	var findings []string

	for i, mode := range d.Connection.Modes {
		if !strings.EqualFold(mode.Type, ConnectionModeOCI) {
			continue
		}

		ref, err := ParseOCIRef(mode.Detail)
		if err != nil {
			findings = append(findings, fmt.Sprintf("connection.modes[%d]: %v", i, err))
			continue
		}
		if !ref.Pinned {
			findings = append(findings, fmt.Sprintf(
				"connection.modes[%d]: image %s is not digest-pinned", i, ref.Reference))
		}
	}

	return findings
}
