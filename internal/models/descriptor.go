package models

// DataRetention enum
const (
	RetentionNone       = "none"
	RetentionSession    = "session"
	RetentionPersistent = "persistent"
)

// SideEffectNone marks a tool with no side effects
const SideEffectNone = "none"

// Identity names the tool
type Identity struct {
	Name    string `yaml:"name" json:"name"`
	Purpose string `yaml:"purpose" json:"purpose"`
}

// Capability describes what the tool does
type Capability struct {
	Domain  string   `yaml:"domain" json:"domain"`
	Inputs  []string `yaml:"inputs" json:"inputs"`
	Outputs []string `yaml:"outputs" json:"outputs"`
}

// Constraints on tool behavior
type Constraints struct {
	SideEffects   []string `yaml:"side_effects" json:"side_effects"`
	DataRetention string   `yaml:"data_retention" json:"data_retention"`
}

// ConnectionMode how the tool is reached
type ConnectionMode struct {
	Type   string `yaml:"type" json:"type"`
	Detail string `yaml:"detail" json:"detail"`
}

// Connection info
type Connection struct {
	Modes []ConnectionMode `yaml:"modes" json:"modes"`
}

// Signature entry in the security profile
type Signature struct {
	Alg       string `yaml:"alg" json:"alg"`
	PublicKey string `yaml:"public_key" json:"public_key"`
	Value     string `yaml:"signature" json:"signature"`
}

// SecurityProfile optional
type SecurityProfile struct {
	Fingerprint             string      `yaml:"fingerprint,omitempty" json:"fingerprint,omitempty"`
	Publisher               string      `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Signatures              []Signature `yaml:"signatures,omitempty" json:"signatures,omitempty"`
	AuditURL                string      `yaml:"audit_url,omitempty" json:"audit_url,omitempty"`
	VulnerabilityDisclosure string      `yaml:"vulnerability_disclosure,omitempty" json:"vulnerability_disclosure,omitempty"`
}

// PrivacyProfile optional
type PrivacyProfile struct {
	DataLocation []string `yaml:"data_location" json:"data_location"`
	Encryption   []string `yaml:"encryption" json:"encryption"`
	PIIHandling  string   `yaml:"pii_handling,omitempty" json:"pii_handling,omitempty"`
	DataDeletion string   `yaml:"data_deletion,omitempty" json:"data_deletion,omitempty"`
}

// ComplianceProfile optional
type ComplianceProfile struct {
	Standards      []string         `yaml:"standards" json:"standards"`
	Certifications []map[string]any `yaml:"certifications,omitempty" json:"certifications,omitempty"`
}

// CostEstimate for one usage pattern
type CostEstimate struct {
	Input      string `yaml:"input" json:"input"`
	Cost       string `yaml:"cost" json:"cost"`
	LatencyP50 string `yaml:"latency_p50,omitempty" json:"latency_p50,omitempty"`
	LatencyP99 string `yaml:"latency_p99,omitempty" json:"latency_p99,omitempty"`
}

// CostProfile optional
type CostProfile struct {
	Model     string         `yaml:"model,omitempty" json:"model,omitempty"`
	Currency  string         `yaml:"currency,omitempty" json:"currency,omitempty"`
	Estimates []CostEstimate `yaml:"estimates,omitempty" json:"estimates,omitempty"`
	FreeTier  map[string]any `yaml:"free_tier,omitempty" json:"free_tier,omitempty"`
}

// PerformanceProfile optional
type PerformanceProfile struct {
	Availability string `yaml:"availability,omitempty" json:"availability,omitempty"`
	RateLimit    string `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`
	MaxPayload   string `yaml:"max_payload,omitempty" json:"max_payload,omitempty"`
}

// Descriptor is the normalized representation of one tool contract.
// Optional profiles are nil when the source document omits them; the
// loader never constructs a partially-populated profile. Descriptors are
// read-only once built.
type Descriptor struct {
	UTCDVersion string      `yaml:"utcd_version" json:"utcd_version"`
	Identity    Identity    `yaml:"identity" json:"identity"`
	Capability  Capability  `yaml:"capability" json:"capability"`
	Constraints Constraints `yaml:"constraints" json:"constraints"`
	Connection  Connection  `yaml:"connection" json:"connection"`

	Security    *SecurityProfile    `yaml:"security,omitempty" json:"security,omitempty"`
	Privacy     *PrivacyProfile     `yaml:"privacy,omitempty" json:"privacy,omitempty"`
	Compliance  *ComplianceProfile  `yaml:"compliance,omitempty" json:"compliance,omitempty"`
	Cost        *CostProfile        `yaml:"cost,omitempty" json:"cost,omitempty"`
	Performance *PerformanceProfile `yaml:"performance,omitempty" json:"performance,omitempty"`

	// SourcePath is where the descriptor was loaded from, if any
	SourcePath string `yaml:"-" json:"-"`
}

// ProfilesPresent returns the names of the attached optional profiles.
func (d *Descriptor) ProfilesPresent() map[string]bool {
	profiles := make(map[string]bool)
	if d.Security != nil {
		profiles["security"] = true
	}
	if d.Privacy != nil {
		profiles["privacy"] = true
	}
	if d.Compliance != nil {
		profiles["compliance"] = true
	}
	if d.Cost != nil {
		profiles["cost"] = true
	}
	if d.Performance != nil {
		profiles["performance"] = true
	}
	return profiles
}

// IsSideEffectFree reports whether side_effects is exactly ["none"].
func (d *Descriptor) IsSideEffectFree() bool {
	return len(d.Constraints.SideEffects) == 1 && d.Constraints.SideEffects[0] == SideEffectNone
}

// RetainsData reports whether data_retention is anything but "none".
func (d *Descriptor) RetainsData() bool {
	return d.Constraints.DataRetention != RetentionNone
}

// HasSignatures reports whether a security profile with signatures is attached.
func (d *Descriptor) HasSignatures() bool {
	return d.Security != nil && len(d.Security.Signatures) > 0
}
