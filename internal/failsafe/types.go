// Package failsafe extracts safety-relevant block instances from a parsed
// control-logic document, classifies their fail-safe behaviour and collapses
// repeated observations of the same instance into one record.
//
// The pipeline is pure: Locate walks the tree, Classify inspects one block,
// Resolve groups by instance name. Missing structure is never an error, it
// simply contributes nothing.
package failsafe

// FailSafeType is the fail-safe classification of an instance.
type FailSafeType string

const (
	Normal   FailSafeType = "Normal Fail Safe"
	Reversed FailSafeType = "Reversed Fail Safe"
	Unknown  FailSafeType = "Unknown"
	Complex  FailSafeType = "Complex Fail Safe"
)

// Types lists every classification in report order.
var Types = []FailSafeType{Normal, Reversed, Unknown, Complex}

// Observation is one qualifying input-variable connection on a block.
type Observation struct {
	InstanceName string       `json:"instance_name"`
	TypeName     string       `json:"type_name"`
	FailSafeType FailSafeType `json:"fail_safe_type"`
}

// Record is the resolved, one-per-instance result.
type Record struct {
	InstanceName string       `json:"instance_name"`
	TypeName     string       `json:"type_name"`
	FailSafeType FailSafeType `json:"fail_safe_type"`
}

// Rules holds the formal-parameter substrings that drive classification.
type Rules struct {
	// Marker must appear in a formal parameter for it to qualify.
	Marker string `json:"marker" yaml:"marker"`
	// NormalMarker selects Normal; checked before ReversedMarker.
	NormalMarker string `json:"normal_marker" yaml:"normal_marker"`
	// ReversedMarker selects Reversed.
	ReversedMarker string `json:"reversed_marker" yaml:"reversed_marker"`
}

// DefaultRules returns the EHS / EHSH / EHSL naming convention.
func DefaultRules() Rules {
	return Rules{Marker: "EHS", NormalMarker: "EHSH", ReversedMarker: "EHSL"}
}
