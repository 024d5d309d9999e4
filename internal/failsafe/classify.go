package failsafe

import (
	"strings"

	"failsafe/internal/xmltree"
)

// Classifier turns blocks into observations under a set of Rules.
type Classifier struct {
	rules Rules
}

// NewClassifier returns a Classifier using r.
func NewClassifier(r Rules) *Classifier {
	return &Classifier{rules: r}
}

var defaultClassifier = NewClassifier(DefaultRules())

// Classify uses DefaultRules.
func Classify(block xmltree.Node) []Observation {
	return defaultClassifier.Classify(block)
}

// Classify emits one observation per input variable whose formal parameter
// contains the marker and which has a non-empty inbound connection. Blocks
// without both a type name and an instance name yield nothing.
func (c *Classifier) Classify(block xmltree.Node) []Observation {
	typeName := block.Attr("typeName")
	instanceName := block.Attr("instanceName")
	if typeName == "" || instanceName == "" {
		return nil
	}

	var out []Observation
	for _, v := range inputVariables(block) {
		formal := v.Attr("formalParameter")
		if !strings.Contains(formal, c.rules.Marker) || !connected(v) {
			continue
		}
		out = append(out, Observation{
			InstanceName: instanceName,
			TypeName:     typeName,
			FailSafeType: c.TypeOf(formal),
		})
	}
	return out
}

// TypeOf classifies a formal parameter name. The normal marker wins when
// both markers are present.
func (c *Classifier) TypeOf(formalParameter string) FailSafeType {
	switch {
	case strings.Contains(formalParameter, c.rules.NormalMarker):
		return Normal
	case strings.Contains(formalParameter, c.rules.ReversedMarker):
		return Reversed
	default:
		return Unknown
	}
}

// inputVariables resolves block > inputVariables > variable as zero-or-more.
func inputVariables(block xmltree.Node) []xmltree.Node {
	inputs, ok := block.Get("inputVariables")
	if !ok {
		return nil
	}
	vars, ok := inputs.Get("variable")
	if !ok {
		return nil
	}
	return vars.Items()
}

// connected reports whether variable > connectionPointIn > connection exists
// and carries content.
func connected(variable xmltree.Node) bool {
	cp, ok := variable.Get("connectionPointIn")
	if !ok {
		return false
	}
	conn, ok := cp.Get("connection")
	return ok && !conn.IsEmpty()
}
