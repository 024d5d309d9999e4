package failsafe_test

import (
	"failsafe/internal/xmltree"
)

type variable struct {
	formal    string
	connected bool
}

// blockNode builds a block element shaped like parsed PLCopen XML. A single
// variable is stored as a lone mapping, several as a sequence.
func blockNode(typeName, instanceName string, vars ...variable) xmltree.Node {
	var attrs []xmltree.Entry
	if typeName != "" {
		attrs = append(attrs, xmltree.E("typeName", xmltree.Scalar(typeName)))
	}
	if instanceName != "" {
		attrs = append(attrs, xmltree.E("instanceName", xmltree.Scalar(instanceName)))
	}
	entries := []xmltree.Entry{xmltree.E(xmltree.AttrKey, xmltree.Mapping(attrs...))}

	var nodes []xmltree.Node
	for _, v := range vars {
		nodes = append(nodes, variableNode(v))
	}
	switch len(nodes) {
	case 0:
	case 1:
		entries = append(entries, xmltree.E("inputVariables", xmltree.Mapping(xmltree.E("variable", nodes[0]))))
	default:
		entries = append(entries, xmltree.E("inputVariables", xmltree.Mapping(xmltree.E("variable", xmltree.Sequence(nodes...)))))
	}
	return xmltree.Mapping(entries...)
}

func variableNode(v variable) xmltree.Node {
	entries := []xmltree.Entry{
		xmltree.E(xmltree.AttrKey, xmltree.Mapping(xmltree.E("formalParameter", xmltree.Scalar(v.formal)))),
	}
	if v.connected {
		entries = append(entries, xmltree.E("connectionPointIn", xmltree.Mapping(
			xmltree.E("connection", xmltree.Mapping(
				xmltree.E(xmltree.AttrKey, xmltree.Mapping(xmltree.E("refLocalId", xmltree.Scalar("3")))),
			)),
		)))
	}
	return xmltree.Mapping(entries...)
}

// wrap nests n under depth neutral mapping layers.
func wrap(n xmltree.Node, depth int) xmltree.Node {
	for i := 0; i < depth; i++ {
		n = xmltree.Mapping(xmltree.E("layer", n))
	}
	return n
}
