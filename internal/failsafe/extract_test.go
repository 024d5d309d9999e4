package failsafe_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"failsafe/internal/failsafe"
	"failsafe/internal/xmltree"
)

func document(blocks ...xmltree.Node) xmltree.Node {
	var b xmltree.Node
	if len(blocks) == 1 {
		b = blocks[0]
	} else {
		b = xmltree.Sequence(blocks...)
	}
	return xmltree.Mapping(xmltree.E("project", xmltree.Mapping(
		xmltree.E("types", xmltree.Mapping(xmltree.E("pous", xmltree.Mapping(xmltree.E("pou", xmltree.Mapping(
			xmltree.E("body", xmltree.Mapping(xmltree.E("FBD", xmltree.Mapping(xmltree.E("block", b))))),
		)))))),
	)))
}

func TestExtract_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		tree xmltree.Node
		want []failsafe.Record
	}{
		{
			name: "single normal",
			tree: document(blockNode("Valve", "V1", variable{"IN_EHSH_A", true})),
			want: []failsafe.Record{{InstanceName: "V1", TypeName: "Valve", FailSafeType: failsafe.Normal}},
		},
		{
			name: "complex",
			tree: document(blockNode("Valve", "V1", variable{"IN_EHSH_A", true}, variable{"IN_EHSL_B", true})),
			want: []failsafe.Record{{InstanceName: "V1", TypeName: "Valve", FailSafeType: failsafe.Complex}},
		},
		{
			name: "same instance across blocks",
			tree: document(
				blockNode("Valve", "V1", variable{"IN_EHSH_A", true}),
				blockNode("Valve", "V2", variable{"IN_EHSL_A", true}),
				blockNode("Valve", "V1", variable{"IN_EHSH_B", true}),
			),
			want: []failsafe.Record{
				{InstanceName: "V1", TypeName: "Valve", FailSafeType: failsafe.Complex},
				{InstanceName: "V2", TypeName: "Valve", FailSafeType: failsafe.Reversed},
			},
		},
		{
			name: "no blocks",
			tree: xmltree.Mapping(xmltree.E("project", xmltree.Mapping(xmltree.E("x", xmltree.Scalar("y"))))),
			want: []failsafe.Record{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := failsafe.Extract(tc.tree)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Extract (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_FromParsedXML(t *testing.T) {
	doc := `<project>
  <types><pous><pou name="Main"><body><FBD>
    <block localId="1" typeName="Valve" instanceName="V1">
      <inputVariables>
        <variable formalParameter="IN_EHSH_A"><connectionPointIn><connection refLocalId="9"/></connectionPointIn></variable>
      </inputVariables>
    </block>
    <block localId="2" typeName="Pump" instanceName="P1">
      <inputVariables>
        <variable formalParameter="RUN_EHS"><connectionPointIn><connection refLocalId="9"/></connectionPointIn></variable>
        <variable formalParameter="STOP_EHSL"><connectionPointIn><connection/></connectionPointIn></variable>
      </inputVariables>
    </block>
  </FBD></body></pou></pous></types>
</project>`
	tree, err := xmltree.ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	ext := failsafe.NewClassifier(failsafe.DefaultRules()).Extract(tree)
	if ext.Blocks != 2 {
		t.Errorf("Blocks = %d, want 2", ext.Blocks)
	}
	want := []failsafe.Record{
		{InstanceName: "V1", TypeName: "Valve", FailSafeType: failsafe.Normal},
		{InstanceName: "P1", TypeName: "Pump", FailSafeType: failsafe.Unknown},
	}
	if diff := cmp.Diff(want, ext.Records); diff != "" {
		t.Errorf("Records (-want +got):\n%s", diff)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	tree := document(
		blockNode("Valve", "V3", variable{"A_EHSL", true}),
		blockNode("Valve", "V1", variable{"A_EHSH", true}, variable{"B_EHSH", true}),
		blockNode("Valve", "V2", variable{"A_EHS", true}),
	)
	first := failsafe.Extract(tree)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, failsafe.Extract(tree)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestTally(t *testing.T) {
	got := failsafe.Tally([]failsafe.Record{
		{FailSafeType: failsafe.Normal},
		{FailSafeType: failsafe.Complex},
		{FailSafeType: failsafe.Normal},
	})
	want := []failsafe.Count{
		{Type: failsafe.Normal, N: 2},
		{Type: failsafe.Reversed, N: 0},
		{Type: failsafe.Unknown, N: 0},
		{Type: failsafe.Complex, N: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tally (-want +got):\n%s", diff)
	}
}
