package failsafe

import "failsafe/internal/xmltree"

// BlockKey is the element name that marks a block anywhere in the tree.
const BlockKey = "block"

// Locate returns every block node in depth-first document order. A block
// entry holding several blocks contributes each of them in sibling order.
// Block subtrees are not searched for further blocks.
func Locate(tree xmltree.Node) []xmltree.Node {
	var blocks []xmltree.Node
	walk(tree, func(group xmltree.Node) {
		blocks = append(blocks, group.Items()...)
	})
	return blocks
}

func walk(n xmltree.Node, found func(xmltree.Node)) {
	switch n.Kind() {
	case xmltree.KindMapping:
		for _, e := range n.Entries() {
			if e.Key == BlockKey {
				found(e.Value)
				continue
			}
			if e.Value.IsContainer() {
				walk(e.Value, found)
			}
		}
	case xmltree.KindSequence:
		for _, item := range n.Items() {
			walk(item, found)
		}
	case xmltree.KindScalar:
		// leaf
	}
}
