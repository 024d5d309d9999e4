package failsafe

import "failsafe/internal/xmltree"

// Extraction is the outcome of one pass over a document.
type Extraction struct {
	Blocks       int
	Observations []Observation
	Records      []Record
}

// Empty reports whether no qualifying blocks were found.
func (e Extraction) Empty() bool { return len(e.Records) == 0 }

// Extract runs Locate, Classify and Resolve with DefaultRules.
func Extract(tree xmltree.Node) []Record {
	return defaultClassifier.Extract(tree).Records
}

// Extract runs the full pipeline over tree.
func (c *Classifier) Extract(tree xmltree.Node) Extraction {
	blocks := Locate(tree)
	var obs []Observation
	for _, b := range blocks {
		obs = append(obs, c.Classify(b)...)
	}
	return Extraction{
		Blocks:       len(blocks),
		Observations: obs,
		Records:      Resolve(obs),
	}
}

// Count is the number of records carrying one classification.
type Count struct {
	Type FailSafeType `json:"type"`
	N    int          `json:"count"`
}

// Tally counts records per classification, in the order of Types.
func Tally(records []Record) []Count {
	n := make(map[FailSafeType]int, len(Types))
	for _, r := range records {
		n[r.FailSafeType]++
	}
	out := make([]Count, 0, len(Types))
	for _, t := range Types {
		out = append(out, Count{Type: t, N: n[t]})
	}
	return out
}
