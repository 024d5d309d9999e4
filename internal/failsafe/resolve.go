package failsafe

// Resolve collapses observations to one record per instance name, in order
// of first appearance. A single observation passes through unchanged; two or
// more become Complex, keeping the type name of the first, whether or not
// their classifications agree.
func Resolve(observations []Observation) []Record {
	index := make(map[string]int)
	var groups [][]Observation
	for _, o := range observations {
		i, ok := index[o.InstanceName]
		if !ok {
			i = len(groups)
			index[o.InstanceName] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], o)
	}

	records := make([]Record, 0, len(groups))
	for _, g := range groups {
		r := Record(g[0])
		if len(g) > 1 {
			r.FailSafeType = Complex
		}
		records = append(records, r)
	}
	return records
}
