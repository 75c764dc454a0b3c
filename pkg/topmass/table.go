package topmass

import "github.com/ChrisMcGann/GCMSCompare/pkg/core"

// Pair is one line of a top-mass table. A nil side renders blank.
type Pair struct {
	Experimental *Mass `json:"experimental"`
	Reference    *Mass `json:"reference"`
}

// SampleTable lists the top experimental and reference masses of one sample at one row.
type SampleTable struct {
	Sample   string `json:"sample"`
	Compound string `json:"compound"`
	Pairs    []Pair `json:"pairs"`
}

// Table builds a SampleTable for every sample of the row, in sample order.
func Table(row core.AlignedRow) []SampleTable {
	tables := make([]SampleTable, 0, len(row.Samples))

	for _, id := range row.Samples {
		table := SampleTable{Sample: id}

		experimental := Rank(row.Spectra[id])
		var reference []Mass
		if peak := row.Peaks[id]; peak != nil {
			table.Compound = peak.Name
			reference = RankReference(peak.Reference)
		}

		table.Pairs = zipLongest(experimental, reference)
		tables = append(tables, table)
	}

	return tables
}

func zipLongest(experimental, reference []Mass) []Pair {
	n := max(len(experimental), len(reference))
	pairs := make([]Pair, n)
	for i := range n {
		if i < len(experimental) {
			pairs[i].Experimental = &experimental[i]
		}
		if i < len(reference) {
			pairs[i].Reference = &reference[i]
		}
	}
	return pairs
}
