package verify

// Claims are the figures the draft states, checked by the report.
type Claims struct {
	// Document names the draft the claims come from.
	Document string `mapstructure:"document"`
	// Trends is the claimed paper count per period name.
	Trends map[string]int `mapstructure:"trends"`
	// TotalPapers is the claimed number of papers across all periods.
	TotalPapers int `mapstructure:"total_papers"`
	// Models is the claimed percentage per model type.
	Models map[string]float64 `mapstructure:"models"`
	// Venues is the claimed percentage per venue type.
	Venues map[string]float64 `mapstructure:"venues"`
	// Tolerance is the allowed distance, in percentage points, between a
	// claimed and an actual share.
	Tolerance float64 `mapstructure:"tolerance"`
}

// DefaultClaims returns the figures of the RQ1 literature-state section.
func DefaultClaims() Claims {
	return Claims{
		Document: "sections/rq1_literature_state.tex",
		Trends: map[string]int{
			"2020":      2,
			"2021-2022": 3,
			"2023":      4,
			"2024-2025": 17,
		},
		TotalPapers: 26,
		Models: map[string]float64{
			string(ModelOpenWeight):  80,
			string(ModelProprietary): 12,
			string(ModelCustom):      8,
		},
		Venues: map[string]float64{
			string(VenueArxiv):       60,
			string(VenueTopTier):     25,
			string(VenueSpecialized): 15,
		},
		Tolerance: 5,
	}
}

// Within reports whether actual lies strictly inside the tolerance band
// around claimed.
func (c Claims) Within(claimed, actual float64) bool {
	d := claimed - actual
	if d < 0 {
		d = -d
	}
	return d < c.Tolerance
}
