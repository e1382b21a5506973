package latex

// Preset names accepted by PresetNamed.
const (
	PresetLongtable = "longtable"
	PresetTable     = "table"
)

// Preset is a column mapping plus the tables rendered from it.
type Preset struct {
	Columns ColumnMap
	Tables  []Table
}

// LongtablePreset renders the seven-column results table from the current
// sheet layout.
func LongtablePreset() Preset {
	return Preset{
		Columns: ColumnMap{
			"number":                              0,
			"title":                               1,
			"Type":                                2,
			"LLM":                                 4,
			"Main strengths":                      6,
			"Main weaknesses":                     7,
			"dataset":                             8,
			"result":                              11,
			"pipline method used":                 13,
			"context aware":                       14,
			"categ context":                       15,
			"representation context":              16,
			"context usage in method detail text": 17,
		},
		Tables: []Table{
			{
				Name:    "results",
				Caption: "Summary of Results from Reviewed Papers",
				Label:   "results_summary",
				Columns: []string{"LLM", "dataset", "result", "context aware", "categ context", "representation context"},
				Layout:  LayoutLongtable,
			},
		},
	}
}

// TablePreset renders five table* floats from the earlier, wider sheet
// layout.
func TablePreset() Preset {
	return Preset{
		Columns: ColumnMap{
			"number":                              0,
			"title":                               1,
			"Type":                                2,
			"LLM":                                 5,
			"Main strengths":                      8,
			"Main weaknesses":                     9,
			"dataset":                             10,
			"result":                              13,
			"pipline method used":                 15,
			"context aware":                       16,
			"categ context":                       17,
			"representation context":              18,
			"context usage in method detail text": 19,
		},
		Tables: []Table{
			{
				Name:    "results",
				Caption: "Summary of Results from Reviewed Papers",
				Label:   "results_summary",
				Columns: []string{"result"},
				Layout:  LayoutTable,
			},
			{
				Name:    "model_dataset",
				Caption: "Models and Datasets Used in Reviewed Papers",
				Label:   "models_datasets",
				Columns: []string{"LLM", "dataset"},
				Layout:  LayoutTable,
			},
			{
				Name:    "context_fields",
				Caption: "Context-Related Fields in Reviewed Papers",
				Label:   "context_fields",
				Columns: []string{"context aware", "categ context", "representation context", "context usage in method detail text"},
				Layout:  LayoutTable,
			},
			{
				Name:    "category_strengths_weaknesses",
				Caption: "Categories, Main Strengths, and Weaknesses of Reviewed Papers",
				Label:   "category_strengths_weaknesses",
				Columns: []string{"Type", "Main strengths", "Main weaknesses"},
				Layout:  LayoutTable,
			},
			{
				Name:    "approach",
				Caption: "Approach/Pipeline Method Used in Reviewed Papers",
				Label:   "approach_method",
				Columns: []string{"pipline method used"},
				Layout:  LayoutTable,
			},
		},
	}
}

// PresetNamed returns the preset with the given name.
func PresetNamed(name string) (Preset, bool) {
	switch name {
	case PresetLongtable:
		return LongtablePreset(), true
	case PresetTable:
		return TablePreset(), true
	}
	return Preset{}, false
}

// PresetNames lists the accepted preset names.
func PresetNames() []string {
	return []string{PresetLongtable, PresetTable}
}
