// Package verify checks the statistical claims made about the reviewed
// papers against the reviewed-papers sheet and the bibliography.
package verify

import (
	"strings"
)

// ModelType classifies the language model a paper used.
type ModelType string

// Model types in report order.
const (
	ModelOpenWeight  ModelType = "open-weight"
	ModelProprietary ModelType = "proprietary"
	ModelCustom      ModelType = "custom"
	ModelUnknown     ModelType = "unknown"
)

// ModelTypes lists the claimed model types in report order.
var ModelTypes = []ModelType{ModelOpenWeight, ModelProprietary, ModelCustom}

var (
	customKeywords = []string{
		"trained from scratch", "from scratch", "custom architecture",
		"vae", "autoencoder", "encoder-decoder",
	}
	proprietaryKeywords = []string{
		"gpt-3.5", "gpt3.5", "gpt-4", "gpt4", "gpt-3", "gpt3",
		"chatgpt", "chat gpt", "openai", "babbage", "davinci",
	}
	openWeightKeywords = []string{
		"gpt-2", "gpt2", "llama", "llama2", "llama-2",
		"bert", "opt", "bart", "roberta", "distilbert",
		"t5", "albert", "electra", "baichuan", "ctrl",
	}
	recurrentKeywords = []string{"lstm", "rnn"}
	transformerHints  = []string{"bert", "gpt", "transformer"}
)

// ClassifyModel maps the free-text LLM column to a model type. Keyword lists
// are checked from the most specific to the least: custom, proprietary, then
// open-weight. Recurrent networks count as open-weight when a transformer is
// also mentioned and as custom otherwise.
func ClassifyModel(llm string) ModelType {
	text := strings.ToLower(strings.TrimSpace(llm))
	if text == "" || text == "nan" {
		return ModelUnknown
	}

	switch {
	case containsAny(text, customKeywords):
		return ModelCustom
	case containsAny(text, proprietaryKeywords):
		return ModelProprietary
	case containsAny(text, openWeightKeywords):
		return ModelOpenWeight
	case containsAny(text, recurrentKeywords) && containsAny(text, transformerHints):
		return ModelOpenWeight
	case containsAny(text, recurrentKeywords):
		return ModelCustom
	}
	return ModelUnknown
}

// VenueType classifies where a paper was published.
type VenueType string

// Venue types in report order.
const (
	VenueArxiv       VenueType = "arxiv"
	VenueTopTier     VenueType = "top-tier"
	VenueSpecialized VenueType = "specialized"
)

// VenueTypes lists the venue types in report order.
var VenueTypes = []VenueType{VenueArxiv, VenueTopTier, VenueSpecialized}

var topTierKeywords = []string{
	"acl", "neurips", "iclr", "icml", "aaai", "ijcai",
	"sigir", "emnlp", "naacl", "eacl", "coling",
	"ieee symposium on security", "sp ", "ccs", "usenix",
	"acm sigsac", "computer and communications security",
	"international conference on multimedia", "mm ", "acm mm",
}

// ClassifyVenue sorts a bibliography venue string. Preprints are arXiv
// papers, known conference names are top-tier and anything else, including
// an unknown venue, is specialized.
func ClassifyVenue(venue, entryType string) VenueType {
	v := strings.ToLower(venue)
	switch {
	case strings.Contains(v, "arxiv"),
		strings.EqualFold(entryType, "article") && strings.Contains(v, "preprint"):
		return VenueArxiv
	case containsAny(v, topTierKeywords):
		return VenueTopTier
	}
	return VenueSpecialized
}

// Period is a publication-year bucket.
type Period struct {
	Name     string
	From, To int
}

// Periods are the year buckets of the publication trend, in order.
var Periods = []Period{
	{Name: "2020", From: 2020, To: 2020},
	{Name: "2021-2022", From: 2021, To: 2022},
	{Name: "2023", From: 2023, To: 2023},
	{Name: "2024-2025", From: 2024, To: 2025},
}

// PeriodOf returns the bucket containing year.
func PeriodOf(year int) (Period, bool) {
	for _, p := range Periods {
		if year >= p.From && year <= p.To {
			return p, true
		}
	}
	return Period{}, false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
