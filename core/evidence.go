package core

// Scheme names one of the relevance scoring strategies the retrieval backend
// may attach to an evidence item. The set reflects an evolving backend schema,
// so not every scheme is present on every item; scores are therefore modeled
// as an optional-value mapping keyed by scheme rather than fixed fields.
type Scheme string

const (
	// SchemeEnsemble is the multi-model ensemble score.
	SchemeEnsemble Scheme = "ensemble"
	// SchemeHybrid is the merged vector+keyword score.
	SchemeHybrid Scheme = "hybrid"
	// SchemeRerank is the cross-encoder rerank score.
	SchemeRerank Scheme = "rerank"
	// SchemeSimilarity is the raw embedding similarity.
	SchemeSimilarity Scheme = "similarity"
	// SchemeVector is the vector-search score.
	SchemeVector Scheme = "vector"
	// SchemeKeyword is the keyword-search score.
	SchemeKeyword Scheme = "keyword"
)

// EvidenceItem is one retrieved passage under consideration for an answer.
// Scores holds zero or more scheme-scored relevance values in [0,1]; absence
// of a scheme must never be treated as a score of zero. Origin is the
// provenance tag of the retrieval path that produced the item (vector,
// keyword, hybrid, ...). UsedInAnswer is true when the generation step
// actually cited the passage.
type EvidenceItem struct {
	ID           string             `json:"id"`
	Content      string             `json:"content"`
	FullContent  string             `json:"full_content,omitempty"`
	Scores       map[Scheme]float64 `json:"scores,omitempty"`
	Origin       string             `json:"origin,omitempty"`
	UsedInAnswer bool               `json:"used_in_answer"`
}

// Score returns the value for a scheme and whether it is present.
func (i EvidenceItem) Score(s Scheme) (float64, bool) {
	v, ok := i.Scores[s]
	return v, ok
}

// WebResult is an auxiliary external search hit attached alongside document
// evidence.
type WebResult struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url"`
	Score   float64 `json:"score,omitempty"`
}

// TokenUsage is the token accounting triple reported by the backend. It is
// display-only; Total is expected to equal Input+Output but this layer does
// not enforce it.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// EvidencePackage bundles everything that justifies one assistant answer:
// the candidate retrieval results, the chunks actually handed to generation,
// optional web search hits and token accounting.
type EvidencePackage struct {
	SearchMetadata map[string]any `json:"search_metadata,omitempty"`
	Results        []EvidenceItem `json:"results,omitempty"`
	UsedChunks     []EvidenceItem `json:"used_chunks,omitempty"`
	WebResults     []WebResult    `json:"web_results,omitempty"`
	TokenUsage     *TokenUsage    `json:"token_usage,omitempty"`
}

// IsEmpty reports whether the package carries no displayable data.
func (p *EvidencePackage) IsEmpty() bool {
	return p == nil ||
		(len(p.Results) == 0 && len(p.UsedChunks) == 0 && len(p.WebResults) == 0 && p.TokenUsage == nil)
}
